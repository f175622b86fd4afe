package value

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecimalRoundTrip(t *testing.T) {
	for _, s := range []string{"0.1", "3.50", "-79228162514264337593543950335", "0"} {
		d, err := ParseDecimal(s)
		require.NoError(t, err)
		require.Contains(t, d.Repr(), s)
	}
}

func TestDecimalArithmeticIsExact(t *testing.T) {
	a, err := ParseDecimal("0.1")
	require.NoError(t, err)
	b, err := ParseDecimal("0.2")
	require.NoError(t, err)
	sum, err := a.Add(b)
	require.NoError(t, err)
	require.Equal(t, `decimal("0.3")`, sum.Repr())
}

func TestDecimalVsFloatPrecisionDivergence(t *testing.T) {
	floatSum := Float(0.1) + Float(0.2)
	require.NotEqual(t, Float(0.3), floatSum, "float addition of 0.1+0.2 must NOT equal 0.3 exactly")

	a, _ := ParseDecimal("0.1")
	b, _ := ParseDecimal("0.2")
	sum, err := a.Add(b)
	require.NoError(t, err)
	three, _ := ParseDecimal("0.3")
	require.True(t, sum.Equal(three))
}

func TestDecimalOverflowIsTypedError(t *testing.T) {
	max, err := ParseDecimal("79228162514264337593543950335")
	require.NoError(t, err)
	_, err = max.Add(DecimalFromInt(1))
	require.Error(t, err)
}

func TestContentEqualityIgnoresNothingHere_ArrayDictEquality(t *testing.T) {
	a := NewArray(Int(1), String("x"))
	b := NewArray(Int(1), String("x"))
	c := NewArray(Int(2), String("x"))
	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c))

	d1 := NewDict().With("a", Int(1)).With("b", Int(2))
	d2 := NewDict().With("b", Int(2)).With("a", Int(1))
	require.True(t, d1.Equal(d2), "dict equality should ignore insertion order")
}

func TestArrayLexicographicCompare(t *testing.T) {
	a := NewArray(Int(1), Int(2))
	b := NewArray(Int(1), Int(3))
	c, ok := a.Compare(b)
	require.True(t, ok)
	require.Equal(t, -1, c)
}

func TestStringOrderingIsUnicodeScalar(t *testing.T) {
	c, ok := Compare(String("abc"), String("abd"))
	require.True(t, ok)
	require.Equal(t, -1, c)
}

func TestPromotionLatticeIntToFloat(t *testing.T) {
	sum, err := Add(Int(2), Float(1.5))
	require.NoError(t, err)
	require.Equal(t, Float(3.5), sum)
}

func TestLengthRejectsFloatCoercion(t *testing.T) {
	l := Length{Abs: 10}
	_, err := Add(l, Float(1))
	require.Error(t, err, "length must not silently coerce with float")
}

func TestArrayPushIsCopyOnWrite(t *testing.T) {
	a := NewArray(Int(1))
	b := a.Push(Int(2))
	require.Equal(t, 1, a.Len())
	require.Equal(t, 2, b.Len())
}

func TestGraphemeAwareStringLen(t *testing.T) {
	s := String("café")
	require.Equal(t, 4, s.Len())
}

func TestVersionCompare(t *testing.T) {
	require.Equal(t, -1, Version{1, 0}.Compare(Version{1, 0, 1}))
	require.Equal(t, 0, Version{1, 0}.Compare(Version{1, 0, 0}))
}
