package value

import (
	"fmt"
	"math/big"
	"strings"
)

// maxDecimalDigits is the significant-digit capacity a Decimal carries,
// per spec.md §3 ("decimal (28-29 significant digits, no NaN/inf)").
// The actual bound is on the unscaled magnitude: 2^96-1, the 96-bit
// mantissa that gives exactly that 28-29 digit range. No ecosystem
// decimal library appeared anywhere in the retrieved example pack (see
// DESIGN.md), so this is built directly on math/big's arbitrary-
// precision integers: a Decimal is an unscaled big.Int paired with a
// base-10 scale, the same fixed-point shape decimal libraries use
// internally.
const maxDecimalDigits = 29

// decimalMaxUnscaled is 2^96-1 (79228162514264337593543950335), the
// largest unscaled magnitude a Decimal may carry.
var decimalMaxUnscaled = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 96), big.NewInt(1))

// Decimal is a fixed-point base-10 number: value == unscaled * 10^-scale.
// It never carries NaN or infinity; operations that would exceed
// maxDecimalDigits significant digits return an error instead.
type Decimal struct {
	unscaled *big.Int
	scale    int32 // number of digits after the decimal point
}

func (Decimal) Kind() Kind { return KindDecimal }

// ParseDecimal parses a base-10 literal such as "0.1" or "-3.50" into a
// Decimal, preserving the literal's scale exactly (spec.md §8 "Decimal
// round-trip": parsing then formatting preserves scale, so "3.50" must
// format back as "3.50", not "3.5").
func ParseDecimal(s string) (Decimal, error) {
	neg := false
	rest := s
	if strings.HasPrefix(rest, "-") {
		neg = true
		rest = rest[1:]
	} else if strings.HasPrefix(rest, "+") {
		rest = rest[1:]
	}

	intPart, fracPart, hasFrac := strings.Cut(rest, ".")
	if intPart == "" && (!hasFrac || fracPart == "") {
		return Decimal{}, fmt.Errorf("invalid decimal literal %q", s)
	}
	digits := intPart + fracPart
	if digits == "" {
		digits = "0"
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return Decimal{}, fmt.Errorf("invalid decimal literal %q", s)
		}
	}
	unscaled := new(big.Int)
	unscaled.SetString(digits, 10)
	if unscaled.Cmp(decimalMaxUnscaled) > 0 {
		return Decimal{}, fmt.Errorf("decimal literal %q exceeds %d significant digits", s, maxDecimalDigits)
	}
	if neg {
		unscaled.Neg(unscaled)
	}
	return Decimal{unscaled: unscaled, scale: int32(len(fracPart))}, nil
}

// DecimalFromInt converts an integer to a Decimal with scale 0.
func DecimalFromInt(n int64) Decimal {
	return Decimal{unscaled: big.NewInt(n), scale: 0}
}

func (d Decimal) rescaleTo(scale int32) *big.Int {
	if d.unscaled == nil {
		return big.NewInt(0)
	}
	diff := scale - d.scale
	if diff == 0 {
		return new(big.Int).Set(d.unscaled)
	}
	factor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(diff)), nil)
	return new(big.Int).Mul(d.unscaled, factor)
}

// Add returns d+o, erroring if the result would exceed maxDecimalDigits
// significant digits ("overflow is a typed error", spec.md §3/§9).
func (d Decimal) Add(o Decimal) (Decimal, error) {
	scale := d.scale
	if o.scale > scale {
		scale = o.scale
	}
	sum := new(big.Int).Add(d.rescaleTo(scale), o.rescaleTo(scale))
	return checkedDecimal(sum, scale)
}

// Sub returns d-o with the same overflow behavior as Add.
func (d Decimal) Sub(o Decimal) (Decimal, error) {
	scale := d.scale
	if o.scale > scale {
		scale = o.scale
	}
	diff := new(big.Int).Sub(d.rescaleTo(scale), o.rescaleTo(scale))
	return checkedDecimal(diff, scale)
}

// Mul returns d*o with the same overflow behavior as Add.
func (d Decimal) Mul(o Decimal) (Decimal, error) {
	scale := d.scale + o.scale
	prod := new(big.Int).Mul(d.unscaled, o.unscaled)
	return checkedDecimal(prod, scale)
}

// Neg returns -d.
func (d Decimal) Neg() Decimal {
	return Decimal{unscaled: new(big.Int).Neg(d.unscaled), scale: d.scale}
}

// decimalDivExtraScale is the number of extra fractional digits a
// quotient carries beyond its operands' own scale, since division can
// produce a non-terminating expansion (1/3) that a fixed-point type has
// no way to represent exactly. Every decimal library built on the same
// unscaled-integer-plus-scale representation (what original_source's
// `checked_div` sits on top of) takes this fixed-extra-precision-then-
// truncate approach rather than ever rounding to float.
const decimalDivExtraScale = 16

// Div returns d/o, erroring on division by zero (rather than producing
// Inf, which spec.md §3 forbids for Decimal: "no NaN/inf") or on
// overflowing maxDecimalDigits significant digits.
func (d Decimal) Div(o Decimal) (Decimal, error) {
	if o.unscaled == nil || o.unscaled.Sign() == 0 {
		return Decimal{}, fmt.Errorf("decimal division by zero")
	}
	num := d.unscaled
	if num == nil {
		num = big.NewInt(0)
	}
	scale := d.scale
	if o.scale > scale {
		scale = o.scale
	}
	scale += decimalDivExtraScale

	exp := int64(scale) + int64(o.scale) - int64(d.scale)
	if exp < 0 {
		exp = 0
	}
	numerator := new(big.Int).Mul(num, new(big.Int).Exp(big.NewInt(10), big.NewInt(exp), nil))
	quot := new(big.Int).Quo(numerator, o.unscaled)
	return checkedDecimal(quot, scale)
}

func checkedDecimal(unscaled *big.Int, scale int32) (Decimal, error) {
	if new(big.Int).Abs(unscaled).Cmp(decimalMaxUnscaled) > 0 {
		return Decimal{}, fmt.Errorf("decimal overflow: result exceeds %d significant digits", maxDecimalDigits)
	}
	return Decimal{unscaled: unscaled, scale: scale}, nil
}

// Float64 converts to the nearest IEEE-754 double, the explicit,
// precision-discarding `float(x)` cast spec.md §4.7 requires.
func (d Decimal) Float64() float64 {
	f := new(big.Float).SetInt(d.unscaled)
	denom := new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(d.scale)), nil))
	f.Quo(f, denom)
	out, _ := f.Float64()
	return out
}

// Repr formats the decimal preserving its original scale (trailing
// zeros included), matching spec.md §8's round-trip invariant.
func (d Decimal) Repr() string {
	if d.unscaled == nil {
		return "decimal(\"0\")"
	}
	neg := d.unscaled.Sign() < 0
	digits := new(big.Int).Abs(d.unscaled).String()
	for int32(len(digits)) <= d.scale {
		digits = "0" + digits
	}
	var out string
	if d.scale == 0 {
		out = digits
	} else {
		cut := len(digits) - int(d.scale)
		out = digits[:cut] + "." + digits[cut:]
	}
	if neg {
		out = "-" + out
	}
	return fmt.Sprintf("decimal(%q)", out)
}

func (d Decimal) Equal(o Value) bool {
	od, ok := o.(Decimal)
	if !ok {
		return false
	}
	c, _ := d.Compare(od)
	return c == 0
}

// Compare implements numeric ordering across differing scales.
func (d Decimal) Compare(o Decimal) (int, bool) {
	scale := d.scale
	if o.scale > scale {
		scale = o.scale
	}
	return d.rescaleTo(scale).Cmp(o.rescaleTo(scale)), true
}
