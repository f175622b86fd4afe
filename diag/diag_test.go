package diag

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSinkFailedOnlyOnErrors(t *testing.T) {
	var s Sink
	require.False(t, s.Failed())

	s.Warn(New(KindLayoutError, Span{}, "region overflowed"))
	require.False(t, s.Failed(), "warnings must never fail a compilation")
	require.Len(t, s.Warnings(), 1)

	s.Error(New(KindTypeError, Span{File: "main.typ", Start: 3, End: 8}, "expected integer, found string"))
	require.True(t, s.Failed())
	require.Len(t, s.Errors(), 1)
}

func TestJoinCombinesAllErrors(t *testing.T) {
	var s Sink
	s.Error(New(KindAccessError, Span{}, "unknown identifier"))
	s.Error(New(KindAssertError, Span{}, "assertion failed"))

	err := s.Join()
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown identifier")
	require.Contains(t, err.Error(), "assertion failed")
}

func TestTakeCapsCascade(t *testing.T) {
	var s Sink
	for i := 0; i < 10; i++ {
		s.Error(New(KindTypeError, Span{}, "err"))
	}
	require.Len(t, s.Take(3), 3)
}

func TestErrorIDsAreUniqueAndOrdered(t *testing.T) {
	a := New(KindParseError, Span{}, "a")
	b := New(KindParseError, Span{}, "b")
	require.NotEqual(t, a.ID(), b.ID())
	require.LessOrEqual(t, a.ID(), b.ID())
}

func TestWithHintDoesNotMutateOriginal(t *testing.T) {
	base := New(KindDomainError, Span{}, "negative radius")
	withHint := base.WithHint("radius must be >= 0")
	require.Empty(t, base.Hints)
	require.Equal(t, []string{"radius must be >= 0"}, withHint.Hints)
}
