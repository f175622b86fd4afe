package numbering

import "testing"

func TestApplyPatternExamples(t *testing.T) {
	cases := []struct {
		pattern string
		numbers []int
		want    string
	}{
		{"1.a", []int{3, 2}, "3.b"},
		{"I", []int{4}, "IV"},
		{"*", []int{7}, "**"},
		{"1)", []int{1, 2, 3}, "1)"},
	}
	for _, c := range cases {
		p, err := Parse(c.pattern)
		if err != nil {
			t.Fatalf("Parse(%q): %v", c.pattern, err)
		}
		got := p.Apply(c.numbers...)
		if got != c.want {
			t.Errorf("Apply(%q, %v) = %q, want %q", c.pattern, c.numbers, got, c.want)
		}
	}
}

func TestApplyRepeatsLastPieceWhenNumbersExceedPieces(t *testing.T) {
	p, err := Parse("1.a")
	if err != nil {
		t.Fatal(err)
	}
	got := p.Apply(1, 2, 3)
	if got != "1.b.c" {
		t.Errorf("got %q, want 1.b.c", got)
	}
}

func TestInvalidPattern(t *testing.T) {
	if _, err := Parse(" - "); err == nil {
		t.Fatal("expected error for pattern with no counting symbol")
	}
}

func TestStringRoundTrip(t *testing.T) {
	for _, s := range []string{"1.a.i", "(I)", "1)"} {
		p, err := Parse(s)
		if err != nil {
			t.Fatal(err)
		}
		if got := p.String(); got != s {
			t.Errorf("String() round trip: Parse(%q).String() = %q", s, got)
		}
	}
}
