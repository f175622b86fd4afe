package syntax

import "testing"

func TestParseMarkupTextRoundTrips(t *testing.T) {
	src := "hello world"
	tree, errs := Parse(src)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if got := tree.Root().Text(); got != src {
		t.Fatalf("text mismatch: got %q want %q", got, src)
	}
}

func TestParseHeading(t *testing.T) {
	tree, _ := Parse("= Title\nbody")
	root := tree.Root()
	kids := root.NamedChildren()
	if len(kids) == 0 || kids[0].Kind() != KindHeading {
		t.Fatalf("expected a heading as first child, got %v", kids)
	}
}

func TestParseCodeEntryBindsLet(t *testing.T) {
	tree, _ := Parse("#let x = 1")
	root := tree.Root()
	kids := root.NamedChildren()
	if len(kids) == 0 || kids[0].Kind() != KindCodeBlock {
		t.Fatalf("expected a code block, got %v", kids)
	}
}

func TestClassifyDefaultsToUnsafe(t *testing.T) {
	r := classify(Kind(9999))
	if r.category != CategoryUnsafe {
		t.Fatalf("unknown kind should default to CategoryUnsafe, got %v", r.category)
	}
}

func TestReparseSafeTextEdit(t *testing.T) {
	tree, _ := Parse("hello world")
	edited := Reparse(tree, Edit{Start: 0, End: 5, NewText: "howdy"})
	if edited.Source != "howdy world" {
		t.Fatalf("source mismatch: %q", edited.Source)
	}
	if edited.Root().Text() != edited.Source {
		t.Fatalf("reparsed tree text does not cover full source")
	}
}

// leavesText concatenates every leaf's source slice in traversal order.
func leavesText(n *GreenNode) string {
	if n.IsLeaf() {
		return n.Text()
	}
	var out string
	for _, c := range n.Children() {
		out += leavesText(c)
	}
	return out
}

// checkLengths asserts every node's recorded length equals the sum of
// its children's lengths (leaves: the length of their text).
func checkLengths(t *testing.T, n *GreenNode) {
	t.Helper()
	if n.IsLeaf() {
		if n.Len() != uint32(len(n.Text())) {
			t.Errorf("leaf %v: len %d != text length %d", n.Kind(), n.Len(), len(n.Text()))
		}
		return
	}
	var sum uint32
	for _, c := range n.Children() {
		checkLengths(t, c)
		sum += c.Len()
	}
	if n.Len() != sum {
		t.Errorf("node %v: len %d != child sum %d", n.Kind(), n.Len(), sum)
	}
}

// greensEqual compares two trees structurally, ignoring internal
// sharing and attached error messages: same kind, same length, same
// leaf text, same children.
func greensEqual(a, b *GreenNode) bool {
	if a.Kind() != b.Kind() || a.Len() != b.Len() || a.IsLeaf() != b.IsLeaf() {
		return false
	}
	if a.IsLeaf() {
		return a.Text() == b.Text()
	}
	if len(a.Children()) != len(b.Children()) {
		return false
	}
	for i, c := range a.Children() {
		if !greensEqual(c, b.Children()[i]) {
			return false
		}
	}
	return true
}

func TestGreenTreeFidelityAndLengthCoherence(t *testing.T) {
	sources := []string{
		"hello world",
		"= A\n\nHello world.",
		"== Sub *bold* _emph_ text",
		"#let x = 1\n#x",
		"#if true [yes] else [no]",
		"$x + y$",
		"// comment\ntext after",
		"/* block\ncomment */ text",
		"text with \\u{1F600} escape",
		"a\n\nb\n\nc",
		"",
	}
	for _, src := range sources {
		tree, _ := Parse(src)
		if got := leavesText(tree.Green); got != src {
			t.Errorf("fidelity: leaves %q != source %q", got, src)
		}
		checkLengths(t, tree.Green)
		tree.Release()
	}
}

// TestReparseEquivalence is spec scenario 3: replacing one word inside
// a paragraph must produce a tree equal, as a green tree, to parsing
// the whole new source from scratch.
func TestReparseEquivalence(t *testing.T) {
	edits := []struct {
		src  string
		edit Edit
	}{
		{"= A\n\nHello world.", Edit{Start: 11, End: 16, NewText: "there"}},
		{"hello world", Edit{Start: 6, End: 11, NewText: "moon"}},
		{"#let x = 1\n#x", Edit{Start: 9, End: 10, NewText: "42"}},
		{"a b c", Edit{Start: 2, End: 3, NewText: ""}},
		{"= Title\nbody", Edit{Start: 8, End: 12, NewText: "new body text"}},
	}
	for _, tc := range edits {
		old, _ := Parse(tc.src)
		incr := Reparse(old, tc.edit)
		want := tc.edit.apply(tc.src)
		if incr.Source != want {
			t.Fatalf("%q: reparsed source %q != %q", tc.src, incr.Source, want)
		}
		fresh, _ := Parse(want)
		if !greensEqual(incr.Green, fresh.Green) {
			t.Errorf("%q + %+v: incremental tree differs from full parse", tc.src, tc.edit)
		}
		if got := leavesText(incr.Green); got != want {
			t.Errorf("%q: reparse fidelity: %q != %q", tc.src, got, want)
		}
		checkLengths(t, incr.Green)
		old.Release()
		incr.Release()
		fresh.Release()
	}
}
