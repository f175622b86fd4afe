package mathlayout

import (
	"testing"

	"github.com/quill-lang/quill/content"
	"github.com/quill-lang/quill/value"
)

func symbol(t *testing.T, text, class string) *content.Content {
	t.Helper()
	schema := content.StdRegistry().Lookup("math.symbol")
	fields := map[string]value.Value{"text": value.String(text)}
	if class != "" {
		fields["class"] = value.String(class)
	}
	return content.New(schema, fields)
}

func equation(t *testing.T, body *content.Content) *content.Content {
	t.Helper()
	schema := content.StdRegistry().Lookup("equation")
	return content.New(schema, map[string]value.Value{"body": body})
}

func TestLayoutEquationSimpleRow(t *testing.T) {
	body := content.Sequence(symbol(t, "a", ""), symbol(t, "+", "bin"), symbol(t, "b", ""))
	eq := equation(t, body)

	frame := LayoutEquation(eq, nil)
	if frame.Size.W <= 0 {
		t.Fatal("expected nonzero width")
	}
	if len(frame.Items) != 3 {
		t.Fatalf("expected 3 glyph items, got %d", len(frame.Items))
	}
}

func TestSpacingBetweenBinIsWiderThanOrd(t *testing.T) {
	emSize := 10.0
	ordOrd := SpacingBetween(ClassOrd, ClassOrd, StyleText, emSize)
	ordBin := SpacingBetween(ClassOrd, ClassBin, StyleText, emSize)
	if ordBin <= ordOrd {
		t.Fatalf("expected bin spacing (%v) to exceed ord spacing (%v)", ordBin, ordOrd)
	}
}

func TestScriptStyleShrinksScale(t *testing.T) {
	if StyleScript.Scale() >= StyleText.Scale() {
		t.Fatal("expected script style to scale smaller than text style")
	}
	if StyleScriptScript.Scale() >= StyleScript.Scale() {
		t.Fatal("expected script-script to scale smaller than script")
	}
	if StyleScriptScript.Smaller() != StyleScriptScript {
		t.Fatal("expected script-script to be the smallest style")
	}
}

func TestLayoutFracStacksNumeratorOverDenominator(t *testing.T) {
	schema := content.StdRegistry().Lookup("math.frac")
	num := content.Sequence(symbol(t, "1", ""))
	denom := content.Sequence(symbol(t, "2", ""))
	frac := content.New(schema, map[string]value.Value{"num": num, "denom": denom})

	ctx := NewContext(nil)
	frag := ctx.Layout(frac)
	if frag.Kind != FragFrame || frag.Frame == nil {
		t.Fatal("expected a frame fragment")
	}
	if frag.Frame.Size.H <= 0 {
		t.Fatal("expected nonzero height")
	}
	if len(frag.Frame.Items) != 3 {
		t.Fatalf("expected numerator + rule + denominator, got %d items", len(frag.Frame.Items))
	}
}

func TestMatrixTwoByTwoIsEnclosedByDelimiters(t *testing.T) {
	mk := func(v string) Cell {
		return Cell{Frame: Row([]Fragment{Glyph(v, ClassOrd, 10)}, StyleText, 10)}
	}
	rows := [][]Cell{
		{mk("1"), mk("2")},
		{mk("3"), mk("4")},
	}
	frame := Matrix(rows, ParenDelimiter, Augment{}, 10)
	if frame.Size.W <= 0 || frame.Size.H <= 0 {
		t.Fatal("expected nonzero matrix frame")
	}
	// Two delimiter glyphs plus the body frame.
	if len(frame.Items) != 3 {
		t.Fatalf("expected 2 delimiters + body frame, got %d", len(frame.Items))
	}
}

func TestMatrixAugmentationAddsLines(t *testing.T) {
	mk := func(v string) Cell {
		return Cell{Frame: Row([]Fragment{Glyph(v, ClassOrd, 10)}, StyleText, 10)}
	}
	rows := [][]Cell{
		{mk("1"), mk("0")},
		{mk("0"), mk("1")},
	}
	plain := Matrix(rows, ParenDelimiter, Augment{}, 10)
	augmented := Matrix(rows, ParenDelimiter, Augment{VLines: []int{1}}, 10)
	// Augmentation lines are drawn inside the body subframe, which sits
	// between the two delimiter glyphs.
	if len(augmented.Items[1].Sub.Items) <= len(plain.Items[1].Sub.Items) {
		t.Fatal("expected augmentation to add at least one item")
	}
}

func TestStretchEnclosesInnerHeight(t *testing.T) {
	inner := Row([]Fragment{Glyph("x", ClassOrd, 20)}, StyleText, 20)
	framed := Stretch(ParenDelimiter, inner, 20)
	if framed.Size.H < inner.Size.H {
		t.Fatal("expected the stretched delimiter to be at least as tall as its contents")
	}
}
