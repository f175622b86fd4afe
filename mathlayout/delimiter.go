package mathlayout

import "github.com/quill-lang/quill/layout"

// verticalPadding mirrors matrix.rs's VERTICAL_PADDING ratio (0.1): a
// stretched delimiter encloses the inner frame's height plus this
// fraction of it on top and bottom, so the glyph doesn't touch the
// content it brackets.
const verticalPadding = 0.1

// Delimiter is a stretchable bracket glyph pair: spec.md §4.11
// "stretchable delimiters select a variant sized to enclose the inner
// frame plus vertical padding, centered on the math axis".
type Delimiter struct {
	Open, Close string
}

// axisHeightRatio approximates the math axis (the glyph baseline +
// axis height) as a fraction of the font's em size; real font metrics
// would supply this, but spec.md's Non-goals exclude byte-exact
// reference-renderer reproduction.
const axisHeightRatio = 0.25

// Stretch sizes d's open/close glyphs to enclose inner (a frame of
// height inner.Size.H with baseline inner.Baseline) plus vertical
// padding, and returns a frame with inner centered on the math axis
// between the two delimiter glyphs.
func Stretch(d Delimiter, inner *layout.Frame, emSizePt float64) *layout.Frame {
	innerH := inner.Size.H
	pad := innerH * verticalPadding
	delimH := innerH + 2*pad
	axis := emSizePt * axisHeightRatio

	delimWidth := emSizePt * 0.35
	out := layout.NewFrame(layout.Size{W: delimWidth*2 + inner.Size.W, H: delimH})
	baseline := delimH/2 + axis
	out.Baseline = baseline
	out.HasBase = true

	if d.Open != "" {
		out.Push(layout.Point{X: 0, Y: 0}, layout.Item{
			Kind:  layout.ItemGlyphRun,
			Glyph: layout.GlyphRun{Text: d.Open, Advance: delimWidth},
			Shape: layout.Shape{Kind: "delimiter", Size: layout.Size{W: delimWidth, H: delimH}},
		})
	}

	innerY := pad
	if inner.HasBase {
		innerY = baseline - inner.Baseline
	}
	out.PushFrame(layout.Point{X: delimWidth, Y: innerY}, inner)

	if d.Close != "" {
		out.Push(layout.Point{X: delimWidth + inner.Size.W, Y: 0}, layout.Item{
			Kind:  layout.ItemGlyphRun,
			Glyph: layout.GlyphRun{Text: d.Close, Advance: delimWidth},
			Shape: layout.Shape{Kind: "delimiter", Size: layout.Size{W: delimWidth, H: delimH}},
		})
	}
	return out
}

// ParenDelimiter, BracketDelimiter, BraceDelimiter, BarDelimiter are the
// common delimiter kinds math.vec/math.mat accept (matrix.rs's
// `Delimiter` enum: Paren, Bracket, Brace, Bar, DoubleBar, None).
var (
	ParenDelimiter   = Delimiter{Open: "(", Close: ")"}
	BracketDelimiter = Delimiter{Open: "[", Close: "]"}
	BraceDelimiter   = Delimiter{Open: "{", Close: "}"}
	BarDelimiter     = Delimiter{Open: "|", Close: "|"}
	NoDelimiter      = Delimiter{}
)
