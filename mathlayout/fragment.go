// Package mathlayout implements spec.md §4.11's math layout engine: a
// sequence of fragments (glyph, frame, space, spacing, linebreak,
// align-point) composed with TeX-style atom-class spacing, stretchable
// delimiter sizing, and column-major matrix layout. Grounded on
// original_source crates/typst/src/math/ctx.rs (MathContext, atom
// classes, script scaling) and library/src/math/matrix.rs (vec/mat
// layout, augmentation lines).
package mathlayout

import "github.com/quill-lang/quill/layout"

// Class is the TeX atom class an on-line math fragment carries. Spacing
// between two adjacent atoms is looked up by (left.Class, right.Class)
// in spacingTable, exactly as ctx.rs's glyph.class drives MathFragment
// spacing decisions.
type Class int

const (
	ClassOrd Class = iota
	ClassOp
	ClassBin
	ClassRel
	ClassOpen
	ClassClose
	ClassPunct
	ClassInner
)

func (c Class) String() string {
	switch c {
	case ClassOrd:
		return "ord"
	case ClassOp:
		return "op"
	case ClassBin:
		return "bin"
	case ClassRel:
		return "rel"
	case ClassOpen:
		return "open"
	case ClassClose:
		return "close"
	case ClassPunct:
		return "punct"
	case ClassInner:
		return "inner"
	default:
		return "ord"
	}
}

// Style is the math size spec.md §4.11 scales spacing by: a nested
// fraction or script drops one level per the usual TeX cramped-style
// progression, down to script-script.
type Style int

const (
	StyleText Style = iota
	StyleScript
	StyleScriptScript
)

// Scale returns the em-size multiplier for this style, used both to
// shrink glyph runs and to scale the spacing table's em units.
func (s Style) Scale() float64 {
	switch s {
	case StyleScript:
		return 0.7
	case StyleScriptScript:
		return 0.5
	default:
		return 1.0
	}
}

// Smaller returns the next-smaller script style, bottoming out at
// script-script (TeX never nests a third level smaller).
func (s Style) Smaller() Style {
	if s == StyleScriptScript {
		return s
	}
	return s + 1
}

// FragmentKind discriminates the fragment union spec.md §4.11 opens
// with: "glyph, frame, space, spacing, linebreak, align-point".
type FragmentKind int

const (
	FragGlyph FragmentKind = iota
	FragFrame
	FragSpace
	FragSpacing
	FragLinebreak
	FragAlignPoint
)

// Fragment is one element of the math layout walk's output sequence.
// Only the fields relevant to its Kind are populated; Class and Italic
// apply to FragGlyph/FragFrame fragments (the two kinds that occupy
// horizontal space and participate in atom-class spacing).
type Fragment struct {
	Kind    FragmentKind
	Class   Class
	Width   float64
	Height  float64
	Depth   float64
	Italic  float64
	Frame   *layout.Frame
	Text    string
	Stretch bool
}

// Width/height/depth accessors used by row composition; a glyph
// fragment's ascent/descent is Height/Depth measured from the
// baseline, matching how frame.rs's Frame tracks a baseline offset.
func (f Fragment) Ascent() float64  { return f.Height }
func (f Fragment) Descent() float64 { return f.Depth }

// Glyph constructs a text-bearing fragment sized by a simple
// metrics model (no real font hinted here; spec.md's Non-goals exclude
// byte-exact reference-renderer reproduction).
func Glyph(text string, class Class, sizePt float64) Fragment {
	w := float64(len([]rune(text))) * sizePt * 0.5
	return Fragment{
		Kind:   FragGlyph,
		Class:  class,
		Width:  w,
		Height: sizePt * 0.7,
		Depth:  sizePt * 0.2,
		Text:   text,
	}
}

// Space returns a non-printing space fragment of the given width, used
// for the class×class spacing the row composer inserts between atoms.
func Space(width float64) Fragment {
	return Fragment{Kind: FragSpace, Width: width}
}
