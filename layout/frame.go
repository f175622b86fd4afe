// Package layout implements the fixed-point layout driver (spec.md §4.9,
// module J) and flow layout (spec.md §4.10, module K): paragraphs,
// blocks, pages, floats and footnotes, grounded on original_source
// library/src/layout/page.rs and crates/typst-library/src/layout/
// {container,frame}.rs for region/frame shape, and text/raw.rs for the
// monospace raw-block column model.
package layout

import (
	"github.com/quill-lang/quill/content"
	"github.com/quill-lang/quill/introspect"
)

// Point is an absolute position within a Frame, in points.
type Point struct{ X, Y float64 }

// Add returns p translated by d.
func (p Point) Add(d Point) Point { return Point{p.X + d.X, p.Y + d.Y} }

// Size is a 2D extent in points.
type Size struct{ W, H float64 }

// Region is the layout input spec.md §4.10 names: "(size,
// remaining_column_heights, expand_flags)". This module targets
// single-column flow, so RemainingHeight stands in for the general
// per-column remaining-height vector; ExpandX/ExpandY mirror the
// "expand_flags" pair (whether a block should grow to fill its region
// rather than shrink to content).
type Region struct {
	Size            Size
	RemainingHeight float64
	ExpandX         bool
	ExpandY         bool
}

// Shrink returns a copy of r with height reduced by consumed, floored
// at zero (a region never goes negative, it just runs out).
func (r Region) Shrink(consumed float64) Region {
	cp := r
	cp.RemainingHeight -= consumed
	if cp.RemainingHeight < 0 {
		cp.RemainingHeight = 0
	}
	cp.Size.H = cp.RemainingHeight
	return cp
}

// ItemKind distinguishes what a FrameItem places, per spec.md's
// GLOSSARY "Frame": "a fixed-size 2D container of placed items (glyph
// runs, shapes, subframes, tags)".
type ItemKind uint8

const (
	ItemGlyphRun ItemKind = iota
	ItemShape
	ItemSubframe
	ItemTag
)

// GlyphRun is the placed output of a font service Shape call (spec.md
// §6 FontService), carried opaquely here since shaping itself is an
// external collaborator this module never performs.
type GlyphRun struct {
	Text string
	// Advance is the total horizontal advance of the run in points,
	// computed by the (external) font service and passed through.
	Advance float64
}

// Shape is a placed vector primitive (line/rect/path), a thin stand-in
// for the full geometry model a real renderer backend would own.
type Shape struct {
	Kind string // "line", "rect", "path"
	Size Size
}

// Item is one entry of a Frame's placed-item list (Point, FrameItem) in
// original_source's terms; Kind selects which of the payload fields is
// meaningful.
type Item struct {
	Pos   Point
	Kind  ItemKind
	Glyph GlyphRun
	Shape Shape
	Sub   *Frame
	// Tag carries the content and stable location a Tag item marks
	// the start (or end) of, spec.md's GLOSSARY "Tag": "a marker item
	// placed in a frame at the position an introspectable element
	// starts or ends".
	Tag *TagMark
}

// TagMark is the payload of an ItemTag item.
type TagMark struct {
	Content  *content.Content
	Location content.Location
	End      bool
}

// Frame is a fixed-size 2D container of placed items (spec.md
// GLOSSARY). Baseline is measured from the top; zero means "use the
// frame's bottom" (original_source's `baseline: Option<Abs>`).
type Frame struct {
	Size     Size
	Baseline float64
	HasBase  bool
	Items    []Item
}

// NewFrame creates an empty frame of the given size.
func NewFrame(size Size) *Frame { return &Frame{Size: size} }

// Push appends an item at pos, returning the frame for chaining.
func (f *Frame) Push(pos Point, it Item) *Frame {
	it.Pos = pos
	f.Items = append(f.Items, it)
	return f
}

// PushFrame places a subframe (ItemSubframe) at pos.
func (f *Frame) PushFrame(pos Point, sub *Frame) *Frame {
	return f.Push(pos, Item{Kind: ItemSubframe, Sub: sub})
}

// PushTag places a marker item for an introspectable element.
func (f *Frame) PushTag(pos Point, c *content.Content, loc content.Location, end bool) *Frame {
	return f.Push(pos, Item{Kind: ItemTag, Tag: &TagMark{Content: c, Location: loc, End: end}})
}

// Tags walks the frame tree (including subframes, at their absolute
// position) collecting every tag placed, used to build the
// introspect.Entry list a finished page list feeds into
// introspect.Build (spec.md §4.8 "Built after each layout pass from
// the finished page list").
func (f *Frame) Tags(origin Point) []introspect.Entry {
	var out []introspect.Entry
	for _, it := range f.Items {
		abs := origin.Add(it.Pos)
		switch it.Kind {
		case ItemTag:
			out = append(out, introspect.Entry{
				Content:  it.Tag.Content,
				Location: it.Tag.Location,
				Position: introspect.Position{Point: introspect.Point{X: abs.X, Y: abs.Y}},
			})
		case ItemSubframe:
			out = append(out, it.Sub.Tags(abs)...)
		}
	}
	return out
}

// Fragment is the layout output for one content node: one frame per
// region it spans (spec.md GLOSSARY "Fragment").
type Fragment []*Frame
