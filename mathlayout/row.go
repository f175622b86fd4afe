package mathlayout

import "github.com/quill-lang/quill/layout"

// Row composes a sequence of fragments into a single frame, laying them
// out left to right and inserting class×class spacing between adjacent
// glyph/frame fragments per spec.md §4.11. emSizePt is the current
// style's em size; style selects the spacing scale.
func Row(frags []Fragment, style Style, emSizePt float64) *layout.Frame {
	var width, ascent, descent float64
	var prevClass Class
	havePrev := false

	type placed struct {
		x float64
		f Fragment
	}
	var items []placed

	for _, f := range frags {
		switch f.Kind {
		case FragGlyph, FragFrame:
			if havePrev {
				width += SpacingBetween(prevClass, f.Class, style, emSizePt)
			}
			items = append(items, placed{x: width, f: f})
			width += f.Width
			if f.Ascent() > ascent {
				ascent = f.Ascent()
			}
			if f.Descent() > descent {
				descent = f.Descent()
			}
			prevClass = f.Class
			havePrev = true
		case FragSpace, FragSpacing:
			items = append(items, placed{x: width, f: f})
			width += f.Width
			havePrev = false
		case FragLinebreak, FragAlignPoint:
			items = append(items, placed{x: width, f: f})
		}
	}

	fr := layout.NewFrame(layout.Size{W: width, H: ascent + descent})
	fr.Baseline = ascent
	fr.HasBase = true
	for _, p := range items {
		switch p.f.Kind {
		case FragGlyph:
			fr.Push(layout.Point{X: p.x, Y: ascent - p.f.Ascent()}, layout.Item{
				Kind:  layout.ItemGlyphRun,
				Glyph: layout.GlyphRun{Text: p.f.Text, Advance: p.f.Width},
			})
		case FragFrame:
			if p.f.Frame != nil {
				fr.PushFrame(layout.Point{X: p.x, Y: ascent - p.f.Ascent()}, p.f.Frame)
			}
		}
	}
	return fr
}

// Measure returns the total width and ascent/descent of a fragment run
// without building a frame, using the same spacing rules as Row.
func Measure(frags []Fragment, style Style, emSizePt float64) (width, ascent, descent float64) {
	var prevClass Class
	havePrev := false
	for _, f := range frags {
		switch f.Kind {
		case FragGlyph, FragFrame:
			if havePrev {
				width += SpacingBetween(prevClass, f.Class, style, emSizePt)
			}
			width += f.Width
			if f.Ascent() > ascent {
				ascent = f.Ascent()
			}
			if f.Descent() > descent {
				descent = f.Descent()
			}
			prevClass = f.Class
			havePrev = true
		case FragSpace, FragSpacing:
			width += f.Width
			havePrev = false
		}
	}
	return
}
