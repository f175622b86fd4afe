package world

import "github.com/quill-lang/quill/layout"

// fontShaper adapts a FontService to layout.Shaper, the seam spec.md
// §6 describes as "Font service (consumed by layout)": when a World
// supplies real font shaping, flow layout measures text through it
// instead of layout's built-in grapheme-count approximation.
type fontShaper struct {
	fonts FontService
	font  string
}

func (f fontShaper) Shape(text string, sizePt float64) layout.GlyphRun {
	run := f.fonts.Shape(text, sizePt, nil, false)
	var advance float64
	for _, g := range run.Glyphs {
		advance += g.AdvanceX
	}
	return layout.GlyphRun{Text: text, Advance: advance}
}

// shaperFrom returns a layout.Shaper backed by fonts if supplied, or
// nil to let layout.NewFlow fall back to its default MetricShaper.
func shaperFrom(fonts FontService) layout.Shaper {
	if fonts == nil {
		return nil
	}
	return fontShaper{fonts: fonts}
}
