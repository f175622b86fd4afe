package layout

import "github.com/quill-lang/quill/value"

// Shaper is the subset of spec.md §6's FontService this module needs to
// measure text during line breaking: `shape(text, style, ...) →
// ShapedRun`. Declared here (rather than importing a FontService type
// directly) so layout has no dependency on the world package that wires
// the real font service in; world's FontService satisfies this
// structurally.
type Shaper interface {
	Shape(text string, sizePt float64) GlyphRun
}

// MetricShaper is a measurement-only fallback used by tests and by
// callers that have not wired a real font service: it estimates advance
// width from grapheme count rather than real glyph metrics. Production
// callers should inject the real FontService-backed shaper (spec.md §6);
// this exists purely so flow layout is exercisable without one.
type MetricShaper struct {
	// AdvancePerEm approximates a typical glyph's advance as a fraction
	// of the em size; 0.5 is a reasonable average for a serif text face.
	AdvancePerEm float64
}

// DefaultMetricShaper uses the conventional average advance used
// throughout this module's tests.
var DefaultMetricShaper = MetricShaper{AdvancePerEm: 0.5}

func (m MetricShaper) Shape(text string, sizePt float64) GlyphRun {
	perEm := m.AdvancePerEm
	if perEm == 0 {
		perEm = 0.5
	}
	n := value.String(text).Len()
	return GlyphRun{Text: text, Advance: float64(n) * sizePt * perEm}
}
