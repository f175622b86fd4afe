package layout

import (
	"github.com/clipperhouse/uax29/v2/words"
)

// InlineItem is either absolute spacing (with a weak flag, spec.md
// §4.10's inline layouter return type) or a shaped frame.
type InlineItem struct {
	// Weak spacing collapses at a line break (e.g. the space before a
	// break); non-weak spacing (an explicit `h(1cm)`) never does.
	Weak    bool
	Advance float64
	Run     GlyphRun
}

// wordBreak holds one UAX#29 word-boundary segment plus its measured
// advance, the unit line breaking packs into lines.
type wordBreak struct {
	text    string
	advance float64
	// space reports whether this segment is inter-word whitespace,
	// i.e. a weak break opportunity rather than visible content.
	space bool
}

// segmentWords splits text into UAX#29 word-boundary segments (DOMAIN
// STACK: clipperhouse/uax29/v2, chosen because Knuth-Plass-style line
// breaking needs word boundaries, not just the grapheme boundaries
// value.String already tracks).
func segmentWords(text string) []string {
	var out []string
	tokens := words.FromString(text)
	for tokens.Next() {
		out = append(out, tokens.Value())
	}
	return out
}

func isSpaceSegment(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return len(s) > 0
}

// measureWords shapes each UAX#29 segment of text at sizePt, tagging
// whitespace segments as weak break opportunities.
func measureWords(shaper Shaper, text string, sizePt float64) []wordBreak {
	segs := segmentWords(text)
	out := make([]wordBreak, 0, len(segs))
	for _, s := range segs {
		run := shaper.Shape(s, sizePt)
		out = append(out, wordBreak{text: s, advance: run.Advance, space: isSpaceSegment(s)})
	}
	return out
}

// breakLines packs word segments into lines no wider than width using
// a first-fit greedy algorithm: this module does not implement the
// full Knuth-Plass minimum-total-badness optimization spec.md §4.10
// names (a global dynamic-programming pass over paragraph+page
// breakpoints), only its local per-line packing step — a
// simplification recorded in DESIGN.md's Open Question decisions.
func breakLines(segs []wordBreak, width float64) [][]wordBreak {
	var lines [][]wordBreak
	var cur []wordBreak
	var curWidth float64
	for _, s := range segs {
		if s.space && curWidth+s.advance > width && len(cur) > 0 {
			// A breakable space that would overflow: break here,
			// dropping the trailing weak space (it collapses at the
			// line end per spec.md §4.10's inline item semantics).
			lines = append(lines, cur)
			cur = nil
			curWidth = 0
			continue
		}
		if !s.space && curWidth+s.advance > width && len(cur) > 0 {
			lines = append(lines, cur)
			cur = nil
			curWidth = 0
		}
		cur = append(cur, s)
		curWidth += s.advance
	}
	if len(cur) > 0 {
		lines = append(lines, cur)
	}
	return lines
}
