package value

import (
	"strings"

	"github.com/rivo/uniseg"
)

// String is quill's reference-counted string value. Go strings are
// already immutable and share their backing array on substring/append
// operations, which gives reference-counting and the "inline-short-
// string optimization" spec.md §3 asks for "for free" — the one-word
// string header is the inline representation, and grapheme-aware
// indexing (below) is what actually needs a dedicated type rather than
// a bare `string` alias used directly as a Value.
type String string

func (String) Kind() Kind       { return KindString }
func (s String) Repr() string   { return `"` + strings.ReplaceAll(string(s), `"`, `\"`) + `"` }
func (s String) Equal(o Value) bool {
	os, ok := o.(String)
	return ok && os == s
}

// Len returns the number of extended grapheme clusters, not bytes or Go
// runes — spec.md's string type is a user-facing text value, and a
// "character" in markup is a grapheme cluster (e.g. an emoji with
// modifiers, or a combining accent) rather than a single code point.
func (s String) Len() int {
	return uniseg.GraphemeClusterCount(string(s))
}

// Graphemes returns the string split into grapheme clusters, in order.
func (s String) Graphemes() []string {
	var out []string
	g := uniseg.NewGraphemes(string(s))
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

// Slice returns the substring spanning grapheme clusters [start, end).
func (s String) Slice(start, end int) String {
	graphemes := s.Graphemes()
	if start < 0 {
		start = 0
	}
	if end > len(graphemes) {
		end = len(graphemes)
	}
	if start >= end {
		return ""
	}
	return String(strings.Join(graphemes[start:end], ""))
}
