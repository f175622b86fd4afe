package layout

import (
	"go.uber.org/multierr"

	"github.com/quill-lang/quill/content"
	"github.com/quill-lang/quill/diag"
	"github.com/quill-lang/quill/introspect"
)

// DefaultPassCap bounds the fixed-point iteration (spec.md §4.9 "CAP is
// a small constant (≈ 5)"); see DESIGN.md's Open Question decision for
// why this is the chosen default rather than an unbounded search.
const DefaultPassCap = 5

// Page is one finished page of the document: a frame plus its page
// number, the unit spec.md §2's control-flow paragraph calls "a tree of
// ... page frames".
type Page struct {
	Number int
	Frame  *Frame
	// Numbering is the page-numbering pattern in force on this page
	// (empty when the page carries no numbering), surfaced through
	// introspect.PageNumberingAt.
	Numbering string
}

// Document is the layout driver's final output: pages plus the
// introspector built from their last stable pass.
type Document struct {
	Pages       []Page
	Introspect  *introspect.Introspector
}

// EvalFunc is the evaluator stage of spec.md §4.9's pseudocode:
// `content ← evaluator(ast, env.with(prev_introspector))`. It is a
// closure supplied by the world package (which owns the AST and the
// eval.Evaluator) so this package has no dependency on eval/syntax.
type EvalFunc func(prev *introspect.Introspector) (*content.Content, []*diag.Error)

// LayoutFunc is the layout stage: `frames ← layout(content,
// prev_introspector)`, returning the finished pages and the entries
// (tags) those pages produced so the driver can build this pass's
// introspector.
type LayoutFunc func(root *content.Content, prev *introspect.Introspector) ([]Page, []*diag.Error)

// Driver runs the bounded fixed-point loop of spec.md §4.9.
type Driver struct {
	PassCap int
}

// NewDriver returns a Driver with DefaultPassCap.
func NewDriver() *Driver { return &Driver{PassCap: DefaultPassCap} }

// Run executes the loop: evaluate, lay out, build an introspector from
// the result, and compare its recorded query trace against the
// previous pass's. It returns once two consecutive passes agree, or an
// IterationLimitExceeded diagnostic (spec.md §9: "surface a clear
// diagnostic ... rather than loop") once PassCap is exhausted.
func (d *Driver) Run(eval EvalFunc, lay LayoutFunc) (*Document, []*diag.Error) {
	cap := d.PassCap
	if cap <= 0 {
		cap = DefaultPassCap
	}

	prev := introspect.Empty()

	for pass := 1; pass <= cap; pass++ {
		root, errs := eval(prev)
		if len(errs) > 0 {
			return nil, errs
		}

		pages, errs := lay(root, prev)
		if len(errs) > 0 {
			return nil, errs
		}

		entries := collectEntries(pages)
		next := introspect.Build(entries, nil)
		next.SetPageNumbering(collectPageNumbering(pages))

		// Replay prev's query trace against next; pass 1 has an empty
		// trace (prev is introspect.Empty()), so it always "agrees"
		// trivially and the loop still does a second pass to confirm —
		// matching spec.md §4.9's criterion literally ("every query
		// that was asked during pass n returns the same answer it
		// returned during pass n-1") rather than special-casing pass 1.
		if pass > 1 && prev.AgreesWith(next) {
			return &Document{Pages: pages, Introspect: next}, nil
		}

		prev = next
	}

	err := diag.New(diag.KindIterationLimitExceeded, diag.Span{},
		"layout did not converge within the pass cap")
	return nil, []*diag.Error{err}
}

// collectEntries flattens every page's placed tags into one
// document-order entry list, assigning Order so introspect.Build's sort
// is stable across pages (spec.md §3 "document order is total and
// deterministic").
func collectEntries(pages []Page) []introspect.Entry {
	var out []introspect.Entry
	for _, p := range pages {
		tags := p.Frame.Tags(Point{})
		for _, t := range tags {
			t.Position.Page = p.Number
			out = append(out, t)
		}
	}
	for i := range out {
		out[i].Order = i
	}
	return out
}

// collectPageNumbering maps each page number to its numbering pattern,
// the per-page half of introspect.PageNumberingAt (spec.md §4.8
// `page_numbering_at(location) → pattern?`). Pages without a pattern
// are left out of the map.
func collectPageNumbering(pages []Page) map[int]string {
	out := make(map[int]string, len(pages))
	for _, p := range pages {
		if p.Numbering != "" {
			out[p.Number] = p.Numbering
		}
	}
	return out
}

// JoinErrors aggregates per-pass diagnostics with multierr (DOMAIN
// STACK: go.uber.org/multierr), matching diag.Sink.Join's use of the
// same library for the "a single compilation produces a list of
// errors" rule (spec.md §7). world.CompileErr uses this to turn the
// diagnostic slice Run returns into a single error value for callers
// that want one.
func JoinErrors(errs []*diag.Error) error {
	if len(errs) == 0 {
		return nil
	}
	wrapped := make([]error, len(errs))
	for i, e := range errs {
		wrapped[i] = e
	}
	return multierr.Combine(wrapped...)
}
