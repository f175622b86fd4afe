package introspect

import (
	"github.com/quill-lang/quill/content"
	"github.com/quill-lang/quill/value"
)

// Point is a position within a page, in points from the top-left.
type Point struct{ X, Y float64 }

// Position is what position_of(location) (spec.md §4.8) returns.
type Position struct {
	Page  int
	Point Point
}

// Entry is one (content, page-position) pair, spec.md §3's
// "Introspector state" first bullet. Layout builds a []Entry from its
// finished page list (each placed Tag corresponds to one Entry) and
// hands it to Build; introspect itself never looks inside a layout
// Frame, keeping this package independent of the layout package.
type Entry struct {
	Content  *content.Content
	Location content.Location
	Position Position
	// Order is the document-order rank layout assigned this entry,
	// used to sort the index once (ties broken by Location for
	// determinism when two entries share a rank, e.g. zero-size tags).
	Order int
}

// Introspector is the post-layout index described by spec.md §3
// "Introspector state" and built by §4.8's Build: a document-order
// list, a location→index map, a label multi-map, a stable-key
// multi-map, and a query result cache (plus the query trace the layout
// driver replays for convergence, spec.md §4.9).
type Introspector struct {
	entries       []Entry
	byLoc         map[content.Location]int
	byLabel       map[string][]int
	byKey         map[string]content.Location
	pageNumbering map[int]string
	cache         map[cacheKey][]content.Location
	trace         []traceEntry
}

type cacheKey struct {
	sel string
}

type traceEntry struct {
	sel    Selector
	result []content.Location
}

// Empty returns an Introspector with no entries, the starting
// "prev_introspector" of the layout driver's pass 1 (spec.md §4.9).
func Empty() *Introspector {
	return &Introspector{
		byLoc:   make(map[content.Location]int),
		byLabel: make(map[string][]int),
		byKey:   make(map[string]content.Location),
		cache:   make(map[cacheKey][]content.Location),
	}
}

// Build constructs a fresh Introspector from one layout pass's finished
// entries (spec.md §4.8 "Built after each layout pass from the finished
// page list"). Entries are sorted into document order by Order.
func Build(entries []Entry, stableKeys map[string]content.Location) *Introspector {
	sortEntries(entries)
	in := Empty()
	in.entries = entries
	for i, e := range entries {
		in.byLoc[e.Location] = i
		if lbl, ok := e.Content.Label(); ok {
			in.byLabel[lbl] = append(in.byLabel[lbl], i)
		}
	}
	for k, v := range stableKeys {
		in.byKey[k] = v
	}
	return in
}

// LocationOf returns the location attached to content, per spec.md §4.8
// `location_of`.
func (in *Introspector) LocationOf(c *content.Content) (content.Location, bool) {
	return c.Loc()
}

// PositionOf implements spec.md §4.8 `position_of`.
func (in *Introspector) PositionOf(loc content.Location) (Position, bool) {
	idx, ok := in.byLoc[loc]
	if !ok {
		return Position{}, false
	}
	return in.entries[idx].Position, true
}

// ContentAt returns the content value recorded at loc, or nil if
// unknown in this pass (e.g. a forward reference not yet realized).
func (in *Introspector) ContentAt(loc content.Location) (*content.Content, bool) {
	idx, ok := in.byLoc[loc]
	if !ok {
		return nil, false
	}
	return in.entries[idx].Content, true
}

// SetPageNumbering records the numbering pattern in force on each page,
// keyed by page number. The layout driver calls it once per pass, right
// after Build, from the finished page list.
func (in *Introspector) SetPageNumbering(patterns map[int]string) {
	in.pageNumbering = patterns
}

// PageNumberingAt implements spec.md §4.8 `page_numbering_at(location)
// → pattern?`: the numbering pattern of the page loc sits on, or
// ok=false when loc is unknown or its page carries no numbering.
func (in *Introspector) PageNumberingAt(loc content.Location) (string, bool) {
	pos, ok := in.PositionOf(loc)
	if !ok {
		return "", false
	}
	pat, ok := in.pageNumbering[pos.Page]
	return pat, ok
}

// LocateByKey implements spec.md §4.8 `locate_by_key`, used by
// measurement to assign stable ids across passes for content that
// has no syntactic origin of its own (e.g. a synthesized outline
// entry).
func (in *Introspector) LocateByKey(key string) (content.Location, bool) {
	loc, ok := in.byKey[key]
	return loc, ok
}

// indexOf returns the document-order rank of loc, for binary-search
// based before/after/within selector evaluation (spec.md §4.8).
func (in *Introspector) indexOf(loc content.Location) (int, bool) {
	idx, ok := in.byLoc[loc]
	return idx, ok
}

// Query runs sel against this introspector's entries, memoized by the
// selector's own string key (spec.md §4.8 "memoized per (selector,
// introspector identity)" — the instance is the identity since the
// cache lives on it). Every Query call's (selector, result) pair is
// appended to the trace the layout driver replays during convergence
// checking (spec.md §4.9).
func (in *Introspector) Query(sel Selector) []*content.Content {
	key := cacheKey{sel: sel.String()}
	var locs []content.Location
	if cached, ok := in.cache[key]; ok {
		locs = cached
	} else {
		locs = sel.eval(in)
		in.cache[key] = locs
	}
	in.trace = append(in.trace, traceEntry{sel: sel, result: append([]content.Location{}, locs...)})

	out := make([]*content.Content, 0, len(locs))
	for _, l := range locs {
		if c, ok := in.ContentAt(l); ok {
			out = append(out, c)
		}
	}
	return out
}

// AgreesWith replays this introspector's recorded query trace against
// next and reports whether every query returned the same set of
// locations both times — spec.md §4.9's convergence criterion ("every
// query that was asked during pass n returns the same answer it
// returned during pass n-1").
func (in *Introspector) AgreesWith(next *Introspector) bool {
	for _, t := range in.trace {
		got := next.Query(t.sel)
		if len(got) != len(t.result) {
			return false
		}
		for i, c := range got {
			loc, ok := c.Loc()
			if !ok || loc != t.result[i] {
				return false
			}
		}
	}
	return true
}

// CounterTotal sums every `counter.update` entry's `amount` field whose
// `name` field matches name, in document order (spec.md §8 scenario 2's
// `counter(page).final()`). It is the introspector-side half of the
// counter mechanism; eval's counter builtin and layout's automatic
// per-page counter both call through Query(Kind("counter.update"))
// rather than duplicating this walk.
func (in *Introspector) CounterTotal(name string) int {
	total := 0
	for _, c := range in.Query(Kind("counter.update")) {
		nameVal, ok := c.Field("name")
		if !ok {
			continue
		}
		if s, ok := nameVal.(value.String); !ok || string(s) != name {
			continue
		}
		amtVal, ok := c.Field("amount")
		if !ok {
			continue
		}
		n, ok := amtVal.(value.Int)
		if !ok {
			continue
		}
		total += int(n)
	}
	return total
}

// Len reports the number of entries indexed (document length in
// introspectable elements), useful for diagnostics and tests.
func (in *Introspector) Len() int { return len(in.entries) }

// All returns every entry's content in document order.
func (in *Introspector) All() []*content.Content {
	out := make([]*content.Content, len(in.entries))
	for i, e := range in.entries {
		out[i] = e.Content
	}
	return out
}
