package introspect

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/quill-lang/quill/content"
	"github.com/quill-lang/quill/value"
)

// Selector is the closed algebra of spec.md §4.8: element-kind, label,
// location, and/or, before/after, within, regex (text only), and
// can(capability). It is also style.Selector (structurally, via
// Matches) so a recipe can carry a Selector without the style package
// importing introspect.
type Selector interface {
	// String renders a canonical, comparable form used as the query
	// cache key (spec.md §4.8 "memoized per (selector, ...)").
	String() string
	// Matches reports whether one piece of content (identified by its
	// element kind and label) satisfies the selector in isolation,
	// without needing the full introspector — the fast path style's
	// show-rule matching uses (spec.md §4.6 "Recipes").
	Matches(kind string, label string) bool
	// eval resolves the selector against a built introspector's full
	// index, needed for the order-dependent variants (before/after/
	// within) that a bare kind/label match can't answer alone.
	eval(in *Introspector) []content.Location
}

// Kind selects every content instance of one element kind.
type Kind string

func (s Kind) String() string                 { return "kind(" + string(s) + ")" }
func (s Kind) Matches(kind, label string) bool { return kind == string(s) }
func (s Kind) eval(in *Introspector) []content.Location {
	var out []content.Location
	for _, e := range in.entries {
		if e.Content.ElementKind() == string(s) {
			out = append(out, e.Location)
		}
	}
	return out
}

// Label selects every content instance carrying the given label.
type Label string

func (s Label) String() string { return "label(" + string(s) + ")" }
func (s Label) Matches(kind, label string) bool { return label == string(s) }
func (s Label) eval(in *Introspector) []content.Location {
	idxs := in.byLabel[string(s)]
	out := make([]content.Location, len(idxs))
	for i, idx := range idxs {
		out[i] = in.entries[idx].Location
	}
	return out
}

// ByLocation selects exactly the content at one location.
type ByLocation content.Location

func (s ByLocation) String() string {
	return fmt.Sprintf("loc(%d,%d)", s.OriginHash, s.Disambig)
}
func (s ByLocation) Matches(kind, label string) bool { return false } // requires full context
func (s ByLocation) eval(in *Introspector) []content.Location {
	if _, ok := in.byLoc[content.Location(s)]; ok {
		return []content.Location{content.Location(s)}
	}
	return nil
}

// And intersects the results of every sub-selector, in document order.
type And []Selector

func (s And) String() string {
	parts := make([]string, len(s))
	for i, sub := range s {
		parts[i] = sub.String()
	}
	return "and(" + strings.Join(parts, ",") + ")"
}
func (s And) Matches(kind, label string) bool {
	for _, sub := range s {
		if !sub.Matches(kind, label) {
			return false
		}
	}
	return true
}
func (s And) eval(in *Introspector) []content.Location {
	if len(s) == 0 {
		return nil
	}
	sets := make([]locSet, len(s))
	for i, sub := range s {
		sets[i] = toSet(sub.eval(in))
	}
	var out []content.Location
	for _, loc := range sets[0].keys() {
		all := true
		for _, set := range sets[1:] {
			if !set[loc] {
				all = false
				break
			}
		}
		if all {
			out = append(out, loc)
		}
	}
	return sortLocations(in, out)
}

// Or unions the results of every sub-selector, in document order.
type Or []Selector

func (s Or) String() string {
	parts := make([]string, len(s))
	for i, sub := range s {
		parts[i] = sub.String()
	}
	return "or(" + strings.Join(parts, ",") + ")"
}
func (s Or) Matches(kind, label string) bool {
	for _, sub := range s {
		if sub.Matches(kind, label) {
			return true
		}
	}
	return false
}
func (s Or) eval(in *Introspector) []content.Location {
	set := make(locSet)
	for _, sub := range s {
		for _, loc := range sub.eval(in) {
			set[loc] = true
		}
	}
	return sortLocations(in, set.keys())
}

// Before selects every match of sel that occurs (in document order)
// before end's first match, inclusive iff Inclusive (spec.md §4.8
// "before(sel, end, inclusive)").
type Before struct {
	Sel       Selector
	End       Selector
	Inclusive bool
}

func (s Before) String() string {
	return fmt.Sprintf("before(%s,%s,%v)", s.Sel, s.End, s.Inclusive)
}
func (s Before) Matches(kind, label string) bool { return s.Sel.Matches(kind, label) }
func (s Before) eval(in *Introspector) []content.Location {
	endLocs := s.End.eval(in)
	if len(endLocs) == 0 {
		return s.Sel.eval(in)
	}
	endIdx, ok := in.indexOf(endLocs[0])
	if !ok {
		return nil
	}
	var out []content.Location
	for _, loc := range s.Sel.eval(in) {
		idx, ok := in.indexOf(loc)
		if !ok {
			continue
		}
		if idx < endIdx || (s.Inclusive && idx == endIdx) {
			out = append(out, loc)
		}
	}
	return out
}

// After selects every match of sel that occurs after start's first
// match, or at or after it when Inclusive is set (spec.md §4.8
// "after(sel, start, inclusive)").
type After struct {
	Sel       Selector
	Start     Selector
	Inclusive bool
}

func (s After) String() string {
	return fmt.Sprintf("after(%s,%s,%v)", s.Sel, s.Start, s.Inclusive)
}
func (s After) Matches(kind, label string) bool { return s.Sel.Matches(kind, label) }
func (s After) eval(in *Introspector) []content.Location {
	startLocs := s.Start.eval(in)
	if len(startLocs) == 0 {
		return s.Sel.eval(in)
	}
	startIdx, ok := in.indexOf(startLocs[0])
	if !ok {
		return nil
	}
	var out []content.Location
	for _, loc := range s.Sel.eval(in) {
		idx, ok := in.indexOf(loc)
		if !ok {
			continue
		}
		if idx > startIdx || (s.Inclusive && idx == startIdx) {
			out = append(out, loc)
		}
	}
	return out
}

// Within selects every match of sel whose location falls inside the
// document-order span covered by any match of ancestor's children
// (spec.md §4.8 "within(sel, ancestor): flattens per-ancestor queries").
// Since entries carry no parent pointer of their own, Within treats
// "inside" as falling within the half-open [start, end) index range an
// ancestor match's own subtree occupies, derived from the count of its
// descendant Content nodes.
type Within struct {
	Sel      Selector
	Ancestor Selector
}

func (s Within) String() string { return fmt.Sprintf("within(%s,%s)", s.Sel, s.Ancestor) }
func (s Within) Matches(kind, label string) bool { return s.Sel.Matches(kind, label) }
func (s Within) eval(in *Introspector) []content.Location {
	var out []content.Location
	innerSet := toSet(s.Sel.eval(in))
	for _, ancLoc := range s.Ancestor.eval(in) {
		ancIdx, ok := in.indexOf(ancLoc)
		if !ok {
			continue
		}
		anc := in.entries[ancIdx].Content
		span := countDescendants(anc) + 1
		for i := ancIdx; i < ancIdx+span && i < len(in.entries); i++ {
			loc := in.entries[i].Location
			if innerSet[loc] {
				out = append(out, loc)
			}
		}
	}
	return sortLocations(in, out)
}

func countDescendants(c *content.Content) int {
	n := 0
	for _, ch := range c.Children() {
		n += 1 + countDescendants(ch)
	}
	return n
}

// Regex selects text content whose body matches a regular expression
// (spec.md §4.8 "regex (text only)"), backed by regexp2 (DOMAIN STACK:
// dlclark/regexp2) for full-featured pattern support beyond stdlib
// regexp's RE2 subset.
type Regex struct {
	Pattern string
	re      *regexp2.Regexp
}

// NewRegex compiles pattern once; re-compiling per eval would defeat
// the point of memoizing queries by selector identity.
func NewRegex(pattern string) (*Regex, error) {
	re, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		return nil, err
	}
	return &Regex{Pattern: pattern, re: re}, nil
}

func (s *Regex) String() string { return "regex(" + s.Pattern + ")" }
func (s *Regex) Matches(kind, label string) bool { return false } // text content has no label to test against
func (s *Regex) eval(in *Introspector) []content.Location {
	var out []content.Location
	for _, e := range in.entries {
		if e.Content.ElementKind() != "text" {
			continue
		}
		body, ok := e.Content.Field("body")
		if !ok {
			continue
		}
		str, ok := body.(value.String)
		if !ok {
			continue
		}
		matched, err := s.re.MatchString(string(str))
		if err == nil && matched {
			out = append(out, e.Location)
		}
	}
	return out
}

// Can selects content whose element kind is registered as exposing the
// named capability (spec.md §4.8 "can(capability)", spec.md §9 "static
// capability table"). The builtin kinds' capabilities (e.g.
// "countable", "locatable") are registered by this package's init.
type Can string

var capabilityTable = map[string]map[string]bool{}

// The builtin element kinds' capabilities, the static table spec.md §9
// describes ("Capability checks (can(trait)) consult a static
// capability table rather than dynamic dispatch over a hierarchy").
func init() {
	for _, kind := range []string{"heading", "figure", "equation", "footnote"} {
		RegisterCapability(kind, "countable")
		RegisterCapability(kind, "outlinable")
	}
	for _, kind := range []string{
		"heading", "figure", "equation", "footnote",
		"counter.update", "metadata", "ref", "label",
	} {
		RegisterCapability(kind, "locatable")
	}
}

// RegisterCapability records that element kind implements capability,
// consulted by Can.Matches/eval. Called at init time: by this package's
// init for the builtin element kinds, or by a host extension
// registering a custom element.
func RegisterCapability(kind, capability string) {
	m, ok := capabilityTable[capability]
	if !ok {
		m = make(map[string]bool)
		capabilityTable[capability] = m
	}
	m[kind] = true
}

func (s Can) String() string { return "can(" + string(s) + ")" }
func (s Can) Matches(kind, label string) bool {
	return capabilityTable[string(s)][kind]
}
func (s Can) eval(in *Introspector) []content.Location {
	var out []content.Location
	for _, e := range in.entries {
		if capabilityTable[string(s)][e.Content.ElementKind()] {
			out = append(out, e.Location)
		}
	}
	return out
}

type locSet map[content.Location]bool

func (s locSet) keys() []content.Location {
	out := make([]content.Location, 0, len(s))
	for l := range s {
		out = append(out, l)
	}
	return out
}

func toSet(locs []content.Location) locSet {
	s := make(locSet, len(locs))
	for _, l := range locs {
		s[l] = true
	}
	return s
}

func sortLocations(in *Introspector, locs []content.Location) []content.Location {
	sort.SliceStable(locs, func(i, j int) bool {
		ii, _ := in.indexOf(locs[i])
		jj, _ := in.indexOf(locs[j])
		return ii < jj
	})
	return locs
}
