package content

import (
	"fmt"
	"hash"
	"hash/fnv"
	"sort"
	"strings"

	"github.com/quill-lang/quill/value"
)

// StyleChain is the minimal interface content needs from the style
// package: look up the nearest set value for (kind, field), innermost
// write first. Declared here rather than importing style directly so
// content has no dependency on style's LRU/cons-list internals — the
// style package's Chain type satisfies this structurally.
type StyleChain interface {
	Lookup(kind, field string) (value.Value, bool)
}

// Content is one immutable node of the element tree (spec.md §3).
// Every mutation (With, Child, Plus) returns a new node that shares
// unchanged substructure with the original, the same copy-on-write
// discipline as value.Array/value.Dict.
type Content struct {
	schema   *ElementSchema
	fields   map[string]value.Value
	children []*Content
	label    *string
	location *Location
	guards   []Guard
}

// Guard identifies one show rule already applied to a content value,
// keyed by the rule's source span, so a recipe never rewrites its own
// output (spec.md §3's guard set, §4.6 "invoked exactly once").
type Guard struct {
	File       string
	Start, End uint32
}

// Guarded reports whether g has already been applied to c.
func (c *Content) Guarded(g Guard) bool {
	for _, have := range c.guards {
		if have == g {
			return true
		}
	}
	return false
}

// WithGuard returns a copy of c with g recorded in its guard set.
func (c *Content) WithGuard(g Guard) *Content {
	cp := *c
	cp.guards = append(append([]Guard{}, c.guards...), g)
	return &cp
}

// Guards returns the applied-recipe set, for carrying over to a show
// rule's replacement output.
func (c *Content) Guards() []Guard { return c.guards }

// Hash returns a structural hash over element kind, non-synthesized
// fields, label, and children — stable across runs and preserving
// equality (spec.md §3: "a content value with no label and no location
// is structurally hashable"). Locations, guards and synthesized fields
// are excluded, matching Equal, so the hash stays stable across layout
// passes.
func (c *Content) Hash() uint64 {
	h := fnv.New64a()
	c.hashInto(h)
	return h.Sum64()
}

func (c *Content) hashInto(h hash.Hash64) {
	h.Write([]byte(c.schema.Kind))
	h.Write([]byte{0})
	names := make([]string, 0, len(c.fields))
	for name := range c.fields {
		if f, ok := c.schema.field(name); ok && f.Role == RoleSynthesized {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		h.Write([]byte(name))
		h.Write([]byte{1})
		hashValue(h, c.fields[name])
		h.Write([]byte{2})
	}
	if c.label != nil {
		h.Write([]byte(*c.label))
	}
	h.Write([]byte{3})
	for _, ch := range c.children {
		ch.hashInto(h)
	}
}

// hashValue writes a value's hash contribution. Decimals hash through
// their numeric value rather than their repr so that equal decimals of
// different scale (0.3 vs 0.30) hash alike, keeping the
// hash-preserves-equality rule of spec.md §4.4.
func hashValue(h hash.Hash64, v value.Value) {
	switch t := v.(type) {
	case *Content:
		t.hashInto(h)
	case value.Decimal:
		fmt.Fprintf(h, "%g", t.Float64())
	default:
		h.Write([]byte(v.Repr()))
	}
}

// Location is the process-unique, deterministically-assigned id a
// locator attaches to a realizable content instance during layout
// (spec.md §3 "Location"). Two Locations compare equal iff they were
// derived from the same syntactic origin and disambiguation count.
type Location struct {
	OriginHash uint64
	Disambig   uint32
}

func (l Location) Equal(o Location) bool {
	return l.OriginHash == o.OriginHash && l.Disambig == o.Disambig
}

// Label returns the content's attached label, if any.
func (c *Content) Label() (string, bool) {
	if c.label == nil {
		return "", false
	}
	return *c.label, true
}

// WithLabel returns a copy of c carrying the given label.
func (c *Content) WithLabel(name string) *Content {
	cp := *c
	cp.label = &name
	return &cp
}

// Loc returns the content's assigned location, if one has been set by
// a locator pass.
func (c *Content) Loc() (Location, bool) {
	if c.location == nil {
		return Location{}, false
	}
	return *c.location, true
}

// WithLocation is called by the locator subsystem during layout; it
// is not user-settable (there is no RoleSettable path to it).
func (c *Content) WithLocation(loc Location) *Content {
	cp := *c
	cp.location = &loc
	return &cp
}

// New constructs a Content node of the given kind. Required and
// inherent fields must all be present in fields; missing ones panic
// with a message naming the field, since this is a construction-time
// programmer error (an evaluator builtin mis-binding arguments), not a
// recoverable user-facing condition.
func New(schema *ElementSchema, fields map[string]value.Value, children ...*Content) *Content {
	for _, f := range schema.Fields {
		if f.Role == RoleRequired || f.Role == RoleInherent {
			if _, ok := fields[f.Name]; !ok {
				panic("content: missing required field " + schema.Kind + "." + f.Name)
			}
		}
	}
	cp := make(map[string]value.Value, len(fields))
	for k, v := range fields {
		cp[k] = v
	}
	return &Content{schema: schema, fields: cp, children: children}
}

func (c *Content) Kind() value.Kind { return value.KindContent }

func (c *Content) ElementKind() string { return c.schema.Kind }

func (c *Content) Schema() *ElementSchema { return c.schema }

func (c *Content) Children() []*Content { return c.children }

// Repr renders a debug form, e.g. `heading(level: 1)[...]`.
func (c *Content) Repr() string {
	var parts []string
	for _, f := range c.schema.Fields {
		if f.Role == RoleGhost {
			continue
		}
		if v, ok := c.fields[f.Name]; ok {
			parts = append(parts, f.Name+": "+v.Repr())
		}
	}
	s := c.schema.Kind + "(" + strings.Join(parts, ", ") + ")"
	if len(c.children) > 0 {
		s += "[...]"
	}
	return s
}

// Equal compares element kind, label, every non-synthesized/non-ghost
// field, and children. Ghost fields are internal bookkeeping invisible
// to user-observable equality. Synthesized fields and assigned Location are
// excluded so equality (used as a cache key during layout) stays
// stable across passes even as those get recomputed (spec.md §3
// "Equality").
func (c *Content) Equal(o value.Value) bool {
	oc, ok := o.(*Content)
	if !ok || oc.schema.Kind != c.schema.Kind || len(oc.children) != len(c.children) {
		return false
	}
	switch {
	case c.label == nil && oc.label != nil, c.label != nil && oc.label == nil:
		return false
	case c.label != nil && oc.label != nil && *c.label != *oc.label:
		return false
	}
	for _, f := range c.schema.Fields {
		if f.Role == RoleGhost || f.Role == RoleSynthesized {
			continue
		}
		cv, cok := c.fields[f.Name]
		ov, ook := oc.fields[f.Name]
		if cok != ook {
			return false
		}
		if cok && !cv.Equal(ov) {
			return false
		}
	}
	for i, ch := range c.children {
		if !ch.Equal(oc.children[i]) {
			return false
		}
	}
	return true
}

// Field reads a field's locally-set value without consulting any
// style chain default; ok is false if it was never set on this node.
func (c *Content) Field(name string) (value.Value, bool) {
	v, ok := c.fields[name]
	return v, ok
}

// Get resolves a field's effective value: a locally-set value wins,
// folded with the chain's value if the schema declares a Fold
// function; otherwise falls back to the chain's nearest set value,
// then the schema default, in that order (spec.md §4.6).
func (c *Content) Get(name string, chain StyleChain) value.Value {
	f, ok := c.schema.field(name)
	if !ok {
		return nil
	}
	local, hasLocal := c.fields[name]
	var fromChain value.Value
	var hasChain bool
	if chain != nil {
		fromChain, hasChain = chain.Lookup(c.schema.Kind, name)
	}
	switch {
	case hasLocal && hasChain && f.Fold != nil:
		return f.Fold(fromChain, local)
	case hasLocal:
		return local
	case hasChain:
		return fromChain
	default:
		return f.Default
	}
}

// With returns a copy of c with field set to v, rejecting fields whose
// role is RoleInherent, RoleSynthesized or RoleGhost — those are not
// user-settable (spec.md §4.5).
func (c *Content) With(name string, v value.Value) (*Content, error) {
	f, ok := c.schema.field(name)
	if !ok {
		return nil, &FieldError{Kind: c.schema.Kind, Field: name, Reason: "unknown field"}
	}
	if f.Role != RoleSettable && f.Role != RoleRequired && f.Role != RoleVariadic {
		return nil, &FieldError{Kind: c.schema.Kind, Field: name, Reason: "not settable"}
	}
	cp := *c
	cp.fields = make(map[string]value.Value, len(c.fields)+1)
	for k, val := range c.fields {
		cp.fields[k] = val
	}
	cp.fields[name] = v
	return &cp, nil
}

// WithSynthesized sets a RoleSynthesized field; unlike With this is
// only callable by the evaluator/layout passes that own synthesis, so
// it skips the settability check.
func (c *Content) WithSynthesized(name string, v value.Value) *Content {
	cp := *c
	cp.fields = make(map[string]value.Value, len(c.fields)+1)
	for k, val := range c.fields {
		cp.fields[k] = val
	}
	cp.fields[name] = v
	return &cp
}

// WithInherent replaces an inherent field's value, for layout-pass
// rewrites that build a variant of an existing node (e.g. substituting
// a resolved reference into a paragraph body) rather than set a
// user-facing property.
func (c *Content) WithInherent(name string, v value.Value) *Content {
	cp := *c
	cp.fields = make(map[string]value.Value, len(c.fields)+1)
	for k, val := range c.fields {
		cp.fields[k] = val
	}
	cp.fields[name] = v
	return &cp
}

// WithChildren returns a copy of c with its children replaced.
func (c *Content) WithChildren(children []*Content) *Content {
	cp := *c
	cp.children = children
	return &cp
}

// FieldError reports a With() call against an unknown or non-settable
// field.
type FieldError struct {
	Kind, Field, Reason string
}

func (e *FieldError) Error() string {
	return "content: " + e.Kind + "." + e.Field + ": " + e.Reason
}

// Sequence joins a run of sibling content into a single node of the
// built-in "sequence" kind, the result of the `+` operator on content
// values (spec.md §4.4 "content joining").
func Sequence(items ...*Content) *Content {
	if len(items) == 1 {
		return items[0]
	}
	var flat []*Content
	for _, it := range items {
		if it.schema.Kind == sequenceKind {
			flat = append(flat, it.children...)
		} else {
			flat = append(flat, it)
		}
	}
	return New(sequenceSchema, nil, flat...)
}

const sequenceKind = "sequence"

var sequenceSchema = &ElementSchema{Kind: sequenceKind}

// Empty returns the zero-child sequence, the result of markup that
// produces nothing (e.g. `#none` interpolated into markup).
func Empty() *Content { return New(sequenceSchema, nil) }

// Styled wraps a content node together with an opaque style-map token
// produced by the style package; kept generic (interface{}) here so
// content never imports style. The style package's evaluator-facing
// apply step type-asserts this back to its own StyleMap.
type Styled struct {
	Body  *Content
	Style any
}

func (s *Styled) Kind() value.Kind { return value.KindContent }
func (s *Styled) Repr() string     { return "styled(" + s.Body.Repr() + ")" }
func (s *Styled) Equal(o value.Value) bool {
	os, ok := o.(*Styled)
	return ok && s.Body.Equal(os.Body)
}
