// Package content implements the typed content tree (spec.md §3
// "Content" + §4.5): immutable, ref-counted-by-sharing element nodes
// whose fields are declared up front by a per-element-kind schema
// (inherent/settable/required/variadic/synthesized/ghost), mirroring
// original_source's field.rs classification of how a field may be
// populated and whether a show rule ever sees it.
package content

import "github.com/quill-lang/quill/value"

// FieldRole classifies how a field participates in construction,
// `set` rules, and show-rule visibility (spec.md §4.5).
type FieldRole uint8

const (
	// RoleInherent fields are positional/always-present parts of an
	// element's identity (e.g. a heading's body) — never styled.
	RoleInherent FieldRole = iota
	// RoleSettable fields have a style-chain-backed default and can be
	// overridden per-call or via a `set` rule.
	RoleSettable
	// RoleRequired fields must be supplied at construction time with
	// no style-chain fallback.
	RoleRequired
	// RoleVariadic fields collect a trailing spread of values.
	RoleVariadic
	// RoleSynthesized fields are computed by the evaluator/layout
	// passes after construction (e.g. a heading's resolved numbering)
	// and are read-only to user code.
	RoleSynthesized
	// RoleGhost fields carry internal bookkeeping invisible to show
	// rules and excluded from field introspection.
	RoleGhost
)

// FieldSchema describes one field of an element kind.
type FieldSchema struct {
	Name    string
	Role    FieldRole
	Default value.Value // only meaningful for RoleSettable
	// Fold combines an outer (already-applied) value with an inner
	// (more locally set) one when the style chain resolves multiple
	// writes to the same settable field (spec.md §4.6's fold
	// semantics); nil means "inner simply replaces outer".
	Fold func(outer, inner value.Value) value.Value
}

// ElementSchema is the full field layout for one element kind,
// registered once up front and consulted by every Content node of
// that kind.
type ElementSchema struct {
	Kind   string
	Fields []FieldSchema
}

func (s *ElementSchema) field(name string) (FieldSchema, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSchema{}, false
}

// Registry is the set of known element kinds, keyed by name. A
// Content node's behavior (which fields exist, their roles and
// defaults) is entirely driven by looking its kind up here.
type Registry struct {
	schemas map[string]*ElementSchema
}

// NewRegistry builds an empty registry. Use StdRegistry for one
// preloaded with the built-in element kinds.
func NewRegistry() *Registry {
	return &Registry{schemas: make(map[string]*ElementSchema)}
}

// Register adds or replaces a schema.
func (r *Registry) Register(schema *ElementSchema) {
	r.schemas[schema.Kind] = schema
}

// Lookup returns the schema for kind, or nil if unregistered.
func (r *Registry) Lookup(kind string) *ElementSchema {
	return r.schemas[kind]
}
