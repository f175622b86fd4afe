package content

import (
	"encoding/json"
	"sort"

	"github.com/invopop/jsonschema"
)

// ElementDescriptor is the serializable description of one element
// kind: what SchemaJSON emits per registered schema so host tooling
// can validate authored content without linking the compiler.
type ElementDescriptor struct {
	Kind   string            `json:"kind"`
	Fields []FieldDescriptor `json:"fields,omitempty"`
}

// FieldDescriptor describes one field of an element kind.
type FieldDescriptor struct {
	Name     string `json:"name"`
	Role     string `json:"role"`
	Default  string `json:"default,omitempty"`
	Foldable bool   `json:"foldable,omitempty"`
}

// Kinds returns every registered element kind, sorted, so SchemaJSON's
// output is deterministic across runs.
func (r *Registry) Kinds() []string {
	out := make([]string, 0, len(r.schemas))
	for k := range r.schemas {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// SchemaJSON emits the closed element/field registry as a JSON
// document: `schema` is the reflected JSON Schema of the descriptor
// shape (so consumers can validate the `elements` array itself), and
// `elements` lists every registered kind with its field roles,
// defaults and fold-ability.
func (r *Registry) SchemaJSON() ([]byte, error) {
	elements := make([]ElementDescriptor, 0, len(r.schemas))
	for _, kind := range r.Kinds() {
		s := r.Lookup(kind)
		d := ElementDescriptor{Kind: s.Kind}
		for _, f := range s.Fields {
			fd := FieldDescriptor{Name: f.Name, Role: roleName(f.Role), Foldable: f.Fold != nil}
			if f.Role == RoleSettable && f.Default != nil {
				fd.Default = f.Default.Repr()
			}
			d.Fields = append(d.Fields, fd)
		}
		elements = append(elements, d)
	}
	doc := struct {
		Schema   *jsonschema.Schema  `json:"schema"`
		Elements []ElementDescriptor `json:"elements"`
	}{
		Schema:   jsonschema.Reflect(ElementDescriptor{}),
		Elements: elements,
	}
	return json.MarshalIndent(doc, "", "  ")
}

func roleName(r FieldRole) string {
	switch r {
	case RoleInherent:
		return "inherent"
	case RoleSettable:
		return "settable"
	case RoleRequired:
		return "required"
	case RoleVariadic:
		return "variadic"
	case RoleSynthesized:
		return "synthesized"
	case RoleGhost:
		return "ghost"
	default:
		return "unknown"
	}
}
