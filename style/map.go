// Package style implements the style chain (spec.md §3 "Style chain" +
// §4.6): an immutable cons-list of style maps, each holding property
// writes and show-rule recipes, with innermost-wins lookup and a
// bounded LRU memoization layer since lookup must stay pure but is
// called once per field per element during layout.
package style

import "github.com/quill-lang/quill/value"

// Property is one `set element.field = value` write recorded in a
// style map, keyed by element kind and field name rather than a
// hierarchy of setter types (spec.md §8 "Field storage without
// inheritance").
type Property struct {
	ElementKind string
	Field       string
	Value       value.Value
	Span        Span
}

// Span locates the syntax that produced a Property or Recipe, for
// diagnostics pointing back at a `set`/`show` rule.
type Span struct {
	File       string
	Start, End uint32
}

// Recipe is a `show selector: transform` entry. Selector is kept
// opaque (the introspect package's Selector type satisfies it
// structurally via the Matches method below) so style does not import
// introspect. Transform is any evaluator-level callable value; style
// does not interpret it, only stores and retrieves it in order.
type Recipe struct {
	Selector  Selector
	Transform value.Value
	Span      Span
}

// Selector is the minimal capability style needs to carry a recipe's
// target around: "does this content match". The introspect package's
// selector algebra implements this.
type Selector interface {
	Matches(kind string, label string) bool
}

// Map is one style frame: a small ordered list of property writes
// plus zero or more show-rule recipes, exactly what one `set`/`show`
// statement (or a style argument passed into a function call)
// contributes.
type Map struct {
	Properties []Property
	Recipes    []Recipe
}

// NewMap builds an empty style map to append properties/recipes to.
func NewMap() *Map { return &Map{} }

// SetProperty appends a property write, returning the map for
// chaining; style maps are built once then frozen onto a Chain, so
// in-place append here is safe (it never aliases a Chain's link).
func (m *Map) SetProperty(elementKind, field string, v value.Value, span Span) *Map {
	m.Properties = append(m.Properties, Property{ElementKind: elementKind, Field: field, Value: v, Span: span})
	return m
}

// AddRecipe appends a show-rule recipe.
func (m *Map) AddRecipe(sel Selector, transform value.Value, span Span) *Map {
	m.Recipes = append(m.Recipes, Recipe{Selector: sel, Transform: transform, Span: span})
	return m
}
