package content

import "github.com/quill-lang/quill/value"

// StdRegistry returns a registry preloaded with the core element
// kinds spec.md §3 names as the closed registry: text, space,
// linebreak, parbreak, heading, par, block, figure, list/enum/terms
// items, equation, raw, label, ref, image, line, rect, path, metadata,
// sequence. Table/box/path geometry kinds stay minimal stubs: their
// field shape is real but their layout is out of this module's scope
// (spec.md's flow/math layout modules consume a smaller slice of
// fields than a full renderer would).
func StdRegistry() *Registry {
	r := NewRegistry()
	for _, s := range []*ElementSchema{
		textSchema, spaceSchema, linebreakSchema, parbreakSchema,
		headingSchema, parSchema, blockSchema, boxSchema,
		strongSchema, emphSchema, rawSchema, labelRefSchema, refSchema,
		listItemSchema, enumItemSchema, termItemSchema,
		figureSchema, footnoteSchema, outlineSchema, equationSchema,
		imageSchema, lineSchema,
		rectSchema, pathSchema, metadataSchema, sequenceSchema,
		tableSchema, counterUpdateSchema,
		mathSymbolSchema, mathFracSchema, mathAttachSchema, mathRootSchema,
		mathMatrixSchema, mathVecSchema,
	} {
		r.Register(s)
	}
	return r
}

func foldSum(outer, inner value.Value) value.Value {
	sum, err := value.Add(outer, inner)
	if err != nil {
		return inner
	}
	return sum
}

var textSchema = &ElementSchema{
	Kind: "text",
	Fields: []FieldSchema{
		{Name: "body", Role: RoleInherent},
		{Name: "size", Role: RoleSettable, Default: value.Length{Abs: 11 * 2.83465}},
		{Name: "font", Role: RoleSettable, Default: value.String("libertinus serif")},
		{Name: "fill", Role: RoleSettable, Default: value.RGB(0, 0, 0)},
	},
}

var spaceSchema = &ElementSchema{Kind: "space"}
var linebreakSchema = &ElementSchema{Kind: "linebreak"}
var parbreakSchema = &ElementSchema{Kind: "parbreak"}

var headingSchema = &ElementSchema{
	Kind: "heading",
	Fields: []FieldSchema{
		{Name: "body", Role: RoleInherent},
		{Name: "level", Role: RoleSettable, Default: value.Int(1)},
		{Name: "numbering", Role: RoleSettable, Default: value.None{}},
		{Name: "outlined", Role: RoleSettable, Default: value.Bool(true)},
		{Name: "number", Role: RoleSynthesized},
	},
}

var parSchema = &ElementSchema{
	Kind: "par",
	Fields: []FieldSchema{
		{Name: "body", Role: RoleInherent},
		{Name: "leading", Role: RoleSettable, Default: value.Length{Em: 0.65}},
		{Name: "justify", Role: RoleSettable, Default: value.Bool(false)},
	},
}

var blockSchema = &ElementSchema{
	Kind: "block",
	Fields: []FieldSchema{
		{Name: "body", Role: RoleInherent},
		{Name: "above", Role: RoleSettable, Default: value.Length{Em: 1.2}, Fold: maxLength},
		{Name: "below", Role: RoleSettable, Default: value.Length{Em: 1.2}, Fold: maxLength},
		{Name: "breakable", Role: RoleSettable, Default: value.Bool(true)},
		{Name: "width", Role: RoleSettable, Default: value.Auto{}},
		{Name: "height", Role: RoleSettable, Default: value.Auto{}},
	},
}

var boxSchema = &ElementSchema{
	Kind: "box",
	Fields: []FieldSchema{
		{Name: "body", Role: RoleInherent},
		{Name: "width", Role: RoleSettable, Default: value.Auto{}},
		{Name: "height", Role: RoleSettable, Default: value.Auto{}},
	},
}

var strongSchema = &ElementSchema{
	Kind:   "strong",
	Fields: []FieldSchema{{Name: "body", Role: RoleInherent}},
}

var emphSchema = &ElementSchema{
	Kind:   "emph",
	Fields: []FieldSchema{{Name: "body", Role: RoleInherent}},
}

var rawSchema = &ElementSchema{
	Kind: "raw",
	Fields: []FieldSchema{
		{Name: "text", Role: RoleInherent},
		{Name: "lang", Role: RoleSettable, Default: value.None{}},
		{Name: "block", Role: RoleSettable, Default: value.Bool(false)},
	},
}

var labelRefSchema = &ElementSchema{
	Kind:   "label",
	Fields: []FieldSchema{{Name: "name", Role: RoleRequired}},
}

var refSchema = &ElementSchema{
	Kind: "ref",
	Fields: []FieldSchema{
		{Name: "target", Role: RoleRequired},
		{Name: "supplement", Role: RoleSettable, Default: value.Auto{}},
		{Name: "resolved", Role: RoleSynthesized},
	},
}

var listItemSchema = &ElementSchema{
	Kind:   "list.item",
	Fields: []FieldSchema{{Name: "body", Role: RoleInherent}},
}

var enumItemSchema = &ElementSchema{
	Kind: "enum.item",
	Fields: []FieldSchema{
		{Name: "body", Role: RoleInherent},
		{Name: "number", Role: RoleSettable, Default: value.Auto{}},
	},
}

var termItemSchema = &ElementSchema{
	Kind: "terms.item",
	Fields: []FieldSchema{
		{Name: "term", Role: RoleRequired},
		{Name: "body", Role: RoleInherent},
	},
}

var figureSchema = &ElementSchema{
	Kind: "figure",
	Fields: []FieldSchema{
		{Name: "body", Role: RoleInherent},
		{Name: "caption", Role: RoleSettable, Default: value.None{}},
		{Name: "kind", Role: RoleSettable, Default: value.Auto{}},
		{Name: "numbering", Role: RoleSettable, Default: value.String("1")},
		{Name: "number", Role: RoleSynthesized},
		// placement drives K's per-region pending-float queue: none
		// keeps the figure in flow, "top"/"bottom" queues it for the
		// region's float area (spec.md §4.10).
		{Name: "placement", Role: RoleSettable, Default: value.None{}},
	},
}

var footnoteSchema = &ElementSchema{
	Kind: "footnote",
	Fields: []FieldSchema{
		{Name: "body", Role: RoleInherent},
		{Name: "numbering", Role: RoleSettable, Default: value.String("1")},
		{Name: "number", Role: RoleSynthesized},
	},
}

// outlineSchema backs K's restored outline consumer (SPEC_FULL.md §4
// module K): a synthesized list of heading entries built by querying
// the introspector, one per matched heading, formatted with that
// heading's own numbering pattern.
var outlineSchema = &ElementSchema{
	Kind: "outline",
	Fields: []FieldSchema{
		{Name: "title", Role: RoleSettable, Default: value.String("Contents")},
		{Name: "target", Role: RoleSettable, Default: value.String("heading")},
		{Name: "depth", Role: RoleSettable, Default: value.Int(0)},
		{Name: "entries", Role: RoleSynthesized},
	},
}

var equationSchema = &ElementSchema{
	Kind: "equation",
	Fields: []FieldSchema{
		{Name: "body", Role: RoleInherent},
		{Name: "block", Role: RoleSettable, Default: value.Bool(false)},
		{Name: "numbering", Role: RoleSettable, Default: value.None{}},
		{Name: "number", Role: RoleSynthesized},
	},
}

var imageSchema = &ElementSchema{
	Kind: "image",
	Fields: []FieldSchema{
		{Name: "source", Role: RoleRequired},
		{Name: "width", Role: RoleSettable, Default: value.Auto{}},
		{Name: "height", Role: RoleSettable, Default: value.Auto{}},
	},
}

var lineSchema = &ElementSchema{
	Kind: "line",
	Fields: []FieldSchema{
		{Name: "start", Role: RoleSettable, Default: value.NewArray(value.Length{}, value.Length{})},
		{Name: "end", Role: RoleSettable, Default: value.NewArray(value.Length{}, value.Length{})},
		{Name: "stroke", Role: RoleSettable, Default: value.RGB(0, 0, 0)},
	},
}

var rectSchema = &ElementSchema{
	Kind: "rect",
	Fields: []FieldSchema{
		{Name: "width", Role: RoleSettable, Default: value.Auto{}},
		{Name: "height", Role: RoleSettable, Default: value.Auto{}},
		{Name: "fill", Role: RoleSettable, Default: value.None{}},
		{Name: "stroke", Role: RoleSettable, Default: value.None{}},
	},
}

var pathSchema = &ElementSchema{
	Kind: "path",
	Fields: []FieldSchema{
		{Name: "vertices", Role: RoleVariadic},
		{Name: "fill", Role: RoleSettable, Default: value.None{}},
		{Name: "stroke", Role: RoleSettable, Default: value.RGB(0, 0, 0)},
	},
}

var tableSchema = &ElementSchema{
	Kind: "table",
	Fields: []FieldSchema{
		{Name: "children", Role: RoleVariadic},
		{Name: "columns", Role: RoleSettable, Default: value.Auto{}},
		{Name: "stroke", Role: RoleSettable, Default: value.RGB(0, 0, 0)},
	},
}

var metadataSchema = &ElementSchema{
	Kind:   "metadata",
	Fields: []FieldSchema{{Name: "value", Role: RoleRequired}, {Name: "ghostTag", Role: RoleGhost}},
}

// counterUpdateSchema backs the `counter(name).step()` builtin
// (spec.md §8 scenario 2): a zero-geometry, introspectable marker
// recording one delta against a named counter, queried back by
// `.get()`/`.final()` via introspect.Kind("counter.update").
var counterUpdateSchema = &ElementSchema{
	Kind: "counter.update",
	Fields: []FieldSchema{
		{Name: "name", Role: RoleRequired},
		{Name: "amount", Role: RoleRequired},
	},
}

// CounterUpdate builds a counter.update marker directly against the
// fixed schema above, for callers (layout's automatic per-page
// counter) that have no Evaluator/Registry handy to go through the
// normal eval.elem path `counter(name).step()` uses.
func CounterUpdate(name string, amount int64) *Content {
	return New(counterUpdateSchema, map[string]value.Value{
		"name":   value.String(name),
		"amount": value.Int(amount),
	})
}

// Par wraps body in a paragraph element, used by layout to group loose
// inline content into implicit paragraphs.
func Par(body *Content) *Content {
	return New(parSchema, map[string]value.Value{"body": body})
}

// Text builds a plain text element.
func Text(s string) *Content {
	return New(textSchema, map[string]value.Value{"body": value.String(s)})
}

func maxLength(outer, inner value.Value) value.Value {
	ol, ook := outer.(value.Length)
	il, iok := inner.(value.Length)
	if !ook || !iok {
		return inner
	}
	if ol.Resolve(0) > il.Resolve(0) {
		return ol
	}
	return il
}
