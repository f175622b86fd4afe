package content

import "github.com/quill-lang/quill/value"

// Math element kinds spec.md §4.11 walks to produce fragments, grounded
// on original_source typst-library/src/math/{mod,matrix}.rs: a math
// symbol carries its TeX atom class (mathlayout assigns the default
// when "class" is auto), frac/attach/root are the non-row math
// function calls the scenario in spec.md §4.11 exercises, and
// matrix/vec are the column-major layout forms.
var mathSymbolSchema = &ElementSchema{
	Kind: "math.symbol",
	Fields: []FieldSchema{
		{Name: "text", Role: RoleInherent},
		{Name: "class", Role: RoleSettable, Default: value.Auto{}},
	},
}

var mathFracSchema = &ElementSchema{
	Kind: "math.frac",
	Fields: []FieldSchema{
		{Name: "num", Role: RoleRequired},
		{Name: "denom", Role: RoleRequired},
	},
}

var mathAttachSchema = &ElementSchema{
	Kind: "math.attach",
	Fields: []FieldSchema{
		{Name: "base", Role: RoleRequired},
		{Name: "top", Role: RoleSettable, Default: value.None{}},
		{Name: "bottom", Role: RoleSettable, Default: value.None{}},
	},
}

var mathRootSchema = &ElementSchema{
	Kind: "math.root",
	Fields: []FieldSchema{
		{Name: "radicand", Role: RoleRequired},
		{Name: "index", Role: RoleSettable, Default: value.None{}},
	},
}

var mathMatrixSchema = &ElementSchema{
	Kind: "math.mat",
	Fields: []FieldSchema{
		{Name: "rows", Role: RoleVariadic},
		{Name: "delim", Role: RoleSettable, Default: value.String("(")},
		{Name: "augment", Role: RoleSettable, Default: value.None{}},
	},
}

var mathVecSchema = &ElementSchema{
	Kind: "math.vec",
	Fields: []FieldSchema{
		{Name: "children", Role: RoleVariadic},
		{Name: "delim", Role: RoleSettable, Default: value.String("(")},
	},
}
