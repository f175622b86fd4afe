// Package syntax implements the compiler's lexer, green tree, parser and
// incremental reparser (spec.md §4.1-§4.3), plus the typed AST view
// (spec.md §3 "AST view") in the syntax/ast subpackage.
package syntax

// Kind is the closed tag space shared by tokens and composite nodes
// (spec.md §3 "Syntax tree": "tokens and composite nodes share the tag
// space"). Spelled out as named constants rather than a language-table
// index since this module targets exactly one fixed grammar.
type Kind uint16

const (
	KindError Kind = iota

	// Trivia.
	KindSpace
	KindLineComment
	KindBlockComment
	KindShebang

	// End of input, used as a zero-width token kind.
	KindEOF

	// Markup punctuation/text.
	KindText
	KindLinebreak
	KindParbreak
	KindHashMark  // '#', enters code mode from markup
	KindStrongMark
	KindEmphMark
	KindRawDelim
	KindRawLang
	KindRawBody
	KindLabelMark
	KindLabelName
	KindRefMark
	KindRefTarget
	KindHeadingMark // leading '=' run
	KindListMark    // leading '-'
	KindEnumMark    // leading '+'
	KindTermMark    // leading '/'
	KindColon
	KindDollar // '$', enters/leaves math mode

	// Composite markup nodes.
	KindMarkup
	KindStrong
	KindEmph
	KindRaw
	KindLabel
	KindRef
	KindHeading
	KindListItem
	KindEnumItem
	KindTermItem
	KindEquation

	// Math nodes.
	KindMath
	KindMathIdent
	KindMathText
	KindMathDelimited
	KindMathAttach // sub/superscript
	KindMathFrac
	KindMathAlignPoint

	// Code punctuation.
	KindLeftBrace
	KindRightBrace
	KindLeftBracket
	KindRightBracket
	KindLeftParen
	KindRightParen
	KindComma
	KindSemicolon
	KindDot
	KindEquals
	KindPlus
	KindMinus
	KindStar
	KindSlash
	KindEqEq
	KindNotEq
	KindLtEq
	KindGtEq
	KindLt
	KindGt
	KindAnd
	KindOr
	KindNot
	KindDotDot
	KindArrow
	KindNamedColon

	// Code literals and identifiers.
	KindIdent
	KindInt
	KindFloat
	KindNumeric // number with a unit suffix, resolved by the evaluator
	KindStr
	KindBool
	KindNone
	KindAuto

	// Code composite nodes.
	KindCodeBlock
	KindContentBlock
	KindParenthesized
	KindArrayLiteral
	KindDictLiteral
	KindNamed
	KindSpread
	KindUnary
	KindBinary
	KindFieldAccess
	KindFuncCall
	KindArgs
	KindClosure
	KindParams
	KindLetBinding
	KindSetRule
	KindShowRule
	KindConditional
	KindWhileLoop
	KindForLoop
	KindModuleImport
	KindModuleInclude
	KindBreak
	KindContinue
	KindReturnStmt
	KindDestructuring

	kindCount
)

var kindNames = [...]string{
	KindError:          "Error",
	KindSpace:          "Space",
	KindLineComment:    "LineComment",
	KindBlockComment:   "BlockComment",
	KindShebang:        "Shebang",
	KindEOF:            "EOF",
	KindText:           "Text",
	KindLinebreak:      "Linebreak",
	KindParbreak:       "Parbreak",
	KindHashMark:       "HashMark",
	KindStrongMark:     "StrongMark",
	KindEmphMark:       "EmphMark",
	KindRawDelim:       "RawDelim",
	KindRawLang:        "RawLang",
	KindRawBody:        "RawBody",
	KindLabelMark:      "LabelMark",
	KindLabelName:      "LabelName",
	KindRefMark:        "RefMark",
	KindRefTarget:      "RefTarget",
	KindHeadingMark:    "HeadingMark",
	KindListMark:       "ListMark",
	KindEnumMark:       "EnumMark",
	KindTermMark:       "TermMark",
	KindColon:          "Colon",
	KindDollar:         "Dollar",
	KindMarkup:         "Markup",
	KindStrong:         "Strong",
	KindEmph:           "Emph",
	KindRaw:            "Raw",
	KindLabel:          "Label",
	KindRef:            "Ref",
	KindHeading:        "Heading",
	KindListItem:       "ListItem",
	KindEnumItem:       "EnumItem",
	KindTermItem:       "TermItem",
	KindEquation:       "Equation",
	KindMath:           "Math",
	KindMathIdent:      "MathIdent",
	KindMathText:       "MathText",
	KindMathDelimited:  "MathDelimited",
	KindMathAttach:     "MathAttach",
	KindMathFrac:       "MathFrac",
	KindMathAlignPoint: "MathAlignPoint",
	KindLeftBrace:      "LeftBrace",
	KindRightBrace:     "RightBrace",
	KindLeftBracket:    "LeftBracket",
	KindRightBracket:   "RightBracket",
	KindLeftParen:      "LeftParen",
	KindRightParen:     "RightParen",
	KindComma:          "Comma",
	KindSemicolon:      "Semicolon",
	KindDot:            "Dot",
	KindEquals:         "Equals",
	KindPlus:           "Plus",
	KindMinus:          "Minus",
	KindStar:           "Star",
	KindSlash:          "Slash",
	KindEqEq:           "EqEq",
	KindNotEq:          "NotEq",
	KindLtEq:           "LtEq",
	KindGtEq:           "GtEq",
	KindLt:             "Lt",
	KindGt:             "Gt",
	KindAnd:            "And",
	KindOr:             "Or",
	KindNot:            "Not",
	KindDotDot:         "DotDot",
	KindArrow:          "Arrow",
	KindNamedColon:     "NamedColon",
	KindIdent:          "Ident",
	KindInt:            "Int",
	KindFloat:          "Float",
	KindNumeric:        "Numeric",
	KindStr:            "Str",
	KindBool:           "Bool",
	KindNone:           "None",
	KindAuto:           "Auto",
	KindCodeBlock:      "CodeBlock",
	KindContentBlock:   "ContentBlock",
	KindParenthesized:  "Parenthesized",
	KindArrayLiteral:   "ArrayLiteral",
	KindDictLiteral:    "DictLiteral",
	KindNamed:          "Named",
	KindSpread:         "Spread",
	KindUnary:          "Unary",
	KindBinary:         "Binary",
	KindFieldAccess:    "FieldAccess",
	KindFuncCall:       "FuncCall",
	KindArgs:           "Args",
	KindClosure:        "Closure",
	KindParams:         "Params",
	KindLetBinding:     "LetBinding",
	KindSetRule:        "SetRule",
	KindShowRule:       "ShowRule",
	KindConditional:    "Conditional",
	KindWhileLoop:      "WhileLoop",
	KindForLoop:        "ForLoop",
	KindModuleImport:   "ModuleImport",
	KindModuleInclude:  "ModuleInclude",
	KindBreak:          "Break",
	KindContinue:       "Continue",
	KindReturnStmt:     "ReturnStmt",
	KindDestructuring:  "Destructuring",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Unknown"
}

// IsTrivia reports whether a kind is whitespace, a comment, or a
// shebang — preserved in the green tree but skipped by the AST view
// (spec.md §3).
func (k Kind) IsTrivia() bool {
	switch k {
	case KindSpace, KindLineComment, KindBlockComment, KindShebang:
		return true
	default:
		return false
	}
}

// Mode is one of the three lexer/parser modes from spec.md §4.1.
type Mode uint8

const (
	ModeMarkup Mode = iota
	ModeCode
	ModeMath
)

func (m Mode) String() string {
	switch m {
	case ModeMarkup:
		return "markup"
	case ModeCode:
		return "code"
	case ModeMath:
		return "math"
	default:
		return "unknown"
	}
}
