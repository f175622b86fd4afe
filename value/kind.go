// Package value implements quill's runtime value model: a tagged sum type
// of the kinds named in spec.md §3, a promotion lattice for arithmetic
// (int ≤ float ≤ length), and structural equality/partial ordering.
package value

// Kind is the closed tag space for runtime values (spec.md §3 "Values").
type Kind uint8

const (
	KindNone Kind = iota
	KindAuto
	KindBool
	KindInt
	KindFloat
	KindLength
	KindAngle
	KindRatio
	KindFraction
	KindDecimal
	KindColor
	KindSymbol
	KindString
	KindBytes
	KindArray
	KindDict
	KindContent
	KindFunction
	KindType
	KindModule
	KindLabel
	KindVersion
	KindArguments
	KindDatetime
	KindDuration
	KindStyles
	KindSelector
	KindCounter
)

var kindNames = [...]string{
	"none", "auto", "boolean", "integer", "float", "length", "angle",
	"ratio", "fraction", "decimal", "color", "symbol", "string", "bytes",
	"array", "dictionary", "content", "function", "type", "module",
	"label", "version", "arguments", "datetime", "duration", "styles",
	"selector", "counter",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// rank gives the position of a kind in the numeric promotion lattice.
// Kinds outside {int, float, length} have no rank and never promote.
func (k Kind) rank() (int, bool) {
	switch k {
	case KindInt:
		return 0, true
	case KindFloat:
		return 1, true
	case KindLength:
		return 2, true
	default:
		return 0, false
	}
}
