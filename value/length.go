package value

import "fmt"

// ptPerUnit converts each absolute unit named in spec.md §4.1 to points.
var ptPerUnit = map[string]float64{
	"pt": 1,
	"mm": 2.83465,
	"cm": 28.3465,
	"in": 72,
}

// Length combines an absolute component (in points) and an em component,
// per spec.md §3 "length (absolute+em combined)". Resolving an em
// component to points requires a font size, done by the caller (the
// style chain knows the current text size); arithmetic between two
// Lengths never needs that resolution.
type Length struct {
	Abs float64 // points
	Em  float64
}

// ParseLengthUnit converts a numeric literal with one of pt/mm/cm/in into
// a Length; em itself is produced directly by the parser/evaluator when
// it sees the `em` unit, since it has no absolute component.
func ParseLengthUnit(n float64, unit string) (Length, bool) {
	if unit == "em" {
		return Length{Em: n}, true
	}
	factor, ok := ptPerUnit[unit]
	if !ok {
		return Length{}, false
	}
	return Length{Abs: n * factor}, true
}

func (Length) Kind() Kind { return KindLength }

func (l Length) Repr() string {
	switch {
	case l.Abs != 0 && l.Em != 0:
		return fmt.Sprintf("%gpt + %gem", l.Abs, l.Em)
	case l.Em != 0:
		return fmt.Sprintf("%gem", l.Em)
	default:
		return fmt.Sprintf("%gpt", l.Abs)
	}
}

func (l Length) Equal(o Value) bool {
	ol, ok := o.(Length)
	return ok && ol == l
}

// Add combines two lengths component-wise.
func (l Length) Add(o Length) Length {
	return Length{Abs: l.Abs + o.Abs, Em: l.Em + o.Em}
}

// Scale multiplies both components by a scalar.
func (l Length) Scale(f float64) Length {
	return Length{Abs: l.Abs * f, Em: l.Em * f}
}

// Resolve turns the combined length into an absolute point value given
// the em basis (current font size in points).
func (l Length) Resolve(emSizePt float64) float64 {
	return l.Abs + l.Em*emSizePt
}

// IsAbsolute reports whether the length has no unresolved em component.
func (l Length) IsAbsolute() bool { return l.Em == 0 }
