package value

import "strings"

// Compare orders two values where spec.md §4.4 defines an ordering:
// numbers (through the promotion lattice), strings (Unicode scalar
// value), and arrays/dicts (lexicographic). It returns ok=false for
// kinds with no defined order or a mismatched pair ("ordering is
// partial", spec.md §3).
func Compare(a, b Value) (int, bool) {
	switch av := a.(type) {
	case Int:
		return cmpNumeric(float64(av), b)
	case Float:
		return cmpNumeric(float64(av), b)
	case Length:
		bl, ok := b.(Length)
		if !ok || !av.IsAbsolute() || !bl.IsAbsolute() {
			return 0, false
		}
		return cmpFloat(av.Abs, bl.Abs), true
	case Decimal:
		bd, ok := b.(Decimal)
		if !ok {
			return 0, false
		}
		return av.Compare(bd)
	case String:
		bs, ok := b.(String)
		if !ok {
			return 0, false
		}
		return strings.Compare(string(av), string(bs)), true
	case *Array:
		bb, ok := b.(*Array)
		if !ok {
			return 0, false
		}
		return av.Compare(bb)
	case *Dict:
		bb, ok := b.(*Dict)
		if !ok {
			return 0, false
		}
		return av.Compare(bb)
	case Version:
		bb, ok := b.(Version)
		if !ok {
			return 0, false
		}
		return av.Compare(bb), true
	default:
		return 0, false
	}
}

func cmpNumeric(af float64, b Value) (int, bool) {
	switch bv := b.(type) {
	case Int:
		return cmpFloat(af, float64(bv)), true
	case Float:
		return cmpFloat(af, float64(bv)), true
	default:
		return 0, false
	}
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
