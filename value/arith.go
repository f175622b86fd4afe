package value

import (
	"fmt"

	"github.com/spf13/cast"
)

// Add implements the int ≤ float ≤ length promotion lattice from
// spec.md §4.4: the operand with the lower rank is promoted to the
// higher one before the operation; Decimal and Length never silently
// coerce to Float ("Operations on decimal or length raise typed errors
// rather than coercing to float", spec.md §4.7), so mixing a Decimal or
// Length with anything outside its own promotion path is a TypeError.
func Add(a, b Value) (Value, error) {
	if ar, ok := a.(*Array); ok {
		if br, ok := b.(*Array); ok {
			return NewArray(append(append([]Value{}, ar.items...), br.items...)...), nil
		}
	}
	if as, ok := a.(String); ok {
		if bs, ok := b.(String); ok {
			return as + bs, nil
		}
	}
	if ad, ok := a.(Decimal); ok {
		bd, ok := b.(Decimal)
		if !ok {
			return nil, fmt.Errorf("cannot add %s to decimal; use float(x) for an explicit, imprecise conversion", b.Kind())
		}
		return ad.Add(bd)
	}
	if al, ok := a.(Length); ok {
		bl, ok := b.(Length)
		if !ok {
			return nil, fmt.Errorf("cannot add %s to length", b.Kind())
		}
		return al.Add(bl), nil
	}
	if ai, ok := a.(Int); ok {
		if bi, ok := b.(Int); ok {
			return ai + bi, nil
		}
	}
	return promoteAndApply(a, b, func(x, y float64) float64 { return x + y })
}

// Sub mirrors Add for subtraction.
func Sub(a, b Value) (Value, error) {
	if ad, ok := a.(Decimal); ok {
		bd, ok := b.(Decimal)
		if !ok {
			return nil, fmt.Errorf("cannot subtract %s from decimal; use float(x) for an explicit conversion", b.Kind())
		}
		return ad.Sub(bd)
	}
	if al, ok := a.(Length); ok {
		bl, ok := b.(Length)
		if !ok {
			return nil, fmt.Errorf("cannot subtract %s from length", b.Kind())
		}
		return al.Add(bl.Scale(-1)), nil
	}
	if ai, ok := a.(Int); ok {
		if bi, ok := b.(Int); ok {
			return ai - bi, nil
		}
	}
	return promoteAndApply(a, b, func(x, y float64) float64 { return x - y })
}

// Mul mirrors Add for multiplication; a Length may be scaled by a plain
// number.
func Mul(a, b Value) (Value, error) {
	if ad, ok := a.(Decimal); ok {
		bd, ok := b.(Decimal)
		if !ok {
			return nil, fmt.Errorf("cannot multiply decimal by %s; use float(x) for an explicit conversion", b.Kind())
		}
		return ad.Mul(bd)
	}
	if al, ok := a.(Length); ok {
		f, ok := scalarOf(b)
		if !ok {
			return nil, fmt.Errorf("cannot multiply length by %s", b.Kind())
		}
		return al.Scale(f), nil
	}
	if bl, ok := b.(Length); ok {
		f, ok := scalarOf(a)
		if !ok {
			return nil, fmt.Errorf("cannot multiply %s by length", a.Kind())
		}
		return bl.Scale(f), nil
	}
	if ai, ok := a.(Int); ok {
		if bi, ok := b.(Int); ok {
			return ai * bi, nil
		}
	}
	return promoteAndApply(a, b, func(x, y float64) float64 { return x * y })
}

// Div mirrors Add/Sub/Mul's typed-error discipline for division
// (spec.md §4.7: "Operations on decimal or length raise typed errors
// rather than coercing to float; explicit float(x) is required").
// Decimal division never touches float64: Decimal.Div computes an
// exact fixed-point quotient. Length division by a plain scalar scales
// the length exactly; a Length divided by another Length produces a
// dimensionless Ratio (both lengths must be fully resolved to points).
func Div(a, b Value) (Value, error) {
	if ad, ok := a.(Decimal); ok {
		bd, ok := b.(Decimal)
		if !ok {
			return nil, fmt.Errorf("cannot divide decimal by %s; use float(x) for an explicit conversion", b.Kind())
		}
		return ad.Div(bd)
	}
	if _, ok := b.(Decimal); ok {
		return nil, fmt.Errorf("cannot divide %s by decimal; use float(x) for an explicit conversion", a.Kind())
	}
	if al, ok := a.(Length); ok {
		if bl, ok := b.(Length); ok {
			if !al.IsAbsolute() || !bl.IsAbsolute() {
				return nil, fmt.Errorf("cannot divide lengths with an unresolved em component")
			}
			if bl.Abs == 0 {
				return nil, fmt.Errorf("division by zero")
			}
			return Ratio(al.Abs / bl.Abs), nil
		}
		f, ok := scalarOf(b)
		if !ok {
			return nil, fmt.Errorf("cannot divide length by %s", b.Kind())
		}
		if f == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return al.Scale(1 / f), nil
	}
	if _, ok := b.(Length); ok {
		return nil, fmt.Errorf("cannot divide %s by length", a.Kind())
	}

	ar, aok := a.Kind().rank()
	br, bok := b.Kind().rank()
	if !aok || !bok || ar > 1 || br > 1 {
		return nil, fmt.Errorf("cannot combine %s and %s", a.Kind(), b.Kind())
	}
	af, err := cast.ToFloat64E(scalarInterface(a))
	if err != nil {
		return nil, err
	}
	bf, err := cast.ToFloat64E(scalarInterface(b))
	if err != nil {
		return nil, err
	}
	if bf == 0 {
		return nil, fmt.Errorf("division by zero")
	}
	result := af / bf
	if ar == 0 && br == 0 && result == float64(int64(result)) {
		return Int(int64(result)), nil
	}
	return Float(result), nil
}

func scalarOf(v Value) (float64, bool) {
	switch t := v.(type) {
	case Int:
		return float64(t), true
	case Float:
		return float64(t), true
	default:
		return 0, false
	}
}

// promoteAndApply promotes a and b to the higher of their lattice ranks
// (int or float; Length is excluded here since its arithmetic has its
// own explicit cases above) and applies f, demoting back to Int if both
// inputs were Int and the result is exact.
func promoteAndApply(a, b Value, f func(x, y float64) float64) (Value, error) {
	ar, aok := a.Kind().rank()
	br, bok := b.Kind().rank()
	if !aok || !bok || ar > 1 || br > 1 {
		return nil, fmt.Errorf("cannot combine %s and %s", a.Kind(), b.Kind())
	}
	af, err := cast.ToFloat64E(scalarInterface(a))
	if err != nil {
		return nil, err
	}
	bf, err := cast.ToFloat64E(scalarInterface(b))
	if err != nil {
		return nil, err
	}
	result := f(af, bf)
	if ar == 0 && br == 0 && result == float64(int64(result)) {
		return Int(int64(result)), nil
	}
	return Float(result), nil
}

func scalarInterface(v Value) interface{} {
	switch t := v.(type) {
	case Int:
		return int64(t)
	case Float:
		return float64(t)
	default:
		return nil
	}
}

// ToFloat performs the explicit `float(x)` cast builtin, the only
// sanctioned way to move a Decimal or Length into float arithmetic
// (spec.md §4.7).
func ToFloat(v Value) (Float, error) {
	switch t := v.(type) {
	case Int:
		return Float(t), nil
	case Float:
		return t, nil
	case Decimal:
		return Float(t.Float64()), nil
	case Length:
		if !t.IsAbsolute() {
			return 0, fmt.Errorf("cannot convert a length with an unresolved em component to float")
		}
		return Float(t.Abs), nil
	case Ratio:
		return Float(t), nil
	default:
		return 0, fmt.Errorf("cannot convert %s to float", v.Kind())
	}
}

// ToInt performs the explicit `int(x)` cast builtin, truncating floats.
func ToInt(v Value) (Int, error) {
	switch t := v.(type) {
	case Int:
		return t, nil
	case Float:
		return Int(int64(t)), nil
	case Bool:
		if t {
			return 1, nil
		}
		return 0, nil
	case String:
		n, err := cast.ToInt64E(string(t))
		if err != nil {
			return 0, fmt.Errorf("cannot convert %q to integer", string(t))
		}
		return Int(n), nil
	default:
		return 0, fmt.Errorf("cannot convert %s to integer", v.Kind())
	}
}
