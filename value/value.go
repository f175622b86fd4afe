package value

import (
	"fmt"
	"sort"
	"strings"

	om "github.com/wk8/go-ordered-map/v2"
)

// Value is implemented by every runtime value kind. Content, Function,
// Module, Styles and Selector are implemented in their owning packages
// (content, eval, style, introspect respectively) to avoid import cycles;
// everything else lives here.
type Value interface {
	Kind() Kind
	// Repr formats the value the way it would appear in source code, used
	// for diagnostics and the `repr` builtin.
	Repr() string
	// Equal implements spec.md §3's structural equality ("Equality is
	// structural where meaningful").
	Equal(Value) bool
}

// None is quill's absence-of-value.
type None struct{}

func (None) Kind() Kind        { return KindNone }
func (None) Repr() string      { return "none" }
func (None) Equal(o Value) bool { _, ok := o.(None); return ok }

// Auto is the "use the default" sentinel distinct from None.
type Auto struct{}

func (Auto) Kind() Kind        { return KindAuto }
func (Auto) Repr() string      { return "auto" }
func (Auto) Equal(o Value) bool { _, ok := o.(Auto); return ok }

// Bool wraps a boolean.
type Bool bool

func (Bool) Kind() Kind   { return KindBool }
func (b Bool) Repr() string {
	if b {
		return "true"
	}
	return "false"
}
func (b Bool) Equal(o Value) bool { ob, ok := o.(Bool); return ok && ob == b }

// Int is a 64-bit signed integer, matching "integers respect platform
// 64-bit range" from spec.md §4.1.
type Int int64

func (Int) Kind() Kind            { return KindInt }
func (i Int) Repr() string        { return fmt.Sprintf("%d", int64(i)) }
func (i Int) Equal(o Value) bool  { oi, ok := o.(Int); return ok && oi == i }

// Float is an IEEE-754 double. NaN/Inf are permitted (spec.md §3), unlike
// Decimal.
type Float float64

func (Float) Kind() Kind   { return KindFloat }
func (f Float) Repr() string {
	s := fmt.Sprintf("%g", float64(f))
	if !strings.ContainsAny(s, ".eEnN") { // n/N catches "NaN", "Inf"
		s += ".0"
	}
	return s
}
func (f Float) Equal(o Value) bool { of, ok := o.(Float); return ok && of == f }

// Angle is stored in radians internally, spec says `deg|rad` units.
type Angle float64

func (Angle) Kind() Kind { return KindAngle }
func (a Angle) Degrees() float64 { return float64(a) * 180 / 3.14159265358979323846 }
func (a Angle) Repr() string     { return fmt.Sprintf("%gdeg", a.Degrees()) }
func (a Angle) Equal(o Value) bool { oa, ok := o.(Angle); return ok && oa == a }

// Ratio is a percentage, stored as the fraction (50% == Ratio(0.5)).
type Ratio float64

func (Ratio) Kind() Kind     { return KindRatio }
func (r Ratio) Repr() string { return fmt.Sprintf("%g%%", float64(r)*100) }
func (r Ratio) Equal(o Value) bool { or, ok := o.(Ratio); return ok && or == r }

// Fraction is the `fr` unit used to distribute leftover space.
type Fraction float64

func (Fraction) Kind() Kind     { return KindFraction }
func (f Fraction) Repr() string { return fmt.Sprintf("%gfr", float64(f)) }
func (f Fraction) Equal(o Value) bool { of, ok := o.(Fraction); return ok && of == f }

// Symbol is an interned name distinct from String (e.g. math letters,
// named glyphs).
type Symbol string

func (Symbol) Kind() Kind      { return KindSymbol }
func (s Symbol) Repr() string  { return "sym(\"" + string(s) + "\")" }
func (s Symbol) Equal(o Value) bool { os, ok := o.(Symbol); return ok && os == s }

// Label is an interned string attached to content for later query
// (spec.md §3 "Locations and labels").
type Label string

func (Label) Kind() Kind      { return KindLabel }
func (l Label) Repr() string  { return "<" + string(l) + ">" }
func (l Label) Equal(o Value) bool { ol, ok := o.(Label); return ok && ol == l }

// Version is a dotted numeric version, as used in package specs
// (`@namespace/name:ver`).
type Version []int

func (Version) Kind() Kind { return KindVersion }
func (v Version) Repr() string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = fmt.Sprintf("%d", n)
	}
	return strings.Join(parts, ".")
}
func (v Version) Equal(o Value) bool {
	ov, ok := o.(Version)
	if !ok || len(ov) != len(v) {
		return false
	}
	for i := range v {
		if v[i] != ov[i] {
			return false
		}
	}
	return true
}

// Compare orders two versions component-wise, 0-padding the shorter one.
func (v Version) Compare(o Version) int {
	n := len(v)
	if len(o) > n {
		n = len(o)
	}
	for i := 0; i < n; i++ {
		a, b := 0, 0
		if i < len(v) {
			a = v[i]
		}
		if i < len(o) {
			b = o[i]
		}
		if a != b {
			if a < b {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Bytes is a raw byte buffer value.
type Bytes []byte

func (Bytes) Kind() Kind     { return KindBytes }
func (b Bytes) Repr() string { return fmt.Sprintf("bytes(%d)", len(b)) }
func (b Bytes) Equal(o Value) bool {
	ob, ok := o.(Bytes)
	return ok && string(ob) == string(b)
}

// Array is an ordered, homogeneous-or-not sequence of values.
type Array struct {
	items []Value
}

// NewArray builds an Array from the given items, copying the slice.
func NewArray(items ...Value) *Array {
	a := &Array{items: append([]Value{}, items...)}
	return a
}

func (*Array) Kind() Kind  { return KindArray }
func (a *Array) Len() int  { return len(a.items) }
func (a *Array) At(i int) (Value, bool) {
	if i < 0 || i >= len(a.items) {
		return nil, false
	}
	return a.items[i], true
}
func (a *Array) Items() []Value { return a.items }

// Push returns a new Array with v appended, the copy-on-write convention
// from spec.md §9 ("Mutable state is not captured; mutating builtins
// (array.push) operate on a single owning reference via copy-on-write").
func (a *Array) Push(v Value) *Array {
	next := make([]Value, len(a.items)+1)
	copy(next, a.items)
	next[len(a.items)] = v
	return &Array{items: next}
}

// Slice returns the sub-array spanning [start, end), clamped to the
// array's bounds the same way String.Slice clamps grapheme offsets.
func (a *Array) Slice(start, end int) *Array {
	if start < 0 {
		start = 0
	}
	if end > len(a.items) {
		end = len(a.items)
	}
	if start >= end {
		return NewArray()
	}
	return NewArray(a.items[start:end]...)
}

func (a *Array) Repr() string {
	parts := make([]string, len(a.items))
	for i, it := range a.items {
		parts[i] = it.Repr()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (a *Array) Equal(o Value) bool {
	oa, ok := o.(*Array)
	if !ok || len(oa.items) != len(a.items) {
		return false
	}
	for i := range a.items {
		if !a.items[i].Equal(oa.items[i]) {
			return false
		}
	}
	return true
}

// Compare implements the lexicographic array ordering from spec.md §4.4.
func (a *Array) Compare(o *Array) (int, bool) {
	n := len(a.items)
	if len(o.items) < n {
		n = len(o.items)
	}
	for i := 0; i < n; i++ {
		c, ok := Compare(a.items[i], o.items[i])
		if !ok {
			return 0, false
		}
		if c != 0 {
			return c, true
		}
	}
	switch {
	case len(a.items) < len(o.items):
		return -1, true
	case len(a.items) > len(o.items):
		return 1, true
	default:
		return 0, true
	}
}

// Dict is an insertion-ordered string-keyed mapping (spec.md §3), backed
// by go-ordered-map so insertion order survives iteration and Repr.
type Dict struct {
	m *om.OrderedMap[string, Value]
}

// NewDict creates an empty Dict.
func NewDict() *Dict {
	return &Dict{m: om.New[string, Value]()}
}

func (*Dict) Kind() Kind { return KindDict }

// Get returns the value for key, and whether it was present.
func (d *Dict) Get(key string) (Value, bool) {
	if d.m == nil {
		return nil, false
	}
	return d.m.Get(key)
}

// With returns a new Dict with key set to v, preserving the insertion
// order of existing keys and appending new ones, copy-on-write.
func (d *Dict) With(key string, v Value) *Dict {
	next := om.New[string, Value]()
	if d.m != nil {
		for pair := d.m.Oldest(); pair != nil; pair = pair.Next() {
			next.Set(pair.Key, pair.Value)
		}
	}
	next.Set(key, v)
	return &Dict{m: next}
}

// Len returns the number of entries.
func (d *Dict) Len() int {
	if d.m == nil {
		return 0
	}
	return d.m.Len()
}

// Keys returns the keys in insertion order.
func (d *Dict) Keys() []string {
	if d.m == nil {
		return nil
	}
	keys := make([]string, 0, d.m.Len())
	for pair := d.m.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

func (d *Dict) Repr() string {
	keys := d.Keys()
	parts := make([]string, len(keys))
	for i, k := range keys {
		v, _ := d.Get(k)
		parts[i] = fmt.Sprintf("%s: %s", k, v.Repr())
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (d *Dict) Equal(o Value) bool {
	od, ok := o.(*Dict)
	if !ok || od.Len() != d.Len() {
		return false
	}
	for _, k := range d.Keys() {
		av, _ := d.Get(k)
		bv, present := od.Get(k)
		if !present || !av.Equal(bv) {
			return false
		}
	}
	return true
}

// Compare implements the lexicographic dict ordering from spec.md §4.4,
// comparing sorted keys then their values.
func (d *Dict) Compare(o *Dict) (int, bool) {
	ak := append([]string{}, d.Keys()...)
	bk := append([]string{}, o.Keys()...)
	sort.Strings(ak)
	sort.Strings(bk)
	n := len(ak)
	if len(bk) < n {
		n = len(bk)
	}
	for i := 0; i < n; i++ {
		if ak[i] != bk[i] {
			if ak[i] < bk[i] {
				return -1, true
			}
			return 1, true
		}
		av, _ := d.Get(ak[i])
		bv, _ := o.Get(bk[i])
		c, ok := Compare(av, bv)
		if !ok {
			return 0, false
		}
		if c != 0 {
			return c, true
		}
	}
	switch {
	case len(ak) < len(bk):
		return -1, true
	case len(ak) > len(bk):
		return 1, true
	default:
		return 0, true
	}
}

// Type represents a value's kind reified as a first-class value, returned
// by the `type(x)` builtin.
type Type struct{ Of Kind }

func (Type) Kind() Kind      { return KindType }
func (t Type) Repr() string  { return t.Of.String() }
func (t Type) Equal(o Value) bool { ot, ok := o.(Type); return ok && ot.Of == t.Of }
