package value

import "strings"

// Arguments is the runtime value produced by the spread/collect
// arguments pattern (`..args`) and consumed by function calls: an
// ordered list of positional values plus an insertion-ordered map of
// named ones, per spec.md §3's `argument bundle` value kind.
type Arguments struct {
	Positional []Value
	Named      *Dict
}

// NewArguments builds an Arguments bundle.
func NewArguments(positional []Value, named *Dict) *Arguments {
	if named == nil {
		named = NewDict()
	}
	return &Arguments{Positional: positional, Named: named}
}

func (*Arguments) Kind() Kind { return KindArguments }

func (a *Arguments) Repr() string {
	parts := make([]string, 0, len(a.Positional)+a.Named.Len())
	for _, p := range a.Positional {
		parts = append(parts, p.Repr())
	}
	for _, k := range a.Named.Keys() {
		v, _ := a.Named.Get(k)
		parts = append(parts, k+": "+v.Repr())
	}
	return "arguments(" + strings.Join(parts, ", ") + ")"
}

func (a *Arguments) Equal(o Value) bool {
	oa, ok := o.(*Arguments)
	if !ok || len(oa.Positional) != len(a.Positional) {
		return false
	}
	for i := range a.Positional {
		if !a.Positional[i].Equal(oa.Positional[i]) {
			return false
		}
	}
	return a.Named.Equal(oa.Named)
}
