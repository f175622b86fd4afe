package eval

import (
	"fmt"

	"github.com/quill-lang/quill/value"
)

// CounterRef is the value `counter(name)` produces (spec.md §8 scenario
// 2, "Counter + query fixed point"): a handle carrying only the
// counter's name, with `.step()`/`.get()`/`.final()` resolved through
// resolveMethod the same way array/dict/string methods are.
type CounterRef struct {
	Name string
}

func (*CounterRef) Kind() value.Kind { return value.KindCounter }
func (c *CounterRef) Repr() string   { return "counter(" + c.Name + ")" }
func (c *CounterRef) Equal(o value.Value) bool {
	oc, ok := o.(*CounterRef)
	return ok && oc.Name == c.Name
}

// counterMethod resolves `.step()`, `.get()` and `.final()` against a
// CounterRef. `.step(amount)` splices a `counter.update` content marker
// into the document (amount defaults to 1); layout tags it with a
// stable location the same way a heading tags its own number, and the
// next pass's introspector sums every marker sharing this name
// (introspect.Introspector.CounterTotal).
//
// `.final()` is spec.md §4.9's `env.with(prev_introspector)` in
// action: it reads the total directly off ev.Prev, the previous pass's
// introspector, rather than computing anything itself — on pass 1,
// Prev is nil (no layout has run yet) and it reads as 0, same as an
// unresolved `@label` reference rendering "??" on its first pass.
// `.get()` is not position-aware (the evaluator does not yet know its
// own document position mid-pass) and is implemented identically to
// `.final()`, a documented simplification rather than the general
// "value as of here" semantics a fuller introspector integration would
// give it.
func counterMethod(c *CounterRef, name string) (*Builtin, bool) {
	switch name {
	case "step":
		return &Builtin{Name: "counter.step", Fn: func(ev *Evaluator, args *value.Arguments) (value.Value, error) {
			amount := value.Int(1)
			if len(args.Positional) == 1 {
				n, err := value.ToInt(args.Positional[0])
				if err != nil {
					return nil, fmt.Errorf("counter.step: %w", err)
				}
				amount = n
			} else if len(args.Positional) > 1 {
				return nil, fmt.Errorf("counter.step expects at most one amount argument")
			}
			return ev.elem("counter.update", map[string]value.Value{
				"name":   value.String(c.Name),
				"amount": amount,
			})
		}}, true
	case "get":
		return &Builtin{Name: "counter.get", Fn: func(ev *Evaluator, _ *value.Arguments) (value.Value, error) {
			return value.Int(ev.counterTotal(c.Name)), nil
		}}, true
	case "final":
		return &Builtin{Name: "counter.final", Fn: func(ev *Evaluator, _ *value.Arguments) (value.Value, error) {
			return value.Int(ev.counterTotal(c.Name)), nil
		}}, true
	}
	return nil, false
}

func (ev *Evaluator) counterTotal(name string) int64 {
	if ev.Prev == nil {
		return 0
	}
	return int64(ev.Prev.CounterTotal(name))
}
