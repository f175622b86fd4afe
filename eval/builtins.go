package eval

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cast"

	"github.com/quill-lang/quill/content"
	"github.com/quill-lang/quill/introspect"
	"github.com/quill-lang/quill/value"
)

// installBuiltins preloads a root scope with the global namespace
// spec.md §4.7 names: explicit numeric casts, introspection helpers,
// collection methods, and the `calc` namespace of pure math functions.
// Casts use github.com/spf13/cast for the same lenient string/number
// coercion value/arith.go already relies on, so `int("3")` and
// `int(3.0)` behave consistently with the rest of the numeric tower.
func installBuiltins(s *Scope) {
	s.Define("int", builtin1("int", builtinInt))
	s.Define("float", builtin1("float", builtinFloat))
	s.Define("str", builtin1("str", builtinStr))
	s.Define("bool", builtin1("bool", builtinBool))
	s.Define("type", builtin1("type", builtinType))
	s.Define("repr", builtin1("repr", builtinRepr))
	s.Define("len", builtin1("len", builtinLen))
	s.Define("decimal", builtin1("decimal", builtinDecimal))
	s.Define("counter", builtin1("counter", builtinCounter))
	s.Define("query", &Builtin{Name: "query", Fn: builtinQuery})
	s.Define("calc", calcNamespace())

	for _, kind := range []string{
		"figure", "image", "block", "box", "outline", "footnote",
		"table", "line", "rect", "metadata",
	} {
		s.Define(kind, elementBuiltin(kind))
	}
}

// elementBuiltin adapts an element kind into a constructor function:
// positional arguments fill the schema's inherent/required fields in
// declaration order, named arguments set settable fields, so
// `#figure(image("chart.png"), caption: [Results])` builds the same
// content tree markup syntax would.
func elementBuiltin(kind string) *Builtin {
	return &Builtin{Name: kind, Fn: func(ev *Evaluator, args *value.Arguments) (value.Value, error) {
		schema := ev.Registry.Lookup(kind)
		if schema == nil {
			return nil, fmt.Errorf("no registered element kind: %s", kind)
		}
		fields := make(map[string]value.Value)
		pos := args.Positional
		for _, f := range schema.Fields {
			if f.Role != content.RoleInherent && f.Role != content.RoleRequired {
				continue
			}
			if len(pos) == 0 {
				return nil, fmt.Errorf("%s: missing required argument %s", kind, f.Name)
			}
			fields[f.Name] = argValue(f.Name, pos[0])
			pos = pos[1:]
		}
		if len(pos) > 0 {
			return nil, fmt.Errorf("%s: too many positional arguments", kind)
		}
		c := content.New(schema, fields)
		for _, k := range args.Named.Keys() {
			v, _ := args.Named.Get(k)
			next, err := c.With(k, v)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", kind, err)
			}
			c = next
		}
		return c, nil
	}}
}

// argValue coerces a constructor argument for a body-like field:
// content passes through, strings become text nodes, anything else is
// rendered via its repr, matching markup interpolation.
func argValue(field string, v value.Value) value.Value {
	if field != "body" {
		return v
	}
	switch t := v.(type) {
	case *content.Content:
		return t
	case value.String:
		return content.Text(string(t))
	default:
		return content.Text(v.Repr())
	}
}

// builtinQuery resolves `query(target)` against the previous pass's
// introspector (spec.md §4.9's `env.with(prev_introspector)`): a label
// value queries by label, a string queries by element kind. On pass 1
// Prev is nil and the result is an empty array, stabilized by the
// fixed-point driver the same way counter(...).final() is.
func builtinQuery(ev *Evaluator, args *value.Arguments) (value.Value, error) {
	if len(args.Positional) != 1 {
		return nil, fmt.Errorf("query expects exactly one target argument, got %d", len(args.Positional))
	}
	var sel introspect.Selector
	switch t := args.Positional[0].(type) {
	case value.Label:
		sel = introspect.Label(string(t))
	case value.String:
		sel = introspect.Kind(string(t))
	default:
		return nil, fmt.Errorf("query target must be a label or element kind string, got %s", args.Positional[0].Kind())
	}
	if ev.Prev == nil {
		return value.NewArray(), nil
	}
	matches := ev.Prev.Query(sel)
	items := make([]value.Value, len(matches))
	for i, c := range matches {
		items[i] = c
	}
	return value.NewArray(items...), nil
}

// builtinCounter implements the `counter(name)` constructor (spec.md
// §8 scenario 2): name is usually a string, but the reserved "page"
// counter is steppped automatically by layout's pagination rather than
// by user markup (see layout.LayoutPages), so `counter("page")` just
// needs to produce a handle with that name to read back from.
func builtinCounter(v value.Value) (value.Value, error) {
	name, ok := v.(value.String)
	if !ok {
		return nil, fmt.Errorf("counter expects a string name, got %s", v.Kind())
	}
	return &CounterRef{Name: string(name)}, nil
}

// builtin1 adapts a one-argument Go function into a Builtin that
// pulls its sole positional argument from the call's Arguments bundle.
func builtin1(name string, fn func(value.Value) (value.Value, error)) *Builtin {
	return &Builtin{Name: name, Fn: func(_ *Evaluator, args *value.Arguments) (value.Value, error) {
		if len(args.Positional) != 1 {
			return nil, fmt.Errorf("%s expects exactly one argument, got %d", name, len(args.Positional))
		}
		return fn(args.Positional[0])
	}}
}

func builtinInt(v value.Value) (value.Value, error) { return value.ToInt(v) }

func builtinFloat(v value.Value) (value.Value, error) { return value.ToFloat(v) }

func builtinBool(v value.Value) (value.Value, error) {
	switch t := v.(type) {
	case value.Bool:
		return t, nil
	case value.Int:
		return value.Bool(t != 0), nil
	case value.String:
		b, err := cast.ToBoolE(string(t))
		if err != nil {
			return nil, fmt.Errorf("cannot convert %q to bool", string(t))
		}
		return value.Bool(b), nil
	default:
		return nil, fmt.Errorf("cannot convert %s to bool", v.Kind())
	}
}

func builtinStr(v value.Value) (value.Value, error) {
	if s, ok := v.(value.String); ok {
		return s, nil
	}
	return value.String(v.Repr()), nil
}

func builtinType(v value.Value) (value.Value, error) { return value.String(v.Kind().String()), nil }

func builtinRepr(v value.Value) (value.Value, error) { return value.String(v.Repr()), nil }

// builtinDecimal implements the explicit `decimal(x)` cast spec.md §4.7
// reserves as the only sanctioned way into Decimal arithmetic: strings
// and integers convert exactly; a float literal converts through its
// %v formatting rather than through Float64's binary fraction, so
// `decimal(1.1)` reads as "1.1" instead of accumulating IEEE-754 noise,
// but still does not round-trip every float exactly (the original's
// `Decimal::try_from_f64` carries the same caveat, and a float-to-
// decimal cast is documented as the imprecise direction in spec.md §4.7).
func builtinDecimal(v value.Value) (value.Value, error) {
	switch t := v.(type) {
	case value.Decimal:
		return t, nil
	case value.String:
		return value.ParseDecimal(string(t))
	case value.Int:
		return value.DecimalFromInt(int64(t)), nil
	case value.Float:
		return value.ParseDecimal(fmt.Sprintf("%v", float64(t)))
	default:
		return nil, fmt.Errorf("cannot convert %s to decimal", v.Kind())
	}
}

func builtinLen(v value.Value) (value.Value, error) {
	switch t := v.(type) {
	case *value.Array:
		return value.Int(t.Len()), nil
	case *value.Dict:
		return value.Int(t.Len()), nil
	case value.String:
		return value.Int(t.Len()), nil
	default:
		return nil, fmt.Errorf("%s has no length", v.Kind())
	}
}

// calcNamespace builds the `calc.*` dictionary of pure math functions
// bound as a single dict-valued global, mirroring how the other
// builtins are exposed as plain scope entries but grouped under one
// name the way spec.md §4.7 describes the calc namespace.
func calcNamespace() *value.Dict {
	d := value.NewDict()
	d = d.With("abs", calcUnary("calc.abs", math.Abs))
	d = d.With("sqrt", calcUnary("calc.sqrt", math.Sqrt))
	d = d.With("floor", calcUnary("calc.floor", math.Floor))
	d = d.With("ceil", calcUnary("calc.ceil", math.Ceil))
	d = d.With("round", calcUnary("calc.round", math.Round))
	d = d.With("pow", calcBinary("calc.pow", math.Pow))
	d = d.With("min", &Builtin{Name: "calc.min", Fn: calcFold(math.Min)})
	d = d.With("max", &Builtin{Name: "calc.max", Fn: calcFold(math.Max)})
	d = d.With("mod", calcBinary("calc.mod", math.Mod))
	return d
}

func calcUnary(name string, fn func(float64) float64) *Builtin {
	return &Builtin{Name: name, Fn: func(_ *Evaluator, args *value.Arguments) (value.Value, error) {
		if len(args.Positional) != 1 {
			return nil, fmt.Errorf("%s expects exactly one argument", name)
		}
		f, err := cast.ToFloat64E(floatable(args.Positional[0]))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return value.Float(fn(f)), nil
	}}
}

func calcBinary(name string, fn func(float64, float64) float64) *Builtin {
	return &Builtin{Name: name, Fn: func(_ *Evaluator, args *value.Arguments) (value.Value, error) {
		if len(args.Positional) != 2 {
			return nil, fmt.Errorf("%s expects exactly two arguments", name)
		}
		a, err := cast.ToFloat64E(floatable(args.Positional[0]))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		b, err := cast.ToFloat64E(floatable(args.Positional[1]))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return value.Float(fn(a, b)), nil
	}}
}

func calcFold(fn func(float64, float64) float64) func(*Evaluator, *value.Arguments) (value.Value, error) {
	return func(_ *Evaluator, args *value.Arguments) (value.Value, error) {
		if len(args.Positional) == 0 {
			return nil, fmt.Errorf("expects at least one argument")
		}
		best, err := cast.ToFloat64E(floatable(args.Positional[0]))
		if err != nil {
			return nil, err
		}
		for _, v := range args.Positional[1:] {
			f, err := cast.ToFloat64E(floatable(v))
			if err != nil {
				return nil, err
			}
			best = fn(best, f)
		}
		return value.Float(best), nil
	}
}

// floatable unwraps a value.Value to the plain Go scalar cast.ToFloat64E
// understands; value.Value itself is never a type cast recognizes.
func floatable(v value.Value) interface{} {
	switch t := v.(type) {
	case value.Int:
		return int64(t)
	case value.Float:
		return float64(t)
	case value.String:
		return strings.TrimSpace(string(t))
	default:
		return nil
	}
}
