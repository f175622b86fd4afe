package eval

import (
	"fmt"
	"strings"

	"github.com/quill-lang/quill/diag"
	"github.com/quill-lang/quill/value"
)

// resolveMethod looks up a method builtin bound to base, the dispatch
// SPEC_FULL.md §H promises for array/dict/string values: `.len()`,
// `.slice()`, `.map()`, `.filter()`, `.fold()`, `.join()`, `.contains()`
// and `.find()`. Each returned Builtin closes over base so evalFieldAccess
// can hand it straight to a following FuncCall.
func resolveMethod(base value.Value, name string) (*Builtin, bool) {
	switch t := base.(type) {
	case *value.Array:
		return arrayMethod(t, name)
	case *value.Dict:
		return dictMethod(t, name)
	case value.String:
		return stringMethod(t, name)
	case *CounterRef:
		return counterMethod(t, name)
	default:
		return nil, false
	}
}

func arrayMethod(a *value.Array, name string) (*Builtin, bool) {
	switch name {
	case "len":
		return &Builtin{Name: "array.len", Fn: func(*Evaluator, *value.Arguments) (value.Value, error) {
			return value.Int(a.Len()), nil
		}}, true
	case "slice":
		return &Builtin{Name: "array.slice", Fn: func(_ *Evaluator, args *value.Arguments) (value.Value, error) {
			start, end, err := sliceBounds(args, a.Len())
			if err != nil {
				return nil, fmt.Errorf("array.slice: %w", err)
			}
			return a.Slice(start, end), nil
		}}, true
	case "map":
		return &Builtin{Name: "array.map", Fn: func(ev *Evaluator, args *value.Arguments) (value.Value, error) {
			fn, err := soleCallable(args, "array.map")
			if err != nil {
				return nil, err
			}
			out := make([]value.Value, 0, a.Len())
			for _, it := range a.Items() {
				v, err := ev.Call(fn, value.NewArguments([]value.Value{it}, nil), diag.Span{})
				if err != nil {
					return nil, err
				}
				out = append(out, v)
			}
			return value.NewArray(out...), nil
		}}, true
	case "filter":
		return &Builtin{Name: "array.filter", Fn: func(ev *Evaluator, args *value.Arguments) (value.Value, error) {
			fn, err := soleCallable(args, "array.filter")
			if err != nil {
				return nil, err
			}
			var out []value.Value
			for _, it := range a.Items() {
				v, err := ev.Call(fn, value.NewArguments([]value.Value{it}, nil), diag.Span{})
				if err != nil {
					return nil, err
				}
				keep, ok := v.(value.Bool)
				if !ok {
					return nil, fmt.Errorf("array.filter predicate must return a boolean")
				}
				if bool(keep) {
					out = append(out, it)
				}
			}
			return value.NewArray(out...), nil
		}}, true
	case "fold":
		return &Builtin{Name: "array.fold", Fn: func(ev *Evaluator, args *value.Arguments) (value.Value, error) {
			if len(args.Positional) != 2 {
				return nil, fmt.Errorf("array.fold expects (init, function)")
			}
			acc := args.Positional[0]
			fn := args.Positional[1]
			for _, it := range a.Items() {
				v, err := ev.Call(fn, value.NewArguments([]value.Value{acc, it}, nil), diag.Span{})
				if err != nil {
					return nil, err
				}
				acc = v
			}
			return acc, nil
		}}, true
	case "join":
		return &Builtin{Name: "array.join", Fn: func(_ *Evaluator, args *value.Arguments) (value.Value, error) {
			sep := ""
			switch len(args.Positional) {
			case 0:
			case 1:
				s, ok := args.Positional[0].(value.String)
				if !ok {
					return nil, fmt.Errorf("array.join separator must be a string")
				}
				sep = string(s)
			default:
				return nil, fmt.Errorf("array.join expects at most one separator argument")
			}
			parts := make([]string, a.Len())
			for i, it := range a.Items() {
				s, ok := it.(value.String)
				if !ok {
					return nil, fmt.Errorf("array.join: element %d is not a string", i)
				}
				parts[i] = string(s)
			}
			return value.String(strings.Join(parts, sep)), nil
		}}, true
	case "contains":
		return &Builtin{Name: "array.contains", Fn: func(_ *Evaluator, args *value.Arguments) (value.Value, error) {
			if len(args.Positional) != 1 {
				return nil, fmt.Errorf("array.contains expects exactly one argument")
			}
			needle := args.Positional[0]
			for _, it := range a.Items() {
				if it.Equal(needle) {
					return value.Bool(true), nil
				}
			}
			return value.Bool(false), nil
		}}, true
	case "find":
		return &Builtin{Name: "array.find", Fn: func(ev *Evaluator, args *value.Arguments) (value.Value, error) {
			fn, err := soleCallable(args, "array.find")
			if err != nil {
				return nil, err
			}
			for _, it := range a.Items() {
				v, err := ev.Call(fn, value.NewArguments([]value.Value{it}, nil), diag.Span{})
				if err != nil {
					return nil, err
				}
				if keep, ok := v.(value.Bool); ok && bool(keep) {
					return it, nil
				}
			}
			return value.None{}, nil
		}}, true
	}
	return nil, false
}

func dictMethod(d *value.Dict, name string) (*Builtin, bool) {
	switch name {
	case "len":
		return &Builtin{Name: "dict.len", Fn: func(*Evaluator, *value.Arguments) (value.Value, error) {
			return value.Int(d.Len()), nil
		}}, true
	case "keys":
		return &Builtin{Name: "dict.keys", Fn: func(*Evaluator, *value.Arguments) (value.Value, error) {
			keys := d.Keys()
			items := make([]value.Value, len(keys))
			for i, k := range keys {
				items[i] = value.String(k)
			}
			return value.NewArray(items...), nil
		}}, true
	case "contains":
		return &Builtin{Name: "dict.contains", Fn: func(_ *Evaluator, args *value.Arguments) (value.Value, error) {
			if len(args.Positional) != 1 {
				return nil, fmt.Errorf("dict.contains expects exactly one argument")
			}
			key, ok := args.Positional[0].(value.String)
			if !ok {
				return nil, fmt.Errorf("dict.contains expects a string key")
			}
			_, found := d.Get(string(key))
			return value.Bool(found), nil
		}}, true
	}
	return nil, false
}

func stringMethod(s value.String, name string) (*Builtin, bool) {
	switch name {
	case "len":
		return &Builtin{Name: "str.len", Fn: func(*Evaluator, *value.Arguments) (value.Value, error) {
			return value.Int(s.Len()), nil
		}}, true
	case "slice":
		return &Builtin{Name: "str.slice", Fn: func(_ *Evaluator, args *value.Arguments) (value.Value, error) {
			start, end, err := sliceBounds(args, s.Len())
			if err != nil {
				return nil, fmt.Errorf("str.slice: %w", err)
			}
			return s.Slice(start, end), nil
		}}, true
	case "contains":
		return &Builtin{Name: "str.contains", Fn: func(_ *Evaluator, args *value.Arguments) (value.Value, error) {
			if len(args.Positional) != 1 {
				return nil, fmt.Errorf("str.contains expects exactly one argument")
			}
			needle, ok := args.Positional[0].(value.String)
			if !ok {
				return nil, fmt.Errorf("str.contains expects a string argument")
			}
			return value.Bool(strings.Contains(string(s), string(needle))), nil
		}}, true
	case "find":
		return &Builtin{Name: "str.find", Fn: func(_ *Evaluator, args *value.Arguments) (value.Value, error) {
			if len(args.Positional) != 1 {
				return nil, fmt.Errorf("str.find expects exactly one argument")
			}
			needle, ok := args.Positional[0].(value.String)
			if !ok {
				return nil, fmt.Errorf("str.find expects a string argument")
			}
			idx := strings.Index(string(s), string(needle))
			if idx < 0 {
				return value.None{}, nil
			}
			return value.Int(idx), nil
		}}, true
	}
	return nil, false
}

// sliceBounds reads a `.slice(start)` or `.slice(start, end)` call's
// arguments, defaulting end to length and clamping is left to the
// caller's own Slice implementation.
func sliceBounds(args *value.Arguments, length int) (start, end int, err error) {
	if len(args.Positional) < 1 || len(args.Positional) > 2 {
		return 0, 0, fmt.Errorf("expects (start) or (start, end)")
	}
	s, err := value.ToInt(args.Positional[0])
	if err != nil {
		return 0, 0, err
	}
	end = length
	if len(args.Positional) == 2 {
		e, err := value.ToInt(args.Positional[1])
		if err != nil {
			return 0, 0, err
		}
		end = int(e)
	}
	return int(s), end, nil
}

// soleCallable extracts the single function argument higher-order
// methods (map/filter/find) expect.
func soleCallable(args *value.Arguments, name string) (value.Value, error) {
	if len(args.Positional) != 1 {
		return nil, fmt.Errorf("%s expects exactly one function argument", name)
	}
	switch args.Positional[0].(type) {
	case *Closure, *Builtin:
		return args.Positional[0], nil
	default:
		return nil, fmt.Errorf("%s expects a function argument, got %s", name, args.Positional[0].Kind())
	}
}
