package eval

import (
	"fmt"

	"github.com/quill-lang/quill/content"
	"github.com/quill-lang/quill/introspect"
	"github.com/quill-lang/quill/style"
	"github.com/quill-lang/quill/syntax"
	"github.com/quill-lang/quill/syntax/ast"
	"github.com/quill-lang/quill/value"
)

func (ev *Evaluator) evalLet(scope *Scope, l ast.LetBinding) (value.Value, error) {
	if pat, ok := l.Pattern(); ok {
		expr, hasExpr := l.Value()
		if !hasExpr {
			return nil, fmt.Errorf("destructuring binding requires a value")
		}
		v, err := ev.EvalExpr(scope, expr)
		if err != nil {
			return nil, err
		}
		if err := ev.destructure(scope, pat, v); err != nil {
			return nil, err
		}
		return value.None{}, nil
	}
	name := l.Name()
	if params, ok := l.Params(); ok {
		body, hasBody := l.Value()
		if !hasBody {
			return nil, fmt.Errorf("function binding %q has no body", name)
		}
		closure := &Closure{Name: name, Params: params.Names(), Body: body, Env: scope.Snapshot()}
		scope.Define(name, closure)
		return value.None{}, nil
	}
	v, ok := l.Value()
	if !ok {
		scope.Define(name, value.None{})
		return value.None{}, nil
	}
	val, err := ev.EvalExpr(scope, v)
	if err != nil {
		return nil, err
	}
	scope.Define(name, val)
	return value.None{}, nil
}

// destructure binds a pattern against a value (spec.md §4.7 "Pattern
// destructuring: tuples, dicts, named sinks"). A fixed-length tuple
// pattern must match the array's length exactly; with a `..sink` entry
// the residue goes to the sink instead.
func (ev *Evaluator) destructure(scope *Scope, pat ast.Node, v value.Value) error {
	switch p := pat.(type) {
	case ast.Parenthesized:
		return ev.destructure(scope, p.Inner(), v)
	case ast.Ident:
		scope.Define(p.Name(), v)
		return nil
	case ast.ArrayLit:
		arr, ok := v.(*value.Array)
		if !ok {
			return fmt.Errorf("cannot destructure %s as a tuple", v.Kind())
		}
		items := p.Items()
		sinkIdx := -1
		for i, it := range items {
			if isSinkPattern(it) {
				sinkIdx = i
				break
			}
		}
		if sinkIdx < 0 {
			if arr.Len() != len(items) {
				return fmt.Errorf("pattern expects %d elements, array has %d", len(items), arr.Len())
			}
			for i, it := range items {
				el, _ := arr.At(i)
				if err := ev.destructure(scope, it, el); err != nil {
					return err
				}
			}
			return nil
		}
		before, after := items[:sinkIdx], items[sinkIdx+1:]
		if arr.Len() < len(before)+len(after) {
			return fmt.Errorf("pattern expects at least %d elements, array has %d", len(before)+len(after), arr.Len())
		}
		for i, it := range before {
			el, _ := arr.At(i)
			if err := ev.destructure(scope, it, el); err != nil {
				return err
			}
		}
		for i, it := range after {
			el, _ := arr.At(arr.Len() - len(after) + i)
			if err := ev.destructure(scope, it, el); err != nil {
				return err
			}
		}
		sink := items[sinkIdx].(ast.Unary)
		if nameNode, ok := sink.Operand().(ast.Ident); ok {
			scope.Define(nameNode.Name(), arr.Slice(len(before), arr.Len()-len(after)))
		}
		return nil
	case ast.DictLit:
		d, ok := v.(*value.Dict)
		if !ok {
			return fmt.Errorf("cannot destructure %s as a dictionary", v.Kind())
		}
		for _, entry := range p.Entries() {
			val, found := d.Get(entry.Name())
			if !found {
				return fmt.Errorf("dictionary has no key %s", entry.Name())
			}
			target := entry.Value()
			if target == nil {
				return fmt.Errorf("dictionary pattern entry %s has no binding", entry.Name())
			}
			if err := ev.destructure(scope, target, val); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unsupported pattern of kind %v", pat.Kind())
	}
}

func isSinkPattern(n ast.Node) bool {
	u, ok := n.(ast.Unary)
	return ok && u.Op() == syntax.KindDotDot
}

// evalSet applies a `set` rule by pushing a new style frame recording
// every settable field named in the target call's arguments. The
// evaluator's active style chain grows for the remainder of the
// enclosing block; since Scope/style mutation never touches an
// ancestor frame, sibling blocks see their own copy via the scope
// snapshot taken when nested evaluation begins.
func (ev *Evaluator) evalSet(scope *Scope, s ast.SetRule) (value.Value, error) {
	if name, expr, ok := s.Assignment(); ok {
		v, err := ev.EvalExpr(scope, expr)
		if err != nil {
			return nil, err
		}
		scope.Assign(name.Name(), v)
		return value.None{}, nil
	}
	call, ok := s.Target().(ast.FuncCall)
	if !ok {
		return nil, fmt.Errorf("set rule target must be an element constructor call")
	}
	ident, ok := call.Callee().(ast.Ident)
	if !ok {
		return nil, fmt.Errorf("set rule target must name an element kind")
	}
	args, err := ev.evalArgs(scope, call.Args())
	if err != nil {
		return nil, err
	}
	frame := style.NewMap()
	for _, k := range args.Named.Keys() {
		v, _ := args.Named.Get(k)
		frame.SetProperty(ident.Name(), k, v, style.Span{File: string(ev.File), Start: ev.span(s).Start, End: ev.span(s).End})
	}
	ev.Style = ev.Style.Push(frame)
	return value.None{}, nil
}

// evalShow registers a show-rule recipe on the active style chain. The
// selector resolves to the introspect algebra: a bare identifier or
// string names an element kind, a `<name>` targets a label, and an
// omitted selector matches everything (`show: transform` rewrites the
// rest of the document). Application happens in applyRecipes as markup
// is realized.
func (ev *Evaluator) evalShow(scope *Scope, s ast.ShowRule) (value.Value, error) {
	var sel style.Selector
	if selNode, ok := s.Selector(); ok {
		resolved, err := ev.resolveShowSelector(scope, selNode)
		if err != nil {
			return nil, err
		}
		sel = resolved
	}
	transform, err := ev.EvalExpr(scope, s.Transform())
	if err != nil {
		return nil, err
	}
	frame := style.NewMap()
	frame.AddRecipe(sel, transform, style.Span{File: string(ev.File), Start: ev.span(s).Start, End: ev.span(s).End})
	ev.Style = ev.Style.Push(frame)
	return value.None{}, nil
}

// resolveShowSelector turns a show rule's selector expression into a
// concrete selector. A bare identifier is taken as an element kind
// name without evaluation (there is no `heading` binding in scope to
// evaluate it against); anything else is evaluated and must yield a
// string or label value.
func (ev *Evaluator) resolveShowSelector(scope *Scope, n ast.Node) (style.Selector, error) {
	if ident, ok := n.(ast.Ident); ok {
		return introspect.Kind(ident.Name()), nil
	}
	if lbl, ok := n.(ast.Label); ok {
		return introspect.Label(lbl.Name()), nil
	}
	v, err := ev.EvalExpr(scope, n)
	if err != nil {
		return nil, err
	}
	switch t := v.(type) {
	case value.String:
		return introspect.Kind(string(t)), nil
	case value.Label:
		return introspect.Label(string(t)), nil
	default:
		return nil, fmt.Errorf("show selector must name an element kind or label, got %s", v.Kind())
	}
}

func (ev *Evaluator) evalIf(scope *Scope, c ast.Conditional) (value.Value, error) {
	cond, err := ev.evalBool(scope, c.Cond())
	if err != nil {
		return nil, err
	}
	if cond {
		return ev.EvalExpr(scope.Child(), c.Then())
	}
	if alt, ok := c.Else(); ok {
		return ev.EvalExpr(scope.Child(), alt)
	}
	return content.Empty(), nil
}

func (ev *Evaluator) evalWhile(scope *Scope, w ast.WhileLoop) (value.Value, error) {
	var parts []*content.Content
	for {
		cond, err := ev.evalBool(scope, w.Cond())
		if err != nil {
			return nil, err
		}
		if !cond {
			break
		}
		if err := ev.tick(w); err != nil {
			return nil, err
		}
		v, err := ev.EvalExpr(scope.Child(), w.Body())
		if err != nil {
			if isBreak(err) {
				break
			}
			if isContinue(err) {
				continue
			}
			return nil, err
		}
		if c, ok := v.(*content.Content); ok {
			parts = append(parts, c)
		}
	}
	if len(parts) == 0 {
		return content.Empty(), nil
	}
	return content.Sequence(parts...), nil
}

func (ev *Evaluator) evalFor(scope *Scope, f ast.ForLoop) (value.Value, error) {
	iterVal, err := ev.EvalExpr(scope, f.Iterable())
	if err != nil {
		return nil, err
	}
	arr, ok := iterVal.(*value.Array)
	if !ok {
		return nil, fmt.Errorf("for loop requires an array iterable, got %s", iterVal.Kind())
	}
	var parts []*content.Content
	for _, item := range arr.Items() {
		if err := ev.tick(f); err != nil {
			return nil, err
		}
		body := scope.Child()
		body.Define(f.Name(), item)
		v, err := ev.EvalExpr(body, f.Body())
		if err != nil {
			if isBreak(err) {
				break
			}
			if isContinue(err) {
				continue
			}
			return nil, err
		}
		if c, ok := v.(*content.Content); ok {
			parts = append(parts, c)
		}
	}
	if len(parts) == 0 {
		return content.Empty(), nil
	}
	return content.Sequence(parts...), nil
}

func (ev *Evaluator) evalReturn(scope *Scope, r ast.ReturnStmt) (value.Value, error) {
	if v, ok := r.Value(); ok {
		val, err := ev.EvalExpr(scope, v)
		if err != nil {
			return nil, err
		}
		return nil, &controlSignal{kind: controlReturn, value: val}
	}
	return nil, &controlSignal{kind: controlReturn}
}
