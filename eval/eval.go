// Package eval implements the pure, tree-walking evaluator (spec.md
// §4.7): it walks the typed AST directly (no bytecode), threads
// values through copy-on-write Scopes, and bounds both call depth and
// total instruction count so a runaway user script fails with a typed
// diagnostic instead of hanging or blowing the Go stack.
package eval

import (
	"fmt"

	"github.com/quill-lang/quill/content"
	"github.com/quill-lang/quill/diag"
	"github.com/quill-lang/quill/introspect"
	"github.com/quill-lang/quill/style"
	"github.com/quill-lang/quill/syntax"
	"github.com/quill-lang/quill/syntax/ast"
	"github.com/quill-lang/quill/value"
)

const (
	// DefaultMaxCallDepth bounds recursive closure calls.
	DefaultMaxCallDepth = 256
	// DefaultMaxInstructions bounds the total number of AST nodes
	// evaluated in one Compile, guarding against non-terminating
	// `while`/recursive-`let` scripts.
	DefaultMaxInstructions = 10_000_000
)

// Evaluator holds the bounded, shared state of one evaluation run: a
// content-element registry, the active style chain (mutated only by
// pushing new chains, never in place), and the depth/instruction
// counters spec.md §4.7 requires to fail closed rather than hang.
type Evaluator struct {
	Registry *content.Registry
	Diag     *diag.Sink
	File     diag.FileID

	MaxCallDepth    int
	MaxInstructions int

	callDepth  int
	instrCount int

	Style *style.Chain

	// Prev is the previous layout pass's introspector, spec.md §4.9's
	// `env.with(prev_introspector)`: nil on the very first pass (no
	// layout has happened yet), set by world.Compile's evalFn closure
	// on every later pass. counter(name).get()/.final() (eval/
	// counter.go) and the query() builtin read it; both see empty
	// results until a pass has actually run.
	Prev *introspect.Introspector
}

// New builds an Evaluator with the standard registry and the default
// depth/instruction caps.
func New(registry *content.Registry, sink *diag.Sink, file diag.FileID) *Evaluator {
	return &Evaluator{
		Registry:        registry,
		Diag:            sink,
		File:            file,
		MaxCallDepth:    DefaultMaxCallDepth,
		MaxInstructions: DefaultMaxInstructions,
		Style:           style.Root,
	}
}

func (ev *Evaluator) span(n ast.Node) diag.Span {
	c := n.Cursor()
	return diag.Span{File: ev.File, Start: c.Start(), End: c.End()}
}

func (ev *Evaluator) tick(n ast.Node) error {
	ev.instrCount++
	if ev.instrCount > ev.MaxInstructions {
		return fmt.Errorf("%w", diag.New(diag.KindIterationLimitExceeded, ev.span(n), "evaluation exceeded the instruction limit"))
	}
	return nil
}

// Global returns a fresh root scope preloaded with the builtin
// namespace (calc, explicit casts, array/dict/string methods).
func (ev *Evaluator) Global() *Scope {
	s := NewScope(nil)
	installBuiltins(s)
	return s
}

// EvalExpr evaluates a code-mode expression node to a value.Value.
func (ev *Evaluator) EvalExpr(scope *Scope, n ast.Node) (value.Value, error) {
	if err := ev.tick(n); err != nil {
		return nil, err
	}
	switch t := n.(type) {
	case ast.Ident:
		v, ok := scope.Get(t.Name())
		if !ok {
			return nil, fmt.Errorf("%w", diag.New(diag.KindAccessError, ev.span(n), "unknown variable: "+t.Name()))
		}
		return v, nil
	case ast.IntLit:
		return value.Int(t.Value()), nil
	case ast.FloatLit:
		return value.Float(t.Value()), nil
	case ast.NumericLit:
		return evalNumeric(t.Text())
	case ast.StrLit:
		return value.String(t.Value()), nil
	case ast.BoolLit:
		return value.Bool(t.Value()), nil
	case ast.NoneLit:
		return value.None{}, nil
	case ast.AutoLit:
		return value.Auto{}, nil
	case ast.Parenthesized:
		return ev.EvalExpr(scope, t.Inner())
	case ast.ArrayLit:
		return ev.evalArray(scope, t)
	case ast.DictLit:
		return ev.evalDict(scope, t)
	case ast.Unary:
		return ev.evalUnary(scope, t)
	case ast.Binary:
		return ev.evalBinary(scope, t)
	case ast.FieldAccess:
		return ev.evalFieldAccess(scope, t)
	case ast.FuncCall:
		return ev.evalCall(scope, t)
	case ast.CodeBlock:
		return ev.evalCodeBlockExpr(scope, t)
	case ast.ContentBlock:
		return ev.EvalMarkup(scope, t.Body())
	case ast.Conditional:
		return ev.evalIf(scope, t)
	case ast.WhileLoop:
		return ev.evalWhile(scope, t)
	case ast.ForLoop:
		return ev.evalFor(scope, t)
	case ast.LetBinding:
		return ev.evalLet(scope, t)
	case ast.SetRule:
		return ev.evalSet(scope, t)
	case ast.ShowRule:
		return ev.evalShow(scope, t)
	case ast.Break:
		return nil, &controlSignal{kind: controlBreak}
	case ast.Continue:
		return nil, &controlSignal{kind: controlContinue}
	case ast.ReturnStmt:
		return ev.evalReturn(scope, t)
	case ast.ModuleImport, ast.ModuleInclude:
		return nil, fmt.Errorf("%w", diag.New(diag.KindImportError, ev.span(n), "module resolution requires a world.Loader, see world.Compile"))
	default:
		return nil, fmt.Errorf("%w", diag.New(diag.KindParseError, ev.span(n), fmt.Sprintf("cannot evaluate node of kind %v as an expression", n.Kind())))
	}
}

func evalNumeric(text string) (value.Value, error) {
	// Split the leading digits from the trailing unit suffix; the
	// lexer already guarantees text is digits (with an optional '.')
	// immediately followed by one of the recognized unit strings.
	i := len(text)
	for i > 0 && !isDigitOrDot(text[i-1]) {
		i--
	}
	numPart, unit := text[:i], text[i:]
	var f float64
	if _, err := fmt.Sscanf(numPart, "%g", &f); err != nil {
		return nil, fmt.Errorf("invalid numeric literal %q", text)
	}
	switch unit {
	case "%":
		return value.Ratio(f / 100), nil
	case "fr":
		return value.Fraction(f), nil
	case "deg":
		return value.Angle(f * (3.14159265358979323846 / 180)), nil
	case "rad":
		return value.Angle(f), nil
	default:
		l, ok := value.ParseLengthUnit(f, unit)
		if !ok {
			return nil, fmt.Errorf("unknown numeric unit %q", unit)
		}
		return l, nil
	}
}

func isDigitOrDot(b byte) bool { return (b >= '0' && b <= '9') || b == '.' }

func (ev *Evaluator) evalArray(scope *Scope, a ast.ArrayLit) (value.Value, error) {
	var items []value.Value
	for _, it := range a.Items() {
		v, err := ev.EvalExpr(scope, it)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return value.NewArray(items...), nil
}

func (ev *Evaluator) evalDict(scope *Scope, d ast.DictLit) (value.Value, error) {
	dict := value.NewDict()
	for _, entry := range d.Entries() {
		v, err := ev.EvalExpr(scope, entry.Value())
		if err != nil {
			return nil, err
		}
		dict = dict.With(entry.Name(), v)
	}
	return dict, nil
}

func (ev *Evaluator) evalUnary(scope *Scope, u ast.Unary) (value.Value, error) {
	operand, err := ev.EvalExpr(scope, u.Operand())
	if err != nil {
		return nil, err
	}
	switch u.Op() {
	case syntax.KindMinus:
		return value.Mul(operand, value.Int(-1))
	case syntax.KindPlus:
		return operand, nil
	case syntax.KindNot:
		b, ok := operand.(value.Bool)
		if !ok {
			return nil, fmt.Errorf("%w", diag.New(diag.KindTypeError, ev.span(u), "'not' requires a boolean operand"))
		}
		return value.Bool(!bool(b)), nil
	default:
		return nil, fmt.Errorf("unknown unary operator")
	}
}

func (ev *Evaluator) evalBinary(scope *Scope, b ast.Binary) (value.Value, error) {
	switch b.Op() {
	case syntax.KindAnd:
		lhs, err := ev.evalBool(scope, b.LHS())
		if err != nil {
			return nil, err
		}
		if !lhs {
			return value.Bool(false), nil
		}
		rhs, err := ev.evalBool(scope, b.RHS())
		return value.Bool(rhs), err
	case syntax.KindOr:
		lhs, err := ev.evalBool(scope, b.LHS())
		if err != nil {
			return nil, err
		}
		if lhs {
			return value.Bool(true), nil
		}
		rhs, err := ev.evalBool(scope, b.RHS())
		return value.Bool(rhs), err
	}

	lhs, err := ev.EvalExpr(scope, b.LHS())
	if err != nil {
		return nil, err
	}
	rhs, err := ev.EvalExpr(scope, b.RHS())
	if err != nil {
		return nil, err
	}
	switch b.Op() {
	case syntax.KindPlus:
		if lc, ok := lhs.(*content.Content); ok {
			return joinContent(lc, rhs)
		}
		return value.Add(lhs, rhs)
	case syntax.KindMinus:
		return value.Sub(lhs, rhs)
	case syntax.KindStar:
		return value.Mul(lhs, rhs)
	case syntax.KindSlash:
		return divide(lhs, rhs)
	case syntax.KindEqEq:
		return value.Bool(lhs.Equal(rhs)), nil
	case syntax.KindNotEq:
		return value.Bool(!lhs.Equal(rhs)), nil
	case syntax.KindLt, syntax.KindGt, syntax.KindLtEq, syntax.KindGtEq:
		return compareOp(b.Op(), lhs, rhs, ev.span(b))
	case syntax.KindDotDot:
		return rangeValue(lhs, rhs)
	default:
		return nil, fmt.Errorf("unknown binary operator")
	}
}

func (ev *Evaluator) evalBool(scope *Scope, n ast.Node) (bool, error) {
	v, err := ev.EvalExpr(scope, n)
	if err != nil {
		return false, err
	}
	b, ok := v.(value.Bool)
	if !ok {
		return false, fmt.Errorf("%w", diag.New(diag.KindTypeError, ev.span(n), "expected a boolean"))
	}
	return bool(b), nil
}

func joinContent(lhs *content.Content, rhs value.Value) (value.Value, error) {
	rc, ok := rhs.(*content.Content)
	if !ok {
		return nil, fmt.Errorf("cannot join content with %s", rhs.Kind())
	}
	return content.Sequence(lhs, rc), nil
}

// divide is KindSlash's binary-operator handler; it defers entirely to
// value.Div, which keeps Decimal and Length division exact/typed
// instead of coercing through float64 (spec.md §4.7).
func divide(lhs, rhs value.Value) (value.Value, error) {
	return value.Div(lhs, rhs)
}

func compareOp(op syntax.Kind, lhs, rhs value.Value, span diag.Span) (value.Value, error) {
	c, ok := value.Compare(lhs, rhs)
	if !ok {
		return nil, fmt.Errorf("%w", diag.New(diag.KindTypeError, span, fmt.Sprintf("cannot order %s and %s", lhs.Kind(), rhs.Kind())))
	}
	switch op {
	case syntax.KindLt:
		return value.Bool(c < 0), nil
	case syntax.KindGt:
		return value.Bool(c > 0), nil
	case syntax.KindLtEq:
		return value.Bool(c <= 0), nil
	default:
		return value.Bool(c >= 0), nil
	}
}

func rangeValue(lhs, rhs value.Value) (value.Value, error) {
	lo, lok := lhs.(value.Int)
	hi, hok := rhs.(value.Int)
	if !lok || !hok {
		return nil, fmt.Errorf("range bounds must be integers")
	}
	var items []value.Value
	for i := int64(lo); i < int64(hi); i++ {
		items = append(items, value.Int(i))
	}
	return value.NewArray(items...), nil
}

func (ev *Evaluator) evalFieldAccess(scope *Scope, f ast.FieldAccess) (value.Value, error) {
	base, err := ev.EvalExpr(scope, f.Base())
	if err != nil {
		return nil, err
	}
	name := f.Field()
	switch t := base.(type) {
	case *value.Dict:
		if v, ok := t.Get(name); ok {
			return v, nil
		}
		if m, ok := resolveMethod(base, name); ok {
			return m, nil
		}
		return nil, fmt.Errorf("%w", diag.New(diag.KindAccessError, ev.span(f), "dictionary has no key "+name))
	case *value.Array, value.String, *CounterRef:
		if m, ok := resolveMethod(base, name); ok {
			return m, nil
		}
		return nil, fmt.Errorf("%w", diag.New(diag.KindTypeError, ev.span(f), fmt.Sprintf("%s has no method %s", base.Kind(), name)))
	default:
		return nil, fmt.Errorf("%w", diag.New(diag.KindTypeError, ev.span(f), fmt.Sprintf("%s has no field %s", base.Kind(), name)))
	}
}

func (ev *Evaluator) evalCall(scope *Scope, f ast.FuncCall) (value.Value, error) {
	callee, err := ev.EvalExpr(scope, f.Callee())
	if err != nil {
		return nil, err
	}
	args, err := ev.evalArgs(scope, f.Args())
	if err != nil {
		return nil, err
	}
	return ev.Call(callee, args, ev.span(f))
}

func (ev *Evaluator) evalArgs(scope *Scope, a ast.Args) (*value.Arguments, error) {
	var positional []value.Value
	for _, p := range a.Positional() {
		v, err := ev.EvalExpr(scope, p)
		if err != nil {
			return nil, err
		}
		positional = append(positional, v)
	}
	named := value.NewDict()
	for _, n := range a.Named() {
		v, err := ev.EvalExpr(scope, n.Value())
		if err != nil {
			return nil, err
		}
		named = named.With(n.Name(), v)
	}
	return value.NewArguments(positional, named), nil
}

// Call invokes a callable value (closure or builtin), enforcing the
// call-depth cap (spec.md §4.7).
func (ev *Evaluator) Call(callee value.Value, args *value.Arguments, span diag.Span) (value.Value, error) {
	ev.callDepth++
	defer func() { ev.callDepth-- }()
	if ev.callDepth > ev.MaxCallDepth {
		return nil, fmt.Errorf("%w", diag.New(diag.KindCallDepthExceeded, span, "call depth exceeded"))
	}

	switch fn := callee.(type) {
	case *Builtin:
		return fn.Fn(ev, args)
	case *Closure:
		callScope := fn.Env.Child()
		for i, p := range fn.Params {
			if i < len(args.Positional) {
				callScope.Define(p, args.Positional[i])
			} else if v, ok := args.Named.Get(p); ok {
				callScope.Define(p, v)
			} else {
				callScope.Define(p, value.None{})
			}
		}
		result, err := ev.EvalExpr(callScope, fn.Body)
		if err != nil {
			if rv, ok := asReturn(err); ok {
				return rv, nil
			}
			return nil, err
		}
		return result, nil
	default:
		return nil, fmt.Errorf("%w", diag.New(diag.KindTypeError, span, fmt.Sprintf("%s is not callable", callee.Kind())))
	}
}

func (ev *Evaluator) evalCodeBlockExpr(scope *Scope, cb ast.CodeBlock) (value.Value, error) {
	stmts := cb.Statements()
	// A braced block scopes its bindings; a bare `#`-entry binds in the
	// enclosing markup scope so `#let x = 1` is visible to a later `#x`.
	inner := scope
	if cb.Braced() {
		inner = scope.Child()
	}
	var last value.Value = content.Empty()
	var parts []*content.Content
	for _, s := range stmts {
		v, err := ev.EvalExpr(inner, s)
		if err != nil {
			return nil, err
		}
		last = v
		if c, ok := v.(*content.Content); ok {
			parts = append(parts, c)
		}
	}
	if len(parts) > 0 {
		return content.Sequence(parts...), nil
	}
	return last, nil
}
