package eval

import (
	"github.com/quill-lang/quill/syntax/ast"
	"github.com/quill-lang/quill/value"
)

// Closure is a user-defined function value: its parameter names, its
// body expression, and a snapshot of the defining scope (spec.md
// §4.7). It implements value.Value structurally so it can flow
// through arrays, dicts and arguments like any other value.
type Closure struct {
	Name    string // empty for an anonymous closure
	Params  []string
	Body    ast.Node
	Env     *Scope
}

func (*Closure) Kind() value.Kind { return value.KindFunction }

func (c *Closure) Repr() string {
	name := c.Name
	if name == "" {
		name = "anonymous"
	}
	return "function(" + name + ")"
}

func (c *Closure) Equal(o value.Value) bool {
	oc, ok := o.(*Closure)
	return ok && oc == c
}

// Builtin is a function implemented in Go rather than user source,
// e.g. the `calc` namespace or an explicit type cast.
type Builtin struct {
	Name string
	Fn   func(ev *Evaluator, args *value.Arguments) (value.Value, error)
}

func (*Builtin) Kind() value.Kind { return value.KindFunction }
func (b *Builtin) Repr() string   { return "function(" + b.Name + ")" }
func (b *Builtin) Equal(o value.Value) bool {
	ob, ok := o.(*Builtin)
	return ok && ob == b
}
