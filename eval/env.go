package eval

import "github.com/quill-lang/quill/value"

// Scope is one frame of lexical bindings, chained to its defining
// parent. Mutation (Define) only ever touches the frame it's called
// on; closures capture a Snapshot of the scope chain at creation time
// so later bindings added to the same block don't leak into a closure
// already handed out, matching the pure-evaluator model of spec.md
// §4.7 ("closures as scope snapshots").
type Scope struct {
	vars   map[string]value.Value
	parent *Scope
}

// NewScope creates an empty scope chained to parent (nil for a root
// scope, e.g. the global/builtin scope).
func NewScope(parent *Scope) *Scope {
	return &Scope{vars: make(map[string]value.Value), parent: parent}
}

// Get looks a name up from innermost to outermost.
func (s *Scope) Get(name string) (value.Value, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if v, ok := cur.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Define binds name in this exact frame, shadowing any outer binding.
func (s *Scope) Define(name string, v value.Value) {
	s.vars[name] = v
}

// Assign rebinds an existing name in whichever frame already defines
// it (used by loop counters and mutable closures over `let`), or
// defines it in the current frame if nowhere in the chain has it yet.
func (s *Scope) Assign(name string, v value.Value) {
	for cur := s; cur != nil; cur = cur.parent {
		if _, ok := cur.vars[name]; ok {
			cur.vars[name] = v
			return
		}
	}
	s.vars[name] = v
}

// Snapshot returns a new scope with this frame's bindings copied
// (copy-on-write) and the same parent chain, so later Define calls on
// the original do not affect the snapshot.
func (s *Scope) Snapshot() *Scope {
	cp := make(map[string]value.Value, len(s.vars))
	for k, v := range s.vars {
		cp[k] = v
	}
	return &Scope{vars: cp, parent: s.parent}
}

// Child pushes a fresh frame for a nested block/call.
func (s *Scope) Child() *Scope {
	return NewScope(s)
}
