package syntax

import (
	"sync"
	"sync/atomic"
)

const (
	incrementalArenaSlab = 4 * 1024
	fullParseArenaSlab   = 256 * 1024
	minArenaNodeCap      = 64
)

type arenaClass uint8

const (
	arenaClassIncremental arenaClass = iota
	arenaClassFull
)

// nodeArena is a slab-backed allocator for green nodes. It is
// ref-counted so that a reparse can keep reusing a subtree borrowed
// from an older tree's arena without copying it, releasing the slab
// only once every tree referencing it has been dropped.
type nodeArena struct {
	class arenaClass
	nodes []GreenNode
	used  int
	refs  atomic.Int32
}

var (
	incrementalArenaPool = sync.Pool{
		New: func() any { return newNodeArena(arenaClassIncremental, incrementalArenaSlab) },
	}
	fullArenaPool = sync.Pool{
		New: func() any { return newNodeArena(arenaClassFull, fullParseArenaSlab) },
	}
)

func newNodeArena(class arenaClass, slabBytes int) *nodeArena {
	const approxNodeSize = 96
	cap := slabBytes / approxNodeSize
	if cap < minArenaNodeCap {
		cap = minArenaNodeCap
	}
	return &nodeArena{class: class, nodes: make([]GreenNode, cap)}
}

func acquireNodeArena(class arenaClass) *nodeArena {
	var a *nodeArena
	switch class {
	case arenaClassIncremental:
		a = incrementalArenaPool.Get().(*nodeArena)
	default:
		a = fullArenaPool.Get().(*nodeArena)
	}
	a.refs.Store(1)
	a.used = 0
	return a
}

func (a *nodeArena) Retain() { a.refs.Add(1) }

func (a *nodeArena) Release() {
	if a.refs.Add(-1) == 0 {
		switch a.class {
		case arenaClassIncremental:
			incrementalArenaPool.Put(a)
		default:
			fullArenaPool.Put(a)
		}
	}
}

func (a *nodeArena) alloc() *GreenNode {
	if a.used >= len(a.nodes) {
		a.nodes = append(a.nodes, GreenNode{})
	}
	n := &a.nodes[a.used]
	*n = GreenNode{}
	a.used++
	return n
}

// GreenNode is one node of the lossless concrete syntax tree
// (spec.md §3 "Syntax tree"). Green nodes are immutable, store only
// their own text length (not an absolute offset), and carry no parent
// pointer, so identical subtrees — including ones reused across a
// reparse — can be shared between trees without copying. Position and
// parent-chain information live on the Cursor (the "red" view).
type GreenNode struct {
	kind     Kind
	len      uint32 // total text length covered, including children's trivia
	text     string // only set for leaf tokens
	children []*GreenNode
	errors   []string // parse errors attached directly to this node
	arena    *nodeArena
}

func newLeaf(arena *nodeArena, kind Kind, text string) *GreenNode {
	n := arena.alloc()
	n.kind = kind
	n.text = text
	n.len = uint32(len(text))
	n.arena = arena
	return n
}

func newInner(arena *nodeArena, kind Kind, children []*GreenNode) *GreenNode {
	n := arena.alloc()
	n.kind = kind
	n.children = children
	n.arena = arena
	var total uint32
	for _, c := range children {
		total += c.len
	}
	n.len = total
	return n
}

func (n *GreenNode) Kind() Kind           { return n.kind }
func (n *GreenNode) Len() uint32          { return n.len }
func (n *GreenNode) IsLeaf() bool         { return n.children == nil }
func (n *GreenNode) IsToken() bool        { return n.IsLeaf() }
func (n *GreenNode) Text() string         { return n.text }
func (n *GreenNode) Children() []*GreenNode { return n.children }
func (n *GreenNode) Errors() []string      { return n.errors }
func (n *GreenNode) HasError() bool {
	if len(n.errors) > 0 || n.kind == KindError {
		return true
	}
	for _, c := range n.children {
		if c.HasError() {
			return true
		}
	}
	return false
}

// withError returns a shallow copy of n carrying an additional parse
// error message, used by the parser's error-tolerant recovery paths
// without mutating a node that might already be shared.
func (n *GreenNode) withError(msg string) *GreenNode {
	cp := *n
	cp.errors = append(append([]string{}, n.errors...), msg)
	return &cp
}

// Tree is a complete parse result: the green root plus the exact
// source text it was built from, needed to resolve leaf byte ranges
// into substrings on demand.
type Tree struct {
	Source string
	Green  *GreenNode
	arena  *nodeArena
}

// NewTree wraps a root node together with the source it was derived
// from, retaining a reference on the node's backing arena so the
// subtree outlives any transient incremental-parse scratch state.
func NewTree(source string, root *GreenNode) *Tree {
	if root.arena != nil {
		root.arena.Retain()
	}
	return &Tree{Source: source, Green: root, arena: root.arena}
}

// Release drops this tree's hold on its arena. Safe to call more than
// once is not guaranteed; callers own exactly one Release per Tree.
func (t *Tree) Release() {
	if t.arena != nil {
		t.arena.Release()
	}
}

// Cursor is a positioned ("red") view over a green tree: it adds
// absolute offsets and parent links on top of the otherwise
// parent-less, offset-less green nodes, computed lazily while
// walking (spec.md §3).
type Cursor struct {
	node   *GreenNode
	source string
	start  uint32
	parent *Cursor
	index  int
}

// Root returns a cursor positioned at the tree's root.
func (t *Tree) Root() Cursor {
	return Cursor{node: t.Green, source: t.Source}
}

func (c Cursor) Kind() Kind    { return c.node.kind }
func (c Cursor) Green() *GreenNode { return c.node }
func (c Cursor) Start() uint32 { return c.start }
func (c Cursor) End() uint32   { return c.start + c.node.len }
func (c Cursor) Parent() (Cursor, bool) {
	if c.parent == nil {
		return Cursor{}, false
	}
	return *c.parent, true
}
func (c Cursor) IndexInParent() int { return c.index }

// Text returns this node's exact source slice, including trivia.
func (c Cursor) Text() string {
	if c.node.IsLeaf() {
		return c.node.text
	}
	return c.source[c.start:c.End()]
}

// Children returns cursors for every direct child, positioned with
// absolute offsets derived from the running length of their
// preceding siblings.
func (c Cursor) Children() []Cursor {
	kids := c.node.children
	out := make([]Cursor, len(kids))
	off := c.start
	parent := c
	for i, k := range kids {
		out[i] = Cursor{node: k, source: c.source, start: off, parent: &parent, index: i}
		off += k.len
	}
	return out
}

// NamedChildren filters out trivia tokens, matching the AST view's
// notion of "meaningful" children.
func (c Cursor) NamedChildren() []Cursor {
	var out []Cursor
	for _, ch := range c.Children() {
		if !ch.Kind().IsTrivia() {
			out = append(out, ch)
		}
	}
	return out
}
