package syntax

// Edit describes a single text replacement applied to a tree's
// source, in byte offsets of the OLD text.
type Edit struct {
	Start   uint32
	End     uint32
	NewText string
}

// apply returns the new source text after the edit.
func (e Edit) apply(old string) string {
	return old[:e.Start] + e.NewText + old[e.End:]
}

func (e Edit) newEnd() uint32 { return e.Start + uint32(len(e.NewText)) }
func (e Edit) delta() int     { return len(e.NewText) - int(e.End-e.Start) }

// Reparse applies edit to tree incrementally: it descends to the
// smallest enclosing node whose ReparseCategory and neighbor
// precondition both allow local reuse, re-lexes/re-parses just that
// node's new text, validates the result still satisfies the node's
// category, and splices it back in. If validation fails at any level
// it retries one level up (spec.md §4.3's "descend, validate, retry").
// Falling off the root means a full reparse.
func Reparse(old *Tree, edit Edit) *Tree {
	newSource := edit.apply(old.Source)

	path := locatePath(old.Green, edit.Start, edit.End)
	for i := len(path) - 1; i >= 0; i-- {
		node := path[i]
		nodeStart := path2Start(path, i, edit.Start)
		rule := classify(node.kind)
		if rule.category == CategoryUnsafe || rule.category == CategoryUnsafeLayer {
			continue
		}
		if !neighborOK(path, i, rule.precondition) {
			continue
		}
		replacement, ok := tryLocalReparse(node, nodeStart, newSource, edit, rule.category)
		if !ok {
			continue
		}
		newRoot := splice(old.Green, path, i, replacement)
		return NewTree(newSource, newRoot)
	}

	full, _ := Parse(newSource)
	return full
}

// locatePath walks down from root, returning the chain of nodes whose
// span contains [start,end], root first, deepest last.
func locatePath(root *GreenNode, start, end uint32) []*GreenNode {
	path := []*GreenNode{root}
	cur := root
	offset := uint32(0)
	for {
		if cur.IsLeaf() {
			return path
		}
		found := false
		childOff := offset
		for _, c := range cur.children {
			childEnd := childOff + c.len
			if childOff <= start && end <= childEnd {
				path = append(path, c)
				cur = c
				offset = childOff
				found = true
				break
			}
			childOff = childEnd
		}
		if !found {
			return path
		}
	}
}

// path2Start recomputes the absolute start offset of path[i] given
// the edit's start offset and the chain down to it. Since green nodes
// don't carry absolute offsets, this walks the same descent again.
func path2Start(path []*GreenNode, i int, editStart uint32) uint32 {
	// The node at path[i] contains editStart by construction of
	// locatePath, and its start is editStart minus the distance from
	// its own start to editStart; recompute via a fresh top-down walk.
	cur := path[0]
	offset := uint32(0)
	for depth := 1; depth <= i; depth++ {
		target := path[depth]
		childOff := offset
		for _, c := range cur.children {
			if c == target {
				offset = childOff
				cur = c
				break
			}
			childOff += c.len
		}
	}
	return offset
}

func neighborOK(path []*GreenNode, i int, precond NeighborPrecondition) bool {
	switch precond {
	case PreconditionNone:
		return true
	case PreconditionAtStart, PreconditionNotAtStart:
		if i == 0 {
			return precond == PreconditionAtStart
		}
		parent := path[i-1]
		atStart := parent.children[0] == path[i]
		if precond == PreconditionAtStart {
			return atStart
		}
		return !atStart
	case PreconditionRightWhitespace:
		if i == 0 {
			return true
		}
		parent := path[i-1]
		for idx, c := range parent.children {
			if c == path[i] {
				if idx+1 >= len(parent.children) {
					return true
				}
				return parent.children[idx+1].kind.IsTrivia()
			}
		}
		return true
	default:
		return false
	}
}

// tryLocalReparse re-lexes/re-parses the node's updated text in
// isolation and checks the result still matches the category's
// requirement (a single node of the same kind for CategorySameKind, a
// single atomic primary for CategoryAtomicPrimary, a single markup
// token spanning the whole new text for CategorySafe).
func tryLocalReparse(node *GreenNode, nodeStart uint32, newSource string, edit Edit, category ReparseCategory) (*GreenNode, bool) {
	newNodeEnd := int(nodeStart) + int(node.len) + edit.delta()
	if newNodeEnd < int(nodeStart) || newNodeEnd > len(newSource) {
		return nil, false
	}
	text := newSource[nodeStart:newNodeEnd]

	arena := acquireNodeArena(arenaClassIncremental)
	fail := func() (*GreenNode, bool) {
		// Nothing from the failed attempt escapes; recycle the slab.
		arena.Release()
		return nil, false
	}
	switch category {
	case CategorySafe:
		lx := NewLexerWithArena(text, arena)
		leaf := lx.NextMarkup()
		if leaf == nil || lx.pos != len(text) {
			return fail()
		}
		return leaf, true
	case CategorySameKind:
		p := &Parser{lex: NewLexerWithArena(text, arena), arena: arena, mode: []Mode{ModeMarkup}}
		replacement := p.parseMarkupItem()
		if replacement.kind != node.kind || len(p.errs) > 0 {
			return fail()
		}
		return replacement, true
	case CategoryAtomicPrimary:
		p := &Parser{lex: NewLexerWithArena(text, arena), arena: arena, mode: []Mode{ModeCode}}
		tok := p.next()
		if tok == nil || tok.kind != node.kind || p.peek() != nil {
			return fail()
		}
		return tok, true
	default:
		return fail()
	}
}

// splice rebuilds every ancestor of the replaced node along path[:i+1]
// with its child swapped for replacement, reusing every sibling
// subtree unchanged (spec.md §4.3: "identical subtrees are shared,
// never copied").
func splice(root *GreenNode, path []*GreenNode, i int, replacement *GreenNode) *GreenNode {
	if i == 0 {
		return replacement
	}
	cur := replacement
	for depth := i; depth > 0; depth-- {
		parent := path[depth-1]
		newChildren := make([]*GreenNode, len(parent.children))
		copy(newChildren, parent.children)
		for idx, c := range newChildren {
			if c == path[depth] {
				newChildren[idx] = cur
				break
			}
		}
		cur = newInner(parent.arena, parent.kind, newChildren)
	}
	return cur
}
