package style

import (
	"sync"

	list "github.com/bahlo/generic-list-go"

	"github.com/quill-lang/quill/value"
)

// Chain is an immutable cons-list of style maps: Push never mutates
// an existing Chain, it returns a new node whose parent is the
// receiver, so a Chain built while descending into nested content can
// be handed to a sibling without affecting it (spec.md §3 "Style
// chain").
type Chain struct {
	frame  *Map
	parent *Chain
}

// Root is the empty chain (no property writes, no recipes).
var Root = &Chain{}

// Push returns a new chain with frame as its innermost (first-checked)
// link.
func (c *Chain) Push(frame *Map) *Chain {
	return &Chain{frame: frame, parent: c}
}

// FoldFunc combines an outer (farther from the innermost link) value
// with an inner one, used when a field's schema declares fold
// semantics (spec.md §4.6); see content.FieldSchema.Fold, which this
// mirrors without content importing style or vice versa.
type FoldFunc func(outer, inner value.Value) value.Value

// Lookup returns the innermost matching property's value for
// (elementKind, field), or ok=false if no frame in the chain sets it.
// This is the non-folding form content.Content.Get uses as its
// StyleChain dependency.
func (c *Chain) Lookup(elementKind, field string) (value.Value, bool) {
	return globalCache.lookup(c, elementKind, field, nil)
}

// LookupFold behaves like Lookup but, when fold is non-nil, keeps
// walking past the first match and folds every subsequent (more
// outer) match into the accumulator instead of stopping — spec.md
// §4.6: "if the field has a fold function the property contributes to
// an accumulator instead of terminating".
func (c *Chain) LookupFold(elementKind, field string, fold FoldFunc) (value.Value, bool) {
	return globalCache.lookup(c, elementKind, field, fold)
}

// Recipes walks the chain innermost-first, yielding every recipe in
// the order a show rule should be tried (spec.md §4.8's selector
// matching consults recipes most-specific-first).
func (c *Chain) Recipes() []Recipe {
	var out []Recipe
	for n := c; n != nil; n = n.parent {
		if n.frame == nil {
			continue
		}
		out = append(out, n.frame.Recipes...)
	}
	return out
}

func (c *Chain) walk(elementKind, field string, fold FoldFunc) (value.Value, bool) {
	var acc value.Value
	hasAcc := false
	for n := c; n != nil; n = n.parent {
		if n.frame == nil {
			continue
		}
		// Properties within one frame are appended in set order; the
		// last one recorded for a field wins within that frame.
		for i := len(n.frame.Properties) - 1; i >= 0; i-- {
			p := n.frame.Properties[i]
			if p.ElementKind != elementKind || p.Field != field {
				continue
			}
			if fold == nil {
				return p.Value, true
			}
			if !hasAcc {
				acc, hasAcc = p.Value, true
			} else {
				acc = fold(p.Value, acc)
			}
			break
		}
	}
	return acc, hasAcc
}

// --- bounded LRU memoization ---
//
// Lookup must be pure (spec.md §3 "Caching"), so memoizing by chain
// identity + element kind + field is sound: the same Chain pointer
// always has the same frames, by construction (Push never mutates).

const lruCapacity = 4096

type cacheKey struct {
	chain *Chain
	kind  string
	field string
}

type cacheEntry struct {
	key   cacheKey
	value value.Value
	ok    bool
}

type lru struct {
	mu    sync.Mutex
	cap   int
	ll    *list.List[*cacheEntry]
	index map[cacheKey]*list.Element[*cacheEntry]
}

var globalCache = newLRU(lruCapacity)

func newLRU(cap int) *lru {
	return &lru{cap: cap, ll: list.New[*cacheEntry](), index: make(map[cacheKey]*list.Element[*cacheEntry])}
}

func (l *lru) lookup(c *Chain, kind, field string, fold FoldFunc) (value.Value, bool) {
	// A fold lookup's result can depend on the fold function's
	// identity/behavior, not just its presence, so only the no-fold
	// path (by far the common case) is cache-keyed; fold lookups
	// recompute every call rather than risk caching a stale result
	// under a reused boolean key.
	if fold != nil {
		return c.walk(kind, field, fold)
	}

	key := cacheKey{chain: c, kind: kind, field: field}
	l.mu.Lock()
	if el, ok := l.index[key]; ok {
		l.ll.MoveToFront(el)
		entry := el.Value
		l.mu.Unlock()
		return entry.value, entry.ok
	}
	l.mu.Unlock()

	v, ok := c.walk(kind, field, nil)

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.index[key]; !exists {
		entry := &cacheEntry{key: key, value: v, ok: ok}
		el := l.ll.PushFront(entry)
		l.index[key] = el
		if l.ll.Len() > l.cap {
			back := l.ll.Back()
			if back != nil {
				l.ll.Remove(back)
				delete(l.index, back.Value.key)
			}
		}
	}
	return v, ok
}
