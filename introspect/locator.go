// Package introspect implements the post-layout query engine (spec.md
// §4.8 "Introspector"): a locator that assigns stable location ids to
// realizable content, the closed selector algebra, and the index
// structures (document order, label multi-map, stable-key multi-map,
// selector cache) spec.md §3 "Introspector state" names. It is grounded
// on original_source crates/typst-library/src/introspection/
// introspector.rs, with the selector compiler's shape adapted from a
// compiled-pattern matcher (tree-sitter S-expression patterns
// re-purposed to this closed algebra).
package introspect

import (
	"hash/fnv"
	"sort"

	"github.com/quill-lang/quill/content"
)

// Locator assigns content.Location values deterministically: a stable
// hash of the element's syntactic origin (its source span) combined
// with a disambiguation counter for repeated origins within one pass
// (e.g. a `for` loop producing the same heading template N times).
// Locator stability (spec.md §3 "Invariant (locator stability)") holds
// because the same origin span visited in the same order within a pass
// always yields the same sequence of disambiguation counts.
type Locator struct {
	seen map[uint64]uint32
}

// NewLocator returns a fresh locator for one layout pass. A Locator
// must not be reused across passes with different content, but a new
// Locator for each pass assigning from the same origin-hash space is
// exactly what gives the locator-stability invariant: the same
// sequence of Locate calls, in the same order, reproduces the same
// locations.
func NewLocator() *Locator {
	return &Locator{seen: make(map[uint64]uint32)}
}

// OriginHash combines a source file path and byte span into the stable
// hash a Location is derived from.
func OriginHash(file string, start, end uint32) uint64 {
	h := fnv.New64a()
	h.Write([]byte(file))
	var buf [8]byte
	putU32(buf[0:4], start)
	putU32(buf[4:8], end)
	h.Write(buf[:])
	return h.Sum64()
}

func putU32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

// Locate assigns the next Location for the given origin hash, advancing
// the disambiguation counter for that origin.
func (l *Locator) Locate(originHash uint64) content.Location {
	n := l.seen[originHash]
	l.seen[originHash] = n + 1
	return content.Location{OriginHash: originHash, Disambig: n}
}

// locationLess orders two locations for document-order comparisons that
// don't go through the index list (used when sorting a fresh batch of
// entries before Build).
func locationLess(a, b content.Location) bool {
	if a.OriginHash != b.OriginHash {
		return a.OriginHash < b.OriginHash
	}
	return a.Disambig < b.Disambig
}

// sortEntries is a small helper so Build doesn't need to assume its
// caller already produced document-order input.
func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Order != entries[j].Order {
			return entries[i].Order < entries[j].Order
		}
		return locationLess(entries[i].Location, entries[j].Location)
	})
}
