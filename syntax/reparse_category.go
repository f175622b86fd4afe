package syntax

// ReparseCategory classifies how safe it is to reuse a node's
// existing subtree shape when text inside its span changes, instead
// of reparsing from the document root (spec.md §4.3). This is the
// single source of truth the incremental reparser consults; review it
// whenever a kind's grammar context changes.
type ReparseCategory uint8

const (
	// CategorySafe nodes can be replaced by any new tokens from the
	// same mode without affecting anything outside their span: pure
	// text runs and markup punctuation that don't participate in
	// pairing or line-start rules.
	CategorySafe ReparseCategory = iota
	// CategorySameKind nodes must re-lex/re-parse to a single node of
	// the same kind, or the edit is rejected and reparsing ascends to
	// the parent.
	CategorySameKind
	// CategoryAtomicPrimary nodes must re-parse to exactly one atomic
	// primary expression in code mode (a literal or identifier) —
	// anything that would introduce new punctuation boundaries forces
	// ascent.
	CategoryAtomicPrimary
	// CategoryUnsafeLayer nodes can never themselves be replaced
	// in-place; only their children may be incrementally reparsed.
	// These are mode-boundary containers.
	CategoryUnsafeLayer
	// CategoryUnsafe nodes never participate in incremental reparsing;
	// any edit touching their span always ascends to an ancestor.
	CategoryUnsafe
)

// NeighborPrecondition further restricts whether a reparse attempt at
// a given node is even eligible, based on what surrounds its span in
// the old tree (spec.md §4.3).
type NeighborPrecondition uint8

const (
	// PreconditionNone places no constraint on neighbors.
	PreconditionNone NeighborPrecondition = iota
	// PreconditionAtStart requires the node to begin a line (heading,
	// list/enum/term markers all depend on column 0).
	PreconditionAtStart
	// PreconditionNotAtStart requires the node NOT to begin a line.
	PreconditionNotAtStart
	// PreconditionRightWhitespace requires the token immediately to
	// the right to be trivia, so an edit can't fuse two tokens that
	// must stay separated (e.g. a bare identifier run into a
	// following keyword).
	PreconditionRightWhitespace
)

type reparseRule struct {
	category     ReparseCategory
	precondition NeighborPrecondition
}

// reparseTable is the closed per-kind lookup the reparser uses. Kinds
// absent from the table default to CategoryUnsafe: the conservative
// choice for anything this table hasn't been explicitly reviewed for.
var reparseTable = map[Kind]reparseRule{
	KindText:         {CategorySafe, PreconditionNone},
	KindSpace:        {CategorySafe, PreconditionNone},
	KindLineComment:  {CategorySafe, PreconditionNone},
	KindBlockComment: {CategorySafe, PreconditionNone},
	KindRaw:          {CategorySafe, PreconditionNone},
	KindLabel:        {CategorySafe, PreconditionNone},
	KindRef:          {CategorySafe, PreconditionNone},

	KindHeading:  {CategorySameKind, PreconditionAtStart},
	KindListItem: {CategorySameKind, PreconditionAtStart},
	KindEnumItem: {CategorySameKind, PreconditionAtStart},
	KindTermItem: {CategorySameKind, PreconditionAtStart},
	KindStrong:   {CategorySameKind, PreconditionNotAtStart},
	KindEmph:     {CategorySameKind, PreconditionNotAtStart},

	KindIdent: {CategoryAtomicPrimary, PreconditionRightWhitespace},
	KindInt:   {CategoryAtomicPrimary, PreconditionRightWhitespace},
	KindFloat: {CategoryAtomicPrimary, PreconditionRightWhitespace},
	KindNumeric: {CategoryAtomicPrimary, PreconditionRightWhitespace},
	KindStr:   {CategoryAtomicPrimary, PreconditionNone},
	KindBool:  {CategoryAtomicPrimary, PreconditionRightWhitespace},

	KindMarkup:       {CategoryUnsafeLayer, PreconditionNone},
	KindCodeBlock:    {CategoryUnsafeLayer, PreconditionNone},
	KindContentBlock: {CategoryUnsafeLayer, PreconditionNone},
	KindEquation:     {CategoryUnsafeLayer, PreconditionNone},
	KindMath:         {CategoryUnsafeLayer, PreconditionNone},
}

// classify returns the category/precondition pair for a kind,
// defaulting conservatively to CategoryUnsafe.
func classify(k Kind) reparseRule {
	if r, ok := reparseTable[k]; ok {
		return r
	}
	return reparseRule{CategoryUnsafe, PreconditionNone}
}
