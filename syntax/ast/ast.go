// Package ast is the typed, read-only view over a green tree
// (spec.md §3 "AST view"): it borrows syntax.Cursor for navigation and
// adds named accessors per node kind, skipping trivia automatically.
package ast

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/quill-lang/quill/syntax"
)

// Node is any typed AST wrapper; every concrete type below embeds a
// cursor and satisfies this.
type Node interface {
	Cursor() syntax.Cursor
	Kind() syntax.Kind
}

type base struct{ cur syntax.Cursor }

func (b base) Cursor() syntax.Cursor { return b.cur }
func (b base) Kind() syntax.Kind     { return b.cur.Kind() }

// Cast wraps a cursor in its typed accessor, dispatching on kind. It
// never fails: an unrecognized kind still yields a usable Generic node
// so callers can walk children even over a kind this package hasn't
// special-cased yet.
func Cast(c syntax.Cursor) Node {
	switch c.Kind() {
	case syntax.KindMarkup:
		return Markup{base{c}}
	case syntax.KindHeading:
		return Heading{base{c}}
	case syntax.KindStrong:
		return Strong{base{c}}
	case syntax.KindEmph:
		return Emph{base{c}}
	case syntax.KindRaw:
		return Raw{base{c}}
	case syntax.KindLabel:
		return Label{base{c}}
	case syntax.KindRef:
		return Ref{base{c}}
	case syntax.KindListItem, syntax.KindEnumItem, syntax.KindTermItem:
		return ListLikeItem{base{c}}
	case syntax.KindEquation:
		return Equation{base{c}}
	case syntax.KindIdent:
		return Ident{base{c}}
	case syntax.KindInt:
		return IntLit{base{c}}
	case syntax.KindFloat:
		return FloatLit{base{c}}
	case syntax.KindNumeric:
		return NumericLit{base{c}}
	case syntax.KindStr:
		return StrLit{base{c}}
	case syntax.KindBool:
		return BoolLit{base{c}}
	case syntax.KindNone:
		return NoneLit{base{c}}
	case syntax.KindAuto:
		return AutoLit{base{c}}
	case syntax.KindArrayLiteral:
		return ArrayLit{base{c}}
	case syntax.KindDictLiteral:
		return DictLit{base{c}}
	case syntax.KindNamed:
		return Named{base{c}}
	case syntax.KindUnary:
		return Unary{base{c}}
	case syntax.KindBinary:
		return Binary{base{c}}
	case syntax.KindFieldAccess:
		return FieldAccess{base{c}}
	case syntax.KindFuncCall:
		return FuncCall{base{c}}
	case syntax.KindArgs:
		return Args{base{c}}
	case syntax.KindLetBinding:
		return LetBinding{base{c}}
	case syntax.KindSetRule:
		return SetRule{base{c}}
	case syntax.KindShowRule:
		return ShowRule{base{c}}
	case syntax.KindConditional:
		return Conditional{base{c}}
	case syntax.KindWhileLoop:
		return WhileLoop{base{c}}
	case syntax.KindForLoop:
		return ForLoop{base{c}}
	case syntax.KindModuleImport:
		return ModuleImport{base{c}}
	case syntax.KindModuleInclude:
		return ModuleInclude{base{c}}
	case syntax.KindReturnStmt:
		return ReturnStmt{base{c}}
	case syntax.KindBreak:
		return Break{base{c}}
	case syntax.KindContinue:
		return Continue{base{c}}
	case syntax.KindCodeBlock:
		return CodeBlock{base{c}}
	case syntax.KindContentBlock:
		return ContentBlock{base{c}}
	case syntax.KindParenthesized:
		return Parenthesized{base{c}}
	default:
		return base{c}
	}
}

// childOfKind returns the first named child of the given kind, or the
// zero Cursor with ok=false.
func childOfKind(c syntax.Cursor, kind syntax.Kind) (syntax.Cursor, bool) {
	for _, ch := range c.NamedChildren() {
		if ch.Kind() == kind {
			return ch, true
		}
	}
	return syntax.Cursor{}, false
}

func childrenExcept(c syntax.Cursor, kinds ...syntax.Kind) []syntax.Cursor {
	skip := make(map[syntax.Kind]bool, len(kinds))
	for _, k := range kinds {
		skip[k] = true
	}
	var out []syntax.Cursor
	for _, ch := range c.NamedChildren() {
		if !skip[ch.Kind()] {
			out = append(out, ch)
		}
	}
	return out
}

// Markup is a sequence of block/inline markup items.
type Markup struct{ base }

func (m Markup) Items() []Node {
	var out []Node
	for _, c := range markupChildren(m.cur) {
		out = append(out, Cast(c))
	}
	return out
}

// markupChildren returns the markup-significant children of c: every
// named child plus space tokens, which separate words in markup even
// though the green tree files them under trivia with comments.
func markupChildren(c syntax.Cursor) []syntax.Cursor {
	var out []syntax.Cursor
	for _, ch := range c.Children() {
		if ch.Kind() == syntax.KindSpace || !ch.Kind().IsTrivia() {
			out = append(out, ch)
		}
	}
	return out
}

// Heading is `= Title` (one or more '=' mark children).
type Heading struct{ base }

func (h Heading) Level() int {
	level := 0
	for _, c := range h.cur.Children() {
		if c.Kind() == syntax.KindHeadingMark {
			level = len(c.Text())
		}
	}
	return level
}

func (h Heading) Body() []Node {
	var out []Node
	for _, c := range markupChildren(h.cur) {
		if c.Kind() == syntax.KindHeadingMark {
			continue
		}
		if len(out) == 0 && c.Kind() == syntax.KindSpace {
			continue
		}
		out = append(out, Cast(c))
	}
	return out
}

// Strong is `*body*`.
type Strong struct{ base }

func (s Strong) Body() []Node { return bodyBetweenMarks(s.cur) }

// Emph is `_body_`.
type Emph struct{ base }

func (e Emph) Body() []Node { return bodyBetweenMarks(e.cur) }

func bodyBetweenMarks(c syntax.Cursor) []Node {
	kids := markupChildren(c)
	var out []Node
	for i, ch := range kids {
		if i == 0 || i == len(kids)-1 {
			continue
		}
		out = append(out, Cast(ch))
	}
	return out
}

// Raw is a backtick-fenced raw-text span. Text strips the fences (and
// the language tag of a 3+-backtick block); Lang returns that tag.
type Raw struct{ base }

func (r Raw) Text() string {
	body, _ := r.split()
	return body
}

func (r Raw) Lang() (string, bool) {
	_, lang := r.split()
	return lang, lang != ""
}

func (r Raw) split() (body, lang string) {
	t := r.cur.Text()
	fence := 0
	for fence < len(t) && t[fence] == '`' {
		fence++
	}
	closer := strings.Repeat("`", fence)
	body = strings.TrimPrefix(t, closer)
	body = strings.TrimSuffix(body, closer)
	if fence >= 3 {
		// An identifier right after the opening fence tags the language;
		// the raw body starts after the following newline or space.
		if i := strings.IndexAny(body, " \n"); i > 0 && isIdentLike(body[:i]) {
			lang = body[:i]
			body = body[i+1:]
		}
	}
	return body, lang
}

func isIdentLike(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '_' {
			return false
		}
	}
	return len(s) > 0
}

// Label is `<name>`.
type Label struct{ base }

func (l Label) Name() string {
	t := l.cur.Text()
	if len(t) >= 2 {
		return t[1 : len(t)-1]
	}
	return t
}

// Ref is `@target`.
type Ref struct{ base }

func (r Ref) Target() string {
	t := r.cur.Text()
	if len(t) > 0 && t[0] == '@' {
		return t[1:]
	}
	return t
}

// ListLikeItem covers `-`, `+` and `/` prefixed items uniformly; their
// distinction is Kind(), the body shape is identical.
type ListLikeItem struct{ base }

func (l ListLikeItem) Body() []Node {
	kids := markupChildren(l.cur)
	var out []Node
	for i, ch := range kids {
		if i == 0 {
			continue
		}
		if len(out) == 0 && ch.Kind() == syntax.KindSpace {
			continue
		}
		out = append(out, Cast(ch))
	}
	return out
}

// Equation is `$...$`.
type Equation struct{ base }

func (e Equation) Body() []syntax.Cursor {
	kids := e.cur.NamedChildren()
	if len(kids) <= 2 {
		return nil
	}
	return kids[1 : len(kids)-1]
}

// Ident is a bare identifier reference.
type Ident struct{ base }

func (i Ident) Name() string { return i.cur.Text() }

// IntLit, FloatLit, NumericLit, StrLit, BoolLit, NoneLit, AutoLit are
// leaf literal wrappers exposing their parsed Go value.
type IntLit struct{ base }

func (l IntLit) Value() int64 {
	n, _ := strconv.ParseInt(l.cur.Text(), 10, 64)
	return n
}

type FloatLit struct{ base }

func (l FloatLit) Value() float64 {
	f, _ := strconv.ParseFloat(l.cur.Text(), 64)
	return f
}

// NumericLit is a number with a unit suffix (length/ratio/angle/fr);
// splitting the digits from the unit is left to the evaluator, which
// already owns value.ParseLengthUnit and friends.
type NumericLit struct{ base }

func (l NumericLit) Text() string { return l.cur.Text() }

type StrLit struct{ base }

func (l StrLit) Value() string {
	t := l.cur.Text()
	if len(t) >= 2 {
		return t[1 : len(t)-1]
	}
	return t
}

type BoolLit struct{ base }

func (l BoolLit) Value() bool { return l.cur.Text() == "true" }

type NoneLit struct{ base }
type AutoLit struct{ base }

// ArrayLit / DictLit share the same paren-delimited shape: the parser
// builds a DictLit when there is at least one entry and every entry is
// Named, and an ArrayLit otherwise (a single unnamed entry is a
// parenthesized expression instead).
type ArrayLit struct{ base }

func (a ArrayLit) Items() []Node {
	var out []Node
	for _, c := range childrenExcept(a.cur, syntax.KindLeftParen, syntax.KindRightParen, syntax.KindComma) {
		out = append(out, Cast(c))
	}
	return out
}

type DictLit struct{ base }

func (d DictLit) Entries() []Named {
	var out []Named
	for _, c := range childrenExcept(d.cur, syntax.KindLeftParen, syntax.KindRightParen, syntax.KindComma) {
		if c.Kind() == syntax.KindNamed {
			out = append(out, Named{base{c}})
		}
	}
	return out
}

type Parenthesized struct{ base }

func (p Parenthesized) Inner() Node {
	for _, c := range childrenExcept(p.cur, syntax.KindLeftParen, syntax.KindRightParen) {
		return Cast(c)
	}
	return nil
}

// Named is `name: value`, used both as a dict entry and a call
// argument.
type Named struct{ base }

func (n Named) Name() string {
	for _, c := range n.cur.Children() {
		if c.Kind() == syntax.KindIdent {
			return c.Text()
		}
	}
	return ""
}

func (n Named) Value() Node {
	kids := n.cur.NamedChildren()
	if len(kids) < 2 {
		return nil
	}
	return Cast(kids[len(kids)-1])
}

// Unary is a prefix operator applied to one operand.
type Unary struct{ base }

func (u Unary) Op() syntax.Kind { return u.cur.Children()[0].Kind() }
func (u Unary) Operand() Node {
	kids := u.cur.NamedChildren()
	if len(kids) < 2 {
		return nil
	}
	return Cast(kids[1])
}

// Binary is `lhs op rhs`.
type Binary struct{ base }

func (b Binary) LHS() Node {
	kids := b.cur.NamedChildren()
	if len(kids) == 0 {
		return nil
	}
	return Cast(kids[0])
}

func (b Binary) Op() syntax.Kind {
	kids := b.cur.NamedChildren()
	if len(kids) < 2 {
		return syntax.KindError
	}
	return kids[1].Kind()
}

func (b Binary) RHS() Node {
	kids := b.cur.NamedChildren()
	if len(kids) < 3 {
		return nil
	}
	return Cast(kids[2])
}

// FieldAccess is `base.name`.
type FieldAccess struct{ base }

func (f FieldAccess) Base() Node {
	kids := f.cur.NamedChildren()
	return Cast(kids[0])
}
func (f FieldAccess) Field() string {
	kids := f.cur.NamedChildren()
	return kids[len(kids)-1].Text()
}

// FuncCall is `callee(args)`.
type FuncCall struct{ base }

func (f FuncCall) Callee() Node {
	kids := f.cur.NamedChildren()
	return Cast(kids[0])
}
func (f FuncCall) Args() Args {
	for _, c := range f.cur.NamedChildren() {
		if c.Kind() == syntax.KindArgs {
			return Args{base{c}}
		}
	}
	return Args{}
}

// Args is the comma-separated list inside `(...)` of a call.
type Args struct{ base }

func (a Args) Positional() []Node {
	var out []Node
	for _, c := range childrenExcept(a.cur, syntax.KindLeftParen, syntax.KindRightParen, syntax.KindComma, syntax.KindNamed) {
		out = append(out, Cast(c))
	}
	return out
}

func (a Args) Named() []Named {
	var out []Named
	for _, c := range a.cur.NamedChildren() {
		if c.Kind() == syntax.KindNamed {
			out = append(out, Named{base{c}})
		}
	}
	return out
}

// LetBinding is `let name = value` (params present for `let f(...) = `).
type LetBinding struct{ base }

func (l LetBinding) Name() string {
	for _, c := range l.cur.Children() {
		if c.Kind() == syntax.KindIdent {
			return c.Text()
		}
	}
	return ""
}

// Pattern reports the destructuring form `let (a, b) = expr` /
// `let (key: name) = expr`, returning the pattern node.
func (l LetBinding) Pattern() (Node, bool) {
	kids := l.cur.NamedChildren()
	if len(kids) < 2 {
		return nil, false
	}
	switch kids[1].Kind() {
	case syntax.KindArrayLiteral, syntax.KindDictLiteral, syntax.KindParenthesized:
		return Cast(kids[1]), true
	}
	return nil, false
}

func (l LetBinding) Params() (Params, bool) {
	c, ok := childOfKind(l.cur, syntax.KindParams)
	return Params{base{c}}, ok
}

func (l LetBinding) Value() (Node, bool) {
	kids := l.cur.NamedChildren()
	for i, c := range kids {
		if c.Kind() == syntax.KindEquals && i+1 < len(kids) {
			return Cast(kids[i+1]), true
		}
	}
	return nil, false
}

// Params is the parenthesized parameter list of a closure/function
// let-binding.
type Params struct{ base }

func (p Params) Names() []string {
	var out []string
	for _, c := range childrenExcept(p.cur, syntax.KindLeftParen, syntax.KindRightParen, syntax.KindComma) {
		out = append(out, c.Text())
	}
	return out
}

// SetRule is `set target(...)` with an optional `if cond` guard.
type SetRule struct{ base }

func (s SetRule) Target() Node {
	kids := s.cur.NamedChildren()
	return Cast(kids[1])
}

// Assignment reports the rebinding form `set name = expr`, returning
// the variable and the value expression.
func (s SetRule) Assignment() (Ident, Node, bool) {
	kids := s.cur.NamedChildren()
	if len(kids) == 4 && kids[2].Kind() == syntax.KindEquals {
		if id, ok := Cast(kids[1]).(Ident); ok {
			return id, Cast(kids[3]), true
		}
	}
	return Ident{}, nil, false
}

// ShowRule is `show [selector]: transform`.
type ShowRule struct{ base }

func (s ShowRule) Selector() (Node, bool) {
	kids := s.cur.NamedChildren()
	if len(kids) != 4 {
		return nil, false
	}
	return Cast(kids[1]), true
}

func (s ShowRule) Transform() Node {
	kids := s.cur.NamedChildren()
	return Cast(kids[len(kids)-1])
}

// Conditional is `if cond then [else alt]`.
type Conditional struct{ base }

func (c Conditional) Cond() Node {
	kids := c.cur.NamedChildren()
	return Cast(kids[1])
}
func (c Conditional) Then() Node {
	kids := c.cur.NamedChildren()
	return Cast(kids[2])
}
func (c Conditional) Else() (Node, bool) {
	kids := c.cur.NamedChildren()
	if len(kids) < 5 {
		return nil, false
	}
	return Cast(kids[4]), true
}

// WhileLoop is `while cond body`.
type WhileLoop struct{ base }

func (w WhileLoop) Cond() Node {
	kids := w.cur.NamedChildren()
	return Cast(kids[1])
}
func (w WhileLoop) Body() Node {
	kids := w.cur.NamedChildren()
	return Cast(kids[2])
}

// ForLoop is `for name in iterable body`.
type ForLoop struct{ base }

func (f ForLoop) Name() string {
	return f.cur.NamedChildren()[1].Text()
}
func (f ForLoop) Iterable() Node {
	kids := f.cur.NamedChildren()
	return Cast(kids[3])
}
func (f ForLoop) Body() Node {
	kids := f.cur.NamedChildren()
	return Cast(kids[4])
}

// ModuleImport is `import path[: names]`.
type ModuleImport struct{ base }

func (m ModuleImport) Path() Node {
	kids := m.cur.NamedChildren()
	return Cast(kids[1])
}
func (m ModuleImport) Names() []string {
	kids := m.cur.NamedChildren()
	var out []string
	afterColon := false
	for _, c := range kids {
		if c.Kind() == syntax.KindColon {
			afterColon = true
			continue
		}
		if afterColon && c.Kind() == syntax.KindIdent {
			out = append(out, c.Text())
		}
	}
	return out
}

// ModuleInclude is `include path`.
type ModuleInclude struct{ base }

func (m ModuleInclude) Path() Node {
	kids := m.cur.NamedChildren()
	return Cast(kids[1])
}

// Break is the `break` loop-control keyword.
type Break struct{ base }

// Continue is the `continue` loop-control keyword.
type Continue struct{ base }

// ReturnStmt is `return [value]`.
type ReturnStmt struct{ base }

func (r ReturnStmt) Value() (Node, bool) {
	kids := r.cur.NamedChildren()
	if len(kids) < 2 {
		return nil, false
	}
	return Cast(kids[1]), true
}

// CodeBlock is either a `#`-introduced single expression/statement or
// a `{ ... }` sequence of statements; Statements() normalizes both.
type CodeBlock struct{ base }

func (c CodeBlock) Statements() []Node {
	var out []Node
	for _, ch := range childrenExcept(c.cur, syntax.KindHashMark, syntax.KindLeftBrace, syntax.KindRightBrace, syntax.KindSemicolon) {
		out = append(out, Cast(ch))
	}
	return out
}

// Braced reports whether this is a `{ ... }` block (its own lexical
// scope) rather than a bare `#`-introduced statement, which binds in
// the enclosing scope.
func (c CodeBlock) Braced() bool {
	for _, ch := range c.cur.Children() {
		if ch.Kind() == syntax.KindLeftBrace {
			return true
		}
	}
	return false
}

// ContentBlock is `[ ... ]`, a markup island embedded in code.
type ContentBlock struct{ base }

func (c ContentBlock) Body() Markup {
	for _, ch := range c.cur.NamedChildren() {
		if ch.Kind() == syntax.KindMarkup {
			return Markup{base{ch}}
		}
	}
	return Markup{}
}
