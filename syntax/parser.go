package syntax

// Parser builds a green tree via recursive descent, grounded on
// spec.md §4.2: no parser-generator tables, one function per grammar
// rule, explicit mode switches at `#`, `[...]` and `$...$` boundaries,
// and error-tolerant recovery that emits a KindError node plus a
// diagnostic-shaped message rather than aborting the parse.
type Parser struct {
	lex     *Lexer
	arena   *nodeArena
	mode    []Mode
	pending []*GreenNode // lookahead queue, front = next token
	errs    []string
}

// Parse lexes and parses src from scratch, always in markup mode at
// the top level (a Typst-style source file is markup until a `#`
// switches briefly into code).
func Parse(src string) (*Tree, []string) {
	arena := acquireNodeArena(arenaClassFull)
	p := &Parser{lex: NewLexerWithArena(src, arena), arena: arena, mode: []Mode{ModeMarkup}}
	root := p.parseMarkup(nil)
	tree := NewTree(src, root)
	// Ownership passes to the tree; drop the constructor reference so
	// the slab returns to its pool once the last tree releases it.
	arena.Release()
	return tree, p.errs
}

func (p *Parser) curMode() Mode { return p.mode[len(p.mode)-1] }

func (p *Parser) pushMode(m Mode) {
	p.flushPending()
	p.mode = append(p.mode, m)
}

func (p *Parser) popMode() {
	p.flushPending()
	if len(p.mode) > 1 {
		p.mode = p.mode[:len(p.mode)-1]
	}
}

// flushPending rewinds the lexer over any buffered lookahead tokens.
// Lookahead is filled in the mode active at peek time, so a token
// buffered just before a mode switch may have been lexed under the
// wrong grammar; un-lexing and re-lexing it in the new mode keeps the
// stream correct.
func (p *Parser) flushPending() {
	for i := len(p.pending) - 1; i >= 0; i-- {
		if p.pending[i] == nil { // buffered EOF sentinel
			continue
		}
		p.lex.pos -= len(p.pending[i].text)
	}
	p.pending = nil
}

// lexOne pulls exactly one fresh token from the lexer in the
// currently active mode, bypassing the lookahead queue.
func (p *Parser) lexOne() *GreenNode {
	switch p.curMode() {
	case ModeCode:
		return p.lex.NextCode()
	case ModeMath:
		return p.lex.NextMath()
	default:
		return p.lex.NextMarkup()
	}
}

func (p *Parser) next() *GreenNode {
	var n *GreenNode
	if len(p.pending) > 0 {
		n = p.pending[0]
		p.pending = p.pending[1:]
	} else {
		n = p.lexOne()
	}
	p.collectLeafErrors(n)
	return n
}

// collectLeafErrors folds errors the lexer attached directly to a leaf
// token (e.g. an invalid string escape) into the parser's own error
// list, so callers of Parse see them without having to walk the tree.
func (p *Parser) collectLeafErrors(n *GreenNode) {
	if n == nil {
		return
	}
	p.errs = append(p.errs, n.Errors()...)
}

// peekN returns the token n positions ahead (0 = next token) without
// consuming it, filling the lookahead queue as needed. A nil result
// means EOF.
func (p *Parser) peekN(n int) *GreenNode {
	for len(p.pending) <= n {
		p.pending = append(p.pending, p.lexOne())
	}
	return p.pending[n]
}

func (p *Parser) peek() *GreenNode { return p.peekN(0) }

func (p *Parser) peekKind() Kind {
	n := p.peek()
	if n == nil {
		return KindEOF
	}
	return n.kind
}

func (p *Parser) peekKindAt(n int) Kind {
	t := p.peekN(n)
	if t == nil {
		return KindEOF
	}
	return t.kind
}

func (p *Parser) skipTrivia(into *[]*GreenNode) {
	for {
		k := p.peekKind()
		if k != KindSpace && k != KindLineComment && k != KindBlockComment {
			return
		}
		*into = append(*into, p.next())
	}
}

func (p *Parser) errorf(msg string) *GreenNode {
	p.errs = append(p.errs, msg)
	return newLeaf(p.arena, KindError, "")
}

// --- Markup ---

// parseMarkup consumes markup tokens until EOF or one of the stop
// kinds. A nil stop set reads to EOF; a content block passes its
// closing ']' as the stop kind. Heading and list-item bodies are not
// read through it: those parse their bodies with their own loops.
func (p *Parser) parseMarkup(stop map[Kind]bool) *GreenNode {
	var children []*GreenNode
	for {
		k := p.peekKind()
		if k == KindEOF || (stop != nil && stop[k]) {
			break
		}
		children = append(children, p.parseMarkupItem())
	}
	return newInner(p.arena, KindMarkup, children)
}

func (p *Parser) parseMarkupItem() *GreenNode {
	switch p.peekKind() {
	case KindHashMark:
		return p.parseCodeEntry()
	case KindDollar:
		return p.parseEquation()
	case KindHeadingMark:
		return p.parseHeading()
	case KindListMark:
		return p.parseListItem()
	case KindEnumMark:
		return p.parseEnumItem()
	case KindTermMark:
		return p.parseTermItem()
	case KindStrongMark:
		return p.parseStrong()
	case KindEmphMark:
		return p.parseEmph()
	default:
		return p.next()
	}
}

// parseCodeEntry handles a `#`-introduced expression embedded in
// markup: the hash switches into code mode for exactly one expression
// or statement, then control returns to markup (spec.md §4.1).
func (p *Parser) parseCodeEntry() *GreenNode {
	hash := p.next()
	p.pushMode(ModeCode)
	children := []*GreenNode{hash}
	p.parseExprOrStmt(&children)
	p.popMode()
	return newInner(p.arena, KindCodeBlock, children)
}

func (p *Parser) parseEquation() *GreenNode {
	open := p.next()
	p.pushMode(ModeMath)
	var children []*GreenNode
	for p.peekKind() != KindDollar && p.peekKind() != KindEOF {
		children = append(children, p.parseMathItem())
	}
	var closeTok *GreenNode
	if p.peekKind() == KindDollar {
		closeTok = p.next()
	} else {
		closeTok = p.errorf("unclosed equation: expected '$'")
	}
	p.popMode()
	all := append([]*GreenNode{open}, children...)
	all = append(all, closeTok)
	return newInner(p.arena, KindEquation, all)
}

func (p *Parser) parseHeading() *GreenNode {
	mark := p.next()
	var body []*GreenNode
	body = append(body, mark)
	for {
		k := p.peekKind()
		if k == KindLinebreak || k == KindParbreak || k == KindEOF {
			break
		}
		body = append(body, p.parseMarkupItem())
	}
	return newInner(p.arena, KindHeading, body)
}

func (p *Parser) parseListItem() *GreenNode {
	return p.parseLinePrefixedItem(KindListItem)
}

func (p *Parser) parseEnumItem() *GreenNode {
	return p.parseLinePrefixedItem(KindEnumItem)
}

func (p *Parser) parseTermItem() *GreenNode {
	return p.parseLinePrefixedItem(KindTermItem)
}

func (p *Parser) parseLinePrefixedItem(kind Kind) *GreenNode {
	mark := p.next()
	body := []*GreenNode{mark}
	for {
		k := p.peekKind()
		if k == KindLinebreak || k == KindParbreak || k == KindEOF {
			break
		}
		body = append(body, p.parseMarkupItem())
	}
	return newInner(p.arena, kind, body)
}

func (p *Parser) parseStrong() *GreenNode {
	open := p.next()
	var body []*GreenNode
	for p.peekKind() != KindStrongMark && p.peekKind() != KindEOF && p.peekKind() != KindParbreak {
		body = append(body, p.parseMarkupItem())
	}
	var close *GreenNode
	if p.peekKind() == KindStrongMark {
		close = p.next()
	} else {
		close = p.errorf("unclosed strong emphasis: expected '*'")
	}
	all := append([]*GreenNode{open}, body...)
	all = append(all, close)
	return newInner(p.arena, KindStrong, all)
}

func (p *Parser) parseEmph() *GreenNode {
	open := p.next()
	var body []*GreenNode
	for p.peekKind() != KindEmphMark && p.peekKind() != KindEOF && p.peekKind() != KindParbreak {
		body = append(body, p.parseMarkupItem())
	}
	var close *GreenNode
	if p.peekKind() == KindEmphMark {
		close = p.next()
	} else {
		close = p.errorf("unclosed emphasis: expected '_'")
	}
	all := append([]*GreenNode{open}, body...)
	all = append(all, close)
	return newInner(p.arena, KindEmph, all)
}

// --- Math (simplified: atoms joined left to right, with attachment
// and fraction as the only binary math operators) ---

func (p *Parser) parseMathItem() *GreenNode {
	switch p.peekKind() {
	case KindMathDelimited:
		return p.next()
	default:
		atom := p.next()
		for p.peekKind() == KindMathAttach || p.peekKind() == KindMathFrac {
			op := p.next()
			var rhs *GreenNode
			if p.peekKind() != KindDollar && p.peekKind() != KindEOF {
				rhs = p.parseMathItem()
			} else {
				rhs = p.errorf("expected math operand")
			}
			kind := KindMathAttach
			if op.kind == KindMathFrac {
				kind = KindMathFrac
			}
			atom = newInner(p.arena, kind, []*GreenNode{atom, op, rhs})
		}
		return atom
	}
}

// --- Code ---

// parseExprOrStmt drains leading trivia into children, then appends
// exactly one statement or expression node. Trivia lands directly in
// the enclosing node's child list, where the AST view's
// NamedChildren-based accessors skip it, so no wrapper node is needed
// to preserve fidelity.
func (p *Parser) parseExprOrStmt(children *[]*GreenNode) {
	p.skipTrivia(children)
	var node *GreenNode
	switch p.peekKind() {
	case KindLetBinding:
		node = p.parseLet()
	case KindSetRule:
		node = p.parseSetRule()
	case KindShowRule:
		node = p.parseShowRule()
	case KindConditional:
		node = p.parseIf()
	case KindWhileLoop:
		node = p.parseWhile()
	case KindForLoop:
		node = p.parseFor()
	case KindModuleImport:
		node = p.parseImport()
	case KindModuleInclude:
		node = p.parseInclude()
	case KindBreak, KindContinue:
		node = p.next()
	case KindReturnStmt:
		kw := p.next()
		sub := []*GreenNode{kw}
		p.skipTrivia(&sub)
		if canStartExpr(p.peekKind()) {
			sub = append(sub, p.parseExpr(0))
		}
		node = newInner(p.arena, KindReturnStmt, sub)
	default:
		node = p.parseExpr(0)
	}
	*children = append(*children, node)
}

func canStartExpr(k Kind) bool {
	switch k {
	case KindEOF, KindDollar, KindRightBrace, KindSemicolon, KindRightParen, KindRightBracket, KindComma:
		return false
	default:
		return true
	}
}

func (p *Parser) expect(kind Kind, what string) *GreenNode {
	if p.peekKind() == kind {
		return p.next()
	}
	return p.errorf("expected " + what)
}

func (p *Parser) parseLet() *GreenNode {
	children := []*GreenNode{p.next()}
	p.skipTrivia(&children)
	if p.peekKind() == KindLeftParen {
		// Destructuring pattern: `let (a, b) = ...`.
		children = append(children, p.parseParenOrArray())
	} else {
		children = append(children, p.expect(KindIdent, "identifier after 'let'"))
		if p.peekKind() == KindLeftParen {
			children = append(children, p.parseParams())
		}
	}
	p.skipTrivia(&children)
	if p.peekKind() == KindEquals {
		children = append(children, p.next())
		p.skipTrivia(&children)
		children = append(children, p.parseExpr(0))
	}
	return newInner(p.arena, KindLetBinding, children)
}

// parseSetRule covers both forms sharing the keyword: a style rule
// `set heading(numbering: "1.")` and a rebinding `set n = n + 1`.
func (p *Parser) parseSetRule() *GreenNode {
	children := []*GreenNode{p.next()}
	p.skipTrivia(&children)
	children = append(children, p.parseExpr(0))
	p.skipTrivia(&children)
	switch p.peekKind() {
	case KindEquals:
		children = append(children, p.next())
		p.skipTrivia(&children)
		children = append(children, p.parseExpr(0))
	case KindConditional: // 'if' guard, reusing the same keyword kind
		children = append(children, p.next())
		p.skipTrivia(&children)
		children = append(children, p.parseExpr(0))
	}
	return newInner(p.arena, KindSetRule, children)
}

func (p *Parser) parseShowRule() *GreenNode {
	children := []*GreenNode{p.next()}
	p.skipTrivia(&children)
	if p.peekKind() != KindColon {
		children = append(children, p.parseExpr(0))
		p.skipTrivia(&children)
	}
	if p.peekKind() == KindColon {
		children = append(children, p.next())
		p.skipTrivia(&children)
		children = append(children, p.parseExpr(0))
	}
	return newInner(p.arena, KindShowRule, children)
}

func (p *Parser) parseIf() *GreenNode {
	children := []*GreenNode{p.next()}
	p.skipTrivia(&children)
	children = append(children, p.parseExpr(0))
	p.skipTrivia(&children)
	children = append(children, p.parseExpr(0))
	p.skipTrivia(&children)
	if p.peekKind() == KindConditional { // 'else' reuses KindConditional
		children = append(children, p.next())
		p.skipTrivia(&children)
		children = append(children, p.parseExpr(0))
	}
	return newInner(p.arena, KindConditional, children)
}

func (p *Parser) parseWhile() *GreenNode {
	children := []*GreenNode{p.next()}
	p.skipTrivia(&children)
	children = append(children, p.parseExpr(0))
	p.skipTrivia(&children)
	children = append(children, p.parseExpr(0))
	return newInner(p.arena, KindWhileLoop, children)
}

func (p *Parser) parseFor() *GreenNode {
	children := []*GreenNode{p.next()}
	p.skipTrivia(&children)
	children = append(children, p.expect(KindIdent, "loop variable"))
	p.skipTrivia(&children)
	children = append(children, p.expect(KindAnd, "'in'")) // lexed as KindAnd per keyword table note
	p.skipTrivia(&children)
	children = append(children, p.parseExpr(0))
	p.skipTrivia(&children)
	children = append(children, p.parseExpr(0))
	return newInner(p.arena, KindForLoop, children)
}

func (p *Parser) parseImport() *GreenNode {
	children := []*GreenNode{p.next()}
	p.skipTrivia(&children)
	children = append(children, p.parseExpr(0))
	p.skipTrivia(&children)
	if p.peekKind() == KindColon {
		children = append(children, p.next())
		for {
			p.skipTrivia(&children)
			children = append(children, p.expect(KindIdent, "imported name"))
			p.skipTrivia(&children)
			if p.peekKind() != KindComma {
				break
			}
			children = append(children, p.next())
		}
	}
	return newInner(p.arena, KindModuleImport, children)
}

func (p *Parser) parseInclude() *GreenNode {
	children := []*GreenNode{p.next()}
	p.skipTrivia(&children)
	children = append(children, p.parseExpr(0))
	return newInner(p.arena, KindModuleInclude, children)
}

func (p *Parser) parseParams() *GreenNode {
	open := p.next()
	children := []*GreenNode{open}
	for {
		p.skipTrivia(&children)
		if p.peekKind() == KindRightParen || p.peekKind() == KindEOF {
			break
		}
		children = append(children, p.parseExpr(0))
		p.skipTrivia(&children)
		if p.peekKind() == KindComma {
			children = append(children, p.next())
		}
	}
	children = append(children, p.expect(KindRightParen, "')'"))
	return newInner(p.arena, KindParams, children)
}

// precedence climbing for binary operators
func binPrec(k Kind) int {
	switch k {
	case KindOr:
		return 1
	case KindAnd:
		return 2
	case KindEqEq, KindNotEq, KindLt, KindGt, KindLtEq, KindGtEq:
		return 3
	case KindDotDot:
		return 4
	case KindPlus, KindMinus:
		return 5
	case KindStar, KindSlash:
		return 6
	default:
		return -1
	}
}

// triviaAheadKind looks past any buffered trivia tokens without
// consuming them, returning the kind of the first significant token
// and how many trivia tokens precede it.
func (p *Parser) triviaAheadKind() (Kind, int) {
	i := 0
	for {
		t := p.peekN(i)
		if t == nil {
			return KindEOF, i
		}
		if t.kind != KindSpace && t.kind != KindLineComment && t.kind != KindBlockComment {
			return t.kind, i
		}
		i++
	}
}

func (p *Parser) parseExpr(minPrec int) *GreenNode {
	lhs := p.parseUnary()
	for {
		kind, _ := p.triviaAheadKind()
		prec := binPrec(kind)
		if prec < minPrec || prec < 0 {
			return lhs
		}
		var trivia []*GreenNode
		p.skipTrivia(&trivia)
		op := p.next()
		var post []*GreenNode
		p.skipTrivia(&post)
		rhs := p.parseExpr(prec + 1)
		all := append([]*GreenNode{lhs}, trivia...)
		all = append(all, op)
		all = append(all, post...)
		all = append(all, rhs)
		lhs = newInner(p.arena, KindBinary, all)
	}
}

func (p *Parser) parseUnary() *GreenNode {
	switch p.peekKind() {
	case KindMinus, KindPlus, KindNot:
		children := []*GreenNode{p.next()}
		p.skipTrivia(&children)
		children = append(children, p.parseUnary())
		return newInner(p.arena, KindUnary, children)
	default:
		return p.parsePostfix(p.parsePrimary())
	}
}

func (p *Parser) parsePostfix(base *GreenNode) *GreenNode {
	for {
		switch p.peekKind() {
		case KindDot:
			dot := p.next()
			name := p.expect(KindIdent, "field name")
			base = newInner(p.arena, KindFieldAccess, []*GreenNode{base, dot, name})
		case KindLeftParen:
			args := p.parseArgs()
			base = newInner(p.arena, KindFuncCall, []*GreenNode{base, args})
		default:
			return base
		}
	}
}

func (p *Parser) parseArgs() *GreenNode {
	open := p.next()
	children := []*GreenNode{open}
	for {
		p.skipTrivia(&children)
		if p.peekKind() == KindRightParen || p.peekKind() == KindEOF {
			break
		}
		if p.peekKind() == KindIdent && p.peekKindAt(1) == KindColon {
			name := p.next()
			colon := p.next()
			sub := []*GreenNode{name, colon}
			p.skipTrivia(&sub)
			sub = append(sub, p.parseExpr(0))
			children = append(children, newInner(p.arena, KindNamed, sub))
		} else {
			children = append(children, p.parseExpr(0))
		}
		p.skipTrivia(&children)
		if p.peekKind() == KindComma {
			children = append(children, p.next())
		}
	}
	children = append(children, p.expect(KindRightParen, "')'"))
	return newInner(p.arena, KindArgs, children)
}

func (p *Parser) parsePrimary() *GreenNode {
	switch p.peekKind() {
	case KindIdent, KindInt, KindFloat, KindNumeric, KindStr, KindBool, KindNone, KindAuto:
		return p.next()
	case KindLeftParen:
		return p.parseParenOrArray()
	case KindLeftBracket:
		return p.parseContentBlock()
	case KindLeftBrace:
		return p.parseCodeBlock()
	case KindDollar:
		p.pushMode(ModeMath)
		eq := p.parseEquation()
		p.popMode()
		return eq
	default:
		// Swallow the offending token into the error node so every
		// enclosing loop is guaranteed to make progress.
		tok := p.next()
		if tok == nil {
			return p.errorf("expected expression")
		}
		p.errs = append(p.errs, "expected expression, found "+tok.kind.String())
		return newInner(p.arena, KindError, []*GreenNode{tok})
	}
}

func (p *Parser) parseParenOrArray() *GreenNode {
	open := p.next()
	children := []*GreenNode{open}
	count := 0
	allNamed := true
	for {
		p.skipTrivia(&children)
		if p.peekKind() == KindRightParen || p.peekKind() == KindEOF {
			break
		}
		if p.peekKind() == KindDotDot {
			// `..name`, a sink entry in a destructuring pattern.
			sub := []*GreenNode{p.next()}
			p.skipTrivia(&sub)
			sub = append(sub, p.expect(KindIdent, "sink name after '..'"))
			children = append(children, newInner(p.arena, KindUnary, sub))
			allNamed = false
		} else if p.peekKind() == KindIdent && p.peekKindAt(1) == KindColon {
			name := p.next()
			colon := p.next()
			sub := []*GreenNode{name, colon}
			p.skipTrivia(&sub)
			sub = append(sub, p.parseExpr(0))
			children = append(children, newInner(p.arena, KindNamed, sub))
		} else {
			children = append(children, p.parseExpr(0))
			allNamed = false
		}
		count++
		p.skipTrivia(&children)
		if p.peekKind() == KindComma {
			children = append(children, p.next())
		}
	}
	children = append(children, p.expect(KindRightParen, "')'"))
	switch {
	case count == 1 && !allNamed:
		return newInner(p.arena, KindParenthesized, children)
	case count > 0 && allNamed:
		return newInner(p.arena, KindDictLiteral, children)
	default:
		return newInner(p.arena, KindArrayLiteral, children)
	}
}

// parseContentBlock parses a `[...]` content block: switches back
// into markup mode for its body, exactly mirroring the way `#` dips
// into code mode from markup (spec.md §4.1).
func (p *Parser) parseContentBlock() *GreenNode {
	open := p.next()
	p.pushMode(ModeMarkup)
	body := p.parseMarkup(map[Kind]bool{KindRightBracket: true})
	p.popMode()
	close := p.expect(KindRightBracket, "']'")
	return newInner(p.arena, KindContentBlock, []*GreenNode{open, body, close})
}

func (p *Parser) parseCodeBlock() *GreenNode {
	open := p.next()
	children := []*GreenNode{open}
	for {
		p.skipTrivia(&children)
		if p.peekKind() == KindRightBrace || p.peekKind() == KindEOF {
			break
		}
		p.parseExprOrStmt(&children)
		p.skipTrivia(&children)
		if p.peekKind() == KindSemicolon {
			children = append(children, p.next())
		}
	}
	children = append(children, p.expect(KindRightBrace, "'}'"))
	return newInner(p.arena, KindCodeBlock, children)
}
