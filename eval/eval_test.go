package eval

import (
	"strings"
	"testing"

	"github.com/quill-lang/quill/content"
	"github.com/quill-lang/quill/diag"
	"github.com/quill-lang/quill/introspect"
	"github.com/quill-lang/quill/syntax"
	"github.com/quill-lang/quill/syntax/ast"
	"github.com/quill-lang/quill/value"
)

func evalSource(t *testing.T, src string) (value.Value, *Evaluator) {
	t.Helper()
	tree, errs := syntax.Parse(src)
	if len(errs) != 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	ev := New(content.StdRegistry(), &diag.Sink{}, diag.FileID("test.typ"))
	scope := ev.Global()
	root := ast.Cast(tree.Root()).(ast.Markup)
	v, err := ev.EvalMarkup(scope, root)
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}
	return v, ev
}

func TestEvalLetBindingThenReference(t *testing.T) {
	v, _ := evalSource(t, "#let x = 1 + 2\n#x")
	c, ok := v.(*content.Content)
	if !ok {
		t.Fatalf("expected content, got %T", v)
	}
	var found value.Value
	for _, ch := range c.Children() {
		if ch.ElementKind() == "text" {
			found, _ = ch.Field("body")
		}
	}
	if found == nil {
		t.Fatal("expected a text node referencing x")
	}
}

func TestEvalHeadingLevel(t *testing.T) {
	v, _ := evalSource(t, "= Title")
	c := firstChild(t, v)
	if c.ElementKind() != "heading" {
		t.Fatalf("expected heading, got %s", c.ElementKind())
	}
	lvl, ok := c.Field("level")
	if !ok || lvl.(value.Int) != 1 {
		t.Fatalf("expected level 1, got %v", lvl)
	}
}

func TestEvalStrongWrapsBody(t *testing.T) {
	v, _ := evalSource(t, "*bold*")
	c := firstChild(t, v)
	if c.ElementKind() != "strong" {
		t.Fatalf("expected strong, got %s", c.ElementKind())
	}
}

func TestEvalIfTrueBranch(t *testing.T) {
	v, _ := evalSource(t, "#if true [yes] else [no]")
	c, ok := v.(*content.Content)
	if !ok {
		t.Fatalf("expected content, got %T", v)
	}
	if !containsText(c, "yes") {
		t.Fatalf("expected the then-branch body, got %s", c.Repr())
	}
}

func TestEvalForLoopAccumulatesBodies(t *testing.T) {
	v, _ := evalSource(t, "#for i in (1, 2, 3) [x]")
	c, ok := v.(*content.Content)
	if !ok {
		t.Fatalf("expected content, got %T", v)
	}
	count := 0
	for _, ch := range c.Children() {
		if containsText(ch, "x") {
			count++
		}
	}
	if count != 3 {
		t.Fatalf("expected 3 iterations, got %d (%s)", count, c.Repr())
	}
}

func TestEvalBreakStopsWhileLoop(t *testing.T) {
	v, _ := evalSource(t, "#let n = 0\n#while n < 10 {\n  set n = n + 1\n  if n == 2 { break }\n}")
	_ = v // the loop must terminate rather than hang; reaching here is the assertion
}

// TestEvalQueryBuiltinReadsPrevIntrospector checks that `query(...)` in
// code mode resolves against the previous pass's introspector and comes
// back empty before any pass has run, the same one-pass-behind shape
// counter(...).final() has.
func TestEvalQueryBuiltinReadsPrevIntrospector(t *testing.T) {
	tree, errs := syntax.Parse("#len(query(\"heading\"))")
	if len(errs) != 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	ev := New(content.StdRegistry(), &diag.Sink{}, diag.FileID("test.typ"))
	root := ast.Cast(tree.Root()).(ast.Markup)

	// Pass 1: no introspector yet, query yields an empty array.
	v, err := ev.EvalMarkup(ev.Global(), root)
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}
	if !containsText(v.(*content.Content), "0") {
		t.Fatalf("expected 0 matches on pass 1, got %s", v.Repr())
	}

	// Pass 2: one heading indexed in prev.
	h := content.New(content.StdRegistry().Lookup("heading"), map[string]value.Value{
		"body":  content.Sequence(),
		"level": value.Int(1),
	})
	loc := content.Location{OriginHash: 7}
	h = h.WithLocation(loc)
	ev.Prev = introspect.Build([]introspect.Entry{
		{Content: h, Location: loc, Position: introspect.Position{Page: 1}},
	}, nil)
	v2, err := ev.EvalMarkup(ev.Global(), root)
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}
	if !containsText(v2.(*content.Content), "1") {
		t.Fatalf("expected 1 match on pass 2, got %s", v2.Repr())
	}
}

func TestEvalTupleDestructuring(t *testing.T) {
	v, _ := evalSource(t, "#let (a, b) = (1, 2)\n#b")
	c, ok := v.(*content.Content)
	if !ok {
		t.Fatalf("expected content, got %T", v)
	}
	if !containsText(c, "2") {
		t.Fatalf("expected b to bind the second element, got %s", c.Repr())
	}
}

func TestEvalSinkCollectsResidue(t *testing.T) {
	v, _ := evalSource(t, "#let (first, ..rest) = (1, 2, 3)\n#len(rest)")
	c := v.(*content.Content)
	if !containsText(c, "2") {
		t.Fatalf("expected the sink to collect 2 residual elements, got %s", c.Repr())
	}
}

func TestEvalDictDestructuring(t *testing.T) {
	v, _ := evalSource(t, "#let (x: a) = (x: 7, y: 8)\n#a")
	c := v.(*content.Content)
	if !containsText(c, "7") {
		t.Fatalf("expected a to bind the x entry, got %s", c.Repr())
	}
}

func TestShowRuleRewritesMatchingElement(t *testing.T) {
	v, _ := evalSource(t, "#show heading: [REPLACED]\n= Title")
	c, ok := v.(*content.Content)
	if !ok {
		t.Fatalf("expected content, got %T", v)
	}
	if !containsText(c, "REPLACED") {
		t.Fatalf("expected the show rule's replacement text, got %s", c.Repr())
	}
	for _, ch := range c.Children() {
		if ch.ElementKind() == "heading" {
			t.Fatal("heading should have been rewritten by the show rule")
		}
	}
}

func TestShowRuleAppliesOnlyOnce(t *testing.T) {
	// Two headings under one show rule: each is rewritten exactly once,
	// so the replacement text appears once per heading.
	v, _ := evalSource(t, "#show heading: [done]\n= A\n\n= B")
	c := v.(*content.Content)
	count := 0
	for _, ch := range c.Children() {
		if containsText(ch, "done") {
			count++
		}
	}
	if count != 2 {
		t.Fatalf("expected both headings rewritten exactly once, got %d", count)
	}
}

func TestEvalFigureConstructor(t *testing.T) {
	v, _ := evalSource(t, "#figure([chart], caption: [Results])")
	c := firstChild(t, v)
	if c.ElementKind() != "figure" {
		t.Fatalf("expected a figure, got %s", c.ElementKind())
	}
	capVal, ok := c.Field("caption")
	if !ok {
		t.Fatal("expected the caption field to be set")
	}
	if capContent, ok := capVal.(*content.Content); !ok || !containsText(capContent, "Results") {
		t.Fatalf("expected caption content, got %v", capVal)
	}
}

func TestEvalOutlineConstructor(t *testing.T) {
	v, _ := evalSource(t, "#outline()")
	c := firstChild(t, v)
	if c.ElementKind() != "outline" {
		t.Fatalf("expected an outline, got %s", c.ElementKind())
	}
}

func TestEvalCalcAbs(t *testing.T) {
	v, _ := evalSource(t, "#calc.abs(-3)")
	c := firstChild(t, v)
	if c.ElementKind() != "text" {
		t.Fatalf("expected a text node, got %s", c.ElementKind())
	}
}

func firstChild(t *testing.T, v value.Value) *content.Content {
	t.Helper()
	c, ok := v.(*content.Content)
	if !ok {
		t.Fatalf("expected content, got %T", v)
	}
	if c.ElementKind() != "sequence" {
		return c
	}
	if len(c.Children()) == 0 {
		t.Fatal("expected at least one child")
	}
	return c.Children()[0]
}

func containsText(c *content.Content, substr string) bool {
	if c.ElementKind() == "text" {
		if body, ok := c.Field("body"); ok {
			if s, ok := body.(value.String); ok {
				return strings.Contains(string(s), substr)
			}
		}
	}
	for _, ch := range c.Children() {
		if containsText(ch, substr) {
			return true
		}
	}
	return false
}
