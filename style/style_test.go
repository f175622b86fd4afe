package style

import (
	"testing"

	"github.com/quill-lang/quill/value"
)

func TestLookupInnermostWins(t *testing.T) {
	outer := Root.Push(NewMap().SetProperty("heading", "level", value.Int(1), Span{}))
	inner := outer.Push(NewMap().SetProperty("heading", "level", value.Int(3), Span{}))

	v, ok := inner.Lookup("heading", "level")
	if !ok || !v.Equal(value.Int(3)) {
		t.Fatalf("expected innermost value 3, got %v ok=%v", v, ok)
	}
}

func TestLookupMissingFieldIsNotOK(t *testing.T) {
	chain := Root.Push(NewMap().SetProperty("heading", "level", value.Int(1), Span{}))
	_, ok := chain.Lookup("heading", "numbering")
	if ok {
		t.Fatal("expected no match for unset field")
	}
}

func TestLookupFoldAccumulatesAcrossFrames(t *testing.T) {
	outer := Root.Push(NewMap().SetProperty("block", "above", value.Length{Abs: 5}, Span{}))
	inner := outer.Push(NewMap().SetProperty("block", "above", value.Length{Abs: 20}, Span{}))

	fold := func(outer, inner value.Value) value.Value {
		ol := outer.(value.Length)
		il := inner.(value.Length)
		if ol.Abs > il.Abs {
			return ol
		}
		return il
	}
	v, ok := inner.LookupFold("block", "above", fold)
	if !ok || v.(value.Length).Abs != 20 {
		t.Fatalf("expected folded max of 20, got %v", v)
	}
}

func TestPushNeverMutatesParent(t *testing.T) {
	base := Root.Push(NewMap().SetProperty("text", "size", value.Length{Abs: 10}, Span{}))
	_ = base.Push(NewMap().SetProperty("text", "size", value.Length{Abs: 30}, Span{}))

	v, ok := base.Lookup("text", "size")
	if !ok || v.(value.Length).Abs != 10 {
		t.Fatal("pushing a child chain must not affect the parent's own lookups")
	}
}

func TestRecipesOrderedInnermostFirst(t *testing.T) {
	outer := Root.Push(NewMap().AddRecipe(nil, value.String("outerTransform"), Span{}))
	inner := outer.Push(NewMap().AddRecipe(nil, value.String("innerTransform"), Span{}))
	recipes := inner.Recipes()
	if len(recipes) != 2 || recipes[0].Transform.(value.String) != "innerTransform" {
		t.Fatalf("expected innermost recipe first, got %v", recipes)
	}
}
