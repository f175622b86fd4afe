package content

import (
	"bytes"
	"testing"

	"github.com/quill-lang/quill/value"
)

func TestNewRequiresRequiredFields(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for missing required field")
		}
	}()
	New(refSchema, map[string]value.Value{})
}

func TestWithRejectsInherentField(t *testing.T) {
	c := New(textSchema, map[string]value.Value{"body": value.String("hi")})
	_, err := c.With("body", value.String("bye"))
	if err == nil {
		t.Fatal("expected error setting an inherent field")
	}
}

func TestWithIsCopyOnWrite(t *testing.T) {
	c := New(textSchema, map[string]value.Value{"body": value.String("hi")})
	c2, err := c.With("size", value.Length{Abs: 20})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Field("size"); ok {
		t.Fatal("original should not have size set")
	}
	if v, ok := c2.Field("size"); !ok || !v.Equal(value.Length{Abs: 20}) {
		t.Fatal("copy should have size set")
	}
}

func TestGetFallsBackToSchemaDefault(t *testing.T) {
	c := New(headingSchema, map[string]value.Value{"body": value.String("Title")})
	got := c.Get("level", nil)
	if !got.Equal(value.Int(1)) {
		t.Fatalf("expected default level 1, got %v", got)
	}
}

type fakeChain map[string]value.Value

func (f fakeChain) Lookup(kind, field string) (value.Value, bool) {
	v, ok := f[kind+"."+field]
	return v, ok
}

func TestGetFoldsWithChainValue(t *testing.T) {
	c := New(blockSchema, map[string]value.Value{
		"body":  value.String("x"),
		"above": value.Length{Abs: 5},
	})
	chain := fakeChain{"block.above": value.Length{Abs: 20}}
	got := c.Get("above", chain)
	l, ok := got.(value.Length)
	if !ok || l.Abs != 20 {
		t.Fatalf("expected fold to pick the larger length, got %v", got)
	}
}

func TestEqualityIgnoresSynthesizedFields(t *testing.T) {
	a := New(headingSchema, map[string]value.Value{"body": value.String("A")})
	b := a.WithSynthesized("number", value.Int(3))
	if !a.Equal(b) {
		t.Fatal("synthesized fields must not affect equality")
	}
}

func TestSettersPreserveLabelAndLocation(t *testing.T) {
	c := New(headingSchema, map[string]value.Value{"body": value.String("A")})
	c = c.WithLabel("intro").WithLocation(Location{OriginHash: 7})
	c = c.WithSynthesized("number", value.Int(2))
	if lbl, ok := c.Label(); !ok || lbl != "intro" {
		t.Fatalf("label lost across WithSynthesized: %q (ok=%v)", lbl, ok)
	}
	if loc, ok := c.Loc(); !ok || loc.OriginHash != 7 {
		t.Fatalf("location lost across WithSynthesized: %+v (ok=%v)", loc, ok)
	}
}

func TestGuardsAppliedOnce(t *testing.T) {
	c := New(headingSchema, map[string]value.Value{"body": value.String("A")})
	g := Guard{File: "main.typ", Start: 0, End: 10}
	if c.Guarded(g) {
		t.Fatal("fresh content should carry no guards")
	}
	c2 := c.WithGuard(g)
	if !c2.Guarded(g) {
		t.Fatal("guard not recorded")
	}
	if c.Guarded(g) {
		t.Fatal("guard leaked into the original via aliasing")
	}
}

func TestSchemaJSONListsEveryKind(t *testing.T) {
	reg := StdRegistry()
	data, err := reg.SchemaJSON()
	if err != nil {
		t.Fatalf("SchemaJSON: %v", err)
	}
	for _, kind := range reg.Kinds() {
		if !bytes.Contains(data, []byte(`"kind": "`+kind+`"`)) {
			t.Fatalf("schema output missing kind %s", kind)
		}
	}
}

func TestHashPreservesEqualityAndIgnoresSynthesized(t *testing.T) {
	a := New(headingSchema, map[string]value.Value{"body": value.String("A"), "level": value.Int(2)})
	b := New(headingSchema, map[string]value.Value{"body": value.String("A"), "level": value.Int(2)})
	if a.Hash() != b.Hash() {
		t.Fatal("equal contents must hash alike")
	}
	if a.Hash() != b.WithSynthesized("number", value.Int(9)).Hash() {
		t.Fatal("synthesized fields must not affect the hash")
	}
	c := New(headingSchema, map[string]value.Value{"body": value.String("B"), "level": value.Int(2)})
	if a.Hash() == c.Hash() {
		t.Fatal("differing bodies should hash differently")
	}
}

func TestSequenceFlattensNestedSequences(t *testing.T) {
	a := New(textSchema, map[string]value.Value{"body": value.String("a")})
	b := New(textSchema, map[string]value.Value{"body": value.String("b")})
	inner := Sequence(a, b)
	c := New(textSchema, map[string]value.Value{"body": value.String("c")})
	outer := Sequence(inner, c)
	if len(outer.Children()) != 3 {
		t.Fatalf("expected flattened sequence of 3, got %d", len(outer.Children()))
	}
}
