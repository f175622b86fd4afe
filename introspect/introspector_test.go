package introspect

import (
	"testing"

	"github.com/quill-lang/quill/content"
	"github.com/quill-lang/quill/value"
)

var headingSchema = &content.ElementSchema{
	Kind: "heading",
	Fields: []content.FieldSchema{
		{Name: "body", Role: content.RoleInherent},
	},
}

func mustContent(t *testing.T, loc content.Location, label string, body string) *content.Content {
	t.Helper()
	c := content.New(headingSchema, map[string]value.Value{"body": value.String(body)})
	c = c.WithLocation(loc)
	if label != "" {
		c = c.WithLabel(label)
	}
	return c
}

func locN(n uint32) content.Location { return content.Location{OriginHash: 1, Disambig: n} }

func buildThree(t *testing.T) *Introspector {
	t.Helper()
	entries := []Entry{
		{Content: mustContent(t, locN(0), "i", "Intro"), Location: locN(0), Position: Position{Page: 1}, Order: 0},
		{Content: mustContent(t, locN(1), "", "Body"), Location: locN(1), Position: Position{Page: 1}, Order: 1},
		{Content: mustContent(t, locN(2), "conclusion", "Conclusion"), Location: locN(2), Position: Position{Page: 2}, Order: 2},
	}
	return Build(entries, nil)
}

func TestQueryByLabel(t *testing.T) {
	in := buildThree(t)
	got := in.Query(Label("i"))
	if len(got) != 1 {
		t.Fatalf("expected 1 result, got %d", len(got))
	}
	body, _ := got[0].Field("body")
	if body.(value.String) != "Intro" {
		t.Errorf("expected Intro, got %v", body)
	}
}

func TestSelectorBeforeIsPrefixAndInclusive(t *testing.T) {
	in := buildThree(t)
	all := in.Query(Kind("heading"))
	if len(all) != 3 {
		t.Fatalf("expected 3 headings, got %d", len(all))
	}

	before := Before{Sel: Kind("heading"), End: Label("conclusion"), Inclusive: false}
	got := in.Query(before)
	if len(got) != 2 {
		t.Fatalf("exclusive before: expected 2, got %d", len(got))
	}

	beforeIncl := Before{Sel: Kind("heading"), End: Label("conclusion"), Inclusive: true}
	got2 := in.Query(beforeIncl)
	if len(got2) != 3 {
		t.Fatalf("inclusive before: expected 3, got %d", len(got2))
	}
}

func TestSelectorAfter(t *testing.T) {
	in := buildThree(t)
	after := After{Sel: Kind("heading"), Start: Label("i"), Inclusive: false}
	got := in.Query(after)
	if len(got) != 2 {
		t.Fatalf("expected 2 results after the intro, got %d", len(got))
	}
}

func TestAgreesWithDetectsDivergence(t *testing.T) {
	in1 := buildThree(t)
	in1.Query(Kind("heading"))

	in2 := Build(nil, nil)
	if in1.AgreesWith(in2) {
		t.Fatal("expected divergence: in2 has no entries")
	}

	in3 := buildThree(t)
	if !in1.AgreesWith(in3) {
		t.Fatal("expected agreement: identical entries")
	}
}

func TestPageNumberingAt(t *testing.T) {
	in := buildThree(t)
	in.SetPageNumbering(map[int]string{1: "1", 2: "i"})

	if pat, ok := in.PageNumberingAt(locN(0)); !ok || pat != "1" {
		t.Fatalf("page 1: expected pattern %q, got %q (ok=%v)", "1", pat, ok)
	}
	if pat, ok := in.PageNumberingAt(locN(2)); !ok || pat != "i" {
		t.Fatalf("page 2: expected pattern %q, got %q (ok=%v)", "i", pat, ok)
	}
	if _, ok := in.PageNumberingAt(content.Location{OriginHash: 99}); ok {
		t.Fatal("unknown location should report no numbering")
	}
}

func TestCanSelectorConsultsCapabilityTable(t *testing.T) {
	in := buildThree(t)
	if got := in.Query(Can("countable")); len(got) != 3 {
		t.Fatalf("headings are countable: expected 3, got %d", len(got))
	}
	if got := in.Query(Can("no-such-capability")); len(got) != 0 {
		t.Fatalf("unknown capability should match nothing, got %d", len(got))
	}
}

func TestAndOr(t *testing.T) {
	in := buildThree(t)
	and := And{Kind("heading"), Label("i")}
	if got := in.Query(and); len(got) != 1 {
		t.Fatalf("expected 1, got %d", len(got))
	}
	or := Or{Label("i"), Label("conclusion")}
	if got := in.Query(or); len(got) != 2 {
		t.Fatalf("expected 2, got %d", len(got))
	}
}
