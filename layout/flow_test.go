package layout

import (
	"testing"

	"github.com/quill-lang/quill/content"
	"github.com/quill-lang/quill/introspect"
	"github.com/quill-lang/quill/value"
)

func textNode(t *testing.T, s string) *content.Content {
	t.Helper()
	schema := content.StdRegistry().Lookup("text")
	return content.New(schema, map[string]value.Value{"body": value.String(s)})
}

func parNode(t *testing.T, body *content.Content) *content.Content {
	t.Helper()
	schema := content.StdRegistry().Lookup("par")
	return content.New(schema, map[string]value.Value{"body": body})
}

func TestLayoutParWrapsLongLines(t *testing.T) {
	body := content.Sequence(textNode(t, "a short paragraph that should wrap across more than one line"))
	par := parNode(t, body)

	fl := NewFlow(nil)
	frame, err := fl.LayoutPar(par, nil, Region{Size: Size{W: 60}})
	if err != nil {
		t.Fatalf("LayoutPar: %v", err)
	}
	if frame.Size.H <= 0 {
		t.Fatal("expected nonzero frame height")
	}
	if len(frame.Items) == 0 {
		t.Fatal("expected at least one glyph run placed")
	}
}

func TestLayoutHeadingAppliesNumbering(t *testing.T) {
	schema := content.StdRegistry().Lookup("heading")
	body := content.Sequence(textNode(t, "Intro"))
	h := content.New(schema, map[string]value.Value{
		"body":      body,
		"level":     value.Int(1),
		"numbering": value.String("1."),
	})

	fl := NewFlow(nil)
	frame, loc, err := fl.LayoutHeading(h, nil, Region{Size: Size{W: 400}}, 3)
	if err != nil {
		t.Fatalf("LayoutHeading: %v", err)
	}
	if len(frame.Items) == 0 {
		t.Fatal("expected placed items")
	}
	found := false
	for _, it := range frame.Items {
		if it.Kind == ItemTag && it.Tag.Location == loc {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a tag item at the heading's assigned location")
	}
}

func spaceNode(t *testing.T) *content.Content {
	t.Helper()
	return content.New(content.StdRegistry().Lookup("space"), nil)
}

func TestGroupBlocksWrapsLooseInline(t *testing.T) {
	kids := []*content.Content{textNode(t, "hello"), spaceNode(t), textNode(t, "world")}
	got := groupBlocks(kids)
	if len(got) != 1 || got[0].ElementKind() != "par" {
		t.Fatalf("expected one implicit paragraph, got %d blocks", len(got))
	}
}

func TestGroupBlocksSplitsAtParbreak(t *testing.T) {
	parbreak := content.New(content.StdRegistry().Lookup("parbreak"), nil)
	heading := content.New(content.StdRegistry().Lookup("heading"), map[string]value.Value{
		"body":  content.Sequence(textNode(t, "T")),
		"level": value.Int(1),
	})
	kids := []*content.Content{textNode(t, "a"), parbreak, textNode(t, "b"), heading}
	got := groupBlocks(kids)
	if len(got) != 3 {
		t.Fatalf("expected par, par, heading — got %d blocks", len(got))
	}
	if got[0].ElementKind() != "par" || got[1].ElementKind() != "par" || got[2].ElementKind() != "heading" {
		t.Fatalf("unexpected block kinds: %s, %s, %s",
			got[0].ElementKind(), got[1].ElementKind(), got[2].ElementKind())
	}
}

func TestLayoutOutlineListsHeadings(t *testing.T) {
	heading := content.New(content.StdRegistry().Lookup("heading"), map[string]value.Value{
		"body":  content.Sequence(textNode(t, "Intro")),
		"level": value.Int(1),
	})
	loc := content.Location{OriginHash: 11}
	heading = heading.WithLocation(loc).WithSynthesized("number", value.Int(1))

	fl := NewFlow(nil)
	fl.Prev = introspect.Build([]introspect.Entry{
		{Content: heading, Location: loc, Position: introspect.Position{Page: 1}},
	}, nil)

	outline := content.New(content.StdRegistry().Lookup("outline"), nil)
	frame, err := fl.LayoutOutline(outline, nil, Region{Size: Size{W: 300}})
	if err != nil {
		t.Fatalf("LayoutOutline: %v", err)
	}
	runs := 0
	for _, it := range frame.Items {
		if it.Kind == ItemGlyphRun {
			runs++
		}
	}
	if runs < 2 {
		t.Fatalf("expected a title run plus one entry run, got %d", runs)
	}
}

func TestFootnoteReservesTailSpace(t *testing.T) {
	fl := NewFlow(nil)
	fn := content.New(content.StdRegistry().Lookup("footnote"), map[string]value.Value{
		"body": content.Sequence(textNode(t, "a note")),
	})
	marker, err := fl.LayoutFootnoteMarker(fn, nil)
	if err != nil {
		t.Fatalf("LayoutFootnoteMarker: %v", err)
	}
	if marker.Size.W <= 0 {
		t.Fatal("expected a visible superscript marker")
	}

	body := NewFrame(Size{W: 200, H: 50})
	out := fl.CommitRegion(body, nil, Region{Size: Size{W: 200, H: 400}})
	if out.Size.H <= 50 {
		t.Fatalf("expected the committed region to include footnote tail space, got height %v", out.Size.H)
	}
}

func TestResolveRefsSubstitutesTargetNumber(t *testing.T) {
	heading := content.New(content.StdRegistry().Lookup("heading"), map[string]value.Value{
		"body":  content.Sequence(textNode(t, "Intro")),
		"level": value.Int(1),
	})
	loc := content.Location{OriginHash: 3}
	heading = heading.WithLabel("i").WithLocation(loc).WithSynthesized("number", value.Int(1))

	fl := NewFlow(nil)
	fl.Prev = introspect.Build([]introspect.Entry{
		{Content: heading, Location: loc, Position: introspect.Position{Page: 1}},
	}, nil)

	ref := content.New(content.StdRegistry().Lookup("ref"), map[string]value.Value{
		"target": value.String("i"),
	})
	body := content.Sequence(ref, spaceNode(t), textNode(t, "shows stuff."))
	resolved := fl.resolveRefs(body)
	text := flattenText(resolved)
	if text != "1 shows stuff." {
		t.Fatalf("expected the reference to render its target's number, got %q", text)
	}
}

func TestLocatorDisambiguatesRepeatedOrigins(t *testing.T) {
	loc := introspect.NewLocator()
	loc1 := loc.Locate(42)
	loc2 := loc.Locate(42)
	if loc1 == loc2 {
		t.Fatal("expected distinct disambiguation counts for repeated origins within one locator")
	}
}
