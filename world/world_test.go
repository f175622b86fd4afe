package world

import (
	"strings"
	"testing"

	"github.com/quill-lang/quill/diag"
	"github.com/quill-lang/quill/introspect"
	"github.com/quill-lang/quill/layout"
	"github.com/quill-lang/quill/value"
)

func TestCompileSimpleParagraph(t *testing.T) {
	doc, errs := Compile("hello world", diag.FileID("test.typ"), World{}, Options{})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if doc == nil {
		t.Fatal("expected a document")
	}
	if len(doc.Pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(doc.Pages))
	}
}

func TestCompileHeadingIsQueryable(t *testing.T) {
	doc, errs := Compile("= Introduction\n\nBody text.", diag.FileID("test.typ"), World{}, Options{})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if doc == nil || doc.Introspect == nil {
		t.Fatal("expected a document with an introspector")
	}
}

func TestCompileErrFoldsDiagnosticsIntoOneError(t *testing.T) {
	doc, err := CompileErr("hello world", diag.FileID("test.typ"), World{}, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc == nil {
		t.Fatal("expected a document")
	}
}

// TestCompileHeadingLabelResolvesAcrossPasses exercises spec.md §8 end-
// to-end scenario 1: a heading carries a trailing label, and the
// introspector built from the converged pass answers a Label query
// with that same heading, synthesized number 1 (the first and only
// heading in document order).
func TestCompileHeadingLabelResolvesAcrossPasses(t *testing.T) {
	doc, errs := Compile("= Intro <i>\n\nBody text.", diag.FileID("test.typ"), World{}, Options{})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	matches := Query(doc, introspect.Label("i"))
	if len(matches) != 1 {
		t.Fatalf("expected exactly one match for label i, got %d", len(matches))
	}
	heading := matches[0]
	if heading.ElementKind() != "heading" {
		t.Fatalf("expected the label to resolve to the heading, got %s", heading.ElementKind())
	}
	num, ok := heading.Field("number")
	if !ok || num.(value.Int) != 1 {
		t.Fatalf("expected the heading's synthesized number to be 1, got %v (ok=%v)", num, ok)
	}
}

func collectGlyphTexts(f *layout.Frame) []string {
	var out []string
	for _, it := range f.Items {
		switch it.Kind {
		case layout.ItemGlyphRun:
			out = append(out, it.Glyph.Text)
		case layout.ItemSubframe:
			out = append(out, collectGlyphTexts(it.Sub)...)
		}
	}
	return out
}

func TestCompileParagraphProducesGlyphs(t *testing.T) {
	doc, errs := Compile("hello world", diag.FileID("test.typ"), World{}, Options{})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	texts := collectGlyphTexts(doc.Pages[0].Frame)
	joined := strings.Join(texts, " ")
	if !strings.Contains(joined, "hello") || !strings.Contains(joined, "world") {
		t.Fatalf("expected the paragraph's words on the page, got %v", texts)
	}
}

// TestCompileReferenceRendersHeadingNumber is spec scenario 1 end to
// end: `@i` in a paragraph resolves to the labeled heading and renders
// its number.
func TestCompileReferenceRendersHeadingNumber(t *testing.T) {
	doc, errs := Compile("= Intro <i>\n\n@i shows stuff.", diag.FileID("test.typ"), World{}, Options{})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	texts := collectGlyphTexts(doc.Pages[0].Frame)
	foundNumber := false
	for _, s := range texts {
		if s == "1" {
			foundNumber = true
		}
	}
	if !foundNumber {
		t.Fatalf("expected the resolved reference to render \"1\", got %v", texts)
	}
}

// TestCompileFooterStabilizes is spec scenario 2's shape: the automatic
// "page N of Y" footer reads Y from the previous pass, so the converged
// document's footer must show the real total, not the pass-1 "??".
func TestCompileFooterStabilizes(t *testing.T) {
	doc, errs := Compile("hello world", diag.FileID("test.typ"), World{}, Options{})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	texts := collectGlyphTexts(doc.Pages[0].Frame)
	found := false
	for _, s := range texts {
		if s == "page 1 of 1" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a stabilized footer, got %v", texts)
	}
}

func TestCompileReportsParseErrorsWithoutPanicking(t *testing.T) {
	// Even malformed input must not panic; the parser is error-tolerant
	// per spec.md §4.2, so this mostly checks Compile doesn't choke on
	// whatever comes back.
	doc, errs := Compile("#let", diag.FileID("test.typ"), World{}, Options{})
	_ = doc
	_ = errs
}
