// Package world wires the compiler core together: spec.md §6's
// external interfaces (FileProvider, PackageProvider, FontService,
// render sinks) as Go interfaces, and the Compile/Query entry points
// that run syntax → eval → layout → introspect across A-M exactly as
// spec.md §2's control-flow paragraph describes.
package world

import (
	"github.com/quill-lang/quill/content"
	"github.com/quill-lang/quill/diag"
	"github.com/quill-lang/quill/eval"
	"github.com/quill-lang/quill/introspect"
	"github.com/quill-lang/quill/layout"
	"github.com/quill-lang/quill/mathlayout"
	"github.com/quill-lang/quill/pkgmanager"
	"github.com/quill-lang/quill/syntax"
	"github.com/quill-lang/quill/syntax/ast"
)

// FileProvider is spec.md §6's "File provider (consumed by
// evaluator)": `read`/`resolve`.
type FileProvider interface {
	Read(file diag.FileID) ([]byte, error)
	Resolve(current diag.FileID, relativePath string) (diag.FileID, error)
}

// PackageProvider is spec.md §6's "Package provider (consumed by
// evaluator)": `obtain`/`latest_version`, backed in practice by
// pkgmanager.SystemPackages.
type PackageProvider interface {
	Obtain(spec pkgmanager.Spec) (root string, err error)
	LatestVersion(spec pkgmanager.VersionlessSpec) (pkgmanager.Version, error)
}

// ShapedRun is the font service's shaping result: spec.md §6
// "ShapedRun{ glyphs[], per-glyph advance/offset, bounds }".
type ShapedRun struct {
	Glyphs  []ShapedGlyph
	Bounds  layout.Size
}

// ShapedGlyph is one glyph in a ShapedRun.
type ShapedGlyph struct {
	GlyphID        uint32
	AdvanceX       float64
	OffsetX, OffsetY float64
}

// Metrics is the font service's per-size metric bundle: spec.md §6
// "{ ascent, descent, x_height, cap_height, strikethrough{pos,
// thickness}, underline{...} }".
type Metrics struct {
	Ascent, Descent   float64
	XHeight, CapHeight float64
	StrikePos, StrikeThickness float64
	UnderlinePos, UnderlineThickness float64
}

// FontService is spec.md §6's "Font service (consumed by layout)".
type FontService interface {
	Shape(text string, sizePt float64, features []string, rtl bool) ShapedRun
	Metrics(font string, sizePt float64) Metrics
}

// PDFRenderer/HTMLRenderer are spec.md §6's "Renderer sinks (consumers
// of finished page list)": `render_pdf`/`render_html`. Both are out of
// this module's scope to implement (spec.md's Non-goals exclude
// byte-exact reference-renderer reproduction) but are named here as
// the seam a real renderer plugs into.
type PDFRenderer interface {
	RenderPDF(doc *layout.Document, options map[string]string) ([]byte, error)
}

type HTMLRenderer interface {
	RenderHTML(doc *layout.Document, options map[string]string) (string, error)
}

// World bundles the providers spec.md §6 says the core consumes,
// exactly as "a World bundles the providers above" describes. Fonts
// and renderers are optional: a World with FontService == nil falls
// back to layout's built-in MetricShaper, and a World never needing to
// render doesn't need either renderer.
type World struct {
	Files    FileProvider
	Packages PackageProvider
	Fonts    FontService
	PDF      PDFRenderer
	HTML     HTMLRenderer
}

// Options configures one Compile call. PassCap overrides
// layout.DefaultPassCap — the Open Question decision recorded in
// DESIGN.md for spec.md §9's "CAP is a small constant" knob.
type Options struct {
	PassCap int
}

// Compile runs a full source root through the pipeline: parse,
// evaluate (possibly several times, per the fixed-point driver),
// lay out, and return the finished document plus any diagnostics,
// matching spec.md §6's `compile(source_root, world) → (Document,
// diagnostics)`.
func Compile(source string, file diag.FileID, w World, opts Options) (*layout.Document, []*diag.Error) {
	tree, parseErrs := syntax.Parse(source)
	defer tree.Release()
	if len(parseErrs) > 0 {
		errs := make([]*diag.Error, len(parseErrs))
		for i, msg := range parseErrs {
			errs[i] = diag.New(diag.KindParseError, diag.Span{File: file}, msg)
		}
		return nil, errs
	}

	root, ok := ast.Cast(tree.Root()).(ast.Markup)
	if !ok {
		return nil, []*diag.Error{diag.New(diag.KindParseError, diag.Span{File: file}, "source did not parse to a markup root")}
	}

	registry := content.StdRegistry()

	driver := layout.NewDriver()
	if opts.PassCap > 0 {
		driver.PassCap = opts.PassCap
	}

	// prev (the previous pass's introspector) is threaded straight onto
	// the Evaluator (spec.md §4.9's `content ← evaluator(ast,
	// env.with(prev_introspector))`): nil on the first pass, so
	// counter(...).get()/.final() read 0 until a pass has actually run,
	// the same "??" on pass 1 behavior LayoutRef already has for label
	// references.
	evalFn := func(prev *introspect.Introspector) (*content.Content, []*diag.Error) {
		sink := &diag.Sink{}
		ev := eval.New(registry, sink, file)
		ev.Prev = prev
		scope := ev.Global()
		v, err := ev.EvalMarkup(scope, root)
		if err != nil {
			return nil, []*diag.Error{diag.New(diag.KindDomainError, diag.Span{File: file}, err.Error())}
		}
		if len(sink.Errors()) > 0 {
			return nil, sink.Errors()
		}
		c, ok := v.(*content.Content)
		if !ok {
			return content.Empty(), nil
		}
		return c, nil
	}

	layFn := func(body *content.Content, prev *introspect.Introspector) ([]layout.Page, []*diag.Error) {
		fl := layout.NewFlow(shaperFrom(w.Fonts))
		fl.Locator = introspect.NewLocator()
		fl.Prev = prev
		pageSize := layout.Size{W: defaultPageWidthPt, H: defaultPageHeightPt}

		if body.ElementKind() == "equation" {
			frame := mathlayout.LayoutEquation(body, nil)
			return []layout.Page{{Number: 1, Frame: frame}}, nil
		}

		frames, err := fl.LayoutPages(body, nil, pageSize)
		if err != nil {
			return nil, []*diag.Error{diag.New(diag.KindLayoutError, diag.Span{File: file}, err.Error())}
		}
		pages := make([]layout.Page, len(frames))
		for i, f := range frames {
			pages[i] = layout.Page{Number: i + 1, Frame: f, Numbering: fl.PageNumbering}
		}
		return pages, nil
	}

	return driver.Run(evalFn, layFn)
}

// CompileErr is Compile for callers that want a single error value
// instead of a diagnostic slice, folding the result through
// layout.JoinErrors (DOMAIN STACK: go.uber.org/multierr) the same way
// diag.Sink.Join folds per-evaluation errors.
func CompileErr(source string, file diag.FileID, w World, opts Options) (*layout.Document, error) {
	doc, errs := Compile(source, file, w, opts)
	return doc, layout.JoinErrors(errs)
}

// Query is spec.md §6's `query(document, selector) → list<content>`
// for external consumers once a Document exists.
func Query(doc *layout.Document, sel introspect.Selector) []*content.Content {
	if doc == nil || doc.Introspect == nil {
		return nil
	}
	return doc.Introspect.Query(sel)
}

const (
	defaultPageWidthPt  = 595.28 // A4 width at 72dpi points
	defaultPageHeightPt = 841.89
)
