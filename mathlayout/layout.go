package mathlayout

import (
	"github.com/quill-lang/quill/content"
	"github.com/quill-lang/quill/layout"
	"github.com/quill-lang/quill/style"
	"github.com/quill-lang/quill/value"
)

// defaultEmSizePt mirrors layout.defaultTextSizePt (11pt, converted
// from the CSS/typography convention of pt = 1/72in via the same
// mm→pt-ish constant the flow package uses), since mathlayout has no
// dependency on layout's unexported constant.
const defaultEmSizePt = 11 * 2.83465

// Context carries the ambient style size and script depth through a
// math layout walk, the Go analogue of ctx.rs's MathContext (font size
// + style stack) scoped to this package's needs.
type Context struct {
	EmSizePt float64
	Style    Style
}

// NewContext builds a root Context from a style chain, resolving the
// "size" property the same way text elements do (content/builtin.go's
// textSchema "size" field), defaulting to defaultEmSizePt.
func NewContext(chain *style.Chain) *Context {
	size := defaultEmSizePt
	if chain != nil {
		if v, ok := chain.Lookup("text", "size"); ok {
			if l, ok := v.(value.Length); ok {
				size = l.Resolve(defaultEmSizePt)
			}
		}
	}
	return &Context{EmSizePt: size, Style: StyleText}
}

// scripted returns a child context one script level smaller, used when
// recursing into attach's top/bottom and frac's num/denom.
func (c *Context) scripted() *Context {
	return &Context{EmSizePt: c.EmSizePt, Style: c.Style.Smaller()}
}

// fieldContent reads a field known to hold a nested content node (math
// function arguments are always stored this way, per eval/markup.go's
// convention of stashing a body as a single *content.Content field).
func fieldContent(c *content.Content, name string) *content.Content {
	v, ok := c.Field(name)
	if !ok {
		return nil
	}
	cc, _ := v.(*content.Content)
	return cc
}

func fieldString(c *content.Content, name string) (string, bool) {
	v, ok := c.Field(name)
	if !ok {
		return "", false
	}
	s, ok := v.(value.String)
	return string(s), ok
}

func fieldInt(c *content.Content, name string) (int, bool) {
	v, ok := c.Field(name)
	if !ok {
		return 0, false
	}
	n, ok := v.(value.Int)
	return int(n), ok
}

// classOf resolves a math.symbol's declared class, defaulting to Ord
// when the "class" field is auto (ctx.rs assigns a default class table
// per codepoint; this module accepts an explicit override and
// otherwise treats unknown symbols as ordinary).
func classOf(c *content.Content) Class {
	s, ok := fieldString(c, "class")
	if !ok {
		return ClassOrd
	}
	switch s {
	case "op":
		return ClassOp
	case "bin":
		return ClassBin
	case "rel":
		return ClassRel
	case "open":
		return ClassOpen
	case "close":
		return ClassClose
	case "punct":
		return ClassPunct
	case "inner":
		return ClassInner
	default:
		return ClassOrd
	}
}

// Layout walks one math content node, producing the fragment(s) it
// contributes to the enclosing row. Row/attach/frac/matrix nodes
// recurse and return a single FragFrame fragment wrapping their
// composed sub-frame; math.symbol returns a FragGlyph fragment
// directly so adjacent symbols still get class×class spacing from Row.
func (ctx *Context) Layout(c *content.Content) Fragment {
	switch c.ElementKind() {
	case "math.symbol":
		text, _ := fieldString(c, "text")
		return Glyph(text, classOf(c), ctx.EmSizePt*ctx.Style.Scale())

	case "math.frac":
		return ctx.layoutFrac(c)

	case "math.attach":
		return ctx.layoutAttach(c)

	case "math.root":
		return ctx.layoutRoot(c)

	case "math.mat":
		return ctx.layoutMat(c)

	case "math.vec":
		return ctx.layoutVec(c)

	case "sequence":
		return ctx.layoutRow(c.Children())

	case "text":
		s, _ := fieldString(c, "body")
		return Glyph(s, ClassOrd, ctx.EmSizePt*ctx.Style.Scale())

	default:
		// Unknown math content (e.g. plain text inside the equation)
		// renders as an ordinary-class glyph run of its Repr so layout
		// never stalls on a node this module doesn't model.
		return Glyph(c.Repr(), ClassOrd, ctx.EmSizePt*ctx.Style.Scale())
	}
}

// layoutRow composes a slice of child content nodes into one frame
// fragment, the common case for an equation body or any bracketed
// sub-expression.
func (ctx *Context) layoutRow(children []*content.Content) Fragment {
	frags := make([]Fragment, 0, len(children))
	for _, ch := range children {
		frags = append(frags, ctx.Layout(ch))
	}
	frame := Row(frags, ctx.Style, ctx.EmSizePt)
	return Fragment{Kind: FragFrame, Class: ClassOrd, Width: frame.Size.W, Height: frame.Baseline, Depth: frame.Size.H - frame.Baseline, Frame: frame}
}

// LayoutEquation is the package entry point world.Compile wires a
// math-mode equation content node through: it lays out the equation's
// body as a single row and returns the finished frame.
func LayoutEquation(eq *content.Content, chain *style.Chain) *layout.Frame {
	ctx := NewContext(chain)
	bodyContent := fieldContent(eq, "body")
	if bodyContent == nil {
		return layout.NewFrame(layout.Size{})
	}
	children := bodyContent.Children()
	if len(children) == 0 {
		children = []*content.Content{bodyContent}
	}
	frag := ctx.layoutRow(children)
	return frag.Frame
}

func (ctx *Context) layoutFrac(c *content.Content) Fragment {
	num := fieldContent(c, "num")
	denom := fieldContent(c, "denom")
	sub := ctx.scripted()

	var numFrame, denomFrame *layout.Frame
	if num != nil {
		numFrame = Row([]Fragment{sub.Layout(num)}, sub.Style, sub.EmSizePt)
	} else {
		numFrame = layout.NewFrame(layout.Size{})
	}
	if denom != nil {
		denomFrame = Row([]Fragment{sub.Layout(denom)}, sub.Style, sub.EmSizePt)
	} else {
		denomFrame = layout.NewFrame(layout.Size{})
	}

	width := numFrame.Size.W
	if denomFrame.Size.W > width {
		width = denomFrame.Size.W
	}
	ruleGap := ctx.EmSizePt * 0.1
	ruleThickness := ctx.EmSizePt * 0.05
	height := numFrame.Size.H + ruleGap*2 + ruleThickness + denomFrame.Size.H

	frame := layout.NewFrame(layout.Size{W: width, H: height})
	frame.PushFrame(layout.Point{X: (width - numFrame.Size.W) / 2, Y: 0}, numFrame)
	frame.Push(layout.Point{X: 0, Y: numFrame.Size.H + ruleGap}, layout.Item{
		Kind:  layout.ItemShape,
		Shape: layout.Shape{Kind: "fracrule", Size: layout.Size{W: width, H: ruleThickness}},
	})
	frame.PushFrame(layout.Point{X: (width - denomFrame.Size.W) / 2, Y: numFrame.Size.H + ruleGap*2 + ruleThickness}, denomFrame)
	frame.Baseline = numFrame.Size.H + ruleGap + ruleThickness/2
	frame.HasBase = true

	return Fragment{Kind: FragFrame, Class: ClassOrd, Width: width, Height: frame.Baseline, Depth: height - frame.Baseline, Frame: frame}
}

func (ctx *Context) layoutAttach(c *content.Content) Fragment {
	base := fieldContent(c, "base")
	top := fieldContent(c, "top")
	bottom := fieldContent(c, "bottom")
	sub := ctx.scripted()

	var baseFrame *layout.Frame
	if base != nil {
		baseFrame = Row([]Fragment{ctx.Layout(base)}, ctx.Style, ctx.EmSizePt)
	} else {
		baseFrame = layout.NewFrame(layout.Size{})
	}

	var topFrame, bottomFrame *layout.Frame
	if top != nil {
		topFrame = Row([]Fragment{sub.Layout(top)}, sub.Style, sub.EmSizePt)
	}
	if bottom != nil {
		bottomFrame = Row([]Fragment{sub.Layout(bottom)}, sub.Style, sub.EmSizePt)
	}

	scriptGap := ctx.EmSizePt * 0.1
	width := baseFrame.Size.W
	scriptWidth := 0.0
	if topFrame != nil && topFrame.Size.W > scriptWidth {
		scriptWidth = topFrame.Size.W
	}
	if bottomFrame != nil && bottomFrame.Size.W > scriptWidth {
		scriptWidth = bottomFrame.Size.W
	}
	width += scriptWidth

	topH := 0.0
	if topFrame != nil {
		topH = topFrame.Size.H + scriptGap
	}
	bottomH := 0.0
	if bottomFrame != nil {
		bottomH = bottomFrame.Size.H + scriptGap
	}

	height := topH + baseFrame.Size.H + bottomH
	frame := layout.NewFrame(layout.Size{W: width, H: height})
	frame.PushFrame(layout.Point{X: 0, Y: topH}, baseFrame)
	if topFrame != nil {
		frame.PushFrame(layout.Point{X: baseFrame.Size.W, Y: 0}, topFrame)
	}
	if bottomFrame != nil {
		frame.PushFrame(layout.Point{X: baseFrame.Size.W, Y: topH + baseFrame.Size.H + scriptGap}, bottomFrame)
	}
	frame.Baseline = topH + baseFrame.Baseline
	frame.HasBase = true

	return Fragment{Kind: FragFrame, Class: ClassOrd, Width: width, Height: frame.Baseline, Depth: height - frame.Baseline, Frame: frame}
}

func (ctx *Context) layoutRoot(c *content.Content) Fragment {
	radicand := fieldContent(c, "radicand")
	var inner *layout.Frame
	if radicand != nil {
		inner = Row([]Fragment{ctx.Layout(radicand)}, ctx.Style, ctx.EmSizePt)
	} else {
		inner = layout.NewFrame(layout.Size{})
	}

	signWidth := ctx.EmSizePt * 0.5
	ruleThickness := ctx.EmSizePt * 0.05
	width := signWidth + inner.Size.W
	height := inner.Size.H + ruleThickness

	frame := layout.NewFrame(layout.Size{W: width, H: height})
	frame.Push(layout.Point{X: 0, Y: 0}, layout.Item{
		Kind:  layout.ItemGlyphRun,
		Glyph: layout.GlyphRun{Text: "√", Advance: signWidth},
	})
	frame.Push(layout.Point{X: signWidth, Y: 0}, layout.Item{
		Kind:  layout.ItemShape,
		Shape: layout.Shape{Kind: "rootrule", Size: layout.Size{W: inner.Size.W, H: ruleThickness}},
	})
	frame.PushFrame(layout.Point{X: signWidth, Y: ruleThickness}, inner)
	frame.Baseline = inner.Baseline + ruleThickness
	frame.HasBase = true

	return Fragment{Kind: FragFrame, Class: ClassOrd, Width: width, Height: frame.Baseline, Depth: height - frame.Baseline, Frame: frame}
}

func delimFromField(c *content.Content) Delimiter {
	s, ok := fieldString(c, "delim")
	if !ok {
		return ParenDelimiter
	}
	switch s {
	case "[":
		return BracketDelimiter
	case "{":
		return BraceDelimiter
	case "|":
		return BarDelimiter
	case "none":
		return NoDelimiter
	default:
		return ParenDelimiter
	}
}

func (ctx *Context) layoutMat(c *content.Content) Fragment {
	var rows [][]Cell
	for _, rowContent := range c.Children() {
		var row []Cell
		for _, cellContent := range rowContent.Children() {
			frag := ctx.Layout(cellContent)
			row = append(row, Cell{Frame: Row([]Fragment{frag}, ctx.Style, ctx.EmSizePt)})
		}
		rows = append(rows, row)
	}
	var augment Augment
	if av := fieldContent(c, "augment"); av != nil {
		// augmentation offsets are synthesized onto the content by the
		// evaluator from the `augment:` argument; this module just
		// reads whatever vline/hline fields are present.
		if v, ok := fieldInt(av, "vline"); ok {
			augment.VLines = []int{v}
		}
		if v, ok := fieldInt(av, "hline"); ok {
			augment.HLines = []int{v}
		}
	}
	frame := Matrix(rows, delimFromField(c), augment, ctx.EmSizePt)
	return Fragment{Kind: FragFrame, Class: ClassOrd, Width: frame.Size.W, Height: frame.Baseline, Depth: frame.Size.H - frame.Baseline, Frame: frame}
}

func (ctx *Context) layoutVec(c *content.Content) Fragment {
	var cells []Cell
	for _, child := range c.Children() {
		frag := ctx.Layout(child)
		cells = append(cells, Cell{Frame: Row([]Fragment{frag}, ctx.Style, ctx.EmSizePt)})
	}
	frame := Vector(cells, delimFromField(c), ctx.EmSizePt)
	return Fragment{Kind: FragFrame, Class: ClassOrd, Width: frame.Size.W, Height: frame.Baseline, Depth: frame.Size.H - frame.Baseline, Frame: frame}
}
