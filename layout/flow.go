package layout

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/quill-lang/quill/content"
	"github.com/quill-lang/quill/introspect"
	"github.com/quill-lang/quill/numbering"
	"github.com/quill-lang/quill/style"
	"github.com/quill-lang/quill/value"
)

// Flow is the stateful driver for module K: it owns the Shaper used to
// measure text, the locator assigning stable locations to introspectable
// content, and the per-region pending-float/footnote queues spec.md
// §4.10 describes ("Floats ... are appended to a per-region pending-
// float queue ... footnotes reserve tail space similarly").
type Flow struct {
	Shaper  Shaper
	Locator *introspect.Locator

	// Prev is the previous pass's introspector (spec.md §4.9's
	// `prev_introspector`), consulted by references and counters so a
	// forward `@label` resolves one pass behind instead of requiring a
	// suspension coroutine. Nil on a Flow built outside the driver
	// (e.g. tests laying out a single node in isolation); ref/counter
	// lookups degrade to "not yet resolved" in that case.
	Prev *introspect.Introspector

	// PageNumbering is the numbering pattern the page footer renders
	// page numbers with, and what Introspector.PageNumberingAt reports
	// for every location on those pages.
	PageNumbering string

	headingCounter  int
	footnoteCounter int
	counterSeq      int

	pendingFloats   []pendingFloat
	pendingFootnotes []*content.Content
}

type pendingFloat struct {
	placement string // "top" or "bottom"
	frame     *Frame
}

// NewFlow constructs a Flow with the given shaper (nil selects
// DefaultMetricShaper) and a fresh locator for this pass.
func NewFlow(shaper Shaper) *Flow {
	if shaper == nil {
		shaper = DefaultMetricShaper
	}
	return &Flow{Shaper: shaper, Locator: introspect.NewLocator(), PageNumbering: "1"}
}

const defaultTextSizePt = 11 * 2.83465 // 11pt, matching content.textSchema's default

func resolveTextSize(chain *style.Chain) float64 {
	if chain == nil {
		return defaultTextSizePt
	}
	v, ok := chain.Lookup("text", "size")
	if !ok {
		return defaultTextSizePt
	}
	l, ok := v.(value.Length)
	if !ok {
		return defaultTextSizePt
	}
	return l.Resolve(0)
}

// flattenText concatenates the visible text of a content subtree,
// depth-first, the simplification this module makes in place of a
// fully shaped-and-reflowed inline item tree: enough to drive line
// breaking and introspector text queries without a real glyph run per
// character.
func flattenText(c *content.Content) string {
	switch c.ElementKind() {
	case "text":
		if v, ok := c.Field("body"); ok {
			if s, ok := v.(value.String); ok {
				return string(s)
			}
		}
		return ""
	case "space":
		return " "
	case "linebreak", "parbreak":
		return "\n"
	}
	var b strings.Builder
	if v, ok := c.Field("body"); ok {
		if bc, ok := v.(*content.Content); ok {
			b.WriteString(flattenText(bc))
		}
	}
	for _, ch := range c.Children() {
		b.WriteString(flattenText(ch))
	}
	return b.String()
}

// LayoutPar runs word-segmented, greedy line breaking over a
// paragraph's flattened text (spec.md §4.10's inline layouter +
// paragraph line breaking).
func (fl *Flow) LayoutPar(par *content.Content, chain *style.Chain, region Region) (*Frame, error) {
	bodyVal, ok := par.Field("body")
	if !ok {
		return NewFrame(Size{W: region.Size.W}), nil
	}
	body, ok := bodyVal.(*content.Content)
	if !ok {
		return nil, fmt.Errorf("layout: par body field is not content")
	}

	sizePt := resolveTextSize(chain)
	leading := par.Get("leading", chain)
	leadingPt := sizePt * 0.65
	if l, ok := leading.(value.Length); ok {
		leadingPt = l.Resolve(sizePt)
	}

	text := flattenText(fl.resolveRefs(body))
	segs := measureWords(fl.Shaper, text, sizePt)
	lines := breakLines(segs, region.Size.W)

	frame := NewFrame(Size{W: region.Size.W, H: float64(len(lines)) * leadingPt})
	y := 0.0
	for _, line := range lines {
		x := 0.0
		for _, w := range line {
			if w.space {
				x += w.advance
				continue
			}
			run := fl.Shaper.Shape(w.text, sizePt)
			frame.Push(Point{X: x, Y: y}, Item{Kind: ItemGlyphRun, Glyph: run})
			x += run.Advance
		}
		y += leadingPt
	}
	return frame, nil
}

// LayoutRaw lays out a monospace raw/code block, aligning columns by
// real terminal cell width (DOMAIN STACK: mattn/go-runewidth), grounded
// on original_source text/raw.rs's column model.
func (fl *Flow) LayoutRaw(raw *content.Content, chain *style.Chain, region Region) (*Frame, error) {
	textVal, ok := raw.Field("text")
	if !ok {
		return NewFrame(Size{W: region.Size.W}), nil
	}
	text, _ := textVal.(value.String)
	sizePt := resolveTextSize(chain)
	lines := strings.Split(string(text), "\n")

	maxCols := 0
	for _, ln := range lines {
		if w := runewidth.StringWidth(ln); w > maxCols {
			maxCols = w
		}
	}
	colWidth := sizePt * 0.6 // monospace advance ~0.6em, a standard approximation
	frame := NewFrame(Size{W: float64(maxCols) * colWidth, H: float64(len(lines)) * sizePt * 1.2})
	for i, ln := range lines {
		run := fl.Shaper.Shape(ln, sizePt)
		frame.Push(Point{X: 0, Y: float64(i) * sizePt * 1.2}, Item{Kind: ItemGlyphRun, Glyph: run})
	}
	return frame, nil
}

// LayoutBlock stacks body inside width/height constraints, applying the
// above/below spacing fold rule spec.md §4.10 names: "max wins between
// adjacent blocks and block spacing overrides paragraph spacing".
func (fl *Flow) LayoutBlock(block *content.Content, chain *style.Chain, region Region) (*Frame, error) {
	bodyVal, ok := block.Field("body")
	if !ok {
		return NewFrame(region.Size), nil
	}
	body, ok := bodyVal.(*content.Content)
	if !ok {
		return nil, fmt.Errorf("layout: block body field is not content")
	}
	inner, err := fl.LayoutNode(body, chain, region)
	if err != nil {
		return nil, err
	}
	above := blockSpacing(block, chain, "above")
	below := blockSpacing(block, chain, "below")
	frame := NewFrame(Size{W: region.Size.W, H: above + inner.Size.H + below})
	frame.PushFrame(Point{Y: above}, inner)
	return frame, nil
}

// blockSpacing resolves a block's folded above/below length in points,
// given chain for the em basis.
func blockSpacing(block *content.Content, chain *style.Chain, field string) float64 {
	v := block.Get(field, chain)
	sizePt := resolveTextSize(chain)
	if l, ok := v.(value.Length); ok {
		return l.Resolve(sizePt)
	}
	return 0
}

// LayoutHeading lays out a heading's body at 1.4× the text size, broken
// greedily into as many lines as the region width needs,
// tagging it with a locator-assigned location (so the introspector can
// later answer `query(heading)`/label lookups) and, if a numbering
// pattern is set, prefixing the rendered number (spec.md end-to-end
// scenario 1).
func (fl *Flow) LayoutHeading(h *content.Content, chain *style.Chain, region Region, counter int) (*Frame, content.Location, error) {
	bodyVal, ok := h.Field("body")
	if !ok {
		return NewFrame(Size{W: region.Size.W}), content.Location{}, nil
	}
	body, _ := bodyVal.(*content.Content)

	sizePt := resolveTextSize(chain) * 1.4 // headings render larger than body text
	text := flattenText(body)

	if numVal := h.Get("numbering", chain); numVal != nil {
		if s, ok := numVal.(value.String); ok && s != "" {
			if pat, err := numbering.Parse(string(s)); err == nil {
				text = pat.Apply(counter) + " " + text
			}
		}
	}

	segs := measureWords(fl.Shaper, text, sizePt)
	lines := breakLines(segs, region.Size.W)
	frame := NewFrame(Size{W: region.Size.W, H: float64(max1(len(lines))) * sizePt * 1.2})
	y := 0.0
	for _, line := range lines {
		x := 0.0
		for _, w := range line {
			if w.space {
				x += w.advance
				continue
			}
			run := fl.Shaper.Shape(w.text, sizePt)
			frame.Push(Point{X: x, Y: y}, Item{Kind: ItemGlyphRun, Glyph: run})
			x += run.Advance
		}
		y += sizePt * 1.2
	}

	origin := introspect.OriginHash("", uint32(counter), uint32(counter)+1)
	loc := fl.Locator.Locate(origin)
	tagged := h.WithLocation(loc).WithSynthesized("number", value.Int(counter))
	frame.PushTag(Point{}, tagged, loc, false)
	return frame, loc, nil
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// LayoutRef resolves a `@label` reference against the previous pass's
// introspector (spec.md end-to-end scenario 1: "the reference resolves
// to the heading; its displayed number equals the heading's counter
// value") rather than suspending layout until the target is known —
// exactly the "fixed-point over introspection replaces forward-
// reference coroutines" design note (spec.md §9). On pass 1, Prev is
// empty and the target hasn't been located yet, so the reference lays
// out as "??" the way an unresolved reference renders in the reference
// implementation; the driver's next pass sees the real number and, once
// two passes agree, that is what ships.
func (fl *Flow) LayoutRef(ref *content.Content, chain *style.Chain, region Region) (*Frame, error) {
	text := fl.refText(ref)
	sizePt := resolveTextSize(chain)
	run := fl.Shaper.Shape(text, sizePt)
	frame := NewFrame(Size{W: run.Advance, H: sizePt * 1.2})
	frame.Push(Point{}, Item{Kind: ItemGlyphRun, Glyph: run})
	return frame, nil
}

// refText resolves a reference's display text against the previous
// pass's introspector, "??" while the target is still unknown.
func (fl *Flow) refText(ref *content.Content) string {
	targetVal, _ := ref.Field("target")
	target, _ := targetVal.(value.String)
	if fl.Prev != nil {
		matches := fl.Prev.Query(introspect.Label(string(target)))
		if len(matches) > 0 {
			return refDisplay(matches[0])
		}
	}
	return "??"
}

// resolveRefs replaces every `ref` inside a paragraph body with the
// text its target displays, resolved one pass behind via Prev — the
// same rule LayoutRef applies to a standalone reference, pushed down
// into inline runs so "@i shows stuff." renders the target's number
// in place.
func (fl *Flow) resolveRefs(c *content.Content) *content.Content {
	if c.ElementKind() == "ref" {
		return content.Text(fl.refText(c))
	}
	changed := false
	next := c
	if bodyVal, ok := c.Field("body"); ok {
		if body, ok := bodyVal.(*content.Content); ok {
			if nb := fl.resolveRefs(body); nb != body {
				next = c.WithInherent("body", nb)
				changed = true
			}
		}
	}
	kids := c.Children()
	if len(kids) > 0 {
		newKids := make([]*content.Content, len(kids))
		kidsChanged := false
		for i, ch := range kids {
			newKids[i] = fl.resolveRefs(ch)
			if newKids[i] != ch {
				kidsChanged = true
			}
		}
		if kidsChanged {
			next = next.WithChildren(newKids)
			changed = true
		}
	}
	if !changed {
		return c
	}
	return next
}

// refDisplay formats the number a resolved reference target displays:
// the target's synthesized `number` field, rendered through its own
// `numbering` pattern when one is set (spec.md §4.5 "synthesized
// fields: read-only after the finalize pass").
func refDisplay(target *content.Content) string {
	numVal, ok := target.Field("number")
	if !ok {
		return "??"
	}
	n, ok := numVal.(value.Int)
	if !ok {
		return "??"
	}
	if patVal, ok := target.Field("numbering"); ok {
		if s, ok := patVal.(value.String); ok && s != "" {
			if pat, err := numbering.Parse(string(s)); err == nil {
				return pat.Apply(int(n))
			}
		}
	}
	return fmt.Sprintf("%d", int(n))
}

// LayoutCounterUpdate tags a `counter(name).step()` marker at its
// position in the document (spec.md §8 scenario 2), the same
// zero-geometry-but-tagged shape LayoutHeading uses for its own
// location: a `counter.update` content carries no visible glyphs, only
// the (name, amount) pair introspect.Kind("counter.update") queries
// back up once this pass's introspector is built.
func (fl *Flow) LayoutCounterUpdate(c *content.Content, region Region) (*Frame, error) {
	fl.counterSeq++
	origin := introspect.OriginHash("counter", uint32(fl.counterSeq), uint32(fl.counterSeq)+1)
	loc := fl.Locator.Locate(origin)
	tagged := c.WithLocation(loc)
	frame := NewFrame(Size{})
	frame.PushTag(Point{}, tagged, loc, false)
	return frame, nil
}

// LayoutFigure lays out a figure's body plus caption. If the figure
// declares a non-none `placement`, it is appended to Flow's pending
// float queue instead of returning an in-flow frame (spec.md §4.10:
// "Floats ... are appended to a per-region pending-float queue").
func (fl *Flow) LayoutFigure(fig *content.Content, chain *style.Chain, region Region, number int) (*Frame, error) {
	bodyVal, ok := fig.Field("body")
	if !ok {
		return NewFrame(Size{W: region.Size.W}), nil
	}
	body, _ := bodyVal.(*content.Content)
	inner, err := fl.LayoutNode(body, chain, region)
	if err != nil {
		return nil, err
	}

	frame := NewFrame(Size{W: region.Size.W, H: inner.Size.H})
	frame.PushFrame(Point{}, inner)

	if cap := fig.Get("caption", chain); cap != nil {
		if capContent, ok := cap.(*content.Content); ok {
			capFrame, err := fl.LayoutNode(capContent, chain, Region{Size: Size{W: region.Size.W}})
			if err == nil {
				frame.PushFrame(Point{Y: inner.Size.H}, capFrame)
				frame.Size.H += capFrame.Size.H
			}
		}
	}

	if pl := fig.Get("placement", chain); pl != nil {
		if s, ok := pl.(value.String); ok && (s == "top" || s == "bottom") {
			fl.pendingFloats = append(fl.pendingFloats, pendingFloat{placement: string(s), frame: frame})
			return nil, nil
		}
	}
	return frame, nil
}

// QueueFootnote reserves frame for the current region's footnote area,
// committed by CommitRegion at region end (spec.md §4.10: "footnotes
// reserve tail space similarly").
func (fl *Flow) QueueFootnote(fn *content.Content) {
	fl.pendingFootnotes = append(fl.pendingFootnotes, fn)
}

// CommitRegion composes body with any pending top/bottom floats and
// footnotes accumulated during this region's layout, clearing the
// queues for the next region.
func (fl *Flow) CommitRegion(body *Frame, chain *style.Chain, region Region) *Frame {
	var top, bottom []*Frame
	for _, pf := range fl.pendingFloats {
		if pf.placement == "top" {
			top = append(top, pf.frame)
		} else {
			bottom = append(bottom, pf.frame)
		}
	}
	fl.pendingFloats = nil

	totalH := body.Size.H
	for _, f := range top {
		totalH += f.Size.H
	}
	for _, f := range bottom {
		totalH += f.Size.H
	}
	for _, fn := range fl.pendingFootnotes {
		fnFrame, err := fl.LayoutNode(fn, chain, Region{Size: Size{W: region.Size.W}})
		if err == nil {
			bottom = append(bottom, fnFrame)
			totalH += fnFrame.Size.H
		}
	}
	fl.pendingFootnotes = nil

	out := NewFrame(Size{W: region.Size.W, H: totalH})
	y := 0.0
	for _, f := range top {
		out.PushFrame(Point{Y: y}, f)
		y += f.Size.H
	}
	out.PushFrame(Point{Y: y}, body)
	y += body.Size.H
	for _, f := range bottom {
		out.PushFrame(Point{Y: y}, f)
		y += f.Size.H
	}
	return out
}

// LayoutNode dispatches a content node to the layouter for its element
// kind, the single-region path of spec.md §4.10's layouter trait
// ("single-region layouter (content, region) → Frame"). Kinds with no
// visible geometry (labels, metadata) lay out as zero-size frames.
func (fl *Flow) LayoutNode(c *content.Content, chain *style.Chain, region Region) (*Frame, error) {
	switch c.ElementKind() {
	case "par":
		return fl.LayoutPar(c, chain, region)
	case "text", "space", "strong", "emph", "linebreak":
		// A loose inline node reaching the block layouter directly
		// (outside any sequence grouping) lays out as its own
		// single-element paragraph.
		return fl.LayoutPar(content.Par(c), chain, region)
	case "raw":
		return fl.LayoutRaw(c, chain, region)
	case "block", "box":
		return fl.LayoutBlock(c, chain, region)
	case "list.item", "enum.item", "terms.item":
		return fl.LayoutListItem(c, chain, region)
	case "outline":
		return fl.LayoutOutline(c, chain, region)
	case "footnote":
		return fl.LayoutFootnoteMarker(c, chain)
	case "heading":
		fl.headingCounter++
		f, _, err := fl.LayoutHeading(c, chain, region, fl.headingCounter)
		return f, err
	case "ref":
		return fl.LayoutRef(c, chain, region)
	case "figure":
		f, err := fl.LayoutFigure(c, chain, region, 1)
		if f == nil && err == nil {
			return NewFrame(Size{W: region.Size.W}), nil
		}
		return f, err
	case "sequence":
		return fl.layoutSequence(c, chain, region)
	case "image":
		w, h := resolveImageSize(c, chain, region)
		return NewFrame(Size{W: w, H: h}), nil
	case "rect":
		w, h := resolveImageSize(c, chain, region)
		frame := NewFrame(Size{W: w, H: h})
		frame.Push(Point{}, Item{Kind: ItemShape, Shape: Shape{Kind: "rect", Size: Size{W: w, H: h}}})
		return frame, nil
	case "line":
		frame := NewFrame(Size{W: region.Size.W, H: 1})
		frame.Push(Point{}, Item{Kind: ItemShape, Shape: Shape{Kind: "line", Size: Size{W: region.Size.W, H: 1}}})
		return frame, nil
	case "counter.update":
		return fl.LayoutCounterUpdate(c, region)
	case "label", "metadata":
		return NewFrame(Size{}), nil
	default:
		return NewFrame(Size{}), nil
	}
}

func resolveImageSize(c *content.Content, chain *style.Chain, region Region) (float64, float64) {
	w := region.Size.W
	h := w * 0.6
	if wv := c.Get("width", chain); wv != nil {
		if l, ok := wv.(value.Length); ok {
			w = l.Resolve(resolveTextSize(chain))
		}
	}
	if hv := c.Get("height", chain); hv != nil {
		if l, ok := hv.(value.Length); ok {
			h = l.Resolve(resolveTextSize(chain))
		}
	}
	return w, h
}

// isInline reports whether kind flows horizontally inside a paragraph
// rather than standing on its own as a block.
func isInline(kind string) bool {
	switch kind {
	case "text", "space", "linebreak", "strong", "emph", "ref", "equation":
		return true
	}
	return false
}

// groupBlocks batches consecutive inline children into implicit
// paragraphs, splitting at parbreaks; block-level children pass through
// unchanged. Loose text at the top level of a document lays out as a
// paragraph without the author spelling `par` out.
func groupBlocks(children []*content.Content) []*content.Content {
	var out []*content.Content
	var run []*content.Content
	flush := func() {
		run = trimSpaces(run)
		if len(run) > 0 {
			out = append(out, content.Par(content.Sequence(run...)))
		}
		run = nil
	}
	for _, ch := range children {
		switch {
		case ch.ElementKind() == "parbreak":
			flush()
		case isInline(ch.ElementKind()):
			run = append(run, ch)
		default:
			flush()
			out = append(out, ch)
		}
	}
	flush()
	return out
}

func trimSpaces(run []*content.Content) []*content.Content {
	for len(run) > 0 && run[0].ElementKind() == "space" {
		run = run[1:]
	}
	for len(run) > 0 && run[len(run)-1].ElementKind() == "space" {
		run = run[:len(run)-1]
	}
	return run
}

// LayoutListItem renders a bullet/number marker followed by the item's
// body, indented by the marker column.
func (fl *Flow) LayoutListItem(item *content.Content, chain *style.Chain, region Region) (*Frame, error) {
	marker := "•"
	switch item.ElementKind() {
	case "enum.item":
		marker = "1."
		if n := item.Get("number", chain); n != nil {
			if i, ok := n.(value.Int); ok {
				marker = fmt.Sprintf("%d.", int(i))
			}
		}
	case "terms.item":
		if tv, ok := item.Field("term"); ok {
			if s, ok := tv.(value.String); ok {
				marker = string(s)
			}
		}
	}

	sizePt := resolveTextSize(chain)
	markerRun := fl.Shaper.Shape(marker, sizePt)
	indent := markerRun.Advance + sizePt*0.5

	bodyVal, ok := item.Field("body")
	if !ok {
		return NewFrame(Size{W: region.Size.W}), nil
	}
	body, _ := bodyVal.(*content.Content)
	inner, err := fl.LayoutPar(content.Par(body), chain, Region{Size: Size{W: region.Size.W - indent}})
	if err != nil {
		return nil, err
	}

	frame := NewFrame(Size{W: region.Size.W, H: inner.Size.H})
	frame.Push(Point{}, Item{Kind: ItemGlyphRun, Glyph: markerRun})
	frame.PushFrame(Point{X: indent}, inner)
	return frame, nil
}

// LayoutOutline renders a table of contents: the outline's title, then
// one entry per heading the previous pass's introspector knows about,
// each formatted through that heading's own numbering pattern — the
// restored outline consumer of the introspector. On pass 1 there is
// nothing to list yet; the entries appear once a pass has run, and the
// fixed-point driver keeps iterating until they are stable.
func (fl *Flow) LayoutOutline(outline *content.Content, chain *style.Chain, region Region) (*Frame, error) {
	sizePt := resolveTextSize(chain)
	frame := NewFrame(Size{W: region.Size.W})
	y := 0.0

	if tv := outline.Get("title", chain); tv != nil {
		if s, ok := tv.(value.String); ok && s != "" {
			run := fl.Shaper.Shape(string(s), sizePt*1.2)
			frame.Push(Point{}, Item{Kind: ItemGlyphRun, Glyph: run})
			y += sizePt * 1.5
		}
	}

	if fl.Prev != nil {
		target := "heading"
		if t := outline.Get("target", chain); t != nil {
			if s, ok := t.(value.String); ok && s != "" {
				target = string(s)
			}
		}
		depth := 0
		if d := outline.Get("depth", chain); d != nil {
			if i, ok := d.(value.Int); ok {
				depth = int(i)
			}
		}
		for _, h := range fl.Prev.Query(introspect.Kind(target)) {
			if ov := h.Get("outlined", chain); ov != nil {
				if b, ok := ov.(value.Bool); ok && !bool(b) {
					continue
				}
			}
			if depth > 0 {
				if lv, ok := h.Field("level"); ok {
					if l, ok := lv.(value.Int); ok && int(l) > depth {
						continue
					}
				}
			}
			entry := refDisplay(h)
			if bodyVal, ok := h.Field("body"); ok {
				if bc, ok := bodyVal.(*content.Content); ok {
					entry += " " + flattenText(bc)
				}
			}
			run := fl.Shaper.Shape(entry, sizePt)
			frame.Push(Point{Y: y}, Item{Kind: ItemGlyphRun, Glyph: run})
			y += sizePt * 1.2
		}
	}

	frame.Size.H = y
	return frame, nil
}

// LayoutFootnoteMarker places the in-text superscript marker and queues
// the footnote body for the region's tail area, committed by
// CommitRegion (spec.md §4.10: "footnotes reserve tail space
// similarly").
func (fl *Flow) LayoutFootnoteMarker(fn *content.Content, chain *style.Chain) (*Frame, error) {
	fl.footnoteCounter++
	number := fl.footnoteCounter

	marker := fmt.Sprintf("%d", number)
	if pv := fn.Get("numbering", chain); pv != nil {
		if s, ok := pv.(value.String); ok && s != "" {
			if pat, err := numbering.Parse(string(s)); err == nil {
				marker = pat.Apply(number)
			}
		}
	}

	if bodyVal, ok := fn.Field("body"); ok {
		if body, ok := bodyVal.(*content.Content); ok {
			// Queue the rendered note line, not the footnote element
			// itself, so CommitRegion lays it out as an ordinary
			// paragraph instead of re-entering this marker path.
			fl.QueueFootnote(content.Par(content.Sequence(content.Text(marker+" "), body)))
		}
	}

	sizePt := resolveTextSize(chain) * 0.7
	run := fl.Shaper.Shape(marker, sizePt)
	frame := NewFrame(Size{W: run.Advance, H: sizePt * 1.2})
	frame.Push(Point{}, Item{Kind: ItemGlyphRun, Glyph: run})
	return frame, nil
}

// layoutSequence stacks a run of sibling content vertically, the
// top-level "blocks stack vertically" rule from spec.md §4.10 applied
// to markup that hasn't been wrapped in an explicit `par`/`block`.
func (fl *Flow) layoutSequence(seq *content.Content, chain *style.Chain, region Region) (*Frame, error) {
	children := groupBlocks(seq.Children())
	frame := NewFrame(Size{W: region.Size.W})
	y := 0.0
	for _, ch := range children {
		sub := Region{Size: Size{W: region.Size.W, H: region.RemainingHeight - y}}
		f, err := fl.LayoutNode(ch, chain, sub)
		if err != nil {
			return nil, err
		}
		if f.Size.H == 0 && len(f.Items) == 0 {
			continue
		}
		frame.PushFrame(Point{Y: y}, f)
		y += f.Size.H
	}
	frame.Size.H = y
	return frame, nil
}
