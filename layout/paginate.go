package layout

import (
	"fmt"

	"github.com/quill-lang/quill/content"
	"github.com/quill-lang/quill/introspect"
	"github.com/quill-lang/quill/numbering"
	"github.com/quill-lang/quill/style"
)

// footerHeightPt reserves tail space on every page for the automatic
// "page N of Y" footer spec.md §8 scenario 2 names, the same way
// CommitRegion reserves space for footnotes.
const footerHeightPt = 20.0

// LayoutPages splits body's top-level flow across as many pages as it
// takes to fit pageSize, the multi-page counterpart to layoutSequence's
// single-region stacking. A "page" counter is stepped once per page
// automatically — no user markup has to call `counter("page").step()`
// for page counting to work, mirroring how a page counter behaves in
// the reference implementation. Every page also gets a rendered
// "page N of Y" footer, Y being the previous pass's total page count
// (fl.Prev's "page" counter total): spec.md §8 scenario 2's point is
// exactly that Y isn't knowable until a full layout pass has finished,
// so the footer is "??" on pass 1 and correct from pass 2 on, the same
// fixed-point shape LayoutRef already uses for label references.
func (fl *Flow) LayoutPages(body *content.Content, chain *style.Chain, pageSize Size) ([]*Frame, error) {
	children := topLevelChildren(body)
	contentHeight := pageSize.H - footerHeightPt

	var pages []*Frame
	cur := NewFrame(Size{W: pageSize.W, H: contentHeight})
	y := 0.0
	flushPage := func() {
		// Commit pending floats and footnotes into this page before it
		// ships, then pad to the fixed page content height.
		committed := fl.CommitRegion(cur, chain, Region{Size: Size{W: pageSize.W, H: contentHeight}})
		committed.Size.H = contentHeight
		pages = append(pages, committed)
	}

	for _, ch := range children {
		sub := Region{Size: Size{W: pageSize.W, H: contentHeight - y}, RemainingHeight: contentHeight - y}
		f, err := fl.LayoutNode(ch, chain, sub)
		if err != nil {
			return nil, err
		}
		if f.Size.H == 0 && len(f.Items) == 0 {
			continue
		}
		if y > 0 && y+f.Size.H > contentHeight {
			flushPage()
			cur = NewFrame(Size{W: pageSize.W, H: contentHeight})
			y = 0
		}
		cur.PushFrame(Point{Y: y}, f)
		y += f.Size.H
	}
	flushPage()

	total := 0
	if fl.Prev != nil {
		total = fl.Prev.CounterTotal("page")
	}
	for i, page := range pages {
		fl.appendPageFooter(page, i+1, total, pageSize)
	}
	return pages, nil
}

// topLevelChildren returns body's top-level block list: its children
// (with loose inline runs grouped into implicit paragraphs) if body is
// the markup root's usual "sequence" wrapper, or body itself as a
// single-element list for anything else (e.g. a whole-document
// equation).
func topLevelChildren(body *content.Content) []*content.Content {
	if body.ElementKind() == "sequence" {
		return groupBlocks(body.Children())
	}
	return []*content.Content{body}
}

// appendPageFooter renders "page N of Y" at the bottom of page and tags
// the page with one automatic "page" counter.update marker, so the next
// pass's introspector can answer CounterTotal("page") with this pass's
// real page count. N and Y are both rendered through fl.PageNumbering,
// so `PageNumbering: "i"` yields a "page iv of xii" style footer.
func (fl *Flow) appendPageFooter(page *Frame, number, total int, pageSize Size) {
	format := func(n int) string {
		if pat, err := numbering.Parse(fl.PageNumbering); err == nil {
			return pat.Apply(n)
		}
		return fmt.Sprintf("%d", n)
	}
	text := fmt.Sprintf("page %s of %s", format(number), format(total))
	if total == 0 {
		text = fmt.Sprintf("page %s of ??", format(number))
	}
	sizePt := defaultTextSizePt * 0.8
	run := fl.Shaper.Shape(text, sizePt)
	y := pageSize.H - footerHeightPt + (footerHeightPt-sizePt*1.2)/2
	page.Push(Point{X: 0, Y: y}, Item{Kind: ItemGlyphRun, Glyph: run})

	origin := introspect.OriginHash("page", uint32(number), uint32(number)+1)
	loc := fl.Locator.Locate(origin)
	marker := content.CounterUpdate("page", 1).WithLocation(loc)
	page.PushTag(Point{}, marker, loc, false)
}
