package mathlayout

import "github.com/quill-lang/quill/layout"

// rowGap/colGap mirror matrix.rs's ROW_GAP/COL_GAP constants (0.5em
// each) scaled by the current style's em size.
const (
	rowGapEm = 0.5
	colGapEm = 0.5
)

// Augment declares where matrix.rs's `MatElem::augment` draws
// augmentation lines: offsets are 1-based column/row counts after which
// a line is drawn, matching `augment: #2` meaning "after column 2".
type Augment struct {
	HLines []int
	VLines []int
}

// Cell is one matrix/vector entry, already laid out into a frame (the
// caller runs Row over each cell's fragments first).
type Cell struct {
	Frame *layout.Frame
}

// Matrix lays out rows of cells column-major — matrix.rs: "equalize row
// ascents/descents" — centering every cell in its row on a shared row
// axis, then centering every column's content horizontally within that
// column's width, and finally inserts augmentation lines at the
// declared offsets (spec.md §4.11's testable matrix scenario:
// `mat(1,2;3,4)` → 2×2 grid with equal row heights, col gap scaled,
// enclosed by delimiters sized to body height, baseline at body
// center).
func Matrix(rows [][]Cell, delim Delimiter, augment Augment, emSizePt float64) *layout.Frame {
	if len(rows) == 0 {
		return layout.NewFrame(layout.Size{})
	}
	nCols := 0
	for _, r := range rows {
		if len(r) > nCols {
			nCols = len(r)
		}
	}

	colWidths := make([]float64, nCols)
	rowAscents := make([]float64, len(rows))
	rowDescents := make([]float64, len(rows))

	for ri, row := range rows {
		for ci, cell := range row {
			if cell.Frame == nil {
				continue
			}
			if cell.Frame.Size.W > colWidths[ci] {
				colWidths[ci] = cell.Frame.Size.W
			}
			asc := cell.Frame.Baseline
			desc := cell.Frame.Size.H - cell.Frame.Baseline
			if asc > rowAscents[ri] {
				rowAscents[ri] = asc
			}
			if desc > rowDescents[ri] {
				rowDescents[ri] = desc
			}
		}
	}

	rowGap := rowGapEm * emSizePt
	colGap := colGapEm * emSizePt

	totalWidth := -colGap
	for _, w := range colWidths {
		totalWidth += w + colGap
	}
	if totalWidth < 0 {
		totalWidth = 0
	}

	totalHeight := -rowGap
	for ri := range rows {
		totalHeight += rowAscents[ri] + rowDescents[ri] + rowGap
	}
	if totalHeight < 0 {
		totalHeight = 0
	}

	body := layout.NewFrame(layout.Size{W: totalWidth, H: totalHeight})
	midRow := len(rows) / 2
	var baselineY float64

	y := 0.0
	for ri, row := range rows {
		rowH := rowAscents[ri] + rowDescents[ri]
		if ri == midRow {
			baselineY = y + rowAscents[ri]
		}
		x := 0.0
		for ci := 0; ci < nCols; ci++ {
			if ci < len(row) && row[ci].Frame != nil {
				cf := row[ci].Frame
				cx := x + (colWidths[ci]-cf.Size.W)/2
				cy := y + rowAscents[ri] - cf.Baseline
				body.PushFrame(layout.Point{X: cx, Y: cy}, cf)
			}
			x += colWidths[ci] + colGap
		}
		y += rowH + rowGap
	}

	for _, off := range augment.VLines {
		x := -colGap / 2
		for ci := 0; ci < off && ci < nCols; ci++ {
			x += colWidths[ci] + colGap
		}
		body.Push(layout.Point{X: x, Y: 0}, layout.Item{
			Kind:  layout.ItemShape,
			Shape: layout.Shape{Kind: "vline", Size: layout.Size{W: 0, H: totalHeight}},
		})
	}
	for _, off := range augment.HLines {
		y := -rowGap / 2
		for ri := 0; ri < off && ri < len(rows); ri++ {
			y += rowAscents[ri] + rowDescents[ri] + rowGap
		}
		body.Push(layout.Point{X: 0, Y: y}, layout.Item{
			Kind:  layout.ItemShape,
			Shape: layout.Shape{Kind: "hline", Size: layout.Size{W: totalWidth, H: 0}},
		})
	}

	body.Baseline = baselineY
	body.HasBase = true

	return Stretch(delim, body, emSizePt)
}

// Vector is Matrix specialized to a single column, matching
// matrix.rs's VecElem which reuses layout_vec_body (one column, each
// child its own row).
func Vector(cells []Cell, delim Delimiter, emSizePt float64) *layout.Frame {
	rows := make([][]Cell, len(cells))
	for i, c := range cells {
		rows[i] = []Cell{c}
	}
	return Matrix(rows, delim, Augment{}, emSizePt)
}
