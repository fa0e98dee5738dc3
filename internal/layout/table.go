package layout

import "strings"

// TableBlock is a bordered table. Widths are fractions of the content width;
// a nil Widths splits columns evenly.
type TableBlock struct {
	Header []string
	Rows   [][]string
	Widths []float64
}

// Table places a table row by row. A row that fits on a page is kept whole;
// a taller row is split between lines. The header is repeated at the top of
// every page the table continues on.
func (e *Engine) Table(t TableBlock) {
	cols := len(t.Header)
	for _, r := range t.Rows {
		cols = max(cols, len(r))
	}
	if cols == 0 {
		return
	}
	widths := e.columnWidths(t.Widths, cols)

	var header *tableCells
	if len(t.Header) > 0 {
		header = e.wrapRow(t.Header, widths, true)
	}
	repeat := func() {
		if header != nil {
			e.placeRow(header, widths, nil)
		}
	}

	lh := e.lineHeight(e.opts.FontSize)
	rows := make([]*tableCells, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = e.wrapRow(r, widths, false)
	}
	headerH := 0.0
	if header != nil {
		headerH = header.height(lh)
		// The header keeps the first row, or its first line when the row
		// is split anyway.
		first := lh + 2*cellPad
		if len(rows) > 0 && rows[0].height(lh) <= e.ContentHeight()-headerH {
			first = rows[0].height(lh)
		}
		e.ensure(headerH + first)
		repeat()
	}
	for _, row := range rows {
		h := row.height(lh)
		if h > e.Remaining() && !e.atTop() && h <= e.ContentHeight()-headerH {
			e.NewPage()
			repeat()
		}
		e.placeRow(row, widths, repeat)
	}
	if 2 < e.Remaining() {
		e.pdf.SetY(e.pdf.GetY() + 2)
	}
}

func (e *Engine) columnWidths(fractions []float64, cols int) []float64 {
	widths := make([]float64, cols)
	total := 0.0
	for i := 0; i < cols && i < len(fractions); i++ {
		total += fractions[i]
	}
	for i := range widths {
		if i < len(fractions) && total > 0 {
			widths[i] = e.ContentWidth() * fractions[i] / total
		} else {
			widths[i] = e.ContentWidth() / float64(cols)
		}
	}
	return widths
}

const cellPad = 1.5

// tableCells is a row wrapped to its column widths.
type tableCells struct {
	raw    []string
	lines  [][]string
	header bool
}

func (c *tableCells) rows() int {
	n := 1
	for _, l := range c.lines {
		n = max(n, len(l))
	}
	return n
}

func (c *tableCells) height(lh float64) float64 {
	return float64(c.rows())*lh + 2*cellPad
}

func (c *tableCells) style() string {
	if c.header {
		return "B"
	}
	return ""
}

func (e *Engine) wrapRow(cells []string, widths []float64, header bool) *tableCells {
	row := &tableCells{raw: cells, lines: make([][]string, len(widths)), header: header}
	e.pdf.SetFont(fontFamily, row.style(), e.opts.FontSize)
	defer e.pdf.SetFont(fontFamily, "", e.opts.FontSize)
	for i, w := range widths {
		if i < len(cells) {
			row.lines[i] = e.wrap(cells[i], w-2*cellPad)
		}
	}
	return row
}

// placeRow draws row at the cursor. When the row does not fit in the space
// left, the lines that fit are drawn, a new page is started, cont runs (to
// repeat the header) and the rest of the row follows.
func (e *Engine) placeRow(row *tableCells, widths []float64, cont func()) {
	lh := e.lineHeight(e.opts.FontSize)
	lines := row.lines
	whole := true
	fresh := false
	for {
		n := 1
		for _, l := range lines {
			n = max(n, len(l))
		}
		fit := int((e.Remaining() - 2*cellPad + 0.001) / lh)
		if fit < 1 {
			if !fresh {
				e.NewPage()
				if cont != nil {
					cont()
				}
				fresh = true
				continue
			}
			fit = 1
		}
		if fit >= n {
			text := e.text(strings.Join(row.raw, " | "))
			if !whole {
				text = joinCells(lines, n)
			}
			e.drawRow(lines, n, widths, row.header, text)
			return
		}

		e.drawRow(lines, fit, widths, row.header, joinCells(lines, fit))
		rest := make([][]string, len(lines))
		for i, l := range lines {
			if len(l) > fit {
				rest[i] = l[fit:]
			}
		}
		lines = rest
		whole = false
		e.NewPage()
		if cont != nil {
			cont()
		}
		fresh = true
	}
}

// joinCells joins the first n lines of every column, columns separated by " | ".
func joinCells(lines [][]string, n int) string {
	parts := make([]string, len(lines))
	for i, l := range lines {
		parts[i] = strings.Join(l[:min(n, len(l))], " ")
	}
	return strings.Join(parts, " | ")
}

// drawRow draws the first n lines of every column as one bordered row.
func (e *Engine) drawRow(lines [][]string, n int, widths []float64, header bool, text string) {
	style := ""
	if header {
		style = "B"
	}
	e.pdf.SetFont(fontFamily, style, e.opts.FontSize)
	lh := e.lineHeight(e.opts.FontSize)
	h := float64(n)*lh + 2*cellPad
	y := e.pdf.GetY()
	x := e.left

	e.pdf.SetDrawColor(120, 120, 120)
	e.pdf.SetLineWidth(0.2)
	if header {
		e.pdf.SetFillColor(235, 235, 235)
	}
	for i, w := range widths {
		rectStyle := "D"
		if header {
			rectStyle = "FD"
		}
		e.pdf.Rect(x, y, w, h, rectStyle)
		for j, line := range lines[i][:min(n, len(lines[i]))] {
			e.pdf.SetXY(x+cellPad, y+cellPad+float64(j)*lh)
			e.pdf.CellFormat(w-2*cellPad, lh, line, "", 0, AlignLeft, false, 0, "")
		}
		x += w
	}
	e.pdf.SetFont(fontFamily, "", e.opts.FontSize)
	e.pdf.SetY(y + h)
	e.record(KindTableRow, y, h, n, text)
}
