package layout

import "strings"

// TextBlock is a run of wrapped text.
type TextBlock struct {
	Text   string
	Size   float64 // points; 0 uses the body size
	Style  string  // "", "B", "I" or "BI"
	Align  string  // AlignLeft (default), AlignCenter, AlignRight
	Indent float64 // mm from the left margin
	After  float64 // extra space below, mm

	// KeepWithNext reserves one body line below the block so that a heading
	// never ends a page.
	KeepWithNext bool
}

// Text places a wrapped text block. Blocks that fit on a page are never
// split; longer blocks are split between lines.
func (e *Engine) Text(b TextBlock) {
	e.placeText(b, KindText)
}

// Heading places a bold block kept with the line that follows it.
func (e *Engine) Heading(text string) {
	e.placeText(TextBlock{
		Text:         text,
		Size:         e.opts.FontSize + 1,
		Style:        "B",
		After:        1,
		KeepWithNext: true,
	}, KindHeading)
}

// Title places a large centered bold line.
func (e *Engine) Title(text string, size float64) {
	e.placeText(TextBlock{Text: text, Size: size, Style: "B", Align: AlignCenter, After: 2, KeepWithNext: true}, KindHeading)
}

// Label places an italic placeholder such as an unavailable image notice.
func (e *Engine) Label(text string) {
	e.pdf.SetTextColor(110, 110, 110)
	e.placeText(TextBlock{Text: text, Style: "I", Size: e.opts.FontSize - 1}, KindLabel)
	e.pdf.SetTextColor(0, 0, 0)
}

// wrap splits translated text into lines that fit width with the current font.
func (e *Engine) wrap(text string, width float64) []string {
	text = strings.TrimRight(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if strings.TrimSpace(text) == "" {
		return nil
	}
	raw := e.pdf.SplitLines([]byte(e.text(text)), width)
	lines := make([]string, len(raw))
	for i, l := range raw {
		lines[i] = string(l)
	}
	return lines
}

func (e *Engine) placeText(b TextBlock, kind Kind) {
	size := b.Size
	if size <= 0 {
		size = e.opts.FontSize
	}
	align := b.Align
	if align == "" {
		align = AlignLeft
	}
	width := e.ContentWidth() - b.Indent

	e.pdf.SetFont(fontFamily, b.Style, size)
	defer e.pdf.SetFont(fontFamily, "", e.opts.FontSize)

	lines := e.wrap(b.Text, width)
	if len(lines) == 0 {
		return
	}
	lh := e.lineHeight(size)

	reserve := 0.0
	if b.KeepWithNext {
		reserve = e.lineHeight(e.opts.FontSize)
	}
	e.ensure(float64(len(lines))*lh + reserve)

	for len(lines) > 0 {
		fit := int((e.Remaining() + 0.001) / lh)
		if fit < 1 {
			e.NewPage()
			e.pdf.SetFont(fontFamily, b.Style, size)
			continue
		}
		if fit > len(lines) {
			fit = len(lines)
		}

		y := e.pdf.GetY()
		for _, line := range lines[:fit] {
			e.pdf.SetX(e.left + b.Indent)
			e.pdf.CellFormat(width, lh, line, "", 2, align, false, 0, "")
		}
		e.record(kind, y, float64(fit)*lh, fit, strings.Join(lines[:fit], " "))
		lines = lines[fit:]

		if len(lines) > 0 {
			e.NewPage()
			e.pdf.SetFont(fontFamily, b.Style, size)
		}
	}

	if b.After > 0 && b.After < e.Remaining() {
		e.pdf.SetY(e.pdf.GetY() + b.After)
	}
}
