package layout

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"
)

// ImageBlock is an image fitted into a W x H box (mm), keeping its aspect
// ratio. Type is the PDF image type: "JPG", "PNG" or "GIF".
type ImageBlock struct {
	Data    []byte
	Type    string
	W, H    float64
	Caption string
}

type registered struct {
	name string
	w, h float64 // fitted size
	opts fpdf.ImageOptions
}

// register embeds the image bytes once and computes the fitted size. A
// corrupt image leaves the document usable and returns ErrImage.
func (e *Engine) register(b ImageBlock, maxW, maxH float64) (*registered, error) {
	if len(b.Data) == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrImage)
	}
	e.images++
	name := "img" + strconv.Itoa(e.images)
	opts := fpdf.ImageOptions{ImageType: b.Type}

	info := e.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(b.Data))
	if e.pdf.Err() || info == nil {
		err := e.pdf.Error()
		e.pdf.ClearError()
		return nil, fmt.Errorf("%w: %v", ErrImage, err)
	}

	iw, ih := info.Width(), info.Height()
	if iw <= 0 || ih <= 0 {
		return nil, fmt.Errorf("%w: zero-sized image", ErrImage)
	}
	w := maxW
	h := w * ih / iw
	if h > maxH {
		h = maxH
		w = h * iw / ih
	}
	return &registered{name: name, w: w, h: h, opts: opts}, nil
}

// Image places one image centered on the content width, with an optional
// caption below. The image and the first caption line always share a page.
func (e *Engine) Image(b ImageBlock) error {
	maxW := b.W
	if maxW <= 0 || maxW > e.ContentWidth() {
		maxW = e.ContentWidth()
	}
	const gap = 2.0
	lh := e.lineHeight(e.opts.FontSize - 1)
	maxH := b.H
	if maxH <= 0 || maxH > e.ContentHeight() {
		maxH = e.ContentHeight() / 2
	}
	maxH = min(maxH, e.ContentHeight()-lh-gap)

	img, err := e.register(b, maxW, maxH)
	if err != nil {
		return err
	}

	var caption []string
	if b.Caption != "" {
		e.pdf.SetFont(fontFamily, "I", e.opts.FontSize-1)
		caption = e.wrap(b.Caption, e.ContentWidth())
		e.pdf.SetFont(fontFamily, "", e.opts.FontSize)
	}
	total := img.h + float64(len(caption))*lh + gap
	if total <= e.ContentHeight() {
		e.ensure(total)
	} else {
		e.ensure(img.h + lh + gap)
	}

	y := e.pdf.GetY()
	x := e.left + (e.ContentWidth()-img.w)/2
	e.pdf.ImageOptions(img.name, x, y, img.w, img.h, false, img.opts, 0, "")

	start, cur := y, y+img.h+gap/2
	var placed []string
	e.pdf.SetFont(fontFamily, "I", e.opts.FontSize-1)
	for _, line := range caption {
		if cur+lh > e.bottom+0.001 {
			e.record(KindImage, start, cur-start, 0, strings.Join(placed, " "))
			placed = nil
			e.NewPage()
			e.pdf.SetFont(fontFamily, "I", e.opts.FontSize-1)
			start, cur = e.top, e.top
		}
		e.pdf.SetXY(e.left, cur)
		e.pdf.CellFormat(e.ContentWidth(), lh, line, "", 0, AlignCenter, false, 0, "")
		placed = append(placed, line)
		cur += lh
	}
	e.pdf.SetFont(fontFamily, "", e.opts.FontSize)
	cur = min(cur+gap/2, e.bottom)
	e.pdf.SetY(cur)
	e.record(KindImage, start, cur-start, 0, strings.Join(placed, " "))
	return nil
}

// Cell is one column of an image row: a bold header, an image (or a
// fallback label when the image is missing or unusable) and footer lines.
type Cell struct {
	Header   string
	Image    *ImageBlock
	Fallback string
	Footer   []string
}

// ImageRow places cells side by side in equal columns, all sharing one
// box height. Headers and image boxes are kept together; the row is placed
// whole when it fits on a page, otherwise footer lines continue on the next
// page. It returns one error per cell whose image could not be embedded;
// those cells show their fallback.
func (e *Engine) ImageRow(cells []Cell, boxH float64) []error {
	if len(cells) == 0 {
		return nil
	}
	const pad = 3.0
	colW := e.ContentWidth() / float64(len(cells))
	lh := e.lineHeight(e.opts.FontSize)
	small := e.lineHeight(e.opts.FontSize - 1)

	errs := make([]error, len(cells))
	imgs := make([]*registered, len(cells))
	headers := make([][]string, len(cells))
	footers := make([][]string, len(cells))
	fallbacks := make([][]string, len(cells))

	headerRows, footerRows := 0, 0
	for i, c := range cells {
		e.pdf.SetFont(fontFamily, "B", e.opts.FontSize)
		headers[i] = e.wrap(c.Header, colW-2*pad)
		e.pdf.SetFont(fontFamily, "", e.opts.FontSize-1)
		for _, f := range c.Footer {
			footers[i] = append(footers[i], e.wrap(f, colW-2*pad)...)
		}
		headerRows = max(headerRows, len(headers[i]))
		footerRows = max(footerRows, len(footers[i]))
	}

	// Header, box and one footer line always share a page.
	headH := float64(headerRows) * lh
	if limit := e.ContentHeight() - headH - small - pad; boxH > limit {
		boxH = max(limit, small)
	}
	for i, c := range cells {
		if c.Image != nil {
			imgs[i], errs[i] = e.register(*c.Image, colW-2*pad, boxH)
		}
		e.pdf.SetFont(fontFamily, "I", e.opts.FontSize-1)
		if imgs[i] == nil {
			fallbacks[i] = e.wrap(c.Fallback, colW-2*pad)
			if maxLines := int(boxH / small); len(fallbacks[i]) > maxLines {
				footers[i] = append(append([]string(nil), fallbacks[i][maxLines:]...), footers[i]...)
				fallbacks[i] = fallbacks[i][:maxLines]
				footerRows = max(footerRows, len(footers[i]))
			}
		}
	}
	e.pdf.SetFont(fontFamily, "", e.opts.FontSize)

	fixed := headH + boxH
	total := fixed + float64(footerRows)*small + pad
	if total <= e.ContentHeight() {
		e.ensure(total)
	} else {
		e.ensure(fixed + small)
	}
	y := e.pdf.GetY()

	parts := make([][]string, len(cells))
	for i := range cells {
		x := e.left + float64(i)*colW

		e.pdf.SetFont(fontFamily, "B", e.opts.FontSize)
		e.pdf.SetXY(x, y)
		for _, line := range headers[i] {
			e.pdf.SetX(x)
			e.pdf.CellFormat(colW, lh, line, "", 2, AlignCenter, false, 0, "")
		}

		boxY := y + headH
		if img := imgs[i]; img != nil {
			ix := x + (colW-img.w)/2
			iy := boxY + (boxH-img.h)/2
			e.pdf.ImageOptions(img.name, ix, iy, img.w, img.h, false, img.opts, 0, "")
		} else if len(fallbacks[i]) > 0 {
			e.pdf.SetFont(fontFamily, "I", e.opts.FontSize-1)
			e.pdf.SetTextColor(110, 110, 110)
			fy := boxY + (boxH-float64(len(fallbacks[i]))*small)/2
			for j, line := range fallbacks[i] {
				e.pdf.SetXY(x, fy+float64(j)*small)
				e.pdf.CellFormat(colW, small, line, "", 0, AlignCenter, false, 0, "")
			}
			e.pdf.SetTextColor(0, 0, 0)
		}
		parts[i] = append(parts[i], strings.Join(headers[i], " "))
		parts[i] = append(parts[i], fallbacks[i]...)
	}

	flush := func(start, end float64) {
		var text []string
		for i := range parts {
			text = append(text, parts[i]...)
			parts[i] = nil
		}
		e.record(KindImageRow, start, end-start, 0, strings.Join(text, " | "))
	}

	start, cur := y, y+fixed
	e.pdf.SetFont(fontFamily, "", e.opts.FontSize-1)
	for j := 0; j < footerRows; j++ {
		if cur+small > e.bottom+0.001 {
			flush(start, cur)
			e.NewPage()
			e.pdf.SetFont(fontFamily, "", e.opts.FontSize-1)
			start, cur = e.top, e.top
		}
		for i := range cells {
			if j >= len(footers[i]) {
				continue
			}
			e.pdf.SetXY(e.left+float64(i)*colW, cur)
			e.pdf.CellFormat(colW, small, footers[i][j], "", 0, AlignCenter, false, 0, "")
			parts[i] = append(parts[i], footers[i][j])
		}
		cur += small
	}
	cur = min(cur+pad, e.bottom)

	e.pdf.SetFont(fontFamily, "", e.opts.FontSize)
	e.pdf.SetY(cur)
	flush(start, cur)
	return errs
}
