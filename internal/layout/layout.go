// Package layout places text, tables and images on PDF pages.
//
// The engine owns the vertical cursor. Before placing a block it measures the
// block's full height and starts a new page when the block does not fit, so
// no line, image, table row or image row is ever cut by a page boundary.
// Blocks taller than a whole page are split between lines: text, table rows
// (with the header repeated), image captions and image-row footers.
package layout

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/alnah/go-leasepdf/internal/textutil"
)

// Sentinel errors.
var (
	ErrRender = errors.New("PDF render failed")
	ErrImage  = errors.New("image registration failed")
)

// Kind classifies a placement.
type Kind string

// Placement kinds.
const (
	KindText     Kind = "text"
	KindHeading  Kind = "heading"
	KindLabel    Kind = "label"
	KindImage    Kind = "image"
	KindImageRow Kind = "image-row"
	KindTableRow Kind = "table-row"
	KindRule     Kind = "rule"
)

// Placement records where a block landed.
type Placement struct {
	Page  int
	Y     float64
	H     float64
	Kind  Kind
	Lines int    // text lines, for text kinds and table rows
	Text  string // placed text as rendered, cells joined by " | "
}

// Options configures page geometry and document metadata.
type Options struct {
	PageSize string    // "A4", "Letter", ...
	Margin   float64   // mm on every side
	FontSize float64   // body size in points
	Title    string
	Author   string
	Created  time.Time // stamped as creation and modification date
	Footer   string    // printf pattern with %d for the page; {nb} is the page total
}

// Defaults.
const (
	DefaultPageSize = "A4"
	DefaultMargin   = 20.0
	DefaultFontSize = 11.0
	DefaultFooter   = "Trang %d/{nb}"

	fontFamily   = "Helvetica"
	lineSpacing  = 1.45
	footerHeight = 8.0
)

// Align values for text.
const (
	AlignLeft   = "L"
	AlignCenter = "C"
	AlignRight  = "R"
)

// Engine lays out one document. Not safe for concurrent use.
type Engine struct {
	pdf  *fpdf.Fpdf
	tr   func(string) string
	opts Options

	pageW, pageH float64
	left, right  float64
	top, bottom  float64 // bottom is the lowest usable y

	placements []Placement
	images     int
}

// New starts a document with one empty page.
func New(opts Options) *Engine {
	if opts.PageSize == "" {
		opts.PageSize = DefaultPageSize
	}
	if opts.Margin <= 0 {
		opts.Margin = DefaultMargin
	}
	if opts.FontSize <= 0 {
		opts.FontSize = DefaultFontSize
	}
	if opts.Footer == "" {
		opts.Footer = DefaultFooter
	}
	if opts.Created.IsZero() {
		opts.Created = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	}

	pdf := fpdf.New("P", "mm", opts.PageSize, "")
	e := &Engine{
		pdf:  pdf,
		tr:   pdf.UnicodeTranslatorFromDescriptor(""),
		opts: opts,
	}

	pdf.SetMargins(opts.Margin, opts.Margin, opts.Margin)
	pdf.SetAutoPageBreak(false, opts.Margin)
	pdf.SetCreationDate(opts.Created)
	pdf.SetModificationDate(opts.Created)
	pdf.SetCatalogSort(true)
	pdf.SetCompression(true)
	pdf.AliasNbPages("")
	if opts.Title != "" {
		pdf.SetTitle(e.text(opts.Title), false)
	}
	if opts.Author != "" {
		pdf.SetAuthor(e.text(opts.Author), false)
	}
	pdf.SetCreator("leasepdf", false)
	pdf.SetFooterFunc(e.footer)

	e.pageW, e.pageH = pdf.GetPageSize()
	e.left, e.right = opts.Margin, opts.Margin
	e.top = opts.Margin
	e.bottom = e.pageH - opts.Margin

	pdf.AddPage()
	pdf.SetFont(fontFamily, "", opts.FontSize)
	return e
}

func (e *Engine) footer() {
	e.pdf.SetFont(fontFamily, "I", e.opts.FontSize-2)
	e.pdf.SetTextColor(120, 120, 120)
	e.pdf.SetXY(e.left, e.pageH-e.opts.Margin+(e.opts.Margin-footerHeight)/2)
	e.pdf.CellFormat(e.ContentWidth(), footerHeight, fmt.Sprintf(e.opts.Footer, e.pdf.PageNo()), "", 0, AlignCenter, false, 0, "")
	e.pdf.SetTextColor(0, 0, 0)
}

// text prepares a string for the core fonts.
func (e *Engine) text(s string) string {
	return e.tr(textutil.Sanitize(s))
}

// Page returns the current page number, starting at 1.
func (e *Engine) Page() int { return e.pdf.PageNo() }

// Cursor returns the current vertical position in mm.
func (e *Engine) Cursor() float64 { return e.pdf.GetY() }

// Remaining returns the usable height left on the current page.
func (e *Engine) Remaining() float64 { return e.bottom - e.pdf.GetY() }

// ContentWidth returns the width between the margins.
func (e *Engine) ContentWidth() float64 { return e.pageW - e.left - e.right }

// ContentHeight returns the usable height of a full page.
func (e *Engine) ContentHeight() float64 { return e.bottom - e.top }

// Placements returns every placement so far, in order.
func (e *Engine) Placements() []Placement {
	return append([]Placement(nil), e.placements...)
}

// NewPage moves to the top of a fresh page.
func (e *Engine) NewPage() {
	e.pdf.AddPage()
	e.pdf.SetFont(fontFamily, "", e.opts.FontSize)
	e.pdf.SetY(e.top)
}

// FreshPage starts a new page unless the current one is still empty.
func (e *Engine) FreshPage() {
	if !e.atTop() {
		e.NewPage()
	}
}

// atTop reports whether nothing has been placed on the current page.
func (e *Engine) atTop() bool { return e.pdf.GetY() <= e.top+0.01 }

// ensure starts a new page unless h fits in the remaining space. Callers
// split blocks taller than a page before asking for more than a page.
func (e *Engine) ensure(h float64) {
	if h > e.Remaining() && !e.atTop() {
		e.NewPage()
	}
}

// lineHeight returns the line height for a font size in points.
func (e *Engine) lineHeight(size float64) float64 {
	return e.pdf.PointConvert(size) * lineSpacing
}

func (e *Engine) record(kind Kind, y, h float64, lines int, text string) {
	e.placements = append(e.placements, Placement{Page: e.Page(), Y: y, H: h, Kind: kind, Lines: lines, Text: text})
}

// Space advances the cursor by h, or to the next page when h does not fit.
func (e *Engine) Space(h float64) {
	if h >= e.Remaining() {
		e.NewPage()
		return
	}
	if e.atTop() {
		return
	}
	e.pdf.SetY(e.pdf.GetY() + h)
}

// Rule draws a thin horizontal line across the content width.
func (e *Engine) Rule() {
	const h = 2.0
	e.ensure(h)
	y := e.pdf.GetY() + h/2
	e.pdf.SetDrawColor(160, 160, 160)
	e.pdf.SetLineWidth(0.2)
	e.pdf.Line(e.left, y, e.pageW-e.right, y)
	e.record(KindRule, e.pdf.GetY(), h, 0, "")
	e.pdf.SetY(e.pdf.GetY() + h)
}

// Output finalizes the document and returns its bytes.
func (e *Engine) Output() ([]byte, error) {
	if e.pdf.Err() {
		return nil, fmt.Errorf("%w: %v", ErrRender, e.pdf.Error())
	}
	var buf bytes.Buffer
	if err := e.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}
	return buf.Bytes(), nil
}
