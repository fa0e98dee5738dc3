package leasepdf

import (
	"errors"

	"github.com/alnah/go-leasepdf/internal/chrome"
	"github.com/alnah/go-leasepdf/internal/fetch"
)

// Sentinel errors for library operations.
var (
	ErrNilRecord     = errors.New("contract record is nil")
	ErrPDFGeneration = errors.New("PDF generation failed")
	ErrRecordParse   = errors.New("failed to parse contract record")
	ErrOutputWrite   = errors.New("failed to write PDF")
	ErrPreview       = errors.New("preview failed")

	// ErrBrowserConnect indicates Chrome could not be launched or reached.
	ErrBrowserConnect = chrome.ErrBrowserConnect

	// Option validation errors.
	ErrInvalidPageSize     = errors.New("invalid page size")
	ErrInvalidMargin       = errors.New("invalid margin")
	ErrInvalidFontSize     = errors.New("invalid font size")
	ErrInvalidFilenameDate = errors.New("invalid filename date format")

	// Clause set loading errors.
	ErrClauseSetNotFound   = errors.New("clause set not found")
	ErrIncompleteClauseSet = errors.New("clause set missing required article")
	ErrInvalidAssetPath    = errors.New("invalid asset path")

	// Image resolution errors, reported through Result.Missing and logs.
	ErrImageUnfetchable = fetch.ErrUnfetchable
	ErrImageExhausted   = fetch.ErrExhausted
)
