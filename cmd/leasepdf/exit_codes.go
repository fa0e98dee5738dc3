package main

import (
	"errors"
	"os"

	"github.com/alnah/go-leasepdf"
	"github.com/alnah/go-leasepdf/internal/assets"
	"github.com/alnah/go-leasepdf/internal/config"
	"github.com/alnah/go-leasepdf/internal/dateutil"
	"github.com/alnah/go-leasepdf/internal/logging"
)

// Exit codes for leasepdf CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful generation
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or record
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, leasepdf.ErrBrowserConnect) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadRecord) ||
		errors.Is(err, ErrWritePDF) ||
		errors.Is(err, leasepdf.ErrOutputWrite) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, dateutil.ErrInvalidDateFormat) ||
		errors.Is(err, assets.ErrInvalidAssetName) ||
		errors.Is(err, logging.ErrInvalidLevel) ||
		errors.Is(err, logging.ErrInvalidFormat) ||
		errors.Is(err, leasepdf.ErrRecordParse) ||
		errors.Is(err, leasepdf.ErrNilRecord) ||
		errors.Is(err, leasepdf.ErrInvalidPageSize) ||
		errors.Is(err, leasepdf.ErrInvalidMargin) ||
		errors.Is(err, leasepdf.ErrInvalidFontSize) ||
		errors.Is(err, leasepdf.ErrInvalidFilenameDate) ||
		errors.Is(err, leasepdf.ErrClauseSetNotFound) ||
		errors.Is(err, leasepdf.ErrIncompleteClauseSet) ||
		errors.Is(err, leasepdf.ErrInvalidAssetPath) {
		return ExitUsage
	}

	return ExitGeneral
}
