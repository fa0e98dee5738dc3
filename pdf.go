package leasepdf

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

func init() {
	// pdfcpu would otherwise create a config directory on first use.
	api.DisableConfigDir()
}

func pdfConfig() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// PageCount returns the number of pages in a PDF.
func PageCount(pdf []byte) (int, error) {
	n, err := api.PageCount(bytes.NewReader(pdf), pdfConfig())
	if err != nil {
		return 0, fmt.Errorf("counting pages: %w", err)
	}
	return n, nil
}

// Validate checks that pdf is a well-formed PDF document.
func Validate(pdf []byte) error {
	if err := api.Validate(bytes.NewReader(pdf), pdfConfig()); err != nil {
		return fmt.Errorf("validating PDF: %w", err)
	}
	return nil
}

// Optimize rewrites pdf with shared resources deduplicated.
func Optimize(pdf []byte) ([]byte, error) {
	var out bytes.Buffer
	if err := api.Optimize(bytes.NewReader(pdf), &out, pdfConfig()); err != nil {
		return nil, fmt.Errorf("optimizing PDF: %w", err)
	}
	return out.Bytes(), nil
}
