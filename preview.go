package leasepdf

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"

	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"github.com/alnah/go-leasepdf/internal/chrome"
	"github.com/alnah/go-leasepdf/internal/fileutil"
)

// Viewer shows a PDF file to the user.
type Viewer interface {
	View(ctx context.Context, path string) error
}

// Compile-time interface check.
var _ Viewer = (*BrowserViewer)(nil)

// BrowserViewer opens PDFs in a visible Chrome window that stays open after
// the process exits.
type BrowserViewer struct {
	session *chrome.Session
}

// NewBrowserViewer returns a viewer whose window starts on first use.
func NewBrowserViewer() *BrowserViewer {
	return &BrowserViewer{session: chrome.NewWindowSession()}
}

// View opens path in a new tab.
func (v *BrowserViewer) View(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	browser, err := v.session.Browser()
	if err != nil {
		return err
	}
	target := (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
	if _, err := browser.Context(ctx).Page(proto.TargetCreateTarget{URL: target}); err != nil {
		return fmt.Errorf("opening tab: %w", err)
	}
	return nil
}

// PreviewNotice is the message shown when the viewer could not open the
// document and it was saved instead.
const PreviewNotice = "Không mở được bản xem trước; hợp đồng đã được lưu tại %s"

// Preview generates in and opens it in the configured viewer. When the
// viewer fails, the document is saved to dir like Download and
// PreviewResult.Notice says where. Only generation and save failures are
// errors.
func (g *Generator) Preview(ctx context.Context, in Input, dir string) (*PreviewResult, error) {
	res, err := g.Generate(ctx, in)
	if err != nil {
		return nil, err
	}

	path, err := g.view(ctx, res.PDF)
	if err == nil {
		res.Path = path
		return &PreviewResult{Result: res}, nil
	}
	g.logger.Warn("preview failed, saving instead", zap.Error(err))

	if err := g.save(res, dir); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPreview, err)
	}
	return &PreviewResult{
		Result: res,
		Notice: fmt.Sprintf(PreviewNotice, res.Path),
	}, nil
}

// view hands pdf to the viewer through a temp file. The file is kept on
// success because the viewer reads it after View returns.
func (g *Generator) view(ctx context.Context, pdf []byte) (string, error) {
	path, cleanup, err := fileutil.WriteTempFile(pdf, "pdf")
	if err != nil {
		return "", err
	}
	if err := g.cfg.viewer.View(ctx, path); err != nil {
		cleanup()
		return "", err
	}
	return path, nil
}
