package leasepdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alnah/go-leasepdf/internal/assembler"
	"github.com/alnah/go-leasepdf/internal/assets"
	"github.com/alnah/go-leasepdf/internal/chrome"
	"github.com/alnah/go-leasepdf/internal/dateutil"
	"github.com/alnah/go-leasepdf/internal/fetch"
	"github.com/alnah/go-leasepdf/internal/fileutil"
	"github.com/alnah/go-leasepdf/internal/layout"
	"github.com/alnah/go-leasepdf/internal/record"
	"github.com/alnah/go-leasepdf/internal/textutil"
)

// Generator turns contract records into PDF documents.
// Create with NewGenerator, call Generate, Download or Preview, and Close when
// done. A Generator is safe for concurrent use: every call owns its layout
// engine, reconciled record and image cache.
type Generator struct {
	cfg     generatorConfig
	clauses *assets.ClauseSet
	images  fetch.Source
	session *chrome.Session // headless browser for the canvas drawer
	logger  *zap.Logger
}

// NewGenerator creates a Generator. Options are validated and the clause set
// is loaded once.
func NewGenerator(opts ...Option) (*Generator, error) {
	g := &Generator{cfg: defaultConfig()}
	for _, opt := range opts {
		opt(g)
	}

	if err := g.cfg.page.Validate(); err != nil {
		return nil, err
	}
	if _, err := dateutil.ParseDateFormat(g.cfg.filenameDate); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFilenameDate, err)
	}

	cs, err := loadClauseSet(g.cfg.assetPath, g.cfg.clauseSet)
	if err != nil {
		return nil, fmt.Errorf("loading clause set: %w", err)
	}
	g.clauses = cs

	g.logger = g.cfg.logger
	if g.logger == nil {
		g.logger = zap.NewNop()
	}

	client := g.cfg.client
	if client == nil {
		client = fetch.NewHTTPClient()
	}
	var drawer fetch.Drawer
	if g.cfg.browserDrawer {
		g.session = chrome.NewSession()
		drawer = fetch.NewBrowserDrawer(g.session)
	}
	g.images = fetch.New(fetch.Config{
		RelayURL:        g.cfg.relayURL,
		Proxies:         g.cfg.proxies,
		Timeout:         g.cfg.attemptTimeout,
		MaxBytes:        g.cfg.maxImageBytes,
		AllowLocalFiles: g.cfg.allowLocal,
		Client:          client,
		Drawer:          drawer,
		Logger:          g.logger,
	})

	if g.cfg.viewer == nil {
		g.cfg.viewer = NewBrowserViewer()
	}
	return g, nil
}

// Close releases the headless browser, if one was started.
// The preview window is left open for the user.
func (g *Generator) Close() error {
	if g.session == nil {
		return nil
	}
	return g.session.Close()
}

// Generate renders in as a PDF.
// The only errors are a nil record (ErrNilRecord) and a PDF writer failure
// (ErrPDFGeneration). Missing fields render as placeholders and images that
// cannot be fetched render as labels listed in Result.Missing.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (g *Generator) Generate(ctx context.Context, in Input) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: internal error: %v", ErrPDFGeneration, r)
		}
	}()

	if in.Record == nil {
		return nil, ErrNilRecord
	}

	genID := uuid.NewString()
	logger := g.logger.With(zap.String("generation_id", genID))
	now := g.cfg.now()

	out, err := assembler.Assemble(ctx, assembler.Input{
		Record:          in.Record,
		LessorSignature: in.LessorSignature,
		LesseeSignature: in.LesseeSignature,
	}, assembler.Deps{
		Clauses: g.clauses,
		Images:  g.images,
		Page: layout.Options{
			PageSize: g.cfg.page.Size,
			Margin:   g.cfg.page.Margin,
			FontSize: g.cfg.page.FontSize,
		},
		Logger:      logger,
		Now:         now,
		MaxParallel: g.cfg.parallel,
	})
	if err != nil {
		if errors.Is(err, assembler.ErrNilRecord) {
			return nil, ErrNilRecord
		}
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	pdf := out.PDF
	if g.cfg.optimize {
		optimized, err := Optimize(pdf)
		if err != nil {
			logger.Warn("optimize failed, keeping unoptimized output", zap.Error(err))
		} else {
			pdf = optimized
		}
	}

	id := out.Contract.ID
	if id == record.Placeholder {
		id = ""
	}
	if len(out.Missing) > 0 {
		logger.Warn("images unavailable", zap.Strings("slots", out.Missing))
	}
	logger.Info("contract generated",
		zap.String("contract_id", id),
		zap.Int("pages", out.Pages),
		zap.Int("bytes", len(pdf)))

	return &Result{
		PDF:          pdf,
		Pages:        out.Pages,
		ContractID:   id,
		Filename:     g.filename(id, now),
		Missing:      out.Missing,
		GenerationID: genID,
	}, nil
}

// Download generates in and writes it to dir under its derived filename.
// An empty dir is the current directory. Result.Path is the written file.
func (g *Generator) Download(ctx context.Context, in Input, dir string) (*Result, error) {
	res, err := g.Generate(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := g.save(res, dir); err != nil {
		return nil, err
	}
	return res, nil
}

func (g *Generator) save(res *Result, dir string) error {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("%w: creating %s: %v", ErrOutputWrite, dir, err)
	}
	path := filepath.Join(dir, res.Filename)
	if err := fileutil.WriteAtomic(path, res.PDF, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrOutputWrite, err)
	}
	res.Path = path
	return nil
}

// FilenamePrefix starts every derived download name.
const FilenamePrefix = "hop-dong"

// filename builds "hop-dong-<id>-<date>.pdf", dropping the id when it has no
// file-safe characters.
func (g *Generator) filename(id string, now time.Time) string {
	parts := []string{FilenamePrefix}
	if safe := fileutil.SafeName(textutil.Sanitize(id)); safe != "" {
		parts = append(parts, safe)
	}
	if stamp, err := dateutil.Format(now, g.cfg.filenameDate); err == nil {
		if safe := fileutil.SafeName(stamp); safe != "" {
			parts = append(parts, safe)
		}
	}
	return strings.Join(parts, "-") + ".pdf"
}
