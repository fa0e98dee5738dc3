package leasepdf

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-leasepdf/internal/dateutil"
)

// Input is one contract to generate.
//
// Record is the raw contract record as decoded from JSON or YAML. Field names
// may follow any naming convention and missing fields render as placeholders.
// A non-empty LessorSignature or LesseeSignature replaces the signature image
// carried by the record. Signatures are image references: data URIs, http(s)
// URLs, or local paths when WithAllowLocalFiles is set.
type Input struct {
	Record          map[string]any
	LessorSignature string
	LesseeSignature string
}

// Result is a generated contract.
type Result struct {
	PDF        []byte
	Pages      int
	ContractID string   // empty when the record carries no identifier
	Filename   string   // suggested download name
	Missing    []string // image slots rendered as "image unavailable"
	// GenerationID correlates log lines of one Generate call.
	GenerationID string
	// Path is the written file. Set by Download and Preview.
	Path string
}

// PreviewResult reports how a preview was delivered.
type PreviewResult struct {
	*Result
	// Notice is set when the viewer failed and the document was saved
	// instead. It is informational, not an error.
	Notice string
}

// PageSettings configures PDF page layout.
type PageSettings struct {
	Size     string  // "a4", "a5", "letter", "legal"
	Margin   float64 // mm, 5 to 40
	FontSize float64 // points, 8 to 16
}

// Page defaults and limits.
const (
	PageSizeA4     = "a4"
	PageSizeA5     = "a5"
	PageSizeLetter = "letter"
	PageSizeLegal  = "legal"

	DefaultMargin   = 20.0
	DefaultFontSize = 11.0
	MinMargin       = 5.0
	MaxMargin       = 40.0
	MinFontSize     = 8.0
	MaxFontSize     = 16.0
)

// DefaultPageSettings returns A4 with 20mm margins and 11pt body text.
func DefaultPageSettings() PageSettings {
	return PageSettings{Size: PageSizeA4, Margin: DefaultMargin, FontSize: DefaultFontSize}
}

// Validate checks that page settings are valid.
func (p PageSettings) Validate() error {
	switch strings.ToLower(p.Size) {
	case PageSizeA4, PageSizeA5, PageSizeLetter, PageSizeLegal:
	default:
		return fmt.Errorf("%w: %q (must be a4, a5, letter or legal)", ErrInvalidPageSize, p.Size)
	}
	if p.Margin < MinMargin || p.Margin > MaxMargin {
		return fmt.Errorf("%w: %.1f (must be between %.0f and %.0f mm)", ErrInvalidMargin, p.Margin, MinMargin, MaxMargin)
	}
	if p.FontSize < MinFontSize || p.FontSize > MaxFontSize {
		return fmt.Errorf("%w: %.1f (must be between %.0f and %.0f)", ErrInvalidFontSize, p.FontSize, MinFontSize, MaxFontSize)
	}
	return nil
}

// Option configures a Generator.
type Option func(*Generator)

// generatorConfig holds internal configuration for Generator.
type generatorConfig struct {
	page           PageSettings
	relayURL       string
	proxies        []string
	attemptTimeout time.Duration
	maxImageBytes  int64
	browserDrawer  bool
	allowLocal     bool
	clauseSet      string
	assetPath      string
	filenameDate   string
	optimize       bool
	parallel       int
	client         *http.Client
	logger         *zap.Logger
	viewer         Viewer
	now            func() time.Time
}

// Defaults.
const (
	defaultAttemptTimeout = 10 * time.Second
	defaultMaxImageBytes  = 10 << 20
	defaultParallel       = 4
)

func defaultConfig() generatorConfig {
	return generatorConfig{
		page:           DefaultPageSettings(),
		attemptTimeout: defaultAttemptTimeout,
		maxImageBytes:  defaultMaxImageBytes,
		clauseSet:      DefaultClauseSet,
		filenameDate:   dateutil.DefaultFilenameFormat,
		parallel:       defaultParallel,
		now:            time.Now,
	}
}

// WithPage sets page size, margins and body font size.
func WithPage(p PageSettings) Option {
	return func(g *Generator) {
		g.cfg.page = p
	}
}

// WithRelayURL sets the trusted relay, tried before drawing images directly.
// The ref is passed as ?url=, or substituted for a {url} placeholder.
func WithRelayURL(u string) Option {
	return func(g *Generator) {
		g.cfg.relayURL = u
	}
}

// WithProxies sets the ordered third-party relays, tried after the direct
// draw. Each template receives the escaped ref at {url}, or appended.
func WithProxies(templates ...string) Option {
	return func(g *Generator) {
		g.cfg.proxies = append([]string(nil), templates...)
	}
}

// WithAttemptTimeout bounds every network attempt made for one image.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithAttemptTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("leasepdf: WithAttemptTimeout duration must be positive")
	}
	return func(g *Generator) {
		g.cfg.attemptTimeout = d
	}
}

// WithMaxImageBytes caps the size of one fetched image.
func WithMaxImageBytes(n int64) Option {
	return func(g *Generator) {
		if n > 0 {
			g.cfg.maxImageBytes = n
		}
	}
}

// WithBrowserDrawer draws remote images on a headless Chrome canvas, which
// applies the browser's cross-origin rules. Off by default.
func WithBrowserDrawer(enabled bool) Option {
	return func(g *Generator) {
		g.cfg.browserDrawer = enabled
	}
}

// WithAllowLocalFiles lets image references name local files.
// Leave off when records come from untrusted callers.
func WithAllowLocalFiles(enabled bool) Option {
	return func(g *Generator) {
		g.cfg.allowLocal = enabled
	}
}

// WithClauseSet selects the clause set by name (default "standard").
func WithClauseSet(name string) Option {
	return func(g *Generator) {
		g.cfg.clauseSet = name
	}
}

// WithAssetPath sets a directory holding custom clause sets in clauses/{name}.yaml.
func WithAssetPath(dir string) Option {
	return func(g *Generator) {
		g.cfg.assetPath = dir
	}
}

// WithFilenameDate sets the date token format used in download names
// (default "YYYYMMDD").
func WithFilenameDate(format string) Option {
	return func(g *Generator) {
		g.cfg.filenameDate = format
	}
}

// WithOptimize runs the PDF optimizer on every generated document.
func WithOptimize(enabled bool) Option {
	return func(g *Generator) {
		g.cfg.optimize = enabled
	}
}

// WithHTTPClient sets the client used for image fetches.
func WithHTTPClient(c *http.Client) Option {
	return func(g *Generator) {
		g.cfg.client = c
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(g *Generator) {
		g.cfg.logger = l
	}
}

// WithViewer sets the viewer used by Preview.
func WithViewer(v Viewer) Option {
	return func(g *Generator) {
		g.cfg.viewer = v
	}
}

// WithNow sets the clock used for the contract date when the record has
// none, and for download names.
func WithNow(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.cfg.now = now
		}
	}
}
