// Package fetch turns image references into image bytes.
//
// A reference may be an inline data URI, a local file, or a remote URL that
// is often hosted without CORS headers. Resolve walks a fixed escalation
// chain and stops at the first strategy that yields a decodable image:
//
//	inline        data: URIs decoded in place
//	local-handle  blob: and filesystem: refs, unfetchable outside their page
//	file          file:// refs and paths, when local files are allowed
//	relay         the trusted relay endpoint, {relay}?url={ref}
//	direct        the configured Drawer pointed at the ref
//	proxy-image   the Drawer pointed at each third-party relay in order
//	proxy-raw     a raw GET through each third-party relay in order
//
// Every network attempt runs under its own timeout and is reported to an
// optional observer.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-leasepdf/internal/imgformat"
)

// Sentinel errors.
var (
	// ErrNotApplicable tells the chain to move to the next strategy.
	ErrNotApplicable = errors.New("strategy not applicable")
	// ErrUnfetchable stops the chain: no strategy can ever fetch the ref.
	ErrUnfetchable = errors.New("reference cannot be fetched")
	// ErrExhausted means every applicable strategy failed.
	ErrExhausted = errors.New("all fetch strategies failed")
	// ErrTainted means the image loaded but its pixels could not be read.
	ErrTainted = errors.New("image is cross-origin tainted")
	// ErrNotImage means a body could not be converted to image bytes.
	ErrNotImage = errors.New("response is not an image")
	// ErrTooLarge means a body exceeded the size cap.
	ErrTooLarge = errors.New("response exceeds size limit")
	// ErrStatus means an endpoint answered with a non-2xx status.
	ErrStatus = errors.New("unexpected HTTP status")
)

// Strategy names, in chain order.
const (
	StrategyInline      = "inline"
	StrategyLocalHandle = "local-handle"
	StrategyFile        = "file"
	StrategyRelay       = "relay"
	StrategyDirect      = "direct"
	StrategyProxyImage  = "proxy-image"
	StrategyProxyRaw    = "proxy-raw"
)

// Defaults.
const (
	DefaultTimeout  = 10 * time.Second
	DefaultMaxBytes = 10 << 20
	MaxRedirects    = 5
)

// Asset is a resolved image.
type Asset struct {
	Data     []byte
	Format   imgformat.Format
	Source   string // the reference as given
	Strategy string
	Endpoint string
}

// Attempt describes one strategy attempt.
type Attempt struct {
	Strategy string
	Endpoint string
	Err      error
	Elapsed  time.Duration
}

// Source resolves references. Implemented by *Resolver and *Cache.
type Source interface {
	Resolve(ctx context.Context, ref string) (*Asset, error)
}

// Config configures a Resolver. Zero values select defaults.
type Config struct {
	RelayURL        string
	Proxies         []string
	Timeout         time.Duration
	MaxBytes        int64
	AllowLocalFiles bool
	Client          *http.Client
	Drawer          Drawer // nil selects an HTTPDrawer on Client
	Observer        func(Attempt)
	Logger          *zap.Logger
}

// Resolver runs the escalation chain. It holds no per-call state and is safe
// for concurrent use.
type Resolver struct {
	relayURL   string
	proxies    []string
	timeout    time.Duration
	maxBytes   int64
	allowLocal bool
	client     *http.Client
	drawer     Drawer
	observer   func(Attempt)
	logger     *zap.Logger
}

// Compile-time interface checks.
var (
	_ Source = (*Resolver)(nil)
	_ Source = (*Cache)(nil)
)

// New builds a Resolver from cfg.
func New(cfg Config) *Resolver {
	r := &Resolver{
		relayURL:   strings.TrimSpace(cfg.RelayURL),
		proxies:    append([]string(nil), cfg.Proxies...),
		timeout:    cfg.Timeout,
		maxBytes:   cfg.MaxBytes,
		allowLocal: cfg.AllowLocalFiles,
		client:     cfg.Client,
		drawer:     cfg.Drawer,
		observer:   cfg.Observer,
		logger:     cfg.Logger,
	}
	if r.timeout <= 0 {
		r.timeout = DefaultTimeout
	}
	if r.maxBytes <= 0 {
		r.maxBytes = DefaultMaxBytes
	}
	if r.client == nil {
		r.client = NewHTTPClient()
	}
	if r.drawer == nil {
		r.drawer = NewHTTPDrawer(r.client, r.maxBytes)
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	return r
}

// NewHTTPClient returns a client that follows at most MaxRedirects redirects.
// Timeouts come from the per-attempt context.
func NewHTTPClient() *http.Client {
	return &http.Client{
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= MaxRedirects {
				return fmt.Errorf("stopped after %d redirects", MaxRedirects)
			}
			return nil
		},
	}
}

type strategy struct {
	name string
	run  func(ctx context.Context, ref string) (*Asset, error)
}

func (r *Resolver) chain() []strategy {
	return []strategy{
		{StrategyInline, r.inline},
		{StrategyLocalHandle, r.localHandle},
		{StrategyFile, r.file},
		{StrategyRelay, r.relay},
		{StrategyDirect, r.direct},
		{StrategyProxyImage, r.proxyImage},
		{StrategyProxyRaw, r.proxyRaw},
	}
}

// Resolve walks the chain for ref. It returns ErrUnfetchable for refs no
// strategy can handle, and ErrExhausted joined with every attempt's error
// when all applicable strategies fail.
func (r *Resolver) Resolve(ctx context.Context, ref string) (*Asset, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("%w: empty reference", ErrUnfetchable)
	}

	var errs []error
	for _, s := range r.chain() {
		asset, err := s.run(ctx, ref)
		if err == nil {
			asset.Source = ref
			asset.Strategy = s.name
			return asset, nil
		}
		if errors.Is(err, ErrNotApplicable) {
			continue
		}
		if errors.Is(err, ErrUnfetchable) {
			return nil, err
		}
		errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
		if ctx.Err() != nil {
			break
		}
	}
	return nil, fmt.Errorf("%w: %s: %w", ErrExhausted, redact(ref), errors.Join(errs...))
}

// attempt runs fn under its own timeout and reports the outcome.
func (r *Resolver) attempt(ctx context.Context, name, endpoint string, fn func(ctx context.Context) (*Asset, error)) (*Asset, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	asset, err := fn(ctx)
	elapsed := time.Since(start)

	if err == nil && asset != nil {
		asset.Endpoint = endpoint
	}
	r.report(Attempt{Strategy: name, Endpoint: endpoint, Err: err, Elapsed: elapsed})
	return asset, err
}

func (r *Resolver) report(a Attempt) {
	r.logger.Debug("asset attempt",
		zap.String("strategy", a.Strategy),
		zap.String("endpoint", redact(a.Endpoint)),
		zap.Duration("elapsed", a.Elapsed),
		zap.Error(a.Err),
	)
	if r.observer != nil {
		r.observer(a)
	}
}

// redact shortens data URIs so logs and errors stay readable.
func redact(ref string) string {
	if strings.HasPrefix(ref, "data:") {
		if i := strings.IndexByte(ref, ','); i >= 0 {
			return ref[:i+1] + "..."
		}
	}
	if len(ref) > 200 {
		return ref[:200] + "..."
	}
	return ref
}
