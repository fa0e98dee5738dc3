// Package relay serves the trusted image relay and the contract HTTP API.
//
//	GET  /relay?url=<http(s) URL>   upstream bytes, verbatim content type
//	POST /contracts/pdf             JSON {record, lessorSignature, lesseeSignature}
//	GET  /healthz                   liveness
package relay

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/alnah/go-leasepdf/internal/fetch"
)

// ErrInvalidRequest marks Renderer errors caused by the request body.
var ErrInvalidRequest = errors.New("invalid request")

// Defaults.
const (
	DefaultTimeout      = 10 * time.Second
	DefaultMaxBodyBytes = 5 << 20
)

// ContractRequest is the body of POST /contracts/pdf.
type ContractRequest struct {
	Record          map[string]any `json:"record"`
	LessorSignature string         `json:"lessorSignature,omitempty"`
	LesseeSignature string         `json:"lesseeSignature,omitempty"`
}

// Rendered is a generated contract.
type Rendered struct {
	PDF      []byte
	Filename string
	Missing  []string
}

// Renderer generates contract PDFs.
type Renderer interface {
	Render(ctx context.Context, req ContractRequest) (*Rendered, error)
}

// Options configures the router. Zero values select defaults.
type Options struct {
	Client       *http.Client
	Timeout      time.Duration // per upstream fetch
	MaxBytes     int64         // per upstream body
	MaxBodyBytes int64         // per API request body
	Renderer     Renderer      // nil disables /contracts/pdf
	Logger       *zap.Logger
	// AllowPrivate lets /relay reach loopback and private networks. When
	// false, targets are checked with ValidateTarget and a nil Client is
	// replaced by NewGuardedClient.
	AllowPrivate bool
}

func (o *Options) defaults() {
	if o.Client == nil {
		if o.AllowPrivate {
			o.Client = fetch.NewHTTPClient()
		} else {
			o.Client = NewGuardedClient()
		}
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.MaxBytes <= 0 {
		o.MaxBytes = fetch.DefaultMaxBytes
	}
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
}

// NewRouter returns the HTTP handler.
func NewRouter(opts Options) http.Handler {
	opts.defaults()
	s := &server{opts: opts}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(opts.Logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"Content-Disposition", "X-Missing-Images"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/relay", s.handleRelay)
	if opts.Renderer != nil {
		r.Post("/contracts/pdf", s.handleContract)
	}
	return r
}

type server struct {
	opts Options
}

// requestLogger logs one line per request.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("request",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("elapsed", time.Since(start)),
			)
		})
	}
}

// Serve runs handler on addr until ctx is canceled, then shuts down.
func Serve(ctx context.Context, addr string, handler http.Handler, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
