package leasepdf

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/alnah/go-leasepdf/internal/relay"
)

// ServerOptions configures Handler. Zero values select defaults.
type ServerOptions struct {
	MaxBodyBytes  int64         // per POST /contracts/pdf body (default 5 MiB)
	RelayTimeout  time.Duration // per upstream fetch in GET /relay (default 10s)
	RelayMaxBytes int64         // per upstream body in GET /relay (default 10 MiB)
}

// Handler returns the HTTP API:
//
//	POST /contracts/pdf  {"record": {...}, "lessorSignature": "...", "lesseeSignature": "..."}
//	GET  /relay?url=     trusted image relay for remote images
//	GET  /healthz
//
// Serve it with a Generator built without WithAllowLocalFiles.
func (g *Generator) Handler(opts ServerOptions) http.Handler {
	return relay.NewRouter(relay.Options{
		Timeout:      opts.RelayTimeout,
		MaxBytes:     opts.RelayMaxBytes,
		MaxBodyBytes: opts.MaxBodyBytes,
		Renderer:     renderer{g},
		Logger:       g.logger,
	})
}

// Serve runs Handler on addr until ctx is canceled.
func (g *Generator) Serve(ctx context.Context, addr string, opts ServerOptions) error {
	return relay.Serve(ctx, addr, g.Handler(opts), g.logger)
}

type renderer struct {
	g *Generator
}

func (r renderer) Render(ctx context.Context, req relay.ContractRequest) (*relay.Rendered, error) {
	res, err := r.g.Generate(ctx, Input{
		Record:          req.Record,
		LessorSignature: req.LessorSignature,
		LesseeSignature: req.LesseeSignature,
	})
	if err != nil {
		if errors.Is(err, ErrNilRecord) {
			return nil, fmt.Errorf("%w: %v", relay.ErrInvalidRequest, err)
		}
		return nil, err
	}
	return &relay.Rendered{PDF: res.PDF, Filename: res.Filename, Missing: res.Missing}, nil
}
