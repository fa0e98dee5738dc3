//go:build integration

package leasepdf

// Notes:
// - Needs Chrome (ROD_BROWSER_BIN or a system install); skipped otherwise.
// - Images come from httptest servers. The only variable between cases is
//   the Access-Control-Allow-Origin header, which decides whether the canvas
//   can read the pixels.

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alnah/go-leasepdf/internal/chrome"
)

const integrationTimeout = 30 * time.Second

func requireChrome(t *testing.T) {
	t.Helper()
	if _, ok := chrome.LookPath(); !ok {
		t.Skip("Chrome not available")
	}
}

// ---------------------------------------------------------------------------
// TestGenerate_BrowserDrawer - Canvas drawing of remote signatures
// ---------------------------------------------------------------------------

func TestGenerate_BrowserDrawer(t *testing.T) {
	requireChrome(t)

	img := testPNG(t)
	tests := []struct {
		name        string
		cors        bool
		wantMissing bool
	}{
		{name: "cors image is drawn", cors: true, wantMissing: false},
		{name: "opaque image degrades", cors: false, wantMissing: true},
	}

	g := newTestGenerator(t, WithBrowserDrawer(true), WithAttemptTimeout(10*time.Second))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				if tt.cors {
					w.Header().Set("Access-Control-Allow-Origin", "*")
				}
				w.Header().Set("Content-Type", "image/png")
				_, _ = w.Write(img)
			}))
			defer srv.Close()

			ctx, cancel := context.WithTimeout(context.Background(), integrationTimeout)
			defer cancel()

			res, err := g.Generate(ctx, Input{Record: lessorOnlyRecord(), LessorSignature: srv.URL + "/sig.png"})
			if err != nil {
				t.Fatalf("Generate() error = %v", err)
			}
			if got := len(res.Missing) > 0; got != tt.wantMissing {
				t.Errorf("Missing = %v, want missing %v", res.Missing, tt.wantMissing)
			}
			if err := Validate(res.PDF); err != nil {
				t.Errorf("Validate() = %v", err)
			}
		})
	}
}
