package leasepdf

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func TestHandler_RendersContract(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(t)
	srv := httptest.NewServer(g.Handler(ServerOptions{}))
	t.Cleanup(srv.Close)

	body, err := json.Marshal(map[string]any{
		"record":          lessorOnlyRecord(),
		"lessorSignature": DataURI(testPNG(t)),
	})
	if err != nil {
		t.Fatal(err)
	}

	resp, err := http.Post(srv.URL+"/contracts/pdf", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d, body = %s", resp.StatusCode, msg)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type = %q, want application/pdf", ct)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "hop-dong-HD-2024-001-20240305.pdf") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	pdf, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if err := Validate(pdf); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestHandler_RejectsMissingRecord(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(t)
	srv := httptest.NewServer(g.Handler(ServerOptions{}))
	t.Cleanup(srv.Close)

	resp, err := http.Post(srv.URL+"/contracts/pdf", "application/json", strings.NewReader(`{"lessorSignature": ""}`))
	if err != nil {
		t.Fatalf("POST error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}

func TestHandler_Healthz(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(t)
	rec := httptest.NewRecorder()
	g.Handler(ServerOptions{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}
