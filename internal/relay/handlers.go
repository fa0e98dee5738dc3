package relay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/alnah/go-leasepdf/internal/fetch"
)

func (s *server) handleRelay(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("url")
	validate := ValidateTarget
	if s.opts.AllowPrivate {
		validate = validateTarget
	}
	if err := validate(target); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, ErrPrivateTarget) {
			status = http.StatusForbidden
		}
		writeError(w, status, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.opts.Timeout)
	defer cancel()

	body, ctype, err := fetch.Get(ctx, s.opts.Client, target, s.opts.MaxBytes)
	if err != nil {
		s.opts.Logger.Warn("relay upstream failed", zap.String("target", target), zap.Error(err))
		status := http.StatusBadGateway
		if errors.Is(err, ErrPrivateTarget) {
			status = http.StatusForbidden
		}
		writeError(w, status, fmt.Errorf("upstream: %w", err))
		return
	}

	if ctype == "" {
		ctype = http.DetectContentType(body)
	}
	w.Header().Set("Content-Type", ctype)
	w.Header().Set("Cache-Control", "private, max-age=300")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func validateTarget(raw string) error {
	if raw == "" {
		return errors.New("missing url parameter")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("url has no host")
	}
	return nil
}

func (s *server) handleContract(w http.ResponseWriter, r *http.Request) {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		media, _, _ := mime.ParseMediaType(ct)
		if media != "application/json" {
			writeError(w, http.StatusUnsupportedMediaType, fmt.Errorf("content type %q (want application/json)", media))
			return
		}
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, s.opts.MaxBodyBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if int64(len(data)) > s.opts.MaxBodyBytes {
		writeError(w, http.StatusRequestEntityTooLarge, fmt.Errorf("body exceeds %d bytes", s.opts.MaxBodyBytes))
		return
	}

	var req ContractRequest
	if err := json.Unmarshal(data, &req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decoding body: %w", err))
		return
	}
	if req.Record == nil {
		writeError(w, http.StatusBadRequest, errors.New("record is required"))
		return
	}

	out, err := s.opts.Renderer.Render(r.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrInvalidRequest) {
			status = http.StatusBadRequest
		}
		s.opts.Logger.Error("render failed", zap.Error(err))
		writeError(w, status, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": out.Filename}))
	if len(out.Missing) > 0 {
		w.Header().Set("X-Missing-Images", strings.Join(out.Missing, ","))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out.PDF)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
