package fetch

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/goccy/go-json"

	"github.com/alnah/go-leasepdf/internal/imgformat"
)

const userAgent = "leasepdf/1 (+image fetch)"

// Get performs a bounded GET and returns the body and its content type.
// Non-2xx answers yield ErrStatus and oversized bodies ErrTooLarge.
func Get(ctx context.Context, client *http.Client, endpoint string, maxBytes int64) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "image/*,*/*;q=0.8")

	resp, err := client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, "", fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, "", err
	}
	if int64(len(body)) > maxBytes {
		return nil, "", fmt.Errorf("%w: more than %d bytes", ErrTooLarge, maxBytes)
	}
	return body, resp.Header.Get("Content-Type"), nil
}

// envelope is the JSON wrapper some relays return around fetched content.
type envelope struct {
	Contents string `json:"contents"`
	Status   struct {
		ContentType string `json:"content_type"`
	} `json:"status"`
}

// bitmap converts a response body into image bytes. It accepts raw image
// bytes, a data URI, base64 text, or a JSON envelope carrying one of those.
func bitmap(body []byte, contentType string) (*Asset, error) {
	return bitmapDepth(body, contentType, 0)
}

func bitmapDepth(body []byte, contentType string, depth int) (*Asset, error) {
	if _, ok := imgformat.FromMagic(body); ok {
		return decodable(body, imgformat.Sniff(body, contentType))
	}

	text := bytes.TrimSpace(body)
	switch {
	case len(text) == 0:
		return nil, fmt.Errorf("%w: empty body", ErrNotImage)
	case bytes.HasPrefix(text, []byte("data:")):
		return decodeDataURI(string(text))
	case text[0] == '{' && depth == 0:
		var env envelope
		if err := json.Unmarshal(text, &env); err != nil {
			return nil, fmt.Errorf("%w: bad JSON envelope: %v", ErrNotImage, err)
		}
		if env.Contents == "" {
			return nil, fmt.Errorf("%w: JSON envelope without contents", ErrNotImage)
		}
		return bitmapDepth([]byte(env.Contents), env.Status.ContentType, depth+1)
	}

	if data, ok := decodeBase64(string(text)); ok {
		if _, ok := imgformat.FromMagic(data); ok {
			return decodable(data, imgformat.Sniff(data, contentType))
		}
	}
	return nil, fmt.Errorf("%w: unrecognized content (%s)", ErrNotImage, contentTypeOr(contentType))
}

// decodeDataURI decodes "data:[<media type>][;base64],<data>".
func decodeDataURI(ref string) (*Asset, error) {
	rest := ref[len("data:"):]
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, fmt.Errorf("%w: malformed data URI", ErrNotImage)
	}

	var data []byte
	if strings.HasSuffix(strings.ToLower(meta), ";base64") {
		decoded, ok := decodeBase64(payload)
		if !ok {
			return nil, fmt.Errorf("%w: invalid base64 in data URI", ErrNotImage)
		}
		data = decoded
	} else {
		unescaped, err := url.PathUnescape(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotImage, err)
		}
		data = []byte(unescaped)
	}

	media, _, _ := strings.Cut(meta, ";")
	return decodable(data, imgformat.Sniff(data, media))
}

func decodeBase64(s string) ([]byte, bool) {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		}
		return r
	}, s)
	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.RawStdEncoding, base64.URLEncoding, base64.RawURLEncoding} {
		if data, err := enc.DecodeString(s); err == nil && len(data) > 0 {
			return data, true
		}
	}
	return nil, false
}

// decodable accepts data only when its header decodes as an image.
func decodable(data []byte, f imgformat.Format) (*Asset, error) {
	if _, _, err := imgformat.Dimensions(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotImage, err)
	}
	return &Asset{Data: data, Format: f}, nil
}

func contentTypeOr(ct string) string {
	if ct == "" {
		return "no content type"
	}
	return ct
}
