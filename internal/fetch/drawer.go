package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-leasepdf/internal/chrome"
	"github.com/alnah/go-leasepdf/internal/imgformat"
)

// Drawer loads an image the way a page would draw it and returns its pixels.
// A successful load whose pixels cannot be read yields ErrTainted.
type Drawer interface {
	Draw(ctx context.Context, url string) (*Asset, error)
}

// Compile-time interface checks.
var (
	_ Drawer = (*HTTPDrawer)(nil)
	_ Drawer = (*BrowserDrawer)(nil)
)

// HTTPDrawer draws with a plain GET. Responses that are not declared images
// or do not decode are treated as tainted.
type HTTPDrawer struct {
	client   *http.Client
	maxBytes int64
}

// NewHTTPDrawer returns an HTTPDrawer using client.
func NewHTTPDrawer(client *http.Client, maxBytes int64) *HTTPDrawer {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &HTTPDrawer{client: client, maxBytes: maxBytes}
}

// Draw fetches url and validates the image.
func (d *HTTPDrawer) Draw(ctx context.Context, url string) (*Asset, error) {
	body, ctype, err := Get(ctx, d.client, url, d.maxBytes)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(ctype)), "image/") {
		return nil, fmt.Errorf("%w: content type %q", ErrTainted, ctype)
	}
	asset, err := decodable(body, imgformat.Sniff(body, ctype))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTainted, err)
	}
	return asset, nil
}

// drawScript loads src as an anonymous cross-origin image, paints it on a
// canvas and exports the canvas. Failures resolve to "error:<name>".
const drawScript = `(src) => new Promise((resolve) => {
	const img = new Image();
	img.crossOrigin = 'anonymous';
	img.onload = () => {
		try {
			const c = document.createElement('canvas');
			c.width = img.naturalWidth;
			c.height = img.naturalHeight;
			c.getContext('2d').drawImage(img, 0, 0);
			resolve(c.toDataURL('image/png'));
		} catch (e) {
			resolve('error:' + (e && e.name ? e.name : 'unknown'));
		}
	};
	img.onerror = () => resolve('error:load');
	img.src = src;
})`

// BrowserDrawer draws through a headless Chrome canvas, reproducing the
// cross-origin rules a browser applies to image pixels.
type BrowserDrawer struct {
	session *chrome.Session
}

// NewBrowserDrawer returns a drawer using session's browser.
func NewBrowserDrawer(session *chrome.Session) *BrowserDrawer {
	return &BrowserDrawer{session: session}
}

// Draw renders url on a canvas and returns the PNG export.
func (d *BrowserDrawer) Draw(ctx context.Context, url string) (*Asset, error) {
	browser, err := d.session.Browser()
	if err != nil {
		return nil, err
	}

	page, err := browser.Context(ctx).Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("creating page: %w", err)
	}
	defer func() { _ = page.Close() }()

	res, err := page.Context(ctx).Evaluate(rod.Eval(drawScript, url).ByPromise())
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("evaluating draw script: %w", err)
	}

	out := res.Value.Str()
	if name, failed := strings.CutPrefix(out, "error:"); failed {
		if name == "SecurityError" || name == "load" {
			return nil, fmt.Errorf("%w: %s", ErrTainted, name)
		}
		return nil, errors.New("canvas draw failed: " + name)
	}
	return decodeDataURI(out)
}
