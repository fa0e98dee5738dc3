package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/alnah/go-leasepdf/internal/fileutil"
)

type refKind int

const (
	kindOther refKind = iota
	kindData
	kindHandle
	kindHTTP
	kindFile
)

func classify(ref string) refKind {
	lower := strings.ToLower(ref)
	switch {
	case strings.HasPrefix(lower, "data:"):
		return kindData
	case strings.HasPrefix(lower, "blob:"), strings.HasPrefix(lower, "filesystem:"):
		return kindHandle
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return kindHTTP
	case strings.HasPrefix(lower, "file://"), !strings.Contains(ref, "://"):
		return kindFile
	}
	return kindOther
}

func (r *Resolver) inline(ctx context.Context, ref string) (*Asset, error) {
	if classify(ref) != kindData {
		return nil, ErrNotApplicable
	}
	return r.attempt(ctx, StrategyInline, "", func(context.Context) (*Asset, error) {
		return decodeDataURI(ref)
	})
}

func (r *Resolver) localHandle(_ context.Context, ref string) (*Asset, error) {
	switch classify(ref) {
	case kindHandle:
		scheme, _, _ := strings.Cut(ref, ":")
		err := fmt.Errorf("%w: %s reference is only valid inside the page that created it", ErrUnfetchable, scheme)
		r.report(Attempt{Strategy: StrategyLocalHandle, Err: err})
		return nil, err
	case kindOther:
		scheme, _, _ := strings.Cut(ref, "://")
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrUnfetchable, scheme)
	}
	return nil, ErrNotApplicable
}

func (r *Resolver) file(ctx context.Context, ref string) (*Asset, error) {
	if classify(ref) != kindFile {
		return nil, ErrNotApplicable
	}
	if !r.allowLocal {
		return nil, fmt.Errorf("%w: local files are disabled", ErrUnfetchable)
	}
	path := ref
	if strings.HasPrefix(strings.ToLower(ref), "file://") {
		u, err := url.Parse(ref)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnfetchable, err)
		}
		path = u.Path
	}
	return r.attempt(ctx, StrategyFile, path, func(context.Context) (*Asset, error) {
		data, err := fileutil.ReadLimited(path, r.maxBytes)
		if err != nil {
			return nil, err
		}
		return bitmap(data, "")
	})
}

func (r *Resolver) relay(ctx context.Context, ref string) (*Asset, error) {
	if classify(ref) != kindHTTP || r.relayURL == "" {
		return nil, ErrNotApplicable
	}
	endpoint := RelayEndpoint(r.relayURL, ref)
	return r.attempt(ctx, StrategyRelay, endpoint, func(ctx context.Context) (*Asset, error) {
		body, ctype, err := Get(ctx, r.client, endpoint, r.maxBytes)
		if err != nil {
			return nil, err
		}
		return bitmap(body, ctype)
	})
}

func (r *Resolver) direct(ctx context.Context, ref string) (*Asset, error) {
	if classify(ref) != kindHTTP {
		return nil, ErrNotApplicable
	}
	return r.attempt(ctx, StrategyDirect, ref, func(ctx context.Context) (*Asset, error) {
		return r.drawer.Draw(ctx, ref)
	})
}

func (r *Resolver) proxyImage(ctx context.Context, ref string) (*Asset, error) {
	return r.eachProxy(ctx, ref, StrategyProxyImage, func(ctx context.Context, endpoint string) (*Asset, error) {
		return r.drawer.Draw(ctx, endpoint)
	})
}

func (r *Resolver) proxyRaw(ctx context.Context, ref string) (*Asset, error) {
	return r.eachProxy(ctx, ref, StrategyProxyRaw, func(ctx context.Context, endpoint string) (*Asset, error) {
		body, ctype, err := Get(ctx, r.client, endpoint, r.maxBytes)
		if err != nil {
			return nil, err
		}
		return bitmap(body, ctype)
	})
}

// eachProxy tries fn against every third-party relay in order and returns
// the first success.
func (r *Resolver) eachProxy(ctx context.Context, ref, name string, fn func(ctx context.Context, endpoint string) (*Asset, error)) (*Asset, error) {
	if classify(ref) != kindHTTP || len(r.proxies) == 0 {
		return nil, ErrNotApplicable
	}
	var errs []error
	for _, p := range r.proxies {
		endpoint := ProxyEndpoint(p, ref)
		asset, err := r.attempt(ctx, name, endpoint, func(ctx context.Context) (*Asset, error) {
			return fn(ctx, endpoint)
		})
		if err == nil {
			return asset, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", endpoint, err))
		if ctx.Err() != nil {
			break
		}
	}
	return nil, errors.Join(errs...)
}

// RelayEndpoint builds the trusted relay URL for ref: the {url} placeholder
// is replaced when present, otherwise a url query parameter is added.
func RelayEndpoint(relay, ref string) string {
	escaped := url.QueryEscape(ref)
	if strings.Contains(relay, "{url}") {
		return strings.ReplaceAll(relay, "{url}", escaped)
	}
	sep := "?"
	if strings.Contains(relay, "?") {
		sep = "&"
	}
	return relay + sep + "url=" + escaped
}

// ProxyEndpoint builds a third-party relay URL for ref: the {url}
// placeholder is replaced when present, otherwise the escaped ref is appended.
func ProxyEndpoint(template, ref string) string {
	escaped := url.QueryEscape(ref)
	if strings.Contains(template, "{url}") {
		return strings.ReplaceAll(template, "{url}", escaped)
	}
	return template + escaped
}
