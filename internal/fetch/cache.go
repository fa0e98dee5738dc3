package fetch

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache memoizes a Source by reference for the lifetime of one document.
// Concurrent requests for the same reference share a single resolution
// through a singleflight group; finished results are kept in a map because
// singleflight forgets a key once its call returns.
type Cache struct {
	src   Source
	group singleflight.Group

	mu      sync.Mutex
	results map[string]cacheResult
	seen    map[string]struct{}
}

type cacheResult struct {
	asset *Asset
	err   error
}

// NewCache wraps src.
func NewCache(src Source) *Cache {
	return &Cache{
		src:     src,
		results: make(map[string]cacheResult),
		seen:    make(map[string]struct{}),
	}
}

// Resolve returns the cached result for ref, resolving it on first use.
// A waiter whose ctx ends stops waiting; the shared resolution continues.
// A panic inside the source becomes the error for every waiter.
func (c *Cache) Resolve(ctx context.Context, ref string) (*Asset, error) {
	c.mu.Lock()
	c.seen[ref] = struct{}{}
	if r, ok := c.results[ref]; ok {
		c.mu.Unlock()
		return r.asset, r.err
	}
	c.mu.Unlock()

	ch := c.group.DoChan(ref, func() (any, error) {
		c.mu.Lock()
		r, ok := c.results[ref]
		c.mu.Unlock()
		if ok {
			return r, nil
		}
		r = c.resolve(ctx, ref)
		c.mu.Lock()
		c.results[ref] = r
		c.mu.Unlock()
		return r, nil
	})
	select {
	case res := <-ch:
		r := res.Val.(cacheResult)
		return r.asset, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Cache) resolve(ctx context.Context, ref string) (r cacheResult) {
	defer func() {
		if p := recover(); p != nil {
			r = cacheResult{err: fmt.Errorf("resolving %s: panic: %v", ref, p)}
		}
	}()
	asset, err := c.src.Resolve(ctx, ref)
	return cacheResult{asset: asset, err: err}
}

// Len reports how many references have been requested.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.seen)
}
