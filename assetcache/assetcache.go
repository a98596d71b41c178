// Package assetcache keeps the core UI assets available when the static
// directory cannot be read.
//
// At install time a fixed list of asset paths is fetched through the network
// handler and stored under a named cache. Requests are then answered cache
// first and fall back to the network handler on a miss. There is no
// invalidation: shipping new assets means bumping the cache name.
package assetcache

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DefaultName is the cache name used when none is configured.
const DefaultName = "fotos-cache-v1"

// CoreAssets are pre-fetched at install.
var CoreAssets = []string{
	"/",
	"/index.html",
	"/app.js",
	"/manifest.json",
}

// Entry is one cached response.
type Entry struct {
	ContentType string `json:"contentType"`
	Body        []byte `json:"body"`
}

// Backend stores entries by key.
type Backend interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Put(ctx context.Context, key string, e Entry) error
}

// Cache is a named, cache-first asset store in front of a network handler.
type Cache struct {
	name    string
	backend Backend
	network http.Handler
	logger  *zap.Logger
}

// New returns a cache named name (DefaultName when empty).
func New(name string, backend Backend, network http.Handler, logger *zap.Logger) *Cache {
	if name == "" {
		name = DefaultName
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{name: name, backend: backend, network: network, logger: logger}
}

// Name returns the cache name.
func (c *Cache) Name() string { return c.name }

func (c *Cache) key(path string) string {
	return "cache:" + c.name + ":" + path
}

// Install fetches every path and stores the responses. Like the browser's
// cache.addAll it is all or nothing: one failed fetch stores nothing.
func (c *Cache) Install(ctx context.Context, paths []string) error {
	entries := make(map[string]Entry, len(paths))
	for _, path := range paths {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
		if err != nil {
			return fmt.Errorf("install %s: %w", path, err)
		}
		rec := httptest.NewRecorder()
		c.network.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			return fmt.Errorf("install %s: status %d", path, rec.Code)
		}
		entries[path] = Entry{
			ContentType: rec.Header().Get("Content-Type"),
			Body:        rec.Body.Bytes(),
		}
	}
	for path, e := range entries {
		if err := c.backend.Put(ctx, c.key(path), e); err != nil {
			return fmt.Errorf("install %s: %w", path, err)
		}
	}
	c.logger.Info("asset cache installed", zap.String("cache", c.name), zap.Int("assets", len(entries)))
	return nil
}

// Lookup returns the cached entry for path.
func (c *Cache) Lookup(ctx context.Context, path string) (Entry, bool) {
	e, ok, err := c.backend.Get(ctx, c.key(path))
	if err != nil {
		c.logger.Debug("asset cache lookup failed", zap.String("path", path), zap.Error(err))
		return Entry{}, false
	}
	return e, ok
}

// Middleware answers GET and HEAD requests from the cache and lets misses
// continue down the chain.
func (c *Cache) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		method := ctx.Request.Method
		if method != http.MethodGet && method != http.MethodHead {
			ctx.Next()
			return
		}
		e, ok := c.Lookup(ctx.Request.Context(), ctx.Request.URL.Path)
		if !ok {
			ctx.Header("X-Cache", "MISS")
			ctx.Next()
			return
		}
		ctx.Header("X-Cache", "HIT")
		if method == http.MethodHead {
			ctx.Header("Content-Type", e.ContentType)
			ctx.Header("Content-Length", strconv.Itoa(len(e.Body)))
			ctx.AbortWithStatus(http.StatusOK)
			return
		}
		ctx.Data(http.StatusOK, e.ContentType, e.Body)
		ctx.Abort()
	}
}
