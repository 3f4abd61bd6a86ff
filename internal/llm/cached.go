package llm

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/clearhull/claimwatch/internal/cache"
)

// CachedProvider wraps a Provider with a response cache. Identical prompts
// return the stored response without touching the backend, which matters
// when the same spool is re-processed after a partial failure.
type CachedProvider struct {
	inner  Provider
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedProvider decorates inner with the given cache
func NewCachedProvider(inner Provider, c cache.Cache, ttl time.Duration, logger *zap.Logger) *CachedProvider {
	return &CachedProvider{inner: inner, cache: c, ttl: ttl, logger: logger}
}

// Name returns the underlying provider name
func (p *CachedProvider) Name() string {
	return p.inner.Name()
}

// IsAvailable delegates to the underlying provider
func (p *CachedProvider) IsAvailable(ctx context.Context) bool {
	return p.inner.IsAvailable(ctx)
}

// Complete returns a cached response when one exists, otherwise calls the
// backend and stores the result. Cache write failures are logged, not
// returned: a broken cache must not break analysis.
func (p *CachedProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	key := cache.Key(req.System + "\x00" + req.Prompt)

	if data, found := p.cache.Get(key); found {
		var resp Response
		if err := json.Unmarshal(data, &resp); err == nil {
			p.logger.Debug("cache hit", zap.String("provider", p.inner.Name()))
			return &resp, nil
		}
		// Corrupt entry: fall through to the backend.
		_ = p.cache.Delete(key)
	}

	resp, err := p.inner.Complete(ctx, req)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(resp); err == nil {
		if err := p.cache.Set(key, data, p.ttl); err != nil {
			p.logger.Warn("cache write failed", zap.Error(err))
		}
	}

	return resp, nil
}
