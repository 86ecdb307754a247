package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Resolver turns a short code into its destination URL.
type Resolver interface {
	Resolve(ctx context.Context, code string) (string, error)
}

// RedirectCache is a read-through Redis cache for the redirect path.
// A miss falls through to the wrapped resolver under a singleflight group
// so concurrent requests for the same code produce one store query.
// Redis trouble degrades to the store path and never fails a redirect.
type RedirectCache struct {
	client *redis.Client
	next   Resolver
	ttl    time.Duration
	group  singleflight.Group
	log    *zap.Logger
}

func New(client *redis.Client, next Resolver, ttl time.Duration, log *zap.Logger) *RedirectCache {
	return &RedirectCache{
		client: client,
		next:   next,
		ttl:    ttl,
		log:    log,
	}
}

func cacheKey(code string) string {
	return "slug:" + code
}

// Resolve implements Resolver.
func (c *RedirectCache) Resolve(ctx context.Context, code string) (string, error) {
	cached, err := c.client.Get(ctx, cacheKey(code)).Result()
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, redis.Nil) {
		c.log.Warn("cache read failed, falling back to store",
			zap.String("code", code), zap.Error(err))
	}

	url, err, _ := c.group.Do(code, func() (interface{}, error) {
		longURL, err := c.next.Resolve(ctx, code)
		if err != nil {
			return "", err
		}
		if setErr := c.client.Set(ctx, cacheKey(code), longURL, c.ttl).Err(); setErr != nil {
			c.log.Warn("cache fill failed", zap.String("code", code), zap.Error(setErr))
		}
		return longURL, nil
	})
	if err != nil {
		// Not-found is propagated untouched; it is never cached so an
		// immediately re-created code resolves correctly.
		return "", err
	}
	return url.(string), nil
}

// Invalidate drops the cached entry for a code. Called after updates and
// deletes so stale destinations are never served.
func (c *RedirectCache) Invalidate(ctx context.Context, code string) {
	if err := c.client.Del(ctx, cacheKey(code)).Err(); err != nil {
		c.log.Warn("cache invalidation failed", zap.String("code", code), zap.Error(err))
	}
}
