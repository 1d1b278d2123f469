// Package cached wraps a catalog.Reader with a Redis read-through cache.
// Only hot display data is cached; the cart/order core still stores
// nothing but the product reference.
package cached

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dheras/foodcourt/internal/catalog"
)

var _ catalog.Reader = (*Reader)(nil)

// Reader serves catalog lookups from Redis, falling back to the inner
// reader on a miss or on any cache failure. Cache errors are logged and
// never surfaced to the caller.
type Reader struct {
	inner  catalog.Reader
	client *redis.Client
	ttl    time.Duration
}

// New wraps inner with a Redis cache at addr. ttl bounds staleness of the
// cached display data.
func New(inner catalog.Reader, addr string, ttl time.Duration) *Reader {
	return &Reader{
		inner:  inner,
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
	}
}

// Close releases the Redis connection.
func (r *Reader) Close() error {
	return r.client.Close()
}

func (r *Reader) Product(ctx context.Context, id string) (catalog.Product, error) {
	key := cacheKey(id)

	raw, err := r.client.Get(ctx, key).Result()
	if err == nil {
		var p catalog.Product
		if err := json.Unmarshal([]byte(raw), &p); err == nil {
			return p, nil
		}
		// Corrupt entry: drop it and fall through to the source.
		_ = r.client.Del(ctx, key).Err()
	} else if err != redis.Nil {
		slog.WarnContext(ctx, "catalog cache read failed", "product_id", id, "error", err)
	}

	p, err := r.inner.Product(ctx, id)
	if err != nil {
		return catalog.Product{}, err
	}

	if b, err := json.Marshal(p); err == nil {
		if err := r.client.Set(ctx, key, b, r.ttl).Err(); err != nil {
			slog.WarnContext(ctx, "catalog cache write failed", "product_id", id, "error", err)
		}
	}
	return p, nil
}

func cacheKey(id string) string {
	return fmt.Sprintf("storefront:catalog:%s", id)
}
