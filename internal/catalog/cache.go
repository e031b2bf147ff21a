package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Marcial-ar/tpv/internal/domain"
	"github.com/Marcial-ar/tpv/internal/redisx"
)

// Source is where the cache reads through to.
type Source interface {
	ActiveProducts(ctx context.Context) ([]domain.Product, error)
}

// CachedCatalog keeps the active product list in Redis for a short TTL. Redis
// errors are logged and the source is used directly.
type CachedCatalog struct {
	source Source
	rdb    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedCatalog(source Source, rdb *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedCatalog {
	return &CachedCatalog{
		source: source,
		rdb:    rdb,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *CachedCatalog) ActiveProducts(ctx context.Context) ([]domain.Product, error) {
	data, err := c.rdb.Get(ctx, redisx.KeyCatalogActive).Bytes()
	switch {
	case err == nil:
		var products []domain.Product
		if err := json.Unmarshal(data, &products); err == nil {
			return products, nil
		}
		c.logger.Warn("discarding corrupt catalog cache entry")
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("catalog cache unavailable", "error", err)
	}

	products, err := c.source.ActiveProducts(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(products); err == nil {
		if err := c.rdb.Set(ctx, redisx.KeyCatalogActive, data, c.ttl).Err(); err != nil {
			c.logger.Warn("failed to cache catalog", "error", err)
		}
	}

	return products, nil
}

// Invalidate drops the cached list so the next read hits the source.
func (c *CachedCatalog) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, redisx.KeyCatalogActive).Err()
}
