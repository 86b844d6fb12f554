package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"catalog-broadcast-bot/internal/domain/model"
	"catalog-broadcast-bot/internal/domain/ports/repository"
	"catalog-broadcast-bot/internal/infra/metrics"
)

const productListKey = "products:all"

var _ repository.ProductRepository = (*productCacheDecorator)(nil)

// productCacheDecorator caches the full product list. Any write drops it.
type productCacheDecorator struct {
	inner repository.ProductRepository
	cache RedisClient
	ttl   time.Duration
	log   *zerolog.Logger
}

func NewProductCacheDecorator(inner repository.ProductRepository, cache RedisClient, ttl time.Duration, logger *zerolog.Logger) repository.ProductRepository {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &productCacheDecorator{inner: inner, cache: cache, ttl: ttl, log: logger}
}

func (d *productCacheDecorator) List(ctx context.Context) ([]model.Product, error) {
	val, err := d.cache.Get(ctx, productListKey)
	if err == nil {
		var products []model.Product
		if json.Unmarshal([]byte(val), &products) == nil {
			metrics.IncCacheRequest("product_list", "hit")
			return products, nil
		}
	} else if !errors.Is(err, Nil) {
		d.log.Warn().Err(err).Msg("product cache read failed")
	}

	metrics.IncCacheRequest("product_list", "miss")
	products, err := d.inner.List(ctx)
	if err != nil {
		return nil, err
	}
	if bytes, err := json.Marshal(products); err == nil {
		if err := d.cache.Set(ctx, productListKey, bytes, d.ttl); err != nil {
			d.log.Warn().Err(err).Msg("product cache write failed")
		}
	}
	return products, nil
}

func (d *productCacheDecorator) Create(ctx context.Context, p *model.Product) error {
	if err := d.inner.Create(ctx, p); err != nil {
		return err
	}
	d.invalidate(ctx)
	return nil
}

func (d *productCacheDecorator) Update(ctx context.Context, id string, patch model.ProductPatch) (*model.Product, error) {
	p, err := d.inner.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	d.invalidate(ctx)
	return p, nil
}

func (d *productCacheDecorator) Delete(ctx context.Context, id string) error {
	if err := d.inner.Delete(ctx, id); err != nil {
		return err
	}
	d.invalidate(ctx)
	return nil
}

func (d *productCacheDecorator) invalidate(ctx context.Context) {
	if err := d.cache.Del(ctx, productListKey); err != nil {
		d.log.Warn().Err(err).Msg("product cache invalidation failed")
	}
}
