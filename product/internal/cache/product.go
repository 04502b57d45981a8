package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/log"
	inOtel "github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/product/internal/otel"
	"github.com/Alturino/storefront/product/pkg/catalog"
	"github.com/Alturino/storefront/product/pkg/response"
)

const (
	KeyProducts   = "products:"
	KeyAll        = KeyProducts + "all"
	KeyCategories = KeyProducts + "categories"
)

func KeyProduct(id int) string {
	return KeyProducts + strconv.Itoa(id)
}

// Catalog is a read-through cache in front of another catalog. Only
// successful reads are stored; when redis misbehaves the source answers.
type Catalog struct {
	source catalog.Catalog
	cache  *redis.Client
	ttl    time.Duration
}

var _ catalog.Catalog = (*Catalog)(nil)

func NewCatalog(source catalog.Catalog, cache *redis.Client, ttl time.Duration) *Catalog {
	return &Catalog{source: source, cache: cache, ttl: ttl}
}

func (cc *Catalog) ListProducts(c context.Context) ([]response.Product, error) {
	c, span := otel.Tracer.Start(c, "cache Catalog ListProducts")
	defer span.End()
	return readThrough(c, cc, KeyAll, cc.source.ListProducts)
}

func (cc *Catalog) ListCategories(c context.Context) ([]string, error) {
	c, span := otel.Tracer.Start(c, "cache Catalog ListCategories")
	defer span.End()
	return readThrough(c, cc, KeyCategories, cc.source.ListCategories)
}

func (cc *Catalog) GetProduct(c context.Context, id int) (response.Product, error) {
	c, span := otel.Tracer.Start(c, "cache Catalog GetProduct")
	defer span.End()
	return readThrough(c, cc, KeyProduct(id), func(c context.Context) (response.Product, error) {
		return cc.source.GetProduct(c, id)
	})
}

func readThrough[T any](
	c context.Context,
	cc *Catalog,
	key string,
	load func(context.Context) (T, error),
) (T, error) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "cache Catalog readThrough").
		Str(log.KeyCacheKey, key).
		Logger()

	var value T

	logger = logger.With().Str(log.KeyProcess, "finding in cache").Logger()
	cached, err := cc.cache.JSONGet(c, key).Result()
	switch {
	case err == nil && cached != "":
		if err = json.Unmarshal([]byte(cached), &value); err == nil {
			logger.Trace().Msg("found in cache")
			return value, nil
		}
		logger.Warn().Err(err).Msg("failed unmarshalling cached value, loading from source")
	case err == nil, errors.Is(err, redis.Nil):
		logger.Trace().Msg("cache miss")
	default:
		logger.Warn().Err(err).Msg("failed reading cache, loading from source")
	}

	logger = logger.With().Str(log.KeyProcess, "loading from source").Logger()
	value, err = load(c)
	if err != nil {
		return value, err
	}

	logger = logger.With().Str(log.KeyProcess, "storing in cache").Logger()
	_, err = cc.cache.TxPipelined(c, func(pipe redis.Pipeliner) error {
		pipe.JSONSet(c, key, "$", value)
		pipe.Expire(c, key, cc.ttl)
		return nil
	})
	if err != nil {
		logger.Warn().Err(err).Msg("failed storing value in cache")
		return value, nil
	}
	logger.Trace().Msg("stored in cache")

	return value, nil
}

// Invalidate drops every cached catalog entry.
func (cc *Catalog) Invalidate(c context.Context) error {
	c, span := otel.Tracer.Start(c, "cache Catalog Invalidate")
	defer span.End()

	iter := cc.cache.Scan(c, 0, KeyProducts+"*", 100).Iterator()
	keys := []string{}
	for iter.Next(c) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		err = fmt.Errorf("failed scanning cache keys with error=%w", err)
		inOtel.RecordError(err, span)
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	if err := cc.cache.Del(c, keys...).Err(); err != nil {
		err = fmt.Errorf("failed deleting cache keys with error=%w", err)
		inOtel.RecordError(err, span)
		return err
	}
	return nil
}
