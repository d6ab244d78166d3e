// Package catalog proxies the storefront's product and course reads to the
// content backend, with a Redis response cache in front. Cache problems only
// degrade to a direct fetch; they never fail a request.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"bakery-storefront/internal/common/database"
	"bakery-storefront/internal/common/logger"
	"bakery-storefront/internal/common/metrics"
	"bakery-storefront/internal/wordpress"

	"github.com/redis/go-redis/v9"
)

type Service struct {
	wp     *wordpress.Client
	cache  *database.RedisClient
	ttl    time.Duration
	logger logger.Logger
}

// NewService builds the catalog proxy. cache may be nil; the proxy then
// fetches directly on every request.
func NewService(wp *wordpress.Client, cache *database.RedisClient, ttl time.Duration, log logger.Logger) *Service {
	return &Service{
		wp:     wp,
		cache:  cache,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "catalog"}),
	}
}

func (s *Service) Products(ctx context.Context) (json.RawMessage, error) {
	return s.fetch(ctx, "catalog:products", wordpress.ProductsPath)
}

func (s *Service) Courses(ctx context.Context) (json.RawMessage, error) {
	return s.fetch(ctx, "catalog:courses", wordpress.CoursesPath)
}

func (s *Service) fetch(ctx context.Context, key, path string) (json.RawMessage, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key)
		switch {
		case err == nil:
			metrics.CatalogCacheLookups.WithLabelValues("hit").Inc()
			return json.RawMessage(cached), nil
		case errors.Is(err, redis.Nil):
			metrics.CatalogCacheLookups.WithLabelValues("miss").Inc()
		default:
			metrics.CatalogCacheLookups.WithLabelValues("error").Inc()
			s.logger.WithError(err).Warn("catalog cache read failed", map[string]interface{}{"key": key})
		}
	}

	raw, err := s.wp.Fetch(ctx, path)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, string(raw), s.ttl); err != nil {
			s.logger.WithError(err).Warn("catalog cache write failed", map[string]interface{}{"key": key})
		}
	}
	return raw, nil
}
