// Package redis_adapter кэширует страницы каталога поверх основного хранилища.
package redis_adapter

import (
	"context"
	"errors"
	"fmt"
	"marketplace-service/internal/contextkeys"
	"marketplace-service/internal/core/domain"
	"marketplace-service/internal/core/port"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	queryKeyPrefix = "properties:query"
	versionKey     = "properties:version"
)

var _ port.PropertyRepositoryPort = (*CachedPropertyRepository)(nil)

// CachedPropertyRepository кэширует результаты FindWithFilters. Любая запись
// увеличивает счетчик версии, и старые ключи перестают читаться.
// Ошибки Redis не прерывают запрос: чтение уходит в основное хранилище.
type CachedPropertyRepository struct {
	port.PropertyRepositoryPort
	client *redis.Client
	ttl    time.Duration
}

func NewCachedPropertyRepository(inner port.PropertyRepositoryPort, client *redis.Client, ttl time.Duration) (*CachedPropertyRepository, error) {
	if inner == nil || client == nil {
		return nil, fmt.Errorf("property repository and redis client are required")
	}
	return &CachedPropertyRepository{PropertyRepositoryPort: inner, client: client, ttl: ttl}, nil
}

type cachedPage struct {
	Items []domain.Property `json:"items"`
	Total int64             `json:"total"`
}

func (r *CachedPropertyRepository) FindWithFilters(ctx context.Context, query domain.PropertyQuery) ([]domain.Property, int64, error) {
	cacheLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "CachedPropertyRepository",
		"method":    "FindWithFilters",
	})

	version, err := r.client.Get(ctx, versionKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		cacheLogger.Warn("Cache unavailable, querying storage directly", port.Fields{"error": err.Error()})
		return r.PropertyRepositoryPort.FindWithFilters(ctx, query)
	}

	key := GenerateQueryCacheKey(fmt.Sprintf("%s:v%d", queryKeyPrefix, version), queryParams(query))

	var page cachedPage
	found, err := r.getCached(ctx, key, &page)
	if err != nil {
		cacheLogger.Warn("Failed to read cached page", port.Fields{"error": err.Error()})
	}
	if found {
		cacheLogger.Debug("Cache hit", port.Fields{"key": key})
		return page.Items, page.Total, nil
	}

	items, total, err := r.PropertyRepositoryPort.FindWithFilters(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	if err := r.setCached(ctx, key, cachedPage{Items: items, Total: total}); err != nil {
		cacheLogger.Warn("Failed to store page in cache", port.Fields{"error": err.Error()})
	}
	return items, total, nil
}

func (r *CachedPropertyRepository) Create(ctx context.Context, property *domain.Property) error {
	if err := r.PropertyRepositoryPort.Create(ctx, property); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *CachedPropertyRepository) Update(ctx context.Context, property *domain.Property) error {
	if err := r.PropertyRepositoryPort.Update(ctx, property); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *CachedPropertyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.PropertyRepositoryPort.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *CachedPropertyRepository) ReplaceSamples(ctx context.Context, samples []domain.Property) (int, error) {
	n, err := r.PropertyRepositoryPort.ReplaceSamples(ctx, samples)
	if err != nil {
		return 0, err
	}
	r.invalidate(ctx)
	return n, nil
}

func (r *CachedPropertyRepository) invalidate(ctx context.Context) {
	if err := r.client.Incr(ctx, versionKey).Err(); err != nil {
		contextkeys.LoggerFromContext(ctx).Warn("Failed to bump catalog cache version", port.Fields{
			"component": "CachedPropertyRepository",
			"error":     err.Error(),
		})
	}
}

func (r *CachedPropertyRepository) getCached(ctx context.Context, key string, dest any) (bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (r *CachedPropertyRepository) setCached(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, r.ttl).Err()
}
