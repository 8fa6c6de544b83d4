package redis_adapter

import (
	"context"
	"testing"
	"time"

	"marketplace-service/internal/adapters/memory"
	"marketplace-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateQueryCacheKeyIgnoresParamOrder(t *testing.T) {
	a := GenerateQueryCacheKey("p", map[string]string{"city": "pune", "page": "1"})
	b := GenerateQueryCacheKey("p", map[string]string{"page": "1", "city": "pune"})
	c := GenerateQueryCacheKey("p", map[string]string{"page": "2", "city": "pune"})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Regexp(t, `^p:[0-9a-f]{32}$`, a)
}

func TestGenerateQueryCacheKeySeparatesAmbiguousValues(t *testing.T) {
	two := 2
	split := queryParams(domain.PropertyQuery{
		Filter: domain.PropertyFilter{Amenities: []string{"Pool"}, Bathrooms: &two},
		Page:   domain.PageRequest{Page: 1, Limit: 10},
	})
	merged := queryParams(domain.PropertyQuery{
		Filter: domain.PropertyFilter{Amenities: []string{"Pool:bathrooms=2"}},
		Page:   domain.PageRequest{Page: 1, Limit: 10},
	})
	assert.NotEqual(t, GenerateQueryCacheKey("p", split), GenerateQueryCacheKey("p", merged))

	joined := queryParams(domain.PropertyQuery{
		Filter: domain.PropertyFilter{Tags: []string{"a,b"}},
		Page:   domain.PageRequest{Page: 1, Limit: 10},
	})
	separate := queryParams(domain.PropertyQuery{
		Filter: domain.PropertyFilter{Tags: []string{"a", "b"}},
		Page:   domain.PageRequest{Page: 1, Limit: 10},
	})
	assert.NotEqual(t, GenerateQueryCacheKey("p", joined), GenerateQueryCacheKey("p", separate))
}

func TestQueryParamsKeepsAvailableFromInstant(t *testing.T) {
	key := func(at time.Time) string {
		return GenerateQueryCacheKey("p", queryParams(domain.PropertyQuery{
			Filter: domain.PropertyFilter{AvailableFrom: &at},
			Page:   domain.PageRequest{Page: 1, Limit: 10},
		}))
	}
	midnight := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	evening := time.Date(2025, 1, 1, 18, 0, 0, 0, time.UTC)
	assert.NotEqual(t, key(midnight), key(evening))

	// Один и тот же момент в другой зоне дает тот же ключ
	kolkata := time.FixedZone("IST", 5*3600+1800)
	assert.Equal(t, key(evening), key(evening.In(kolkata)))
}

func TestQueryParamsSkipsEmptyFilters(t *testing.T) {
	minPrice := 1500.5
	verified := false
	params := queryParams(domain.PropertyQuery{
		Filter: domain.PropertyFilter{City: "Pune", MinPrice: &minPrice, IsVerified: &verified, Amenities: []string{"gym", "pool"}},
		Sort:   domain.PropertySort{Field: domain.SortByRating, Order: domain.SortAsc},
		Page:   domain.PageRequest{Page: 2, Limit: 20},
	})

	assert.Equal(t, map[string]string{
		"page":       "2",
		"limit":      "20",
		"city":       "pune",
		"minPrice":   "1500.5",
		"isVerified": "false",
		"amenities":  `["gym","pool"]`,
		"sortBy":     "rating",
		"sortOrder":  "asc",
	}, params)
}

func TestCachedRepositoryFallsBackWhenRedisIsDown(t *testing.T) {
	store := memory.NewStore()
	owner := uuid.New()
	p, err := domain.NewUserProperty(domain.Property{
		Title: "Flat", Type: domain.PropertyTypeApartment, Price: 1, State: "Goa", City: "Panaji", AreaSqFt: 10,
		Furnished: domain.FurnishedNone, ListedBy: domain.ListedByAgent, ListingType: domain.ListingTypeRent,
		AvailableFrom: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}, owner)
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	t.Cleanup(func() { client.Close() })

	repo, err := NewCachedPropertyRepository(store.Properties(), client, time.Minute)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, p))

	items, total, err := repo.FindWithFilters(ctx, domain.PropertyQuery{Page: domain.PageRequest{Page: 1, Limit: 10}})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, p.ID, items[0].ID)
}
