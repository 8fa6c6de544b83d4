package rest

import (
	"math"
	"net/url"
	"strconv"
	"testing"
	"time"

	"marketplace-service/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePropertyQueryDefaults(t *testing.T) {
	q, err := parsePropertyQuery(url.Values{})
	require.NoError(t, err)

	assert.Equal(t, domain.PropertyFilter{}, q.Filter)
	assert.True(t, q.Sort.IsDefault())
	assert.Equal(t, domain.PageRequest{Page: 1, Limit: 10}, q.Page)
}

func TestParsePropertyQueryAllFilters(t *testing.T) {
	values, err := url.ParseQuery("type=Villa&listingType=rent&furnished=Semi&listedBy=Agent" +
		"&city=Pune&state=maha&isVerified=true&minPrice=10&maxPrice=20.5&minArea=100&maxArea=900" +
		"&bedrooms=3&bathrooms=2&minRating=3.5&amenities=pool,+gym&tags=new&availableFrom=2025-02-01" +
		"&sortBy=rating&page=3&limit=7")
	require.NoError(t, err)

	q, err := parsePropertyQuery(values)
	require.NoError(t, err)

	f := q.Filter
	assert.Equal(t, "Villa", f.Type)
	assert.Equal(t, "rent", f.ListingType)
	assert.Equal(t, "Semi", f.Furnished)
	assert.Equal(t, "Agent", f.ListedBy)
	assert.Equal(t, "Pune", f.City)
	assert.Equal(t, "maha", f.State)
	require.NotNil(t, f.IsVerified)
	assert.True(t, *f.IsVerified)
	assert.Equal(t, 10.0, *f.MinPrice)
	assert.Equal(t, 20.5, *f.MaxPrice)
	assert.Equal(t, 100.0, *f.MinArea)
	assert.Equal(t, 900.0, *f.MaxArea)
	assert.Equal(t, 3, *f.Bedrooms)
	assert.Equal(t, 2, *f.Bathrooms)
	assert.Equal(t, 3.5, *f.MinRating)
	assert.Equal(t, []string{"pool", "gym"}, f.Amenities)
	assert.Equal(t, []string{"new"}, f.Tags)
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), *f.AvailableFrom)

	assert.Equal(t, domain.PropertySort{Field: domain.SortByRating, Order: domain.SortDesc}, q.Sort)
	assert.Equal(t, 14, q.Page.Offset())
}

func TestParsePropertyQueryVerifiedIsLooselyTyped(t *testing.T) {
	for raw, want := range map[string]bool{"true": true, "false": false, "yes": false, "1": false} {
		q, err := parsePropertyQuery(url.Values{"isVerified": {raw}})
		require.NoError(t, err)
		require.NotNil(t, q.Filter.IsVerified, raw)
		assert.Equal(t, want, *q.Filter.IsVerified, raw)
	}
}

func TestParsePropertyQueryRejectsMalformedNumbers(t *testing.T) {
	for _, name := range []string{"minPrice", "maxPrice", "minArea", "maxArea", "minRating", "bedrooms", "bathrooms", "page", "limit"} {
		_, err := parsePropertyQuery(url.Values{name: {"abc"}})
		assert.ErrorIs(t, err, domain.ErrValidation, name)
	}
}

func TestParsePropertyQueryRejectsNonFiniteNumbers(t *testing.T) {
	for _, raw := range []string{"NaN", "nan", "Inf", "-Infinity", "1e400"} {
		_, err := parsePropertyQuery(url.Values{"minPrice": {raw}})
		assert.ErrorIs(t, err, domain.ErrValidation, raw)
	}
}

func TestParsePropertyQueryAcceptsHugePage(t *testing.T) {
	q, err := parsePropertyQuery(url.Values{"page": {strconv.Itoa(math.MaxInt / 10)}, "limit": {"100"}})
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt/10, q.Page.Page)
	assert.Equal(t, math.MaxInt, q.Page.Offset())
}
