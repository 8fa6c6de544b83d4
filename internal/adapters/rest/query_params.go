package rest

import (
	"marketplace-service/internal/core/domain"
	"math"
	"net/url"
	"strconv"
	"time"
)

// parsePropertyQuery собирает типизированный запрос каталога из query-параметров.
// Нечисловые значения числовых фильтров отклоняются до вызова use case.
func parsePropertyQuery(values url.Values) (domain.PropertyQuery, error) {
	var (
		q   domain.PropertyQuery
		err error
	)

	f := &q.Filter
	f.Type = values.Get("type")
	f.ListingType = values.Get("listingType")
	f.Furnished = values.Get("furnished")
	f.ListedBy = values.Get("listedBy")
	f.City = values.Get("city")
	f.State = values.Get("state")

	if raw := values.Get("isVerified"); raw != "" {
		verified := raw == "true"
		f.IsVerified = &verified
	}

	floats := []struct {
		name string
		dst  **float64
	}{
		{"minPrice", &f.MinPrice},
		{"maxPrice", &f.MaxPrice},
		{"minArea", &f.MinArea},
		{"maxArea", &f.MaxArea},
		{"minRating", &f.MinRating},
	}
	for _, p := range floats {
		if *p.dst, err = optionalFloat(values, p.name); err != nil {
			return q, err
		}
	}
	if f.Bedrooms, err = optionalInt(values, "bedrooms"); err != nil {
		return q, err
	}
	if f.Bathrooms, err = optionalInt(values, "bathrooms"); err != nil {
		return q, err
	}

	f.Amenities = domain.SplitList(values.Get("amenities"))
	f.Tags = domain.SplitList(values.Get("tags"))

	if raw := values.Get("availableFrom"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			return q, domain.NewValidationError("availableFrom must be a date")
		}
		f.AvailableFrom = &t
	}

	if q.Sort, err = domain.NewPropertySort(values.Get("sortBy"), values.Get("sortOrder")); err != nil {
		return q, err
	}

	page, err := intOrDefault(values, "page", domain.DefaultPage)
	if err != nil {
		return q, err
	}
	limit, err := intOrDefault(values, "limit", domain.DefaultLimit)
	if err != nil {
		return q, err
	}
	if q.Page, err = domain.NewPageRequest(page, limit); err != nil {
		return q, err
	}
	return q, nil
}

func optionalFloat(values url.Values, name string) (*float64, error) {
	raw := values.Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, domain.NewValidationError(name + " must be a number")
	}
	return &v, nil
}

func optionalInt(values url.Values, name string) (*int, error) {
	raw := values.Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, domain.NewValidationError(name + " must be an integer")
	}
	return &v, nil
}

func intOrDefault(values url.Values, name string, def int) (int, error) {
	v, err := optionalInt(values, name)
	if err != nil || v == nil {
		return def, err
	}
	return *v, nil
}

// parseDate принимает YYYY-MM-DD или полный RFC 3339.
func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}
