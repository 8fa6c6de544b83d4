package redis_adapter

import (
	"crypto/md5"
	"encoding/hex"
	"marketplace-service/internal/core/domain"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// GenerateQueryCacheKey строит ключ prefix:md5(json) из параметров запроса. Ключи
// JSON-объекта сортируются, поэтому порядок параметров не влияет на результат.
func GenerateQueryCacheKey(prefix string, queryParams map[string]string) string {
	// map[string]string сериализуется без ошибок
	data, _ := json.Marshal(queryParams)

	hash := md5.Sum(data)
	return prefix + ":" + hex.EncodeToString(hash[:])
}

// queryParams раскладывает запрос каталога в плоский набор параметров. Пустые фильтры не попадают в ключ.
func queryParams(q domain.PropertyQuery) map[string]string {
	params := map[string]string{
		"page":  strconv.Itoa(q.Page.Page),
		"limit": strconv.Itoa(q.Page.Limit),
	}
	setString := func(k, v string) {
		if v != "" {
			params[k] = v
		}
	}
	setFloat := func(k string, v *float64) {
		if v != nil {
			params[k] = strconv.FormatFloat(*v, 'f', -1, 64)
		}
	}
	setList := func(k string, v []string) {
		if len(v) > 0 {
			data, _ := json.Marshal(v)
			params[k] = string(data)
		}
	}
	setInt := func(k string, v *int) {
		if v != nil {
			params[k] = strconv.Itoa(*v)
		}
	}

	f := q.Filter
	setString("type", f.Type)
	setString("listingType", f.ListingType)
	setString("furnished", f.Furnished)
	setString("listedBy", f.ListedBy)
	setString("city", strings.ToLower(f.City))
	setString("state", strings.ToLower(f.State))
	if f.IsVerified != nil {
		params["isVerified"] = strconv.FormatBool(*f.IsVerified)
	}
	setFloat("minPrice", f.MinPrice)
	setFloat("maxPrice", f.MaxPrice)
	setFloat("minArea", f.MinArea)
	setFloat("maxArea", f.MaxArea)
	setInt("bedrooms", f.Bedrooms)
	setInt("bathrooms", f.Bathrooms)
	setFloat("minRating", f.MinRating)
	setList("amenities", f.Amenities)
	setList("tags", f.Tags)
	if f.AvailableFrom != nil {
		params["availableFrom"] = f.AvailableFrom.UTC().Format(time.RFC3339Nano)
	}

	if !q.Sort.IsDefault() {
		params["sortBy"] = q.Sort.Field
		params["sortOrder"] = string(q.Sort.Order)
	}
	return params
}
