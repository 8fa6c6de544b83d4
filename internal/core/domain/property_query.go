package domain

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"time"
)

// PropertyFilter - набор фильтров каталога. nil / пустое значение означает "не фильтровать".
type PropertyFilter struct {
	Type        string
	ListingType string
	Furnished   string
	ListedBy    string

	// City и State ищутся как подстрока без учета регистра.
	City  string
	State string

	IsVerified *bool

	MinPrice *float64
	MaxPrice *float64
	MinArea  *float64
	MaxArea  *float64

	Bedrooms  *int
	Bathrooms *int
	MinRating *float64

	// Объект должен содержать все перечисленные значения.
	Amenities []string
	Tags      []string

	AvailableFrom *time.Time
}

// Matches проверяет объект на соответствие всем фильтрам.
func (f PropertyFilter) Matches(p *Property) bool {
	if f.Type != "" && string(p.Type) != f.Type {
		return false
	}
	if f.ListingType != "" && string(p.ListingType) != f.ListingType {
		return false
	}
	if f.Furnished != "" && string(p.Furnished) != f.Furnished {
		return false
	}
	if f.ListedBy != "" && string(p.ListedBy) != f.ListedBy {
		return false
	}
	if f.City != "" && !ContainsFold(p.City, f.City) {
		return false
	}
	if f.State != "" && !ContainsFold(p.State, f.State) {
		return false
	}
	if f.IsVerified != nil && p.IsVerified != *f.IsVerified {
		return false
	}
	if !inRange(p.Price, f.MinPrice, f.MaxPrice) || !inRange(p.AreaSqFt, f.MinArea, f.MaxArea) {
		return false
	}
	if f.Bedrooms != nil && p.Bedrooms != *f.Bedrooms {
		return false
	}
	if f.Bathrooms != nil && p.Bathrooms != *f.Bathrooms {
		return false
	}
	if f.MinRating != nil && p.Rating < *f.MinRating {
		return false
	}
	if !containsAll(p.Amenities, f.Amenities) || !containsAll(p.Tags, f.Tags) {
		return false
	}
	if f.AvailableFrom != nil && p.AvailableFrom.Before(*f.AvailableFrom) {
		return false
	}
	return true
}

func inRange(v float64, min, max *float64) bool {
	if min != nil && v < *min {
		return false
	}
	if max != nil && v > *max {
		return false
	}
	return true
}

func containsAll(have, want []string) bool {
	for _, w := range want {
		if !slices.Contains(have, w) {
			return false
		}
	}
	return true
}

// SplitList разбирает список вида "a,b,c". Пустые элементы отбрасываются.
func SplitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Поля, по которым разрешена сортировка.
const (
	SortByPrice         = "price"
	SortByArea          = "areaSqFt"
	SortByBedrooms      = "bedrooms"
	SortByBathrooms     = "bathrooms"
	SortByRating        = "rating"
	SortByAvailableFrom = "availableFrom"
	SortByCreatedAt     = "createdAt"
	SortByUpdatedAt     = "updatedAt"
	SortByTitle         = "title"
)

var sortableFields = map[string]func(a, b *Property) int{
	SortByPrice:         func(a, b *Property) int { return cmp.Compare(a.Price, b.Price) },
	SortByArea:          func(a, b *Property) int { return cmp.Compare(a.AreaSqFt, b.AreaSqFt) },
	SortByBedrooms:      func(a, b *Property) int { return cmp.Compare(a.Bedrooms, b.Bedrooms) },
	SortByBathrooms:     func(a, b *Property) int { return cmp.Compare(a.Bathrooms, b.Bathrooms) },
	SortByRating:        func(a, b *Property) int { return cmp.Compare(a.Rating, b.Rating) },
	SortByAvailableFrom: func(a, b *Property) int { return a.AvailableFrom.Compare(b.AvailableFrom) },
	SortByCreatedAt:     func(a, b *Property) int { return a.CreatedAt.Compare(b.CreatedAt) },
	SortByUpdatedAt:     func(a, b *Property) int { return a.UpdatedAt.Compare(b.UpdatedAt) },
	SortByTitle:         func(a, b *Property) int { return strings.Compare(a.Title, b.Title) },
}

// PropertySort - порядок выдачи. Пустое поле Field означает порядок по умолчанию:
// сначала пользовательские объекты, затем демонстрационные, внутри групп новые первыми.
type PropertySort struct {
	Field string
	Order SortOrder
}

// NewPropertySort проверяет поле сортировки. Направление по умолчанию - desc.
func NewPropertySort(field, order string) (PropertySort, error) {
	if field == "" {
		return PropertySort{}, nil
	}
	if _, ok := sortableFields[field]; !ok {
		return PropertySort{}, ErrInvalidSortField
	}
	switch SortOrder(strings.ToLower(order)) {
	case SortAsc:
		return PropertySort{Field: field, Order: SortAsc}, nil
	case SortDesc, "":
		return PropertySort{Field: field, Order: SortDesc}, nil
	default:
		return PropertySort{}, NewValidationError("sortOrder must be asc or desc")
	}
}

func (s PropertySort) IsDefault() bool {
	return s.Field == ""
}

// Compare - функция сравнения для slices.SortFunc. При равенстве ключей порядок определяется по ID.
func (s PropertySort) Compare(a, b *Property) int {
	var c int
	if s.IsDefault() {
		c = compareBool(a.IsSample, b.IsSample)
		if c == 0 {
			c = b.CreatedAt.Compare(a.CreatedAt)
		}
	} else {
		c = sortableFields[s.Field](a, b)
		if s.Order == SortDesc {
			c = -c
		}
	}
	if c != 0 {
		return c
	}
	return strings.Compare(a.ID.String(), b.ID.String())
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// PageRequest - параметры пагинации (страницы нумеруются с 1).
type PageRequest struct {
	Page  int
	Limit int
}

// NewPageRequest проверяет параметры. Лимит больше MaxLimit урезается.
func NewPageRequest(page, limit int) (PageRequest, error) {
	if page < 1 || limit < 1 {
		return PageRequest{}, ErrInvalidPage
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return PageRequest{Page: page, Limit: limit}, nil
}

// Offset насыщается до math.MaxInt, если номер страницы слишком велик. Такая
// страница заведомо за концом выборки.
func (p PageRequest) Offset() int {
	if p.Page <= 1 || p.Limit <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}

// PageCount = ceil(total / limit).
func (p PageRequest) PageCount(total int64) int {
	if total <= 0 || p.Limit <= 0 {
		return 0
	}
	return int((total + int64(p.Limit) - 1) / int64(p.Limit))
}

// PropertyQuery - полный запрос к каталогу.
type PropertyQuery struct {
	Filter PropertyFilter
	Sort   PropertySort
	Page   PageRequest
}

// PropertyPage - одна страница результатов.
type PropertyPage struct {
	Items     []Property
	Total     int64
	Page      int
	Limit     int
	PageCount int
}
