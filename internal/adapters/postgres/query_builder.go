package postgres

import (
	"fmt"
	"marketplace-service/internal/core/domain"
	"strings"
)

type queryBuilder struct {
	conditions []string
	args       []any
	argID      int
}

func newQueryBuilder() *queryBuilder {
	return &queryBuilder{
		argID: 1,
		args:  make([]any, 0),
	}
}

func (qb *queryBuilder) addCondition(condition string, fieldName string, arg any) {
	qb.conditions = append(qb.conditions, fmt.Sprintf(condition, fieldName, qb.argID))
	qb.args = append(qb.args, arg)
	qb.argID++
}

func (qb *queryBuilder) addFloatRange(fieldName string, min, max *float64) {
	if min != nil {
		qb.addCondition("%s >= $%d", fieldName, *min)
	}
	if max != nil {
		qb.addCondition("%s <= $%d", fieldName, *max)
	}
}

func (qb *queryBuilder) addContains(fieldName, value string) {
	qb.addCondition("%s ILIKE $%d", fieldName, "%"+escapeLike(value)+"%")
}

// build возвращает WHERE (или пустую строку) и аргументы запроса
func (qb *queryBuilder) build() (string, []any) {
	whereClause := ""
	if len(qb.conditions) > 0 {
		whereClause = "WHERE " + strings.Join(qb.conditions, " AND ")
	}
	return whereClause, qb.args
}

// applyFilters переводит фильтры каталога в условия WHERE
func applyFilters(f domain.PropertyFilter) (string, []any) {
	qb := newQueryBuilder()

	// Точное совпадение
	if f.Type != "" {
		qb.addCondition("%s = $%d", "p.type", f.Type)
	}
	if f.ListingType != "" {
		qb.addCondition("%s = $%d", "p.listing_type", f.ListingType)
	}
	if f.Furnished != "" {
		qb.addCondition("%s = $%d", "p.furnished", f.Furnished)
	}
	if f.ListedBy != "" {
		qb.addCondition("%s = $%d", "p.listed_by", f.ListedBy)
	}

	// Подстрока без учета регистра
	if f.City != "" {
		qb.addContains("p.city", f.City)
	}
	if f.State != "" {
		qb.addContains("p.state", f.State)
	}

	if f.IsVerified != nil {
		qb.addCondition("%s = $%d", "p.is_verified", *f.IsVerified)
	}

	qb.addFloatRange("p.price", f.MinPrice, f.MaxPrice)
	qb.addFloatRange("p.area_sq_ft", f.MinArea, f.MaxArea)

	if f.Bedrooms != nil {
		qb.addCondition("%s = $%d", "p.bedrooms", *f.Bedrooms)
	}
	if f.Bathrooms != nil {
		qb.addCondition("%s = $%d", "p.bathrooms", *f.Bathrooms)
	}
	if f.MinRating != nil {
		qb.addCondition("%s >= $%d", "p.rating", *f.MinRating)
	}

	// Массив объекта должен содержать все значения фильтра
	if len(f.Amenities) > 0 {
		qb.addCondition("%s @> $%d", "p.amenities", f.Amenities)
	}
	if len(f.Tags) > 0 {
		qb.addCondition("%s @> $%d", "p.tags", f.Tags)
	}

	if f.AvailableFrom != nil {
		qb.addCondition("%s >= $%d", "p.available_from", *f.AvailableFrom)
	}

	return qb.build()
}

var sortColumns = map[string]string{
	domain.SortByPrice:         "p.price",
	domain.SortByArea:          "p.area_sq_ft",
	domain.SortByBedrooms:      "p.bedrooms",
	domain.SortByBathrooms:     "p.bathrooms",
	domain.SortByRating:        "p.rating",
	domain.SortByAvailableFrom: "p.available_from",
	domain.SortByCreatedAt:     "p.created_at",
	domain.SortByUpdatedAt:     "p.updated_at",
	domain.SortByTitle:         "p.title COLLATE \"C\"",
}

// orderClause строит ORDER BY только из известных колонок. Последний ключ - id.
func orderClause(s domain.PropertySort) string {
	column, ok := sortColumns[s.Field]
	if s.IsDefault() || !ok {
		return "ORDER BY p.is_sample ASC, p.created_at DESC, p.id ASC"
	}
	direction := "DESC"
	if s.Order == domain.SortAsc {
		direction = "ASC"
	}
	return fmt.Sprintf("ORDER BY %s %s, p.id ASC", column, direction)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
