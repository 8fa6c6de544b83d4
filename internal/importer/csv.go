// Package importer читает демонстрационные объекты из CSV выгрузки.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"marketplace-service/internal/contracts"
	"marketplace-service/internal/core/domain"
)

const (
	listSeparator = "|"
	csvDateLayout = "02-01-2006"
)

// RowError - ошибка в конкретной строке файла (нумерация с 1, без заголовка).
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// ReadProperties разбирает CSV с заголовком. Первая же невалидная строка прерывает разбор.
func ReadProperties(r io.Reader) ([]domain.Property, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("csv file is empty")
		}
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}
	reader.FieldsPerRecord = len(header)

	var properties []domain.Property
	for row := 1; ; row++ {
		values, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &RowError{Row: row, Err: err}
		}
		if isBlank(values) {
			continue
		}

		record := make(map[string]string, len(header))
		for i, name := range header {
			record[name] = strings.TrimSpace(values[i])
		}

		p, err := RecordToProperty(record)
		if err != nil {
			return nil, &RowError{Row: row, Err: err}
		}
		properties = append(properties, p)
	}
	return properties, nil
}

// RecordToProperty проверяет запись по схеме и переводит ее в доменный объект.
func RecordToProperty(record map[string]string) (domain.Property, error) {
	if err := contracts.ValidatePropertyRecord(record); err != nil {
		return domain.Property{}, err
	}

	price, err := strconv.ParseFloat(record["price"], 64)
	if err != nil {
		return domain.Property{}, fmt.Errorf("price: %w", err)
	}
	area, err := strconv.ParseFloat(record["areaSqFt"], 64)
	if err != nil {
		return domain.Property{}, fmt.Errorf("areaSqFt: %w", err)
	}
	bedrooms, err := strconv.Atoi(record["bedrooms"])
	if err != nil {
		return domain.Property{}, fmt.Errorf("bedrooms: %w", err)
	}
	bathrooms, err := strconv.Atoi(record["bathrooms"])
	if err != nil {
		return domain.Property{}, fmt.Errorf("bathrooms: %w", err)
	}
	rating, err := strconv.ParseFloat(record["rating"], 64)
	if err != nil {
		return domain.Property{}, fmt.Errorf("rating: %w", err)
	}
	availableFrom, err := time.Parse(csvDateLayout, record["availableFrom"])
	if err != nil {
		return domain.Property{}, fmt.Errorf("availableFrom: %w", err)
	}

	return domain.Property{
		Title:         record["title"],
		Type:          domain.PropertyType(record["type"]),
		Price:         price,
		State:         record["state"],
		City:          record["city"],
		AreaSqFt:      area,
		Bedrooms:      bedrooms,
		Bathrooms:     bathrooms,
		Amenities:     splitList(record["amenities"]),
		Furnished:     domain.FurnishedStatus(record["furnished"]),
		AvailableFrom: availableFrom,
		ListedBy:      domain.ListedBy(record["listedBy"]),
		Tags:          splitList(record["tags"]),
		ColorTheme:    record["colorTheme"],
		Rating:        rating,
		IsVerified:    strings.EqualFold(record["isVerified"], "true"),
		ListingType:   domain.ListingType(record["listingType"]),
	}, nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, listSeparator)
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func isBlank(values []string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
