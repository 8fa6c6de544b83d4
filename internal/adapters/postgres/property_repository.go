package postgres

import (
	"context"
	"errors"
	"fmt"
	"marketplace-service/internal/contextkeys"
	"marketplace-service/internal/core/domain"
	"marketplace-service/internal/core/port"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PropertyRepository - реализация PropertyRepositoryPort для PostgreSQL.
type PropertyRepository struct {
	pool *pgxpool.Pool
}

func NewPropertyRepository(pool *pgxpool.Pool) (*PropertyRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PropertyRepository{pool: pool}, nil
}

const propertyColumns = `p.id, p.title, p.type, p.price, p.state, p.city, p.area_sq_ft, p.bedrooms, p.bathrooms,
	p.amenities, p.furnished, p.available_from, p.listed_by, p.tags, p.color_theme, p.rating, p.is_verified,
	p.listing_type, p.owner_id, p.is_sample, p.created_at, p.updated_at, u.id, u.name, u.email`

const propertyFrom = `FROM properties p LEFT JOIN users u ON u.id = p.owner_id`

// scanProperty читает строку с колонками propertyColumns.
func scanProperty(row pgx.Row) (domain.Property, error) {
	var (
		p                                              domain.Property
		propertyType, furnished, listedBy, listingType string
		ownerRefID                                     *uuid.UUID
		ownerName, ownerEmail                          *string
	)
	err := row.Scan(
		&p.ID, &p.Title, &propertyType, &p.Price, &p.State, &p.City, &p.AreaSqFt, &p.Bedrooms, &p.Bathrooms,
		&p.Amenities, &furnished, &p.AvailableFrom, &listedBy, &p.Tags, &p.ColorTheme, &p.Rating, &p.IsVerified,
		&listingType, &p.OwnerID, &p.IsSample, &p.CreatedAt, &p.UpdatedAt, &ownerRefID, &ownerName, &ownerEmail,
	)
	if err != nil {
		return domain.Property{}, err
	}

	p.Type = domain.PropertyType(propertyType)
	p.Furnished = domain.FurnishedStatus(furnished)
	p.ListedBy = domain.ListedBy(listedBy)
	p.ListingType = domain.ListingType(listingType)
	if ownerRefID != nil && ownerName != nil && ownerEmail != nil {
		p.Owner = &domain.UserSummary{ID: *ownerRefID, Name: *ownerName, Email: *ownerEmail}
	}
	return p, nil
}

func collectProperties(rows pgx.Rows, capacity int) ([]domain.Property, error) {
	defer rows.Close()

	out := make([]domain.Property, 0, capacity)
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan property: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during property rows iteration: %w", err)
	}
	return out, nil
}

func (r *PropertyRepository) Create(ctx context.Context, property *domain.Property) error {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":   "PostgresPropertyRepository",
		"method":      "Create",
		"property_id": property.ID,
	})

	query := `INSERT INTO properties (id, title, type, price, state, city, area_sq_ft, bedrooms, bathrooms,
		amenities, furnished, available_from, listed_by, tags, color_theme, rating, is_verified, listing_type,
		owner_id, is_sample, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)`

	repoLogger.Debug("Executing query to create property.", nil)
	if _, err := r.pool.Exec(ctx, query, propertyRow(property)...); err != nil {
		repoLogger.Error("Failed to create property", err, port.Fields{"query": query})
		return fmt.Errorf("failed to create property: %w", err)
	}
	return nil
}

// propertyRow - значения в порядке колонок INSERT.
func propertyRow(p *domain.Property) []any {
	return []any{
		p.ID, p.Title, string(p.Type), p.Price, p.State, p.City, p.AreaSqFt, p.Bedrooms, p.Bathrooms,
		nonNil(p.Amenities), string(p.Furnished), p.AvailableFrom, string(p.ListedBy), nonNil(p.Tags), p.ColorTheme,
		p.Rating, p.IsVerified, string(p.ListingType), p.OwnerID, p.IsSample, p.CreatedAt, p.UpdatedAt,
	}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

// GetByID возвращает (nil, nil), если объект не найден.
func (r *PropertyRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Property, error) {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":   "PostgresPropertyRepository",
		"method":      "GetByID",
		"property_id": id,
	})

	query := fmt.Sprintf("SELECT %s %s WHERE p.id = $1", propertyColumns, propertyFrom)
	p, err := scanProperty(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			repoLogger.Debug("Property not found.", nil)
			return nil, nil
		}
		repoLogger.Error("Failed to get property", err, port.Fields{"query": query})
		return nil, fmt.Errorf("failed to get property by id: %w", err)
	}
	return &p, nil
}

func (r *PropertyRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Property, error) {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "PostgresPropertyRepository",
		"method":    "GetByIDs",
		"id_count":  len(ids),
	})

	if len(ids) == 0 {
		return []domain.Property{}, nil
	}

	query := fmt.Sprintf("SELECT %s %s WHERE p.id = ANY($1)", propertyColumns, propertyFrom)
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		repoLogger.Error("Failed to query properties by ids", err, port.Fields{"query": query})
		return nil, fmt.Errorf("failed to get properties by ids: %w", err)
	}
	properties, err := collectProperties(rows, len(ids))
	if err != nil {
		repoLogger.Error("Failed to read properties", err, nil)
		return nil, err
	}
	return properties, nil
}

func (r *PropertyRepository) Update(ctx context.Context, property *domain.Property) error {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":   "PostgresPropertyRepository",
		"method":      "Update",
		"property_id": property.ID,
	})

	query := `UPDATE properties SET title = $2, type = $3, price = $4, state = $5, city = $6, area_sq_ft = $7,
		bedrooms = $8, bathrooms = $9, amenities = $10, furnished = $11, available_from = $12, listed_by = $13,
		tags = $14, color_theme = $15, rating = $16, is_verified = $17, listing_type = $18, updated_at = $19
		WHERE id = $1`

	cmdTag, err := r.pool.Exec(ctx, query,
		property.ID, property.Title, string(property.Type), property.Price, property.State, property.City,
		property.AreaSqFt, property.Bedrooms, property.Bathrooms, nonNil(property.Amenities), string(property.Furnished),
		property.AvailableFrom, string(property.ListedBy), nonNil(property.Tags), property.ColorTheme, property.Rating,
		property.IsVerified, string(property.ListingType), property.UpdatedAt,
	)
	if err != nil {
		repoLogger.Error("Failed to update property", err, port.Fields{"query": query})
		return fmt.Errorf("failed to update property: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		repoLogger.Warn("Property to update was not found.", nil)
		return domain.ErrPropertyNotFound
	}
	return nil
}

// Delete удаляет объект. Записи избранного удаляются каскадно.
func (r *PropertyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":   "PostgresPropertyRepository",
		"method":      "Delete",
		"property_id": id,
	})

	query := `DELETE FROM properties WHERE id = $1`
	if _, err := r.pool.Exec(ctx, query, id); err != nil {
		repoLogger.Error("Failed to delete property", err, port.Fields{"query": query})
		return fmt.Errorf("failed to delete property: %w", err)
	}
	return nil
}

// FindWithFilters выполняет COUNT и выборку страницы в одной транзакции.
func (r *PropertyRepository) FindWithFilters(ctx context.Context, query domain.PropertyQuery) ([]domain.Property, int64, error) {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "PostgresPropertyRepository",
		"method":    "FindWithFilters",
		"limit":     query.Page.Limit,
		"offset":    query.Page.Offset(),
	})

	whereClause, args := applyFilters(query.Filter)

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM properties p %s", whereClause)
	var totalCount int64
	if err := tx.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		repoLogger.Error("Failed to count properties with filters", err, port.Fields{"query": countQuery})
		return nil, 0, fmt.Errorf("failed to count properties with filters: %w", err)
	}

	repoLogger.Debug("Total properties found", port.Fields{"total_count": totalCount})

	// Страница за пределами выборки - второй запрос не нужен
	if totalCount == 0 || int64(query.Page.Offset()) >= totalCount {
		return []domain.Property{}, totalCount, nil
	}

	dataQuery := fmt.Sprintf("SELECT %s %s %s %s LIMIT $%d OFFSET $%d",
		propertyColumns, propertyFrom, whereClause, orderClause(query.Sort), len(args)+1, len(args)+2)
	pageArgs := append(args, query.Page.Limit, query.Page.Offset())

	rows, err := tx.Query(ctx, dataQuery, pageArgs...)
	if err != nil {
		repoLogger.Error("Failed to find properties with filters", err, port.Fields{"query": dataQuery})
		return nil, 0, fmt.Errorf("failed to find properties with filters: %w", err)
	}
	properties, err := collectProperties(rows, query.Page.Limit)
	if err != nil {
		repoLogger.Error("Failed to read page", err, nil)
		return nil, 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	repoLogger.Debug("Successfully found properties for page", port.Fields{"count": len(properties)})
	return properties, totalCount, nil
}

func (r *PropertyRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Property, error) {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "PostgresPropertyRepository",
		"method":    "FindByOwner",
		"owner_id":  ownerID,
	})

	query := fmt.Sprintf("SELECT %s %s WHERE p.owner_id = $1 ORDER BY p.created_at DESC, p.id ASC", propertyColumns, propertyFrom)
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		repoLogger.Error("Failed to query owner properties", err, port.Fields{"query": query})
		return nil, fmt.Errorf("failed to find properties by owner: %w", err)
	}
	return collectProperties(rows, 0)
}

// ReplaceSamples удаляет прежние демонстрационные объекты и загружает новые через COPY.
func (r *PropertyRepository) ReplaceSamples(ctx context.Context, samples []domain.Property) (int, error) {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "PostgresPropertyRepository",
		"method":    "ReplaceSamples",
		"count":     len(samples),
	})

	start := time.Now()
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	cmdTag, err := tx.Exec(ctx, `DELETE FROM properties WHERE is_sample = true`)
	if err != nil {
		repoLogger.Error("Failed to delete old samples", err, nil)
		return 0, fmt.Errorf("failed to delete samples: %w", err)
	}
	repoLogger.Debug("Old samples removed", port.Fields{"deleted": cmdTag.RowsAffected()})

	rows := make([][]any, 0, len(samples))
	for i := range samples {
		rows = append(rows, propertyRow(&samples[i]))
	}

	copied, err := tx.CopyFrom(ctx,
		pgx.Identifier{"properties"},
		[]string{"id", "title", "type", "price", "state", "city", "area_sq_ft", "bedrooms", "bathrooms",
			"amenities", "furnished", "available_from", "listed_by", "tags", "color_theme", "rating", "is_verified",
			"listing_type", "owner_id", "is_sample", "created_at", "updated_at"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		repoLogger.Error("Failed to copy samples", err, nil)
		return 0, fmt.Errorf("failed to copy samples: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	repoLogger.Info("Samples replaced", port.Fields{"inserted": copied, "duration_ms": time.Since(start).Milliseconds()})
	return int(copied), nil
}
