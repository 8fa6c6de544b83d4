package postgres

import (
	"context"
	"errors"
	"fmt"
	"marketplace-service/internal/contextkeys"
	"marketplace-service/internal/core/domain"
	"marketplace-service/internal/core/port"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RecommendationRepository struct {
	pool *pgxpool.Pool
}

func NewRecommendationRepository(pool *pgxpool.Pool) (*RecommendationRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &RecommendationRepository{pool: pool}, nil
}

// Create опирается на уникальный индекс по тройке, поэтому гонка двух
// одинаковых запросов заканчивается ErrDuplicateRecommendation для второго.
func (r *RecommendationRepository) Create(ctx context.Context, rec *domain.Recommendation) error {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":         "PostgresRecommendationRepository",
		"method":            "Create",
		"recommendation_id": rec.ID,
	})

	query := `INSERT INTO recommendations (id, property_id, from_user_id, to_user_id, message, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.pool.Exec(ctx, query, rec.ID, rec.PropertyID, rec.FromUserID, rec.ToUserID, rec.Message, rec.Read, rec.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			repoLogger.Warn("Recommendation already exists.", nil)
			return domain.ErrDuplicateRecommendation
		}
		repoLogger.Error("Failed to create recommendation", err, port.Fields{"query": query})
		return fmt.Errorf("failed to create recommendation: %w", err)
	}
	return nil
}

func (r *RecommendationRepository) Exists(ctx context.Context, propertyID, fromUserID, toUserID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM recommendations WHERE property_id = $1 AND from_user_id = $2 AND to_user_id = $3)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, propertyID, fromUserID, toUserID).Scan(&exists); err != nil {
		contextkeys.LoggerFromContext(ctx).Error("Failed to check recommendation", err, port.Fields{
			"component": "PostgresRecommendationRepository",
			"method":    "Exists",
		})
		return false, fmt.Errorf("failed to check recommendation: %w", err)
	}
	return exists, nil
}

const recommendationColumns = `id, property_id, from_user_id, to_user_id, message, is_read, created_at`

func scanRecommendation(row pgx.Row) (domain.Recommendation, error) {
	var rec domain.Recommendation
	err := row.Scan(&rec.ID, &rec.PropertyID, &rec.FromUserID, &rec.ToUserID, &rec.Message, &rec.Read, &rec.CreatedAt)
	return rec, err
}

// GetByID возвращает (nil, nil), если рекомендация не найдена.
func (r *RecommendationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Recommendation, error) {
	query := `SELECT ` + recommendationColumns + ` FROM recommendations WHERE id = $1`
	rec, err := scanRecommendation(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		contextkeys.LoggerFromContext(ctx).Error("Failed to get recommendation", err, port.Fields{
			"component":         "PostgresRecommendationRepository",
			"method":            "GetByID",
			"recommendation_id": id,
		})
		return nil, fmt.Errorf("failed to get recommendation: %w", err)
	}
	return &rec, nil
}

func (r *RecommendationRepository) FindByRecipient(ctx context.Context, toUserID uuid.UUID) ([]domain.Recommendation, error) {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "PostgresRecommendationRepository",
		"method":    "FindByRecipient",
		"user_id":   toUserID,
	})

	query := `SELECT ` + recommendationColumns + ` FROM recommendations WHERE to_user_id = $1 ORDER BY created_at DESC, id ASC`
	rows, err := r.pool.Query(ctx, query, toUserID)
	if err != nil {
		repoLogger.Error("Failed to query recommendations", err, port.Fields{"query": query})
		return nil, fmt.Errorf("failed to find recommendations: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Recommendation, 0)
	for rows.Next() {
		rec, err := scanRecommendation(rows)
		if err != nil {
			repoLogger.Error("Failed to scan recommendation row", err, nil)
			return nil, fmt.Errorf("failed to scan recommendation: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during recommendations iteration: %w", err)
	}
	return out, nil
}

func (r *RecommendationRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE recommendations SET is_read = true WHERE id = $1`
	cmdTag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark recommendation read: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrRecommendationNotFound
	}
	return nil
}
