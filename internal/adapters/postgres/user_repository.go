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
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// UserRepository - реализация UserRepositoryPort для PostgreSQL.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) (*UserRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &UserRepository{pool: pool}, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "PostgresUserRepository",
		"method":    "Create",
		"user_id":   user.ID.String(),
	})

	query := `INSERT INTO users (id, name, email, password_hash, is_admin, created_at) VALUES ($1, $2, $3, $4, $5, $6)`

	repoLogger.Debug("Executing query to create user.", nil)
	_, err := r.pool.Exec(ctx, query, user.ID, user.Name, user.Email, user.PasswordHash, user.IsAdmin, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			repoLogger.Warn("Email is already registered.", nil)
			return domain.ErrEmailInUse
		}
		repoLogger.Error("Failed to create user", err, port.Fields{"query": query})
		return fmt.Errorf("failed to create user: %w", err)
	}

	repoLogger.Debug("User created successfully.", nil)
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, method, where string, arg any) (*domain.User, error) {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "PostgresUserRepository",
		"method":    method,
	})

	query := `SELECT id, name, email, password_hash, is_admin, created_at FROM users WHERE ` + where

	var user domain.User
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.IsAdmin,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			repoLogger.Debug("User not found.", nil)
			return nil, nil
		}
		repoLogger.Error("Failed to find user", err, port.Fields{"query": query})
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// FindByEmail возвращает (nil, nil), если пользователь не найден.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "FindByEmail", "lower(email) = lower($1)", email)
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.findOne(ctx, "FindByID", "id = $1", id)
}

func (r *UserRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.User, error) {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "PostgresUserRepository",
		"method":    "FindByIDs",
		"id_count":  len(ids),
	})

	if len(ids) == 0 {
		return []domain.User{}, nil
	}

	query := `SELECT id, name, email, password_hash, is_admin, created_at FROM users WHERE id = ANY($1)`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		repoLogger.Error("Failed to query users", err, port.Fields{"query": query})
		return nil, fmt.Errorf("failed to find users by ids: %w", err)
	}
	defer rows.Close()

	users := make([]domain.User, 0, len(ids))
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt); err != nil {
			repoLogger.Error("Failed to scan user row", err, nil)
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during users iteration: %w", err)
	}
	return users, nil
}

// Search ищет по подстроке имени или email, исключая excludeID.
func (r *UserRepository) Search(ctx context.Context, query string, excludeID uuid.UUID) ([]domain.UserSummary, error) {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "PostgresUserRepository",
		"method":    "Search",
	})

	sql := `SELECT id, name, email FROM users
		WHERE id <> $1 AND (name ILIKE $2 OR email ILIKE $2)
		ORDER BY name COLLATE "C", email COLLATE "C"`
	rows, err := r.pool.Query(ctx, sql, excludeID, "%"+escapeLike(query)+"%")
	if err != nil {
		repoLogger.Error("Failed to search users", err, port.Fields{"query": sql})
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	defer rows.Close()

	found := make([]domain.UserSummary, 0)
	for rows.Next() {
		var s domain.UserSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.Email); err != nil {
			return nil, fmt.Errorf("failed to scan user summary: %w", err)
		}
		found = append(found, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during user search iteration: %w", err)
	}

	repoLogger.Debug("User search finished", port.Fields{"found": len(found)})
	return found, nil
}
