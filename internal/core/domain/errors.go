package domain

import (
	"errors"
	"fmt"
)

// Категории ошибок. По ним REST-слой выбирает HTTP статус.
var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInternal     = errors.New("internal error")
)

// kindError - конкретная ошибка, принадлежащая одной из категорий.
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

func newError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

// NewValidationError создает ошибку валидации с произвольным текстом.
func NewValidationError(msg string) error {
	return newError(ErrValidation, msg)
}

// NewInternalError оборачивает инфраструктурную ошибку. Исходная ошибка доступна через errors.Is/As.
func NewInternalError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrInternal, op, err)
}

// Рекомендации
var (
	ErrMissingFields           = newError(ErrValidation, "missing fields")
	ErrBadEmail                = newError(ErrValidation, "bad email")
	ErrSelfRecommend           = newError(ErrValidation, "self-recommend")
	ErrRecipientNotFound       = newError(ErrNotFound, "recipient not found")
	ErrDuplicateRecommendation = newError(ErrConflict, "duplicate")
	ErrRecommendationNotFound  = newError(ErrNotFound, "recommendation not found")
	ErrEmptySearchQuery        = newError(ErrValidation, "search query is required")
)

// Объекты недвижимости
var (
	ErrPropertyNotFound = newError(ErrNotFound, "property not found")
	ErrPropertyNotOwned = newError(ErrNotFound, "property not found or you are not authorized to modify it")
	ErrSampleImmutable  = newError(ErrForbidden, "sample properties cannot be modified")
	ErrInvalidSortField = newError(ErrValidation, "invalid sort field")
	ErrInvalidPage      = newError(ErrValidation, "page and limit must be positive integers")
)

// Избранное
var (
	ErrAlreadyFavorite = newError(ErrConflict, "property already in favorites")
	ErrNotInFavorites  = newError(ErrNotFound, "property not in favorites")
)

// Пользователи и аутентификация
var (
	ErrUserNotFound       = newError(ErrNotFound, "user not found")
	ErrEmailInUse         = newError(ErrConflict, "email already in use")
	ErrInvalidCredentials = newError(ErrUnauthorized, "invalid credentials")
	ErrTokenInvalid       = newError(ErrUnauthorized, "invalid jwt token")
)
