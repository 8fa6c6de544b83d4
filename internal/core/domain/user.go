package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// User - зарегистрированный пользователь.
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
}

// UserSummary - публичные данные пользователя (имя и email).
type UserSummary struct {
	ID    uuid.UUID
	Name  string
	Email string
}

// UnknownUserSummary подставляется вместо удаленного отправителя.
var UnknownUserSummary = UserSummary{Name: "Unknown User", Email: "unknown@example.com"}

// Claims - данные, которые "зашиваются" в JWT токен.
type Claims struct {
	UserID  uuid.UUID
	Email   string
	IsAdmin bool
}

// NewUser создает нового пользователя. Хэширование пароля происходит здесь.
func NewUser(name, email, password string) (*User, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, NewValidationError("name, email and password are required")
	}
	if !IsValidEmail(email) {
		return nil, ErrBadEmail
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// CheckPassword сравнивает предоставленный пароль с хэшем, хранящимся у пользователя.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail: ровно один "@", непустая локальная часть, домен с точкой.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// NormalizeEmail приводит email к каноническому виду для хранения и поиска.
// Caser хранит состояние, поэтому создается на каждый вызов.
func NormalizeEmail(email string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(email))
}

// ContainsFold - регистронезависимый поиск подстроки.
func ContainsFold(s, substr string) bool {
	folder := cases.Fold()
	return strings.Contains(folder.String(s), folder.String(substr))
}

// EqualFold - регистронезависимое сравнение строк.
func EqualFold(a, b string) bool {
	folder := cases.Fold()
	return folder.String(a) == folder.String(b)
}
