package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"marketplace-service/internal/adapters/memory"
	"marketplace-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store           *memory.Store
	properties      *memory.PropertyRepository
	users           *memory.UserRepository
	favorites       *memory.FavoritesRepository
	recommendations *memory.RecommendationRepository
	events          *recordingEvents

	alice *domain.User
	bob   *domain.User
	home  *domain.Property
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	f := &fixture{
		store:           store,
		properties:      store.Properties(),
		users:           store.Users(),
		favorites:       store.Favorites(),
		recommendations: store.Recommendations(),
		events:          &recordingEvents{},
	}
	f.alice = f.addUser(t, "Alice Smith", "alice@example.com")
	f.bob = f.addUser(t, "Bob Jones", "bob@example.com")
	f.home = f.addProperty(t, "Cozy studio", f.alice.ID)
	return f
}

func (f *fixture) addUser(t *testing.T, name, email string) *domain.User {
	t.Helper()
	u, err := domain.NewUser(name, email, "password")
	require.NoError(t, err)
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func (f *fixture) addProperty(t *testing.T, title string, owner uuid.UUID) *domain.Property {
	t.Helper()
	p, err := domain.NewUserProperty(domain.Property{
		Title:         title,
		Type:          domain.PropertyTypeStudio,
		Price:         12000,
		State:         "Karnataka",
		City:          "Bengaluru",
		AreaSqFt:      450,
		Bedrooms:      1,
		Bathrooms:     1,
		Furnished:     domain.FurnishedFull,
		AvailableFrom: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		ListedBy:      domain.ListedByOwner,
		Rating:        4,
		ListingType:   domain.ListingTypeRent,
	}, owner)
	require.NoError(t, err)
	require.NoError(t, f.properties.Create(context.Background(), p))
	return p
}

func (f *fixture) recommendUC() *RecommendPropertyUseCase {
	return NewRecommendPropertyUseCase(f.properties, f.users, f.recommendations, f.events)
}

type recordingEvents struct {
	mu     sync.Mutex
	events []domain.RecommendationCreatedEvent
	err    error
}

func (r *recordingEvents) PublishRecommendationCreated(_ context.Context, event domain.RecommendationCreatedEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return r.err
}

func (r *recordingEvents) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// failingPropertyRepo имитирует недоступное хранилище.
type failingPropertyRepo struct {
	*memory.PropertyRepository
}

var errStoreDown = errors.New("store is down")

func (failingPropertyRepo) FindWithFilters(context.Context, domain.PropertyQuery) ([]domain.Property, int64, error) {
	return nil, 0, errStoreDown
}

func (failingPropertyRepo) GetByID(context.Context, uuid.UUID) (*domain.Property, error) {
	return nil, errStoreDown
}

type fakeTokenService struct{}

func (fakeTokenService) GenerateToken(_ context.Context, user *domain.User, _ time.Duration) (string, error) {
	return "token-" + user.ID.String(), nil
}

func (fakeTokenService) ValidateToken(_ context.Context, token string) (*domain.Claims, error) {
	raw, ok := strings.CutPrefix(token, "token-")
	if !ok {
		return nil, domain.ErrTokenInvalid
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}
	return &domain.Claims{UserID: id}, nil
}
