// Package memory - хранилище в памяти процесса. Используется для локального запуска
// (STORAGE_DRIVER=memory) и в тестах use case'ов.
package memory

import (
	"sync"
	"time"

	"marketplace-service/internal/core/domain"
	"marketplace-service/internal/core/port"

	"github.com/google/uuid"
)

var (
	_ port.PropertyRepositoryPort       = (*PropertyRepository)(nil)
	_ port.UserRepositoryPort           = (*UserRepository)(nil)
	_ port.FavoritesRepositoryPort      = (*FavoritesRepository)(nil)
	_ port.RecommendationRepositoryPort = (*RecommendationRepository)(nil)
)

type favoriteEntry struct {
	propertyID uuid.UUID
	createdAt  time.Time
}

type storedRecommendation struct {
	rec domain.Recommendation
	seq uint64
}

// Store хранит все коллекции под одним мьютексом, поэтому операции,
// затрагивающие несколько коллекций (удаление объекта), атомарны.
type Store struct {
	mu sync.RWMutex

	properties      map[uuid.UUID]domain.Property
	users           map[uuid.UUID]domain.User
	favorites       map[uuid.UUID][]favoriteEntry
	recommendations map[uuid.UUID]storedRecommendation
	seq             uint64
}

func NewStore() *Store {
	return &Store{
		properties:      make(map[uuid.UUID]domain.Property),
		users:           make(map[uuid.UUID]domain.User),
		favorites:       make(map[uuid.UUID][]favoriteEntry),
		recommendations: make(map[uuid.UUID]storedRecommendation),
	}
}

func (s *Store) Properties() *PropertyRepository {
	return &PropertyRepository{store: s}
}

func (s *Store) Users() *UserRepository {
	return &UserRepository{store: s}
}

func (s *Store) Favorites() *FavoritesRepository {
	return &FavoritesRepository{store: s}
}

func (s *Store) Recommendations() *RecommendationRepository {
	return &RecommendationRepository{store: s}
}

// withOwner возвращает копию объекта с развернутым владельцем. Вызывается под блокировкой.
func (s *Store) withOwner(p domain.Property) domain.Property {
	p = cloneProperty(p)
	p.Owner = nil
	if p.OwnerID != nil {
		if u, ok := s.users[*p.OwnerID]; ok {
			summary := u.Summary()
			p.Owner = &summary
		}
	}
	return p
}

func cloneProperty(p domain.Property) domain.Property {
	p.Amenities = append([]string(nil), p.Amenities...)
	p.Tags = append([]string(nil), p.Tags...)
	if p.OwnerID != nil {
		id := *p.OwnerID
		p.OwnerID = &id
	}
	if p.Owner != nil {
		owner := *p.Owner
		p.Owner = &owner
	}
	return p
}
