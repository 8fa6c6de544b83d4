package memory

import (
	"cmp"
	"context"
	"slices"

	"marketplace-service/internal/core/domain"

	"github.com/google/uuid"
)

type UserRepository struct {
	store *Store
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, u := range r.store.users {
		if domain.EqualFold(u.Email, user.Email) {
			return domain.ErrEmailInUse
		}
	}
	r.store.users[user.ID] = *user
	return nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, u := range r.store.users {
		if domain.EqualFold(u.Email, email) {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}

func (r *UserRepository) FindByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	u, ok := r.store.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepository) FindByIDs(_ context.Context, ids []uuid.UUID) ([]domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]domain.User, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if u, ok := r.store.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *UserRepository) Search(_ context.Context, query string, excludeID uuid.UUID) ([]domain.UserSummary, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]domain.UserSummary, 0)
	for _, u := range r.store.users {
		if u.ID == excludeID {
			continue
		}
		if domain.ContainsFold(u.Name, query) || domain.ContainsFold(u.Email, query) {
			out = append(out, u.Summary())
		}
	}
	slices.SortFunc(out, func(a, b domain.UserSummary) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.Email, b.Email))
	})
	return out, nil
}
