package memory

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
)

type FavoritesRepository struct {
	store *Store
}

func (r *FavoritesRepository) Add(_ context.Context, userID, propertyID uuid.UUID) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	entries := r.store.favorites[userID]
	if slices.ContainsFunc(entries, func(e favoriteEntry) bool { return e.propertyID == propertyID }) {
		return false, nil
	}
	r.store.favorites[userID] = append(entries, favoriteEntry{propertyID: propertyID, createdAt: time.Now().UTC()})
	return true, nil
}

func (r *FavoritesRepository) Remove(_ context.Context, userID, propertyID uuid.UUID) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	entries := r.store.favorites[userID]
	idx := slices.IndexFunc(entries, func(e favoriteEntry) bool { return e.propertyID == propertyID })
	if idx < 0 {
		return false, nil
	}
	r.store.favorites[userID] = slices.Delete(entries, idx, idx+1)
	return true, nil
}

// FindIDsByUser возвращает ID в обратном порядке добавления.
func (r *FavoritesRepository) FindIDsByUser(_ context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	entries := r.store.favorites[userID]
	ids := make([]uuid.UUID, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		ids = append(ids, entries[i].propertyID)
	}
	return ids, nil
}
