package memory

import (
	"context"
	"slices"

	"marketplace-service/internal/core/domain"

	"github.com/google/uuid"
)

type PropertyRepository struct {
	store *Store
}

func (r *PropertyRepository) Create(_ context.Context, property *domain.Property) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	p := cloneProperty(*property)
	p.Owner = nil
	r.store.properties[p.ID] = p
	return nil
}

func (r *PropertyRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Property, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	p, ok := r.store.properties[id]
	if !ok {
		return nil, nil
	}
	out := r.store.withOwner(p)
	return &out, nil
}

func (r *PropertyRepository) GetByIDs(_ context.Context, ids []uuid.UUID) ([]domain.Property, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]domain.Property, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if p, ok := r.store.properties[id]; ok {
			out = append(out, r.store.withOwner(p))
		}
	}
	return out, nil
}

func (r *PropertyRepository) Update(_ context.Context, property *domain.Property) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.properties[property.ID]; !ok {
		return domain.ErrPropertyNotFound
	}
	p := cloneProperty(*property)
	p.Owner = nil
	r.store.properties[p.ID] = p
	return nil
}

// Delete удаляет объект и ссылки на него из избранного. Рекомендации остаются висячими.
func (r *PropertyRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	delete(r.store.properties, id)
	for userID, entries := range r.store.favorites {
		r.store.favorites[userID] = slices.DeleteFunc(entries, func(e favoriteEntry) bool { return e.propertyID == id })
	}
	return nil
}

func (r *PropertyRepository) FindWithFilters(_ context.Context, query domain.PropertyQuery) ([]domain.Property, int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	matched := make([]domain.Property, 0)
	for _, p := range r.store.properties {
		if query.Filter.Matches(&p) {
			matched = append(matched, p)
		}
	}
	slices.SortFunc(matched, func(a, b domain.Property) int { return query.Sort.Compare(&a, &b) })

	total := int64(len(matched))
	offset := query.Page.Offset()
	if offset >= len(matched) {
		return []domain.Property{}, total, nil
	}
	end := min(offset+query.Page.Limit, len(matched))

	page := make([]domain.Property, 0, end-offset)
	for _, p := range matched[offset:end] {
		page = append(page, r.store.withOwner(p))
	}
	return page, total, nil
}

func (r *PropertyRepository) FindByOwner(_ context.Context, ownerID uuid.UUID) ([]domain.Property, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]domain.Property, 0)
	for _, p := range r.store.properties {
		if p.IsOwnedBy(ownerID) {
			out = append(out, r.store.withOwner(p))
		}
	}
	slices.SortFunc(out, func(a, b domain.Property) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return slices.Compare(a.ID[:], b.ID[:])
	})
	return out, nil
}

func (r *PropertyRepository) ReplaceSamples(_ context.Context, samples []domain.Property) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for id, p := range r.store.properties {
		if p.IsSample {
			delete(r.store.properties, id)
		}
	}
	for _, s := range samples {
		p := cloneProperty(s)
		p.Owner = nil
		r.store.properties[p.ID] = p
	}
	return len(samples), nil
}
