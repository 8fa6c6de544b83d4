package memory

import (
	"cmp"
	"context"
	"slices"

	"marketplace-service/internal/core/domain"

	"github.com/google/uuid"
)

type RecommendationRepository struct {
	store *Store
}

// Create проверяет уникальность тройки под той же блокировкой, что и вставку.
func (r *RecommendationRepository) Create(_ context.Context, rec *domain.Recommendation) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.recommendations {
		if sameTriple(existing.rec, rec.PropertyID, rec.FromUserID, rec.ToUserID) {
			return domain.ErrDuplicateRecommendation
		}
	}
	r.store.seq++
	r.store.recommendations[rec.ID] = storedRecommendation{rec: *rec, seq: r.store.seq}
	return nil
}

func (r *RecommendationRepository) Exists(_ context.Context, propertyID, fromUserID, toUserID uuid.UUID) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, existing := range r.store.recommendations {
		if sameTriple(existing.rec, propertyID, fromUserID, toUserID) {
			return true, nil
		}
	}
	return false, nil
}

func (r *RecommendationRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Recommendation, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	stored, ok := r.store.recommendations[id]
	if !ok {
		return nil, nil
	}
	rec := stored.rec
	return &rec, nil
}

func (r *RecommendationRepository) FindByRecipient(_ context.Context, toUserID uuid.UUID) ([]domain.Recommendation, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	matched := make([]storedRecommendation, 0)
	for _, stored := range r.store.recommendations {
		if stored.rec.ToUserID == toUserID {
			matched = append(matched, stored)
		}
	}
	// Новые первыми. При одинаковом времени решает порядок вставки.
	slices.SortFunc(matched, func(a, b storedRecommendation) int {
		return cmp.Or(b.rec.CreatedAt.Compare(a.rec.CreatedAt), cmp.Compare(b.seq, a.seq))
	})

	out := make([]domain.Recommendation, 0, len(matched))
	for _, stored := range matched {
		out = append(out, stored.rec)
	}
	return out, nil
}

func (r *RecommendationRepository) MarkRead(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored, ok := r.store.recommendations[id]
	if !ok {
		return domain.ErrRecommendationNotFound
	}
	stored.rec.Read = true
	r.store.recommendations[id] = stored
	return nil
}

func sameTriple(rec domain.Recommendation, propertyID, fromUserID, toUserID uuid.UUID) bool {
	return rec.PropertyID == propertyID && rec.FromUserID == fromUserID && rec.ToUserID == toUserID
}
