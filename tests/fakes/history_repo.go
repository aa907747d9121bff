package fakes

import (
	"context"
	"time"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/apartment-registry/internal/app/apartment/contracts"
	"github.com/light-bringer/apartment-registry/internal/app/apartment/domain"
	"github.com/light-bringer/apartment-registry/internal/app/apartment/repo"
)

// PriceHistoryRepo implements contracts.PriceHistoryRepository over a Store.
type PriceHistoryRepo struct {
	store *Store
	muts  contracts.PriceHistoryRepository

	// InsertErr fails InsertMut when set.
	InsertErr error
}

var _ contracts.PriceHistoryRepository = (*PriceHistoryRepo)(nil)

func NewPriceHistoryRepo(store *Store) *PriceHistoryRepo {
	return &PriceHistoryRepo{store: store, muts: repo.NewPriceHistoryRepo(nil)}
}

func (r *PriceHistoryRepo) InsertMut(record *domain.PriceHistory) (*spanner.Mutation, error) {
	if r.InsertErr != nil {
		return nil, r.InsertErr
	}
	mut, err := r.muts.InsertMut(record)
	if err != nil {
		return nil, err
	}
	rec := *record
	r.store.stage(mut, func() { r.store.prices = append(r.store.prices, &rec) })
	return mut, nil
}

func (r *PriceHistoryRepo) ListByApartment(_ context.Context, apartmentID string, limit int) ([]*domain.PriceHistory, error) {
	rows := r.store.PriceHistory(apartmentID)
	newestFirst(rows, func(p *domain.PriceHistory) time.Time { return p.ChangedAt })
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

// ChangeHistoryRepo implements contracts.ChangeHistoryRepository over a Store.
type ChangeHistoryRepo struct {
	store *Store
	muts  contracts.ChangeHistoryRepository

	// InsertErr fails InsertMut when set.
	InsertErr error
}

var _ contracts.ChangeHistoryRepository = (*ChangeHistoryRepo)(nil)

func NewChangeHistoryRepo(store *Store) *ChangeHistoryRepo {
	return &ChangeHistoryRepo{store: store, muts: repo.NewChangeHistoryRepo(nil)}
}

func (r *ChangeHistoryRepo) InsertMut(record *domain.ChangeHistory) (*spanner.Mutation, error) {
	if r.InsertErr != nil {
		return nil, r.InsertErr
	}
	mut, err := r.muts.InsertMut(record)
	if err != nil {
		return nil, err
	}
	rec := *record
	r.store.stage(mut, func() { r.store.changes = append(r.store.changes, &rec) })
	return mut, nil
}

func (r *ChangeHistoryRepo) ListByApartment(_ context.Context, apartmentID string, limit int) ([]*domain.ChangeHistory, error) {
	rows := r.store.ChangeHistory(apartmentID)
	newestFirst(rows, func(c *domain.ChangeHistory) time.Time { return c.ChangedAt })
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}
