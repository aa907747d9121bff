package fakes

import (
	"context"
	"sort"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/apartment-registry/internal/app/apartment/contracts"
	"github.com/light-bringer/apartment-registry/internal/app/apartment/domain"
	"github.com/light-bringer/apartment-registry/internal/app/apartment/repo"
	"github.com/light-bringer/apartment-registry/internal/pkg/committer"
)

// ApartmentRepo implements contracts.ApartmentRepository over a Store.
type ApartmentRepo struct {
	store *Store
	muts  contracts.ApartmentRepository

	// GetErr fails GetByID when set.
	GetErr error
}

var _ contracts.ApartmentRepository = (*ApartmentRepo)(nil)

// NewApartmentRepo creates an ApartmentRepo backed by store.
func NewApartmentRepo(store *Store) *ApartmentRepo {
	return &ApartmentRepo{
		store: store,
		muts:  repo.NewApartmentRepo(nil),
	}
}

func (r *ApartmentRepo) InsertMut(a *domain.Apartment) (*spanner.Mutation, error) {
	mut, err := r.muts.InsertMut(a)
	if err != nil {
		return nil, err
	}
	id, row := a.ID(), snapshot(a, a.Version())
	r.store.stage(mut, func() { r.store.apartments[id] = row })
	return mut, nil
}

func (r *ApartmentRepo) UpdateMut(a *domain.Apartment) (*spanner.Mutation, error) {
	mut, err := r.muts.UpdateMut(a)
	if err != nil || mut == nil {
		return mut, err
	}
	id, row := a.ID(), snapshot(a, a.Version()+1)
	r.store.stage(mut, func() { r.store.apartments[id] = row })
	return mut, nil
}

func (r *ApartmentRepo) VersionCheck(a *domain.Apartment) committer.VersionCheck {
	return r.muts.VersionCheck(a)
}

func (r *ApartmentRepo) DeleteMuts(apartmentID string) []*spanner.Mutation {
	s := r.store
	muts := r.muts.DeleteMuts(apartmentID)

	s.stage(muts[0], func() {
		s.prices = keepIf(s.prices, func(p *domain.PriceHistory) bool { return p.ApartmentID != apartmentID })
	})
	s.stage(muts[1], func() {
		s.changes = keepIf(s.changes, func(c *domain.ChangeHistory) bool { return c.ApartmentID != apartmentID })
	})
	s.stage(muts[2], func() { delete(s.apartments, apartmentID) })

	return muts
}

func (r *ApartmentRepo) GetByID(_ context.Context, apartmentID string) (*domain.Apartment, error) {
	if r.GetErr != nil {
		return nil, r.GetErr
	}
	a, ok := r.store.Apartment(apartmentID)
	if !ok {
		return nil, domain.ErrApartmentNotFound
	}
	return a, nil
}

func (r *ApartmentRepo) ListIDsByOwner(_ context.Context, _ *spanner.ReadWriteTransaction, ownerID string) ([]string, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var ids []string
	for id, row := range r.store.apartments {
		if row.ownerID == ownerID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func keepIf[T any](rows []T, keep func(T) bool) []T {
	out := rows[:0]
	for _, r := range rows {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
