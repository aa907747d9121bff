// Package fakes provides an in-memory stand-in for the Spanner database.
//
// The fake repositories build their mutations with the real Spanner
// repositories and stage the effect of each one on the Store. The fake
// Committer runs the staged effects of a plan only when the whole plan
// commits, so a failed commit leaves no rows behind, the same as Spanner.
package fakes

import (
	"sort"
	"sync"
	"time"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/apartment-registry/internal/app/apartment/domain"
	userdomain "github.com/light-bringer/apartment-registry/internal/app/user/domain"
)

type apartmentRow struct {
	ownerID   string
	fields    domain.ApartmentFields
	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// Store holds committed rows plus the staged effects of built mutations.
type Store struct {
	mu         sync.Mutex
	apartments map[string]apartmentRow
	prices     []*domain.PriceHistory
	changes    []*domain.ChangeHistory
	users      map[string]*userdomain.User
	staged     map[*spanner.Mutation]func()
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		apartments: make(map[string]apartmentRow),
		users:      make(map[string]*userdomain.User),
		staged:     make(map[*spanner.Mutation]func()),
	}
}

func (s *Store) stage(mut *spanner.Mutation, effect func()) {
	if mut == nil {
		return
	}
	s.mu.Lock()
	s.staged[mut] = effect
	s.mu.Unlock()
}

// commitLocked runs the staged effects of muts in order. Caller holds s.mu.
func (s *Store) commitLocked(muts []*spanner.Mutation) {
	for _, mut := range muts {
		if effect, ok := s.staged[mut]; ok {
			effect()
			delete(s.staged, mut)
		}
	}
}

func (s *Store) discard(muts []*spanner.Mutation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, mut := range muts {
		delete(s.staged, mut)
	}
}

// PutApartment stores a as committed, bypassing any commit plan.
func (s *Store) PutApartment(a *domain.Apartment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apartments[a.ID()] = snapshot(a, a.Version())
}

// PutUser stores u as committed.
func (s *Store) PutUser(u *userdomain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID()] = u
}

// PutPriceHistory stores price rows as committed.
func (s *Store) PutPriceHistory(rows ...*domain.PriceHistory) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prices = append(s.prices, rows...)
}

// PutChangeHistory stores change rows as committed.
func (s *Store) PutChangeHistory(rows ...*domain.ChangeHistory) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.changes = append(s.changes, rows...)
}

// BumpVersion simulates a concurrent writer committing to the apartment.
func (s *Store) BumpVersion(apartmentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if row, ok := s.apartments[apartmentID]; ok {
		row.version++
		s.apartments[apartmentID] = row
	}
}

// Apartment returns the committed apartment.
func (s *Store) Apartment(apartmentID string) (*domain.Apartment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apartmentLocked(apartmentID)
}

func (s *Store) apartmentLocked(apartmentID string) (*domain.Apartment, bool) {
	row, ok := s.apartments[apartmentID]
	if !ok {
		return nil, false
	}
	fields := row.fields
	return domain.ReconstructApartment(apartmentID, row.ownerID, &fields, row.version, row.createdAt, row.updatedAt), true
}

// ApartmentCount returns the number of committed apartments.
func (s *Store) ApartmentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.apartments)
}

// HasUser reports whether the user row is committed.
func (s *Store) HasUser(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.users[userID]
	return ok
}

// PriceHistory returns the committed price rows of an apartment in write order.
func (s *Store) PriceHistory(apartmentID string) []*domain.PriceHistory {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.PriceHistory
	for _, r := range s.prices {
		if r.ApartmentID == apartmentID {
			out = append(out, r)
		}
	}
	return out
}

// ChangeHistory returns the committed change rows of an apartment in write order.
func (s *Store) ChangeHistory(apartmentID string) []*domain.ChangeHistory {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.ChangeHistory
	for _, r := range s.changes {
		if r.ApartmentID == apartmentID {
			out = append(out, r)
		}
	}
	return out
}

// Pending returns the number of built but uncommitted mutations.
func (s *Store) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.staged)
}

func snapshot(a *domain.Apartment, version int64) apartmentRow {
	return apartmentRow{
		ownerID:   a.OwnerID(),
		fields:    a.Fields(),
		version:   version,
		createdAt: a.CreatedAt(),
		updatedAt: a.UpdatedAt(),
	}
}

// newestFirst orders history rows by changed_at descending, keeping write
// order between rows of the same commit.
func newestFirst[T any](rows []T, at func(T) time.Time) {
	sort.SliceStable(rows, func(i, j int) bool {
		return at(rows[i]).After(at(rows[j]))
	})
}
