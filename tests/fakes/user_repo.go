package fakes

import (
	"context"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/apartment-registry/internal/app/user/contracts"
	"github.com/light-bringer/apartment-registry/internal/app/user/domain"
	"github.com/light-bringer/apartment-registry/internal/app/user/repo"
)

// UserRepo implements contracts.UserRepository over a Store.
type UserRepo struct {
	store *Store
	muts  contracts.UserRepository
}

var _ contracts.UserRepository = (*UserRepo)(nil)

func NewUserRepo(store *Store) *UserRepo {
	return &UserRepo{store: store, muts: repo.NewUserRepo(nil)}
}

func (r *UserRepo) InsertMut(user *domain.User) *spanner.Mutation {
	mut := r.muts.InsertMut(user)
	r.store.stage(mut, func() { r.store.users[user.ID()] = user })
	return mut
}

func (r *UserRepo) DeleteMut(userID string) *spanner.Mutation {
	mut := r.muts.DeleteMut(userID)
	r.store.stage(mut, func() { delete(r.store.users, userID) })
	return mut
}

func (r *UserRepo) GetByID(_ context.Context, userID string) (*domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	u, ok := r.store.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (r *UserRepo) Exists(_ context.Context, _ *spanner.ReadWriteTransaction, userID string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	_, ok := r.store.users[userID]
	return ok, nil
}

func (r *UserRepo) EmailTaken(_ context.Context, _ *spanner.ReadWriteTransaction, email string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.users {
		if u.Email() == email {
			return true, nil
		}
	}
	return false, nil
}
