package contracts

import (
	"context"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/apartment-registry/internal/app/user/domain"
)

// UserRepository defines the interface for user persistence.
type UserRepository interface {
	// InsertMut creates a mutation for inserting a new user
	InsertMut(user *domain.User) *spanner.Mutation

	// DeleteMut creates a mutation deleting the user row
	DeleteMut(userID string) *spanner.Mutation

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, userID string) (*domain.User, error)

	// Exists checks inside txn whether the user row exists
	Exists(ctx context.Context, txn *spanner.ReadWriteTransaction, userID string) (bool, error)

	// EmailTaken checks inside txn whether a normalized email is already registered
	EmailTaken(ctx context.Context, txn *spanner.ReadWriteTransaction, email string) (bool, error)
}
