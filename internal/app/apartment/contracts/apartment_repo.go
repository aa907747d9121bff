package contracts

import (
	"context"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/apartment-registry/internal/app/apartment/domain"
	"github.com/light-bringer/apartment-registry/internal/pkg/committer"
)

// ApartmentRepository defines the interface for apartment persistence.
// Repositories return mutations, they don't apply them (Golden Mutation Pattern).
type ApartmentRepository interface {
	// InsertMut creates a mutation for inserting a new apartment
	InsertMut(apartment *domain.Apartment) (*spanner.Mutation, error)

	// UpdateMut creates a mutation for the dirty columns of an apartment and
	// bumps its version. Returns nil when nothing is dirty.
	UpdateMut(apartment *domain.Apartment) (*spanner.Mutation, error)

	// VersionCheck guards a commit against concurrent updates of the apartment
	// as it was loaded
	VersionCheck(apartment *domain.Apartment) committer.VersionCheck

	// DeleteMuts returns the mutations removing an apartment and all of its history rows
	DeleteMuts(apartmentID string) []*spanner.Mutation

	// GetByID retrieves an apartment by ID, reconstructing the domain aggregate
	GetByID(ctx context.Context, apartmentID string) (*domain.Apartment, error)

	// ListIDsByOwner reads the ids of every apartment an owner holds inside txn
	ListIDsByOwner(ctx context.Context, txn *spanner.ReadWriteTransaction, ownerID string) ([]string, error)
}
