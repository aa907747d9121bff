package contracts

import (
	"context"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/apartment-registry/internal/app/apartment/domain"
)

// PriceHistoryRepository defines the interface for price history persistence.
type PriceHistoryRepository interface {
	// InsertMut creates a mutation for inserting a price change record.
	InsertMut(record *domain.PriceHistory) (*spanner.Mutation, error)

	// ListByApartment retrieves price history for an apartment, most recent first.
	// A limit of zero returns every row.
	ListByApartment(ctx context.Context, apartmentID string, limit int) ([]*domain.PriceHistory, error)
}

// ChangeHistoryRepository defines the interface for field change history persistence.
type ChangeHistoryRepository interface {
	// InsertMut creates a mutation for inserting a field change record.
	InsertMut(record *domain.ChangeHistory) (*spanner.Mutation, error)

	// ListByApartment retrieves change history for an apartment, most recent first.
	// A limit of zero returns every row.
	ListByApartment(ctx context.Context, apartmentID string, limit int) ([]*domain.ChangeHistory, error)
}
