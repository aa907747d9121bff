package get_apartment

import (
	"context"

	"github.com/light-bringer/apartment-registry/internal/app/apartment/contracts"
	"github.com/light-bringer/apartment-registry/internal/app/apartment/domain"
)

// Request contains the apartment ID to retrieve.
type Request struct {
	ApartmentID string
	Actor       domain.Principal
}

// Query handles the get apartment query use case.
type Query struct {
	readModel contracts.ReadModel
}

// NewQuery creates a new get apartment query.
func NewQuery(readModel contracts.ReadModel) *Query {
	return &Query{
		readModel: readModel,
	}
}

// Execute retrieves an apartment the actor owns, or any apartment for a superuser.
func (q *Query) Execute(ctx context.Context, req *Request) (*contracts.ApartmentDTO, error) {
	dto, err := q.readModel.GetApartmentByID(ctx, req.ApartmentID)
	if err != nil {
		return nil, err
	}
	if err := req.Actor.AuthorizeOwner(dto.OwnerID); err != nil {
		return nil, err
	}
	return dto, nil
}
