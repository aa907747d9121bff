package get_price_history

import (
	"context"

	"github.com/light-bringer/apartment-registry/internal/app/apartment/contracts"
	"github.com/light-bringer/apartment-registry/internal/app/apartment/domain"
)

// Request selects the apartment. Limit zero returns the whole log.
type Request struct {
	ApartmentID string
	Actor       domain.Principal
	Limit       int
}

// Query returns an apartment's price history, most recent first.
type Query struct {
	readModel contracts.ReadModel
	history   contracts.PriceHistoryRepository
}

// NewQuery creates a new get price history query.
func NewQuery(readModel contracts.ReadModel, history contracts.PriceHistoryRepository) *Query {
	return &Query{
		readModel: readModel,
		history:   history,
	}
}

// Execute checks access to the apartment, then reads its price log.
func (q *Query) Execute(ctx context.Context, req *Request) ([]*domain.PriceHistory, error) {
	dto, err := q.readModel.GetApartmentByID(ctx, req.ApartmentID)
	if err != nil {
		return nil, err
	}
	if err := req.Actor.AuthorizeOwner(dto.OwnerID); err != nil {
		return nil, err
	}
	return q.history.ListByApartment(ctx, req.ApartmentID, req.Limit)
}
