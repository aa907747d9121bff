package get_history

import (
	"context"
	"fmt"

	"github.com/light-bringer/apartment-registry/internal/app/apartment/contracts"
	"github.com/light-bringer/apartment-registry/internal/app/apartment/domain"
)

// Request contains the apartment ID to retrieve.
type Request struct {
	ApartmentID string
	Actor       domain.Principal
}

// Response is an apartment with both of its history logs, newest rows first.
type Response struct {
	Apartment     *contracts.ApartmentDTO
	PriceHistory  []*domain.PriceHistory
	ChangeHistory []*domain.ChangeHistory
}

// Query handles the apartment-with-history view.
type Query struct {
	readModel contracts.ReadModel
	prices    contracts.PriceHistoryRepository
	changes   contracts.ChangeHistoryRepository
}

// NewQuery creates a new get history query.
func NewQuery(
	readModel contracts.ReadModel,
	prices contracts.PriceHistoryRepository,
	changes contracts.ChangeHistoryRepository,
) *Query {
	return &Query{
		readModel: readModel,
		prices:    prices,
		changes:   changes,
	}
}

// Execute retrieves the apartment and its full price and change logs.
func (q *Query) Execute(ctx context.Context, req *Request) (*Response, error) {
	dto, err := q.readModel.GetApartmentByID(ctx, req.ApartmentID)
	if err != nil {
		return nil, err
	}
	if err := req.Actor.AuthorizeOwner(dto.OwnerID); err != nil {
		return nil, err
	}

	prices, err := q.prices.ListByApartment(ctx, req.ApartmentID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load price history: %w", err)
	}

	changes, err := q.changes.ListByApartment(ctx, req.ApartmentID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load change history: %w", err)
	}

	return &Response{
		Apartment:     dto,
		PriceHistory:  prices,
		ChangeHistory: changes,
	}, nil
}
