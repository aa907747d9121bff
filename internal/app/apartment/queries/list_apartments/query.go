package list_apartments

import (
	"context"

	"github.com/light-bringer/apartment-registry/internal/app/apartment/contracts"
	"github.com/light-bringer/apartment-registry/internal/app/apartment/domain"
)

// Request contains filtering and pagination parameters.
type Request struct {
	Actor  domain.Principal
	City   string
	Limit  int
	Offset int
}

// Query handles the list apartments query use case.
type Query struct {
	readModel    contracts.ReadModel
	defaultLimit int
	maxLimit     int
}

// NewQuery creates a new list apartments query. A request limit of zero gets
// defaultLimit; larger limits are capped at maxLimit.
func NewQuery(readModel contracts.ReadModel, defaultLimit, maxLimit int) *Query {
	return &Query{
		readModel:    readModel,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// Execute lists every apartment for a superuser and only the actor's own otherwise.
func (q *Query) Execute(ctx context.Context, req *Request) (*contracts.ListResult, error) {
	if req.Actor.UserID == "" && !req.Actor.IsSuperuser {
		return nil, domain.ErrMissingActor
	}

	filter := &contracts.ListFilter{
		City:   req.City,
		Limit:  req.Limit,
		Offset: req.Offset,
	}
	if !req.Actor.IsSuperuser {
		filter.OwnerID = req.Actor.UserID
	}

	if filter.Limit <= 0 {
		filter.Limit = q.defaultLimit
	}
	if filter.Limit > q.maxLimit {
		filter.Limit = q.maxLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	return q.readModel.ListApartments(ctx, filter)
}
