package delete_user

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"github.com/rs/zerolog"

	apartmentcontracts "github.com/light-bringer/apartment-registry/internal/app/apartment/contracts"
	apartmentdomain "github.com/light-bringer/apartment-registry/internal/app/apartment/domain"
	"github.com/light-bringer/apartment-registry/internal/app/user/contracts"
	"github.com/light-bringer/apartment-registry/internal/app/user/domain"
	"github.com/light-bringer/apartment-registry/internal/metrics"
	"github.com/light-bringer/apartment-registry/internal/pkg/committer"
)

// Operation is the metrics label of this use case.
const Operation = "delete_user"

// Request identifies the user to delete. Users may delete themselves;
// superusers may delete anyone.
type Request struct {
	UserID string
	Actor  apartmentdomain.Principal
}

// Response reports what the deletion removed.
type Response struct {
	DeletedApartments int
}

// Interactor handles the delete user use case.
type Interactor struct {
	users      contracts.UserRepository
	apartments apartmentcontracts.ApartmentRepository
	committer  committer.Applier
	metrics    *metrics.Metrics
	logger     zerolog.Logger
}

// NewInteractor creates a new delete user interactor.
func NewInteractor(
	users contracts.UserRepository,
	apartments apartmentcontracts.ApartmentRepository,
	committer committer.Applier,
	metrics *metrics.Metrics,
	logger zerolog.Logger,
) *Interactor {
	return &Interactor{
		users:      users,
		apartments: apartments,
		committer:  committer,
		metrics:    metrics,
		logger:     logger,
	}
}

// Execute deletes the user with every apartment it owns and their histories.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*Response, error) {
	resp, err := i.execute(ctx, req)
	i.metrics.RecordOperation(Operation, metrics.StatusOf(err))
	return resp, err
}

func (i *Interactor) execute(ctx context.Context, req *Request) (*Response, error) {
	if err := req.Actor.AuthorizeOwner(req.UserID); err != nil {
		return nil, err
	}

	var resp Response
	err := i.committer.RunInTransaction(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction, plan *committer.CommitPlan) error {
		exists, err := i.users.Exists(ctx, txn, req.UserID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrUserNotFound
		}

		ids, err := i.apartments.ListIDsByOwner(ctx, txn, req.UserID)
		if err != nil {
			return err
		}
		for _, id := range ids {
			plan.AddMultiple(i.apartments.DeleteMuts(id))
		}
		plan.Add(i.users.DeleteMut(req.UserID))

		resp.DeletedApartments = len(ids)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to delete user: %w", err)
	}

	i.logger.Info().
		Str("user_id", req.UserID).
		Str("actor_id", req.Actor.UserID).
		Int("deleted_apartments", resp.DeletedApartments).
		Msg("user deleted")

	return &resp, nil
}
