package delete_apartment

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/light-bringer/apartment-registry/internal/app/apartment/contracts"
	"github.com/light-bringer/apartment-registry/internal/app/apartment/domain"
	"github.com/light-bringer/apartment-registry/internal/metrics"
	"github.com/light-bringer/apartment-registry/internal/pkg/committer"
)

// Operation is the metrics label of this use case.
const Operation = "delete_apartment"

// Request identifies the apartment to delete.
type Request struct {
	ApartmentID string
	Actor       domain.Principal
}

// Interactor handles the delete apartment use case.
type Interactor struct {
	repo      contracts.ApartmentRepository
	committer committer.Applier
	metrics   *metrics.Metrics
	logger    zerolog.Logger
}

// NewInteractor creates a new delete apartment interactor.
func NewInteractor(
	repo contracts.ApartmentRepository,
	committer committer.Applier,
	metrics *metrics.Metrics,
	logger zerolog.Logger,
) *Interactor {
	return &Interactor{
		repo:      repo,
		committer: committer,
		metrics:   metrics,
		logger:    logger,
	}
}

// Execute removes the apartment with its price and change history in one commit.
func (i *Interactor) Execute(ctx context.Context, req *Request) error {
	err := i.execute(ctx, req)
	i.metrics.RecordOperation(Operation, metrics.StatusOf(err))
	return err
}

func (i *Interactor) execute(ctx context.Context, req *Request) error {
	if req.ApartmentID == "" {
		return errors.New("apartment ID is required")
	}

	apartment, err := i.repo.GetByID(ctx, req.ApartmentID)
	if err != nil {
		return err
	}
	if err := req.Actor.Authorize(apartment); err != nil {
		return err
	}

	plan := committer.NewPlan()
	plan.AddMultiple(i.repo.DeleteMuts(apartment.ID()))

	if err := i.committer.Apply(ctx, plan); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	i.logger.Debug().
		Str("apartment_id", apartment.ID()).
		Str("actor_id", req.Actor.UserID).
		Msg("apartment deleted")

	return nil
}
