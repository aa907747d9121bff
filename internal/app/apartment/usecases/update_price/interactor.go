package update_price

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/light-bringer/apartment-registry/internal/app/apartment/audit"
	"github.com/light-bringer/apartment-registry/internal/app/apartment/contracts"
	"github.com/light-bringer/apartment-registry/internal/app/apartment/domain"
	"github.com/light-bringer/apartment-registry/internal/metrics"
	"github.com/light-bringer/apartment-registry/internal/pkg/clock"
	"github.com/light-bringer/apartment-registry/internal/pkg/committer"
)

// Operation is the metrics label of this use case.
const Operation = "update_price"

// Request contains the data needed to update an apartment's price.
type Request struct {
	ApartmentID string
	NewPrice    float64
	Actor       domain.Principal
}

// Interactor handles the update price use case.
type Interactor struct {
	repo      contracts.ApartmentRepository
	audit     *audit.Writer
	committer committer.Applier
	clock     clock.Clock
	metrics   *metrics.Metrics
	logger    zerolog.Logger
}

// NewInteractor creates a new update price interactor.
func NewInteractor(
	repo contracts.ApartmentRepository,
	auditWriter *audit.Writer,
	committer committer.Applier,
	clock clock.Clock,
	metrics *metrics.Metrics,
	logger zerolog.Logger,
) *Interactor {
	return &Interactor{
		repo:      repo,
		audit:     auditWriter,
		committer: committer,
		clock:     clock,
		metrics:   metrics,
		logger:    logger,
	}
}

// Execute changes the price. An unchanged price is a strict no-op: nothing is
// written and updated_at keeps its value.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*domain.Apartment, error) {
	apartment, noop, err := i.execute(ctx, req)
	status := metrics.StatusOf(err)
	if noop {
		status = metrics.StatusNoop
	}
	i.metrics.RecordOperation(Operation, status)
	return apartment, err
}

func (i *Interactor) execute(ctx context.Context, req *Request) (*domain.Apartment, bool, error) {
	// 1. Validate request
	if err := i.validate(req); err != nil {
		return nil, false, err
	}

	// 2. Load aggregate
	apartment, err := i.repo.GetByID(ctx, req.ApartmentID)
	if err != nil {
		return nil, false, err
	}
	if err := req.Actor.Authorize(apartment); err != nil {
		return nil, false, err
	}
	check := i.repo.VersionCheck(apartment)

	// 3. Call domain method
	changes, err := apartment.Apply(&domain.ApartmentUpdate{CurrentPrice: domain.Value(req.NewPrice)})
	if err != nil {
		return nil, false, err
	}
	if len(changes) == 0 {
		return apartment, true, nil
	}
	now := i.clock.Now()
	apartment.Touch(now)

	// 4. Create commit plan
	plan := committer.NewPlan()

	mut, err := i.repo.UpdateMut(apartment)
	if err != nil {
		return nil, false, err
	}
	plan.Add(mut)

	// 5. Add price and change history
	res, err := i.audit.RecordChanges(plan, audit.Entry{
		ApartmentID: apartment.ID(),
		ActorID:     req.Actor.UserID,
		Changes:     changes,
		At:          now,
	})
	if err != nil {
		return nil, false, err
	}

	// 6. Apply plan
	if err := i.committer.ApplyWithVersionCheck(ctx, check, plan); err != nil {
		return nil, false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	apartment.MarkPersisted()
	i.metrics.RecordHistory(res.ChangeRows, res.PriceRows)

	i.logger.Debug().
		Str("apartment_id", apartment.ID()).
		Str("actor_id", req.Actor.UserID).
		Float64("new_price", req.NewPrice).
		Msg("apartment price updated")

	return apartment, false, nil
}

// validate validates the request.
func (i *Interactor) validate(req *Request) error {
	if req.ApartmentID == "" {
		return errors.New("apartment ID is required")
	}
	if req.Actor.UserID == "" {
		return domain.ErrMissingActor
	}
	return nil
}
