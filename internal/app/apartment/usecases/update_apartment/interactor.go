package update_apartment

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
const Operation = "update_apartment"

// Request contains the partial update to apply.
type Request struct {
	ApartmentID string
	Update      domain.ApartmentUpdate
	Actor       domain.Principal
}

// Interactor handles the update apartment use case.
type Interactor struct {
	repo      contracts.ApartmentRepository
	audit     *audit.Writer
	committer committer.Applier
	clock     clock.Clock
	metrics   *metrics.Metrics
	logger    zerolog.Logger
}

// NewInteractor creates a new update apartment interactor.
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

// Execute applies the update, audits every changed field and re-persists the
// apartment. updated_at advances even when nothing changed.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*domain.Apartment, error) {
	apartment, err := i.execute(ctx, req)
	i.metrics.RecordOperation(Operation, metrics.StatusOf(err))
	return apartment, err
}

func (i *Interactor) execute(ctx context.Context, req *Request) (*domain.Apartment, error) {
	// 1. Validate request
	if err := i.validate(req); err != nil {
		return nil, err
	}

	// 2. Load aggregate
	apartment, err := i.repo.GetByID(ctx, req.ApartmentID)
	if err != nil {
		return nil, err
	}
	if err := req.Actor.Authorize(apartment); err != nil {
		return nil, err
	}
	check := i.repo.VersionCheck(apartment)

	// 3. Diff and apply
	changes, err := apartment.Apply(&req.Update)
	if err != nil {
		return nil, err
	}
	now := i.clock.Now()
	apartment.Touch(now)

	// 4. Create commit plan
	plan := committer.NewPlan()

	mut, err := i.repo.UpdateMut(apartment)
	if err != nil {
		return nil, err
	}
	plan.Add(mut)

	// 5. Add history rows
	res, err := i.audit.RecordChanges(plan, audit.Entry{
		ApartmentID: apartment.ID(),
		ActorID:     req.Actor.UserID,
		Changes:     changes,
		At:          now,
	})
	if err != nil {
		return nil, err
	}

	// 6. Apply plan against the version we loaded
	if err := i.committer.ApplyWithVersionCheck(ctx, check, plan); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	apartment.MarkPersisted()
	i.metrics.RecordHistory(res.ChangeRows, res.PriceRows)

	i.logger.Debug().
		Str("apartment_id", apartment.ID()).
		Str("actor_id", req.Actor.UserID).
		Int("change_rows", res.ChangeRows).
		Int("price_rows", res.PriceRows).
		Msg("apartment updated")

	return apartment, nil
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
