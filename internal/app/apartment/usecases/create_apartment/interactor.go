package create_apartment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/light-bringer/apartment-registry/internal/app/apartment/audit"
	"github.com/light-bringer/apartment-registry/internal/app/apartment/contracts"
	"github.com/light-bringer/apartment-registry/internal/app/apartment/domain"
	"github.com/light-bringer/apartment-registry/internal/metrics"
	"github.com/light-bringer/apartment-registry/internal/pkg/clock"
	"github.com/light-bringer/apartment-registry/internal/pkg/committer"
)

// Operation is the metrics label of this use case.
const Operation = "create_apartment"

// Request contains the data needed to create an apartment.
type Request struct {
	OwnerID string
	Fields  domain.ApartmentFields
}

// Interactor handles the create apartment use case.
type Interactor struct {
	repo      contracts.ApartmentRepository
	audit     *audit.Writer
	committer committer.Applier
	clock     clock.Clock
	metrics   *metrics.Metrics
	logger    zerolog.Logger
}

// NewInteractor creates a new create apartment interactor.
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

// Execute creates the apartment and seeds its change log in one commit.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*domain.Apartment, error) {
	apartment, err := i.execute(ctx, req)
	i.metrics.RecordOperation(Operation, metrics.StatusOf(err))
	return apartment, err
}

func (i *Interactor) execute(ctx context.Context, req *Request) (*domain.Apartment, error) {
	// 1. Create domain aggregate
	now := i.clock.Now()
	apartment, err := domain.NewApartment(uuid.New().String(), req.OwnerID, &req.Fields, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create apartment: %w", err)
	}

	// 2. Create commit plan
	plan := committer.NewPlan()

	// 3. Add repository mutation
	mut, err := i.repo.InsertMut(apartment)
	if err != nil {
		return nil, err
	}
	plan.Add(mut)

	// 4. Seed change history, one row per non-null field
	res, err := i.audit.RecordCreation(plan, audit.Entry{
		ApartmentID: apartment.ID(),
		ActorID:     req.OwnerID,
		Changes:     req.Fields.InitialValues(),
		At:          now,
	})
	if err != nil {
		return nil, err
	}

	// 5. Apply plan
	if err := i.committer.Apply(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	apartment.MarkPersisted()
	i.metrics.RecordHistory(res.ChangeRows, res.PriceRows)

	i.logger.Debug().
		Str("apartment_id", apartment.ID()).
		Str("owner_id", req.OwnerID).
		Int("change_rows", res.ChangeRows).
		Msg("apartment created")

	return apartment, nil
}
