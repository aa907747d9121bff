package create_user

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/light-bringer/apartment-registry/internal/app/user/contracts"
	"github.com/light-bringer/apartment-registry/internal/app/user/domain"
	"github.com/light-bringer/apartment-registry/internal/metrics"
	"github.com/light-bringer/apartment-registry/internal/pkg/clock"
	"github.com/light-bringer/apartment-registry/internal/pkg/committer"
)

// Operation is the metrics label of this use case.
const Operation = "create_user"

// Request contains the data needed to register a user.
type Request struct {
	Email       string
	Password    string
	FullName    *string
	IsSuperuser bool
}

// Interactor handles the create user use case.
type Interactor struct {
	repo       contracts.UserRepository
	committer  committer.Applier
	clock      clock.Clock
	bcryptCost int
	metrics    *metrics.Metrics
	logger     zerolog.Logger
}

// NewInteractor creates a new create user interactor.
func NewInteractor(
	repo contracts.UserRepository,
	committer committer.Applier,
	clock clock.Clock,
	bcryptCost int,
	metrics *metrics.Metrics,
	logger zerolog.Logger,
) *Interactor {
	return &Interactor{
		repo:       repo,
		committer:  committer,
		clock:      clock,
		bcryptCost: bcryptCost,
		metrics:    metrics,
		logger:     logger,
	}
}

// Execute registers the user. The email check and the insert share one
// read-write transaction.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*domain.User, error) {
	user, err := i.execute(ctx, req)
	i.metrics.RecordOperation(Operation, metrics.StatusOf(err))
	return user, err
}

func (i *Interactor) execute(ctx context.Context, req *Request) (*domain.User, error) {
	// Hash outside the transaction; bcrypt is slow and Spanner may retry the body.
	hash, err := domain.HashPassword(req.Password, i.bcryptCost)
	if err != nil {
		return nil, err
	}

	user, err := domain.NewUser(uuid.New().String(), req.Email, hash, req.FullName, req.IsSuperuser, i.clock.Now())
	if err != nil {
		return nil, err
	}

	err = i.committer.RunInTransaction(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction, plan *committer.CommitPlan) error {
		taken, err := i.repo.EmailTaken(ctx, txn, user.Email())
		if err != nil {
			return err
		}
		if taken {
			return domain.ErrEmailTaken
		}
		plan.Add(i.repo.InsertMut(user))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	i.logger.Info().Str("user_id", user.ID()).Bool("superuser", user.IsSuperuser()).Msg("user created")

	return user, nil
}
