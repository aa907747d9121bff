package services

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/light-bringer/apartment-registry/internal/app/apartment/audit"
	"github.com/light-bringer/apartment-registry/internal/app/apartment/queries/get_apartment"
	"github.com/light-bringer/apartment-registry/internal/app/apartment/queries/get_change_history"
	"github.com/light-bringer/apartment-registry/internal/app/apartment/queries/get_history"
	"github.com/light-bringer/apartment-registry/internal/app/apartment/queries/get_price_history"
	"github.com/light-bringer/apartment-registry/internal/app/apartment/queries/list_apartments"
	"github.com/light-bringer/apartment-registry/internal/app/apartment/repo"
	"github.com/light-bringer/apartment-registry/internal/app/apartment/usecases/create_apartment"
	"github.com/light-bringer/apartment-registry/internal/app/apartment/usecases/delete_apartment"
	"github.com/light-bringer/apartment-registry/internal/app/apartment/usecases/update_apartment"
	"github.com/light-bringer/apartment-registry/internal/app/apartment/usecases/update_price"
	userrepo "github.com/light-bringer/apartment-registry/internal/app/user/repo"
	"github.com/light-bringer/apartment-registry/internal/app/user/usecases/create_user"
	"github.com/light-bringer/apartment-registry/internal/app/user/usecases/delete_user"
	"github.com/light-bringer/apartment-registry/internal/config"
	"github.com/light-bringer/apartment-registry/internal/metrics"
	"github.com/light-bringer/apartment-registry/internal/pkg/clock"
	"github.com/light-bringer/apartment-registry/internal/pkg/committer"
)

// Commands holds the write use cases.
type Commands struct {
	CreateApartment *create_apartment.Interactor
	UpdateApartment *update_apartment.Interactor
	UpdatePrice     *update_price.Interactor
	DeleteApartment *delete_apartment.Interactor
	CreateUser      *create_user.Interactor
	DeleteUser      *delete_user.Interactor
}

// Queries holds the read use cases.
type Queries struct {
	GetApartment     *get_apartment.Query
	ListApartments   *list_apartments.Query
	GetPriceHistory  *get_price_history.Query
	GetChangeHistory *get_change_history.Query
	GetHistory       *get_history.Query
}

// ServiceOptions holds all dependencies for the application.
type ServiceOptions struct {
	SpannerClient *spanner.Client
	Metrics       *metrics.Metrics
	Commands      Commands
	Queries       Queries
}

// NewServiceOptions creates the Spanner client and wires up all application dependencies.
func NewServiceOptions(ctx context.Context, cfg *config.Config, reg prometheus.Registerer, logger zerolog.Logger) (*ServiceOptions, error) {
	// 1. Initialize Spanner client
	spannerClient, err := spanner.NewClient(ctx, cfg.Spanner.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("failed to create Spanner client: %w", err)
	}

	return Wire(spannerClient, cfg, clock.NewRealClock(), metrics.NewMetrics(reg), logger), nil
}

// Wire builds every use case on top of an existing Spanner client.
func Wire(spannerClient *spanner.Client, cfg *config.Config, clk clock.Clock, m *metrics.Metrics, logger zerolog.Logger) *ServiceOptions {
	// 2. Create infrastructure components
	comm := committer.NewCommitter(spannerClient, committer.WithErrorMapper(repo.MapSpannerError))

	// 3. Create repositories
	apartmentRepo := repo.NewApartmentRepo(spannerClient)
	priceRepo := repo.NewPriceHistoryRepo(spannerClient)
	changeRepo := repo.NewChangeHistoryRepo(spannerClient)
	readModel := repo.NewReadModel(spannerClient)
	userRepo := userrepo.NewUserRepo(spannerClient)

	auditWriter := audit.NewWriter(priceRepo, changeRepo)

	// 4. Create command use cases (write operations)
	commands := Commands{
		CreateApartment: create_apartment.NewInteractor(apartmentRepo, auditWriter, comm, clk, m, logger.With().Str("usecase", create_apartment.Operation).Logger()),
		UpdateApartment: update_apartment.NewInteractor(apartmentRepo, auditWriter, comm, clk, m, logger.With().Str("usecase", update_apartment.Operation).Logger()),
		UpdatePrice:     update_price.NewInteractor(apartmentRepo, auditWriter, comm, clk, m, logger.With().Str("usecase", update_price.Operation).Logger()),
		DeleteApartment: delete_apartment.NewInteractor(apartmentRepo, comm, m, logger.With().Str("usecase", delete_apartment.Operation).Logger()),
		CreateUser:      create_user.NewInteractor(userRepo, comm, clk, cfg.Security.BcryptCost, m, logger.With().Str("usecase", create_user.Operation).Logger()),
		DeleteUser:      delete_user.NewInteractor(userRepo, apartmentRepo, comm, m, logger.With().Str("usecase", delete_user.Operation).Logger()),
	}

	// 5. Create query use cases (read operations)
	queries := Queries{
		GetApartment:     get_apartment.NewQuery(readModel),
		ListApartments:   list_apartments.NewQuery(readModel, cfg.Query.DefaultLimit, cfg.Query.MaxLimit),
		GetPriceHistory:  get_price_history.NewQuery(readModel, priceRepo),
		GetChangeHistory: get_change_history.NewQuery(readModel, changeRepo),
		GetHistory:       get_history.NewQuery(readModel, priceRepo, changeRepo),
	}

	return &ServiceOptions{
		SpannerClient: spannerClient,
		Metrics:       m,
		Commands:      commands,
		Queries:       queries,
	}
}

// Ping runs a trivial query to check that Spanner is reachable.
func (s *ServiceOptions) Ping(ctx context.Context) error {
	iter := s.SpannerClient.Single().Query(ctx, spanner.Statement{SQL: "SELECT 1"})
	defer iter.Stop()

	if _, err := iter.Next(); err != nil {
		return fmt.Errorf("spanner ping failed: %w", err)
	}
	return nil
}

// Close closes all resources.
func (s *ServiceOptions) Close() {
	if s.SpannerClient != nil {
		s.SpannerClient.Close()
	}
}
