package update_apartment_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/apartment-registry/internal/app/apartment/audit"
	"github.com/light-bringer/apartment-registry/internal/app/apartment/domain"
	"github.com/light-bringer/apartment-registry/internal/app/apartment/usecases/update_apartment"
	"github.com/light-bringer/apartment-registry/internal/metrics"
	"github.com/light-bringer/apartment-registry/internal/pkg/clock"
	"github.com/light-bringer/apartment-registry/tests/fakes"
)

var created = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type harness struct {
	store      *fakes.Store
	apartments *fakes.ApartmentRepo
	prices     *fakes.PriceHistoryRepo
	committer  *fakes.Committer
	clock      *clock.MockClock
	metrics    *metrics.Metrics
	interactor *update_apartment.Interactor
}

func setup(t *testing.T) *harness {
	t.Helper()

	store := fakes.NewStore()
	apartments := fakes.NewApartmentRepo(store)
	prices := fakes.NewPriceHistoryRepo(store)
	comm := fakes.NewCommitter(store)
	clk := clock.NewMockClock(created.Add(time.Hour))
	m := metrics.NewMetrics(prometheus.NewRegistry())
	writer := audit.NewWriter(prices, fakes.NewChangeHistoryRepo(store))

	return &harness{
		store:      store,
		apartments: apartments,
		prices:     prices,
		committer:  comm,
		clock:      clk,
		metrics:    m,
		interactor: update_apartment.NewInteractor(apartments, writer, comm, clk, m, zerolog.Nop()),
	}
}

func ptr[T any](v T) *T { return &v }

// seed stores a committed apartment priced at 1000.0 owned by owner-1.
func (h *harness) seed(t *testing.T) *domain.Apartment {
	t.Helper()
	a := domain.ReconstructApartment("apt-1", "owner-1", &domain.ApartmentFields{
		Address:      "1 Main St",
		City:         "Springfield",
		AreaSqm:      ptr(54.5),
		Rooms:        ptr(int64(2)),
		CurrentPrice: 1000.0,
	}, 1, created, created)
	h.store.PutApartment(a)
	return a
}

var owner = domain.Principal{UserID: "owner-1"}

func TestUpdateApartment_PriceChangeWritesOnePriceAndOneChangeRow(t *testing.T) {
	h := setup(t)
	h.seed(t)

	apartment, err := h.interactor.Execute(context.Background(), &update_apartment.Request{
		ApartmentID: "apt-1",
		Update:      domain.ApartmentUpdate{CurrentPrice: domain.Value(1200.0)},
		Actor:       owner,
	})
	require.NoError(t, err)
	assert.Equal(t, 1200.0, apartment.CurrentPrice())
	assert.Equal(t, int64(2), apartment.Version())

	prices := h.store.PriceHistory("apt-1")
	require.Len(t, prices, 1)
	assert.Equal(t, 1000.0, prices[0].OldPrice)
	assert.Equal(t, 1200.0, prices[0].NewPrice)
	assert.Equal(t, "owner-1", prices[0].ChangedByID)

	changes := h.store.ChangeHistory("apt-1")
	require.Len(t, changes, 1)
	assert.Equal(t, domain.FieldCurrentPrice, changes[0].FieldName)
	assert.Equal(t, "1000.0", *changes[0].OldValue)
	assert.Equal(t, "1200.0", *changes[0].NewValue)
	assert.Equal(t, prices[0].ChangedAt, changes[0].ChangedAt)

	stored, _ := h.store.Apartment("apt-1")
	assert.Equal(t, 1200.0, stored.CurrentPrice())
	assert.Equal(t, int64(2), stored.Version())
	assert.Equal(t, h.clock.Now(), stored.UpdatedAt())
}

func TestUpdateApartment_NoopStillTouchesUpdatedAt(t *testing.T) {
	h := setup(t)
	h.seed(t)

	apartment, err := h.interactor.Execute(context.Background(), &update_apartment.Request{
		ApartmentID: "apt-1",
		Update: domain.ApartmentUpdate{
			City:         domain.Value("Springfield"),
			CurrentPrice: domain.Value(1000.0),
			Floor:        domain.Null[int64](),
		},
		Actor: owner,
	})
	require.NoError(t, err)

	assert.Empty(t, h.store.ChangeHistory("apt-1"))
	assert.Empty(t, h.store.PriceHistory("apt-1"))

	stored, _ := h.store.Apartment("apt-1")
	assert.Equal(t, h.clock.Now(), stored.UpdatedAt())
	assert.True(t, stored.UpdatedAt().After(created))
	assert.Equal(t, apartment.UpdatedAt(), stored.UpdatedAt())
	assert.Equal(t, 1, h.committer.Commits)
}

func TestUpdateApartment_EmptyUpdateStillTouches(t *testing.T) {
	h := setup(t)
	h.seed(t)

	_, err := h.interactor.Execute(context.Background(), &update_apartment.Request{
		ApartmentID: "apt-1",
		Actor:       owner,
	})
	require.NoError(t, err)

	stored, _ := h.store.Apartment("apt-1")
	assert.Equal(t, h.clock.Now(), stored.UpdatedAt())
	assert.Empty(t, h.store.ChangeHistory("apt-1"))
}

func TestUpdateApartment_MultipleFieldsInCanonicalOrder(t *testing.T) {
	h := setup(t)
	h.seed(t)

	_, err := h.interactor.Execute(context.Background(), &update_apartment.Request{
		ApartmentID: "apt-1",
		Update: domain.ApartmentUpdate{
			Description: domain.Value("Renovated"),
			Rooms:       domain.Null[int64](),
			Address:     domain.Value("2 Elm St"),
		},
		Actor: owner,
	})
	require.NoError(t, err)

	changes := h.store.ChangeHistory("apt-1")
	require.Len(t, changes, 3)

	assert.Equal(t, domain.FieldAddress, changes[0].FieldName)
	assert.Equal(t, "1 Main St", *changes[0].OldValue)
	assert.Equal(t, "2 Elm St", *changes[0].NewValue)

	assert.Equal(t, domain.FieldRooms, changes[1].FieldName)
	assert.Equal(t, "2", *changes[1].OldValue)
	assert.Nil(t, changes[1].NewValue)

	assert.Equal(t, domain.FieldDescription, changes[2].FieldName)
	assert.Nil(t, changes[2].OldValue)
	assert.Equal(t, "Renovated", *changes[2].NewValue)

	assert.Empty(t, h.store.PriceHistory("apt-1"))

	stored, _ := h.store.Apartment("apt-1")
	assert.Nil(t, stored.Rooms())
	assert.Equal(t, "2 Elm St", stored.Address())
}

func TestUpdateApartment_SuperuserIsRecordedAsActor(t *testing.T) {
	h := setup(t)
	h.seed(t)

	_, err := h.interactor.Execute(context.Background(), &update_apartment.Request{
		ApartmentID: "apt-1",
		Update:      domain.ApartmentUpdate{City: domain.Value("Shelbyville")},
		Actor:       domain.Principal{UserID: "admin", IsSuperuser: true},
	})
	require.NoError(t, err)

	changes := h.store.ChangeHistory("apt-1")
	require.Len(t, changes, 1)
	assert.Equal(t, "admin", changes[0].ChangedByID)
}

func TestUpdateApartment_Errors(t *testing.T) {
	tests := []struct {
		name string
		req  update_apartment.Request
		want error
	}{
		{
			name: "not found",
			req:  update_apartment.Request{ApartmentID: "missing", Actor: owner},
			want: domain.ErrApartmentNotFound,
		},
		{
			name: "not the owner",
			req:  update_apartment.Request{ApartmentID: "apt-1", Actor: domain.Principal{UserID: "stranger"}},
			want: domain.ErrNotEnoughPermissions,
		},
		{
			name: "missing actor",
			req:  update_apartment.Request{ApartmentID: "apt-1"},
			want: domain.ErrMissingActor,
		},
		{
			name: "invalid price",
			req: update_apartment.Request{
				ApartmentID: "apt-1",
				Update:      domain.ApartmentUpdate{CurrentPrice: domain.Value(-1.0)},
				Actor:       owner,
			},
			want: domain.ErrConstraintViolation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := setup(t)
			h.seed(t)

			_, err := h.interactor.Execute(context.Background(), &tt.req)
			assert.ErrorIs(t, err, tt.want)

			stored, _ := h.store.Apartment("apt-1")
			assert.Equal(t, created, stored.UpdatedAt())
			assert.Empty(t, h.store.ChangeHistory("apt-1"))
			assert.Zero(t, h.committer.Commits)
			assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.Operations.WithLabelValues(update_apartment.Operation, metrics.StatusError)))
		})
	}
}

func TestUpdateApartment_ConcurrentModification(t *testing.T) {
	h := setup(t)
	h.seed(t)
	h.committer.BeforeCommit = func() { h.store.BumpVersion("apt-1") }

	_, err := h.interactor.Execute(context.Background(), &update_apartment.Request{
		ApartmentID: "apt-1",
		Update:      domain.ApartmentUpdate{CurrentPrice: domain.Value(1500.0)},
		Actor:       owner,
	})
	assert.ErrorIs(t, err, domain.ErrTransactionConflict)

	stored, _ := h.store.Apartment("apt-1")
	assert.Equal(t, 1000.0, stored.CurrentPrice())
	assert.Empty(t, h.store.PriceHistory("apt-1"))
	assert.Empty(t, h.store.ChangeHistory("apt-1"))
	assert.Zero(t, h.store.Pending())
}

func TestUpdateApartment_HistoryFailureAbortsUpdate(t *testing.T) {
	h := setup(t)
	h.seed(t)
	h.prices.InsertErr = errors.New("history table unavailable")

	_, err := h.interactor.Execute(context.Background(), &update_apartment.Request{
		ApartmentID: "apt-1",
		Update: domain.ApartmentUpdate{
			City:         domain.Value("Shelbyville"),
			CurrentPrice: domain.Value(1500.0),
		},
		Actor: owner,
	})
	require.Error(t, err)

	stored, _ := h.store.Apartment("apt-1")
	assert.Equal(t, "Springfield", stored.City())
	assert.Equal(t, 1000.0, stored.CurrentPrice())
	assert.Empty(t, h.store.ChangeHistory("apt-1"))
	assert.Zero(t, h.committer.Commits)
}

func TestUpdateApartment_CommitUsesLoadedVersion(t *testing.T) {
	h := setup(t)
	h.seed(t)

	_, err := h.interactor.Execute(context.Background(), &update_apartment.Request{
		ApartmentID: "apt-1",
		Update:      domain.ApartmentUpdate{City: domain.Value("Shelbyville")},
		Actor:       owner,
	})
	require.NoError(t, err)

	require.Len(t, h.committer.Checks, 1)
	assert.Equal(t, int64(1), h.committer.Checks[0].Expected)
	assert.Equal(t, "apartments", h.committer.Checks[0].Table)

	// second update sees the bumped version
	h.clock.Advance(time.Minute)
	_, err = h.interactor.Execute(context.Background(), &update_apartment.Request{
		ApartmentID: "apt-1",
		Update:      domain.ApartmentUpdate{City: domain.Value("Capital City")},
		Actor:       owner,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), h.committer.Checks[1].Expected)

	changes := h.store.ChangeHistory("apt-1")
	require.Len(t, changes, 2)
	assert.Equal(t, "Shelbyville", *changes[1].OldValue)
	assert.Equal(t, 2.0, testutil.ToFloat64(h.metrics.Operations.WithLabelValues(update_apartment.Operation, metrics.StatusSuccess)))
}
