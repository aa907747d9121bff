package create_apartment_test

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
	"github.com/light-bringer/apartment-registry/internal/app/apartment/usecases/create_apartment"
	"github.com/light-bringer/apartment-registry/internal/metrics"
	"github.com/light-bringer/apartment-registry/internal/pkg/clock"
	"github.com/light-bringer/apartment-registry/tests/fakes"
)

var start = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

type harness struct {
	store      *fakes.Store
	committer  *fakes.Committer
	metrics    *metrics.Metrics
	interactor *create_apartment.Interactor
}

func setup(t *testing.T) *harness {
	t.Helper()

	store := fakes.NewStore()
	comm := fakes.NewCommitter(store)
	m := metrics.NewMetrics(prometheus.NewRegistry())
	writer := audit.NewWriter(fakes.NewPriceHistoryRepo(store), fakes.NewChangeHistoryRepo(store))

	return &harness{
		store:      store,
		committer:  comm,
		metrics:    m,
		interactor: create_apartment.NewInteractor(fakes.NewApartmentRepo(store), writer, comm, clock.NewMockClock(start), m, zerolog.Nop()),
	}
}

func ptr[T any](v T) *T { return &v }

func TestCreateApartment_SeedsOneRowPerNonNullField(t *testing.T) {
	h := setup(t)

	apartment, err := h.interactor.Execute(context.Background(), &create_apartment.Request{
		OwnerID: "owner-1",
		Fields: domain.ApartmentFields{
			Address:      "1 Main St",
			City:         "Springfield",
			CurrentPrice: 500.0,
		},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, apartment.ID())
	assert.Equal(t, int64(1), apartment.Version())
	assert.Equal(t, start, apartment.CreatedAt())
	assert.Equal(t, start, apartment.UpdatedAt())

	stored, ok := h.store.Apartment(apartment.ID())
	require.True(t, ok)
	assert.Equal(t, "owner-1", stored.OwnerID())
	assert.Equal(t, 500.0, stored.CurrentPrice())

	changes := h.store.ChangeHistory(apartment.ID())
	require.Len(t, changes, 3)
	assert.Equal(t, domain.FieldAddress, changes[0].FieldName)
	assert.Equal(t, domain.FieldCity, changes[1].FieldName)
	assert.Equal(t, domain.FieldCurrentPrice, changes[2].FieldName)
	assert.Equal(t, "500.0", *changes[2].NewValue)
	for _, c := range changes {
		assert.Nil(t, c.OldValue)
		assert.Equal(t, "owner-1", c.ChangedByID)
		assert.Equal(t, start, c.ChangedAt)
	}

	assert.Empty(t, h.store.PriceHistory(apartment.ID()))
	assert.Equal(t, 1, h.committer.Commits)
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.Operations.WithLabelValues(create_apartment.Operation, metrics.StatusSuccess)))
	assert.Equal(t, 3.0, testutil.ToFloat64(h.metrics.HistoryRows.WithLabelValues(metrics.KindChange)))
}

func TestCreateApartment_AllFields(t *testing.T) {
	h := setup(t)

	apartment, err := h.interactor.Execute(context.Background(), &create_apartment.Request{
		OwnerID: "owner-1",
		Fields: domain.ApartmentFields{
			Address:      "1 Main St",
			City:         "Springfield",
			AreaSqm:      ptr(72.5),
			Rooms:        ptr(int64(3)),
			Floor:        ptr(int64(-1)),
			BuildingYear: ptr(int64(1995)),
			CurrentPrice: 1234.5,
			Description:  ptr("Basement flat"),
		},
	})
	require.NoError(t, err)

	changes := h.store.ChangeHistory(apartment.ID())
	require.Len(t, changes, 8)

	values := map[string]string{}
	for _, c := range changes {
		values[c.FieldName] = *c.NewValue
	}
	assert.Equal(t, "72.5", values[domain.FieldAreaSqm])
	assert.Equal(t, "3", values[domain.FieldRooms])
	assert.Equal(t, "-1", values[domain.FieldFloor])
	assert.Equal(t, "1995", values[domain.FieldBuildingYear])
	assert.Equal(t, "1234.5", values[domain.FieldCurrentPrice])
	assert.Equal(t, "Basement flat", values[domain.FieldDescription])
}

func TestCreateApartment_InvalidFieldsWriteNothing(t *testing.T) {
	h := setup(t)

	_, err := h.interactor.Execute(context.Background(), &create_apartment.Request{
		OwnerID: "owner-1",
		Fields:  domain.ApartmentFields{Address: "1 Main St", City: "Springfield", CurrentPrice: 0},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)
	assert.ErrorIs(t, err, domain.ErrConstraintViolation)

	assert.Zero(t, h.store.ApartmentCount())
	assert.Zero(t, h.committer.Commits)
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.Operations.WithLabelValues(create_apartment.Operation, metrics.StatusError)))
}

func TestCreateApartment_MissingOwner(t *testing.T) {
	h := setup(t)

	_, err := h.interactor.Execute(context.Background(), &create_apartment.Request{
		Fields: domain.ApartmentFields{Address: "1 Main St", City: "Springfield", CurrentPrice: 10},
	})
	assert.ErrorIs(t, err, domain.ErrMissingOwner)
}

func TestCreateApartment_CommitFailureLeavesNoRows(t *testing.T) {
	h := setup(t)
	h.committer.Err = errors.New("spanner unavailable")

	_, err := h.interactor.Execute(context.Background(), &create_apartment.Request{
		OwnerID: "owner-1",
		Fields:  domain.ApartmentFields{Address: "1 Main St", City: "Springfield", CurrentPrice: 10},
	})
	require.Error(t, err)

	assert.Zero(t, h.store.ApartmentCount())
	assert.Zero(t, h.store.Pending())
	assert.Zero(t, testutil.ToFloat64(h.metrics.HistoryRows.WithLabelValues(metrics.KindChange)))
}
