//go:build integration

package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/apartment-registry/internal/app/apartment/domain"
	"github.com/light-bringer/apartment-registry/internal/app/apartment/repo"
	"github.com/light-bringer/apartment-registry/internal/pkg/committer"
	"github.com/light-bringer/apartment-registry/tests/testutil"
)

func TestPriceHistoryRepo_NewestFirst(t *testing.T) {
	client, cleanup := testutil.SetupSpannerTest(t)
	defer cleanup()

	ctx := context.Background()
	priceRepo := repo.NewPriceHistoryRepo(client)
	comm := committer.NewCommitter(client)
	ownerID := testutil.CreateTestUser(t, client, false)
	apartmentID := testutil.CreateTestApartment(t, client, ownerID, "Springfield", 1300)
	base := time.Now().UTC().Truncate(time.Microsecond)

	plan := committer.NewPlan()
	for i, p := range [][2]float64{{1000, 1200}, {1200, 1300}} {
		ph, err := domain.NewPriceHistory(fmt.Sprintf("h-%d", i), apartmentID, p[0], p[1], ownerID, base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
		mut, err := priceRepo.InsertMut(ph)
		require.NoError(t, err)
		plan.Add(mut)
	}
	require.NoError(t, comm.Apply(ctx, plan))

	rows, err := priceRepo.ListByApartment(ctx, apartmentID, 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 1300.0, rows[0].NewPrice)
	assert.Equal(t, 1000.0, rows[1].OldPrice)
	assert.Equal(t, ownerID, rows[0].ChangedByID)
	assert.True(t, base.Add(time.Minute).Equal(rows[0].ChangedAt))

	rows, err = priceRepo.ListByApartment(ctx, apartmentID, 1)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestChangeHistoryRepo_NullValuesRoundTrip(t *testing.T) {
	client, cleanup := testutil.SetupSpannerTest(t)
	defer cleanup()

	ctx := context.Background()
	changeRepo := repo.NewChangeHistoryRepo(client)
	comm := committer.NewCommitter(client)
	ownerID := testutil.CreateTestUser(t, client, false)
	apartmentID := testutil.CreateTestApartment(t, client, ownerID, "Springfield", 100)
	at := time.Now().UTC().Truncate(time.Microsecond)

	empty := ""
	records := []*domain.ChangeHistory{
		{ID: "c-1", ApartmentID: apartmentID, FieldName: domain.FieldRooms, OldValue: nil, NewValue: domain.FormatValue(int64(3)), ChangedAt: at, ChangedByID: ownerID},
		{ID: "c-2", ApartmentID: apartmentID, FieldName: domain.FieldDescription, OldValue: &empty, NewValue: nil, ChangedAt: at, ChangedByID: ownerID},
	}

	plan := committer.NewPlan()
	for _, r := range records {
		mut, err := changeRepo.InsertMut(r)
		require.NoError(t, err)
		plan.Add(mut)
	}
	require.NoError(t, comm.Apply(ctx, plan))

	rows, err := changeRepo.ListByApartment(ctx, apartmentID, 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// same changed_at, history_id breaks the tie
	assert.Equal(t, "c-1", rows[0].ID)
	assert.Nil(t, rows[0].OldValue)
	assert.Equal(t, "3", *rows[0].NewValue)

	assert.Equal(t, "c-2", rows[1].ID)
	require.NotNil(t, rows[1].OldValue)
	assert.Equal(t, "", *rows[1].OldValue)
	assert.Nil(t, rows[1].NewValue)
}
