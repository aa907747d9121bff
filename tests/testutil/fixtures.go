package testutil

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/apartment-registry/internal/models/m_apartment"
	"github.com/light-bringer/apartment-registry/internal/models/m_user"
)

// CreateTestUser inserts an active user directly and returns its id.
func CreateTestUser(t *testing.T, client *spanner.Client, superuser bool) string {
	t.Helper()

	userID := uuid.New().String()
	data := &m_user.Data{
		UserID:         userID,
		Email:          userID + "@example.com",
		HashedPassword: "not-a-real-hash",
		IsActive:       true,
		IsSuperuser:    superuser,
		CreatedAt:      time.Now().UTC(),
	}

	_, err := client.Apply(context.Background(), []*spanner.Mutation{m_user.NewModel().InsertMut(data)})
	require.NoError(t, err, "failed to create test user")

	return userID
}

// CreateTestApartment inserts an apartment owned by ownerID directly and returns its id.
func CreateTestApartment(t *testing.T, client *spanner.Client, ownerID, city string, price float64) string {
	t.Helper()

	return CreateTestApartmentAt(t, client, ownerID, city, price, time.Now().UTC())
}

// CreateTestApartmentAt is CreateTestApartment with an explicit creation time.
func CreateTestApartmentAt(t *testing.T, client *spanner.Client, ownerID, city string, price float64, createdAt time.Time) string {
	t.Helper()

	apartmentID := uuid.New().String()
	data := &m_apartment.Data{
		ApartmentID:  apartmentID,
		OwnerID:      ownerID,
		Address:      "1 Test Street",
		City:         city,
		Rooms:        spanner.NullInt64{Int64: 2, Valid: true},
		CurrentPrice: price,
		Version:      1,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}

	_, err := client.Apply(context.Background(), []*spanner.Mutation{m_apartment.NewModel().InsertMut(data)})
	require.NoError(t, err, "failed to create test apartment")

	return apartmentID
}

// GetApartmentByID reads an apartment row for verification.
func GetApartmentByID(t *testing.T, client *spanner.Client, apartmentID string) *m_apartment.Data {
	t.Helper()

	row, err := client.Single().ReadRow(context.Background(), m_apartment.TableName, spanner.Key{apartmentID}, m_apartment.NewModel().Columns())
	require.NoError(t, err, "failed to get apartment by id")

	var data m_apartment.Data
	require.NoError(t, row.ToStruct(&data), "failed to parse apartment data")

	return &data
}

// BumpApartmentVersion simulates a concurrent writer committing to the apartment.
func BumpApartmentVersion(t *testing.T, client *spanner.Client, apartmentID string) {
	t.Helper()

	current := GetApartmentByID(t, client, apartmentID)
	mut := m_apartment.NewModel().UpdateMut(apartmentID, map[string]interface{}{
		m_apartment.Version:   current.Version + 1,
		m_apartment.UpdatedAt: time.Now().UTC(),
	})

	_, err := client.Apply(context.Background(), []*spanner.Mutation{mut})
	require.NoError(t, err, "failed to bump apartment version")
}
