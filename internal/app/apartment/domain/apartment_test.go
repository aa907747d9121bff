package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewApartment(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	t.Run("valid apartment", func(t *testing.T) {
		a, err := NewApartment("apt-1", "owner-1", &ApartmentFields{
			Address:      "1 Main St",
			City:         "Springfield",
			CurrentPrice: 500.0,
		}, now)
		require.NoError(t, err)

		assert.Equal(t, "apt-1", a.ID())
		assert.Equal(t, "owner-1", a.OwnerID())
		assert.Equal(t, now, a.CreatedAt())
		assert.Equal(t, now, a.UpdatedAt())
		assert.Equal(t, int64(1), a.Version())
		assert.True(t, a.IsNew())
		assert.True(t, a.Changes().Dirty(FieldCurrentPrice))
	})

	t.Run("missing owner", func(t *testing.T) {
		_, err := NewApartment("apt-1", "", &ApartmentFields{Address: "a", City: "b", CurrentPrice: 1}, now)
		assert.ErrorIs(t, err, ErrMissingOwner)
	})

	tests := []struct {
		name   string
		fields ApartmentFields
		want   error
	}{
		{"zero price", ApartmentFields{Address: "a", City: "b", CurrentPrice: 0}, ErrInvalidPrice},
		{"negative price", ApartmentFields{Address: "a", City: "b", CurrentPrice: -5}, ErrInvalidPrice},
		{"empty address", ApartmentFields{Address: "", City: "b", CurrentPrice: 1}, ErrInvalidAddress},
		{"long city", ApartmentFields{Address: "a", City: strings.Repeat("x", 101), CurrentPrice: 1}, ErrInvalidCity},
		{"zero rooms", ApartmentFields{Address: "a", City: "b", CurrentPrice: 1, Rooms: ptr(int64(0))}, ErrInvalidRooms},
		{"ancient building", ApartmentFields{Address: "a", City: "b", CurrentPrice: 1, BuildingYear: ptr(int64(1800))}, ErrInvalidBuildingYear},
		{"negative area", ApartmentFields{Address: "a", City: "b", CurrentPrice: 1, AreaSqm: ptr(-1.0)}, ErrInvalidArea},
		{"long description", ApartmentFields{Address: "a", City: "b", CurrentPrice: 1, Description: ptr(strings.Repeat("d", 1001))}, ErrInvalidDescription},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewApartment("apt-1", "owner-1", &tt.fields, now)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, ErrConstraintViolation)
		})
	}
}

func TestApartmentFields_InitialValuesSkipNulls(t *testing.T) {
	f := &ApartmentFields{
		Address:      "1 Main St",
		City:         "Springfield",
		CurrentPrice: 500.0,
	}

	seeds := f.InitialValues()
	require.Len(t, seeds, 3)
	assert.Equal(t, FieldAddress, seeds[0].Field)
	assert.Equal(t, FieldCity, seeds[1].Field)
	assert.Equal(t, FieldCurrentPrice, seeds[2].Field)
	for _, s := range seeds {
		assert.Nil(t, s.OldValue)
	}
}

func TestApartmentFields_InitialValuesAllFields(t *testing.T) {
	f := &ApartmentFields{
		Address:      "1 Main St",
		City:         "Springfield",
		AreaSqm:      ptr(70.0),
		Rooms:        ptr(int64(3)),
		Floor:        ptr(int64(0)),
		BuildingYear: ptr(int64(1990)),
		CurrentPrice: 500.0,
		Description:  ptr(""),
	}

	seeds := f.InitialValues()
	require.Len(t, seeds, len(AuditedFields))
	for i, s := range seeds {
		assert.Equal(t, AuditedFields[i], s.Field)
	}
}

func TestApartment_Apply(t *testing.T) {
	a := testApartment(t)

	changes, err := a.Apply(&ApartmentUpdate{
		City:         Value("Shelbyville"),
		Rooms:        Null[int64](),
		CurrentPrice: Value(1000.0),
	})
	require.NoError(t, err)

	require.Len(t, changes, 2)
	assert.Equal(t, "Shelbyville", a.City())
	assert.Nil(t, a.Rooms())
	assert.True(t, a.Changes().Dirty(FieldCity))
	assert.True(t, a.Changes().Dirty(FieldRooms))
	assert.False(t, a.Changes().Dirty(FieldCurrentPrice))
}

func TestApartment_ApplyRejectsInvalidUpdate(t *testing.T) {
	a := testApartment(t)

	tests := []struct {
		name string
		upd  ApartmentUpdate
		want error
	}{
		{"null price", ApartmentUpdate{CurrentPrice: Null[float64]()}, ErrInvalidPrice},
		{"zero price", ApartmentUpdate{CurrentPrice: Value(0.0)}, ErrInvalidPrice},
		{"null address", ApartmentUpdate{Address: Null[string]()}, ErrInvalidAddress},
		{"null city", ApartmentUpdate{City: Null[string]()}, ErrInvalidCity},
		{"year too late", ApartmentUpdate{BuildingYear: Value(int64(2100))}, ErrInvalidBuildingYear},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Apply(&tt.upd)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	assert.Equal(t, 1000.0, a.CurrentPrice())
	assert.False(t, a.Changes().HasChanges())
}

func TestApartment_TouchAndMarkPersisted(t *testing.T) {
	a := testApartment(t)
	later := a.UpdatedAt().Add(time.Hour)

	a.Touch(later)
	assert.Equal(t, later, a.UpdatedAt())
	assert.Equal(t, []string{FieldUpdatedAt}, a.Changes().DirtyFields())

	a.MarkPersisted()
	assert.Equal(t, int64(4), a.Version())
	assert.False(t, a.Changes().HasChanges())

	// nothing pending, nothing bumped
	a.MarkPersisted()
	assert.Equal(t, int64(4), a.Version())
}

func TestApartment_MarkPersistedAfterCreateKeepsVersion(t *testing.T) {
	a, err := NewApartment("apt-1", "owner-1", &ApartmentFields{Address: "a", City: "b", CurrentPrice: 1}, time.Now())
	require.NoError(t, err)

	a.MarkPersisted()
	assert.Equal(t, int64(1), a.Version())
	assert.False(t, a.IsNew())
}

func TestApartment_GettersReturnCopies(t *testing.T) {
	a := testApartment(t)

	area := a.AreaSqm()
	*area = 1
	assert.Equal(t, 54.5, *a.AreaSqm())
}

func TestPrincipal(t *testing.T) {
	a := testApartment(t)

	assert.NoError(t, Principal{UserID: "owner-1"}.Authorize(a))
	assert.NoError(t, Principal{UserID: "admin", IsSuperuser: true}.Authorize(a))
	assert.ErrorIs(t, Principal{UserID: "stranger"}.Authorize(a), ErrNotEnoughPermissions)
	assert.False(t, Principal{}.CanAccess(a))
}

func TestNewPriceHistory(t *testing.T) {
	at := time.Now()

	ph, err := NewPriceHistory("h-1", "apt-1", 1000, 1200, "user-1", at)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, ph.OldPrice)
	assert.Equal(t, 1200.0, ph.NewPrice)

	_, err = NewPriceHistory("h-1", "apt-1", 1000, 1000, "user-1", at)
	assert.ErrorIs(t, err, ErrUnchangedPrice)

	_, err = NewPriceHistory("h-1", "apt-1", 0, 1000, "user-1", at)
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = NewPriceHistory("h-1", "apt-1", 1000, 900, "", at)
	assert.ErrorIs(t, err, ErrMissingActor)
}

func TestChangeTracker_OrderAndClear(t *testing.T) {
	ct := NewChangeTracker()
	ct.MarkDirty(FieldCity)
	ct.MarkDirty(FieldAddress)
	ct.MarkDirty(FieldCity)

	assert.Equal(t, []string{FieldCity, FieldAddress}, ct.DirtyFields())

	ct.Clear()
	assert.False(t, ct.HasChanges())
	assert.False(t, ct.Dirty(FieldCity))
}
