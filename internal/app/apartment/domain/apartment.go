package domain

import (
	"fmt"
	"time"
)

// Apartment is the aggregate root of a listing. Business fields only change
// through Apply, which returns the diff that has to be audited.
type Apartment struct {
	id           string
	ownerID      string
	address      string
	city         string
	areaSqm      *float64
	rooms        *int64
	floor        *int64
	buildingYear *int64
	currentPrice float64
	description  *string
	version      int64
	createdAt    time.Time
	updatedAt    time.Time

	isNew   bool
	changes *ChangeTracker
}

// NewApartment creates a new apartment owned by ownerID.
func NewApartment(id, ownerID string, fields *ApartmentFields, now time.Time) (*Apartment, error) {
	if ownerID == "" {
		return nil, ErrMissingOwner
	}
	if err := fields.Validate(); err != nil {
		return nil, err
	}

	a := &Apartment{
		id:           id,
		ownerID:      ownerID,
		address:      fields.Address,
		city:         fields.City,
		areaSqm:      copyPtr(fields.AreaSqm),
		rooms:        copyPtr(fields.Rooms),
		floor:        copyPtr(fields.Floor),
		buildingYear: copyPtr(fields.BuildingYear),
		currentPrice: fields.CurrentPrice,
		description:  copyPtr(fields.Description),
		version:      1,
		createdAt:    now,
		updatedAt:    now,
		isNew:        true,
		changes:      NewChangeTracker(),
	}

	for _, field := range AuditedFields {
		a.changes.MarkDirty(field)
	}
	a.changes.MarkDirty(FieldUpdatedAt)

	return a, nil
}

// ReconstructApartment rebuilds an apartment loaded from storage.
func ReconstructApartment(
	id, ownerID string,
	fields *ApartmentFields,
	version int64,
	createdAt, updatedAt time.Time,
) *Apartment {
	return &Apartment{
		id:           id,
		ownerID:      ownerID,
		address:      fields.Address,
		city:         fields.City,
		areaSqm:      copyPtr(fields.AreaSqm),
		rooms:        copyPtr(fields.Rooms),
		floor:        copyPtr(fields.Floor),
		buildingYear: copyPtr(fields.BuildingYear),
		currentPrice: fields.CurrentPrice,
		description:  copyPtr(fields.Description),
		version:      version,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
		changes:      NewChangeTracker(),
	}
}

// Getters
func (a *Apartment) ID() string               { return a.id }
func (a *Apartment) OwnerID() string          { return a.ownerID }
func (a *Apartment) Address() string          { return a.address }
func (a *Apartment) City() string             { return a.city }
func (a *Apartment) AreaSqm() *float64        { return copyPtr(a.areaSqm) }
func (a *Apartment) Rooms() *int64            { return copyPtr(a.rooms) }
func (a *Apartment) Floor() *int64            { return copyPtr(a.floor) }
func (a *Apartment) BuildingYear() *int64     { return copyPtr(a.buildingYear) }
func (a *Apartment) CurrentPrice() float64    { return a.currentPrice }
func (a *Apartment) Description() *string     { return copyPtr(a.description) }
func (a *Apartment) Version() int64           { return a.version }
func (a *Apartment) CreatedAt() time.Time     { return a.createdAt }
func (a *Apartment) UpdatedAt() time.Time     { return a.updatedAt }
func (a *Apartment) IsNew() bool              { return a.isNew }
func (a *Apartment) Changes() *ChangeTracker  { return a.changes }

// Fields returns a snapshot of the business fields.
func (a *Apartment) Fields() ApartmentFields {
	return ApartmentFields{
		Address:      a.address,
		City:         a.city,
		AreaSqm:      copyPtr(a.areaSqm),
		Rooms:        copyPtr(a.rooms),
		Floor:        copyPtr(a.floor),
		BuildingYear: copyPtr(a.buildingYear),
		CurrentPrice: a.currentPrice,
		Description:  copyPtr(a.description),
	}
}

// Apply validates upd, diffs it against the current state and writes the
// changed fields onto the apartment. It returns the diff set. Fields equal to
// their current value are neither changed nor marked dirty.
func (a *Apartment) Apply(upd *ApartmentUpdate) ([]FieldChange, error) {
	if err := upd.Validate(); err != nil {
		return nil, err
	}

	changes := Diff(a, upd)
	for _, c := range changes {
		if err := a.set(c); err != nil {
			return nil, err
		}
		a.changes.MarkDirty(c.Field)
	}
	return changes, nil
}

// Touch stamps updatedAt. Every persisted mutation calls it, changed or not.
func (a *Apartment) Touch(now time.Time) {
	a.updatedAt = now
	a.changes.MarkDirty(FieldUpdatedAt)
}

// MarkPersisted records that the pending changes were committed. An update
// bumps the version the same way the repository's update mutation does.
func (a *Apartment) MarkPersisted() {
	if !a.isNew && a.changes.HasChanges() {
		a.version++
	}
	a.isNew = false
	a.changes.Clear()
}

func (a *Apartment) set(c FieldChange) error {
	var ok bool
	switch c.Field {
	case FieldAddress:
		ok = assign(&a.address, c.NewValue)
	case FieldCity:
		ok = assign(&a.city, c.NewValue)
	case FieldAreaSqm:
		ok = assignPtr(&a.areaSqm, c.NewValue)
	case FieldRooms:
		ok = assignPtr(&a.rooms, c.NewValue)
	case FieldFloor:
		ok = assignPtr(&a.floor, c.NewValue)
	case FieldBuildingYear:
		ok = assignPtr(&a.buildingYear, c.NewValue)
	case FieldCurrentPrice:
		ok = assign(&a.currentPrice, c.NewValue)
	case FieldDescription:
		ok = assignPtr(&a.description, c.NewValue)
	}
	if !ok {
		return fmt.Errorf("%w: cannot assign %T to %s", ErrConstraintViolation, c.NewValue, c.Field)
	}
	return nil
}

func assign[T any](dst *T, v any) bool {
	t, ok := v.(T)
	if ok {
		*dst = t
	}
	return ok
}

// assignPtr writes a native diff value into a nullable field; nil clears it.
func assignPtr[T any](dst **T, v any) bool {
	if v == nil {
		*dst = nil
		return true
	}
	t, ok := v.(T)
	if ok {
		*dst = &t
	}
	return ok
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
