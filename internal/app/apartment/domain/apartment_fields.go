package domain

import (
	"math"
	"unicode/utf8"
)

// Audited field names. These are the field_name values written to change history.
const (
	FieldAddress      = "address"
	FieldCity         = "city"
	FieldAreaSqm      = "area_sqm"
	FieldRooms        = "rooms"
	FieldFloor        = "floor"
	FieldBuildingYear = "building_year"
	FieldCurrentPrice = "current_price"
	FieldDescription  = "description"

	// FieldUpdatedAt is tracked for persistence only and never audited.
	FieldUpdatedAt = "updated_at"
)

// AuditedFields lists the business fields in canonical order.
// Diffs and creation seeds are emitted in this order.
var AuditedFields = []string{
	FieldAddress,
	FieldCity,
	FieldAreaSqm,
	FieldRooms,
	FieldFloor,
	FieldBuildingYear,
	FieldCurrentPrice,
	FieldDescription,
}

// ApartmentFields is the creation payload. Nil pointers are absent values.
type ApartmentFields struct {
	Address      string
	City         string
	AreaSqm      *float64
	Rooms        *int64
	Floor        *int64
	BuildingYear *int64
	CurrentPrice float64
	Description  *string
}

// Validate checks every entity invariant of the payload.
func (f *ApartmentFields) Validate() error {
	if err := validateAddress(f.Address); err != nil {
		return err
	}
	if err := validateCity(f.City); err != nil {
		return err
	}
	if f.AreaSqm != nil {
		if err := validateArea(*f.AreaSqm); err != nil {
			return err
		}
	}
	if f.Rooms != nil {
		if err := validateRooms(*f.Rooms); err != nil {
			return err
		}
	}
	if f.BuildingYear != nil {
		if err := validateBuildingYear(*f.BuildingYear); err != nil {
			return err
		}
	}
	if err := validatePrice(f.CurrentPrice); err != nil {
		return err
	}
	if f.Description != nil {
		if err := validateDescription(*f.Description); err != nil {
			return err
		}
	}
	return nil
}

// InitialValues returns one FieldChange per non-null field, each with a nil OldValue.
func (f *ApartmentFields) InitialValues() []FieldChange {
	values := []FieldChange{
		{Field: FieldAddress, NewValue: f.Address},
		{Field: FieldCity, NewValue: f.City},
	}
	values = appendSeed(values, FieldAreaSqm, f.AreaSqm)
	values = appendSeed(values, FieldRooms, f.Rooms)
	values = appendSeed(values, FieldFloor, f.Floor)
	values = appendSeed(values, FieldBuildingYear, f.BuildingYear)
	values = append(values, FieldChange{Field: FieldCurrentPrice, NewValue: f.CurrentPrice})
	values = appendSeed(values, FieldDescription, f.Description)
	return values
}

func appendSeed[T comparable](out []FieldChange, name string, v *T) []FieldChange {
	if v == nil {
		return out
	}
	return append(out, FieldChange{Field: name, NewValue: *v})
}

// ApartmentUpdate is a partial update. Omitted fields are left untouched.
type ApartmentUpdate struct {
	Address      Field[string]
	City         Field[string]
	AreaSqm      Field[float64]
	Rooms        Field[int64]
	Floor        Field[int64]
	BuildingYear Field[int64]
	CurrentPrice Field[float64]
	Description  Field[string]
}

// IsEmpty reports whether no field was included.
func (u *ApartmentUpdate) IsEmpty() bool {
	return !u.Address.IsSet() && !u.City.IsSet() && !u.AreaSqm.IsSet() && !u.Rooms.IsSet() &&
		!u.Floor.IsSet() && !u.BuildingYear.IsSet() && !u.CurrentPrice.IsSet() && !u.Description.IsSet()
}

// Validate checks the invariants of every included field.
// Address, city and current_price cannot be set to null.
func (u *ApartmentUpdate) Validate() error {
	if u.Address.IsSet() {
		v, ok := u.Address.Get()
		if !ok {
			return ErrInvalidAddress
		}
		if err := validateAddress(v); err != nil {
			return err
		}
	}
	if u.City.IsSet() {
		v, ok := u.City.Get()
		if !ok {
			return ErrInvalidCity
		}
		if err := validateCity(v); err != nil {
			return err
		}
	}
	if v, ok := u.AreaSqm.Get(); ok {
		if err := validateArea(v); err != nil {
			return err
		}
	}
	if v, ok := u.Rooms.Get(); ok {
		if err := validateRooms(v); err != nil {
			return err
		}
	}
	if v, ok := u.BuildingYear.Get(); ok {
		if err := validateBuildingYear(v); err != nil {
			return err
		}
	}
	if u.CurrentPrice.IsSet() {
		v, ok := u.CurrentPrice.Get()
		if !ok {
			return ErrInvalidPrice
		}
		if err := validatePrice(v); err != nil {
			return err
		}
	}
	if v, ok := u.Description.Get(); ok {
		if err := validateDescription(v); err != nil {
			return err
		}
	}
	return nil
}

func validateAddress(v string) error {
	if n := utf8.RuneCountInString(v); n < 1 || n > 500 {
		return ErrInvalidAddress
	}
	return nil
}

func validateCity(v string) error {
	if n := utf8.RuneCountInString(v); n < 1 || n > 100 {
		return ErrInvalidCity
	}
	return nil
}

func validateArea(v float64) error {
	if !(v > 0) || math.IsInf(v, 1) {
		return ErrInvalidArea
	}
	return nil
}

func validateRooms(v int64) error {
	if v <= 0 {
		return ErrInvalidRooms
	}
	return nil
}

func validateBuildingYear(v int64) error {
	if v <= 1800 || v >= 2100 {
		return ErrInvalidBuildingYear
	}
	return nil
}

// validatePrice also rejects NaN, which fails every ordered comparison.
func validatePrice(v float64) error {
	if !(v > 0) || math.IsInf(v, 1) {
		return ErrInvalidPrice
	}
	return nil
}

func validateDescription(v string) error {
	if utf8.RuneCountInString(v) > 1000 {
		return ErrInvalidDescription
	}
	return nil
}
