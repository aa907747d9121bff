package domain

// FieldChange is one entry of a diff set. OldValue and NewValue hold the
// native Go value (string, int64 or float64) or nil for null.
type FieldChange struct {
	Field    string
	OldValue any
	NewValue any
}

// Diff compares the apartment's current state with a partial update and returns
// a change for every included field whose value differs. Values are compared on
// their native types, so 1000 and 1000.0 are the same price. Two nulls are equal.
// The result follows AuditedFields order.
func Diff(current *Apartment, upd *ApartmentUpdate) []FieldChange {
	changes := make([]FieldChange, 0, len(AuditedFields))

	changes = diffField(changes, FieldAddress, &current.address, upd.Address)
	changes = diffField(changes, FieldCity, &current.city, upd.City)
	changes = diffField(changes, FieldAreaSqm, current.areaSqm, upd.AreaSqm)
	changes = diffField(changes, FieldRooms, current.rooms, upd.Rooms)
	changes = diffField(changes, FieldFloor, current.floor, upd.Floor)
	changes = diffField(changes, FieldBuildingYear, current.buildingYear, upd.BuildingYear)
	changes = diffField(changes, FieldCurrentPrice, &current.currentPrice, upd.CurrentPrice)
	changes = diffField(changes, FieldDescription, current.description, upd.Description)

	return changes
}

// FindChange returns the change for field, if the diff set has one.
func FindChange(changes []FieldChange, field string) (FieldChange, bool) {
	for _, c := range changes {
		if c.Field == field {
			return c, true
		}
	}
	return FieldChange{}, false
}

func diffField[T comparable](out []FieldChange, name string, current *T, proposed Field[T]) []FieldChange {
	if !proposed.IsSet() {
		return out
	}

	next := proposed.Ptr()
	if sameValue(current, next) {
		return out
	}

	return append(out, FieldChange{
		Field:    name,
		OldValue: nativeValue(current),
		NewValue: nativeValue(next),
	})
}

func sameValue[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// nativeValue unwraps p so that a nil pointer becomes an untyped nil interface.
func nativeValue[T comparable](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
