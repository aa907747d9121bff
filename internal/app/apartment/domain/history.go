package domain

import "time"

// PriceHistory is an immutable record of one price change.
type PriceHistory struct {
	ID          string
	ApartmentID string
	OldPrice    float64
	NewPrice    float64
	ChangedAt   time.Time
	ChangedByID string
}

// NewPriceHistory builds a price record, enforcing old != new and both > 0.
func NewPriceHistory(id, apartmentID string, oldPrice, newPrice float64, changedBy string, at time.Time) (*PriceHistory, error) {
	if err := validatePrice(oldPrice); err != nil {
		return nil, err
	}
	if err := validatePrice(newPrice); err != nil {
		return nil, err
	}
	if oldPrice == newPrice {
		return nil, ErrUnchangedPrice
	}
	if changedBy == "" {
		return nil, ErrMissingActor
	}
	return &PriceHistory{
		ID:          id,
		ApartmentID: apartmentID,
		OldPrice:    oldPrice,
		NewPrice:    newPrice,
		ChangedAt:   at,
		ChangedByID: changedBy,
	}, nil
}

// ChangeHistory is an immutable record of one field change. Nil values are nulls.
type ChangeHistory struct {
	ID          string
	ApartmentID string
	FieldName   string
	OldValue    *string
	NewValue    *string
	ChangedAt   time.Time
	ChangedByID string
}
