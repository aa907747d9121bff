package m_price_history

import (
	"fmt"
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents a price history record in the database.
// The table is interleaved in apartments, so apartment_id leads the key.
type Data struct {
	ApartmentID string    `spanner:"apartment_id"`
	HistoryID   string    `spanner:"history_id"`
	OldPrice    float64   `spanner:"old_price"`
	NewPrice    float64   `spanner:"new_price"`
	ChangedAt   time.Time `spanner:"changed_at"`
	ChangedByID string    `spanner:"changed_by_id"`
}

// Model provides type-safe database operations for price history.
type Model struct{}

// NewModel creates a new price history model.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a mutation for inserting a price history record.
func (m *Model) InsertMut(data *Data) (*spanner.Mutation, error) {
	mut, err := spanner.InsertStruct(TableName, data)
	if err != nil {
		return nil, fmt.Errorf("failed to build price history mutation: %w", err)
	}
	return mut, nil
}

// DeleteByApartmentMut deletes every price history row of an apartment.
func (m *Model) DeleteByApartmentMut(apartmentID string) *spanner.Mutation {
	return spanner.Delete(TableName, spanner.Key{apartmentID}.AsPrefix())
}

// ReadColumns returns the column names for reading price history.
func (m *Model) ReadColumns() []string {
	return []string{
		ApartmentID,
		HistoryID,
		OldPrice,
		NewPrice,
		ChangedAt,
		ChangedByID,
	}
}
