package m_change_history

import (
	"fmt"
	"time"

	"cloud.google.com/go/spanner"
)

// Data is one change_history row. Null values are stored as SQL NULL.
type Data struct {
	ApartmentID string             `spanner:"apartment_id"`
	HistoryID   string             `spanner:"history_id"`
	FieldName   string             `spanner:"field_name"`
	OldValue    spanner.NullString `spanner:"old_value"`
	NewValue    spanner.NullString `spanner:"new_value"`
	ChangedAt   time.Time          `spanner:"changed_at"`
	ChangedByID string             `spanner:"changed_by_id"`
}

type Model struct{}

func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a mutation for inserting a change history record.
func (m *Model) InsertMut(data *Data) (*spanner.Mutation, error) {
	mut, err := spanner.InsertStruct(TableName, data)
	if err != nil {
		return nil, fmt.Errorf("failed to build change history mutation: %w", err)
	}
	return mut, nil
}

// DeleteByApartmentMut deletes every change history row of an apartment.
func (m *Model) DeleteByApartmentMut(apartmentID string) *spanner.Mutation {
	return spanner.Delete(TableName, spanner.Key{apartmentID}.AsPrefix())
}

func (m *Model) ReadColumns() []string {
	return []string{
		ApartmentID,
		HistoryID,
		FieldName,
		OldValue,
		NewValue,
		ChangedAt,
		ChangedByID,
	}
}
