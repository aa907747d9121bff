package m_apartment

import (
	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the apartments table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// Columns returns every column of the table in declaration order.
func (m *Model) Columns() []string {
	return []string{
		ApartmentID,
		OwnerID,
		Address,
		City,
		AreaSqm,
		Rooms,
		Floor,
		BuildingYear,
		CurrentPrice,
		Description,
		Version,
		CreatedAt,
		UpdatedAt,
	}
}

// InsertMut creates a Spanner mutation for inserting an apartment.
// Insert fails on an existing key instead of overwriting it.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(
		TableName,
		m.Columns(),
		[]interface{}{
			data.ApartmentID,
			data.OwnerID,
			data.Address,
			data.City,
			data.AreaSqm,
			data.Rooms,
			data.Floor,
			data.BuildingYear,
			data.CurrentPrice,
			data.Description,
			data.Version,
			data.CreatedAt,
			data.UpdatedAt,
		},
	)
}

// UpdateMut creates a Spanner mutation for updating specific apartment columns.
// The updates map should contain column names as keys and new values.
func (m *Model) UpdateMut(apartmentID string, updates map[string]interface{}) *spanner.Mutation {
	if len(updates) == 0 {
		return nil
	}

	columns := make([]string, 0, len(updates)+1)
	values := make([]interface{}, 0, len(updates)+1)

	columns = append(columns, ApartmentID)
	values = append(values, apartmentID)

	for col, val := range updates {
		columns = append(columns, col)
		values = append(values, val)
	}

	return spanner.Update(TableName, columns, values)
}

// DeleteMut creates a Spanner mutation for deleting an apartment.
func (m *Model) DeleteMut(apartmentID string) *spanner.Mutation {
	return spanner.Delete(TableName, spanner.Key{apartmentID})
}
