package m_user

import (
	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the users table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// Columns returns every column of the table.
func (m *Model) Columns() []string {
	return []string{
		UserID,
		Email,
		HashedPassword,
		FullName,
		IsActive,
		IsSuperuser,
		CreatedAt,
	}
}

// InsertMut creates a Spanner mutation for inserting a user.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(
		TableName,
		m.Columns(),
		[]interface{}{
			data.UserID,
			data.Email,
			data.HashedPassword,
			data.FullName,
			data.IsActive,
			data.IsSuperuser,
			data.CreatedAt,
		},
	)
}

// DeleteMut creates a Spanner mutation for deleting a user.
func (m *Model) DeleteMut(userID string) *spanner.Mutation {
	return spanner.Delete(TableName, spanner.Key{userID})
}
