package m_user

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents the database model for the users table.
type Data struct {
	UserID         string             `spanner:"user_id"`
	Email          string             `spanner:"email"`
	HashedPassword string             `spanner:"hashed_password"`
	FullName       spanner.NullString `spanner:"full_name"`
	IsActive       bool               `spanner:"is_active"`
	IsSuperuser    bool               `spanner:"is_superuser"`
	CreatedAt      time.Time          `spanner:"created_at"`
}
