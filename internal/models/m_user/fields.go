package m_user

// Field name constants for the users table.
const (
	TableName = "users"

	UserID         = "user_id"
	Email          = "email"
	HashedPassword = "hashed_password"
	FullName       = "full_name"
	IsActive       = "is_active"
	IsSuperuser    = "is_superuser"
	CreatedAt      = "created_at"
)

// EmailIndex enforces unique emails.
const EmailIndex = "users_by_email"
