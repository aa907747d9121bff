package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitDDLStatements(t *testing.T) {
	content := `-- leading comment
CREATE TABLE users (
  user_id STRING(36) NOT NULL,
) PRIMARY KEY (user_id);

-- index
CREATE UNIQUE INDEX users_by_email ON users(email);
`

	stmts := splitDDLStatements(content)
	require.Len(t, stmts, 2)
	assert.Equal(t, "CREATE TABLE users (\nuser_id STRING(36) NOT NULL,\n) PRIMARY KEY (user_id)", stmts[0])
	assert.Equal(t, "CREATE UNIQUE INDEX users_by_email ON users(email)", stmts[1])
}

func TestObjectName(t *testing.T) {
	tests := []struct{ stmt, want string }{
		{"CREATE TABLE apartments (\napartment_id STRING(36)", "apartments"},
		{"CREATE UNIQUE INDEX users_by_email ON users(email)", "users_by_email"},
		{"CREATE NULL_FILTERED INDEX x_idx ON t(c)", "x_idx"},
		{"CREATE INDEX apartments_by_owner ON apartments(owner_id)", "apartments_by_owner"},
		{"CREATE TABLE `Users`(id INT64) PRIMARY KEY (id)", "users"},
		{"ALTER TABLE apartments ADD COLUMN notes STRING(MAX)", ""},
		{"CREATE", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, objectName(tt.stmt), tt.stmt)
	}
}

func TestPendingStatementsSkipsExistingObjects(t *testing.T) {
	stmts := []string{
		"CREATE TABLE users (user_id STRING(36)) PRIMARY KEY (user_id)",
		"CREATE UNIQUE INDEX users_by_email ON users(email)",
		"CREATE TABLE apartments (apartment_id STRING(36)) PRIMARY KEY (apartment_id)",
		"ALTER TABLE users ADD COLUMN nickname STRING(64)",
	}

	got := pendingStatements(stmts, map[string]bool{"users": true, "users_by_email": true})
	assert.Equal(t, stmts[2:], got)
}
