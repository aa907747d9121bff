package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"

	"cloud.google.com/go/spanner"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/apartment-registry/internal/models/m_apartment"
	"github.com/light-bringer/apartment-registry/internal/models/m_change_history"
	"github.com/light-bringer/apartment-registry/internal/models/m_price_history"
	"github.com/light-bringer/apartment-registry/internal/models/m_user"
)

// SetupSpannerTest creates a test Spanner client and returns a cleanup function.
// The test is skipped unless SPANNER_EMULATOR_HOST points at a running emulator
// migrated with cmd/migrate.
func SetupSpannerTest(t *testing.T) (*spanner.Client, func()) {
	t.Helper()

	if os.Getenv("SPANNER_EMULATOR_HOST") == "" {
		t.Skip("SPANNER_EMULATOR_HOST not set; skipping Spanner test")
	}

	ctx := context.Background()
	client, err := spanner.NewClient(ctx, GetTestSpannerDB())
	require.NoError(t, err, "failed to create Spanner client")

	// Clean database before test
	CleanDatabase(t, client)

	cleanup := func() {
		CleanDatabase(t, client)
		client.Close()
	}

	return client, cleanup
}

// GetTestSpannerDB returns the test Spanner database path.
func GetTestSpannerDB() string {
	if db := os.Getenv("SPANNER_TEST_DATABASE"); db != "" {
		return db
	}
	return "projects/test-project/instances/test-instance/databases/apartments-test"
}

// CleanDatabase removes all rows for test isolation. Children go first so the
// owner foreign key never blocks the user delete.
func CleanDatabase(t *testing.T, client *spanner.Client) {
	t.Helper()

	mutations := []*spanner.Mutation{
		spanner.Delete(m_change_history.TableName, spanner.AllKeys()),
		spanner.Delete(m_price_history.TableName, spanner.AllKeys()),
		spanner.Delete(m_apartment.TableName, spanner.AllKeys()),
		spanner.Delete(m_user.TableName, spanner.AllKeys()),
	}

	_, err := client.Apply(context.Background(), mutations)
	require.NoError(t, err, "failed to clean database")
}

// AssertRowCount asserts the number of rows in a table.
func AssertRowCount(t *testing.T, client *spanner.Client, table string, expectedCount int) {
	t.Helper()

	require.Equal(t, int64(expectedCount), countRows(t, client, spanner.Statement{
		SQL: fmt.Sprintf("SELECT COUNT(*) FROM %s", table),
	}), "unexpected row count in table %s", table)
}

// AssertHistoryCount asserts the number of history rows one apartment has in table.
func AssertHistoryCount(t *testing.T, client *spanner.Client, table, apartmentID string, expectedCount int) {
	t.Helper()

	require.Equal(t, int64(expectedCount), countRows(t, client, spanner.Statement{
		SQL:    fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE apartment_id = @id", table),
		Params: map[string]interface{}{"id": apartmentID},
	}), "unexpected %s rows for apartment %s", table, apartmentID)
}

func countRows(t *testing.T, client *spanner.Client, stmt spanner.Statement) int64 {
	t.Helper()

	iter := client.Single().Query(context.Background(), stmt)
	defer iter.Stop()

	row, err := iter.Next()
	require.NoError(t, err, "failed to query row count")

	var count int64
	require.NoError(t, row.Columns(&count), "failed to parse count")
	return count
}
