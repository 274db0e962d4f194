package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/cmlabs-hris/line-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/line-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/line-attendance-go/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var (
	testDB     *database.DB
	testDBErr  error
	testDBOnce sync.Once
)

// openTestDB connects to TEST_DATABASE_URL and applies the schema once.
// Tests are skipped when no database is configured.
func openTestDB(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database tests")
	}

	testDBOnce.Do(func() {
		ctx := context.Background()
		testDB, testDBErr = database.NewPostgreSQLDB(ctx, dsn, database.PoolConfig{MaxConns: 10, ApplicationName: "line-attendance-test"})
		if testDBErr != nil {
			return
		}
		testDBErr = postgresql.EnsureSchema(ctx, testDB)
	})
	require.NoError(t, testDBErr)

	truncateAllTables(t)
	return testDB
}

func truncateAllTables(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	tables := []string{
		"notification_log",
		"attendance_records",
		"leave_requests",
		"employee_benefits",
		"employees",
		"office_locations",
		"system_settings",
		"hr_admins",
	}
	for _, table := range tables {
		_, err := testDB.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		require.NoError(t, err, "truncate %s", table)
	}
}

func createTestEmployee(t *testing.T, ctx context.Context, db *database.DB, status employee.Status) employee.Employee {
	t.Helper()
	repo := postgresql.NewEmployeeRepository(db)
	e, err := repo.Create(ctx, employee.Employee{
		LineUserID: "U" + uuid.NewString(),
		Name:       "Somchai Jaidee",
		Status:     status,
	})
	require.NoError(t, err)
	return e
}

func createTestAdmin(t *testing.T, ctx context.Context, db *database.DB) string {
	t.Helper()
	var id string
	err := db.QueryRow(ctx, `
		INSERT INTO hr_admins (id, username, password_hash, full_name)
		VALUES (gen_random_uuid(), $1, 'x', 'HR Admin')
		RETURNING id
	`, "hr-"+uuid.NewString()[:8]).Scan(&id)
	require.NoError(t, err)
	return id
}
