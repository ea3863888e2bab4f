package postgresql_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/branch"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// newTestDB connects to TEST_DATABASE_URL, applies migrations and empties
// every table. Tests are skipped when the variable is unset.
func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.NewPostgreSQLDB(dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	ctx := context.Background()
	require.NoError(t, postgresql.Migrate(ctx, db))

	_, err = db.Exec(ctx, "TRUNCATE TABLE attendances, employees, branches CASCADE")
	require.NoError(t, err)

	return db
}

func createTestBranch(t *testing.T, ctx context.Context, db *database.DB, name string) branch.Branch {
	t.Helper()

	b, err := postgresql.NewBranchRepository(db).Create(ctx, branch.Branch{
		ID:           uuid.Must(uuid.NewV7()).String(),
		Name:         name,
		PasswordHash: "hash",
		Timezone:     "UTC",
	})
	require.NoError(t, err)
	return b
}

func createTestEmployee(t *testing.T, ctx context.Context, db *database.DB, branchID, email string) employee.Employee {
	t.Helper()

	e, err := postgresql.NewEmployeeRepository(db).Create(ctx, employee.Employee{
		ID:           uuid.Must(uuid.NewV7()).String(),
		Email:        email,
		PasswordHash: "hash",
		BranchID:     branchID,
	})
	require.NoError(t, err)
	return e
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
