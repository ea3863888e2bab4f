package postgresql

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/tern/v2/migrate"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// VersionTable records the last applied migration sequence.
const VersionTable = "schema_version"

// Migrate brings the schema up to the newest embedded migration. tern runs
// each pending file in its own transaction and serialises concurrent callers
// with an advisory lock.
func Migrate(ctx context.Context, db *database.DB) error {
	conn, err := db.Acquire(ctx)
	if err != nil {
		return database.Unavailable(fmt.Errorf("failed to acquire migration connection: %w", err))
	}
	defer conn.Release()

	m, err := migrate.NewMigrator(ctx, conn.Conn(), VersionTable)
	if err != nil {
		return database.Unavailable(fmt.Errorf("failed to create migrator: %w", err))
	}

	files, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		return err
	}
	if err := m.LoadMigrations(files); err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	m.OnStart = func(sequence int32, name, direction, _ string) {
		slog.Info("applying migration", "sequence", sequence, "name", name, "direction", direction)
	}

	if err := m.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}
