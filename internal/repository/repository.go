// Package repository opens the record store selected by STORE_DRIVER and
// hands out its branch, employee and attendance repositories.
package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/attendance-backend-go/internal/config"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/branch"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/memory"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/mongodb"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/postgresql"
)

type Repositories struct {
	Branches    branch.BranchRepository
	Employees   employee.EmployeeRepository
	Attendances attendance.AttendanceRepository

	close func(ctx context.Context) error
}

// Close releases the underlying connection pool.
func (r *Repositories) Close(ctx context.Context) error {
	if r.close == nil {
		return nil
	}
	return r.close(ctx)
}

func Open(ctx context.Context, cfg *config.Config) (*Repositories, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		if cfg.Store.AutoMigrate {
			if err := postgresql.Migrate(ctx, db); err != nil {
				db.Close()
				return nil, fmt.Errorf("failed to migrate PostgreSQL: %w", err)
			}
		}
		slog.Info("record store ready", "driver", cfg.Store.Driver, "host", cfg.Database.Host, "database", cfg.Database.Name)
		return &Repositories{
			Branches:    postgresql.NewBranchRepository(db),
			Employees:   postgresql.NewEmployeeRepository(db),
			Attendances: postgresql.NewAttendanceRepository(db),
			close: func(context.Context) error {
				db.Close()
				return nil
			},
		}, nil

	case config.StoreDriverMongo:
		db, err := database.NewMongoDB(cfg.Mongo.URI, cfg.Mongo.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			_ = db.Client.Disconnect(ctx)
			return nil, fmt.Errorf("failed to ensure MongoDB indexes: %w", err)
		}
		slog.Info("record store ready", "driver", cfg.Store.Driver, "database", cfg.Mongo.Name)
		return &Repositories{
			Branches:    mongodb.NewBranchRepository(db),
			Employees:   mongodb.NewEmployeeRepository(db),
			Attendances: mongodb.NewAttendanceRepository(db),
			close:       db.Client.Disconnect,
		}, nil

	case config.StoreDriverMemory:
		slog.Warn("using in-memory record store; data is lost on restart")
		store := memory.NewStore()
		return &Repositories{
			Branches:    store.Branches(),
			Employees:   store.Employees(),
			Attendances: store.Attendances(),
		}, nil

	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}
