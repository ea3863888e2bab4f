package mongodb

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names
const (
	BranchCollection     = "branches"
	EmployeeCollection   = "employees"
	AttendanceCollection = "attendances"
)

// EnsureIndexes creates the unique indexes the repositories rely on to
// reject duplicate branch names, employee emails and (employee, date) records.
func EnsureIndexes(ctx context.Context, db *database.MongoDB) error {
	indexes := map[string][]mongo.IndexModel{
		BranchCollection: {
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		EmployeeCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "branch_id", Value: 1}}},
		},
		AttendanceCollection: {
			{
				Keys:    bson.D{{Key: "employee_id", Value: 1}, {Key: "date", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
	}

	for name, models := range indexes {
		created, err := db.Collection(name).Indexes().CreateMany(ctx, models)
		if err != nil {
			return database.Unavailable(fmt.Errorf("failed to create indexes on %s: %w", name, err))
		}
		slog.Debug("mongodb indexes ensured", "collection", name, "indexes", created)
	}

	return nil
}
