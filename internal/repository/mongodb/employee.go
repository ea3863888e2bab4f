package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type employeeDocument struct {
	ID           string    `bson:"_id"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	BranchID     string    `bson:"branch_id"`
	CreatedAt    time.Time `bson:"created_at"`
}

func (d employeeDocument) toEntity() employee.Employee {
	return employee.Employee{
		ID:           d.ID,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		BranchID:     d.BranchID,
		CreatedAt:    d.CreatedAt.UTC(),
	}
}

type employeeRepository struct {
	collection *mongo.Collection
}

func NewEmployeeRepository(db *database.MongoDB) employee.EmployeeRepository {
	return &employeeRepository{collection: db.Collection(EmployeeCollection)}
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepository) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	doc := employeeDocument{
		ID:           e.ID,
		Email:        e.Email,
		PasswordHash: e.PasswordHash,
		BranchID:     e.BranchID,
		CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return employee.Employee{}, employee.ErrEmailExists
		}
		return employee.Employee{}, database.Unavailable(fmt.Errorf("failed to create employee: %w", err))
	}

	return doc.toEntity(), nil
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetByEmail implements employee.EmployeeRepository.
func (r *employeeRepository) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *employeeRepository) findOne(ctx context.Context, filter bson.M) (employee.Employee, error) {
	var doc employeeDocument
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, database.Unavailable(fmt.Errorf("failed to find employee: %w", err))
	}
	return doc.toEntity(), nil
}

// ListByBranchID implements employee.EmployeeRepository.
func (r *employeeRepository) ListByBranchID(ctx context.Context, branchID string) ([]employee.Employee, error) {
	opts := options.Find().SetSort(bson.D{{Key: "email", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"branch_id": branchID}, opts)
	if err != nil {
		return nil, database.Unavailable(fmt.Errorf("failed to list employees: %w", err))
	}
	defer cursor.Close(ctx)

	var docs []employeeDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, database.Unavailable(fmt.Errorf("failed to decode employees: %w", err))
	}

	employees := make([]employee.Employee, 0, len(docs))
	for _, d := range docs {
		employees = append(employees, d.toEntity())
	}
	return employees, nil
}
