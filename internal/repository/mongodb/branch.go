package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/branch"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type branchDocument struct {
	ID           string    `bson:"_id"`
	Name         string    `bson:"name"`
	PasswordHash string    `bson:"password_hash"`
	Timezone     string    `bson:"timezone"`
	CreatedAt    time.Time `bson:"created_at"`
}

func (d branchDocument) toEntity() branch.Branch {
	return branch.Branch{
		ID:           d.ID,
		Name:         d.Name,
		PasswordHash: d.PasswordHash,
		Timezone:     d.Timezone,
		CreatedAt:    d.CreatedAt.UTC(),
	}
}

type branchRepository struct {
	collection *mongo.Collection
}

func NewBranchRepository(db *database.MongoDB) branch.BranchRepository {
	return &branchRepository{collection: db.Collection(BranchCollection)}
}

// Create implements branch.BranchRepository.
func (r *branchRepository) Create(ctx context.Context, b branch.Branch) (branch.Branch, error) {
	doc := branchDocument{
		ID:           b.ID,
		Name:         b.Name,
		PasswordHash: b.PasswordHash,
		Timezone:     b.Timezone,
		CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return branch.Branch{}, branch.ErrBranchNameExists
		}
		return branch.Branch{}, database.Unavailable(fmt.Errorf("failed to create branch: %w", err))
	}

	return doc.toEntity(), nil
}

// GetByID implements branch.BranchRepository.
func (r *branchRepository) GetByID(ctx context.Context, id string) (branch.Branch, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetByName implements branch.BranchRepository.
func (r *branchRepository) GetByName(ctx context.Context, name string) (branch.Branch, error) {
	return r.findOne(ctx, bson.M{"name": name})
}

func (r *branchRepository) findOne(ctx context.Context, filter bson.M) (branch.Branch, error) {
	var doc branchDocument
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return branch.Branch{}, branch.ErrBranchNotFound
		}
		return branch.Branch{}, database.Unavailable(fmt.Errorf("failed to find branch: %w", err))
	}
	return doc.toEntity(), nil
}
