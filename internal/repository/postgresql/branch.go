package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/branch"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type branchRepositoryImpl struct {
	db *database.DB
}

func NewBranchRepository(db *database.DB) branch.BranchRepository {
	return &branchRepositoryImpl{db: db}
}

// Create implements branch.BranchRepository.
func (r *branchRepositoryImpl) Create(ctx context.Context, b branch.Branch) (branch.Branch, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO branches (id, name, password_hash, timezone, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, name, password_hash, timezone, created_at
	`

	var result branch.Branch
	err := q.QueryRow(ctx, query, b.ID, b.Name, b.PasswordHash, b.Timezone).Scan(
		&result.ID,
		&result.Name,
		&result.PasswordHash,
		&result.Timezone,
		&result.CreatedAt,
	)

	if err != nil {
		if isUniqueViolation(err, "branches_name_key") {
			return branch.Branch{}, branch.ErrBranchNameExists
		}
		return branch.Branch{}, database.Unavailable(fmt.Errorf("failed to create branch: %w", err))
	}

	return result, nil
}

// GetByID implements branch.BranchRepository.
func (r *branchRepositoryImpl) GetByID(ctx context.Context, id string) (branch.Branch, error) {
	return r.getOne(ctx, "id", id)
}

// GetByName implements branch.BranchRepository.
func (r *branchRepositoryImpl) GetByName(ctx context.Context, name string) (branch.Branch, error) {
	return r.getOne(ctx, "name", name)
}

func (r *branchRepositoryImpl) getOne(ctx context.Context, column string, value string) (branch.Branch, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT id, name, password_hash, timezone, created_at
		FROM branches
		WHERE %s = $1
	`, column)

	var result branch.Branch
	err := q.QueryRow(ctx, query, value).Scan(
		&result.ID,
		&result.Name,
		&result.PasswordHash,
		&result.Timezone,
		&result.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return branch.Branch{}, branch.ErrBranchNotFound
		}
		return branch.Branch{}, database.Unavailable(fmt.Errorf("failed to get branch by %s: %w", column, err))
	}

	return result, nil
}
