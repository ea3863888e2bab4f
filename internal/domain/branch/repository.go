package branch

import "context"

type BranchRepository interface {
	// Create stores a new branch. Returns ErrBranchNameExists when the name is taken.
	Create(ctx context.Context, branch Branch) (Branch, error)

	// GetByID returns ErrBranchNotFound when no branch matches.
	GetByID(ctx context.Context, id string) (Branch, error)

	// GetByName returns ErrBranchNotFound when no branch matches.
	GetByName(ctx context.Context, name string) (Branch, error)
}
