package memory

import (
	"context"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/branch"
)

type branchRepository struct {
	store *Store
}

func (r *branchRepository) Create(ctx context.Context, b branch.Branch) (branch.Branch, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.branches {
		if existing.Name == b.Name {
			return branch.Branch{}, branch.ErrBranchNameExists
		}
	}

	b.CreatedAt = time.Now().UTC()
	r.store.branches[b.ID] = b
	return b, nil
}

func (r *branchRepository) GetByID(ctx context.Context, id string) (branch.Branch, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	b, ok := r.store.branches[id]
	if !ok {
		return branch.Branch{}, branch.ErrBranchNotFound
	}
	return b, nil
}

func (r *branchRepository) GetByName(ctx context.Context, name string) (branch.Branch, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, b := range r.store.branches {
		if b.Name == name {
			return b, nil
		}
	}
	return branch.Branch{}, branch.ErrBranchNotFound
}
