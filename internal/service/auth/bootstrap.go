package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/branch"
)

// EnsureBranch registers req unless a branch with that name already exists.
// It reports whether a new branch was created.
func EnsureBranch(ctx context.Context, authService auth.AuthService, req branch.RegisterBranchRequest) (bool, error) {
	created, err := authService.RegisterBranch(ctx, req)
	if errors.Is(err, branch.ErrBranchNameExists) {
		slog.Info("bootstrap branch already exists", "branch", req.Name)
		return false, nil
	}
	if err != nil {
		return false, err
	}

	slog.Info("bootstrap branch created", "branch", created.Name, "id", created.ID, "timezone", created.Timezone)
	return true, nil
}
