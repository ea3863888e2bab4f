package auth

import (
	"context"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/branch"
)

type AuthService interface {
	// RegisterBranch creates a new tenant with its admin credential.
	RegisterBranch(ctx context.Context, req branch.RegisterBranchRequest) (branch.BranchResponse, error)

	// LoginBranch authenticates a branch admin by branch name and password.
	LoginBranch(ctx context.Context, req BranchLoginRequest) (TokenResponse, error)

	// LoginEmployee authenticates an employee by email and password.
	LoginEmployee(ctx context.Context, req EmployeeLoginRequest) (TokenResponse, error)
}
