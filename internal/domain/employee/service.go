package employee

import (
	"context"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
)

type EmployeeService interface {
	// Create adds an employee to the admin's branch.
	Create(ctx context.Context, session *auth.Session, req CreateEmployeeRequest) (EmployeeResponse, error)

	// ListByBranch lists employees of the named branch; admins see only their own branch.
	ListByBranch(ctx context.Context, session *auth.Session, branchName string) ([]EmployeeResponse, error)
}
