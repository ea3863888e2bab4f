package employee

import "context"

type EmployeeRepository interface {
	// Create stores a new employee. Returns ErrEmailExists when the email is taken.
	Create(ctx context.Context, employee Employee) (Employee, error)

	// GetByID returns ErrEmployeeNotFound when no employee matches.
	GetByID(ctx context.Context, id string) (Employee, error)

	// GetByEmail returns ErrEmployeeNotFound when no employee matches.
	GetByEmail(ctx context.Context, email string) (Employee, error)

	// ListByBranchID returns the employees of a branch ordered by email.
	ListByBranchID(ctx context.Context, branchID string) ([]Employee, error)
}
