package employee

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
	bcryptCost   int
}

func NewEmployeeService(employeeRepo employee.EmployeeRepository) employee.EmployeeService {
	return &EmployeeServiceImpl{
		employeeRepo: employeeRepo,
		bcryptCost:   bcrypt.DefaultCost,
	}
}

// Create implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Create(ctx context.Context, session *auth.Session, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := session.RequireBranch(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	// Admins can only enrol employees into their own branch.
	if req.Branch != "" {
		if err := session.AuthorizeBranch(req.Branch); err != nil {
			return employee.EmployeeResponse{}, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to generate employee id: %w", err)
	}

	created, err := s.employeeRepo.Create(ctx, employee.Employee{
		ID:           id.String(),
		Email:        req.Email,
		PasswordHash: string(hash),
		BranchID:     session.BranchID,
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	return employee.NewEmployeeResponse(created), nil
}

// ListByBranch implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListByBranch(ctx context.Context, session *auth.Session, branchName string) ([]employee.EmployeeResponse, error) {
	if err := session.AuthorizeBranch(branchName); err != nil {
		return nil, err
	}

	employees, err := s.employeeRepo.ListByBranchID(ctx, session.BranchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		responses = append(responses, employee.NewEmployeeResponse(e))
	}
	return responses, nil
}
