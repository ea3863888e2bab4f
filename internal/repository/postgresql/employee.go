package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

// Create implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Create(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		INSERT INTO employees (id, email, password_hash, branch_id, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, email, password_hash, branch_id, created_at
	`

	var result employee.Employee
	err := q.QueryRow(ctx, query, emp.ID, emp.Email, emp.PasswordHash, emp.BranchID).Scan(
		&result.ID, &result.Email, &result.PasswordHash, &result.BranchID, &result.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "employees_email_key") {
			return employee.Employee{}, employee.ErrEmailExists
		}
		return employee.Employee{}, database.Unavailable(fmt.Errorf("failed to create employee: %w", err))
	}

	return result, nil
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	return e.getOne(ctx, "id", id)
}

// GetByEmail implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
	return e.getOne(ctx, "email", email)
}

func (e *employeeRepositoryImpl) getOne(ctx context.Context, column string, value string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := fmt.Sprintf(`
		SELECT id, email, password_hash, branch_id, created_at
		FROM employees
		WHERE %s = $1
	`, column)

	var result employee.Employee
	err := q.QueryRow(ctx, query, value).Scan(
		&result.ID, &result.Email, &result.PasswordHash, &result.BranchID, &result.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, database.Unavailable(fmt.Errorf("failed to get employee by %s: %w", column, err))
	}

	return result, nil
}

// ListByBranchID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ListByBranchID(ctx context.Context, branchID string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT id, email, password_hash, branch_id, created_at
		FROM employees
		WHERE branch_id = $1
		ORDER BY email ASC
	`

	rows, err := q.Query(ctx, query, branchID)
	if err != nil {
		return nil, database.Unavailable(fmt.Errorf("failed to list employees: %w", err))
	}
	defer rows.Close()

	employees := []employee.Employee{}
	for rows.Next() {
		var emp employee.Employee
		if err := rows.Scan(&emp.ID, &emp.Email, &emp.PasswordHash, &emp.BranchID, &emp.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}

	if err = rows.Err(); err != nil {
		return nil, database.Unavailable(fmt.Errorf("rows iteration error: %w", err))
	}

	return employees, nil
}
