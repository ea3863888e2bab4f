// Package memory keeps branches, employees and attendance records in process
// memory. It backs STORE_DRIVER=memory and the service tests.
package memory

import (
	"sync"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/branch"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
)

type attendanceKey struct {
	employeeID string
	date       string
}

// Store is shared by the repositories so that one mutex guards every
// conditional write.
type Store struct {
	mu sync.RWMutex

	branches    map[string]branch.Branch
	employees   map[string]employee.Employee
	attendances map[string]attendance.Attendance
	byDay       map[attendanceKey]string
}

func NewStore() *Store {
	return &Store{
		branches:    make(map[string]branch.Branch),
		employees:   make(map[string]employee.Employee),
		attendances: make(map[string]attendance.Attendance),
		byDay:       make(map[attendanceKey]string),
	}
}

func (s *Store) Branches() branch.BranchRepository {
	return &branchRepository{store: s}
}

func (s *Store) Employees() employee.EmployeeRepository {
	return &employeeRepository{store: s}
}

func (s *Store) Attendances() attendance.AttendanceRepository {
	return &attendanceRepository{store: s}
}
