package attendance

import (
	"context"
	"time"
)

// AttendanceRepository is the record store. OpenSession and CloseSession must
// each be a single atomic conditional write so concurrent requests for the
// same employee and date cannot both succeed.
type AttendanceRepository interface {
	// OpenSession creates the (employee, date) record or fills check-in on an
	// existing one that has none. Returns ErrAlreadyCheckedIn otherwise.
	OpenSession(ctx context.Context, record Attendance) (Attendance, error)

	// CloseSession sets check-out, its photo and total hours on the record for
	// (employeeID, date) only if it is open and checkOut is after check-in.
	// Returns ErrNoOpenSession when the guard does not match.
	CloseSession(ctx context.Context, employeeID string, date time.Time, checkOut time.Time, photoURL string) (Attendance, error)

	// GetByEmployeeAndDate returns nil when no record exists.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)

	// GetByID returns ErrAttendanceNotFound when no record matches.
	GetByID(ctx context.Context, id string) (Attendance, error)

	// ListByEmployee returns records ordered by date descending.
	ListByEmployee(ctx context.Context, employeeID string) ([]Attendance, error)

	// ListByEmployeeIDs returns records of all given employees ordered by date descending.
	ListByEmployeeIDs(ctx context.Context, employeeIDs []string) ([]Attendance, error)

	// UpdateStatus assigns status and remarks. Returns ErrAttendanceNotFound when no record matches.
	UpdateStatus(ctx context.Context, id string, status Status, remarks *string) (Attendance, error)
}
