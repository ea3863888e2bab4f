package attendance

import (
	"context"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// CheckIn opens today's session for the employee behind session.
	CheckIn(ctx context.Context, session *auth.Session, req CheckInRequest) (AttendanceResponse, error)

	// CheckOut closes today's open session and records total hours.
	CheckOut(ctx context.Context, session *auth.Session, req CheckOutRequest) (AttendanceResponse, error)

	// GetToday returns today's record for the employee, or nil.
	GetToday(ctx context.Context, session *auth.Session) (*AttendanceResponse, error)

	// ListMyAttendance lists the employee's own records, newest first.
	ListMyAttendance(ctx context.Context, session *auth.Session) ([]AttendanceResponse, error)

	// ListEmployeeAttendance lists one employee's records for an admin of the same branch.
	ListEmployeeAttendance(ctx context.Context, session *auth.Session, employeeID string) ([]AttendanceResponse, error)

	// ListBranchAttendance lists records grouped per employee for an admin of the branch.
	ListBranchAttendance(ctx context.Context, session *auth.Session, branchName string) ([]EmployeeAttendanceResponse, error)

	// UpdateStatus lets an admin assign status and remarks to a record in its branch.
	UpdateStatus(ctx context.Context, session *auth.Session, req UpdateStatusRequest) (AttendanceResponse, error)

	// UploadPhoto stores a selfie and returns the URL to pass to CheckIn/CheckOut.
	UploadPhoto(ctx context.Context, session *auth.Session, data []byte, filename string) (UploadPhotoResponse, error)
}
