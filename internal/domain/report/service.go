package report

import (
	"context"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
)

const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportFile is a generated spreadsheet ready to be sent as a download.
type ExportFile struct {
	Filename string
	Data     []byte
}

// ReportService renders attendance records as spreadsheets for branch admins.
type ReportService interface {
	// ExportEmployeeAttendance renders one employee's records as <email>_attendance.xlsx.
	ExportEmployeeAttendance(ctx context.Context, session *auth.Session, employeeID string) (ExportFile, error)

	// ExportBranchAttendance renders every employee of the branch, one sheet each.
	ExportBranchAttendance(ctx context.Context, session *auth.Session, branchName string) (ExportFile, error)
}
