package report

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/branch"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/xuri/excelize/v2"
)

var headers = []string{"Date", "Check In", "Check Out", "Total Hours", "Status", "Remarks"}

// Excel rejects these in sheet names and caps names at 31 characters.
var sheetNameReplacer = regexp.MustCompile(`[:\\/?*\[\]]`)

const maxSheetName = 31

type ReportServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	branchRepo     branch.BranchRepository
	defaultLoc     *time.Location
}

func NewReportService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	branchRepo branch.BranchRepository,
	defaultLoc *time.Location,
) report.ReportService {
	if defaultLoc == nil {
		defaultLoc = time.UTC
	}
	return &ReportServiceImpl{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		branchRepo:     branchRepo,
		defaultLoc:     defaultLoc,
	}
}

func (s *ReportServiceImpl) location(ctx context.Context, branchID string) (*time.Location, error) {
	b, err := s.branchRepo.GetByID(ctx, branchID)
	if err != nil {
		if errors.Is(err, branch.ErrBranchNotFound) {
			return s.defaultLoc, nil
		}
		return nil, fmt.Errorf("failed to get branch: %w", err)
	}
	return b.Location(s.defaultLoc), nil
}

// ExportEmployeeAttendance implements report.ReportService.
func (s *ReportServiceImpl) ExportEmployeeAttendance(ctx context.Context, session *auth.Session, employeeID string) (report.ExportFile, error) {
	if err := session.RequireBranch(); err != nil {
		return report.ExportFile{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return report.ExportFile{}, err
	}
	if err := session.AuthorizeBranchID(emp.BranchID); err != nil {
		return report.ExportFile{}, err
	}

	records, err := s.attendanceRepo.ListByEmployee(ctx, emp.ID)
	if err != nil {
		return report.ExportFile{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	loc, err := s.location(ctx, emp.BranchID)
	if err != nil {
		return report.ExportFile{}, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := writeSheet(f, "Sheet1", "Attendance", records, loc); err != nil {
		return report.ExportFile{}, err
	}

	data, err := f.WriteToBuffer()
	if err != nil {
		return report.ExportFile{}, fmt.Errorf("failed to write workbook: %w", err)
	}

	return report.ExportFile{
		Filename: fmt.Sprintf("%s_attendance.xlsx", emp.Email),
		Data:     data.Bytes(),
	}, nil
}

// ExportBranchAttendance implements report.ReportService.
func (s *ReportServiceImpl) ExportBranchAttendance(ctx context.Context, session *auth.Session, branchName string) (report.ExportFile, error) {
	if err := session.AuthorizeBranch(branchName); err != nil {
		return report.ExportFile{}, err
	}

	employees, err := s.employeeRepo.ListByBranchID(ctx, session.BranchID)
	if err != nil {
		return report.ExportFile{}, fmt.Errorf("failed to list employees: %w", err)
	}

	ids := make([]string, 0, len(employees))
	for _, e := range employees {
		ids = append(ids, e.ID)
	}
	records, err := s.attendanceRepo.ListByEmployeeIDs(ctx, ids)
	if err != nil {
		return report.ExportFile{}, fmt.Errorf("failed to list attendance: %w", err)
	}
	byEmployee := make(map[string][]attendance.Attendance, len(employees))
	for _, r := range records {
		byEmployee[r.EmployeeID] = append(byEmployee[r.EmployeeID], r)
	}

	loc, err := s.location(ctx, session.BranchID)
	if err != nil {
		return report.ExportFile{}, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if len(employees) == 0 {
		if err := writeSheet(f, "Sheet1", "Attendance", nil, loc); err != nil {
			return report.ExportFile{}, err
		}
	}

	used := make(map[string]int)
	for i, e := range employees {
		name := uniqueSheetName(e.Email, used)
		current := ""
		if i == 0 {
			current = "Sheet1"
		}
		if err := writeSheet(f, current, name, byEmployee[e.ID], loc); err != nil {
			return report.ExportFile{}, err
		}
	}

	data, err := f.WriteToBuffer()
	if err != nil {
		return report.ExportFile{}, fmt.Errorf("failed to write workbook: %w", err)
	}

	return report.ExportFile{
		Filename: fmt.Sprintf("%s_attendance.xlsx", session.BranchName),
		Data:     data.Bytes(),
	}, nil
}

// writeSheet renames the existing sheet `rename` to name, or creates name
// when rename is empty, and fills it with one row per record.
func writeSheet(f *excelize.File, rename, name string, records []attendance.Attendance, loc *time.Location) error {
	if rename != "" {
		if err := f.SetSheetName(rename, name); err != nil {
			return fmt.Errorf("failed to rename sheet: %w", err)
		}
	} else if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", name, err)
	}

	if err := f.SetSheetRow(name, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, r := range records {
		row := recordRow(r, loc)
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	return f.SetColWidth(name, "A", "F", 20)
}

func recordRow(r attendance.Attendance, loc *time.Location) []interface{} {
	formatTime := func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.In(loc).Format("15:04:05")
	}

	hours := ""
	if r.TotalHours != nil {
		hours = fmt.Sprintf("%.2f", *r.TotalHours)
	}
	remarks := ""
	if r.Remarks != nil {
		remarks = *r.Remarks
	}

	return []interface{}{
		r.Date.Format("2006-01-02"),
		formatTime(r.CheckIn),
		formatTime(r.CheckOut),
		hours,
		string(r.Status),
		remarks,
	}
}

func uniqueSheetName(email string, used map[string]int) string {
	name := sheetNameReplacer.ReplaceAllString(email, "_")
	if len(name) > maxSheetName {
		name = name[:maxSheetName]
	}

	key := strings.ToLower(name)
	used[key]++
	if n := used[key]; n > 1 {
		suffix := fmt.Sprintf("~%d", n)
		if len(name)+len(suffix) > maxSheetName {
			name = name[:maxSheetName-len(suffix)]
		}
		name += suffix
	}
	return name
}
