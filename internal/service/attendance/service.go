package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/branch"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/photo"
	"github.com/google/uuid"
)

type AttendanceServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	branchRepo     branch.BranchRepository
	uploader       photo.Uploader
	defaultLoc     *time.Location
	now            func() time.Time
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	branchRepo branch.BranchRepository,
	uploader photo.Uploader,
	defaultLoc *time.Location,
) attendance.AttendanceService {
	if defaultLoc == nil {
		defaultLoc = time.UTC
	}
	return &AttendanceServiceImpl{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		branchRepo:     branchRepo,
		uploader:       uploader,
		defaultLoc:     defaultLoc,
		now:            time.Now,
	}
}

// clock returns the current instant at the precision every store keeps.
func (s *AttendanceServiceImpl) clock() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

// today is the calendar date of now in the branch timezone.
func (s *AttendanceServiceImpl) today(ctx context.Context, branchID string, now time.Time) (time.Time, error) {
	b, err := s.branchRepo.GetByID(ctx, branchID)
	if err != nil {
		if errors.Is(err, branch.ErrBranchNotFound) {
			return attendance.CalendarDate(now, s.defaultLoc), nil
		}
		return time.Time{}, fmt.Errorf("failed to get branch: %w", err)
	}
	return attendance.CalendarDate(now, b.Location(s.defaultLoc)), nil
}

// CheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, session *auth.Session, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
	if err := session.RequireEmployee(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := s.clock()
	date, err := s.today(ctx, session.BranchID, now)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to generate attendance id: %w", err)
	}

	photoURL := req.PhotoURL
	record, err := s.attendanceRepo.OpenSession(ctx, attendance.Attendance{
		ID:           id.String(),
		EmployeeID:   session.SubjectID,
		Date:         date,
		CheckIn:      &now,
		CheckInPhoto: &photoURL,
		Status:       attendance.StatusOnTime,
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return attendance.NewAttendanceResponse(record), nil
}

// CheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, session *auth.Session, req attendance.CheckOutRequest) (attendance.AttendanceResponse, error) {
	if err := session.RequireEmployee(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := s.clock()
	date, err := s.today(ctx, session.BranchID, now)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	record, err := s.attendanceRepo.CloseSession(ctx, session.SubjectID, date, now, req.PhotoURL)
	if err == nil {
		return attendance.NewAttendanceResponse(record), nil
	}
	if !errors.Is(err, attendance.ErrNoOpenSession) {
		return attendance.AttendanceResponse{}, err
	}

	return attendance.AttendanceResponse{}, s.classifyCheckOutMiss(ctx, session.SubjectID, date)
}

// classifyCheckOutMiss explains why the guarded check-out matched nothing.
func (s *AttendanceServiceImpl) classifyCheckOutMiss(ctx context.Context, employeeID string, date time.Time) error {
	current, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, employeeID, date)
	if err != nil {
		return fmt.Errorf("failed to get attendance: %w", err)
	}

	switch {
	case current == nil || current.CheckIn == nil:
		return attendance.ErrNotCheckedIn
	case current.CheckOut != nil:
		return attendance.ErrAlreadyCheckedOut
	default:
		return attendance.ErrCheckOutBeforeCheckIn
	}
}

// GetToday implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetToday(ctx context.Context, session *auth.Session) (*attendance.AttendanceResponse, error) {
	if err := session.RequireEmployee(); err != nil {
		return nil, err
	}

	date, err := s.today(ctx, session.BranchID, s.clock())
	if err != nil {
		return nil, err
	}

	record, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, session.SubjectID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if record == nil {
		return nil, nil
	}

	resp := attendance.NewAttendanceResponse(*record)
	return &resp, nil
}

// ListMyAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListMyAttendance(ctx context.Context, session *auth.Session) ([]attendance.AttendanceResponse, error) {
	if err := session.RequireEmployee(); err != nil {
		return nil, err
	}

	records, err := s.attendanceRepo.ListByEmployee(ctx, session.SubjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return attendance.NewAttendanceResponses(records), nil
}

// authorizedEmployee loads employeeID and checks it belongs to the admin's branch.
func (s *AttendanceServiceImpl) authorizedEmployee(ctx context.Context, session *auth.Session, employeeID string) (employee.Employee, error) {
	if err := session.RequireBranch(); err != nil {
		return employee.Employee{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return employee.Employee{}, err
	}

	if err := session.AuthorizeBranchID(emp.BranchID); err != nil {
		return employee.Employee{}, err
	}
	return emp, nil
}

// ListEmployeeAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListEmployeeAttendance(ctx context.Context, session *auth.Session, employeeID string) ([]attendance.AttendanceResponse, error) {
	emp, err := s.authorizedEmployee(ctx, session, employeeID)
	if err != nil {
		return nil, err
	}

	records, err := s.attendanceRepo.ListByEmployee(ctx, emp.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return attendance.NewAttendanceResponses(records), nil
}

// ListBranchAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListBranchAttendance(ctx context.Context, session *auth.Session, branchName string) ([]attendance.EmployeeAttendanceResponse, error) {
	if err := session.AuthorizeBranch(branchName); err != nil {
		return nil, err
	}

	employees, err := s.employeeRepo.ListByBranchID(ctx, session.BranchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	ids := make([]string, 0, len(employees))
	for _, e := range employees {
		ids = append(ids, e.ID)
	}

	records, err := s.attendanceRepo.ListByEmployeeIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}

	byEmployee := make(map[string][]attendance.Attendance, len(employees))
	for _, r := range records {
		byEmployee[r.EmployeeID] = append(byEmployee[r.EmployeeID], r)
	}

	result := make([]attendance.EmployeeAttendanceResponse, 0, len(employees))
	for _, e := range employees {
		result = append(result, attendance.EmployeeAttendanceResponse{
			Employee: employee.NewEmployeeResponse(e),
			Records:  attendance.NewAttendanceResponses(byEmployee[e.ID]),
		})
	}
	return result, nil
}

// UpdateStatus implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) UpdateStatus(ctx context.Context, session *auth.Session, req attendance.UpdateStatusRequest) (attendance.AttendanceResponse, error) {
	if err := session.RequireBranch(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	record, err := s.attendanceRepo.GetByID(ctx, req.ID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	// Records of other branches are reported as missing.
	if _, err := s.authorizedEmployee(ctx, session, record.EmployeeID); err != nil {
		if errors.Is(err, auth.ErrForbidden) || errors.Is(err, employee.ErrEmployeeNotFound) {
			return attendance.AttendanceResponse{}, attendance.ErrAttendanceNotFound
		}
		return attendance.AttendanceResponse{}, err
	}

	updated, err := s.attendanceRepo.UpdateStatus(ctx, record.ID, attendance.Status(req.Status), req.Remarks)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return attendance.NewAttendanceResponse(updated), nil
}

// UploadPhoto implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) UploadPhoto(ctx context.Context, session *auth.Session, data []byte, filename string) (attendance.UploadPhotoResponse, error) {
	if err := session.RequireEmployee(); err != nil {
		return attendance.UploadPhotoResponse{}, err
	}

	url, err := s.uploader.Upload(ctx, session.SubjectID, data, filename)
	if err != nil {
		return attendance.UploadPhotoResponse{}, err
	}
	return attendance.UploadPhotoResponse{URL: url}, nil
}
