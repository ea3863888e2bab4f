package attendance

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type CheckInRequest struct {
	PhotoURL string `json:"photo_url" validate:"required,url,max=2048"`
}

func (r *CheckInRequest) Validate() error {
	r.PhotoURL = strings.TrimSpace(r.PhotoURL)
	if errs := validator.Struct(r); len(errs) > 0 {
		return errs
	}
	return nil
}

type CheckOutRequest struct {
	PhotoURL string `json:"photo_url" validate:"required,url,max=2048"`
}

func (r *CheckOutRequest) Validate() error {
	r.PhotoURL = strings.TrimSpace(r.PhotoURL)
	if errs := validator.Struct(r); len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateStatusRequest struct {
	ID      string  `json:"-"`
	Status  string  `json:"status" validate:"required,oneof=On-time Late Absent Half-day"`
	Remarks *string `json:"remarks,omitempty" validate:"omitempty,max=500"`
}

func (r *UpdateStatusRequest) Validate() error {
	errs := validator.Struct(r)
	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UploadPhotoResponse struct {
	URL string `json:"url"`
}

type AttendanceResponse struct {
	ID            string   `json:"id"`
	EmployeeID    string   `json:"employee_id"`
	Date          string   `json:"date"`
	CheckIn       *string  `json:"check_in,omitempty"`
	CheckInPhoto  *string  `json:"check_in_photo,omitempty"`
	CheckOut      *string  `json:"check_out,omitempty"`
	CheckOutPhoto *string  `json:"check_out_photo,omitempty"`
	TotalHours    *float64 `json:"total_hours,omitempty"`
	Status        string   `json:"status"`
	Remarks       *string  `json:"remarks,omitempty"`
}

type EmployeeAttendanceResponse struct {
	Employee employee.EmployeeResponse `json:"employee"`
	Records  []AttendanceResponse      `json:"records"`
}

// TimestampLayout keeps the millisecond precision total_hours is computed at.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.UTC().Format(TimestampLayout)
	return &format
}

func NewAttendanceResponse(a Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:            a.ID,
		EmployeeID:    a.EmployeeID,
		Date:          a.Date.Format("2006-01-02"),
		CheckIn:       timePtrToString(a.CheckIn),
		CheckInPhoto:  a.CheckInPhoto,
		CheckOut:      timePtrToString(a.CheckOut),
		CheckOutPhoto: a.CheckOutPhoto,
		TotalHours:    a.TotalHours,
		Status:        string(a.Status),
		Remarks:       a.Remarks,
	}
}

func NewAttendanceResponses(records []Attendance) []AttendanceResponse {
	out := make([]AttendanceResponse, 0, len(records))
	for _, r := range records {
		out = append(out, NewAttendanceResponse(r))
	}
	return out
}
