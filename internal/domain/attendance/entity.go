package attendance

import (
	"time"
)

type Status string

const (
	StatusOnTime  Status = "On-time"
	StatusLate    Status = "Late"
	StatusAbsent  Status = "Absent"
	StatusHalfDay Status = "Half-day"
)

func (s Status) Valid() bool {
	switch s {
	case StatusOnTime, StatusLate, StatusAbsent, StatusHalfDay:
		return true
	}
	return false
}

// Attendance is one employee's record for one calendar date.
type Attendance struct {
	ID            string
	EmployeeID    string
	Date          time.Time
	CheckIn       *time.Time
	CheckInPhoto  *string
	CheckOut      *time.Time
	CheckOutPhoto *string
	TotalHours    *float64
	Status        Status
	Remarks       *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsOpen reports whether the employee is currently checked in.
func (a Attendance) IsOpen() bool {
	return a.CheckIn != nil && a.CheckOut == nil
}

// IsCompleted reports whether both check-in and check-out are recorded.
func (a Attendance) IsCompleted() bool {
	return a.CheckIn != nil && a.CheckOut != nil
}

// HoursBetween is the elapsed time between two instants in fractional hours.
func HoursBetween(checkIn, checkOut time.Time) float64 {
	return float64(checkOut.Sub(checkIn).Milliseconds()) / float64(time.Hour.Milliseconds())
}

// CalendarDate truncates t to its calendar date in loc and returns that date
// as midnight UTC, the form stored by every repository.
func CalendarDate(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
