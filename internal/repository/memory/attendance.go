package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
)

type attendanceRepository struct {
	store *Store
}

func keyOf(employeeID string, date time.Time) attendanceKey {
	return attendanceKey{employeeID: employeeID, date: date.UTC().Format("2006-01-02")}
}

func (r *attendanceRepository) OpenSession(ctx context.Context, record attendance.Attendance) (attendance.Attendance, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := time.Now().UTC()
	key := keyOf(record.EmployeeID, record.Date)

	if id, ok := r.store.byDay[key]; ok {
		existing := r.store.attendances[id]
		if existing.CheckIn != nil {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
		existing.CheckIn = record.CheckIn
		existing.CheckInPhoto = record.CheckInPhoto
		existing.UpdatedAt = now
		r.store.attendances[id] = existing
		return existing, nil
	}

	if record.Status == "" {
		record.Status = attendance.StatusOnTime
	}
	record.CreatedAt = now
	record.UpdatedAt = now
	r.store.attendances[record.ID] = record
	r.store.byDay[key] = record.ID
	return record, nil
}

func (r *attendanceRepository) CloseSession(ctx context.Context, employeeID string, date time.Time, checkOut time.Time, photoURL string) (attendance.Attendance, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	id, ok := r.store.byDay[keyOf(employeeID, date)]
	if !ok {
		return attendance.Attendance{}, attendance.ErrNoOpenSession
	}

	a := r.store.attendances[id]
	if !a.IsOpen() || !checkOut.After(*a.CheckIn) {
		return attendance.Attendance{}, attendance.ErrNoOpenSession
	}

	hours := attendance.HoursBetween(*a.CheckIn, checkOut)
	a.CheckOut = &checkOut
	a.CheckOutPhoto = &photoURL
	a.TotalHours = &hours
	a.UpdatedAt = time.Now().UTC()
	r.store.attendances[id] = a
	return a, nil
}

func (r *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	id, ok := r.store.byDay[keyOf(employeeID, date)]
	if !ok {
		return nil, nil
	}
	a := r.store.attendances[id]
	return &a, nil
}

func (r *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	a, ok := r.store.attendances[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return a, nil
}

func (r *attendanceRepository) ListByEmployee(ctx context.Context, employeeID string) ([]attendance.Attendance, error) {
	return r.ListByEmployeeIDs(ctx, []string{employeeID})
}

func (r *attendanceRepository) ListByEmployeeIDs(ctx context.Context, employeeIDs []string) ([]attendance.Attendance, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	wanted := make(map[string]struct{}, len(employeeIDs))
	for _, id := range employeeIDs {
		wanted[id] = struct{}{}
	}

	result := []attendance.Attendance{}
	for _, a := range r.store.attendances {
		if _, ok := wanted[a.EmployeeID]; ok {
			result = append(result, a)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.After(result[j].Date)
		}
		return result[i].EmployeeID < result[j].EmployeeID
	})
	return result, nil
}

func (r *attendanceRepository) UpdateStatus(ctx context.Context, id string, status attendance.Status, remarks *string) (attendance.Attendance, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	a, ok := r.store.attendances[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	a.Status = status
	a.Remarks = remarks
	a.UpdatedAt = time.Now().UTC()
	r.store.attendances[id] = a
	return a, nil
}
