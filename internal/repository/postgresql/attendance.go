package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const attendanceColumns = `id, employee_id, date, check_in, check_in_photo, check_out, check_out_photo,
		total_hours, status, remarks, created_at, updated_at`

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var (
		a      attendance.Attendance
		status string
	)
	err := row.Scan(
		&a.ID,
		&a.EmployeeID,
		&a.Date,
		&a.CheckIn,
		&a.CheckInPhoto,
		&a.CheckOut,
		&a.CheckOutPhoto,
		&a.TotalHours,
		&status,
		&a.Remarks,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return attendance.Attendance{}, err
	}
	a.Status = attendance.Status(status)
	a.Date = time.Date(a.Date.Year(), a.Date.Month(), a.Date.Day(), 0, 0, 0, 0, time.UTC)
	if a.CheckIn != nil {
		t := a.CheckIn.UTC()
		a.CheckIn = &t
	}
	if a.CheckOut != nil {
		t := a.CheckOut.UTC()
		a.CheckOut = &t
	}
	return a, nil
}

// OpenSession implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) OpenSession(ctx context.Context, record attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	// The conflict branch only fires for a row that was created without a
	// check-in (e.g. an Absent marker); any other conflict returns no row.
	query := fmt.Sprintf(`
		INSERT INTO attendances (id, employee_id, date, check_in, check_in_photo, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (employee_id, date) DO UPDATE
		SET check_in = EXCLUDED.check_in,
			check_in_photo = EXCLUDED.check_in_photo,
			updated_at = NOW()
		WHERE attendances.check_in IS NULL
		RETURNING %s
	`, attendanceColumns)

	status := record.Status
	if status == "" {
		status = attendance.StatusOnTime
	}

	a, err := scanAttendance(q.QueryRow(ctx, query,
		record.ID,
		record.EmployeeID,
		record.Date,
		record.CheckIn,
		record.CheckInPhoto,
		string(status),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Attendance{}, database.Unavailable(fmt.Errorf("failed to open attendance session: %w", err))
	}

	return a, nil
}

// CloseSession implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) CloseSession(ctx context.Context, employeeID string, date time.Time, checkOut time.Time, photoURL string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		UPDATE attendances
		SET check_out = $3,
			check_out_photo = $4,
			total_hours = EXTRACT(EPOCH FROM ($3::timestamptz - check_in)) / 3600.0,
			updated_at = NOW()
		WHERE employee_id = $1
			AND date = $2
			AND check_in IS NOT NULL
			AND check_out IS NULL
			AND check_in < $3::timestamptz
		RETURNING %s
	`, attendanceColumns)

	a, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date, checkOut, photoURL))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrNoOpenSession
		}
		return attendance.Attendance{}, database.Unavailable(fmt.Errorf("failed to close attendance session: %w", err))
	}

	return a, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s
		FROM attendances
		WHERE employee_id = $1 AND date = $2
	`, attendanceColumns)

	a, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, database.Unavailable(fmt.Errorf("failed to get attendance by employee and date: %w", err))
	}

	return &a, nil
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`SELECT %s FROM attendances WHERE id = $1`, attendanceColumns)

	a, err := scanAttendance(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, database.Unavailable(fmt.Errorf("failed to get attendance by id: %w", err))
	}

	return a, nil
}

// ListByEmployee implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string) ([]attendance.Attendance, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM attendances
		WHERE employee_id = $1
		ORDER BY date DESC
	`, attendanceColumns)

	return r.list(ctx, query, employeeID)
}

// ListByEmployeeIDs implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListByEmployeeIDs(ctx context.Context, employeeIDs []string) ([]attendance.Attendance, error) {
	if len(employeeIDs) == 0 {
		return []attendance.Attendance{}, nil
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM attendances
		WHERE employee_id = ANY($1)
		ORDER BY date DESC, employee_id ASC
	`, attendanceColumns)

	return r.list(ctx, query, employeeIDs)
}

func (r *attendanceRepositoryImpl) list(ctx context.Context, query string, args ...interface{}) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, database.Unavailable(fmt.Errorf("failed to list attendances: %w", err))
	}
	defer rows.Close()

	records := []attendance.Attendance{}
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, a)
	}

	if err = rows.Err(); err != nil {
		return nil, database.Unavailable(fmt.Errorf("rows iteration error: %w", err))
	}

	return records, nil
}

// UpdateStatus implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) UpdateStatus(ctx context.Context, id string, status attendance.Status, remarks *string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		UPDATE attendances
		SET status = $2, remarks = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING %s
	`, attendanceColumns)

	a, err := scanAttendance(q.QueryRow(ctx, query, id, string(status), remarks))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, database.Unavailable(fmt.Errorf("failed to update attendance status: %w", err))
	}

	return a, nil
}
