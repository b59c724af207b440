package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/timecalc"
	"github.com/jackc/pgx/v5"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

const attendanceColumns = `
	a.id, a.employee_id, a.date, a.check_in, a.check_out, a.status, a.reason,
	a.late_minutes, a.overtime_minutes, a.worked_minutes, a.created_at, a.updated_at,
	e.employee_number, e.name, e.department`

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var a attendance.Attendance
	var date time.Time
	err := row.Scan(
		&a.ID, &a.EmployeeID, &date, &a.CheckIn, &a.CheckOut, &a.Status, &a.Reason,
		&a.LateMinutes, &a.OvertimeMinutes, &a.WorkedMinutes, &a.CreatedAt, &a.UpdatedAt,
		&a.EmployeeNumber, &a.EmployeeName, &a.Department,
	)
	if err != nil {
		return attendance.Attendance{}, err
	}
	a.Date = timecalc.DateOf(date)
	return a, nil
}

func collectAttendances(rows pgx.Rows) ([]attendance.Attendance, error) {
	defer rows.Close()

	attendances := []attendance.Attendance{}
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		attendances = append(attendances, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return attendances, nil
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendances (
			employee_id, date, check_in, check_out, status, reason,
			late_minutes, overtime_minutes, worked_minutes
		) VALUES ($1, $2::date, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	var id string
	err := q.QueryRow(ctx, query,
		a.EmployeeID, a.Date.String(), a.CheckIn, a.CheckOut, a.Status, a.Reason,
		a.LateMinutes, a.OvertimeMinutes, a.WorkedMinutes,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err, constraintAttendanceDay) {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return r.GetByID(ctx, id)
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendances a
		JOIN employees e ON e.id = a.employee_id
		WHERE a.id = $1
	`

	a, err := scanAttendance(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance with id %s: %w", id, err)
	}
	return a, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByEmployeeAndDate(ctx context.Context, employeeID string, date timecalc.Date) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendances a
		JOIN employees e ON e.id = a.employee_id
		WHERE a.employee_id = $1 AND a.date = $2::date
	`

	a, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date.String()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance for employee %s on %s: %w", employeeID, date, err)
	}
	return a, nil
}

// Update implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Update(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendances
		SET check_in = $1, check_out = $2, status = $3, reason = $4,
			late_minutes = $5, overtime_minutes = $6, worked_minutes = $7, updated_at = NOW()
		WHERE id = $8
	`

	tag, err := q.Exec(ctx, query,
		a.CheckIn, a.CheckOut, a.Status, a.Reason,
		a.LateMinutes, a.OvertimeMinutes, a.WorkedMinutes, a.ID,
	)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to update attendance with id %s: %w", a.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}

	return r.GetByID(ctx, a.ID)
}

// CompleteCheckOut implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) CompleteCheckOut(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendances
		SET check_out = $1, overtime_minutes = $2, worked_minutes = $3, updated_at = NOW()
		WHERE id = $4 AND check_out IS NULL
	`

	tag, err := q.Exec(ctx, query, a.CheckOut, a.OvertimeMinutes, a.WorkedMinutes, a.ID)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to record check-out for attendance %s: %w", a.ID, err)
	}
	if tag.RowsAffected() == 0 {
		// Either another check-out won or the record is gone
		if _, err := r.GetByID(ctx, a.ID); err != nil {
			return attendance.Attendance{}, err
		}
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedOut
	}

	return r.GetByID(ctx, a.ID)
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, r.db)

	// Build WHERE conditions
	conditions := []string{"TRUE"}
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf("a.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.From != nil {
		conditions = append(conditions, fmt.Sprintf("a.date >= $%d::date", argIdx))
		args = append(args, filter.From.String())
		argIdx++
	}
	if filter.To != nil {
		conditions = append(conditions, fmt.Sprintf("a.date <= $%d::date", argIdx))
		args = append(args, filter.To.String())
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("a.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	// Count query
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM attendances a WHERE %s", whereClause)
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	// Main query with pagination, newest first
	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf(`
		SELECT %s
		FROM attendances a
		JOIN employees e ON e.id = a.employee_id
		WHERE %s
		ORDER BY a.date DESC, e.name ASC
		LIMIT $%d OFFSET $%d
	`, attendanceColumns, whereClause, argIdx, argIdx+1)

	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendances: %w", err)
	}

	attendances, err := collectAttendances(rows)
	if err != nil {
		return nil, 0, err
	}
	return attendances, total, nil
}

// ListByDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListByDate(ctx context.Context, date timecalc.Date) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendances a
		JOIN employees e ON e.id = a.employee_id
		WHERE a.date = $1::date
		ORDER BY a.created_at DESC
	`

	rows, err := q.Query(ctx, query, date.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances on %s: %w", date, err)
	}
	return collectAttendances(rows)
}

// ListByRange implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListByRange(ctx context.Context, from, to timecalc.Date, employeeIDs []string) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendances a
		JOIN employees e ON e.id = a.employee_id
		WHERE a.date BETWEEN $1::date AND $2::date
			AND (cardinality($3::uuid[]) = 0 OR a.employee_id = ANY($3::uuid[]))
	`

	if employeeIDs == nil {
		employeeIDs = []string{}
	}

	rows, err := q.Query(ctx, query, from.String(), to.String(), employeeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances from %s to %s: %w", from, to, err)
	}
	return collectAttendances(rows)
}
