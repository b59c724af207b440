package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/timecalc"
)

type dashboardRepositoryImpl struct {
	db *database.DB
}

func NewDashboardRepository(db *database.DB) dashboard.DashboardRepository {
	return &dashboardRepositoryImpl{db: db}
}

// CountActiveEmployees returns the number of active employees
func (r *dashboardRepositoryImpl) CountActiveEmployees(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM employees WHERE is_active = TRUE`).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count active employees: %w", err)
	}
	return total, nil
}

// GetStatusCountsByDay counts one day's records of active employees in single query
func (r *dashboardRepositoryImpl) GetStatusCountsByDay(ctx context.Context, date timecalc.Date) (*dashboard.StatusCounts, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COALESCE(SUM(CASE WHEN a.status = 'PRESENT' THEN 1 ELSE 0 END), 0) as present,
			COALESCE(SUM(CASE WHEN a.status = 'EXCUSED' THEN 1 ELSE 0 END), 0) as excused,
			COALESCE(SUM(CASE WHEN a.status = 'SICK' THEN 1 ELSE 0 END), 0) as sick,
			COALESCE(SUM(CASE WHEN a.status = 'ABSENT' THEN 1 ELSE 0 END), 0) as absent,
			COALESCE(SUM(CASE WHEN a.late_minutes > 0 THEN 1 ELSE 0 END), 0) as late
		FROM attendances a
		JOIN employees e ON e.id = a.employee_id
		WHERE a.date = $1::date AND e.is_active = TRUE
	`

	var stats dashboard.StatusCounts
	err := q.QueryRow(ctx, query, date.String()).Scan(
		&stats.Present, &stats.Excused, &stats.Sick, &stats.Absent, &stats.Late,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get attendance stats for %s: %w", date, err)
	}
	return &stats, nil
}

// GetStatusCountsByRange counts records and sums minutes over a range in single query
func (r *dashboardRepositoryImpl) GetStatusCountsByRange(ctx context.Context, from, to timecalc.Date) (*dashboard.StatusCounts, *dashboard.MinuteTotals, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COALESCE(SUM(CASE WHEN status = 'PRESENT' THEN 1 ELSE 0 END), 0) as present,
			COALESCE(SUM(CASE WHEN status = 'EXCUSED' THEN 1 ELSE 0 END), 0) as excused,
			COALESCE(SUM(CASE WHEN status = 'SICK' THEN 1 ELSE 0 END), 0) as sick,
			COALESCE(SUM(CASE WHEN status = 'ABSENT' THEN 1 ELSE 0 END), 0) as absent,
			COALESCE(SUM(CASE WHEN late_minutes > 0 THEN 1 ELSE 0 END), 0) as late,
			COALESCE(SUM(late_minutes), 0) as late_minutes,
			COALESCE(SUM(overtime_minutes), 0) as overtime_minutes
		FROM attendances
		WHERE date BETWEEN $1::date AND $2::date
	`

	var stats dashboard.StatusCounts
	var minutes dashboard.MinuteTotals
	err := q.QueryRow(ctx, query, from.String(), to.String()).Scan(
		&stats.Present, &stats.Excused, &stats.Sick, &stats.Absent, &stats.Late,
		&minutes.Late, &minutes.Overtime,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get attendance stats from %s to %s: %w", from, to, err)
	}
	return &stats, &minutes, nil
}

// GetLatestRecords returns the most recently created records in the range
func (r *dashboardRepositoryImpl) GetLatestRecords(ctx context.Context, from, to timecalc.Date, limit int) ([]dashboard.RecentRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT e.name, a.date, a.status, a.check_in
		FROM attendances a
		JOIN employees e ON e.id = a.employee_id
		WHERE a.date BETWEEN $1::date AND $2::date
		ORDER BY a.created_at DESC
		LIMIT $3
	`

	rows, err := q.Query(ctx, query, from.String(), to.String(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest records: %w", err)
	}
	defer rows.Close()

	records := []dashboard.RecentRecord{}
	for rows.Next() {
		var rec dashboard.RecentRecord
		var date time.Time
		if err := rows.Scan(&rec.EmployeeName, &date, &rec.Status, &rec.CheckIn); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		rec.Date = timecalc.DateOf(date)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
