package dashboard

import (
	"context"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/timecalc"
)

// StatusCounts combines per-status record counts
type StatusCounts struct {
	Present int64
	Excused int64
	Sick    int64
	Absent  int64
	Late    int64
}

// MinuteTotals sums lateness and overtime over a range
type MinuteTotals struct {
	Late     int64
	Overtime int64
}

// RecentRecord is one row of the latest-records list
type RecentRecord struct {
	EmployeeName string
	Date         timecalc.Date
	Status       string
	CheckIn      *time.Time
}

// DashboardRepository defines the interface for dashboard data access
type DashboardRepository interface {
	// CountActiveEmployees returns the number of active employees
	CountActiveEmployees(ctx context.Context) (int64, error)

	// GetStatusCountsByDay counts a day's records of active employees, in a single query
	GetStatusCountsByDay(ctx context.Context, date timecalc.Date) (*StatusCounts, error)

	// GetStatusCountsByRange counts records between from and to inclusive, in a single query
	GetStatusCountsByRange(ctx context.Context, from, to timecalc.Date) (*StatusCounts, *MinuteTotals, error)

	// GetLatestRecords returns the most recently created records in the range
	GetLatestRecords(ctx context.Context, from, to timecalc.Date, limit int) ([]RecentRecord, error)
}
