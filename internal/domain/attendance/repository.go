package attendance

import (
	"context"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/timecalc"
)

// AttendanceRepository defines data access methods for attendance records.
type AttendanceRepository interface {
	// Create inserts the day's record. A second record for the same employee
	// and date fails with ErrAlreadyCheckedIn through the (employee_id, date)
	// unique constraint.
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	GetByID(ctx context.Context, id string) (Attendance, error)

	// GetByEmployeeAndDate returns ErrAttendanceNotFound when no record exists
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date timecalc.Date) (Attendance, error)

	// Update persists times, status, reason and minute counters
	Update(ctx context.Context, attendance Attendance) (Attendance, error)

	// CompleteCheckOut persists a check-out only while the stored record has
	// none, so concurrent check-outs cannot overwrite each other. The loser
	// gets ErrAlreadyCheckedOut.
	CompleteCheckOut(ctx context.Context, attendance Attendance) (Attendance, error)

	// List retrieves records with filters and pagination, newest first
	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, int64, error)

	// ListByDate returns every record of one day
	ListByDate(ctx context.Context, date timecalc.Date) ([]Attendance, error)

	// ListByRange is the single bulk fetch behind monthly reports. An empty
	// employeeIDs slice means all employees.
	ListByRange(ctx context.Context, from, to timecalc.Date, employeeIDs []string) ([]Attendance, error)
}
