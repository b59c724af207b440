package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/timecalc"
)

// Status is the outcome recorded for an employee on one day.
type Status string

const (
	StatusPresent Status = "PRESENT"
	StatusExcused Status = "EXCUSED"
	StatusSick    Status = "SICK"
	StatusAbsent  Status = "ABSENT"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusExcused, StatusSick, StatusAbsent:
		return true
	default:
		return false
	}
}

// RequiresReason reports whether a free-text reason must accompany the status.
func (s Status) RequiresReason() bool {
	return s == StatusExcused || s == StatusSick
}

type Attendance struct {
	ID              string
	EmployeeID      string
	Date            timecalc.Date
	CheckIn         *time.Time
	CheckOut        *time.Time
	Status          Status
	Reason          *string
	LateMinutes     int
	OvertimeMinutes int
	WorkedMinutes   int
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Join
	EmployeeNumber *string
	EmployeeName   *string
	Department     *string
}
