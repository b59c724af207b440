package employee_dashboard

import "github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"

// EmployeeDashboardResponse is an employee's own view of one month
type EmployeeDashboardResponse struct {
	Month   string             `json:"month"`  // Format: "YYYY-MM"
	Period  string             `json:"period"` // Format: "October 2026"
	Summary report.EmployeeRow `json:"summary"`
	Days    []DayItem          `json:"days"`
}

// DayItem is one recorded day of the month
type DayItem struct {
	Date          string  `json:"date"`    // Format: "YYYY-MM-DD"
	Weekday       string  `json:"weekday"` // Format: "Mon"
	Status        string  `json:"status"`
	CheckIn       string  `json:"check_in"`  // Format: "15:04" or "-"
	CheckOut      string  `json:"check_out"` // Format: "15:04" or "-"
	LateMinutes   int     `json:"late_minutes"`
	WorkedMinutes int     `json:"worked_minutes"`
	WorkHours     string  `json:"work_hours"` // Format: "9h 45m"
	Reason        *string `json:"reason,omitempty"`
}
