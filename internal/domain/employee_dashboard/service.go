package employee_dashboard

import "context"

// EmployeeDashboardService defines the interface for employee dashboard operations
type EmployeeDashboardService interface {
	// GetDashboard returns the month's totals and recorded days of one employee.
	// month format: "YYYY-MM" (default: current month)
	GetDashboard(ctx context.Context, employeeID, month string) (*EmployeeDashboardResponse, error)
}
