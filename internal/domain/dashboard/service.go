package dashboard

import "context"

// DashboardService defines the interface for dashboard operations
type DashboardService interface {
	// GetDashboard returns today's and this month's attendance figures
	GetDashboard(ctx context.Context) (*DashboardResponse, error)
}
