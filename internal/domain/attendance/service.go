package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// CheckIn opens the employee's day
	CheckIn(ctx context.Context, req CheckInRequest) (AttendanceResponse, error)

	// CheckOut closes the employee's day
	CheckOut(ctx context.Context, req CheckOutRequest) (AttendanceResponse, error)

	// GetTodayStatus reports where an employee is in today's state machine
	GetTodayStatus(ctx context.Context, employeeID string) (TodayStatusResponse, error)

	// GetTodayAll lists every active employee with today's record (admin)
	GetTodayAll(ctx context.Context) (TodayAttendanceResponse, error)

	// ListHistory retrieves records with filters
	ListHistory(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)

	// UpdateAttendance corrects a record and recomputes its minutes (admin)
	UpdateAttendance(ctx context.Context, req UpdateAttendanceRequest) (AttendanceResponse, error)
}
