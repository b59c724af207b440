package employee_dashboard

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	empDashboard "github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee_dashboard"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/timecalc"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"golang.org/x/sync/errgroup"
)

type EmployeeDashboardServiceImpl struct {
	reports     report.ReportService
	attendances attendance.AttendanceRepository
	loc         *time.Location
	now         func() time.Time
}

func NewEmployeeDashboardService(reports report.ReportService, attendances attendance.AttendanceRepository, loc *time.Location) empDashboard.EmployeeDashboardService {
	return &EmployeeDashboardServiceImpl{
		reports:     reports,
		attendances: attendances,
		loc:         loc,
		now:         time.Now,
	}
}

// parseMonth parses YYYY-MM format, defaults to current month
func (s *EmployeeDashboardServiceImpl) parseMonth(month string) (int, time.Month, error) {
	if month == "" {
		now := s.now().In(s.loc)
		return now.Year(), now.Month(), nil
	}

	parsed, err := time.Parse("2006-01", month)
	if err != nil {
		var errs validator.ValidationErrors
		errs.Add("month", "month must be in YYYY-MM format")
		return 0, 0, errs
	}
	return parsed.Year(), parsed.Month(), nil
}

// GetDashboard implements empDashboard.EmployeeDashboardService.
func (s *EmployeeDashboardServiceImpl) GetDashboard(ctx context.Context, employeeID, month string) (*empDashboard.EmployeeDashboardResponse, error) {
	if employeeID == "" {
		return nil, user.ErrEmployeeProfileMissing
	}

	year, mon, err := s.parseMonth(month)
	if err != nil {
		return nil, err
	}
	first, last := timecalc.MonthRange(year, mon)

	var (
		monthly report.MonthlyReport
		records []attendance.Attendance
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		monthly, err = s.reports.MonthlyReport(gctx, report.MonthlyReportRequest{
			Month:      int(mon),
			Year:       year,
			EmployeeID: &employeeID,
		})
		return err
	})

	g.Go(func() error {
		var err error
		records, err = s.attendances.ListByRange(gctx, first, last, []string{employeeID})
		if err != nil {
			return fmt.Errorf("failed to list attendance of employee %s: %w", employeeID, err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Inactive or unknown employees have no report row
	if len(monthly.Report) == 0 {
		return nil, employee.ErrEmployeeNotFound
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Date.Before(records[j].Date) })

	days := make([]empDashboard.DayItem, 0, len(records))
	for _, rec := range records {
		rendered := attendance.ToResponse(rec, s.loc)
		days = append(days, empDashboard.DayItem{
			Date:          rendered.Date,
			Weekday:       rec.Date.Weekday().String()[:3],
			Status:        rendered.Status,
			CheckIn:       rendered.CheckInTime,
			CheckOut:      rendered.CheckOutTime,
			LateMinutes:   rec.LateMinutes,
			WorkedMinutes: rec.WorkedMinutes,
			WorkHours:     timecalc.FormatMinutes(rec.WorkedMinutes),
			Reason:        rec.Reason,
		})
	}

	return &empDashboard.EmployeeDashboardResponse{
		Month:   fmt.Sprintf("%04d-%02d", year, int(mon)),
		Period:  monthly.Period,
		Summary: monthly.Report[0],
		Days:    days,
	}, nil
}
