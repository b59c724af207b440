package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/timecalc"
	"golang.org/x/sync/errgroup"
)

const latestRecordsLimit = 10

type DashboardServiceImpl struct {
	dashboard.DashboardRepository
	loc *time.Location
	now func() time.Time
}

func NewDashboardService(repo dashboard.DashboardRepository, loc *time.Location) dashboard.DashboardService {
	return &DashboardServiceImpl{
		DashboardRepository: repo,
		loc:                 loc,
		now:                 time.Now,
	}
}

// GetDashboard returns combined dashboard data using parallel goroutines
// 4 goroutines, each with 1 DB query
func (s *DashboardServiceImpl) GetDashboard(ctx context.Context) (*dashboard.DashboardResponse, error) {
	now := s.now().In(s.loc)
	today := timecalc.DateOf(now)
	first, last := timecalc.MonthRange(today.Year, today.Month)

	var (
		totalActive int64
		todayCounts *dashboard.StatusCounts
		monthCounts *dashboard.StatusCounts
		minutes     *dashboard.MinuteTotals
		latest      []dashboard.RecentRecord
	)

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Active workforce
	g.Go(func() error {
		total, err := s.CountActiveEmployees(gCtx)
		if err != nil {
			return err
		}
		totalActive = total
		return nil
	})

	// 2. Today's records
	g.Go(func() error {
		counts, err := s.GetStatusCountsByDay(gCtx, today)
		if err != nil {
			return err
		}
		todayCounts = counts
		return nil
	})

	// 3. This month's totals
	g.Go(func() error {
		counts, totals, err := s.GetStatusCountsByRange(gCtx, first, last)
		if err != nil {
			return err
		}
		monthCounts, minutes = counts, totals
		return nil
	})

	// 4. Latest records of the month
	g.Go(func() error {
		records, err := s.GetLatestRecords(gCtx, first, last, latestRecordsLimit)
		if err != nil {
			return err
		}
		latest = records
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load dashboard: %w", err)
	}

	recorded := todayCounts.Present + todayCounts.Excused + todayCounts.Sick + todayCounts.Absent
	notRecorded := totalActive - recorded
	if notRecorded < 0 {
		notRecorded = 0
	}

	items := make([]dashboard.AttendanceRecordItem, 0, len(latest))
	for i, rec := range latest {
		item := dashboard.AttendanceRecordItem{
			No:           i + 1,
			EmployeeName: rec.EmployeeName,
			Date:         rec.Date.String(),
			Status:       rec.Status,
		}
		if rec.CheckIn != nil {
			checkIn := rec.CheckIn.In(s.loc).Format("15:04")
			item.CheckIn = &checkIn
		}
		items = append(items, item)
	}

	return &dashboard.DashboardResponse{
		Date: today.String(),
		Today: dashboard.TodayStatsResponse{
			TotalActive: totalActive,
			Present:     todayCounts.Present,
			Excused:     todayCounts.Excused,
			Sick:        todayCounts.Sick,
			Absent:      todayCounts.Absent,
			Late:        todayCounts.Late,
			NotRecorded: notRecorded,
		},
		Month: dashboard.MonthStatsResponse{
			Month:                fmt.Sprintf("%04d-%02d", today.Year, int(today.Month)),
			Present:              monthCounts.Present,
			Excused:              monthCounts.Excused,
			Sick:                 monthCounts.Sick,
			Absent:               monthCounts.Absent,
			Late:                 monthCounts.Late,
			TotalLateMinutes:     minutes.Late,
			TotalOvertimeMinutes: minutes.Overtime,
			LatestRecords:        items,
		},
	}, nil
}
