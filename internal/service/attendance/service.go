package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/timecalc"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
	metrics *metrics.Metrics
	loc     *time.Location
	now     func() time.Time
}

func NewAttendanceService(
	attendanceRepository attendance.AttendanceRepository,
	employeeRepository employee.EmployeeRepository,
	m *metrics.Metrics,
	loc *time.Location,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepository,
		EmployeeRepository:   employeeRepository,
		metrics:              m,
		loc:                  loc,
		now:                  time.Now,
	}
}

// today returns the current instant in the service location, truncated to the minute.
func (a *AttendanceServiceImpl) today() time.Time {
	return a.now().In(a.loc).Truncate(time.Minute)
}

// resolveInstant combines an optional date and an optional HH:MM clock time.
// Missing parts are taken from the current time.
func (a *AttendanceServiceImpl) resolveInstant(date, clock string) (time.Time, error) {
	now := a.today()
	if date == "" && clock == "" {
		return now, nil
	}

	var errs validator.ValidationErrors
	day := timecalc.DateOf(now)
	if date != "" {
		parsed, err := timecalc.ParseDate(date)
		if err != nil {
			errs.Add("date", "date must be in YYYY-MM-DD format")
		}
		day = parsed
	}
	at := timecalc.ClockOf(now)
	if clock != "" {
		parsed, err := timecalc.ParseClock(clock)
		if err != nil {
			errs.Add("time", "time must be in HH:MM format")
		}
		at = parsed
	}
	if err := errs.OrNil(); err != nil {
		return time.Time{}, err
	}
	return day.At(at, a.loc), nil
}

func (a *AttendanceServiceImpl) activeEmployee(ctx context.Context, id string) (employee.Employee, error) {
	emp, err := a.EmployeeRepository.GetByID(ctx, id)
	if err != nil {
		return employee.Employee{}, err
	}
	if !emp.IsActive {
		return employee.Employee{}, employee.ErrEmployeeInactive
	}
	return emp, nil
}

func standardOf(emp employee.Employee) attendance.Standard {
	return attendance.Standard{CheckIn: emp.StandardCheckIn, CheckOut: emp.StandardCheckOut}
}

// CheckIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	emp, err := a.activeEmployee(ctx, req.EmployeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	at, err := a.resolveInstant(req.Date, req.Time)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	// Fast path only. The (employee_id, date) unique constraint decides races.
	_, err = a.AttendanceRepository.GetByEmployeeAndDate(ctx, emp.ID, timecalc.DateOf(at))
	if err == nil {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
	}
	if !errors.Is(err, attendance.ErrAttendanceNotFound) {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}

	record, err := attendance.NewCheckIn(emp.ID, at, attendance.Status(req.Status), req.Reason, standardOf(emp))
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	created, err := a.AttendanceRepository.Create(ctx, record)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	a.metrics.CheckIn(string(created.Status))
	slog.Info("employee checked in",
		"employee_id", emp.ID,
		"date", created.Date.String(),
		"status", created.Status,
		"late_minutes", created.LateMinutes,
	)
	return attendance.ToResponse(created, a.loc), nil
}

// CheckOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	emp, err := a.activeEmployee(ctx, req.EmployeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	at, err := a.resolveInstant(req.Date, req.Time)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	record, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, emp.ID, timecalc.DateOf(at))
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.AttendanceResponse{}, attendance.ErrNotCheckedIn
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}

	if err := record.RecordCheckOut(at, standardOf(emp)); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	updated, err := a.AttendanceRepository.CompleteCheckOut(ctx, record)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	a.metrics.CheckOut()
	slog.Info("employee checked out",
		"employee_id", emp.ID,
		"date", updated.Date.String(),
		"overtime_minutes", updated.OvertimeMinutes,
		"worked_minutes", updated.WorkedMinutes,
	)
	return attendance.ToResponse(updated, a.loc), nil
}

// GetTodayStatus implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetTodayStatus(ctx context.Context, employeeID string) (attendance.TodayStatusResponse, error) {
	emp, err := a.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		return attendance.TodayStatusResponse{}, err
	}

	today := timecalc.DateOf(a.today())
	resp := attendance.TodayStatusResponse{
		EmployeeID: emp.ID,
		Date:       today.String(),
		State:      attendance.NotCheckedIn.String(),
	}

	record, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, emp.ID, today)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return resp, nil
		}
		return attendance.TodayStatusResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}

	state := attendance.StateOf(&record)
	rendered := attendance.ToResponse(record, a.loc)
	resp.State = state.String()
	resp.HasCheckedIn = true
	resp.HasCheckedOut = state == attendance.CheckedOut
	resp.Attendance = &rendered
	return resp, nil
}

// GetTodayAll implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetTodayAll(ctx context.Context) (attendance.TodayAttendanceResponse, error) {
	today := timecalc.DateOf(a.today())

	employees, err := a.EmployeeRepository.ListActive(ctx, employee.ActiveFilter{})
	if err != nil {
		return attendance.TodayAttendanceResponse{}, fmt.Errorf("failed to list active employees: %w", err)
	}

	records, err := a.AttendanceRepository.ListByDate(ctx, today)
	if err != nil {
		return attendance.TodayAttendanceResponse{}, fmt.Errorf("failed to list today's attendance: %w", err)
	}

	byEmployee := make(map[string]*attendance.Attendance, len(records))
	for i := range records {
		byEmployee[records[i].EmployeeID] = &records[i]
	}

	resp := attendance.TodayAttendanceResponse{
		Date:       today.String(),
		Attendance: make([]attendance.TodayEntry, 0, len(employees)),
	}
	for _, emp := range employees {
		record := byEmployee[emp.ID]
		resp.Summary.Count(record)

		entry := attendance.TodayEntry{
			Employee: attendance.TodayEmployee{
				ID:             emp.ID,
				EmployeeNumber: emp.EmployeeNumber,
				Name:           emp.Name,
				Title:          emp.Title,
				Department:     emp.Department,
			},
		}
		if record != nil {
			rendered := attendance.ToResponse(*record, a.loc)
			entry.HasCheckedIn = true
			entry.HasCheckedOut = attendance.StateOf(record) == attendance.CheckedOut
			entry.Attendance = &rendered
		}
		resp.Attendance = append(resp.Attendance, entry)
	}

	return resp, nil
}

// ListHistory implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListHistory(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	records, total, err := a.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, attendance.ToResponse(record, a.loc))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))
	showing := fmt.Sprintf("%d-%d of %d", (filter.Page-1)*filter.Limit+1, min(filter.Page*filter.Limit, int(total)), total)
	if total == 0 {
		showing = "0 of 0"
	}

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  totalPages,
		Showing:     showing,
		Attendances: responses,
	}, nil
}

// UpdateAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) UpdateAttendance(ctx context.Context, req attendance.UpdateAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	record, err := a.AttendanceRepository.GetByID(ctx, req.ID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	emp, err := a.EmployeeRepository.GetByID(ctx, record.EmployeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if err := record.ApplyCorrection(req.Correction(), standardOf(emp), a.loc); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	updated, err := a.AttendanceRepository.Update(ctx, record)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	slog.Info("attendance corrected", "attendance_id", updated.ID, "employee_id", updated.EmployeeID, "status", updated.Status)
	return attendance.ToResponse(updated, a.loc), nil
}
