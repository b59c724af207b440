package attendance

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/timecalc"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	budiID   = "0b6f3c1e-5d2a-4f7e-9a41-6c2d8e1f0a01"
	sitiID   = "0b6f3c1e-5d2a-4f7e-9a41-6c2d8e1f0a02"
	ghostID  = "0b6f3c1e-5d2a-4f7e-9a41-6c2d8e1f0a03"
	formerID = "0b6f3c1e-5d2a-4f7e-9a41-6c2d8e1f0a04"
)

var jakarta = time.FixedZone("WIB", 7*60*60)

type memAttendanceRepo struct {
	attendance.AttendanceRepository
	mu      sync.Mutex
	records map[string]attendance.Attendance
}

func newMemAttendanceRepo() *memAttendanceRepo {
	return &memAttendanceRepo{records: map[string]attendance.Attendance{}}
}

func (m *memAttendanceRepo) Create(_ context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.records {
		if existing.EmployeeID == a.EmployeeID && existing.Date == a.Date {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
	}
	a.ID = uuid.NewString()
	m.records[a.ID] = a
	return a, nil
}

func (m *memAttendanceRepo) GetByID(_ context.Context, id string) (attendance.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.records[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return a, nil
}

func (m *memAttendanceRepo) GetByEmployeeAndDate(_ context.Context, employeeID string, date timecalc.Date) (attendance.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.records {
		if a.EmployeeID == employeeID && a.Date == date {
			return a, nil
		}
	}
	return attendance.Attendance{}, attendance.ErrAttendanceNotFound
}

func (m *memAttendanceRepo) Update(_ context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[a.ID]; !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	m.records[a.ID] = a
	return a, nil
}

func (m *memAttendanceRepo) CompleteCheckOut(_ context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.records[a.ID]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	if stored.CheckOut != nil {
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedOut
	}
	stored.CheckOut = a.CheckOut
	stored.OvertimeMinutes = a.OvertimeMinutes
	stored.WorkedMinutes = a.WorkedMinutes
	m.records[a.ID] = stored
	return stored, nil
}

func (m *memAttendanceRepo) ListByDate(_ context.Context, date timecalc.Date) ([]attendance.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []attendance.Attendance
	for _, a := range m.records {
		if a.Date == date {
			out = append(out, a)
		}
	}
	return out, nil
}

type memEmployeeRepo struct {
	employee.EmployeeRepository
	employees []employee.Employee
}

func (m *memEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	for _, emp := range m.employees {
		if emp.ID == id {
			return emp, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (m *memEmployeeRepo) ListActive(_ context.Context, _ employee.ActiveFilter) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, emp := range m.employees {
		if emp.IsActive {
			out = append(out, emp)
		}
	}
	return out, nil
}

// only returns the single stored record.
func (m *memAttendanceRepo) only(t *testing.T) attendance.Attendance {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.Len(t, m.records, 1)
	for _, a := range m.records {
		return a
	}
	return attendance.Attendance{}
}

func newTestService(now time.Time) (*AttendanceServiceImpl, *memAttendanceRepo) {
	repo := newMemAttendanceRepo()
	employees := &memEmployeeRepo{employees: []employee.Employee{
		{ID: budiID, EmployeeNumber: "EMP-001", Name: "Budi", StandardCheckIn: timecalc.Clock(8 * 60), StandardCheckOut: timecalc.Clock(17 * 60), IsActive: true},
		{ID: sitiID, EmployeeNumber: "EMP-002", Name: "Siti", StandardCheckIn: timecalc.Clock(9 * 60), StandardCheckOut: timecalc.Clock(18 * 60), IsActive: true},
		{ID: formerID, EmployeeNumber: "EMP-003", Name: "Former", StandardCheckIn: timecalc.Clock(8 * 60), StandardCheckOut: timecalc.Clock(17 * 60), IsActive: false},
	}}

	svc := NewAttendanceService(repo, employees, nil, jakarta).(*AttendanceServiceImpl)
	svc.now = func() time.Time { return now }
	return svc, repo
}

func TestCheckInAndCheckOutWorkedExample(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(time.Date(2026, time.October, 15, 8, 20, 42, 0, jakarta))

	in, err := svc.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: budiID})
	require.NoError(t, err)
	assert.Equal(t, "2026-10-15", in.Date)
	assert.Equal(t, "08:20", in.CheckInTime)
	assert.Equal(t, 20, in.LateMinutes)
	assert.Equal(t, "PRESENT", in.Status)

	svc.now = func() time.Time { return time.Date(2026, time.October, 15, 18, 5, 0, 0, jakarta) }
	out, err := svc.CheckOut(ctx, attendance.CheckOutRequest{EmployeeID: budiID})
	require.NoError(t, err)
	assert.Equal(t, "18:05", out.CheckOutTime)
	assert.Equal(t, 65, out.OvertimeMinutes)
	assert.Equal(t, 585, out.WorkedMinutes)
	require.NotNil(t, out.WorkedFormatted)
	assert.Equal(t, "9h 45m", *out.WorkedFormatted)
}

func TestCheckInTwiceConflicts(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(time.Date(2026, time.October, 15, 7, 55, 0, 0, jakarta))

	_, err := svc.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: budiID})
	require.NoError(t, err)

	original := repo.only(t)

	svc.now = func() time.Time { return time.Date(2026, time.October, 15, 9, 40, 0, 0, jakarta) }
	_, err = svc.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: budiID})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
	_, err = svc.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: budiID, Status: "SICK", Reason: "flu"})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)

	after := repo.only(t)
	require.NotNil(t, after.CheckIn)
	assert.True(t, after.CheckIn.Equal(*original.CheckIn))
	assert.Equal(t, original.LateMinutes, after.LateMinutes)
	assert.Equal(t, attendance.StatusPresent, after.Status)
	assert.Nil(t, after.Reason)
}

func TestConcurrentCheckInsProduceOneRecord(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(time.Date(2026, time.October, 15, 7, 55, 0, 0, jakarta))

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: budiID})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
	}
	assert.Equal(t, 1, succeeded)
	assert.Len(t, repo.records, 1)
}

func TestConcurrentCheckOutsRecordOneTime(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(time.Date(2026, time.October, 15, 8, 0, 0, 0, jakarta))

	_, err := svc.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: budiID})
	require.NoError(t, err)

	type result struct {
		resp attendance.AttendanceResponse
		err  error
	}
	var wg sync.WaitGroup
	results := make(chan result, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(minute int) {
			defer wg.Done()
			resp, err := svc.CheckOut(ctx, attendance.CheckOutRequest{EmployeeID: budiID, Time: fmt.Sprintf("17:%02d", minute)})
			results <- result{resp, err}
		}(i)
	}
	wg.Wait()
	close(results)

	var winner *attendance.AttendanceResponse
	for r := range results {
		if r.err == nil {
			require.Nil(t, winner, "only one check-out may succeed")
			resp := r.resp
			winner = &resp
			continue
		}
		assert.ErrorIs(t, r.err, attendance.ErrAlreadyCheckedOut)
	}
	require.NotNil(t, winner)

	stored := repo.only(t)
	require.NotNil(t, stored.CheckOut)
	assert.Equal(t, winner.CheckOutTime, stored.CheckOut.In(jakarta).Format("15:04"))
	assert.Equal(t, winner.WorkedMinutes, stored.WorkedMinutes)
}

func TestCheckInValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(time.Date(2026, time.October, 15, 8, 0, 0, 0, jakarta))

	_, err := svc.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: ghostID})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	_, err = svc.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: formerID})
	assert.ErrorIs(t, err, employee.ErrEmployeeInactive)

	_, err = svc.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: budiID, Status: "SICK"})
	assert.ErrorIs(t, err, attendance.ErrReasonRequired)

	_, err = svc.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: budiID, Status: "EXCUSED", Reason: "   "})
	assert.ErrorIs(t, err, attendance.ErrReasonRequired)
}

func TestCheckInSickHasNoInstant(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(time.Date(2026, time.October, 15, 10, 30, 0, 0, jakarta))

	resp, err := svc.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: budiID, Status: "SICK", Reason: "flu"})
	require.NoError(t, err)
	assert.Nil(t, resp.CheckIn)
	assert.Equal(t, "-", resp.CheckInTime)
	assert.Zero(t, resp.LateMinutes)

	_, err = svc.CheckOut(ctx, attendance.CheckOutRequest{EmployeeID: budiID})
	assert.ErrorIs(t, err, attendance.ErrNotPresent)
}

func TestCheckOutRules(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(time.Date(2026, time.October, 15, 9, 0, 0, 0, jakarta))

	_, err := svc.CheckOut(ctx, attendance.CheckOutRequest{EmployeeID: sitiID})
	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)

	_, err = svc.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: sitiID})
	require.NoError(t, err)

	_, err = svc.CheckOut(ctx, attendance.CheckOutRequest{EmployeeID: sitiID, Time: "08:30"})
	assert.ErrorIs(t, err, attendance.ErrCheckOutBeforeCheckIn)

	_, err = svc.CheckOut(ctx, attendance.CheckOutRequest{EmployeeID: sitiID, Time: "17:00"})
	require.NoError(t, err)

	_, err = svc.CheckOut(ctx, attendance.CheckOutRequest{EmployeeID: sitiID, Time: "18:00"})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)
}

func TestGetTodayStatusTransitions(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(time.Date(2026, time.October, 15, 8, 0, 0, 0, jakarta))

	status, err := svc.GetTodayStatus(ctx, budiID)
	require.NoError(t, err)
	assert.Equal(t, "NOT_CHECKED_IN", status.State)
	assert.False(t, status.HasCheckedIn)
	assert.Nil(t, status.Attendance)

	_, err = svc.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: budiID})
	require.NoError(t, err)
	status, err = svc.GetTodayStatus(ctx, budiID)
	require.NoError(t, err)
	assert.Equal(t, "CHECKED_IN", status.State)
	assert.True(t, status.HasCheckedIn)
	assert.False(t, status.HasCheckedOut)

	_, err = svc.CheckOut(ctx, attendance.CheckOutRequest{EmployeeID: budiID, Time: "17:00"})
	require.NoError(t, err)
	status, err = svc.GetTodayStatus(ctx, budiID)
	require.NoError(t, err)
	assert.Equal(t, "CHECKED_OUT", status.State)
	assert.True(t, status.HasCheckedOut)
}

func TestGetTodayAllSummary(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(time.Date(2026, time.October, 15, 9, 15, 0, 0, jakarta))

	_, err := svc.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: budiID})
	require.NoError(t, err)

	today, err := svc.GetTodayAll(ctx)
	require.NoError(t, err)

	assert.Equal(t, "2026-10-15", today.Date)
	assert.Equal(t, 2, today.Summary.Total)
	assert.Equal(t, 1, today.Summary.Present)
	assert.Equal(t, 1, today.Summary.Late)
	assert.Equal(t, 1, today.Summary.NotRecorded)
	require.Len(t, today.Attendance, 2)
	assert.True(t, today.Attendance[0].HasCheckedIn)
	assert.False(t, today.Attendance[1].HasCheckedIn)
}

func TestUpdateAttendanceRecomputesMinutes(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(time.Date(2026, time.October, 15, 8, 20, 0, 0, jakarta))

	created, err := svc.CheckIn(ctx, attendance.CheckInRequest{EmployeeID: budiID})
	require.NoError(t, err)

	in, out := "07:50", "17:30"
	_, err = svc.UpdateAttendance(ctx, attendance.UpdateAttendanceRequest{ID: uuid.NewString(), CheckIn: &in})
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)

	updated, err := svc.UpdateAttendance(ctx, attendance.UpdateAttendanceRequest{ID: created.ID, CheckIn: &in, CheckOut: &out})
	require.NoError(t, err)
	assert.Equal(t, "07:50", updated.CheckInTime)
	assert.Equal(t, "17:30", updated.CheckOutTime)
	assert.Equal(t, 0, updated.LateMinutes)
	assert.Equal(t, 30, updated.OvertimeMinutes)
	assert.Equal(t, 580, updated.WorkedMinutes)

	sick, reason := "SICK", "fever"
	updated, err = svc.UpdateAttendance(ctx, attendance.UpdateAttendanceRequest{ID: created.ID, Status: &sick, Reason: &reason})
	require.NoError(t, err)
	assert.Equal(t, "SICK", updated.Status)
	assert.Nil(t, updated.CheckIn)
	assert.Zero(t, updated.WorkedMinutes)

	_, err = svc.UpdateAttendance(ctx, attendance.UpdateAttendanceRequest{ID: created.ID, CheckIn: &in})
	assert.ErrorIs(t, err, attendance.ErrTimesRequirePresent)
}

func TestResolveInstant(t *testing.T) {
	svc, _ := newTestService(time.Date(2026, time.October, 15, 9, 41, 30, 0, jakarta))

	at, err := svc.resolveInstant("", "")
	require.NoError(t, err)
	assert.True(t, time.Date(2026, time.October, 15, 9, 41, 0, 0, jakarta).Equal(at), at)

	at, err = svc.resolveInstant("2026-10-14", "")
	require.NoError(t, err)
	assert.True(t, time.Date(2026, time.October, 14, 9, 41, 0, 0, jakarta).Equal(at), at)

	at, err = svc.resolveInstant("", "17:05")
	require.NoError(t, err)
	assert.True(t, time.Date(2026, time.October, 15, 17, 5, 0, 0, jakarta).Equal(at), at)

	_, err = svc.resolveInstant("14/10/2026", "7pm")
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "date")
	assert.Contains(t, verrs.ToMap(), "time")
}
