package hourrequest

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/hourrequest"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	hourlyID   = "5c1f7a2e-8d3b-4e6a-9f10-2b4c6d8e0a11"
	salariedID = "5c1f7a2e-8d3b-4e6a-9f10-2b4c6d8e0a12"
	adminID    = "5c1f7a2e-8d3b-4e6a-9f10-2b4c6d8e0aff"
)

type passthroughTx struct{ calls int }

func (p *passthroughTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	p.calls++
	return fn(ctx)
}

type memRequestRepo struct {
	requests map[string]hourrequest.HourRequest
}

func (m *memRequestRepo) Upsert(_ context.Context, req hourrequest.HourRequest) (hourrequest.HourRequest, error) {
	for id, existing := range m.requests {
		if existing.EmployeeID != req.EmployeeID || existing.Month != req.Month || existing.Year != req.Year {
			continue
		}
		if existing.Status == hourrequest.StatusPending {
			return hourrequest.HourRequest{}, hourrequest.ErrPendingExists
		}
		existing.Description = req.Description
		existing.TotalHours = req.TotalHours
		existing.Status = hourrequest.StatusPending
		existing.RejectionReason, existing.ReviewedBy, existing.ReviewedAt, existing.CalculatedSalary = nil, nil, nil, nil
		m.requests[id] = existing
		return existing, nil
	}
	req.ID = uuid.NewString()
	req.Status = hourrequest.StatusPending
	req.SubmittedAt = time.Date(2026, time.October, 15, 10, 0, 0, 0, time.UTC)
	m.requests[req.ID] = req
	return req, nil
}

func (m *memRequestRepo) ReplaceDetails(_ context.Context, requestID string, details []hourrequest.Detail) ([]hourrequest.Detail, error) {
	r := m.requests[requestID]
	r.Details = nil
	for _, d := range details {
		d.ID = uuid.NewString()
		d.RequestID = requestID
		r.Details = append(r.Details, d)
	}
	r.TotalHours = hourrequest.SumHours(r.Details)
	m.requests[requestID] = r
	return r.Details, nil
}

func (m *memRequestRepo) GetByID(_ context.Context, id string) (hourrequest.HourRequest, error) {
	r, ok := m.requests[id]
	if !ok {
		return hourrequest.HourRequest{}, hourrequest.ErrHourRequestNotFound
	}
	return r, nil
}

func (m *memRequestRepo) GetByIDForUpdate(ctx context.Context, id string) (hourrequest.HourRequest, error) {
	return m.GetByID(ctx, id)
}

func (m *memRequestRepo) ListByEmployee(_ context.Context, employeeID string) ([]hourrequest.HourRequest, error) {
	var out []hourrequest.HourRequest
	for _, r := range m.requests {
		if r.EmployeeID == employeeID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year > out[j].Year
		}
		return out[i].Month > out[j].Month
	})
	return out, nil
}

func (m *memRequestRepo) ListPending(_ context.Context, filter hourrequest.PendingFilter) ([]hourrequest.HourRequest, int64, error) {
	var out []hourrequest.HourRequest
	for _, r := range m.requests {
		if r.Status == hourrequest.StatusPending {
			out = append(out, r)
		}
	}
	return out, int64(len(out)), nil
}

func (m *memRequestRepo) UpdateReview(_ context.Context, req hourrequest.HourRequest) error {
	if m.requests[req.ID].Status != hourrequest.StatusPending {
		return hourrequest.ErrNotPending
	}
	m.requests[req.ID] = req
	return nil
}

type memEmployeeRepo struct {
	employee.EmployeeRepository
	employees map[string]employee.Employee
}

func (m *memEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	emp, ok := m.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func newTestService() (*HourRequestServiceImpl, *memRequestRepo, *passthroughTx) {
	rate := decimal.NewFromInt(50000)
	employees := &memEmployeeRepo{employees: map[string]employee.Employee{
		hourlyID:   {ID: hourlyID, Name: "Rina", PayType: employee.PayTypeHourly, HourlyRate: &rate, IsActive: true},
		salariedID: {ID: salariedID, Name: "Agus", PayType: employee.PayTypeSalaried, IsActive: true},
	}}
	repo := &memRequestRepo{requests: map[string]hourrequest.HourRequest{}}
	tx := &passthroughTx{}

	svc := NewHourRequestService(tx, repo, employees).(*HourRequestServiceImpl)
	svc.now = func() time.Time { return time.Date(2026, time.October, 20, 9, 0, 0, 0, time.UTC) }
	return svc, repo, tx
}

func strPtr(s string) *string { return &s }

func octoberRequest(employeeID string) hourrequest.SubmitRequest {
	hours := decimal.RequireFromString("7.5")
	return hourrequest.SubmitRequest{
		EmployeeID: employeeID,
		Month:      10,
		Year:       2026,
		Details: []hourrequest.DetailInput{
			{Date: "2026-10-05", CheckIn: strPtr("09:00"), CheckOut: strPtr("13:20")},
			{Date: "2026-10-06", Hours: &hours, TaskDescription: strPtr("inventory")},
		},
	}
}

func TestSubmitComputesTotalFromDetails(t *testing.T) {
	svc, _, tx := newTestService()

	resp, err := svc.Submit(context.Background(), octoberRequest(hourlyID))
	require.NoError(t, err)

	assert.Equal(t, 1, tx.calls)
	assert.Equal(t, "PENDING", resp.Status)
	assert.Equal(t, "October 2026", resp.Period)
	assert.Equal(t, "11.83", resp.TotalHours)
	require.Len(t, resp.Details, 2)
	assert.Equal(t, "4.33", resp.Details[0].Hours)
	assert.Equal(t, "7.50", resp.Details[1].Hours)
}

func TestSubmitRules(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Submit(ctx, octoberRequest(""))
	assert.ErrorIs(t, err, hourrequest.ErrNoEmployeeProfile)

	_, err = svc.Submit(ctx, octoberRequest(salariedID))
	assert.ErrorIs(t, err, hourrequest.ErrNotHourlyEmployee)

	_, err = svc.Submit(ctx, octoberRequest(uuid.NewString()))
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	bad := octoberRequest(hourlyID)
	bad.Details[0].Date = "2026-11-01"
	_, err = svc.Submit(ctx, bad)
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestResubmissionLifecycle(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	first, err := svc.Submit(ctx, octoberRequest(hourlyID))
	require.NoError(t, err)

	_, err = svc.Submit(ctx, octoberRequest(hourlyID))
	assert.ErrorIs(t, err, hourrequest.ErrPendingExists)

	_, err = svc.Review(ctx, hourrequest.ReviewRequest{ID: first.ID, ReviewerID: adminID, Action: hourrequest.ActionReject, Reason: strPtr("missing timesheet")})
	require.NoError(t, err)

	again := octoberRequest(hourlyID)
	again.Details = again.Details[:1]
	second, err := svc.Submit(ctx, again)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "PENDING", second.Status)
	assert.Nil(t, second.RejectionReason)
	assert.Nil(t, second.ReviewedBy)
	assert.Equal(t, "4.33", second.TotalHours)
	assert.Len(t, repo.requests[first.ID].Details, 1)
}

func TestReviewApproveCalculatesSalary(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	submitted, err := svc.Submit(ctx, octoberRequest(hourlyID))
	require.NoError(t, err)

	approved, err := svc.Review(ctx, hourrequest.ReviewRequest{ID: submitted.ID, ReviewerID: adminID, Action: hourrequest.ActionApprove})
	require.NoError(t, err)
	assert.Equal(t, "APPROVED", approved.Status)
	require.NotNil(t, approved.CalculatedSalary)
	assert.Equal(t, "591500.00", *approved.CalculatedSalary)
	require.NotNil(t, approved.ReviewedBy)
	assert.Equal(t, adminID, *approved.ReviewedBy)
	require.NotNil(t, approved.ReviewedAt)
	assert.Equal(t, "2026-10-20T09:00:00Z", *approved.ReviewedAt)

	_, err = svc.Review(ctx, hourrequest.ReviewRequest{ID: submitted.ID, ReviewerID: adminID, Action: hourrequest.ActionReject, Reason: strPtr("late")})
	assert.ErrorIs(t, err, hourrequest.ErrNotPending)

	_, err = svc.Review(ctx, hourrequest.ReviewRequest{ID: uuid.NewString(), ReviewerID: adminID, Action: hourrequest.ActionApprove})
	assert.ErrorIs(t, err, hourrequest.ErrHourRequestNotFound)
}

func TestGetHourRequestVisibility(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	submitted, err := svc.Submit(ctx, octoberRequest(hourlyID))
	require.NoError(t, err)

	owner := hourlyID
	_, err = svc.GetHourRequest(ctx, submitted.ID, hourrequest.Viewer{EmployeeID: &owner})
	assert.NoError(t, err)

	other := salariedID
	_, err = svc.GetHourRequest(ctx, submitted.ID, hourrequest.Viewer{EmployeeID: &other})
	assert.ErrorIs(t, err, hourrequest.ErrForbidden)

	_, err = svc.GetHourRequest(ctx, submitted.ID, hourrequest.Viewer{IsAdmin: true})
	assert.NoError(t, err)

	_, err = svc.GetHourRequest(ctx, "nope", hourrequest.Viewer{IsAdmin: true})
	assert.ErrorIs(t, err, hourrequest.ErrHourRequestNotFound)
}

func TestListPendingPagination(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	empty, err := svc.ListPending(ctx, hourrequest.PendingFilter{})
	require.NoError(t, err)
	assert.Equal(t, "0 of 0", empty.Showing)
	assert.Equal(t, 20, empty.Limit)

	_, err = svc.Submit(ctx, octoberRequest(hourlyID))
	require.NoError(t, err)

	list, err := svc.ListPending(ctx, hourrequest.PendingFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.TotalCount)
	assert.Equal(t, "1-1 of 1", list.Showing)
	assert.Equal(t, 1, list.TotalPages)

	mine, err := svc.ListMine(ctx, hourlyID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}
