package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	empDashboard "github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee_dashboard"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/holiday"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/hourrequest"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret     = "test-secret-key-for-jwt"
	adminUserID    = "0190a000-0000-7000-8000-000000000001"
	budiUserID     = "0190a000-0000-7000-8000-000000000002"
	budiEmployeeID = "0190a000-0000-7000-8000-0000000000b1"
	sitiEmployeeID = "0190a000-0000-7000-8000-0000000000c1"
)

// ===== FAKE SERVICES =====

type fakeAuthService struct {
	auth.AuthService
	revocations jwt.RevocationStore
	changed     auth.ChangePasswordRequest
}

func (f *fakeAuthService) Login(_ context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	if req.Password != "password123" {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	return auth.TokenResponse{
		AccessToken: "token",
		User:        auth.UserResponse{ID: budiUserID, Email: req.Email, Role: string(user.RoleEmployee)},
	}, nil
}

func (f *fakeAuthService) Me(_ context.Context, userID string) (auth.MeResponse, error) {
	return auth.MeResponse{User: auth.UserResponse{ID: userID}}, nil
}

func (f *fakeAuthService) ChangePassword(_ context.Context, req auth.ChangePasswordRequest) error {
	f.changed = req
	if req.CurrentPassword != "password123" {
		return auth.ErrWrongPassword
	}
	return nil
}

func (f *fakeAuthService) Logout(ctx context.Context, token string, expiresAt int64) error {
	return f.revocations.Revoke(ctx, token, time.Unix(expiresAt, 0))
}

type fakeEmployeeService struct {
	employee.EmployeeService
	lastFilter employee.EmployeeFilter
}

func (f *fakeEmployeeService) ListEmployees(_ context.Context, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	f.lastFilter = filter
	return employee.ListEmployeeResponse{}, nil
}

func (f *fakeEmployeeService) CreateEmployee(_ context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	return employee.EmployeeResponse{Name: req.Name}, nil
}

type fakeAttendanceService struct {
	attendance.AttendanceService
	mu          sync.Mutex
	checkIn     attendance.CheckInRequest
	historyWith attendance.AttendanceFilter
	checkedIn   map[string]bool
	checkedOut  map[string]bool
}

func (f *fakeAttendanceService) CheckIn(_ context.Context, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if f.checkedIn[req.EmployeeID] {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
	}
	f.checkedIn[req.EmployeeID] = true
	f.checkIn = req
	return attendance.AttendanceResponse{EmployeeID: req.EmployeeID, Status: req.Status}, nil
}

func (f *fakeAttendanceService) CheckOut(_ context.Context, req attendance.CheckOutRequest) (attendance.AttendanceResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.checkedIn[req.EmployeeID] {
		return attendance.AttendanceResponse{}, attendance.ErrNotCheckedIn
	}
	if f.checkedOut[req.EmployeeID] {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedOut
	}
	f.checkedOut[req.EmployeeID] = true
	return attendance.AttendanceResponse{EmployeeID: req.EmployeeID, Status: "PRESENT"}, nil
}

func (f *fakeAttendanceService) GetTodayStatus(_ context.Context, employeeID string) (attendance.TodayStatusResponse, error) {
	return attendance.TodayStatusResponse{EmployeeID: employeeID, State: attendance.NotCheckedIn.String()}, nil
}

func (f *fakeAttendanceService) ListHistory(_ context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.historyWith = filter
	return attendance.ListAttendanceResponse{Showing: "0 of 0"}, nil
}

type fakeHolidayService struct {
	holiday.HolidayService
}

type fakeReportService struct {
	report.ReportService
	lastReq report.MonthlyReportRequest
}

func (f *fakeReportService) MonthlyReport(_ context.Context, req report.MonthlyReportRequest) (report.MonthlyReport, error) {
	f.lastReq = req
	return report.MonthlyReport{Month: req.Month, Year: req.Year}, nil
}

func (f *fakeReportService) Export(_ context.Context, req report.MonthlyReportRequest, format report.Format) (report.Export, error) {
	f.lastReq = req
	return report.Export{
		Filename:    "attendance-report-10-2026." + string(format),
		ContentType: format.ContentType(),
		Content:     []byte("Employee Number,Name\n"),
	}, nil
}

func (f *fakeReportService) EnqueueArchive(_ context.Context, req report.ArchiveRequest) (report.ArchiveResponse, error) {
	if req.Month == 9 {
		return report.ArchiveResponse{}, report.ErrArchiveAlreadyQueued
	}
	return report.ArchiveResponse{TaskID: "report-archive:2026-10", Queue: "default", Month: req.Month, Year: req.Year}, nil
}

func (f *fakeReportService) OpenArchive(_ context.Context, year, month int, format report.Format) (io.ReadCloser, string, error) {
	if month != 10 {
		return nil, "", report.ErrArchiveNotFound
	}
	return io.NopCloser(strings.NewReader("archived")), "attendance-report-10-2026." + string(format), nil
}

type fakeDashboardService struct{}

func (fakeDashboardService) GetDashboard(context.Context) (*dashboard.DashboardResponse, error) {
	return &dashboard.DashboardResponse{}, nil
}

type fakeSummaryService struct {
	employeeID, month string
}

func (f *fakeSummaryService) GetDashboard(_ context.Context, employeeID, month string) (*empDashboard.EmployeeDashboardResponse, error) {
	f.employeeID, f.month = employeeID, month
	return &empDashboard.EmployeeDashboardResponse{Month: month}, nil
}

type fakeHourRequestService struct {
	hourrequest.HourRequestService
	reviewed hourrequest.ReviewRequest
}

func (f *fakeHourRequestService) Submit(_ context.Context, req hourrequest.SubmitRequest) (hourrequest.HourRequestResponse, error) {
	if req.EmployeeID == "" {
		return hourrequest.HourRequestResponse{}, hourrequest.ErrNoEmployeeProfile
	}
	return hourrequest.HourRequestResponse{EmployeeID: req.EmployeeID}, nil
}

func (f *fakeHourRequestService) Review(_ context.Context, req hourrequest.ReviewRequest) (hourrequest.HourRequestResponse, error) {
	f.reviewed = req
	return hourrequest.HourRequestResponse{ID: req.ID}, nil
}

// ===== HARNESS =====

type testServer struct {
	router     *chi.Mux
	jwt        jwt.Service
	auth       *fakeAuthService
	employees  *fakeEmployeeService
	attendance *fakeAttendanceService
	reports    *fakeReportService
	summary    *fakeSummaryService
	hours      *fakeHourRequestService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	jwtSvc := jwt.NewJWTService(testSecret, time.Hour)
	revocations := jwt.NewMemoryRevocationStore()

	s := &testServer{
		jwt:        jwtSvc,
		auth:       &fakeAuthService{revocations: revocations},
		employees:  &fakeEmployeeService{},
		attendance: &fakeAttendanceService{checkedIn: map[string]bool{}, checkedOut: map[string]bool{}},
		reports:    &fakeReportService{},
		summary:    &fakeSummaryService{},
		hours:      &fakeHourRequestService{},
	}
	s.router = NewRouter(RouterConfig{
		JWTService:     jwtSvc,
		Revocations:    revocations,
		Metrics:        metrics.New(),
		AllowedOrigins: []string{"http://localhost:3000"},
		Env:            "test",
		Version:        "test",
		LoginPerMinute: 3,
	}, Handlers{
		Auth:        NewAuthHandler(s.auth),
		Employee:    NewEmployeeHandler(s.employees),
		Attendance:  NewAttendanceHandler(s.attendance),
		Holiday:     NewHolidayHandler(&fakeHolidayService{}),
		Report:      NewReportHandler(s.reports),
		Dashboard:   NewDashboardHandler(fakeDashboardService{}),
		MySummary:   NewEmployeeDashboardHandler(s.summary),
		HourRequest: NewHourRequestHandler(s.hours),
	})
	return s
}

func (s *testServer) token(t *testing.T, userID string, employeeID *string, role user.Role) string {
	t.Helper()
	token, _, err := s.jwt.GenerateAccessToken(userID, userID+"@example.com", employeeID, role)
	require.NoError(t, err)
	return token
}

func (s *testServer) adminToken(t *testing.T) string {
	return s.token(t, adminUserID, nil, user.RoleAdmin)
}

func (s *testServer) budiToken(t *testing.T) string {
	id := budiEmployeeID
	return s.token(t, budiUserID, &id, user.RoleEmployee)
}

func (s *testServer) do(t *testing.T, method, target, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

// ===== ROUTER TESTS =====

func TestRouter_HealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health", "", nil).Code)

	s.do(t, http.MethodGet, "/api/v1/employees", s.adminToken(t), nil)
	w := s.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "attendance_")
}

func TestRouter_RequiresToken(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/employees", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/employees", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_AdminOnlyRoutes(t *testing.T) {
	s := newTestServer(t)
	body := map[string]string{"employee_number": "EMP-9", "name": "Rina", "title": "Staff", "department": "Ops"}

	w := s.do(t, http.MethodPost, "/api/v1/employees", s.budiToken(t), body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/employees", s.adminToken(t), body)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/reports/dashboard", s.budiToken(t), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/hour-requests/pending", s.budiToken(t), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRouter_ListEmployeesFilters(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/employees?search=bud&department=Engineering&active=false&page=2&limit=5", s.budiToken(t), nil)
	require.Equal(t, http.StatusOK, w.Code)

	f := s.employees.lastFilter
	require.NotNil(t, f.Search)
	require.NotNil(t, f.Department)
	require.NotNil(t, f.Active)
	assert.Equal(t, "bud", *f.Search)
	assert.Equal(t, "Engineering", *f.Department)
	assert.False(t, *f.Active)
	assert.Equal(t, 2, f.Page)
	assert.Equal(t, 5, f.Limit)

	w = s.do(t, http.MethodGet, "/api/v1/employees?active=maybe", s.budiToken(t), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_CheckInActsForCaller(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/attendances/check-in", s.budiToken(t), map[string]string{})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, budiEmployeeID, s.attendance.checkIn.EmployeeID)

	w = s.do(t, http.MethodPost, "/api/v1/attendances/check-in", s.budiToken(t), map[string]string{"employee_id": sitiEmployeeID})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/attendances/check-in", s.adminToken(t), map[string]string{"employee_id": sitiEmployeeID})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, sitiEmployeeID, s.attendance.checkIn.EmployeeID)
}

func TestRouter_CheckInOutRuleViolationsAreBadRequests(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/attendances/check-in", s.budiToken(t), map[string]string{"status": "SICK"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "BAD_REQUEST", decodeBody(t, w)["error"].(map[string]interface{})["code"])

	w = s.do(t, http.MethodPost, "/api/v1/attendances/check-in", s.budiToken(t), map[string]string{})
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/attendances/check-in", s.budiToken(t), map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/attendances/check-out", s.budiToken(t), map[string]string{})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/attendances/check-out", s.budiToken(t), map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Malformed fields still report per-field details
	w = s.do(t, http.MethodPost, "/api/v1/attendances/check-in", s.adminToken(t), map[string]string{"employee_id": sitiEmployeeID, "time": "25:00"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestRouter_TodayStatusSelfOrAdmin(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/attendances/today/"+budiEmployeeID, s.budiToken(t), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/attendances/today/"+sitiEmployeeID, s.budiToken(t), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/attendances/today/"+sitiEmployeeID, s.adminToken(t), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_HistoryForcedToOwnEmployee(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/attendances?employee_id="+sitiEmployeeID+"&month=10&year=2026", s.budiToken(t), nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, s.attendance.historyWith.EmployeeID)
	assert.Equal(t, budiEmployeeID, *s.attendance.historyWith.EmployeeID)
	assert.Equal(t, 10, *s.attendance.historyWith.Month)

	w = s.do(t, http.MethodGet, "/api/v1/attendances?employee_id="+sitiEmployeeID, s.adminToken(t), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, sitiEmployeeID, *s.attendance.historyWith.EmployeeID)

	w = s.do(t, http.MethodGet, "/api/v1/attendances?month=ten", s.adminToken(t), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_MySummaryUsesOwnProfile(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/attendances/me/summary?month=2026-10", s.budiToken(t), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, budiEmployeeID, s.summary.employeeID)
	assert.Equal(t, "2026-10", s.summary.month)

	// Admin accounts carry no employee profile
	w = s.do(t, http.MethodGet, "/api/v1/attendances/me/summary", s.adminToken(t), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_MonthlyReportAndExport(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/reports/monthly?month=10&year=2026&department=Engineering", s.adminToken(t), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 10, s.reports.lastReq.Month)
	require.NotNil(t, s.reports.lastReq.Department)
	assert.Equal(t, "Engineering", *s.reports.lastReq.Department)

	// Period defaults are resolved by the service
	w = s.do(t, http.MethodGet, "/api/v1/reports/monthly", s.adminToken(t), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, s.reports.lastReq.Month)

	w = s.do(t, http.MethodGet, "/api/v1/reports/monthly?year=2025", s.adminToken(t), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, s.reports.lastReq.Month)
	assert.Equal(t, 2025, s.reports.lastReq.Year)

	w = s.do(t, http.MethodGet, "/api/v1/reports/monthly?month=abc", s.adminToken(t), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/reports/monthly?month=10&year=twenty", s.adminToken(t), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid year parameter", decodeBody(t, w)["error"].(map[string]interface{})["message"])

	w = s.do(t, http.MethodGet, "/api/v1/reports/monthly/export/csv?month=10&year=2026", s.adminToken(t), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attendance-report-10-2026.csv")
	assert.Equal(t, "Employee Number,Name\n", w.Body.String())

	w = s.do(t, http.MethodGet, "/api/v1/reports/monthly/export/xlsx", s.adminToken(t), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_ReportArchive(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/reports/monthly/archive", s.adminToken(t), map[string]int{"month": 10, "year": 2026})
	require.Equal(t, http.StatusAccepted, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "report-archive:2026-10", data["task_id"])

	w = s.do(t, http.MethodPost, "/api/v1/reports/monthly/archive", s.adminToken(t), map[string]int{"month": 9, "year": 2026})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/reports/monthly/archive/2026/10/pdf", s.adminToken(t), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attendance-report-10-2026.pdf")
	assert.Equal(t, "archived", w.Body.String())

	w = s.do(t, http.MethodGet, "/api/v1/reports/monthly/archive/2026/11/pdf", s.adminToken(t), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_HourRequests(t *testing.T) {
	s := newTestServer(t)
	requestID := "0190a000-0000-7000-8000-0000000000f1"

	w := s.do(t, http.MethodPost, "/api/v1/hour-requests", s.budiToken(t), map[string]interface{}{"month": 10, "year": 2026})
	require.Equal(t, http.StatusCreated, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, budiEmployeeID, data["employee_id"])

	// Admin accounts have no employee profile
	w = s.do(t, http.MethodPost, "/api/v1/hour-requests", s.adminToken(t), map[string]interface{}{"month": 10, "year": 2026})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPut, "/api/v1/hour-requests/"+requestID+"/review", s.adminToken(t), map[string]string{"action": "approve"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, requestID, s.hours.reviewed.ID)
	assert.Equal(t, adminUserID, s.hours.reviewed.ReviewerID)
}

func TestRouter_LoginRateLimited(t *testing.T) {
	s := newTestServer(t)
	body := auth.LoginRequest{Email: "budi@example.com", Password: "wrong-password"}

	for i := 0; i < 3; i++ {
		w := s.do(t, http.MethodPost, "/api/v1/auth/login", "", body)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}

	w := s.do(t, http.MethodPost, "/api/v1/auth/login", "", body)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "TOO_MANY_REQUESTS", decodeBody(t, w)["error"].(map[string]interface{})["code"])
}
