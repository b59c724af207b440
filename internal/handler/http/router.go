package http

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/metrics"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/httprate"
	"github.com/go-chi/jwtauth/v5"
	"github.com/unrolled/secure"
)

// RouterConfig carries the cross-cutting settings of the HTTP surface.
type RouterConfig struct {
	JWTService     jwt.Service
	Revocations    jwt.RevocationStore
	Metrics        *metrics.Metrics
	AllowedOrigins []string
	Env            string
	Version        string
	LoginPerMinute int
	RequestTimeout time.Duration
}

type Handlers struct {
	Auth        AuthHandler
	Employee    EmployeeHandler
	Attendance  AttendanceHandler
	Holiday     HolidayHandler
	Report      ReportHandler
	Dashboard   DashboardHandler
	MySummary   EmployeeDashboardHandler
	HourRequest HourRequestHandler
}

func NewRouter(cfg RouterConfig, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(cfg.Env != "development")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "attendance-cmlabs"),
		slog.String("version", cfg.Version),
		slog.String("env", cfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		IsDevelopment:      cfg.Env == "development",
	}).Handler)

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(cfg.Metrics.Middleware)
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	if cfg.RequestTimeout > 0 {
		r.Use(chiMiddleware.Timeout(cfg.RequestTimeout))
	}

	r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())

	loginLimit := cfg.LoginPerMinute
	if loginLimit <= 0 {
		loginLimit = 10
	}

	authenticated := []func(http.Handler) http.Handler{
		jwtauth.Verify(cfg.JWTService.JWTAuth(), jwtauth.TokenFromHeader),
		middleware.AuthRequired(cfg.Revocations),
	}

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.With(httprate.Limit(loginLimit, time.Minute,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(response.TooManyRequests),
			)).Post("/login", h.Auth.Login)

			r.Group(func(r chi.Router) {
				r.Use(authenticated...)
				r.Get("/me", h.Auth.Me)
				r.Put("/change-password", h.Auth.ChangePassword)
				r.Post("/logout", h.Auth.Logout)
			})
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(authenticated...)

			r.Route("/employees", func(r chi.Router) {
				r.Get("/", h.Employee.ListEmployees)
				r.Get("/departments", h.Employee.ListDepartments)
				r.Get("/{id}", h.Employee.GetEmployee)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/", h.Employee.CreateEmployee)
					r.Put("/{id}", h.Employee.UpdateEmployee)
					r.Delete("/{id}", h.Employee.DeleteEmployee)
				})
			})

			r.Route("/attendances", func(r chi.Router) {
				r.Post("/check-in", h.Attendance.CheckIn)
				r.Post("/check-out", h.Attendance.CheckOut)
				r.Get("/", h.Attendance.ListHistory)
				r.Get("/me/summary", h.MySummary.GetDashboard)
				r.With(middleware.RequireSelfOrAdmin("employeeID")).Get("/today/{employeeID}", h.Attendance.GetTodayStatus)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/today", h.Attendance.GetTodayAll)
					r.Put("/{id}", h.Attendance.UpdateAttendance)
				})
			})

			r.Route("/holidays", func(r chi.Router) {
				r.Get("/", h.Holiday.ListHolidays)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/", h.Holiday.CreateHoliday)
					r.Delete("/{id}", h.Holiday.DeleteHoliday)
				})
			})

			r.Route("/reports", func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Get("/dashboard", h.Dashboard.GetDashboard)
				r.Route("/monthly", func(r chi.Router) {
					r.Get("/", h.Report.GetMonthlyReport)
					r.Get("/export/{format}", h.Report.ExportMonthlyReport)
					r.Post("/archive", h.Report.EnqueueArchive)
					r.Get("/archive/{year}/{month}/{format}", h.Report.DownloadArchive)
				})
			})

			r.Route("/hour-requests", func(r chi.Router) {
				r.Post("/", h.HourRequest.Submit)
				r.Get("/my", h.HourRequest.ListMine)
				r.Get("/{id}", h.HourRequest.GetHourRequest)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/pending", h.HourRequest.ListPending)
					r.Put("/{id}/review", h.HourRequest.Review)
				})
			})
		})
	})
	return r
}
