package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/cmlabs-hris/attendance-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/attendance-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/cache"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/attendance-backend-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/attendance-backend-go/internal/service/auth"
	dashboardService "github.com/cmlabs-hris/attendance-backend-go/internal/service/dashboard"
	employeeService "github.com/cmlabs-hris/attendance-backend-go/internal/service/employee"
	employeeDashboardService "github.com/cmlabs-hris/attendance-backend-go/internal/service/employee_dashboard"
	holidayService "github.com/cmlabs-hris/attendance-backend-go/internal/service/holiday"
	hourRequestService "github.com/cmlabs-hris/attendance-backend-go/internal/service/hourrequest"
	reportService "github.com/cmlabs-hris/attendance-backend-go/internal/service/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/worker"
	"github.com/hibiken/asynq"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))
	response.SetDevelopment(cfg.IsDevelopment())
	loc := cfg.Location()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		log.Fatal("Error connecting to database: ", err)
	}
	defer db.Close()

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath)
	if err != nil {
		log.Fatal("Failed to initialize local storage: ", err)
	}

	m := metrics.New()

	// Redis backs token revocation and the archive queue; without it
	// revocations fall back to PostgreSQL and archiving is unavailable.
	var revocations jwt.RevocationStore
	var archiveQueue reportService.ArchiveQueue
	if cfg.Redis.Addr != "" {
		redisClient, err := cache.New(ctx, cache.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("Failed to connect to redis: ", err)
		}
		defer redisClient.Close()
		revocations = jwt.NewRedisRevocationStore(redisClient)

		queueClient := worker.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer queueClient.Close()
		archiveQueue = queueClient
	} else {
		slog.Warn("REDIS_ADDR not set: using database token revocation, report archiving disabled")
		revocations = postgresql.NewTokenRevocationRepository(db)
	}

	transactor := postgresql.NewTransactor(db)
	userRepo := postgresql.NewUserRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	hourRequestRepo := postgresql.NewHourRequestRepository(db)
	dashboardRepo := postgresql.NewDashboardRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	authService := serviceAuth.NewAuthService(userRepo, employeeRepo, JWTService, revocations)
	employeeSvc := employeeService.NewEmployeeService(transactor, employeeRepo, userRepo)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, employeeRepo, m, loc)
	holidaySvc := holidayService.NewHolidayService(holidayRepo)
	reportSvc := reportService.NewReportService(employeeRepo, holidayRepo, attendanceRepo, fileStorage, archiveQueue, m, loc)
	dashboardSvc := dashboardService.NewDashboardService(dashboardRepo, loc)
	mySummarySvc := employeeDashboardService.NewEmployeeDashboardService(reportSvc, attendanceRepo, loc)
	hourRequestSvc := hourRequestService.NewHourRequestService(transactor, hourRequestRepo, employeeRepo)

	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		JWTService:     JWTService,
		Revocations:    revocations,
		Metrics:        m,
		AllowedOrigins: cfg.App.CORSOrigins,
		Env:            cfg.App.Env,
		Version:        version,
		LoginPerMinute: cfg.RateLimit.LoginPerMinute,
		RequestTimeout: cfg.App.RequestTimeout,
	}, appHTTP.Handlers{
		Auth:        appHTTP.NewAuthHandler(authService),
		Employee:    appHTTP.NewEmployeeHandler(employeeSvc),
		Attendance:  appHTTP.NewAttendanceHandler(attendanceSvc),
		Holiday:     appHTTP.NewHolidayHandler(holidaySvc),
		Report:      appHTTP.NewReportHandler(reportSvc),
		Dashboard:   appHTTP.NewDashboardHandler(dashboardSvc),
		MySummary:   appHTTP.NewEmployeeDashboardHandler(mySummarySvc),
		HourRequest: appHTTP.NewHourRequestHandler(hourRequestSvc),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server is running", "addr", server.Addr, "env", cfg.App.Env, "version", version)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Error starting server: ", err)
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
}
