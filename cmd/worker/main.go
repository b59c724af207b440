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
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/postgresql"
	reportService "github.com/cmlabs-hris/attendance-backend-go/internal/service/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/worker"
	"github.com/hibiken/asynq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}
	if cfg.Redis.Addr == "" {
		log.Fatal("REDIS_ADDR is required for the worker")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})).
		With(slog.String("app", "attendance-worker"))
	slog.SetDefault(logger)
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

	redisOpts := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	queueClient := worker.NewClient(redisOpts)
	defer queueClient.Close()

	m := metrics.New()
	reportSvc := reportService.NewReportService(
		postgresql.NewEmployeeRepository(db),
		postgresql.NewHolidayRepository(db),
		postgresql.NewAttendanceRepository(db),
		fileStorage,
		queueClient,
		m,
		loc,
	)

	w, err := worker.NewWorker(worker.Config{
		RedisOpts:   redisOpts,
		Concurrency: cfg.Worker.Concurrency,
		Logger:      logger,
		ArchiveJob:  worker.NewArchiveJob(reportSvc, m),
	})
	if err != nil {
		log.Fatal("Failed to initialize worker: ", err)
	}

	scheduler := cron.NewScheduler()
	cron.NewReportJobs(queueClient, fileStorage, loc).RegisterJobs(scheduler)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	metricsServer := &http.Server{
		Addr:              cfg.Worker.MetricsAddr,
		Handler:           m.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server stopped", "error", err)
		}
	}()

	slog.Info("Worker is running", "concurrency", cfg.Worker.Concurrency, "metrics_addr", cfg.Worker.MetricsAddr)
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("worker stopped", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = metricsServer.Shutdown(shutdownCtx)
	slog.Info("Worker stopped")
}
