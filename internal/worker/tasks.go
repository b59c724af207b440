package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskReportArchive renders and stores a month's report exports.
	TaskReportArchive = "report:archive"

	archiveMaxRetry = 3
)

// ArchivePayload identifies the archived period.
type ArchivePayload struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// ArchiveTaskID is deterministic per period, so a period is queued at most once at a time.
func ArchiveTaskID(year, month int) string {
	return fmt.Sprintf("report-archive:%04d-%02d", year, month)
}

// NewArchiveTask constructs an Asynq task for archiving one month.
func NewArchiveTask(year, month int) (*asynq.Task, error) {
	body, err := json.Marshal(ArchivePayload{Year: year, Month: month})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReportArchive, body,
		asynq.TaskID(ArchiveTaskID(year, month)),
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(archiveMaxRetry),
	), nil
}

// Archiver stores both exports of a period.
type Archiver interface {
	StoreArchive(ctx context.Context, req report.ArchiveRequest) ([]string, error)
}

// ArchiveJob processes TaskReportArchive tasks.
type ArchiveJob struct {
	archiver Archiver
	metrics  *metrics.Metrics
}

func NewArchiveJob(archiver Archiver, m *metrics.Metrics) *ArchiveJob {
	return &ArchiveJob{archiver: archiver, metrics: m}
}

// Handle executes the archive job.
func (j *ArchiveJob) Handle(ctx context.Context, task *asynq.Task) error {
	done := j.metrics.TrackJob(TaskReportArchive)

	var payload ArchivePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return done(fmt.Errorf("decode archive payload: %v: %w", err, asynq.SkipRetry))
	}

	paths, err := j.archiver.StoreArchive(ctx, report.ArchiveRequest{Month: payload.Month, Year: payload.Year})
	if err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return done(fmt.Errorf("invalid archive period %d-%02d: %v: %w", payload.Year, payload.Month, err, asynq.SkipRetry))
		}
		slog.Error("report archive failed", "year", payload.Year, "month", payload.Month, "error", err)
		return done(err)
	}

	slog.Info("report archive completed", "year", payload.Year, "month", payload.Month, "files", paths)
	return done(nil)
}
