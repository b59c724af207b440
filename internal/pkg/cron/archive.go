package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/storage"
	reportsvc "github.com/cmlabs-hris/attendance-backend-go/internal/service/report"
)

// ReportJobs archives each closed month once, on the first day of the next.
type ReportJobs struct {
	queue reportsvc.ArchiveQueue
	files storage.FileStorage
	loc   *time.Location
	now   func() time.Time
}

func NewReportJobs(queue reportsvc.ArchiveQueue, files storage.FileStorage, loc *time.Location) *ReportJobs {
	return &ReportJobs{
		queue: queue,
		files: files,
		loc:   loc,
		now:   time.Now,
	}
}

func (j *ReportJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("archive_previous_month", 1*time.Hour, j.ArchivePreviousMonth)
}

// ArchivePreviousMonth enqueues the previous month's archive. It only acts on
// the first day of a month and skips periods that are already stored or queued.
func (j *ReportJobs) ArchivePreviousMonth(ctx context.Context) error {
	now := j.now().In(j.loc)
	if now.Day() != 1 {
		return nil
	}

	prev := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, j.loc).AddDate(0, -1, 0)
	year, month := prev.Year(), int(prev.Month())

	stored, err := j.files.Exists(ctx, reportsvc.ArchivePath(year, month, report.FormatPDF))
	if err != nil {
		return fmt.Errorf("failed to check archive for %d-%02d: %w", year, month, err)
	}
	if stored {
		return nil
	}

	taskID, _, err := j.queue.EnqueueArchive(ctx, year, month)
	if errors.Is(err, report.ErrArchiveAlreadyQueued) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to enqueue archive for %d-%02d: %w", year, month, err)
	}

	slog.Info("cron: monthly archive enqueued", "task_id", taskID, "year", year, "month", month)
	return nil
}
