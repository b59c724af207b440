package report

import (
	"context"
	"io"
)

// ReportService defines the interface for report generation
type ReportService interface {
	// MonthlyReport aggregates the month's attendance as of now
	MonthlyReport(ctx context.Context, req MonthlyReportRequest) (MonthlyReport, error)

	// Export renders the monthly report as a CSV or PDF file
	Export(ctx context.Context, req MonthlyReportRequest, format Format) (Export, error)

	// EnqueueArchive schedules a background job that stores both exports
	EnqueueArchive(ctx context.Context, req ArchiveRequest) (ArchiveResponse, error)

	// StoreArchive renders both exports of a period and writes them to storage.
	// It is run by the archive job.
	StoreArchive(ctx context.Context, req ArchiveRequest) ([]string, error)

	// OpenArchive streams a stored export
	OpenArchive(ctx context.Context, year, month int, format Format) (io.ReadCloser, string, error)
}
