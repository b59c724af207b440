package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/holiday"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/timecalc"
	"golang.org/x/sync/singleflight"
)

// ArchiveQueue hands archive jobs to the background worker.
type ArchiveQueue interface {
	EnqueueArchive(ctx context.Context, year, month int) (taskID string, queue string, err error)
}

type ReportServiceImpl struct {
	employeeRepo   employee.EmployeeRepository
	holidayRepo    holiday.HolidayRepository
	attendanceRepo attendance.AttendanceRepository
	files          storage.FileStorage
	queue          ArchiveQueue
	metrics        *metrics.Metrics
	loc            *time.Location
	now            func() time.Time

	inflight singleflight.Group
}

func NewReportService(
	employeeRepo employee.EmployeeRepository,
	holidayRepo holiday.HolidayRepository,
	attendanceRepo attendance.AttendanceRepository,
	files storage.FileStorage,
	queue ArchiveQueue,
	m *metrics.Metrics,
	loc *time.Location,
) report.ReportService {
	return &ReportServiceImpl{
		employeeRepo:   employeeRepo,
		holidayRepo:    holidayRepo,
		attendanceRepo: attendanceRepo,
		files:          files,
		queue:          queue,
		metrics:        m,
		loc:            loc,
		now:            time.Now,
	}
}

// ArchivePath is where the archive job stores an export of the period.
func ArchivePath(year, month int, format report.Format) string {
	return fmt.Sprintf("reports/%04d-%02d/%s", year, month, ExportFilename(month, year, format))
}

func (s *ReportServiceImpl) defaultPeriod(req *report.MonthlyReportRequest) {
	now := s.now().In(s.loc)
	if req.Month == 0 {
		req.Month = int(now.Month())
	}
	if req.Year == 0 {
		req.Year = now.Year()
	}
}

// MonthlyReport implements report.ReportService.
func (s *ReportServiceImpl) MonthlyReport(ctx context.Context, req report.MonthlyReportRequest) (report.MonthlyReport, error) {
	s.defaultPeriod(&req)
	if err := req.Validate(); err != nil {
		return report.MonthlyReport{}, err
	}

	asOf := s.now().In(s.loc)
	return s.shared(ctx, req, asOf)
}

// shared coalesces identical concurrent report computations. The key holds
// every input of the computation, including the as-of date.
func (s *ReportServiceImpl) shared(ctx context.Context, req report.MonthlyReportRequest, asOf time.Time) (report.MonthlyReport, error) {
	key := fmt.Sprintf("%04d-%02d|emp=%s|dept=%s|asof=%s",
		req.Year, req.Month, deref(req.EmployeeID), deref(req.Department), timecalc.DateOf(asOf))

	resultChan := s.inflight.DoChan(key, func() (interface{}, error) {
		start := time.Now()
		rep, err := s.build(context.WithoutCancel(ctx), req, asOf)
		if err == nil {
			s.metrics.ObserveReport("json", time.Since(start))
		}
		return rep, err
	})

	select {
	case <-ctx.Done():
		return report.MonthlyReport{}, ctx.Err()
	case res := <-resultChan:
		if res.Err != nil {
			return report.MonthlyReport{}, res.Err
		}
		if res.Shared {
			s.metrics.ReportShared()
		}
		return res.Val.(report.MonthlyReport), nil
	}
}

func (s *ReportServiceImpl) build(ctx context.Context, req report.MonthlyReportRequest, asOf time.Time) (report.MonthlyReport, error) {
	month := time.Month(req.Month)
	first, last := timecalc.MonthRange(req.Year, month)

	employees, err := s.employeeRepo.ListActive(ctx, employee.ActiveFilter{
		EmployeeID: req.EmployeeID,
		Department: req.Department,
	})
	if err != nil {
		return report.MonthlyReport{}, fmt.Errorf("failed to list active employees: %w", err)
	}

	holidays, err := s.holidayRepo.ListBetween(ctx, first, last)
	if err != nil {
		return report.MonthlyReport{}, fmt.Errorf("failed to list holidays: %w", err)
	}

	var records []attendance.Attendance
	if len(employees) > 0 {
		ids := make([]string, 0, len(employees))
		for _, emp := range employees {
			ids = append(ids, emp.ID)
		}
		records, err = s.attendanceRepo.ListByRange(ctx, first, last, ids)
		if err != nil {
			return report.MonthlyReport{}, fmt.Errorf("failed to list attendance for %s: %w", PeriodLabel(req.Year, month), err)
		}
	}

	return Assemble(Input{
		Year:      req.Year,
		Month:     month,
		Employees: employees,
		Holidays:  holidays,
		Records:   records,
		AsOf:      asOf,
	}), nil
}

func (s *ReportServiceImpl) render(rep report.MonthlyReport, format report.Format) ([]byte, error) {
	start := time.Now()
	var buf bytes.Buffer

	var err error
	switch format {
	case report.FormatCSV:
		err = WriteCSV(&buf, rep)
	case report.FormatPDF:
		err = WritePDF(&buf, rep, s.now().In(s.loc))
	default:
		return nil, report.ErrInvalidFormat
	}
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveReport(string(format), time.Since(start))
	return buf.Bytes(), nil
}

// Export implements report.ReportService.
func (s *ReportServiceImpl) Export(ctx context.Context, req report.MonthlyReportRequest, format report.Format) (report.Export, error) {
	if _, err := report.ParseFormat(string(format)); err != nil {
		return report.Export{}, err
	}

	rep, err := s.MonthlyReport(ctx, req)
	if err != nil {
		return report.Export{}, err
	}

	content, err := s.render(rep, format)
	if err != nil {
		return report.Export{}, err
	}

	return report.Export{
		Filename:    ExportFilename(rep.Month, rep.Year, format),
		ContentType: format.ContentType(),
		Content:     content,
	}, nil
}

// EnqueueArchive implements report.ReportService.
func (s *ReportServiceImpl) EnqueueArchive(ctx context.Context, req report.ArchiveRequest) (report.ArchiveResponse, error) {
	if err := req.ValidateClosed(timecalc.DateOf(s.now().In(s.loc))); err != nil {
		return report.ArchiveResponse{}, err
	}
	if s.queue == nil {
		return report.ArchiveResponse{}, errors.New("archive queue is not configured")
	}

	taskID, queue, err := s.queue.EnqueueArchive(ctx, req.Year, req.Month)
	if err != nil {
		return report.ArchiveResponse{}, err
	}

	slog.Info("report archive enqueued", "task_id", taskID, "year", req.Year, "month", req.Month)
	return report.ArchiveResponse{
		TaskID: taskID,
		Queue:  queue,
		Month:  req.Month,
		Year:   req.Year,
	}, nil
}

// StoreArchive implements report.ReportService.
func (s *ReportServiceImpl) StoreArchive(ctx context.Context, req report.ArchiveRequest) ([]string, error) {
	asOf := s.now().In(s.loc)
	if err := req.ValidateClosed(timecalc.DateOf(asOf)); err != nil {
		return nil, err
	}

	rep, err := s.build(ctx, report.MonthlyReportRequest{Month: req.Month, Year: req.Year}, asOf)
	if err != nil {
		return nil, err
	}

	// Render everything before writing so a render failure stores nothing.
	// The PDF goes last: its presence marks the period as archived.
	formats := []report.Format{report.FormatCSV, report.FormatPDF}
	contents := make([][]byte, len(formats))
	for i, format := range formats {
		if contents[i], err = s.render(rep, format); err != nil {
			return nil, err
		}
	}

	paths := make([]string, 0, len(formats))
	for i, format := range formats {
		path, err := s.files.Upload(ctx, bytes.NewReader(contents[i]), ArchivePath(req.Year, req.Month, format), format.ContentType())
		if err != nil {
			s.discard(paths)
			return nil, fmt.Errorf("failed to store %s archive: %w", format, err)
		}
		paths = append(paths, path)
	}

	slog.Info("report archive stored", "year", req.Year, "month", req.Month, "files", paths)
	return paths, nil
}

// discard removes the files of a partially stored archive.
func (s *ReportServiceImpl) discard(paths []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, path := range paths {
		if err := s.files.Delete(ctx, path); err != nil {
			slog.Error("failed to discard partial archive", "path", path, "error", err)
		}
	}
}

// OpenArchive implements report.ReportService.
func (s *ReportServiceImpl) OpenArchive(ctx context.Context, year, month int, format report.Format) (io.ReadCloser, string, error) {
	req := report.ArchiveRequest{Month: month, Year: year}
	if err := req.Validate(); err != nil {
		return nil, "", err
	}
	if _, err := report.ParseFormat(string(format)); err != nil {
		return nil, "", err
	}

	rc, err := s.files.Download(ctx, ArchivePath(year, month, format))
	if err != nil {
		if errors.Is(err, storage.ErrFileNotFound) {
			return nil, "", report.ErrArchiveNotFound
		}
		return nil, "", err
	}
	return rc, ExportFilename(month, year, format), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
