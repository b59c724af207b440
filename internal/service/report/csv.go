package report

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
)

const (
	csvFlushEvery = 200
	csvBufferSize = 32 * 1024
)

// CSVHeader is the fixed column order of the CSV export.
var CSVHeader = []string{
	"Employee Number",
	"Name",
	"Title",
	"Department",
	"Working Days",
	"Present",
	"Excused",
	"Sick",
	"Absent",
	"Total Late (minutes)",
	"Total Overtime (minutes)",
	"Total Worked (minutes)",
	"Attendance Percentage",
}

type csvStreamer struct {
	buf          *bufio.Writer
	csv          *csv.Writer
	flushEvery   int
	pendingLines int
}

func newCSVStreamer(w io.Writer) *csvStreamer {
	buf := bufio.NewWriterSize(w, csvBufferSize)
	writer := csv.NewWriter(buf)
	writer.UseCRLF = true
	return &csvStreamer{buf: buf, csv: writer, flushEvery: csvFlushEvery}
}

func (s *csvStreamer) writeRow(row []string) error {
	if err := s.csv.Write(row); err != nil {
		return err
	}
	s.pendingLines++
	if s.flushEvery > 0 && s.pendingLines >= s.flushEvery {
		return s.Flush()
	}
	return nil
}

func (s *csvStreamer) Flush() error {
	s.csv.Flush()
	if err := s.csv.Error(); err != nil {
		return err
	}
	if err := s.buf.Flush(); err != nil {
		return err
	}
	s.pendingLines = 0
	return nil
}

// WriteCSV renders one row per employee under CSVHeader.
func WriteCSV(w io.Writer, rep report.MonthlyReport) error {
	streamer := newCSVStreamer(w)
	if err := streamer.writeRow(CSVHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range rep.Report {
		if err := streamer.writeRow(csvRecord(row)); err != nil {
			return fmt.Errorf("failed to write csv row for %s: %w", row.EmployeeNumber, err)
		}
	}
	return streamer.Flush()
}

func csvRecord(row report.EmployeeRow) []string {
	return []string{
		row.EmployeeNumber,
		row.Name,
		row.Title,
		row.Department,
		strconv.Itoa(row.WorkingDays),
		strconv.Itoa(row.Present),
		strconv.Itoa(row.Excused),
		strconv.Itoa(row.Sick),
		strconv.Itoa(row.Absent),
		strconv.Itoa(row.TotalLateMinutes),
		strconv.Itoa(row.TotalOvertimeMinutes),
		strconv.Itoa(row.TotalWorkedMinutes),
		strconv.Itoa(row.AttendancePercentage) + "%",
	}
}

// ExportFilename is "attendance-report-{month}-{year}.{ext}".
func ExportFilename(month, year int, format report.Format) string {
	return fmt.Sprintf("attendance-report-%d-%d.%s", month, year, format)
}
