package report

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/timecalc"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// MONTHLY ATTENDANCE REPORT
// ========================================

type MonthlyReportRequest struct {
	Month      int     `json:"month"`
	Year       int     `json:"year"`
	EmployeeID *string `json:"employee_id,omitempty"`
	Department *string `json:"department,omitempty"`
}

func (r *MonthlyReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Month < 1 || r.Month > 12 {
		errs.Add("month", ErrInvalidMonth.Error())
	}
	if r.Year < 2000 || r.Year > 2100 {
		errs.Add("year", ErrInvalidYear.Error())
	}
	if r.EmployeeID != nil && !validator.IsValidUUID(*r.EmployeeID) {
		errs.Add("employee_id", "employee_id must be a valid UUID")
	}

	return errs.OrNil()
}

type MonthlyReport struct {
	Period   string         `json:"period"`
	Month    int            `json:"month"`
	Year     int            `json:"year"`
	Summary  Summary        `json:"summary"`
	Holidays []HolidayEntry `json:"holidays"`
	Report   []EmployeeRow  `json:"report"`
}

// Summary sums every employee row of the period.
type Summary struct {
	WorkingDays          int `json:"working_days"`
	Holidays             int `json:"holidays"`
	TotalEmployees       int `json:"total_employees"`
	TotalPresent         int `json:"total_present"`
	TotalExcused         int `json:"total_excused"`
	TotalSick            int `json:"total_sick"`
	TotalAbsent          int `json:"total_absent"`
	TotalLateMinutes     int `json:"total_late_minutes"`
	TotalOvertimeMinutes int `json:"total_overtime_minutes"`
	TotalWorkedMinutes   int `json:"total_worked_minutes"`
}

type HolidayEntry struct {
	Date        string `json:"date"` // dd/mm/yyyy
	Description string `json:"description"`
}

type EmployeeRow struct {
	EmployeeID           string `json:"employee_id"`
	EmployeeNumber       string `json:"employee_number"`
	Name                 string `json:"name"`
	Title                string `json:"title"`
	Department           string `json:"department"`
	WorkingDays          int    `json:"working_days"`
	Present              int    `json:"present"`
	Excused              int    `json:"excused"`
	Sick                 int    `json:"sick"`
	Absent               int    `json:"absent"`
	LateCount            int    `json:"late_count"`
	TotalLateMinutes     int    `json:"total_late_minutes"`
	TotalOvertimeMinutes int    `json:"total_overtime_minutes"`
	TotalWorkedMinutes   int    `json:"total_worked_minutes"`
	LateFormatted        string `json:"late_formatted"`
	OvertimeFormatted    string `json:"overtime_formatted"`
	WorkedFormatted      string `json:"worked_formatted"`
	AttendancePercentage int    `json:"attendance_percentage"`
}

// ========================================
// EXPORTS & ARCHIVES
// ========================================

type Format string

const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV, FormatPDF:
		return Format(s), nil
	default:
		return "", ErrInvalidFormat
	}
}

func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatPDF:
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// Export is a rendered report file.
type Export struct {
	Filename    string
	ContentType string
	Content     []byte
}

type ArchiveRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (r *ArchiveRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.Month < 1 || r.Month > 12 {
		errs.Add("month", ErrInvalidMonth.Error())
	}
	if r.Year < 2000 || r.Year > 2100 {
		errs.Add("year", ErrInvalidYear.Error())
	}
	return errs.OrNil()
}

// ValidateClosed also requires the period's last day to be before today;
// archives are final.
func (r *ArchiveRequest) ValidateClosed(today timecalc.Date) error {
	if err := r.Validate(); err != nil {
		return err
	}
	_, last := timecalc.MonthRange(r.Year, time.Month(r.Month))
	if !last.Before(today) {
		var errs validator.ValidationErrors
		errs.Add("month", ErrPeriodNotClosed.Error())
		return errs
	}
	return nil
}

type ArchiveResponse struct {
	TaskID string `json:"task_id"`
	Queue  string `json:"queue"`
	Month  int    `json:"month"`
	Year   int    `json:"year"`
}
