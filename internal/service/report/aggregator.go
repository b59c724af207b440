package report

import (
	"math"
	"sort"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/holiday"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/timecalc"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// HolidaySet is the set of holiday dates of a period.
type HolidaySet map[timecalc.Date]struct{}

func NewHolidaySet(holidays []holiday.Holiday) HolidaySet {
	set := make(HolidaySet, len(holidays))
	for _, h := range holidays {
		set[h.Date] = struct{}{}
	}
	return set
}

func (s HolidaySet) Contains(d timecalc.Date) bool {
	_, ok := s[d]
	return ok
}

// WorkingDays returns the month's dates that are neither weekend days nor
// holidays, in calendar order.
func WorkingDays(year int, month time.Month, holidays HolidaySet) []timecalc.Date {
	days := make([]timecalc.Date, 0, 23)
	for _, d := range timecalc.DaysIn(timecalc.MonthRange(year, month)) {
		if d.IsWeekend() || holidays.Contains(d) {
			continue
		}
		days = append(days, d)
	}
	return days
}

// RecordKey identifies the single record an employee may have on a date.
type RecordKey struct {
	EmployeeID string
	Date       timecalc.Date
}

// RecordIndex maps (employee, date) to that day's record.
type RecordIndex map[RecordKey]attendance.Attendance

func NewRecordIndex(records []attendance.Attendance) RecordIndex {
	index := make(RecordIndex, len(records))
	for _, rec := range records {
		index[RecordKey{EmployeeID: rec.EmployeeID, Date: rec.Date}] = rec
	}
	return index
}

func (idx RecordIndex) Lookup(employeeID string, d timecalc.Date) (attendance.Attendance, bool) {
	rec, ok := idx[RecordKey{EmployeeID: employeeID, Date: d}]
	return rec, ok
}

// Summarize walks every working day of one employee. Days without a record
// strictly before today count as absent; today and later days count nowhere.
func Summarize(emp employee.Employee, workingDays []timecalc.Date, index RecordIndex, today timecalc.Date) report.EmployeeRow {
	row := report.EmployeeRow{
		EmployeeID:     emp.ID,
		EmployeeNumber: emp.EmployeeNumber,
		Name:           emp.Name,
		Title:          emp.Title,
		Department:     emp.Department,
		WorkingDays:    len(workingDays),
	}

	for _, day := range workingDays {
		rec, ok := index.Lookup(emp.ID, day)
		if !ok {
			if day.Before(today) {
				row.Absent++
			}
			continue
		}

		switch rec.Status {
		case attendance.StatusPresent:
			row.Present++
			if rec.LateMinutes > 0 {
				row.LateCount++
				row.TotalLateMinutes += rec.LateMinutes
			}
			if rec.OvertimeMinutes > 0 {
				row.TotalOvertimeMinutes += rec.OvertimeMinutes
			}
			if rec.WorkedMinutes > 0 {
				row.TotalWorkedMinutes += rec.WorkedMinutes
			}
		case attendance.StatusExcused:
			row.Excused++
		case attendance.StatusSick:
			row.Sick++
		case attendance.StatusAbsent:
			row.Absent++
		}
	}

	row.LateFormatted = timecalc.FormatMinutes(row.TotalLateMinutes)
	row.OvertimeFormatted = timecalc.FormatMinutes(row.TotalOvertimeMinutes)
	row.WorkedFormatted = timecalc.FormatMinutes(row.TotalWorkedMinutes)
	row.AttendancePercentage = Percentage(row.Present, row.WorkingDays)
	return row
}

// Percentage returns round(part/total*100), or 0 when total is 0.
func Percentage(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

// Input is everything one monthly report is computed from. Employees must
// already be filtered to the active set the report covers.
type Input struct {
	Year      int
	Month     time.Month
	Employees []employee.Employee
	Holidays  []holiday.Holiday
	Records   []attendance.Attendance
	// AsOf decides absence-by-inference; its civil date is taken in its own location.
	AsOf time.Time
}

// Assemble computes the monthly report. It is deterministic for a given input.
func Assemble(in Input) report.MonthlyReport {
	holidays := NewHolidaySet(in.Holidays)
	workingDays := WorkingDays(in.Year, in.Month, holidays)
	index := NewRecordIndex(in.Records)
	today := timecalc.DateOf(in.AsOf)

	rows := make([]report.EmployeeRow, 0, len(in.Employees))
	for _, emp := range in.Employees {
		rows = append(rows, Summarize(emp, workingDays, index, today))
	}
	sortRows(rows)

	summary := report.Summary{
		WorkingDays:    len(workingDays),
		Holidays:       len(in.Holidays),
		TotalEmployees: len(rows),
	}
	for _, row := range rows {
		summary.TotalPresent += row.Present
		summary.TotalExcused += row.Excused
		summary.TotalSick += row.Sick
		summary.TotalAbsent += row.Absent
		summary.TotalLateMinutes += row.TotalLateMinutes
		summary.TotalOvertimeMinutes += row.TotalOvertimeMinutes
		summary.TotalWorkedMinutes += row.TotalWorkedMinutes
	}

	entries := make([]report.HolidayEntry, 0, len(in.Holidays))
	sortedHolidays := append([]holiday.Holiday(nil), in.Holidays...)
	sort.SliceStable(sortedHolidays, func(i, j int) bool {
		return sortedHolidays[i].Date.Before(sortedHolidays[j].Date)
	})
	for _, h := range sortedHolidays {
		entries = append(entries, report.HolidayEntry{
			Date:        h.Date.Format("02/01/2006"),
			Description: h.Description,
		})
	}

	return report.MonthlyReport{
		Period:   PeriodLabel(in.Year, in.Month),
		Month:    int(in.Month),
		Year:     in.Year,
		Summary:  summary,
		Holidays: entries,
		Report:   rows,
	}
}

// PeriodLabel formats a month as "October 2026".
func PeriodLabel(year int, month time.Month) string {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Format("January 2006")
}

// sortRows orders rows by name, case-insensitively, with employee number
// and id as tie-breakers so the order is total.
func sortRows(rows []report.EmployeeRow) {
	c := collate.New(language.Und, collate.IgnoreCase)
	sort.SliceStable(rows, func(i, j int) bool {
		if cmp := c.CompareString(rows[i].Name, rows[j].Name); cmp != 0 {
			return cmp < 0
		}
		if rows[i].EmployeeNumber != rows[j].EmployeeNumber {
			return rows[i].EmployeeNumber < rows[j].EmployeeNumber
		}
		return rows[i].EmployeeID < rows[j].EmployeeID
	})
}
