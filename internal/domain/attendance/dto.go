package attendance

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/timecalc"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// CHECK-IN / CHECK-OUT DTOs
// ========================================

type CheckInRequest struct {
	EmployeeID string `json:"employee_id" validate:"required,uuid"`
	Date       string `json:"date" validate:"omitempty,date"`  // YYYY-MM-DD, defaults to today
	Time       string `json:"time" validate:"omitempty,clock"` // HH:MM, defaults to now
	Status     string `json:"status" validate:"omitempty,oneof=PRESENT EXCUSED SICK ABSENT"`
	Reason     string `json:"reason" validate:"max=500"`
}

func (r *CheckInRequest) Validate() error {
	if r.Status == "" {
		r.Status = string(StatusPresent)
	}
	r.Reason = strings.TrimSpace(r.Reason)

	if err := validator.Struct(r).OrNil(); err != nil {
		return err
	}
	if Status(r.Status).RequiresReason() && r.Reason == "" {
		return ErrReasonRequired
	}
	return nil
}

type CheckOutRequest struct {
	EmployeeID string `json:"employee_id" validate:"required,uuid"`
	Date       string `json:"date" validate:"omitempty,date"`
	Time       string `json:"time" validate:"omitempty,clock"`
}

func (r *CheckOutRequest) Validate() error {
	return validator.Struct(r).OrNil()
}

// UpdateAttendanceRequest is an admin correction of an existing record.
type UpdateAttendanceRequest struct {
	ID       string  `json:"-"`
	CheckIn  *string `json:"check_in,omitempty" validate:"omitempty,clock"`  // HH:MM
	CheckOut *string `json:"check_out,omitempty" validate:"omitempty,clock"` // HH:MM
	Status   *string `json:"status,omitempty" validate:"omitempty,oneof=PRESENT EXCUSED SICK ABSENT"`
	Reason   *string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

func (r *UpdateAttendanceRequest) Validate() error {
	errs := validator.Struct(r)
	if !validator.IsValidUUID(r.ID) {
		errs.Add("id", "id must be a valid UUID")
	}
	if r.CheckIn == nil && r.CheckOut == nil && r.Status == nil && r.Reason == nil {
		errs.Add("request", "at least one field must be provided")
	}
	return errs.OrNil()
}

// Correction converts the validated request into a domain correction.
func (r *UpdateAttendanceRequest) Correction() Correction {
	var c Correction
	if r.CheckIn != nil {
		clock, _ := timecalc.ParseClock(*r.CheckIn)
		c.CheckIn = &clock
	}
	if r.CheckOut != nil {
		clock, _ := timecalc.ParseClock(*r.CheckOut)
		c.CheckOut = &clock
	}
	if r.Status != nil {
		status := Status(*r.Status)
		c.Status = &status
	}
	c.Reason = r.Reason
	return c
}

// ========================================
// HISTORY
// ========================================

type AttendanceFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	StartDate  *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate    *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Month      *int    `json:"month,omitempty"`
	Year       *int    `json:"year,omitempty"`
	Status     *string `json:"status,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Resolved by Validate
	From *timecalc.Date `json:"-"`
	To   *timecalc.Date `json:"-"`
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	// Page validation
	if f.Page < 0 {
		errs.Add("page", "page must be a positive number")
	}
	if f.Page == 0 {
		f.Page = 1
	}

	// Limit validation
	if f.Limit < 0 {
		errs.Add("limit", "limit must be a positive number")
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs.Add("limit", "limit must not exceed 100")
	}

	if f.EmployeeID != nil && !validator.IsValidUUID(*f.EmployeeID) {
		errs.Add("employee_id", "employee_id must be a valid UUID")
	}

	if f.Status != nil && !Status(*f.Status).Valid() {
		errs.Add("status", ErrInvalidStatus.Error())
	}

	// Explicit range wins over month/year
	if f.StartDate != nil || f.EndDate != nil {
		if f.StartDate == nil || f.EndDate == nil {
			errs.Add("start_date", "start_date and end_date must be provided together")
		} else {
			start, startErr := timecalc.ParseDate(*f.StartDate)
			end, endErr := timecalc.ParseDate(*f.EndDate)
			if startErr != nil {
				errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
			}
			if endErr != nil {
				errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
			}
			if startErr == nil && endErr == nil {
				if end.Before(start) {
					errs.Add("end_date", "end_date must not be before start_date")
				}
				f.From, f.To = &start, &end
			}
		}
	} else if f.Month != nil || f.Year != nil {
		if f.Month == nil || f.Year == nil {
			errs.Add("month", "month and year must be provided together")
		} else if !validator.IsValidPeriod(*f.Month, *f.Year) {
			errs.Add("month", "month must be between 1 and 12 and year between 2000 and 2100")
		} else {
			first, last := timecalc.MonthRange(*f.Year, time.Month(*f.Month))
			f.From, f.To = &first, &last
		}
	}

	return errs.OrNil()
}

// ========================================
// RESPONSES
// ========================================

type AttendanceResponse struct {
	ID                string  `json:"id"`
	EmployeeID        string  `json:"employee_id"`
	EmployeeNumber    *string `json:"employee_number,omitempty"`
	EmployeeName      *string `json:"employee_name,omitempty"`
	Department        *string `json:"department,omitempty"`
	Date              string  `json:"date"`
	DateFormatted     string  `json:"date_formatted"`
	CheckIn           *string `json:"check_in,omitempty"`
	CheckOut          *string `json:"check_out,omitempty"`
	CheckInTime       string  `json:"check_in_time"`
	CheckOutTime      string  `json:"check_out_time"`
	Status            string  `json:"status"`
	Reason            *string `json:"reason,omitempty"`
	LateMinutes       int     `json:"late_minutes"`
	OvertimeMinutes   int     `json:"overtime_minutes"`
	WorkedMinutes     int     `json:"worked_minutes"`
	LateFormatted     *string `json:"late_formatted"`
	OvertimeFormatted *string `json:"overtime_formatted"`
	WorkedFormatted   *string `json:"worked_formatted"`
	CreatedAt         string  `json:"created_at"`
	UpdatedAt         string  `json:"updated_at"`
}

// ToResponse renders a record with its instants shown in loc.
func ToResponse(a Attendance, loc *time.Location) AttendanceResponse {
	resp := AttendanceResponse{
		ID:                a.ID,
		EmployeeID:        a.EmployeeID,
		EmployeeNumber:    a.EmployeeNumber,
		EmployeeName:      a.EmployeeName,
		Department:        a.Department,
		Date:              a.Date.String(),
		DateFormatted:     a.Date.Format("02/01/2006"),
		CheckInTime:       "-",
		CheckOutTime:      "-",
		Status:            string(a.Status),
		Reason:            a.Reason,
		LateMinutes:       a.LateMinutes,
		OvertimeMinutes:   a.OvertimeMinutes,
		WorkedMinutes:     a.WorkedMinutes,
		LateFormatted:     formatPositive(a.LateMinutes),
		OvertimeFormatted: formatPositive(a.OvertimeMinutes),
		WorkedFormatted:   formatPositive(a.WorkedMinutes),
		CreatedAt:         a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         a.UpdatedAt.Format(time.RFC3339),
	}
	if a.CheckIn != nil {
		in := a.CheckIn.In(loc)
		ts := in.Format(time.RFC3339)
		resp.CheckIn = &ts
		resp.CheckInTime = in.Format("15:04")
	}
	if a.CheckOut != nil {
		out := a.CheckOut.In(loc)
		ts := out.Format(time.RFC3339)
		resp.CheckOut = &ts
		resp.CheckOutTime = out.Format("15:04")
	}
	return resp
}

func formatPositive(minutes int) *string {
	if minutes <= 0 {
		return nil
	}
	s := timecalc.FormatMinutes(minutes)
	return &s
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Showing     string               `json:"showing"`
	Attendances []AttendanceResponse `json:"attendances"`
}

type TodayStatusResponse struct {
	EmployeeID    string              `json:"employee_id"`
	Date          string              `json:"date"`
	State         string              `json:"state"`
	HasCheckedIn  bool                `json:"has_checked_in"`
	HasCheckedOut bool                `json:"has_checked_out"`
	Attendance    *AttendanceResponse `json:"attendance"`
}

type TodayEmployee struct {
	ID             string `json:"id"`
	EmployeeNumber string `json:"employee_number"`
	Name           string `json:"name"`
	Title          string `json:"title"`
	Department     string `json:"department"`
}

type TodayEntry struct {
	Employee      TodayEmployee       `json:"employee"`
	HasCheckedIn  bool                `json:"has_checked_in"`
	HasCheckedOut bool                `json:"has_checked_out"`
	Attendance    *AttendanceResponse `json:"attendance"`
}

type TodaySummary struct {
	Total       int `json:"total"`
	Present     int `json:"present"`
	Excused     int `json:"excused"`
	Sick        int `json:"sick"`
	Absent      int `json:"absent"`
	Late        int `json:"late"`
	NotRecorded int `json:"not_recorded"`
}

// Count adds one day's record to the summary; nil means not yet recorded.
func (s *TodaySummary) Count(rec *Attendance) {
	s.Total++
	if rec == nil {
		s.NotRecorded++
		return
	}
	switch rec.Status {
	case StatusPresent:
		s.Present++
	case StatusExcused:
		s.Excused++
	case StatusSick:
		s.Sick++
	case StatusAbsent:
		s.Absent++
	}
	if rec.LateMinutes > 0 {
		s.Late++
	}
}

type TodayAttendanceResponse struct {
	Date       string       `json:"date"`
	Summary    TodaySummary `json:"summary"`
	Attendance []TodayEntry `json:"attendance"`
}
