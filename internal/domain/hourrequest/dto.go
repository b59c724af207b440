package hourrequest

import (
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/timecalc"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

var maxDayHours = decimal.NewFromInt(24)

type DetailInput struct {
	Date            string           `json:"date" validate:"required,date"`
	CheckIn         *string          `json:"check_in,omitempty" validate:"omitempty,clock"`
	CheckOut        *string          `json:"check_out,omitempty" validate:"omitempty,clock"`
	Hours           *decimal.Decimal `json:"hours,omitempty"`
	TaskDescription *string          `json:"task_description,omitempty" validate:"omitempty,max=500"`
}

type SubmitRequest struct {
	EmployeeID  string        `json:"-"`
	Month       int           `json:"month" validate:"required,gte=1,lte=12"`
	Year        int           `json:"year" validate:"required,gte=2000,lte=2100"`
	Description *string       `json:"description,omitempty" validate:"omitempty,max=1000"`
	Details     []DetailInput `json:"details" validate:"required,min=1,dive"`

	resolved []Detail
}

// Validate checks every detail against the requested month and resolves its
// hours. When both clock times are given the hours are derived from them.
func (r *SubmitRequest) Validate() error {
	errs := validator.Struct(r)
	if len(errs) > 0 {
		return errs
	}

	first, last := timecalc.MonthRange(r.Year, time.Month(r.Month))
	seen := make(map[timecalc.Date]bool, len(r.Details))
	r.resolved = make([]Detail, 0, len(r.Details))

	for i, in := range r.Details {
		field := fmt.Sprintf("details[%d]", i)

		date, err := timecalc.ParseDate(in.Date)
		if err != nil {
			errs.Add(field+".date", "date must be in YYYY-MM-DD format")
			continue
		}
		if date.Before(first) || date.After(last) {
			errs.Add(field+".date", "date must be inside the requested month")
		}
		if seen[date] {
			errs.Add(field+".date", "date is listed more than once")
		}
		seen[date] = true

		detail := Detail{Date: date, TaskDescription: trimmed(in.TaskDescription)}
		if in.CheckIn != nil {
			c, _ := timecalc.ParseClock(*in.CheckIn)
			detail.CheckIn = &c
		}
		if in.CheckOut != nil {
			c, _ := timecalc.ParseClock(*in.CheckOut)
			detail.CheckOut = &c
		}

		switch {
		case detail.CheckIn != nil && detail.CheckOut != nil:
			if *detail.CheckOut <= *detail.CheckIn {
				errs.Add(field+".check_out", "check_out must be after check_in")
				continue
			}
			detail.Hours = HoursBetween(*detail.CheckIn, *detail.CheckOut)
		case in.Hours == nil:
			errs.Add(field+".hours", "hours is required unless both check_in and check_out are given")
			continue
		case !in.Hours.IsPositive() || in.Hours.GreaterThan(maxDayHours):
			errs.Add(field+".hours", "hours must be greater than 0 and at most 24")
			continue
		default:
			detail.Hours = in.Hours.Round(2)
		}

		r.resolved = append(r.resolved, detail)
	}

	return errs.OrNil()
}

// ResolvedDetails returns the details computed by a successful Validate.
func (r *SubmitRequest) ResolvedDetails() []Detail {
	return r.resolved
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

type ReviewRequest struct {
	ID         string  `json:"-"`
	ReviewerID string  `json:"-"`
	Action     string  `json:"action" validate:"required,oneof=approve reject"`
	Reason     *string `json:"reason,omitempty" validate:"omitempty,max=1000"`
}

func (r *ReviewRequest) Validate() error {
	errs := validator.Struct(r)
	if !validator.IsValidUUID(r.ID) {
		errs.Add("id", "id must be a valid UUID")
	}
	r.Reason = trimmed(r.Reason)
	if r.Action == ActionReject && r.Reason == nil {
		errs.Add("reason", "reason is required when rejecting")
	}
	return errs.OrNil()
}

// Viewer identifies who is reading a request.
type Viewer struct {
	EmployeeID *string
	IsAdmin    bool
}

type PendingFilter struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *PendingFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs.Add("page", "page must be a positive number")
	}
	if f.Page == 0 {
		f.Page = 1
	}

	if f.Limit < 0 {
		errs.Add("limit", "limit must be a positive number")
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs.Add("limit", "limit must not exceed 100")
	}

	return errs.OrNil()
}

type DetailResponse struct {
	ID              string  `json:"id"`
	Date            string  `json:"date"`
	CheckIn         *string `json:"check_in"`
	CheckOut        *string `json:"check_out"`
	Hours           string  `json:"hours"`
	TaskDescription *string `json:"task_description"`
}

type HourRequestResponse struct {
	ID               string           `json:"id"`
	EmployeeID       string           `json:"employee_id"`
	EmployeeNumber   string           `json:"employee_number,omitempty"`
	EmployeeName     string           `json:"employee_name,omitempty"`
	Month            int              `json:"month"`
	Year             int              `json:"year"`
	Period           string           `json:"period"`
	Description      *string          `json:"description"`
	TotalHours       string           `json:"total_hours"`
	Status           string           `json:"status"`
	RejectionReason  *string          `json:"rejection_reason"`
	ReviewedBy       *string          `json:"reviewed_by"`
	ReviewedAt       *string          `json:"reviewed_at"`
	CalculatedSalary *string          `json:"calculated_salary"`
	SubmittedAt      string           `json:"submitted_at"`
	Details          []DetailResponse `json:"details"`
}

type ListHourRequestResponse struct {
	TotalCount int64                 `json:"total_count"`
	Page       int                   `json:"page"`
	Limit      int                   `json:"limit"`
	TotalPages int                   `json:"total_pages"`
	Showing    string                `json:"showing"`
	Requests   []HourRequestResponse `json:"requests"`
}

func ToResponse(r HourRequest) HourRequestResponse {
	resp := HourRequestResponse{
		ID:              r.ID,
		EmployeeID:      r.EmployeeID,
		EmployeeNumber:  r.EmployeeNumber,
		EmployeeName:    r.EmployeeName,
		Month:           r.Month,
		Year:            r.Year,
		Period:          time.Date(r.Year, time.Month(r.Month), 1, 0, 0, 0, 0, time.UTC).Format("January 2006"),
		Description:     r.Description,
		TotalHours:      r.TotalHours.StringFixed(2),
		Status:          string(r.Status),
		RejectionReason: r.RejectionReason,
		ReviewedBy:      r.ReviewedBy,
		SubmittedAt:     r.SubmittedAt.Format(time.RFC3339),
		Details:         make([]DetailResponse, 0, len(r.Details)),
	}
	if r.ReviewedAt != nil {
		at := r.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &at
	}
	if r.CalculatedSalary != nil {
		salary := r.CalculatedSalary.StringFixed(2)
		resp.CalculatedSalary = &salary
	}

	for _, d := range r.Details {
		dr := DetailResponse{
			ID:              d.ID,
			Date:            d.Date.String(),
			Hours:           d.Hours.StringFixed(2),
			TaskDescription: d.TaskDescription,
		}
		if d.CheckIn != nil {
			s := d.CheckIn.String()
			dr.CheckIn = &s
		}
		if d.CheckOut != nil {
			s := d.CheckOut.String()
			dr.CheckOut = &s
		}
		resp.Details = append(resp.Details, dr)
	}
	return resp
}
