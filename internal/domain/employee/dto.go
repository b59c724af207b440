package employee

import (
	"strings"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/timecalc"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateEmployeeRequest struct {
	EmployeeNumber   string           `json:"employee_number" validate:"required,max=50"`
	Name             string           `json:"name" validate:"required,max=255"`
	Title            string           `json:"title" validate:"required,max=100"`
	Department       string           `json:"department" validate:"required,max=100"`
	StandardCheckIn  string           `json:"standard_check_in" validate:"omitempty,clock"`
	StandardCheckOut string           `json:"standard_check_out" validate:"omitempty,clock"`
	PayType          string           `json:"pay_type" validate:"omitempty,oneof=SALARIED HOURLY"`
	HourlyRate       *decimal.Decimal `json:"hourly_rate,omitempty"`

	// Optional login account
	Email    string `json:"email" validate:"omitempty,email,max=254"`
	Password string `json:"password" validate:"omitempty,min=8,max=255"`
}

func (r *CreateEmployeeRequest) Validate() error {
	r.EmployeeNumber = strings.TrimSpace(r.EmployeeNumber)
	r.Name = strings.TrimSpace(r.Name)
	r.Department = strings.TrimSpace(r.Department)
	if r.StandardCheckIn == "" {
		r.StandardCheckIn = DefaultCheckIn.String()
	}
	if r.StandardCheckOut == "" {
		r.StandardCheckOut = DefaultCheckOut.String()
	}
	if r.PayType == "" {
		r.PayType = string(PayTypeSalaried)
	}

	errs := validator.Struct(r)

	validateHours(&errs, r.StandardCheckIn, r.StandardCheckOut)
	validatePay(&errs, PayType(r.PayType), r.HourlyRate)

	if (r.Email == "") != (r.Password == "") {
		errs.Add("email", "email and password must be provided together")
	}

	return errs.OrNil()
}

type UpdateEmployeeRequest struct {
	ID               string           `json:"-"`
	EmployeeNumber   *string          `json:"employee_number,omitempty" validate:"omitempty,min=1,max=50"`
	Name             *string          `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Title            *string          `json:"title,omitempty" validate:"omitempty,min=1,max=100"`
	Department       *string          `json:"department,omitempty" validate:"omitempty,min=1,max=100"`
	StandardCheckIn  *string          `json:"standard_check_in,omitempty" validate:"omitempty,clock"`
	StandardCheckOut *string          `json:"standard_check_out,omitempty" validate:"omitempty,clock"`
	IsActive         *bool            `json:"is_active,omitempty"`
	PayType          *string          `json:"pay_type,omitempty" validate:"omitempty,oneof=SALARIED HOURLY"`
	HourlyRate       *decimal.Decimal `json:"hourly_rate,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	errs := validator.Struct(r)
	if !validator.IsValidUUID(r.ID) {
		errs.Add("id", "id must be a valid UUID")
	}
	if r.HourlyRate != nil && !r.HourlyRate.IsPositive() {
		errs.Add("hourly_rate", "hourly_rate must be greater than 0")
	}
	return errs.OrNil()
}

// Apply merges the request into emp and re-validates the combined result.
func (r *UpdateEmployeeRequest) Apply(emp *Employee) error {
	if r.EmployeeNumber != nil {
		emp.EmployeeNumber = strings.TrimSpace(*r.EmployeeNumber)
	}
	if r.Name != nil {
		emp.Name = strings.TrimSpace(*r.Name)
	}
	if r.Title != nil {
		emp.Title = *r.Title
	}
	if r.Department != nil {
		emp.Department = strings.TrimSpace(*r.Department)
	}
	if r.IsActive != nil {
		emp.IsActive = *r.IsActive
	}
	if r.PayType != nil {
		emp.PayType = PayType(*r.PayType)
	}
	if r.HourlyRate != nil {
		emp.HourlyRate = r.HourlyRate
	}

	checkIn, checkOut := emp.StandardCheckIn.String(), emp.StandardCheckOut.String()
	if r.StandardCheckIn != nil {
		checkIn = *r.StandardCheckIn
	}
	if r.StandardCheckOut != nil {
		checkOut = *r.StandardCheckOut
	}

	var errs validator.ValidationErrors
	validateHours(&errs, checkIn, checkOut)
	validatePay(&errs, emp.PayType, emp.HourlyRate)
	if len(errs) > 0 {
		return errs
	}

	emp.StandardCheckIn, _ = timecalc.ParseClock(checkIn)
	emp.StandardCheckOut, _ = timecalc.ParseClock(checkOut)
	return nil
}

func validateHours(errs *validator.ValidationErrors, checkIn, checkOut string) {
	in, inErr := timecalc.ParseClock(checkIn)
	out, outErr := timecalc.ParseClock(checkOut)
	if inErr == nil && outErr == nil && out <= in {
		errs.Add("standard_check_out", "standard_check_out must be after standard_check_in")
	}
}

func validatePay(errs *validator.ValidationErrors, payType PayType, rate *decimal.Decimal) {
	if payType == PayTypeHourly && (rate == nil || !rate.IsPositive()) {
		errs.Add("hourly_rate", "hourly_rate is required and must be greater than 0 for HOURLY employees")
	}
	if rate != nil && rate.IsNegative() {
		errs.Add("hourly_rate", "hourly_rate must not be negative")
	}
}

type EmployeeFilter struct {
	Search     *string `json:"search,omitempty"`
	Department *string `json:"department,omitempty"`
	Active     *bool   `json:"active,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *EmployeeFilter) Validate() error {
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

type EmployeeResponse struct {
	ID               string  `json:"id"`
	UserID           *string `json:"user_id,omitempty"`
	Email            *string `json:"email,omitempty"`
	EmployeeNumber   string  `json:"employee_number"`
	Name             string  `json:"name"`
	Title            string  `json:"title"`
	Department       string  `json:"department"`
	StandardCheckIn  string  `json:"standard_check_in"`
	StandardCheckOut string  `json:"standard_check_out"`
	IsActive         bool    `json:"is_active"`
	PayType          string  `json:"pay_type"`
	HourlyRate       *string `json:"hourly_rate,omitempty"`
	CreatedAt        string  `json:"created_at"`
	UpdatedAt        string  `json:"updated_at"`
}

type ListEmployeeResponse struct {
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
	Showing    string             `json:"showing"`
	Employees  []EmployeeResponse `json:"employees"`
}

// ToResponse maps an Employee to its API representation.
func ToResponse(emp Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:               emp.ID,
		UserID:           emp.UserID,
		Email:            emp.Email,
		EmployeeNumber:   emp.EmployeeNumber,
		Name:             emp.Name,
		Title:            emp.Title,
		Department:       emp.Department,
		StandardCheckIn:  emp.StandardCheckIn.String(),
		StandardCheckOut: emp.StandardCheckOut.String(),
		IsActive:         emp.IsActive,
		PayType:          string(emp.PayType),
		CreatedAt:        emp.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:        emp.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if emp.HourlyRate != nil {
		rate := emp.HourlyRate.StringFixed(2)
		resp.HourlyRate = &rate
	}
	return resp
}
