package holiday

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/timecalc"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

type CreateHolidayRequest struct {
	Date        string `json:"date" validate:"required,date"`
	Description string `json:"description" validate:"required,max=255"`
}

func (r *CreateHolidayRequest) Validate() error {
	r.Description = strings.TrimSpace(r.Description)
	return validator.Struct(r).OrNil()
}

// HolidayFilter selects a whole year, or one month of it.
type HolidayFilter struct {
	Year  *int `json:"year,omitempty"`
	Month *int `json:"month,omitempty"`
}

func (f *HolidayFilter) Validate() error {
	var errs validator.ValidationErrors
	if f.Month != nil && f.Year == nil {
		errs.Add("year", "year is required when month is provided")
	}
	if f.Year != nil && (*f.Year < 2000 || *f.Year > 2100) {
		errs.Add("year", "year must be between 2000 and 2100")
	}
	if f.Month != nil && (*f.Month < 1 || *f.Month > 12) {
		errs.Add("month", "month must be between 1 and 12")
	}
	return errs.OrNil()
}

// Range resolves the filter into an inclusive date range. ok is false when
// no year is set and every holiday should be listed.
func (f HolidayFilter) Range() (from, to timecalc.Date, ok bool) {
	if f.Year == nil {
		return timecalc.Date{}, timecalc.Date{}, false
	}
	if f.Month != nil {
		from, to = timecalc.MonthRange(*f.Year, time.Month(*f.Month))
		return from, to, true
	}
	from, _ = timecalc.MonthRange(*f.Year, time.January)
	_, to = timecalc.MonthRange(*f.Year, time.December)
	return from, to, true
}

type HolidayResponse struct {
	ID            string `json:"id"`
	Date          string `json:"date"`
	DateFormatted string `json:"date_formatted"`
	Description   string `json:"description"`
	CreatedAt     string `json:"created_at"`
}

func ToResponse(h Holiday) HolidayResponse {
	return HolidayResponse{
		ID:            h.ID,
		Date:          h.Date.String(),
		DateFormatted: h.Date.Format("02/01/2006"),
		Description:   h.Description,
		CreatedAt:     h.CreatedAt.Format(time.RFC3339),
	}
}
