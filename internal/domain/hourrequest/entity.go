package hourrequest

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/timecalc"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// HourRequest is an hourly employee's claim for one month. Details are the
// source of truth; TotalHours is always their sum.
type HourRequest struct {
	ID               string
	EmployeeID       string
	Month            int
	Year             int
	Description      *string
	TotalHours       decimal.Decimal
	Status           Status
	RejectionReason  *string
	ReviewedBy       *string
	ReviewedAt       *time.Time
	CalculatedSalary *decimal.Decimal
	SubmittedAt      time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Details []Detail

	// Join
	EmployeeNumber string
	EmployeeName   string
}

// Detail is one claimed day.
type Detail struct {
	ID              string
	RequestID       string
	Date            timecalc.Date
	CheckIn         *timecalc.Clock
	CheckOut        *timecalc.Clock
	Hours           decimal.Decimal
	TaskDescription *string
}

// SumHours adds up the hours of every detail.
func SumHours(details []Detail) decimal.Decimal {
	total := decimal.Zero
	for _, d := range details {
		total = total.Add(d.Hours)
	}
	return total
}

// HoursBetween converts a same-day clock range into hours, rounded to 2 places.
func HoursBetween(checkIn, checkOut timecalc.Clock) decimal.Decimal {
	minutes := decimal.NewFromInt(int64(checkOut.MinutesAfter(checkIn)))
	return minutes.Div(decimal.NewFromInt(60)).Round(2)
}

// Approve marks the request reviewed. The salary is total hours times rate,
// left nil when the employee has no rate.
func (r *HourRequest) Approve(reviewerID string, at time.Time, rate *decimal.Decimal) error {
	if r.Status != StatusPending {
		return ErrNotPending
	}
	r.Status = StatusApproved
	r.RejectionReason = nil
	r.ReviewedBy = &reviewerID
	r.ReviewedAt = &at
	r.CalculatedSalary = nil
	if rate != nil {
		salary := r.TotalHours.Mul(*rate).Round(2)
		r.CalculatedSalary = &salary
	}
	return nil
}

func (r *HourRequest) Reject(reviewerID, reason string, at time.Time) error {
	if r.Status != StatusPending {
		return ErrNotPending
	}
	r.Status = StatusRejected
	r.RejectionReason = &reason
	r.ReviewedBy = &reviewerID
	r.ReviewedAt = &at
	r.CalculatedSalary = nil
	return nil
}
