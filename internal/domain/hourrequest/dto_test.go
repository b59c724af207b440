package hourrequest_test

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/hourrequest"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestSubmitRequestDerivesHoursFromClockTimes(t *testing.T) {
	req := hourrequest.SubmitRequest{
		Month: 10,
		Year:  2026,
		Details: []hourrequest.DetailInput{
			{Date: "2026-10-01", CheckIn: strPtr("09:00"), CheckOut: strPtr("13:20"), Hours: decPtr("99")},
			{Date: "2026-10-02", Hours: decPtr("7.5")},
		},
	}

	require.NoError(t, req.Validate())

	details := req.ResolvedDetails()
	require.Len(t, details, 2)
	assert.Equal(t, "4.33", details[0].Hours.StringFixed(2))
	assert.Equal(t, "7.50", details[1].Hours.StringFixed(2))
	assert.Equal(t, "11.83", hourrequest.SumHours(details).StringFixed(2))
}

func TestSubmitRequestRejectsInvalidDetails(t *testing.T) {
	tests := []struct {
		name   string
		detail []hourrequest.DetailInput
		field  string
	}{
		{"no details", nil, "details"},
		{"outside month", []hourrequest.DetailInput{{Date: "2026-11-01", Hours: decPtr("2")}}, "details[0].date"},
		{"missing hours", []hourrequest.DetailInput{{Date: "2026-10-01", CheckIn: strPtr("09:00")}}, "details[0].hours"},
		{"zero hours", []hourrequest.DetailInput{{Date: "2026-10-01", Hours: decPtr("0")}}, "details[0].hours"},
		{"too many hours", []hourrequest.DetailInput{{Date: "2026-10-01", Hours: decPtr("24.5")}}, "details[0].hours"},
		{"check out before check in", []hourrequest.DetailInput{{Date: "2026-10-01", CheckIn: strPtr("13:00"), CheckOut: strPtr("09:00")}}, "details[0].check_out"},
		{"duplicate date", []hourrequest.DetailInput{
			{Date: "2026-10-01", Hours: decPtr("2")},
			{Date: "2026-10-01", Hours: decPtr("3")},
		}, "details[1].date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := hourrequest.SubmitRequest{Month: 10, Year: 2026, Details: tt.detail}
			err := req.Validate()

			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Contains(t, verrs.ToMap(), tt.field)
		})
	}
}

func TestReviewRequestRequiresReasonOnReject(t *testing.T) {
	req := hourrequest.ReviewRequest{ID: "7b0e4b5e-4a59-4a5e-9f3c-1d2e3f4a5b6c", Action: hourrequest.ActionReject, Reason: strPtr("  ")}

	var verrs validator.ValidationErrors
	require.ErrorAs(t, req.Validate(), &verrs)
	assert.Contains(t, verrs.ToMap(), "reason")

	req.Action = hourrequest.ActionApprove
	assert.NoError(t, req.Validate())
}

func TestApproveCalculatesSalary(t *testing.T) {
	at := time.Date(2026, time.November, 2, 10, 0, 0, 0, time.UTC)

	req := hourrequest.HourRequest{Status: hourrequest.StatusPending, TotalHours: decimal.RequireFromString("12.5")}
	require.NoError(t, req.Approve("admin-1", at, decPtr("50000")))
	assert.Equal(t, hourrequest.StatusApproved, req.Status)
	require.NotNil(t, req.CalculatedSalary)
	assert.Equal(t, "625000.00", req.CalculatedSalary.StringFixed(2))
	assert.Equal(t, "admin-1", *req.ReviewedBy)

	assert.ErrorIs(t, req.Reject("admin-1", "late", at), hourrequest.ErrNotPending)

	noRate := hourrequest.HourRequest{Status: hourrequest.StatusPending, TotalHours: decimal.NewFromInt(3)}
	require.NoError(t, noRate.Approve("admin-1", at, nil))
	assert.Nil(t, noRate.CalculatedSalary)
}

func TestRejectClearsSalary(t *testing.T) {
	at := time.Date(2026, time.November, 2, 10, 0, 0, 0, time.UTC)

	req := hourrequest.HourRequest{Status: hourrequest.StatusPending}
	require.NoError(t, req.Reject("admin-1", "missing timesheet", at))
	assert.Equal(t, hourrequest.StatusRejected, req.Status)
	assert.Equal(t, "missing timesheet", *req.RejectionReason)
	assert.Nil(t, req.CalculatedSalary)
}
