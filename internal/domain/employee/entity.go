package employee

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/timecalc"
	"github.com/shopspring/decimal"
)

type PayType string

const (
	PayTypeSalaried PayType = "SALARIED"
	PayTypeHourly   PayType = "HOURLY" // paid per approved hour through monthly hour requests
)

func (p PayType) Valid() bool {
	return p == PayTypeSalaried || p == PayTypeHourly
}

const (
	DefaultCheckIn  = timecalc.Clock(8 * 60)
	DefaultCheckOut = timecalc.Clock(17 * 60)
)

type Employee struct {
	ID               string
	UserID           *string
	EmployeeNumber   string
	Name             string
	Title            string
	Department       string
	StandardCheckIn  timecalc.Clock
	StandardCheckOut timecalc.Clock
	IsActive         bool
	PayType          PayType
	HourlyRate       *decimal.Decimal
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Join
	Email *string
}

func (e *Employee) IsHourly() bool {
	return e.PayType == PayTypeHourly
}
