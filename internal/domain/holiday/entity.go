package holiday

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/timecalc"
)

// Holiday is a company-wide day off. It applies to every employee.
type Holiday struct {
	ID          string
	Date        timecalc.Date
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
