package holiday

import (
	"context"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/timecalc"
)

type HolidayRepository interface {
	Create(ctx context.Context, h Holiday) (Holiday, error)
	GetByID(ctx context.Context, id string) (Holiday, error)
	Delete(ctx context.Context, id string) error
	ListAll(ctx context.Context) ([]Holiday, error)
	// ListBetween returns holidays from..to inclusive, ordered by date.
	ListBetween(ctx context.Context, from, to timecalc.Date) ([]Holiday, error)
}
