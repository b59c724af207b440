package holiday

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/holiday"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/timecalc"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

type HolidayServiceImpl struct {
	holiday.HolidayRepository
}

func NewHolidayService(holidayRepository holiday.HolidayRepository) holiday.HolidayService {
	return &HolidayServiceImpl{HolidayRepository: holidayRepository}
}

// ListHolidays implements holiday.HolidayService.
func (h *HolidayServiceImpl) ListHolidays(ctx context.Context, filter holiday.HolidayFilter) ([]holiday.HolidayResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	var (
		holidays []holiday.Holiday
		err      error
	)
	if from, to, ok := filter.Range(); ok {
		holidays, err = h.HolidayRepository.ListBetween(ctx, from, to)
	} else {
		holidays, err = h.HolidayRepository.ListAll(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}

	responses := make([]holiday.HolidayResponse, 0, len(holidays))
	for _, hol := range holidays {
		responses = append(responses, holiday.ToResponse(hol))
	}
	return responses, nil
}

// CreateHoliday implements holiday.HolidayService.
func (h *HolidayServiceImpl) CreateHoliday(ctx context.Context, req holiday.CreateHolidayRequest) (holiday.HolidayResponse, error) {
	if err := req.Validate(); err != nil {
		return holiday.HolidayResponse{}, err
	}

	date, _ := timecalc.ParseDate(req.Date)
	created, err := h.HolidayRepository.Create(ctx, holiday.Holiday{
		Date:        date,
		Description: req.Description,
	})
	if err != nil {
		return holiday.HolidayResponse{}, err
	}

	slog.Info("holiday created", "holiday_id", created.ID, "date", created.Date.String())
	return holiday.ToResponse(created), nil
}

// DeleteHoliday implements holiday.HolidayService.
func (h *HolidayServiceImpl) DeleteHoliday(ctx context.Context, id string) error {
	if !validator.IsValidUUID(id) {
		return holiday.ErrHolidayNotFound
	}
	if err := h.HolidayRepository.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("holiday deleted", "holiday_id", id)
	return nil
}
