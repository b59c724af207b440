package hourrequest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/hourrequest"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/postgresql"
)

type HourRequestServiceImpl struct {
	tx           postgresql.Transactor
	requestRepo  hourrequest.HourRequestRepository
	employeeRepo employee.EmployeeRepository
	now          func() time.Time
}

func NewHourRequestService(
	tx postgresql.Transactor,
	requestRepo hourrequest.HourRequestRepository,
	employeeRepo employee.EmployeeRepository,
) hourrequest.HourRequestService {
	return &HourRequestServiceImpl{
		tx:           tx,
		requestRepo:  requestRepo,
		employeeRepo: employeeRepo,
		now:          time.Now,
	}
}

// Submit implements hourrequest.HourRequestService.
func (s *HourRequestServiceImpl) Submit(ctx context.Context, req hourrequest.SubmitRequest) (hourrequest.HourRequestResponse, error) {
	if req.EmployeeID == "" {
		return hourrequest.HourRequestResponse{}, hourrequest.ErrNoEmployeeProfile
	}
	if err := req.Validate(); err != nil {
		return hourrequest.HourRequestResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return hourrequest.HourRequestResponse{}, err
	}
	if !emp.IsHourly() {
		return hourrequest.HourRequestResponse{}, hourrequest.ErrNotHourlyEmployee
	}

	details := req.ResolvedDetails()
	var saved hourrequest.HourRequest

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		parent, err := s.requestRepo.Upsert(ctx, hourrequest.HourRequest{
			EmployeeID:  emp.ID,
			Month:       req.Month,
			Year:        req.Year,
			Description: req.Description,
			TotalHours:  hourrequest.SumHours(details),
		})
		if err != nil {
			return err
		}

		parent.Details, err = s.requestRepo.ReplaceDetails(ctx, parent.ID, details)
		if err != nil {
			return err
		}
		parent.TotalHours = hourrequest.SumHours(parent.Details)
		saved = parent
		return nil
	})
	if err != nil {
		return hourrequest.HourRequestResponse{}, err
	}

	slog.Info("hour request submitted",
		"hour_request_id", saved.ID,
		"employee_id", emp.ID,
		"period", fmt.Sprintf("%d-%02d", req.Year, req.Month),
		"total_hours", saved.TotalHours.StringFixed(2),
	)
	return hourrequest.ToResponse(saved), nil
}

// ListMine implements hourrequest.HourRequestService.
func (s *HourRequestServiceImpl) ListMine(ctx context.Context, employeeID string) ([]hourrequest.HourRequestResponse, error) {
	if employeeID == "" {
		return nil, hourrequest.ErrNoEmployeeProfile
	}

	requests, err := s.requestRepo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list hour requests: %w", err)
	}

	responses := make([]hourrequest.HourRequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, hourrequest.ToResponse(r))
	}
	return responses, nil
}

// ListPending implements hourrequest.HourRequestService.
func (s *HourRequestServiceImpl) ListPending(ctx context.Context, filter hourrequest.PendingFilter) (hourrequest.ListHourRequestResponse, error) {
	if err := filter.Validate(); err != nil {
		return hourrequest.ListHourRequestResponse{}, err
	}

	requests, total, err := s.requestRepo.ListPending(ctx, filter)
	if err != nil {
		return hourrequest.ListHourRequestResponse{}, fmt.Errorf("failed to list pending hour requests: %w", err)
	}

	responses := make([]hourrequest.HourRequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, hourrequest.ToResponse(r))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))
	showing := fmt.Sprintf("%d-%d of %d", (filter.Page-1)*filter.Limit+1, min(filter.Page*filter.Limit, int(total)), total)
	if total == 0 {
		showing = "0 of 0"
	}

	return hourrequest.ListHourRequestResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Showing:    showing,
		Requests:   responses,
	}, nil
}

// GetHourRequest implements hourrequest.HourRequestService.
func (s *HourRequestServiceImpl) GetHourRequest(ctx context.Context, id string, viewer hourrequest.Viewer) (hourrequest.HourRequestResponse, error) {
	if !validator.IsValidUUID(id) {
		return hourrequest.HourRequestResponse{}, hourrequest.ErrHourRequestNotFound
	}

	r, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return hourrequest.HourRequestResponse{}, err
	}

	if !viewer.IsAdmin && (viewer.EmployeeID == nil || *viewer.EmployeeID != r.EmployeeID) {
		return hourrequest.HourRequestResponse{}, hourrequest.ErrForbidden
	}
	return hourrequest.ToResponse(r), nil
}

// Review implements hourrequest.HourRequestService.
func (s *HourRequestServiceImpl) Review(ctx context.Context, req hourrequest.ReviewRequest) (hourrequest.HourRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return hourrequest.HourRequestResponse{}, err
	}

	var reviewed hourrequest.HourRequest
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		r, err := s.requestRepo.GetByIDForUpdate(ctx, req.ID)
		if err != nil {
			return err
		}

		at := s.now()
		switch req.Action {
		case hourrequest.ActionApprove:
			emp, err := s.employeeRepo.GetByID(ctx, r.EmployeeID)
			if err != nil && !errors.Is(err, employee.ErrEmployeeNotFound) {
				return err
			}
			if err := r.Approve(req.ReviewerID, at, emp.HourlyRate); err != nil {
				return err
			}
		case hourrequest.ActionReject:
			if err := r.Reject(req.ReviewerID, *req.Reason, at); err != nil {
				return err
			}
		}

		if err := s.requestRepo.UpdateReview(ctx, r); err != nil {
			return err
		}
		reviewed = r
		return nil
	})
	if err != nil {
		return hourrequest.HourRequestResponse{}, err
	}

	slog.Info("hour request reviewed",
		"hour_request_id", reviewed.ID,
		"reviewer_id", req.ReviewerID,
		"status", reviewed.Status,
	)
	return hourrequest.ToResponse(reviewed), nil
}
