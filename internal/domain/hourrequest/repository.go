package hourrequest

import "context"

type HourRequestRepository interface {
	// Upsert inserts the request for its period, or overwrites a reviewed one
	// back to PENDING. Returns ErrPendingExists when the period is still pending.
	Upsert(ctx context.Context, req HourRequest) (HourRequest, error)
	// ReplaceDetails deletes every detail of requestID and inserts details.
	ReplaceDetails(ctx context.Context, requestID string, details []Detail) ([]Detail, error)
	GetByID(ctx context.Context, id string) (HourRequest, error)
	// GetByIDForUpdate locks the request row until the transaction ends.
	GetByIDForUpdate(ctx context.Context, id string) (HourRequest, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]HourRequest, error)
	ListPending(ctx context.Context, filter PendingFilter) ([]HourRequest, int64, error)
	UpdateReview(ctx context.Context, req HourRequest) error
}
