package hourrequest

import "context"

type HourRequestService interface {
	Submit(ctx context.Context, req SubmitRequest) (HourRequestResponse, error)
	ListMine(ctx context.Context, employeeID string) ([]HourRequestResponse, error)
	ListPending(ctx context.Context, filter PendingFilter) (ListHourRequestResponse, error)
	// GetHourRequest returns a request to an admin or to the employee who owns it.
	GetHourRequest(ctx context.Context, id string, viewer Viewer) (HourRequestResponse, error)
	Review(ctx context.Context, req ReviewRequest) (HourRequestResponse, error)
}
