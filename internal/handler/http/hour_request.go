package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/hourrequest"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type HourRequestHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	ListPending(w http.ResponseWriter, r *http.Request)
	GetHourRequest(w http.ResponseWriter, r *http.Request)
	Review(w http.ResponseWriter, r *http.Request)
}

type hourRequestHandlerImpl struct {
	hourRequestService hourrequest.HourRequestService
}

func NewHourRequestHandler(hourRequestService hourrequest.HourRequestService) HourRequestHandler {
	return &hourRequestHandlerImpl{hourRequestService: hourRequestService}
}

// Submit handles POST /hour-requests
func (h *hourRequestHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.ClaimsFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req hourrequest.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("SubmitHourRequest decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if claims.EmployeeID != nil {
		req.EmployeeID = *claims.EmployeeID
	}

	result, err := h.hourRequestService.Submit(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Hour request submitted successfully", result)
}

// ListMine handles GET /hour-requests/my
func (h *hourRequestHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.ClaimsFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if claims.EmployeeID == nil {
		response.HandleError(w, hourrequest.ErrNoEmployeeProfile)
		return
	}

	result, err := h.hourRequestService.ListMine(r.Context(), *claims.EmployeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListPending handles GET /hour-requests/pending
func (h *hourRequestHandlerImpl) ListPending(w http.ResponseWriter, r *http.Request) {
	var filter hourrequest.PendingFilter
	filter.Page, filter.Limit = pagination(r)

	result, err := h.hourRequestService.ListPending(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetHourRequest handles GET /hour-requests/{id}
func (h *hourRequestHandlerImpl) GetHourRequest(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.ClaimsFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	viewer := hourrequest.Viewer{EmployeeID: claims.EmployeeID, IsAdmin: claims.IsAdmin}
	result, err := h.hourRequestService.GetHourRequest(r.Context(), chi.URLParam(r, "id"), viewer)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Review handles PUT /hour-requests/{id}/review
func (h *hourRequestHandlerImpl) Review(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.ClaimsFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req hourrequest.ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("ReviewHourRequest decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")
	req.ReviewerID = claims.UserID

	result, err := h.hourRequestService.Review(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Hour request reviewed successfully", result)
}
