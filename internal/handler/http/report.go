package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ReportHandler interface {
	// Monthly Attendance Report
	GetMonthlyReport(w http.ResponseWriter, r *http.Request)

	// ExportMonthlyReport renders the report as CSV or PDF depending on {format}
	ExportMonthlyReport(w http.ResponseWriter, r *http.Request)

	// Background archive of both exports
	EnqueueArchive(w http.ResponseWriter, r *http.Request)
	DownloadArchive(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// monthlyRequest reads the report filters; missing month or year stay zero
// and are defaulted by the service.
func monthlyRequest(w http.ResponseWriter, r *http.Request) (report.MonthlyReportRequest, bool) {
	var req report.MonthlyReportRequest

	month, ok := queryInt(r, "month")
	if !ok {
		response.BadRequest(w, "invalid month parameter", nil)
		return req, false
	}
	year, ok := queryInt(r, "year")
	if !ok {
		response.BadRequest(w, "invalid year parameter", nil)
		return req, false
	}
	if month != nil {
		req.Month = *month
	}
	if year != nil {
		req.Year = *year
	}

	req.EmployeeID = queryString(r, "employee_id")
	req.Department = queryString(r, "department")
	return req, true
}

// GetMonthlyReport handles GET /reports/monthly
func (h *reportHandlerImpl) GetMonthlyReport(w http.ResponseWriter, r *http.Request) {
	req, ok := monthlyRequest(w, r)
	if !ok {
		return
	}

	result, err := h.reportService.MonthlyReport(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ExportMonthlyReport handles GET /reports/monthly/export/{format}
func (h *reportHandlerImpl) ExportMonthlyReport(w http.ResponseWriter, r *http.Request) {
	format, err := report.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	req, ok := monthlyRequest(w, r)
	if !ok {
		return
	}

	file, err := h.reportService.Export(r.Context(), req, format)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, file.Filename, file.ContentType, file.Content)
}

// EnqueueArchive handles POST /reports/monthly/archive
func (h *reportHandlerImpl) EnqueueArchive(w http.ResponseWriter, r *http.Request) {
	var req report.ArchiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("EnqueueArchive decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.reportService.EnqueueArchive(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Accepted(w, "Report archive queued", result)
}

// DownloadArchive handles GET /reports/monthly/archive/{year}/{month}/{format}
func (h *reportHandlerImpl) DownloadArchive(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		response.BadRequest(w, "invalid year parameter", nil)
		return
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil {
		response.BadRequest(w, "invalid month parameter", nil)
		return
	}
	format, err := report.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	rc, filename, err := h.reportService.OpenArchive(r.Context(), year, month, format)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	defer rc.Close()

	response.Stream(w, filename, format.ContentType(), rc)
}
