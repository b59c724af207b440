package response

import (
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/holiday"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/hourrequest"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

var exposeInternalErrors atomic.Bool

// SetDevelopment makes 500 responses carry the underlying error message.
func SetDevelopment(on bool) {
	exposeInternalErrors.Store(on)
}

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenRevoked):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrWrongPassword):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, auth.ErrUserNotFound),
		errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")

	// User domain errors
	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, err.Error())
	case errors.Is(err, user.ErrAdminPrivilegeRequired),
		errors.Is(err, user.ErrForbiddenEmployee):
		Forbidden(w, err.Error())
	case errors.Is(err, user.ErrEmployeeProfileMissing):
		BadRequest(w, err.Error(), nil)

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeNumberExists),
		errors.Is(err, employee.ErrEmailExists),
		errors.Is(err, employee.ErrEmployeeAlreadyDeleted):
		Conflict(w, err.Error())
	case errors.Is(err, employee.ErrEmployeeInactive):
		BadRequest(w, err.Error(), nil)

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	// Duplicate check-in/out is a conflict in the domain but answered as 400
	case errors.Is(err, attendance.ErrAlreadyCheckedIn),
		errors.Is(err, attendance.ErrAlreadyCheckedOut),
		errors.Is(err, attendance.ErrNotCheckedIn),
		errors.Is(err, attendance.ErrNotPresent),
		errors.Is(err, attendance.ErrCheckOutBeforeCheckIn),
		errors.Is(err, attendance.ErrCrossMidnight),
		errors.Is(err, attendance.ErrReasonRequired),
		errors.Is(err, attendance.ErrCheckInRequired),
		errors.Is(err, attendance.ErrTimesRequirePresent),
		errors.Is(err, attendance.ErrInvalidStatus):
		BadRequest(w, err.Error(), nil)

	// Holiday domain errors
	case errors.Is(err, holiday.ErrHolidayNotFound):
		NotFound(w, "Holiday not found")
	case errors.Is(err, holiday.ErrHolidayDateExists):
		Conflict(w, err.Error())

	// Report domain errors
	case errors.Is(err, report.ErrArchiveNotFound):
		NotFound(w, "Report archive not found")
	case errors.Is(err, report.ErrArchiveAlreadyQueued):
		Conflict(w, err.Error())
	case errors.Is(err, report.ErrInvalidMonth),
		errors.Is(err, report.ErrInvalidYear),
		errors.Is(err, report.ErrInvalidFormat):
		BadRequest(w, err.Error(), nil)

	// Hour request domain errors
	case errors.Is(err, hourrequest.ErrHourRequestNotFound):
		NotFound(w, "Hour request not found")
	case errors.Is(err, hourrequest.ErrPendingExists),
		errors.Is(err, hourrequest.ErrNotPending):
		Conflict(w, err.Error())
	case errors.Is(err, hourrequest.ErrNotHourlyEmployee),
		errors.Is(err, hourrequest.ErrNoEmployeeProfile):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, hourrequest.ErrForbidden):
		Forbidden(w, err.Error())

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		message := "An unexpected error occurred"
		if exposeInternalErrors.Load() {
			message += ": " + err.Error()
		}
		InternalServerError(w, message)
	}
}
