package postgresql

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation = "23505"

	constraintUserEmail            = "users_email_key"
	constraintEmployeeNumber       = "employees_employee_number_key"
	constraintAttendanceDay        = "attendances_employee_date_key"
	constraintHolidayDate          = "holidays_date_key"
	constraintHourRequestPeriod    = "hour_requests_employee_period_key"
	constraintHourRequestDetailDay = "hour_request_details_request_date_key"
)

// isUniqueViolation reports whether err is a unique_violation on constraint.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return pgErr.ConstraintName == constraint
	}
	return false
}
