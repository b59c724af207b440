package attendance

import "errors"

// Attendance domain errors
var (
	// Check-in / check-out errors
	ErrAlreadyCheckedIn      = errors.New("employee has already checked in for this date")
	ErrNotCheckedIn          = errors.New("employee has not checked in for this date")
	ErrAlreadyCheckedOut     = errors.New("employee has already checked out for this date")
	ErrNotPresent            = errors.New("cannot check out because the attendance status is not PRESENT")
	ErrCheckOutBeforeCheckIn = errors.New("check-out time must be after check-in time")
	ErrCrossMidnight         = errors.New("check-out must be on the same day as check-in")
	ErrReasonRequired        = errors.New("reason is required for EXCUSED and SICK status")

	// Correction errors
	ErrCheckInRequired     = errors.New("check_in is required for PRESENT status")
	ErrTimesRequirePresent = errors.New("check-in and check-out times can only be set for PRESENT status")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrInvalidStatus      = errors.New("status must be one of: PRESENT, EXCUSED, SICK, ABSENT")
)
