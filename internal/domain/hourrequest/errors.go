package hourrequest

import "errors"

var (
	ErrHourRequestNotFound = errors.New("hour request not found")
	ErrPendingExists       = errors.New("a pending hour request already exists for this period")
	ErrNotPending          = errors.New("hour request has already been reviewed")
	ErrNotHourlyEmployee   = errors.New("only hourly employees can submit hour requests")
	ErrNoEmployeeProfile   = errors.New("user has no employee profile")
	ErrForbidden           = errors.New("you can only view your own hour requests")
)
