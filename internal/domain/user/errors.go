package user

import "errors"

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrUserEmailExists        = errors.New("email already registered")
	ErrAdminPrivilegeRequired = errors.New("admin privilege required")
	ErrEmployeeProfileMissing = errors.New("no employee profile is linked to this account")
	ErrForbiddenEmployee      = errors.New("you can only access your own employee data")
)
