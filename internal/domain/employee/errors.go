package employee

import "errors"

var (
	ErrEmployeeNotFound       = errors.New("employee not found")
	ErrEmployeeNumberExists   = errors.New("employee number already exists")
	ErrEmailExists            = errors.New("email already registered")
	ErrEmployeeInactive       = errors.New("employee is inactive")
	ErrEmployeeAlreadyDeleted = errors.New("employee is already inactive")
)
