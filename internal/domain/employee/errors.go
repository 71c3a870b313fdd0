package employee

import "errors"

var (
	ErrEmployeeNotFound        = errors.New("employee not found")
	ErrEmployeeInactive        = errors.New("employee is inactive")
	ErrEmployeeAlreadyInactive = errors.New("employee is already inactive")
	ErrEmployeeExists          = errors.New("employee number or email already registered")
	ErrCannotDeactivateSelf    = errors.New("cannot deactivate your own account")
)
