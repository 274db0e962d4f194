package employee

import "errors"

var (
	ErrEmployeeNotFound      = errors.New("employee not found")
	ErrEmployeeCodeExists    = errors.New("employee code already exists")
	ErrLineUserAlreadyExists = errors.New("LINE account is already registered")
	ErrEmployeeNotPending    = errors.New("employee is not pending approval")
	ErrEmployeeInactive      = errors.New("employee account is inactive")
	ErrEmployeePending       = errors.New("employee registration is pending approval")
	ErrNoFieldsToUpdate      = errors.New("at least one field must be provided")
	ErrAdminNotFound         = errors.New("admin not found")
)
