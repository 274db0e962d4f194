package auth

import "errors"

var (
	ErrInvalidCredentials     = errors.New("invalid username or password")
	ErrInvalidToken           = errors.New("invalid token")
	ErrTokenExpired           = errors.New("token expired")
	ErrInvalidLineIDToken     = errors.New("invalid LINE id token")
	ErrAdminPrivilegeRequired = errors.New("HR admin privilege required")
	ErrEmployeeAccessRequired = errors.New("active employee access required")
)
