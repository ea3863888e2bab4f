package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenExpired       = errors.New("token has expired")
	ErrForbidden          = errors.New("you are not allowed to access this resource")
	ErrBranchAccessOnly   = errors.New("branch admin access required")
	ErrEmployeeAccessOnly = errors.New("employee access required")
)
