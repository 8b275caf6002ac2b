package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrForbidden          = errors.New("forbidden")
	ErrSelfDeletion       = errors.New("cannot delete own account")
	ErrAlreadyApplied     = errors.New("already applied")
	ErrInvalidInput       = errors.New("invalid input")
)
