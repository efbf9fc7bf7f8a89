package apperr

import "errors"

var (
	ErrNotFound = errors.New("not found")
	ErrAbsent   = errors.New("source absent")
	ErrInvalid  = errors.New("invalid argument")
)
