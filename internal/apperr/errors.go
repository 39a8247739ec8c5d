package apperr

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrAlreadyStarted = errors.New("already started")
	ErrClosed         = errors.New("closed")
)
