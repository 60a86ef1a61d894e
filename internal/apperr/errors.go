package apperr

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrNoActiveView    = errors.New("no active view")
	ErrInvalidSettings = errors.New("invalid settings")
)
