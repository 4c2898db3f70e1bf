package store

import "errors"

var (
	ErrConflict        = errors.New("conflict")
	ErrNotFound        = errors.New("not found")
	ErrScheduleFull    = errors.New("schedule has no available slots")
	ErrAlreadyCanceled = errors.New("appointment already canceled")
)
