package repository

import "errors"

// Sentinel kinds for event set errors.
var (
	ErrDuplicateID = errors.New("duplicate event id")
)
