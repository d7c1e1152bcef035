package service

import "errors"

// Sentinel kinds for synchronizer errors.
var (
	ErrNoStore    = errors.New("no store client configured")
	ErrNotStarted = errors.New("synchronizer not started")
)
