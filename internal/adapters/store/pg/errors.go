package pg

import "errors"

// Sentinel kinds for store errors.
var (
	ErrConnect    = errors.New("store connect failed")
	ErrQuery      = errors.New("store query failed")
	ErrSubscribe  = errors.New("store subscribe failed")
	ErrBadPayload = errors.New("notification payload malformed")
)
