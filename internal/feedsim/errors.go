package feedsim

import "errors"

// Sentinel kinds for simulator errors.
var (
	ErrNoStore = errors.New("no store configured")
)
