package admission

import "errors"

// Sentinel kinds for admission errors.
var (
	ErrMalformed = errors.New("malformed detection event")
)
