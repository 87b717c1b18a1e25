package screen

import "errors"

var (
	ErrSubmitInFlight = errors.New("a submission is already in flight")
	ErrUnknownField   = errors.New("unknown form field")
)
