package control

import "errors"

var (
	ErrUnknownParam = errors.New("unknown parameter")
	ErrKindMismatch = errors.New("parameter kind mismatch")
	ErrNotFinite    = errors.New("value is not finite")
)
