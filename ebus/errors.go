package ebus

import "errors"

// Domain errors for the ebus package.
var (
	// ErrIndexOutOfRange is returned by Sequence.Range when the
	// requested slice falls outside the sequence.
	ErrIndexOutOfRange = errors.New("ebus: index out of range")
)
