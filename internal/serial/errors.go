package serial

import "errors"

// Domain errors for the serial transport package.
var (
	// ErrNotOpen is returned by Run or WriteByte when called before Open
	// has succeeded, or after Close.
	ErrNotOpen = errors.New("serial: port not open")
)
