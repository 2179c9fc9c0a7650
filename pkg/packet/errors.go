package packet

import "errors"

var (
	// ErrBounds is returned when a read or write would run past the
	// buffer's fixed capacity. The buffer and cursors are unchanged.
	ErrBounds = errors.New("packet: cursor out of bounds")

	// ErrFormat is returned when decoded data is internally
	// inconsistent, such as a string length prefix that does not fit
	// in the remaining capacity.
	ErrFormat = errors.New("packet: malformed field")

	// ErrRange is returned when constructing a packet from a byte
	// slice whose length does not match the fixed capacity.
	ErrRange = errors.New("packet: length does not match capacity")
)
