package network

import "errors"

var (
	// ErrAlreadyRunning is returned when starting a loop that already
	// has a live goroutine.
	ErrAlreadyRunning = errors.New("network: already running")

	// ErrClosedConnection is returned when starting against a
	// connection that has been torn down.
	ErrClosedConnection = errors.New("network: connection closed")
)
