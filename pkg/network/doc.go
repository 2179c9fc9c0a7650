// Package network implements the wirekit transport pipeline.
//
// Each connection runs exactly two long-lived goroutines. The
// transport's receive loop blocks on the socket, reads one
// fixed-capacity frame (or one datagram) per iteration, appends it to
// a shared queue and signals arrival. The dispatcher's consume loop
// drains every queued frame, converts each into a typed packet through
// a pluggable factory, routes it through the active protocol table and
// fires the generic received-packet handlers, then parks on the signal
// until the next batch.
//
// The queue is strictly single-producer/single-consumer and frames
// dispatch in arrival order. Stopping is cooperative: Stop and
// EndConsume flip flags observed at loop boundaries, while
// CloseConnection additionally closes the socket to unblock a pending
// read and signals once to release a parked dispatcher. Close is
// idempotent and fires the connection-closed handlers exactly once.
//
// Transport I/O failures never escape a background goroutine; they are
// logged, converted into the one-shot connection-closed notification
// and followed by teardown. A failed Send likewise never returns an
// error to the caller.
package network
