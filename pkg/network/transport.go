package network

import (
	"sync"
	"sync/atomic"

	"github.com/wirekit/wirekit/pkg/packet"
)

// Transport is one connection's sending and receiving half. A
// transport starts alive but idle; Start spawns the receive loop, Stop
// parks it cooperatively and CloseConnection tears the connection down
// for good.
type Transport interface {
	// Start spawns the receive loop. It fails with ErrAlreadyRunning
	// when a live loop exists and with ErrClosedConnection after
	// teardown.
	Start() error

	// Stop asks the receive loop to exit at its next iteration
	// boundary. The transport stays alive and can be started again.
	Stop()

	// CloseConnection tears the transport down: the socket is
	// released, a parked dispatcher is released and the closed
	// handlers fire. Idempotent, safe from any goroutine.
	CloseConnection()

	// Alive reports whether the transport has not been torn down.
	Alive() bool

	// Enabled reports whether the receive loop is asked to run.
	Enabled() bool

	// Send writes one frame, best effort. A failed write tears the
	// connection down instead of returning an error.
	Send(b []byte)

	// SendPacket writes a packet's frame. Sealed packets with the
	// encrypted flag are sealed with the transport's transform first.
	SendPacket(p packet.Packet)

	// OnClosed appends a handler to the ordered connection-closed
	// list, fired exactly once at teardown.
	OnClosed(fn func())

	frames() *frameQueue
	wake() chan struct{}
}

// transportState carries the lifecycle shared by the stream and
// datagram transports: the frame queue, the dispatcher wake signal,
// the alive/enabled flags and the one-shot closed notification.
type transportState struct {
	queue     frameQueue
	wakeCh    chan struct{}
	alive     atomic.Bool
	enabled   atomic.Bool
	receiving atomic.Bool
	closeOnce sync.Once

	mu       sync.Mutex
	onClosed []func()
}

func (s *transportState) init() {
	s.wakeCh = make(chan struct{}, 1)
	s.alive.Store(true)
}

func (s *transportState) Alive() bool {
	return s.alive.Load()
}

func (s *transportState) Enabled() bool {
	return s.enabled.Load()
}

// OnClosed appends a connection-closed handler. Handlers fire in
// registration order, exactly once.
func (s *transportState) OnClosed(fn func()) {
	s.mu.Lock()
	s.onClosed = append(s.onClosed, fn)
	s.mu.Unlock()
}

func (s *transportState) frames() *frameQueue {
	return &s.queue
}

func (s *transportState) wake() chan struct{} {
	return s.wakeCh
}

// signal sets the auto-resetting wake signal. Setting an already-set
// signal is a no-op, matching one wake per drain batch.
func (s *transportState) signal() {
	select {
	case s.wakeCh <- struct{}{}:
	default:
	}
}

func (s *transportState) fireClosed() {
	s.mu.Lock()
	handlers := append([]func(){}, s.onClosed...)
	s.mu.Unlock()
	for _, fn := range handlers {
		fn()
	}
}
