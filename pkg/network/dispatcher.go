package network

import (
	"log"
	"net"
	"sync"
	"sync/atomic"

	"github.com/wirekit/wirekit/pkg/packet"
	"github.com/wirekit/wirekit/pkg/protocol"
)

// ReceiveHandler observes every packet a dispatcher produces,
// regardless of how the protocol table routed it. For datagram
// transports sender is the endpoint the frame arrived from; for stream
// transports it is nil.
type ReceiveHandler func(p packet.Packet, sender net.Addr)

// Dispatcher drains a transport's frame queue on its own goroutine,
// converts each frame into a typed packet through the factory, routes
// it through the router's active protocol table and then fires the
// generic receive handlers. Table dispatch always runs first; the
// generic handlers fire whether or not any trigger matched.
type Dispatcher struct {
	transport Transport
	factory   PacketFactory

	routerMu sync.Mutex
	router   *protocol.Router

	enabled atomic.Bool
	running atomic.Bool

	mu       sync.Mutex
	received []ReceiveHandler
}

// NewDispatcher pairs a dispatcher with a transport. The dispatcher
// borrows the transport's queue and wake signal; it never owns them.
func NewDispatcher(t Transport, f PacketFactory) *Dispatcher {
	return &Dispatcher{transport: t, factory: f}
}

// SetRouter installs the protocol router consulted for every packet.
// Without a router only the generic receive handlers fire.
func (d *Dispatcher) SetRouter(r *protocol.Router) {
	d.routerMu.Lock()
	d.router = r
	d.routerMu.Unlock()
}

// Router returns the installed protocol router, or nil.
func (d *Dispatcher) Router() *protocol.Router {
	d.routerMu.Lock()
	defer d.routerMu.Unlock()
	return d.router
}

// OnReceive appends a handler to the ordered received-packet list.
func (d *Dispatcher) OnReceive(fn ReceiveHandler) {
	d.mu.Lock()
	d.received = append(d.received, fn)
	d.mu.Unlock()
}

// StartConsume spawns the consume loop. It fails with
// ErrAlreadyRunning when a live loop exists and with
// ErrClosedConnection when the transport has been torn down.
func (d *Dispatcher) StartConsume() error {
	if !d.transport.Alive() {
		return ErrClosedConnection
	}
	if !d.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	d.enabled.Store(true)
	go d.consumeLoop()
	return nil
}

// EndConsume asks the consume loop to exit at its next boundary and
// releases it if it is parked on the wake signal.
func (d *Dispatcher) EndConsume() {
	d.enabled.Store(false)
	select {
	case d.transport.wake() <- struct{}{}:
	default:
	}
}

// Send proxies a raw frame to the transport.
func (d *Dispatcher) Send(b []byte) {
	d.transport.Send(b)
}

// SendPacket proxies a packet to the transport.
func (d *Dispatcher) SendPacket(p packet.Packet) {
	d.transport.SendPacket(p)
}

// consumeLoop drains every queued frame, then parks on the shared
// wake signal until the transport produces more. When either side is
// disabled the loop exits after one final drain pass, so frames that
// were already queued are never lost.
func (d *Dispatcher) consumeLoop() {
	defer d.running.Store(false)

	for d.transport.Enabled() && d.enabled.Load() {
		d.drain()
		<-d.transport.wake()
	}
	d.drain()
}

// drain dispatches every currently queued frame in arrival order.
func (d *Dispatcher) drain() {
	for _, f := range d.transport.frames().drainAll() {
		p, err := d.factory.FromBytes(f.data)
		if err != nil {
			log.Printf("network: dropping frame: %v", err)
			metricFramesDropped.Inc()
			continue
		}

		if r := d.Router(); r != nil {
			r.Dispatch(p)
		}

		d.mu.Lock()
		handlers := append([]ReceiveHandler{}, d.received...)
		d.mu.Unlock()
		for _, fn := range handlers {
			fn(p, f.sender)
		}
		metricPacketsDispatched.Inc()
	}
}
