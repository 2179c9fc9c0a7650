package network

import (
	"io"
	"log"
	"net"
	"sync"

	"github.com/wirekit/wirekit/pkg/packet"
)

// StreamTransport exchanges fixed-capacity frames over any duplex
// byte stream: a dialed TCP connection, an accepted one, a websocket
// adapter or an in-memory pipe.
type StreamTransport struct {
	transportState

	conn      net.Conn
	writeMu   sync.Mutex
	transform packet.Transform
}

// Dial connects to a remote stream endpoint and wraps it in a
// transport. The transport is alive but idle until Start.
func Dial(addr string) (*StreamTransport, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	return Adopt(conn), nil
}

// Adopt wraps an existing duplex stream in a transport. The transport
// owns the stream from here on and releases it at CloseConnection.
func Adopt(conn net.Conn) *StreamTransport {
	t := &StreamTransport{conn: conn}
	t.init()
	return t
}

// SetTransform installs the cipher used to seal outgoing encrypted
// packets. Incoming frames are opened by the dispatcher's factory, not
// here.
func (t *StreamTransport) SetTransform(tr packet.Transform) {
	t.transform = tr
}

// RemoteAddr returns the peer's address.
func (t *StreamTransport) RemoteAddr() net.Addr {
	return t.conn.RemoteAddr()
}

// Start spawns the receive loop.
func (t *StreamTransport) Start() error {
	if !t.alive.Load() {
		return ErrClosedConnection
	}
	if !t.receiving.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	t.enabled.Store(true)
	go t.receiveLoop()
	return nil
}

// Stop parks the receive loop at its next iteration boundary. A loop
// blocked in a read stays blocked until a frame arrives or the
// connection is closed.
func (t *StreamTransport) Stop() {
	t.enabled.Store(false)
}

// receiveLoop reads exactly one fixed-capacity frame per iteration and
// hands it to the shared queue. A read error or EOF means the peer is
// gone and tears the connection down.
func (t *StreamTransport) receiveLoop() {
	defer t.receiving.Store(false)

	for t.alive.Load() && t.enabled.Load() {
		buf := make([]byte, packet.DefaultCapacity)
		if _, err := io.ReadFull(t.conn, buf); err != nil {
			if t.alive.Load() && err != io.EOF {
				log.Printf("network: receive error: %v", err)
			}
			t.CloseConnection()
			return
		}
		t.queue.push(frame{data: buf})
		metricFramesReceived.Inc()
		t.signal()
	}
}

// Send writes one frame synchronously. Short input is padded to the
// frame capacity; oversized input is dropped. A write failure fires
// the connection-closed notification and is not propagated.
func (t *StreamTransport) Send(b []byte) {
	if !t.alive.Load() {
		return
	}
	if len(b) > packet.DefaultCapacity {
		log.Printf("network: dropping oversized frame of %d bytes", len(b))
		metricSendsFailed.Inc()
		return
	}
	f := b
	if len(b) < packet.DefaultCapacity {
		f = make([]byte, packet.DefaultCapacity)
		copy(f, b)
	}

	t.writeMu.Lock()
	_, err := t.conn.Write(f)
	t.writeMu.Unlock()

	if err != nil {
		log.Printf("network: send failed: %v", err)
		metricSendsFailed.Inc()
		t.CloseConnection()
	}
}

// SendPacket writes a packet's frame, sealing it first when the packet
// declares itself encrypted and a transform is installed. Sealing
// happens on a copy so the caller's packet stays readable.
func (t *StreamTransport) SendPacket(p packet.Packet) {
	b, ok := outgoingFrame(p, t.transform)
	if !ok {
		metricSendsFailed.Inc()
		return
	}
	t.Send(b)
}

// CloseConnection tears the transport down: flags drop, the stream is
// released to unblock a pending read, a parked dispatcher is woken and
// the closed handlers fire. Every call after the first is a no-op.
func (t *StreamTransport) CloseConnection() {
	t.closeOnce.Do(func() {
		t.enabled.Store(false)
		t.alive.Store(false)
		if err := t.conn.Close(); err != nil {
			log.Printf("network: close error: %v", err)
		}
		t.signal()
		metricConnsClosed.Inc()
		t.fireClosed()
	})
}

// outgoingFrame resolves the bytes to put on the wire for a packet,
// sealing encrypted packets on a copy. A packet that should be sealed
// but cannot be is dropped, never sent clear.
func outgoingFrame(p packet.Packet, tr packet.Transform) ([]byte, bool) {
	s, ok := p.(*packet.Sealed)
	if !ok || !s.Encrypted() || tr == nil {
		return p.Bytes(), true
	}
	c := s.DeepCopy()
	if err := c.Seal(tr); err != nil {
		log.Printf("network: seal failed, dropping frame: %v", err)
		return nil, false
	}
	return c.Bytes(), true
}
