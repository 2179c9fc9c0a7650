package network

import (
	"fmt"
	"log"
	"net"
	"sync"

	"github.com/wirekit/wirekit/pkg/packet"
)

// DatagramTransport exchanges fixed-capacity frames over UDP. One
// datagram is one frame; each received frame is queued together with
// the endpoint it arrived from, so receive handlers can answer the
// actual sender.
type DatagramTransport struct {
	transportState

	conn      *net.UDPConn
	transform packet.Transform

	remoteMu sync.Mutex
	remote   *net.UDPAddr
}

// ListenDatagram binds a local UDP port. Port 0 picks a free one.
func ListenDatagram(port int) (*DatagramTransport, error) {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{Port: port})
	if err != nil {
		return nil, err
	}
	t := &DatagramTransport{conn: conn}
	t.init()
	return t, nil
}

// SetTransform installs the cipher used to seal outgoing encrypted
// packets.
func (t *DatagramTransport) SetTransform(tr packet.Transform) {
	t.transform = tr
}

// SetRemote sets the default destination used by Send and SendPacket
// when no explicit endpoint is given.
func (t *DatagramTransport) SetRemote(addr string) error {
	udp, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return fmt.Errorf("network: %w", err)
	}
	t.remoteMu.Lock()
	t.remote = udp
	t.remoteMu.Unlock()
	return nil
}

// LocalAddr returns the bound local endpoint.
func (t *DatagramTransport) LocalAddr() net.Addr {
	return t.conn.LocalAddr()
}

// Start spawns the receive loop.
func (t *DatagramTransport) Start() error {
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

// Stop parks the receive loop at its next iteration boundary.
func (t *DatagramTransport) Stop() {
	t.enabled.Store(false)
}

// receiveLoop reads one datagram per iteration into a full-capacity
// frame. Short datagrams leave the frame zero-padded; the sender
// endpoint rides in the same queue record as the bytes.
func (t *DatagramTransport) receiveLoop() {
	defer t.receiving.Store(false)

	for t.alive.Load() && t.enabled.Load() {
		buf := make([]byte, packet.DefaultCapacity)
		_, sender, err := t.conn.ReadFromUDP(buf)
		if err != nil {
			if t.alive.Load() {
				log.Printf("network: datagram receive error: %v", err)
			}
			t.CloseConnection()
			return
		}
		t.queue.push(frame{data: buf, sender: sender})
		metricFramesReceived.Inc()
		t.signal()
	}
}

// Send writes one frame to the default remote endpoint. Without a
// default destination the frame is dropped.
func (t *DatagramTransport) Send(b []byte) {
	t.remoteMu.Lock()
	remote := t.remote
	t.remoteMu.Unlock()

	if remote == nil {
		log.Print("network: dropping frame, no destination set")
		metricSendsFailed.Inc()
		return
	}
	t.SendTo(b, remote)
}

// SendTo writes one frame to an explicit endpoint. Best effort, same
// contract as Send on a stream transport.
func (t *DatagramTransport) SendTo(b []byte, addr *net.UDPAddr) {
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

	if _, err := t.conn.WriteToUDP(f, addr); err != nil {
		log.Printf("network: datagram send failed: %v", err)
		metricSendsFailed.Inc()
		t.CloseConnection()
	}
}

// SendPacket writes a packet's frame to the default remote endpoint,
// sealing encrypted packets on a copy first.
func (t *DatagramTransport) SendPacket(p packet.Packet) {
	b, ok := outgoingFrame(p, t.transform)
	if !ok {
		metricSendsFailed.Inc()
		return
	}
	t.Send(b)
}

// SendPacketTo writes a packet's frame to an explicit endpoint.
func (t *DatagramTransport) SendPacketTo(p packet.Packet, addr *net.UDPAddr) {
	b, ok := outgoingFrame(p, t.transform)
	if !ok {
		metricSendsFailed.Inc()
		return
	}
	t.SendTo(b, addr)
}

// CloseConnection tears the transport down. Every call after the
// first is a no-op.
func (t *DatagramTransport) CloseConnection() {
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
