package network

import (
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wirekit/wirekit/pkg/packet"
	"github.com/wirekit/wirekit/pkg/protocol"
)

func TestListenerYieldsTransport(t *testing.T) {
	l := NewListener()

	accepted := make(chan *StreamTransport, 1)
	l.OnConnection(func(tr *StreamTransport) { accepted <- tr })

	require.NoError(t, l.Start(0))
	defer l.Stop()

	addr := fmt.Sprintf("127.0.0.1:%d", l.Addr().(*net.TCPAddr).Port)
	client, err := Dial(addr)
	require.NoError(t, err)
	defer client.CloseConnection()

	select {
	case tr := <-accepted:
		assert.True(t, tr.Alive())
		assert.False(t, tr.Enabled(), "accepted transport must be idle until started")
		tr.CloseConnection()
	case <-time.After(2 * time.Second):
		t.Fatal("listener never yielded the connection")
	}
}

func TestListenerStartTwice(t *testing.T) {
	l := NewListener()
	require.NoError(t, l.Start(0))
	defer l.Stop()

	assert.ErrorIs(t, l.Start(0), ErrAlreadyRunning)
}

// TestEchoServer wires the full pipeline: listener, transport,
// dispatcher and protocol table on the server side, a second pipeline
// on the client side, one echo round trip between them.
func TestEchoServer(t *testing.T) {
	const pingID, pongID = 1, 2

	l := NewListener()
	l.OnConnection(func(tr *StreamTransport) {
		table := protocol.NewTable("echo")
		table.AddTrigger(pingID, func(p packet.Packet) {
			in, ok := p.(*packet.Buffer)
			if !ok {
				return
			}
			msg, err := in.GetString()
			if err != nil {
				return
			}
			out := packet.New()
			out.SetID(pongID)
			if err := out.PutString(msg); err != nil {
				return
			}
			tr.SendPacket(out)
		})

		d := NewDispatcher(tr, BufferFactory{})
		d.SetRouter(protocol.NewRouter(table))
		if err := tr.Start(); err != nil {
			t.Errorf("server transport start: %v", err)
			return
		}
		if err := d.StartConsume(); err != nil {
			t.Errorf("server dispatcher start: %v", err)
		}
	})

	require.NoError(t, l.Start(0))
	defer l.Stop()

	addr := fmt.Sprintf("127.0.0.1:%d", l.Addr().(*net.TCPAddr).Port)
	client, err := Dial(addr)
	require.NoError(t, err)
	defer client.CloseConnection()

	replies := make(chan string, 1)
	cd := NewDispatcher(client, BufferFactory{})
	cd.OnReceive(func(p packet.Packet, sender net.Addr) {
		if p.ID() != pongID {
			return
		}
		if msg, err := p.(*packet.Buffer).GetString(); err == nil {
			replies <- msg
		}
	})
	require.NoError(t, client.Start())
	require.NoError(t, cd.StartConsume())

	ping := packet.New()
	ping.SetID(pingID)
	require.NoError(t, ping.PutString("hello relay"))
	cd.SendPacket(ping)

	select {
	case msg := <-replies:
		assert.Equal(t, "hello relay", msg)
	case <-time.After(2 * time.Second):
		t.Fatal("echo reply never arrived")
	}
}
