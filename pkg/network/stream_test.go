package network

import (
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wirekit/wirekit/pkg/packet"
)

func TestStreamStartTwice(t *testing.T) {
	c1, c2 := net.Pipe()
	defer c2.Close()

	tr := Adopt(c1)
	defer tr.CloseConnection()

	require.NoError(t, tr.Start())

	err := tr.Start()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAlreadyRunning))
}

func TestStreamStartAfterClose(t *testing.T) {
	c1, c2 := net.Pipe()
	defer c2.Close()

	tr := Adopt(c1)
	tr.CloseConnection()

	err := tr.Start()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrClosedConnection))
}

func TestIdempotentClose(t *testing.T) {
	c1, c2 := net.Pipe()
	defer c2.Close()

	tr := Adopt(c1)

	var fired atomic.Int32
	tr.OnClosed(func() { fired.Add(1) })

	assert.NotPanics(t, func() {
		tr.CloseConnection()
		tr.CloseConnection()
		tr.CloseConnection()
	})
	assert.Equal(t, int32(1), fired.Load(), "closed handlers must fire exactly once")
	assert.False(t, tr.Alive())
	assert.False(t, tr.Enabled())
}

func TestCloseHandlerOrder(t *testing.T) {
	c1, c2 := net.Pipe()
	defer c2.Close()

	tr := Adopt(c1)

	var order []int
	for i := 0; i < 3; i++ {
		i := i
		tr.OnClosed(func() { order = append(order, i) })
	}
	tr.CloseConnection()

	assert.Equal(t, []int{0, 1, 2}, order, "closed handlers must fire in registration order")
}

func TestSendSwallowsWriteFailure(t *testing.T) {
	c1, c2 := net.Pipe()

	tr := Adopt(c1)

	closed := make(chan struct{})
	tr.OnClosed(func() { close(closed) })

	// Kill the peer so the next write fails.
	require.NoError(t, c2.Close())

	p := packet.New()
	p.SetID(1)
	assert.NotPanics(t, func() { tr.SendPacket(p) })

	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("send failure did not fire the closed notification")
	}

	// Further sends on the dead transport are silent no-ops.
	assert.NotPanics(t, func() { tr.Send([]byte{1, 2, 3}) })
}

func TestPeerDisconnectTearsDown(t *testing.T) {
	c1, c2 := net.Pipe()

	tr := Adopt(c1)

	closed := make(chan struct{})
	tr.OnClosed(func() { close(closed) })

	require.NoError(t, tr.Start())
	require.NoError(t, c2.Close())

	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("peer disconnect did not tear the transport down")
	}
	assert.False(t, tr.Alive())
}

func TestStreamStopAndRestart(t *testing.T) {
	c1, c2 := net.Pipe()
	defer c2.Close()

	tr := Adopt(c1)
	defer tr.CloseConnection()

	require.NoError(t, tr.Start())
	tr.Stop()

	// The loop is blocked in a read; feed it one frame so it observes
	// the flag at the iteration boundary and exits.
	go c2.Write(make([]byte, packet.DefaultCapacity))

	require.Eventually(t, func() bool {
		return tr.Start() == nil
	}, time.Second, 10*time.Millisecond, "transport must be startable again after Stop")
}
