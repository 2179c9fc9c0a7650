package network

import (
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wirekit/wirekit/pkg/packet"
)

func TestWebSocketTransport(t *testing.T) {
	upgrader := websocket.Upgrader{}
	got := make(chan byte, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		tr := AdoptWebSocket(ws)
		d := NewDispatcher(tr, BufferFactory{})
		d.OnReceive(func(p packet.Packet, _ net.Addr) { got <- p.ID() })
		if err := tr.Start(); err != nil {
			t.Errorf("transport start: %v", err)
			return
		}
		if err := d.StartConsume(); err != nil {
			t.Errorf("dispatcher start: %v", err)
		}
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	client := AdoptWebSocket(ws)
	defer client.CloseConnection()

	p := packet.New()
	p.SetID(66)
	client.SendPacket(p)

	select {
	case id := <-got:
		assert.Equal(t, byte(66), id)
	case <-time.After(2 * time.Second):
		t.Fatal("frame never crossed the websocket")
	}
}
