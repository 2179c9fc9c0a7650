package network

import (
	"io"
	"net"
	"time"

	"github.com/gorilla/websocket"
)

// WebSocketConn adapts a websocket connection to the net.Conn surface
// so it can be adopted by a stream transport. Binary messages are
// exposed as a continuous byte stream; the transport's fixed-frame
// reads do not care about message boundaries.
type WebSocketConn struct {
	ws     *websocket.Conn
	reader io.Reader
}

// AdoptWebSocket wraps an upgraded or dialed websocket connection in
// a ready stream transport.
func AdoptWebSocket(ws *websocket.Conn) *StreamTransport {
	return Adopt(NewWebSocketConn(ws))
}

// NewWebSocketConn wraps a websocket connection as a net.Conn.
func NewWebSocketConn(ws *websocket.Conn) *WebSocketConn {
	return &WebSocketConn{ws: ws}
}

// Read reads from the current binary message, moving to the next
// message as each one is exhausted. Non-binary messages are skipped.
func (c *WebSocketConn) Read(p []byte) (int, error) {
	for {
		if c.reader == nil {
			mt, r, err := c.ws.NextReader()
			if err != nil {
				return 0, err
			}
			if mt != websocket.BinaryMessage {
				continue
			}
			c.reader = r
		}

		n, err := c.reader.Read(p)
		if err == io.EOF {
			c.reader = nil
			if n == 0 {
				continue
			}
			err = nil
		}
		return n, err
	}
}

// Write sends p as one binary message.
func (c *WebSocketConn) Write(p []byte) (int, error) {
	if err := c.ws.WriteMessage(websocket.BinaryMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close closes the underlying websocket connection.
func (c *WebSocketConn) Close() error {
	return c.ws.Close()
}

// LocalAddr returns the local network address.
func (c *WebSocketConn) LocalAddr() net.Addr {
	return c.ws.LocalAddr()
}

// RemoteAddr returns the peer's network address.
func (c *WebSocketConn) RemoteAddr() net.Addr {
	return c.ws.RemoteAddr()
}

// SetDeadline sets both read and write deadlines.
func (c *WebSocketConn) SetDeadline(t time.Time) error {
	if err := c.ws.SetReadDeadline(t); err != nil {
		return err
	}
	return c.ws.SetWriteDeadline(t)
}

// SetReadDeadline sets the read deadline.
func (c *WebSocketConn) SetReadDeadline(t time.Time) error {
	return c.ws.SetReadDeadline(t)
}

// SetWriteDeadline sets the write deadline.
func (c *WebSocketConn) SetWriteDeadline(t time.Time) error {
	return c.ws.SetWriteDeadline(t)
}
