package network

import (
	"fmt"
	"log"
	"net"
	"sync"
	"sync/atomic"
)

// Listener accepts incoming stream connections and yields one ready
// transport per connection through the ordered new-connection handler
// list. Pairing each transport with a dispatcher and starting both is
// the application's job.
type Listener struct {
	mu       sync.Mutex
	ln       net.Listener
	handlers []func(*StreamTransport)
	closed   atomic.Bool
}

// NewListener creates an idle listener.
func NewListener() *Listener {
	return &Listener{}
}

// OnConnection appends a handler fired for every accepted connection,
// in registration order, with a transport that is alive but not yet
// started.
func (l *Listener) OnConnection(fn func(*StreamTransport)) {
	l.mu.Lock()
	l.handlers = append(l.handlers, fn)
	l.mu.Unlock()
}

// Start binds the port and spawns the accept loop. Port 0 picks a
// free one.
func (l *Listener) Start(port int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.ln != nil {
		return ErrAlreadyRunning
	}
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return err
	}
	l.ln = ln
	l.closed.Store(false)
	log.Printf("network: listening on %s", ln.Addr())

	go l.acceptLoop(ln)
	return nil
}

// Stop closes the listening socket. Connections already handed out
// are untouched.
func (l *Listener) Stop() {
	l.mu.Lock()
	ln := l.ln
	l.ln = nil
	l.mu.Unlock()

	if ln != nil {
		l.closed.Store(true)
		if err := ln.Close(); err != nil {
			log.Printf("network: listener close error: %v", err)
		}
	}
}

// Addr returns the bound address, or nil while stopped.
func (l *Listener) Addr() net.Addr {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.ln == nil {
		return nil
	}
	return l.ln.Addr()
}

func (l *Listener) acceptLoop(ln net.Listener) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			if !l.closed.Load() {
				log.Printf("network: accept error: %v", err)
			}
			return
		}
		metricConnsAccepted.Inc()

		t := Adopt(conn)
		l.mu.Lock()
		handlers := append([]func(*StreamTransport){}, l.handlers...)
		l.mu.Unlock()
		for _, fn := range handlers {
			fn(t)
		}
	}
}
