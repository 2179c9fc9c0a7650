package network

import (
	"net"
	"sync"
)

// frame is one received unit: the raw bytes plus, for datagram
// transports, the sender they arrived from. Keeping both in a single
// record keeps sender and bytes in lock-step by construction.
type frame struct {
	data   []byte
	sender net.Addr
}

// frameQueue is the shared receive queue between a transport (single
// producer) and its dispatcher (single consumer).
type frameQueue struct {
	mu     sync.Mutex
	frames []frame
}

func (q *frameQueue) push(f frame) {
	q.mu.Lock()
	q.frames = append(q.frames, f)
	q.mu.Unlock()
}

// drainAll removes and returns every queued frame in arrival order.
func (q *frameQueue) drainAll() []frame {
	q.mu.Lock()
	out := q.frames
	q.frames = nil
	q.mu.Unlock()
	return out
}

func (q *frameQueue) size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.frames)
}
