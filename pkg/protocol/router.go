package protocol

import (
	"fmt"
	"sync"

	"github.com/wirekit/wirekit/pkg/packet"
)

// Router owns a name-keyed set of tables and the one currently
// consulted for dispatch. Exchanging the active table is an O(1)
// lookup; switched-away tables stay resident with their bindings
// intact, ready to be switched back to.
type Router struct {
	mu     sync.RWMutex
	tables map[string]*Table
	active *Table
}

// NewRouter creates a router seeded with one table, which starts
// active.
func NewRouter(initial *Table) *Router {
	return &Router{
		tables: map[string]*Table{initial.Name(): initial},
		active: initial,
	}
}

// AddProtocol registers a table under its name. The active table is
// not changed. A name already registered fails with
// ErrDuplicateProtocol.
func (r *Router) AddProtocol(t *Table) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tables[t.Name()]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateProtocol, t.Name())
	}
	r.tables[t.Name()] = t
	return nil
}

// Exchange makes the named table the active one. Packets dispatched
// after the exchange route through the new table, even if they were
// enqueued while the old one was active.
func (r *Router) Exchange(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, exists := r.tables[name]
	if !exists {
		return fmt.Errorf("%w: %q", ErrProtocolNotFound, name)
	}
	r.active = t
	return nil
}

// Active returns the table currently consulted for dispatch.
func (r *Router) Active() *Table {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active
}

// Dispatch routes one packet through whichever table is active right
// now.
func (r *Router) Dispatch(p packet.Packet) {
	r.Active().Dispatch(p)
}
