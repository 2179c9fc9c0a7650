// Package protocol implements per-ID packet dispatch tables and the
// router that lets a connection exchange its active table at runtime.
//
// A Table maps the message-ID byte of an incoming packet to an ordered
// list of triggers. A Router owns a named set of tables and routes
// every packet through whichever table is active at dispatch time, so
// an application can swap its entire wire vocabulary with one call.
package protocol

import (
	"errors"
	"fmt"

	"github.com/wirekit/wirekit/pkg/packet"
)

// SlotCount is the number of trigger slots in a table, one per
// possible message-ID byte.
const SlotCount = 256

var (
	// ErrDuplicateProtocol is returned when adding a table whose name
	// is already registered with the router.
	ErrDuplicateProtocol = errors.New("protocol: duplicate protocol name")

	// ErrProtocolNotFound is returned when exchanging to a name the
	// router does not know.
	ErrProtocolNotFound = errors.New("protocol: no such protocol")

	// ErrTableTooLarge is returned when a bulk trigger replacement
	// exceeds the slot count.
	ErrTableTooLarge = errors.New("protocol: trigger table exceeds 256 slots")
)

// Trigger is one handler bound to a message ID. Triggers run
// synchronously on the dispatch goroutine, in registration order.
type Trigger func(p packet.Packet)

// Table is a named set of trigger lists, one slot per message ID plus
// a default list for IDs with no subscribers.
//
// Trigger bindings may be mutated at any time by the owning
// application, but mutation is not synchronized against in-flight
// dispatch; mutate during live traffic at your own risk.
type Table struct {
	name     string
	triggers [SlotCount][]Trigger
	fallback []Trigger
}

// NewTable creates an empty table. The name keys the table inside a
// router and must be unique there.
func NewTable(name string) *Table {
	return &Table{name: name}
}

// Name returns the table's router key.
func (t *Table) Name() string {
	return t.name
}

// AddTrigger appends a trigger to the multicast list for id. Multiple
// triggers may share an ID; they fire in registration order.
func (t *Table) AddTrigger(id byte, fn Trigger) {
	t.triggers[id] = append(t.triggers[id], fn)
}

// SetTrigger replaces the trigger list for id wholesale.
func (t *Table) SetTrigger(id byte, fns []Trigger) {
	t.triggers[id] = fns
}

// AddDefault appends a trigger to the default list, fired for packets
// whose ID has no subscribers.
func (t *Table) AddDefault(fn Trigger) {
	t.fallback = append(t.fallback, fn)
}

// SetDefault replaces the default trigger list wholesale.
func (t *Table) SetDefault(fns []Trigger) {
	t.fallback = fns
}

// SetTriggers replaces every slot at once. Slot i of the argument
// becomes the trigger list for ID i; missing tail slots are cleared.
// More than 256 slots fails with ErrTableTooLarge and leaves the table
// unchanged.
func (t *Table) SetTriggers(slots [][]Trigger) error {
	if len(slots) > SlotCount {
		return fmt.Errorf("%w: got %d", ErrTableTooLarge, len(slots))
	}
	var next [SlotCount][]Trigger
	copy(next[:], slots)
	t.triggers = next
	return nil
}

// Dispatch routes one packet through the table: every trigger bound to
// the packet's ID fires in order, or the default list fires when the
// ID has no subscribers. A packet matching neither is dropped at this
// layer; it stays visible through the dispatcher's generic
// received-packet event.
func (t *Table) Dispatch(p packet.Packet) {
	if list := t.triggers[p.ID()]; len(list) > 0 {
		for _, fn := range list {
			fn(p)
		}
		return
	}
	for _, fn := range t.fallback {
		fn(p)
	}
}
