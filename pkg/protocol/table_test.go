package protocol

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wirekit/wirekit/pkg/packet"
)

func newPacket(t *testing.T, id byte) *packet.Buffer {
	t.Helper()
	p := packet.New()
	p.SetID(id)
	return p
}

func TestTableDispatchBoundID(t *testing.T) {
	tbl := NewTable("game")

	var got []string
	tbl.AddTrigger(5, func(p packet.Packet) { got = append(got, "bound") })
	tbl.AddDefault(func(p packet.Packet) { got = append(got, "default") })

	tbl.Dispatch(newPacket(t, 5))

	assert.Equal(t, []string{"bound"}, got, "a bound ID must never reach the default list")
}

func TestTableDispatchUnboundID(t *testing.T) {
	tbl := NewTable("game")

	var got []string
	tbl.AddTrigger(5, func(p packet.Packet) { got = append(got, "bound") })
	tbl.AddDefault(func(p packet.Packet) { got = append(got, "default") })

	tbl.Dispatch(newPacket(t, 6))

	assert.Equal(t, []string{"default"}, got)
}

func TestTableDispatchNoMatchIsSilent(t *testing.T) {
	tbl := NewTable("empty")
	assert.NotPanics(t, func() { tbl.Dispatch(newPacket(t, 200)) })
}

func TestTableMulticastOrder(t *testing.T) {
	tbl := NewTable("game")

	var order []int
	for i := 0; i < 4; i++ {
		i := i
		tbl.AddTrigger(9, func(p packet.Packet) { order = append(order, i) })
	}

	tbl.Dispatch(newPacket(t, 9))

	assert.Equal(t, []int{0, 1, 2, 3}, order, "triggers must fire in registration order")
}

func TestTableSetTriggerReplaces(t *testing.T) {
	tbl := NewTable("game")

	var got []string
	tbl.AddTrigger(1, func(p packet.Packet) { got = append(got, "old") })
	tbl.SetTrigger(1, []Trigger{func(p packet.Packet) { got = append(got, "new") }})

	tbl.Dispatch(newPacket(t, 1))

	assert.Equal(t, []string{"new"}, got, "SetTrigger must replace the slot wholesale")
}

func TestTableSetTriggersCeiling(t *testing.T) {
	tbl := NewTable("game")

	fired := false
	tbl.AddTrigger(3, func(p packet.Packet) { fired = true })

	oversized := make([][]Trigger, SlotCount+1)
	err := tbl.SetTriggers(oversized)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTableTooLarge))

	// A rejected replacement must leave the table unchanged.
	tbl.Dispatch(newPacket(t, 3))
	assert.True(t, fired)

	slots := make([][]Trigger, 10)
	slots[7] = []Trigger{func(p packet.Packet) { fired = false }}
	require.NoError(t, tbl.SetTriggers(slots))

	tbl.Dispatch(newPacket(t, 7))
	assert.False(t, fired)

	// The old slot 3 binding is gone after bulk replacement.
	fired = false
	tbl.Dispatch(newPacket(t, 3))
	assert.False(t, fired)
}
