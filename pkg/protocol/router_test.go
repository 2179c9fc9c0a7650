package protocol

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wirekit/wirekit/pkg/packet"
)

func TestRouterSeededActive(t *testing.T) {
	lobby := NewTable("lobby")
	r := NewRouter(lobby)

	assert.Same(t, lobby, r.Active())
}

func TestRouterAddDuplicate(t *testing.T) {
	r := NewRouter(NewTable("lobby"))

	require.NoError(t, r.AddProtocol(NewTable("game")))

	err := r.AddProtocol(NewTable("game"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateProtocol))
}

func TestRouterExchange(t *testing.T) {
	lobby := NewTable("lobby")
	game := NewTable("game")

	var got []string
	lobby.AddTrigger(5, func(p packet.Packet) { got = append(got, "lobby") })
	game.AddTrigger(5, func(p packet.Packet) { got = append(got, "game") })

	r := NewRouter(lobby)
	require.NoError(t, r.AddProtocol(game))

	p := packet.New()
	p.SetID(5)

	r.Dispatch(p)
	require.NoError(t, r.Exchange("game"))
	r.Dispatch(p)

	assert.Equal(t, []string{"lobby", "game"}, got,
		"dispatch must consult whichever table is active at dispatch time")

	// The switched-away table keeps its bindings.
	require.NoError(t, r.Exchange("lobby"))
	r.Dispatch(p)
	assert.Equal(t, []string{"lobby", "game", "lobby"}, got)
}

func TestRouterExchangeUnknown(t *testing.T) {
	r := NewRouter(NewTable("lobby"))

	err := r.Exchange("missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrProtocolNotFound))
	assert.Equal(t, "lobby", r.Active().Name(), "a failed exchange must not change the active table")
}
