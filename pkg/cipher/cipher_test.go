package cipher

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wirekit/wirekit/pkg/packet"
)

func TestAESCTRRoundTrip(t *testing.T) {
	key, iv := DeriveKeyIV("test passphrase")
	c, err := NewAESCTR(key, iv)
	require.NoError(t, err)

	data := []byte("0123456789abcdefthe quick brown fox jumps over the lazy dog")
	plain := append([]byte(nil), data...)

	require.NoError(t, c.Encrypt(data, 4, 32))
	assert.Equal(t, plain[:4], data[:4], "bytes before the region must stay clear")
	assert.Equal(t, plain[36:], data[36:], "bytes after the region must stay clear")
	assert.NotEqual(t, plain[4:36], data[4:36])

	require.NoError(t, c.Decrypt(data, 4, 32))
	assert.Equal(t, plain, data)
}

func TestAESCTRWrongKey(t *testing.T) {
	keyA, iv := DeriveKeyIV("passphrase a")
	keyB, _ := DeriveKeyIV("passphrase b")

	a, err := NewAESCTR(keyA, iv)
	require.NoError(t, err)
	b, err := NewAESCTR(keyB, iv)
	require.NoError(t, err)

	data := []byte("some plaintext data here")
	plain := append([]byte(nil), data...)

	require.NoError(t, a.Encrypt(data, 0, len(data)))
	require.NoError(t, b.Decrypt(data, 0, len(data)))
	assert.NotEqual(t, plain, data, "mismatched keys must not reproduce the plaintext")
}

func TestAESCTRBadParams(t *testing.T) {
	_, err := NewAESCTR(make([]byte, 15), make([]byte, 16))
	assert.Error(t, err)

	_, err = NewAESCTR(make([]byte, 32), make([]byte, 8))
	assert.Error(t, err)

	c, err := NewAESCTR(make([]byte, 32), make([]byte, 16))
	require.NoError(t, err)
	assert.Error(t, c.Encrypt(make([]byte, 10), 8, 8))
	assert.Error(t, c.Encrypt(make([]byte, 10), -1, 4))
}

func TestChaCha20RoundTrip(t *testing.T) {
	key := DeriveKey("chacha passphrase", 32)
	nonce := DeriveKey("chacha nonce", 12)

	c, err := NewChaCha20(key, nonce)
	require.NoError(t, err)

	data := []byte("stream mode keeps the region length byte for byte")
	plain := append([]byte(nil), data...)

	require.NoError(t, c.Encrypt(data, 0, len(data)))
	assert.NotEqual(t, plain, data)
	require.NoError(t, c.Decrypt(data, 0, len(data)))
	assert.Equal(t, plain, data)
}

func TestDeriveKeyDeterministic(t *testing.T) {
	a := DeriveKey("same phrase", 32)
	b := DeriveKey("same phrase", 32)
	c := DeriveKey("other phrase", 32)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 32)
}

// TestSealedFrameIntegrity exercises the full encrypted-framing path:
// seal with one transform, open with another, and let the integrity
// marker report the mismatch.
func TestSealedFrameIntegrity(t *testing.T) {
	goodKey, goodIV := DeriveKeyIV("relay shared secret")
	good, err := NewAESCTR(goodKey, goodIV)
	require.NoError(t, err)

	s := packet.NewSealed()
	s.SetID(14)
	require.NoError(t, s.PutString("routed through the mesh"))
	plain := append([]byte(nil), s.Bytes()...)

	require.NoError(t, s.Seal(good))
	require.True(t, s.IsCorrupted(), "marker must be unreadable while sealed")

	onWire := append([]byte(nil), s.Bytes()...)

	// Matching key restores the frame.
	rx, err := packet.SealedFromBytes(append([]byte(nil), onWire...))
	require.NoError(t, err)
	require.NoError(t, rx.Open(good))
	assert.False(t, rx.IsCorrupted())
	assert.True(t, bytes.Equal(plain, rx.Bytes()))

	msg, err := rx.GetString()
	require.NoError(t, err)
	assert.Equal(t, "routed through the mesh", msg)

	// Wrong key leaves the marker scrambled.
	badKey, badIV := DeriveKeyIV("attacker guess")
	bad, err := NewAESCTR(badKey, badIV)
	require.NoError(t, err)

	rx2, err := packet.SealedFromBytes(append([]byte(nil), onWire...))
	require.NoError(t, err)
	require.NoError(t, rx2.Open(bad))
	assert.True(t, rx2.IsCorrupted())
}
