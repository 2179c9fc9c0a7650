package cipher

import (
	"fmt"

	"golang.org/x/crypto/chacha20"
)

// ChaCha20 is a ChaCha20 frame transform with an explicit key and
// nonce.
type ChaCha20 struct {
	key   []byte
	nonce []byte
}

// NewChaCha20 creates a ChaCha20 transform. The key must be 32 bytes
// and the nonce 12 bytes.
func NewChaCha20(key, nonce []byte) (*ChaCha20, error) {
	if len(key) != chacha20.KeySize {
		return nil, fmt.Errorf("cipher: key must be %d bytes, got %d", chacha20.KeySize, len(key))
	}
	if len(nonce) != chacha20.NonceSize {
		return nil, fmt.Errorf("cipher: nonce must be %d bytes, got %d", chacha20.NonceSize, len(nonce))
	}
	c := &ChaCha20{key: make([]byte, chacha20.KeySize), nonce: make([]byte, chacha20.NonceSize)}
	copy(c.key, key)
	copy(c.nonce, nonce)
	return c, nil
}

// Encrypt transforms b[offset:offset+n] in place.
func (c *ChaCha20) Encrypt(b []byte, offset, n int) error {
	return c.apply(b, offset, n)
}

// Decrypt transforms b[offset:offset+n] in place.
func (c *ChaCha20) Decrypt(b []byte, offset, n int) error {
	return c.apply(b, offset, n)
}

func (c *ChaCha20) apply(b []byte, offset, n int) error {
	if err := checkRegion(b, offset, n); err != nil {
		return err
	}
	stream, err := chacha20.NewUnauthenticatedCipher(c.key, c.nonce)
	if err != nil {
		return fmt.Errorf("cipher: %w", err)
	}
	stream.XORKeyStream(b[offset:offset+n], b[offset:offset+n])
	return nil
}
