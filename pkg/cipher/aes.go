package cipher

import (
	"crypto/aes"
	stdcipher "crypto/cipher"
	"fmt"
)

// AESCTR is an AES-CTR frame transform with an explicit key and IV.
type AESCTR struct {
	block stdcipher.Block
	iv    []byte
}

// NewAESCTR creates an AES-CTR transform. The key must be 16, 24 or 32
// bytes and the IV exactly one AES block.
func NewAESCTR(key, iv []byte) (*AESCTR, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cipher: %w", err)
	}
	if len(iv) != aes.BlockSize {
		return nil, fmt.Errorf("cipher: IV must be %d bytes, got %d", aes.BlockSize, len(iv))
	}
	c := &AESCTR{block: block, iv: make([]byte, aes.BlockSize)}
	copy(c.iv, iv)
	return c, nil
}

// Encrypt transforms b[offset:offset+n] in place.
func (c *AESCTR) Encrypt(b []byte, offset, n int) error {
	return c.apply(b, offset, n)
}

// Decrypt transforms b[offset:offset+n] in place. CTR mode is its own
// inverse.
func (c *AESCTR) Decrypt(b []byte, offset, n int) error {
	return c.apply(b, offset, n)
}

func (c *AESCTR) apply(b []byte, offset, n int) error {
	if err := checkRegion(b, offset, n); err != nil {
		return err
	}
	stream := stdcipher.NewCTR(c.block, c.iv)
	stream.XORKeyStream(b[offset:offset+n], b[offset:offset+n])
	return nil
}
