package cipher

import (
	"crypto/sha256"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// PBKDF2 iterations (100,000 is the recommended minimum)
	deriveIterations = 100000

	// Salt for key derivation, constant per application
	derivationSalt = "wirekit-frame-cipher-v1"
)

// DeriveKey stretches a passphrase into n bytes of key material using
// PBKDF2 with SHA-256. The derivation is deterministic, so two peers
// configured with the same passphrase end up with the same key.
func DeriveKey(passphrase string, n int) []byte {
	return pbkdf2.Key([]byte(passphrase), []byte(derivationSalt), deriveIterations, n, sha256.New)
}

// DeriveKeyIV derives an AES-256 key and a 16-byte IV from a single
// passphrase, in one stretch so the two are independent.
func DeriveKeyIV(passphrase string) (key, iv []byte) {
	material := DeriveKey(passphrase, 32+16)
	return material[:32], material[32:]
}
