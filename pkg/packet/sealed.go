package packet

import (
	"encoding/binary"
	"fmt"
)

const (
	// flagOffset is the header byte holding the encrypted flag.
	flagOffset = 1

	// markerOffset is the first byte of the integrity marker.
	markerOffset = 2

	// PayloadOffset is the first payload byte of a sealed packet.
	PayloadOffset = 6
)

// Transform is an opaque in-place cipher applied to the encrypted
// region of a sealed frame. Implementations live outside this package;
// see the cipher package for the stock ones.
type Transform interface {
	Encrypt(b []byte, offset, n int) error
	Decrypt(b []byte, offset, n int) error
}

// Sealed is a packet carrying the encrypted-framing envelope: the
// message ID, an encrypted flag and a four-byte integrity marker that
// echoes the ID. The marker travels inside the encrypted region, so
// after Open it only matches the ID when the frame was decrypted with
// the right key material.
type Sealed struct {
	*Buffer
}

// NewSealed creates an empty sealed packet with the encrypted flag
// set.
func NewSealed() *Sealed {
	s := &Sealed{newBuffer(make([]byte, DefaultCapacity), PayloadOffset)}
	s.data[flagOffset] = 1
	return s
}

// SealedFromBytes constructs a sealed packet over a raw frame. The
// slice length must equal the default capacity exactly.
func SealedFromBytes(b []byte) (*Sealed, error) {
	if len(b) != DefaultCapacity {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrRange, len(b), DefaultCapacity)
	}
	return &Sealed{newBuffer(b, PayloadOffset)}, nil
}

// SealedFromPacket constructs a sealed view over an existing packet's
// frame. The bytes are shared, the cursors are not.
func SealedFromPacket(p *Buffer) *Sealed {
	return &Sealed{newBuffer(p.data, PayloadOffset)}
}

// SetID stores the message ID and recomputes the integrity marker to
// match it.
func (s *Sealed) SetID(id byte) {
	s.data[idOffset] = id
	binary.LittleEndian.PutUint32(s.data[markerOffset:], uint32(id))
}

// SetEncrypted flips the encrypted flag. Only packets with the flag
// set are transformed by Seal and Open.
func (s *Sealed) SetEncrypted(on bool) {
	if on {
		s.data[flagOffset] = 1
	} else {
		s.data[flagOffset] = 0
	}
}

// Encrypted reports whether the encrypted flag is set.
func (s *Sealed) Encrypted() bool {
	return s.data[flagOffset] != 0
}

// Marker returns the integrity marker currently stored in the frame.
func (s *Sealed) Marker() int32 {
	return int32(binary.LittleEndian.Uint32(s.data[markerOffset:]))
}

// IsCorrupted reports whether the integrity marker no longer echoes
// the message ID, which after Open means decryption failed. Detection
// only; the caller decides whether to drop the frame.
func (s *Sealed) IsCorrupted() bool {
	return s.Marker() != int32(s.ID())
}

// Seal encrypts the region from the integrity marker to the end of the
// frame. The ID and flag bytes stay clear. Packets without the
// encrypted flag are left untouched.
func (s *Sealed) Seal(t Transform) error {
	if !s.Encrypted() {
		return nil
	}
	return t.Encrypt(s.data, markerOffset, len(s.data)-markerOffset)
}

// Open decrypts the region from the integrity marker to the end of the
// frame in place. Packets without the encrypted flag are left
// untouched.
func (s *Sealed) Open(t Transform) error {
	if !s.Encrypted() {
		return nil
	}
	return t.Decrypt(s.data, markerOffset, len(s.data)-markerOffset)
}

// DeepCopy clones the full frame into a new sealed packet with default
// cursors.
func (s *Sealed) DeepCopy() *Sealed {
	return &Sealed{s.Buffer.DeepCopy()}
}
