package network

import (
	"github.com/wirekit/wirekit/pkg/packet"
)

// PacketFactory converts between raw frames and typed packets for a
// dispatcher. All three constructions must be supported: an empty
// packet, a packet over received bytes and a view over an existing
// packet.
type PacketFactory interface {
	New() packet.Packet
	FromBytes(b []byte) (packet.Packet, error)
	FromPacket(p packet.Packet) packet.Packet
}

// BufferFactory produces plain packets.
type BufferFactory struct{}

// New returns an empty plain packet.
func (BufferFactory) New() packet.Packet {
	return packet.New()
}

// FromBytes wraps a received frame. The frame length must match the
// fixed capacity.
func (BufferFactory) FromBytes(b []byte) (packet.Packet, error) {
	return packet.FromBytes(b)
}

// FromPacket returns a plain view aliasing the packet's frame.
func (BufferFactory) FromPacket(p packet.Packet) packet.Packet {
	if b, ok := p.(*packet.Buffer); ok {
		return packet.View(b)
	}
	// Other packet kinds share their frame through FromBytes, which
	// aliases the slice. A non-default capacity cannot be viewed as a
	// plain packet; hand it back as-is.
	v, err := packet.FromBytes(p.Bytes())
	if err != nil {
		return p
	}
	return v
}

// SealedFactory produces sealed packets and opens encrypted frames on
// receive with the injected transform.
type SealedFactory struct {
	Transform packet.Transform
}

// New returns an empty sealed packet.
func (f SealedFactory) New() packet.Packet {
	return packet.NewSealed()
}

// FromBytes wraps a received frame and, when the frame carries the
// encrypted flag and a transform is installed, decrypts it in place.
// Whether the decryption actually matched the sender's key is visible
// through IsCorrupted on the returned packet.
func (f SealedFactory) FromBytes(b []byte) (packet.Packet, error) {
	s, err := packet.SealedFromBytes(b)
	if err != nil {
		return nil, err
	}
	if f.Transform != nil {
		if err := s.Open(f.Transform); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// FromPacket returns a sealed view aliasing the packet's frame.
func (f SealedFactory) FromPacket(p packet.Packet) packet.Packet {
	switch v := p.(type) {
	case *packet.Sealed:
		return packet.SealedFromPacket(v.Buffer)
	case *packet.Buffer:
		return packet.SealedFromPacket(v)
	default:
		return p
	}
}
