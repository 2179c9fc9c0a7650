package packet

// Packable is implemented by values that serialize themselves into a
// packet buffer. WriteTo and ReadFrom must touch the same fields in the
// same order; the codec cannot enforce that, it is the implementer's
// contract.
type Packable interface {
	WriteTo(b *Buffer) error
	ReadFrom(b *Buffer) error
}
