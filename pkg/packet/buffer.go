package packet

import (
	"encoding/binary"
	"fmt"
	"math"
)

const (
	// DefaultCapacity is the fixed frame size used on the wire.
	DefaultCapacity = 1500

	// idOffset is the reserved header byte holding the message ID.
	idOffset = 0

	// headerSize is the number of reserved bytes in a plain packet.
	headerSize = 1
)

// Packet is the common surface of plain and sealed packets. Transports
// and dispatch tables operate on this interface so either kind can flow
// through the pipeline.
type Packet interface {
	ID() byte
	SetID(id byte)
	Bytes() []byte
}

// Buffer is a fixed-capacity packet with independent read and write
// cursors. Both cursors start just past the reserved header bytes.
//
// A Buffer is not safe for concurrent use.
type Buffer struct {
	data []byte
	base int // first payload byte, cursor floor
	rpos int
	wpos int
}

// New creates an empty packet with the default frame capacity.
func New() *Buffer {
	return newBuffer(make([]byte, DefaultCapacity), headerSize)
}

// NewCapacity creates an empty packet with a custom frame capacity.
func NewCapacity(capacity int) (*Buffer, error) {
	if capacity < headerSize {
		return nil, fmt.Errorf("%w: capacity %d below header size %d", ErrRange, capacity, headerSize)
	}
	return newBuffer(make([]byte, capacity), headerSize), nil
}

// FromBytes constructs a packet over a raw frame received off the wire.
// The slice length must equal the default capacity exactly; the packet
// takes ownership of the slice.
func FromBytes(b []byte) (*Buffer, error) {
	if len(b) != DefaultCapacity {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrRange, len(b), DefaultCapacity)
	}
	return newBuffer(b, headerSize), nil
}

// View constructs a packet aliasing p's frame. The bytes are shared,
// the cursors are not: the view starts with fresh default cursors.
func View(p *Buffer) *Buffer {
	return newBuffer(p.data, p.base)
}

func newBuffer(data []byte, base int) *Buffer {
	return &Buffer{data: data, base: base, rpos: base, wpos: base}
}

// ID returns the message ID stored in the reserved header byte.
func (b *Buffer) ID() byte {
	return b.data[idOffset]
}

// SetID stores the message ID in the reserved header byte.
func (b *Buffer) SetID(id byte) {
	b.data[idOffset] = id
}

// Bytes returns the underlying frame, header included.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Capacity returns the fixed frame size.
func (b *Buffer) Capacity() int {
	return len(b.data)
}

// ReadPos returns the current read cursor.
func (b *Buffer) ReadPos() int {
	return b.rpos
}

// WritePos returns the current write cursor.
func (b *Buffer) WritePos() int {
	return b.wpos
}

// Remaining returns the writable bytes left past the write cursor.
func (b *Buffer) Remaining() int {
	return len(b.data) - b.wpos
}

// Reset moves both cursors back to their defaults. The frame bytes are
// untouched.
func (b *Buffer) Reset() {
	b.rpos = b.base
	b.wpos = b.base
}

// DeepCopy clones the full frame into a new packet with default
// cursors.
func (b *Buffer) DeepCopy() *Buffer {
	data := make([]byte, len(b.data))
	copy(data, b.data)
	return newBuffer(data, b.base)
}

// checkWrite validates that width bytes fit past the write cursor.
func (b *Buffer) checkWrite(width int) error {
	if b.wpos+width > len(b.data) {
		return fmt.Errorf("%w: write of %d bytes at %d exceeds capacity %d", ErrBounds, width, b.wpos, len(b.data))
	}
	return nil
}

// checkRead validates that width bytes are available past the read
// cursor.
func (b *Buffer) checkRead(width int) error {
	if b.rpos+width > len(b.data) {
		return fmt.Errorf("%w: read of %d bytes at %d exceeds capacity %d", ErrBounds, width, b.rpos, len(b.data))
	}
	return nil
}

// checkOffset validates an absolute [offset, offset+width) range.
func (b *Buffer) checkOffset(offset, width int) error {
	if offset < 0 || offset+width > len(b.data) {
		return fmt.Errorf("%w: field of %d bytes at offset %d exceeds capacity %d", ErrBounds, width, offset, len(b.data))
	}
	return nil
}

// ===== CURSOR WRITES =====

// PutInt32 appends a 32-bit integer at the write cursor.
func (b *Buffer) PutInt32(v int32) error {
	if err := b.checkWrite(4); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(b.data[b.wpos:], uint32(v))
	b.wpos += 4
	return nil
}

// PutFloat32 appends a 32-bit float at the write cursor.
func (b *Buffer) PutFloat32(v float32) error {
	if err := b.checkWrite(4); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(b.data[b.wpos:], math.Float32bits(v))
	b.wpos += 4
	return nil
}

// PutFloat64 appends a 64-bit float at the write cursor.
func (b *Buffer) PutFloat64(v float64) error {
	if err := b.checkWrite(8); err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(b.data[b.wpos:], math.Float64bits(v))
	b.wpos += 8
	return nil
}

// PutBool appends a bool as a single byte at the write cursor.
func (b *Buffer) PutBool(v bool) error {
	if err := b.checkWrite(1); err != nil {
		return err
	}
	if v {
		b.data[b.wpos] = 1
	} else {
		b.data[b.wpos] = 0
	}
	b.wpos++
	return nil
}

// PutByte appends a single byte at the write cursor.
func (b *Buffer) PutByte(v byte) error {
	if err := b.checkWrite(1); err != nil {
		return err
	}
	b.data[b.wpos] = v
	b.wpos++
	return nil
}

// PutChar appends one UTF-16 code unit (two bytes) at the write
// cursor. Characters outside the basic multilingual plane are not
// representable.
func (b *Buffer) PutChar(c rune) error {
	if c < 0 || c > 0xFFFF {
		return fmt.Errorf("%w: char %U not representable in two bytes", ErrFormat, c)
	}
	if err := b.checkWrite(2); err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(b.data[b.wpos:], uint16(c))
	b.wpos += 2
	return nil
}

// PutString appends a length-prefixed string at the write cursor:
// a 4-byte length followed by that many single bytes. Only single-byte
// characters are supported.
func (b *Buffer) PutString(s string) error {
	if err := b.checkWrite(4 + len(s)); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(b.data[b.wpos:], uint32(len(s)))
	copy(b.data[b.wpos+4:], s)
	b.wpos += 4 + len(s)
	return nil
}

// PutObject appends a Packable field by field at the write cursor.
func (b *Buffer) PutObject(o Packable) error {
	return o.WriteTo(b)
}

// ===== CURSOR READS =====

// GetInt32 reads a 32-bit integer at the read cursor.
func (b *Buffer) GetInt32() (int32, error) {
	if err := b.checkRead(4); err != nil {
		return 0, err
	}
	v := int32(binary.LittleEndian.Uint32(b.data[b.rpos:]))
	b.rpos += 4
	return v, nil
}

// GetFloat32 reads a 32-bit float at the read cursor.
func (b *Buffer) GetFloat32() (float32, error) {
	if err := b.checkRead(4); err != nil {
		return 0, err
	}
	v := math.Float32frombits(binary.LittleEndian.Uint32(b.data[b.rpos:]))
	b.rpos += 4
	return v, nil
}

// GetFloat64 reads a 64-bit float at the read cursor.
func (b *Buffer) GetFloat64() (float64, error) {
	if err := b.checkRead(8); err != nil {
		return 0, err
	}
	v := math.Float64frombits(binary.LittleEndian.Uint64(b.data[b.rpos:]))
	b.rpos += 8
	return v, nil
}

// GetBool reads a bool at the read cursor. Any non-zero byte is true.
func (b *Buffer) GetBool() (bool, error) {
	if err := b.checkRead(1); err != nil {
		return false, err
	}
	v := b.data[b.rpos] != 0
	b.rpos++
	return v, nil
}

// GetByte reads a single byte at the read cursor.
func (b *Buffer) GetByte() (byte, error) {
	if err := b.checkRead(1); err != nil {
		return 0, err
	}
	v := b.data[b.rpos]
	b.rpos++
	return v, nil
}

// GetChar reads one UTF-16 code unit at the read cursor.
func (b *Buffer) GetChar() (rune, error) {
	if err := b.checkRead(2); err != nil {
		return 0, err
	}
	v := rune(binary.LittleEndian.Uint16(b.data[b.rpos:]))
	b.rpos += 2
	return v, nil
}

// GetString reads a length-prefixed string at the read cursor. The
// declared length is validated against the remaining capacity before
// either cursor or buffer is touched; an impossible length fails with
// ErrFormat.
func (b *Buffer) GetString() (string, error) {
	if err := b.checkRead(4); err != nil {
		return "", err
	}
	n := binary.LittleEndian.Uint32(b.data[b.rpos:])
	if int(n) < 0 || b.rpos+4+int(n) > len(b.data) {
		return "", fmt.Errorf("%w: declared string length %d exceeds remaining capacity %d", ErrFormat, n, len(b.data)-b.rpos-4)
	}
	s := string(b.data[b.rpos+4 : b.rpos+4+int(n)])
	b.rpos += 4 + int(n)
	return s, nil
}

// GetObject reads a Packable field by field at the read cursor. Fields
// must be read in the order they were written.
func (b *Buffer) GetObject(o Packable) error {
	return o.ReadFrom(b)
}

// ===== OFFSET ACCESS =====

// Offset variants read and write header-owned fixed fields without
// touching either cursor.

// PutInt32At writes a 32-bit integer at an absolute offset.
func (b *Buffer) PutInt32At(offset int, v int32) error {
	if err := b.checkOffset(offset, 4); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(b.data[offset:], uint32(v))
	return nil
}

// GetInt32At reads a 32-bit integer at an absolute offset.
func (b *Buffer) GetInt32At(offset int) (int32, error) {
	if err := b.checkOffset(offset, 4); err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b.data[offset:])), nil
}

// PutByteAt writes a single byte at an absolute offset.
func (b *Buffer) PutByteAt(offset int, v byte) error {
	if err := b.checkOffset(offset, 1); err != nil {
		return err
	}
	b.data[offset] = v
	return nil
}

// GetByteAt reads a single byte at an absolute offset.
func (b *Buffer) GetByteAt(offset int) (byte, error) {
	if err := b.checkOffset(offset, 1); err != nil {
		return 0, err
	}
	return b.data[offset], nil
}
