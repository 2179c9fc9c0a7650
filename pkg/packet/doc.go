// Package packet implements the wirekit fixed-frame packet codec.
//
// Every unit exchanged with a transport is one fixed-capacity frame
// (1500 bytes by default). A Buffer is a typed view over one frame with
// independent read and write cursors, so a packet can be assembled and
// consumed field by field without intermediate allocations.
//
// # Frame Layout
//
// Plain packets reserve a single header byte:
//   - Byte 0: message ID (0-255)
//   - Bytes 1..capacity: payload
//
// Sealed (encryptable) packets reserve a six-byte envelope:
//   - Byte 0: message ID
//   - Byte 1: encrypted flag (0 or 1)
//   - Bytes 2-5: integrity marker (message ID widened to 32 bits)
//   - Bytes 6..capacity: payload
//
// The integrity marker travels inside the encrypted region. After
// decryption it must again equal the message ID; a mismatch means the
// frame was decrypted with the wrong key material and is reported
// through IsCorrupted rather than an error, so the caller decides what
// to do with the frame.
//
// # Field Encoding
//
// All multi-byte fields are little-endian. Supported field types are
// int32, float32, float64, bool (one byte), byte, char (one UTF-16 code
// unit, two bytes) and length-prefixed strings (4-byte length followed
// by that many single bytes; no multi-byte character support). Types
// implementing Packable serialize themselves field by field.
//
// Every cursor operation validates that the field fits in the remaining
// capacity before touching the buffer or the cursor; on failure the
// Buffer is left exactly as it was.
package packet
