// Package cipher provides the stock frame transforms consumed by the
// packet and network packages.
//
// A transform encrypts or decrypts a region of a frame in place. Both
// directions are keyed by an explicit key and IV and neither pads: the
// frame is fixed-capacity, so the transformed region length is known on
// both ends and stream modes keep it byte-for-byte. The same transform
// value can seal and open any number of frames; every call restarts the
// keystream from the IV.
package cipher

import "fmt"

// checkRegion validates an in-place transform region.
func checkRegion(b []byte, offset, n int) error {
	if offset < 0 || n < 0 || offset+n > len(b) {
		return fmt.Errorf("cipher: region [%d, %d) outside buffer of %d bytes", offset, offset+n, len(b))
	}
	return nil
}
