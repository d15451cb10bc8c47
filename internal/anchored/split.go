// split.go - Lossless conversion between base-field coordinates and scalar-field limbs.
//
// Poseidon natively hashes scalar-field (Fr) elements, while point coordinates
// live in the base field (Fq). A coordinate is split into two 128-bit limbs so
// it can be fed to the hash without reduction; both limbs fit well below the
// scalar modulus, so the mapping is exactly reversible.

package anchored

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fp"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// splitCoordinate decomposes a base-field coordinate into (low, high)
// scalar-field limbs such that x = low + high·2^128. Concatenating the
// 16-byte little-endian limb encodings reconstructs the 32-byte little-endian
// coordinate exactly.
func splitCoordinate(x *fp.Element) (low, high fr.Element) {
	b := x.Bytes() // canonical 32-byte big-endian
	low.SetBytes(b[16:])
	high.SetBytes(b[:16])
	return low, high
}

// reconstructCoordinate is the inverse of splitCoordinate. The limbs must be
// below 2^128, which splitCoordinate guarantees.
func reconstructCoordinate(low, high *fr.Element) fp.Element {
	lb := low.Bytes()
	hb := high.Bytes()
	var buf [32]byte
	copy(buf[:16], hb[16:])
	copy(buf[16:], lb[16:])
	var x fp.Element
	x.SetBytes(buf[:])
	return x
}
