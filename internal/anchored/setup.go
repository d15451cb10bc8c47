// setup.go - Public parameter derivation, secret sampling, and the anchor.
//
// The three generators are public, reproducible protocol parameters: G is the
// canonical BN254 base point, H and B are derived from fixed seeds by
// SHA-256 try-and-increment sampling, so no party knows a discrete-log
// relation between any pair.

package anchored

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"
	"math/big"

	bn254 "github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// maxGeneratorIters caps the try-and-increment loop. Each candidate succeeds
// with probability about 1/2, so exhausting the cap indicates a broken seed
// pipeline rather than bad luck.
const maxGeneratorIters = 256

// Params holds the three public generators of the protocol.
type Params struct {
	G bn254.G1Affine // canonical base point; commits the witness
	H bn254.G1Affine // blinding base
	B bn254.G1Affine // anchor base
}

// Setup derives the public generators from the two sampler seeds. It is
// deterministic: fixed seeds always give the same parameters.
func Setup(seedH, seedB []byte) (*Params, error) {
	_, _, g, _ := bn254.Generators()
	h, err := sampleGenerator(seedH)
	if err != nil {
		return nil, fmt.Errorf("sampling H: %w", err)
	}
	b, err := sampleGenerator(seedB)
	if err != nil {
		return nil, fmt.Errorf("sampling B: %w", err)
	}
	if g.Equal(&h) || g.Equal(&b) || h.Equal(&b) {
		return nil, fmt.Errorf("%w: generators collide", ErrSetup)
	}
	return &Params{G: g, H: h, B: b}, nil
}

// DefaultParams returns the protocol's standard parameters, derived from the
// all-zero and all-one seeds.
func DefaultParams() (*Params, error) {
	var seedH, seedB [32]byte
	for i := range seedB {
		seedB[i] = 0x01
	}
	return Setup(seedH[:], seedB[:])
}

// sampleGenerator hashes (seed ∥ counter) with SHA-256 and interprets the
// digest as a candidate compressed point encoding, incrementing the counter
// until a valid non-identity point appears.
func sampleGenerator(seed []byte) (bn254.G1Affine, error) {
	var p bn254.G1Affine
	var ctr [8]byte
	for counter := uint64(0); counter < maxGeneratorIters; counter++ {
		h := sha256.New()
		h.Write(seed)
		binary.BigEndian.PutUint64(ctr[:], counter)
		h.Write(ctr[:])
		digest := h.Sum(nil)

		// Force the compressed-smallest marker; the low 254 bits of the
		// digest are the candidate x coordinate.
		digest[0] = digest[0]&0x3f | 0x80
		if _, err := p.SetBytes(digest); err != nil {
			continue
		}
		if p.IsInfinity() {
			continue
		}
		return p, nil
	}
	return p, fmt.Errorf("%w: no valid point within %d candidates", ErrSetup, maxGeneratorIters)
}

// SampleSecret draws a uniform scalar from rng (crypto/rand if nil). Secrets,
// blindings, and proof nonces all come through here so tests can substitute a
// deterministic source; production callers must pass a cryptographically
// secure one. A short read is fatal, never a silent entropy downgrade.
func SampleSecret(rng io.Reader) (fr.Element, error) {
	var s fr.Element
	if rng == nil {
		rng = rand.Reader
	}
	// 512 bits before reduction keeps the modular bias negligible.
	var buf [64]byte
	if _, err := io.ReadFull(rng, buf[:]); err != nil {
		return s, fmt.Errorf("reading randomness: %w", err)
	}
	s.SetBytes(buf[:])
	return s, nil
}

// Anchor computes U = base^secret, the public point binding the secret to one
// tree instance.
func Anchor(secret *fr.Element, base *bn254.G1Affine) bn254.G1Affine {
	var u bn254.G1Affine
	u.ScalarMultiplication(base, secret.BigInt(new(big.Int)))
	return u
}
