// hash.go - Poseidon hashing: bound leaves, proof challenges, and the Merkle
// node hasher.
//
// The circom-parameterized Poseidon instance is selected by input count: one
// field element for leaf-level hashing, two for internal tree nodes, four for
// Schnorr challenges, five for bound leaves, eight for DLEQ challenges.
// Digests are the 32-byte big-endian encoding of the output field element.

package anchored

import (
	"hash"
	"math/big"

	bn254 "github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fp"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/iden3/go-iden3-crypto/poseidon"
)

// digestSize is the byte length of every hash in the tree and every leaf.
const digestSize = 32

// leafDomainTag prefixes every bound-leaf hash, separating it from the other
// Poseidon usages in the protocol.
const leafDomainTag = 1

func frBig(e *fr.Element) *big.Int { return e.BigInt(new(big.Int)) }

// boundLeaf computes the enrollment leaf for a link point:
// Hash5(tag, split(anchor.x), split(p.x)) as a 32-byte big-endian digest.
func boundLeaf(anchorX, pX *fp.Element) ([digestSize]byte, error) {
	var out [digestSize]byte
	aLow, aHigh := splitCoordinate(anchorX)
	pLow, pHigh := splitCoordinate(pX)
	d, err := poseidon.Hash([]*big.Int{
		big.NewInt(leafDomainTag),
		frBig(&aLow), frBig(&aHigh),
		frBig(&pLow), frBig(&pHigh),
	})
	if err != nil {
		return out, err
	}
	d.FillBytes(out[:])
	return out, nil
}

// challengeFromPoints derives a Fiat-Shamir challenge scalar from the x
// coordinates of the given points, two limbs per point, in argument order.
// Both prover and verifier must pass the points in the same order; the
// ordering is what binds the challenge to the statement.
func challengeFromPoints(points ...*bn254.G1Affine) (fr.Element, error) {
	var e fr.Element
	inputs := make([]*big.Int, 0, 2*len(points))
	for _, p := range points {
		low, high := splitCoordinate(&p.X)
		inputs = append(inputs, frBig(&low), frBig(&high))
	}
	d, err := poseidon.Hash(inputs)
	if err != nil {
		return e, err
	}
	e.SetBigInt(d)
	return e, nil
}

// merkleHasher adapts Poseidon to hash.Hash for the Merkle engine. The arity
// is selected by input length: 32 bytes hashes as a single element (leaf
// level), 64 bytes as a left/right pair (internal nodes). Input length is the
// only separation between the two levels; a deliberate tag would be sturdier
// but changes every existing root.
type merkleHasher struct {
	data []byte
}

func newMerkleHasher() hash.Hash { return &merkleHasher{} }

func (h *merkleHasher) Write(p []byte) (int, error) {
	h.data = append(h.data, p...)
	return len(p), nil
}

func (h *merkleHasher) Sum(b []byte) []byte {
	var inputs []*big.Int
	if len(h.data) == 2*digestSize {
		inputs = []*big.Int{
			feFromBytes(h.data[:digestSize]),
			feFromBytes(h.data[digestSize:]),
		}
	} else {
		inputs = []*big.Int{feFromBytes(h.data)}
	}
	d, err := poseidon.Hash(inputs)
	if err != nil {
		// Unreachable: one or two reduced field elements is always a
		// supported arity.
		panic(err)
	}
	out := make([]byte, digestSize)
	d.FillBytes(out)
	return append(b, out...)
}

func (h *merkleHasher) Reset()         { h.data = h.data[:0] }
func (h *merkleHasher) Size() int      { return digestSize }
func (h *merkleHasher) BlockSize() int { return digestSize }

// feFromBytes interprets b as a big-endian integer reduced into the scalar
// field. Tree-internal inputs are Poseidon digests and already canonical;
// reduction matters only for untrusted proof bytes fed back at verification.
func feFromBytes(b []byte) *big.Int {
	v := new(big.Int).SetBytes(b)
	return v.Mod(v, fr.Modulus())
}
