// prove.go - Proof bundle generation.
//
// Generation is pure given its scalar inputs plus the two freshly drawn
// nonces; it has no side effects beyond the returned bundle. Nonces are never
// reused: a repeated nonce across two proofs sharing a secret leaks it.

package anchored

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	bn254 "github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// GenerateProof produces the full anchored proof bundle for a witness
// enrolled in the tree.
// Steps:
//  1. Commit the witness: C = G^w · H^r
//  2. Scale by the secret: C' = C^s
//  3. Compute the link point P = G^(s·w)
//  4. Derive the bound leaf and locate it in the tree
//  5. Build the Merkle inclusion path
//  6. Prove the shared exponent s on (B,U) and (C,C') (DLEQ)
//  7. Prove knowledge of s·r for the public blinding C' − P (Schnorr)
func GenerateProof(input *ProofInput) (*AnchoredProof, error) {
	if input.Params == nil || input.Tree == nil {
		return nil, fmt.Errorf("anchored: proof input missing params or tree")
	}
	rng := input.Rand
	if rng == nil {
		rng = rand.Reader
	}

	// The witness must be one of the enrolled integers.
	n := input.Tree.NumLeaves()
	w := input.Witness.BigInt(new(big.Int))
	if w.Sign() <= 0 || w.Cmp(new(big.Int).SetUint64(n)) > 0 {
		return nil, fmt.Errorf("%w: witness not in [1, %d]", ErrRangeMismatch, n)
	}

	var sBig, rBig big.Int
	input.Secret.BigInt(&sBig)
	input.Blinding.BigInt(&rBig)

	var gw, hr, c bn254.G1Affine
	gw.ScalarMultiplication(&input.Params.G, w)
	hr.ScalarMultiplication(&input.Params.H, &rBig)
	c.Add(&gw, &hr)

	var cp bn254.G1Affine
	cp.ScalarMultiplication(&c, &sBig)

	var sw fr.Element
	sw.Mul(&input.Secret, &input.Witness)
	var p bn254.G1Affine
	p.ScalarMultiplication(&input.Params.G, sw.BigInt(new(big.Int)))

	leaf, err := boundLeaf(&input.Anchor.X, &p.X)
	if err != nil {
		return nil, fmt.Errorf("hashing leaf: %w", err)
	}
	index, ok := input.Tree.FindLeaf(leaf[:])
	if !ok {
		return nil, ErrWitnessNotEnrolled
	}
	path, err := input.Tree.Prove(index)
	if err != nil {
		return nil, err
	}

	// Public blinding Q = C' − P; algebraically H^(s·r).
	var q bn254.G1Affine
	q.Sub(&cp, &p)

	dleq, err := proveDLEQ(rng, &input.Secret, &input.Params.B, &c, &input.Anchor, &cp)
	if err != nil {
		return nil, err
	}

	var t fr.Element
	t.Mul(&input.Secret, &input.Blinding)
	schnorr, err := proveSchnorr(rng, &t, &input.Params.H, &q)
	if err != nil {
		return nil, err
	}

	return &AnchoredProof{
		Commitment:         c,
		ModifiedCommitment: cp,
		LinkPoint:          p,
		LeafHash:           leaf,
		LeafIndex:          index,
		MerkleProof:        path,
		DLEQ:               dleq,
		Schnorr:            schnorr,
	}, nil
}

// proveDLEQ shows that pub1 = base1^secret and pub2 = base2^secret for one
// secret exponent. The challenge binds both public points and both nonce
// commitments (eight limbs).
func proveDLEQ(rng io.Reader, secret *fr.Element, base1, base2, pub1, pub2 *bn254.G1Affine) (DLEQProof, error) {
	var proof DLEQProof
	nonce, err := SampleSecret(rng)
	if err != nil {
		return proof, fmt.Errorf("sampling dleq nonce: %w", err)
	}
	var nBig big.Int
	nonce.BigInt(&nBig)
	proof.R1.ScalarMultiplication(base1, &nBig)
	proof.R2.ScalarMultiplication(base2, &nBig)

	e, err := challengeFromPoints(pub1, pub2, &proof.R1, &proof.R2)
	if err != nil {
		return proof, fmt.Errorf("deriving dleq challenge: %w", err)
	}
	proof.Z.Mul(&e, secret).Add(&proof.Z, &nonce)
	return proof, nil
}

// proveSchnorr shows knowledge of secret with pub = base^secret. The
// challenge binds the public point and the nonce commitment (four limbs).
func proveSchnorr(rng io.Reader, secret *fr.Element, base, pub *bn254.G1Affine) (SchnorrProof, error) {
	var proof SchnorrProof
	nonce, err := SampleSecret(rng)
	if err != nil {
		return proof, fmt.Errorf("sampling schnorr nonce: %w", err)
	}
	var nBig big.Int
	nonce.BigInt(&nBig)
	proof.R.ScalarMultiplication(base, &nBig)

	e, err := challengeFromPoints(pub, &proof.R)
	if err != nil {
		return proof, fmt.Errorf("deriving schnorr challenge: %w", err)
	}
	proof.Z.Mul(&e, secret).Add(&proof.Z, &nonce)
	return proof, nil
}
