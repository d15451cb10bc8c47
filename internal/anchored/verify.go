// verify.go - Symmetric verification of anchored proof bundles.
//
// The verifier holds no secrets: it never recomputes the leaf hash, only
// checks that the supplied leaf opens a valid Merkle path and that the
// algebraic relations among the public points hold. Well-formed input always
// yields accept or a classified reject, never a fault.

package anchored

import (
	"bytes"
	"math/big"

	"github.com/consensys/gnark-crypto/accumulator/merkletree"
	bn254 "github.com/consensys/gnark-crypto/ecc/bn254"
)

// VerifyProof checks a bundle against the public parameters, the anchor, and
// the enrollment root. All three checks are mandatory; the first failing one
// is reported. A nil return means the proof is accepted.
func VerifyProof(params *Params, anchor *bn254.G1Affine, root []byte, numLeaves uint64, proof *AnchoredProof) error {
	if err := verifyMerkle(root, numLeaves, proof); err != nil {
		return err
	}
	if err := verifyDLEQ(params, anchor, proof); err != nil {
		return err
	}
	return verifySchnorr(params, proof)
}

func verifyMerkle(root []byte, numLeaves uint64, proof *AnchoredProof) error {
	if len(proof.MerkleProof) == 0 {
		return &VerificationError{Stage: StageMerkle, Reason: "empty inclusion path"}
	}
	if !bytes.Equal(proof.MerkleProof[0], proof.LeafHash[:]) {
		return &VerificationError{Stage: StageMerkle, Reason: "leaf hash does not open the path"}
	}
	if proof.LeafIndex >= numLeaves {
		return &VerificationError{Stage: StageMerkle, Reason: "leaf index out of range"}
	}
	if !merkletree.VerifyProof(newMerkleHasher(), root, proof.MerkleProof, proof.LeafIndex, numLeaves) {
		return &VerificationError{Stage: StageMerkle, Reason: "path does not reach the root"}
	}
	return nil
}

func verifyDLEQ(params *Params, anchor *bn254.G1Affine, proof *AnchoredProof) error {
	for _, p := range []*bn254.G1Affine{&proof.Commitment, &proof.ModifiedCommitment, &proof.DLEQ.R1, &proof.DLEQ.R2} {
		if !p.IsOnCurve() {
			return &VerificationError{Stage: StageDLEQ, Reason: "point not on curve"}
		}
	}
	if proof.Commitment.IsInfinity() || proof.ModifiedCommitment.IsInfinity() {
		return &VerificationError{Stage: StageDLEQ, Reason: "degenerate commitment"}
	}

	e, err := challengeFromPoints(anchor, &proof.ModifiedCommitment, &proof.DLEQ.R1, &proof.DLEQ.R2)
	if err != nil {
		return &VerificationError{Stage: StageDLEQ, Reason: err.Error()}
	}
	var eBig, zBig big.Int
	e.BigInt(&eBig)
	proof.DLEQ.Z.BigInt(&zBig)

	// B^z == R1 · U^e
	var lhs, rhs, tmp bn254.G1Affine
	lhs.ScalarMultiplication(&params.B, &zBig)
	tmp.ScalarMultiplication(anchor, &eBig)
	rhs.Add(&proof.DLEQ.R1, &tmp)
	if !lhs.Equal(&rhs) {
		return &VerificationError{Stage: StageDLEQ, Reason: "anchor relation does not hold"}
	}

	// C^z == R2 · (C')^e
	lhs.ScalarMultiplication(&proof.Commitment, &zBig)
	tmp.ScalarMultiplication(&proof.ModifiedCommitment, &eBig)
	rhs.Add(&proof.DLEQ.R2, &tmp)
	if !lhs.Equal(&rhs) {
		return &VerificationError{Stage: StageDLEQ, Reason: "commitment relation does not hold"}
	}
	return nil
}

func verifySchnorr(params *Params, proof *AnchoredProof) error {
	for _, p := range []*bn254.G1Affine{&proof.LinkPoint, &proof.Schnorr.R} {
		if !p.IsOnCurve() {
			return &VerificationError{Stage: StageSchnorr, Reason: "point not on curve"}
		}
	}

	// Q = C' − P, trusted to equal H^(s·r) only through the relation below.
	var q bn254.G1Affine
	q.Sub(&proof.ModifiedCommitment, &proof.LinkPoint)
	if q.IsInfinity() {
		return &VerificationError{Stage: StageSchnorr, Reason: "degenerate public blinding"}
	}

	e, err := challengeFromPoints(&q, &proof.Schnorr.R)
	if err != nil {
		return &VerificationError{Stage: StageSchnorr, Reason: err.Error()}
	}
	var eBig, zBig big.Int
	e.BigInt(&eBig)
	proof.Schnorr.Z.BigInt(&zBig)

	// H^z' == R · Q^e'
	var lhs, rhs, tmp bn254.G1Affine
	lhs.ScalarMultiplication(&params.H, &zBig)
	tmp.ScalarMultiplication(&q, &eBig)
	rhs.Add(&proof.Schnorr.R, &tmp)
	if !lhs.Equal(&rhs) {
		return &VerificationError{Stage: StageSchnorr, Reason: "blinding relation does not hold"}
	}
	return nil
}
