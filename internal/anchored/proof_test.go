package anchored

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"testing"

	bn254 "github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// proofFixture builds a full protocol instance: default parameters, a fixed
// secret, its anchor, a range-8 tree, and a valid proof for witness 2.
func proofFixture(t *testing.T) (*Params, fr.Element, bn254.G1Affine, *Tree, *AnchoredProof) {
	t.Helper()
	params, err := DefaultParams()
	if err != nil {
		t.Fatalf("DefaultParams failed: %v", err)
	}
	var secret fr.Element
	secret.SetUint64(424242)
	anchor := Anchor(&secret, &params.B)
	tree, err := BuildTree(context.Background(), 8, &anchor, &secret)
	if err != nil {
		t.Fatalf("BuildTree failed: %v", err)
	}

	var witness, blinding fr.Element
	witness.SetUint64(2)
	blinding.SetUint64(98765)
	proof, err := GenerateProof(&ProofInput{
		Secret:   secret,
		Witness:  witness,
		Blinding: blinding,
		Params:   params,
		Anchor:   anchor,
		Tree:     tree,
	})
	if err != nil {
		t.Fatalf("GenerateProof failed: %v", err)
	}
	return params, secret, anchor, tree, proof
}

func TestEndToEndAcceptance(t *testing.T) {
	params, _, anchor, tree, proof := proofFixture(t)
	if err := VerifyProof(params, &anchor, tree.Root(), tree.NumLeaves(), proof); err != nil {
		t.Fatalf("valid proof rejected: %v", err)
	}
	if proof.LeafIndex != 1 {
		t.Errorf("witness 2 should occupy leaf index 1, got %d", proof.LeafIndex)
	}
}

func TestProofNoncesAreFresh(t *testing.T) {
	params, secret, anchor, tree, first := proofFixture(t)

	var witness, blinding fr.Element
	witness.SetUint64(2)
	blinding.SetUint64(98765)
	second, err := GenerateProof(&ProofInput{
		Secret:   secret,
		Witness:  witness,
		Blinding: blinding,
		Params:   params,
		Anchor:   anchor,
		Tree:     tree,
	})
	if err != nil {
		t.Fatalf("GenerateProof failed: %v", err)
	}
	if first.DLEQ.R1.Equal(&second.DLEQ.R1) || first.Schnorr.R.Equal(&second.Schnorr.R) {
		t.Fatalf("nonce commitments repeated across proofs; nonce reuse leaks the secret")
	}
	if err := VerifyProof(params, &anchor, tree.Root(), tree.NumLeaves(), second); err != nil {
		t.Fatalf("second proof rejected: %v", err)
	}
}

func TestTamperedProofsAreRejected(t *testing.T) {
	params, _, anchor, tree, proof := proofFixture(t)
	var one fr.Element
	one.SetOne()

	cases := []struct {
		name   string
		mutate func(p *AnchoredProof)
		stage  Stage
	}{
		{
			name:   "modified commitment coordinate",
			mutate: func(p *AnchoredProof) { p.ModifiedCommitment.X.Add(&p.ModifiedCommitment.X, &p.ModifiedCommitment.Y) },
			stage:  StageDLEQ,
		},
		{
			name:   "leaf hash byte flip",
			mutate: func(p *AnchoredProof) { p.LeafHash[0] ^= 0x01 },
			stage:  StageMerkle,
		},
		{
			name:   "leaf index shifted to a sibling",
			mutate: func(p *AnchoredProof) { p.LeafIndex++ },
			stage:  StageMerkle,
		},
		{
			name:   "dleq response bumped",
			mutate: func(p *AnchoredProof) { p.DLEQ.Z.Add(&p.DLEQ.Z, &one) },
			stage:  StageDLEQ,
		},
		{
			name:   "schnorr response bumped",
			mutate: func(p *AnchoredProof) { p.Schnorr.Z.Add(&p.Schnorr.Z, &one) },
			stage:  StageSchnorr,
		},
		{
			name:   "merkle path node flipped",
			mutate: func(p *AnchoredProof) { p.MerkleProof[1][0] ^= 0x01 },
			stage:  StageMerkle,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tampered := *proof
			tampered.MerkleProof = make([][]byte, len(proof.MerkleProof))
			for i, node := range proof.MerkleProof {
				tampered.MerkleProof[i] = append([]byte(nil), node...)
			}
			tc.mutate(&tampered)

			err := VerifyProof(params, &anchor, tree.Root(), tree.NumLeaves(), &tampered)
			if err == nil {
				t.Fatalf("tampered proof accepted")
			}
			var verr *VerificationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected a classified rejection, got %v", err)
			}
			if verr.Stage != tc.stage {
				t.Errorf("rejection stage = %s, want %s (%v)", verr.Stage, tc.stage, err)
			}
		})
	}
}

func TestDLEQSoundness(t *testing.T) {
	params, _, anchor, tree, proof := proofFixture(t)

	// Substitute an unrelated point with no shared exponent for C'.
	var unrelated bn254.G1Affine
	unrelated.ScalarMultiplication(&params.G, big.NewInt(1234567))
	tampered := *proof
	tampered.ModifiedCommitment = unrelated

	err := VerifyProof(params, &anchor, tree.Root(), tree.NumLeaves(), &tampered)
	var verr *VerificationError
	if !errors.As(err, &verr) || verr.Stage != StageDLEQ {
		t.Fatalf("unrelated C' must fail the dleq check, got %v", err)
	}
}

func TestEnrollmentBoundary(t *testing.T) {
	params, err := DefaultParams()
	if err != nil {
		t.Fatalf("DefaultParams failed: %v", err)
	}
	var secret fr.Element
	secret.SetUint64(31337)
	anchor := Anchor(&secret, &params.B)
	tree, err := BuildTree(context.Background(), 4, &anchor, &secret)
	if err != nil {
		t.Fatalf("BuildTree failed: %v", err)
	}

	input := &ProofInput{
		Secret: secret,
		Params: params,
		Anchor: anchor,
		Tree:   tree,
	}
	input.Blinding.SetUint64(5)

	input.Witness.SetUint64(17)
	if _, err := GenerateProof(input); !errors.Is(err, ErrWitnessNotEnrolled) {
		t.Fatalf("witness 17 in a 16-leaf tree must not be enrolled, got %v", err)
	}
	if _, err := GenerateProof(input); !errors.Is(err, ErrRangeMismatch) {
		t.Fatalf("witness 17 is also out of range, got %v", err)
	}

	input.Witness.SetUint64(16)
	proof, err := GenerateProof(input)
	if err != nil {
		t.Fatalf("witness 16 should be enrolled: %v", err)
	}
	if proof.LeafIndex != 15 {
		t.Errorf("witness 16 should occupy the last leaf, got index %d", proof.LeafIndex)
	}
	if err := VerifyProof(params, &anchor, tree.Root(), tree.NumLeaves(), proof); err != nil {
		t.Fatalf("boundary proof rejected: %v", err)
	}
}

func TestWrongSecretIsNotEnrolled(t *testing.T) {
	params, _, _, tree, _ := proofFixture(t)

	// A witness in range, proved under a secret the tree was not built with.
	var otherSecret fr.Element
	otherSecret.SetUint64(171717)
	otherAnchor := Anchor(&otherSecret, &params.B)

	input := &ProofInput{
		Secret: otherSecret,
		Params: params,
		Anchor: otherAnchor,
		Tree:   tree,
	}
	input.Witness.SetUint64(2)
	input.Blinding.SetUint64(9)

	_, err := GenerateProof(input)
	if !errors.Is(err, ErrWitnessNotEnrolled) {
		t.Fatalf("foreign secret must not find a leaf, got %v", err)
	}
	if errors.Is(err, ErrRangeMismatch) {
		t.Errorf("in-range witness should fail the leaf scan, not the range check")
	}
}

func TestResponseIdentityExact(t *testing.T) {
	// z = ρ + e·s must hold as exact modular arithmetic, no rounding anywhere.
	var rho, e, s, z fr.Element
	rho.SetUint64(11111)
	e.SetUint64(22222)
	s.SetUint64(33333)
	z.Mul(&e, &s).Add(&z, &rho)

	expected := new(big.Int).Mul(big.NewInt(22222), big.NewInt(33333))
	expected.Add(expected, big.NewInt(11111))
	expected.Mod(expected, fr.Modulus())
	if frBig(&z).Cmp(expected) != 0 {
		t.Fatalf("response identity broken: got %s want %s", frBig(&z), expected)
	}
}

func TestProofJSONRoundTrip(t *testing.T) {
	params, _, anchor, tree, proof := proofFixture(t)

	data, err := json.Marshal(proof)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var decoded AnchoredProof
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if !decoded.Commitment.Equal(&proof.Commitment) ||
		!decoded.ModifiedCommitment.Equal(&proof.ModifiedCommitment) ||
		!decoded.LinkPoint.Equal(&proof.LinkPoint) {
		t.Errorf("points did not survive the round trip")
	}
	if !decoded.DLEQ.Z.Equal(&proof.DLEQ.Z) || !decoded.Schnorr.Z.Equal(&proof.Schnorr.Z) {
		t.Errorf("responses did not survive the round trip")
	}
	if decoded.LeafHash != proof.LeafHash || decoded.LeafIndex != proof.LeafIndex {
		t.Errorf("leaf binding did not survive the round trip")
	}
	if err := VerifyProof(params, &anchor, tree.Root(), tree.NumLeaves(), &decoded); err != nil {
		t.Fatalf("decoded proof rejected: %v", err)
	}
}

func TestProofJSONRejectsMalformedPoints(t *testing.T) {
	_, _, _, _, proof := proofFixture(t)
	data, err := json.Marshal(proof)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal into map failed: %v", err)
	}
	raw["commitment"] = "00"
	mangled, err := json.Marshal(raw)
	if err != nil {
		t.Fatalf("re-marshal failed: %v", err)
	}

	var decoded AnchoredProof
	if err := json.Unmarshal(mangled, &decoded); err == nil {
		t.Fatalf("malformed point encoding must be rejected")
	}
}

func TestParamsJSONRoundTrip(t *testing.T) {
	params, err := DefaultParams()
	if err != nil {
		t.Fatalf("DefaultParams failed: %v", err)
	}
	data, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var decoded Params
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !decoded.G.Equal(&params.G) || !decoded.H.Equal(&params.H) || !decoded.B.Equal(&params.B) {
		t.Errorf("generators did not survive the round trip")
	}
}
