// proof.go - Proof bundle types and their wire encoding.
//
// No wire format is mandated by the protocol; this encoding fixes JSON with
// hex-encoded 32-byte compressed points and big-endian scalars so bundles can
// cross process boundaries losslessly. Decoding rejects off-curve points.

package anchored

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"

	bn254 "github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// DLEQProof shows that two point pairs share one secret exponent:
// R1 and R2 commit a shared nonce under the two bases, Z = ρ + e·s.
type DLEQProof struct {
	R1 bn254.G1Affine
	R2 bn254.G1Affine
	Z  fr.Element
}

// SchnorrProof shows knowledge of the discrete log of the public blinding:
// R commits the nonce, Z = ρ' + e'·t.
type SchnorrProof struct {
	R bn254.G1Affine
	Z fr.Element
}

// AnchoredProof is the immutable bundle produced by GenerateProof and
// consumed wholly by VerifyProof.
type AnchoredProof struct {
	Commitment         bn254.G1Affine // C = G^w · H^r
	ModifiedCommitment bn254.G1Affine // C' = C^s
	LinkPoint          bn254.G1Affine // P = G^(s·w)
	LeafHash           [digestSize]byte
	LeafIndex          uint64   // public position of the matched leaf
	MerkleProof        [][]byte // leaf data followed by sibling hashes
	DLEQ               DLEQProof
	Schnorr            SchnorrProof
}

// ProofInput collects everything the prover needs. Rand supplies the two
// proof nonces; nil selects crypto/rand.
type ProofInput struct {
	Secret   fr.Element
	Witness  fr.Element
	Blinding fr.Element
	Params   *Params
	Anchor   bn254.G1Affine
	Tree     *Tree
	Rand     io.Reader
}

type proofJSON struct {
	Commitment         string   `json:"commitment"`
	ModifiedCommitment string   `json:"modified_commitment"`
	LinkPoint          string   `json:"link_point"`
	LeafHash           string   `json:"leaf_hash"`
	LeafIndex          uint64   `json:"leaf_index"`
	MerkleProof        []string `json:"merkle_proof"`
	DLEQR1             string   `json:"dleq_r1"`
	DLEQR2             string   `json:"dleq_r2"`
	DLEQZ              string   `json:"dleq_z"`
	SchnorrR           string   `json:"schnorr_r"`
	SchnorrZ           string   `json:"schnorr_z"`
}

func pointHex(p *bn254.G1Affine) string {
	b := p.Bytes()
	return hex.EncodeToString(b[:])
}

func scalarHex(e *fr.Element) string {
	b := e.Bytes()
	return hex.EncodeToString(b[:])
}

func pointFromHex(s string) (bn254.G1Affine, error) {
	var p bn254.G1Affine
	raw, err := hex.DecodeString(s)
	if err != nil {
		return p, fmt.Errorf("decoding point hex: %w", err)
	}
	if len(raw) != bn254.SizeOfG1AffineCompressed {
		return p, fmt.Errorf("point encoding is %d bytes, want %d", len(raw), bn254.SizeOfG1AffineCompressed)
	}
	if _, err := p.SetBytes(raw); err != nil {
		return p, fmt.Errorf("decoding point: %w", err)
	}
	return p, nil
}

func scalarFromHex(s string) (fr.Element, error) {
	var e fr.Element
	raw, err := hex.DecodeString(s)
	if err != nil {
		return e, fmt.Errorf("decoding scalar hex: %w", err)
	}
	if len(raw) != fr.Bytes {
		return e, fmt.Errorf("scalar encoding is %d bytes, want %d", len(raw), fr.Bytes)
	}
	if err := e.SetBytesCanonical(raw); err != nil {
		return e, fmt.Errorf("decoding scalar: %w", err)
	}
	return e, nil
}

// MarshalJSON implements json.Marshaler.
func (p *AnchoredProof) MarshalJSON() ([]byte, error) {
	w := proofJSON{
		Commitment:         pointHex(&p.Commitment),
		ModifiedCommitment: pointHex(&p.ModifiedCommitment),
		LinkPoint:          pointHex(&p.LinkPoint),
		LeafHash:           hex.EncodeToString(p.LeafHash[:]),
		LeafIndex:          p.LeafIndex,
		MerkleProof:        make([]string, len(p.MerkleProof)),
		DLEQR1:             pointHex(&p.DLEQ.R1),
		DLEQR2:             pointHex(&p.DLEQ.R2),
		DLEQZ:              scalarHex(&p.DLEQ.Z),
		SchnorrR:           pointHex(&p.Schnorr.R),
		SchnorrZ:           scalarHex(&p.Schnorr.Z),
	}
	for i, node := range p.MerkleProof {
		w.MerkleProof[i] = hex.EncodeToString(node)
	}
	return json.Marshal(&w)
}

// UnmarshalJSON implements json.Unmarshaler. Malformed or off-curve encodings
// yield an error, never a partially filled bundle.
func (p *AnchoredProof) UnmarshalJSON(data []byte) error {
	var w proofJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	var out AnchoredProof
	var err error
	if out.Commitment, err = pointFromHex(w.Commitment); err != nil {
		return fmt.Errorf("commitment: %w", err)
	}
	if out.ModifiedCommitment, err = pointFromHex(w.ModifiedCommitment); err != nil {
		return fmt.Errorf("modified commitment: %w", err)
	}
	if out.LinkPoint, err = pointFromHex(w.LinkPoint); err != nil {
		return fmt.Errorf("link point: %w", err)
	}
	leaf, err := hex.DecodeString(w.LeafHash)
	if err != nil || len(leaf) != digestSize {
		return fmt.Errorf("leaf hash: want %d hex-encoded bytes", digestSize)
	}
	copy(out.LeafHash[:], leaf)
	out.LeafIndex = w.LeafIndex
	out.MerkleProof = make([][]byte, len(w.MerkleProof))
	for i, s := range w.MerkleProof {
		node, err := hex.DecodeString(s)
		if err != nil || len(node) != digestSize {
			return fmt.Errorf("merkle proof node %d: want %d hex-encoded bytes", i, digestSize)
		}
		out.MerkleProof[i] = node
	}
	if out.DLEQ.R1, err = pointFromHex(w.DLEQR1); err != nil {
		return fmt.Errorf("dleq R1: %w", err)
	}
	if out.DLEQ.R2, err = pointFromHex(w.DLEQR2); err != nil {
		return fmt.Errorf("dleq R2: %w", err)
	}
	if out.DLEQ.Z, err = scalarFromHex(w.DLEQZ); err != nil {
		return fmt.Errorf("dleq z: %w", err)
	}
	if out.Schnorr.R, err = pointFromHex(w.SchnorrR); err != nil {
		return fmt.Errorf("schnorr R: %w", err)
	}
	if out.Schnorr.Z, err = scalarFromHex(w.SchnorrZ); err != nil {
		return fmt.Errorf("schnorr z: %w", err)
	}
	*p = out
	return nil
}

type paramsJSON struct {
	G string `json:"g"`
	H string `json:"h"`
	B string `json:"b"`
}

// MarshalJSON implements json.Marshaler.
func (p *Params) MarshalJSON() ([]byte, error) {
	return json.Marshal(&paramsJSON{G: pointHex(&p.G), H: pointHex(&p.H), B: pointHex(&p.B)})
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Params) UnmarshalJSON(data []byte) error {
	var w paramsJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	var out Params
	var err error
	if out.G, err = pointFromHex(w.G); err != nil {
		return fmt.Errorf("generator G: %w", err)
	}
	if out.H, err = pointFromHex(w.H); err != nil {
		return fmt.Errorf("generator H: %w", err)
	}
	if out.B, err = pointFromHex(w.B); err != nil {
		return fmt.Errorf("generator B: %w", err)
	}
	*p = out
	return nil
}
