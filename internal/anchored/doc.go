// Package anchored implements an anchored membership proof protocol over BN254.
//
// Overview:
//   - A master secret s links a public anchor U = B^s to a Pedersen commitment
//     C = G^w · H^r without revealing s, the witness w, or the blinding r
//   - Enrollment builds a Merkle tree over Poseidon-bound leaves, one per
//     integer x in [1, 2^range], each tying the anchor to G^(s·x)
//   - A proof bundle carries the commitment, its secret-scaled form C' = C^s,
//     the link point P = G^(s·w), a Merkle inclusion path, a DLEQ proof that
//     (B,U) and (C,C') share the exponent s, and a Schnorr proof of knowledge
//     of s·r for the public blinding C' − P = H^(s·r)
//   - Verification is symmetric and public: Merkle path, DLEQ relations, and
//     the Schnorr relation, nothing else
//
// Security Model:
//   - Uses circom-parameterized Poseidon for leaves, tree nodes, and challenges
//   - Uses BN254 G1 arithmetic from gnark-crypto
//   - Generators H and B are derived by SHA-256 try-and-increment sampling and
//     carry no known discrete-log relation to G or each other
//   - All secrets and nonces are drawn from an injected randomness source
//     (crypto/rand by default); nonce reuse across proofs breaks soundness
//
// Usage:
//   - DefaultParams or Setup, then SampleSecret, Anchor, BuildTree
//   - GenerateProof produces an AnchoredProof; VerifyProof checks one
//
// WARNING: This package is for research and educational purposes. Use with
// caution in production environments.
package anchored
