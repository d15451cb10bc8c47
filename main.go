// main.go - End-to-end anchored-proof demonstration.
//
// This walks the complete protocol once:
//   - Derive the public generators (G, H, B) from the fixed seeds
//   - Sample a master secret and compute its anchor U = B^s
//   - Enroll a range-8 tree (256 bound leaves)
//   - Generate a proof for witness 2 with a random blinding
//   - Verify the proof, then show that a tampered bundle is rejected
//
// Usage:
//   go run main.go

package main

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"anchoredproof/internal/anchored"
)

const demoRange = 8

func main() {
	log.Println("=== Anchored Proof Protocol: end-to-end run ===")

	// 1. Public parameters: deterministic, reproducible by every party.
	params, err := anchored.DefaultParams()
	if err != nil {
		log.Printf("ERROR: parameter setup failed: %v", err)
		return
	}
	log.Println("Generators derived (G canonical, H and B sampled).")

	// 2. Master secret and anchor.
	secret, err := anchored.SampleSecret(nil)
	if err != nil {
		log.Printf("ERROR: secret sampling failed: %v", err)
		return
	}
	anchor := anchored.Anchor(&secret, &params.B)
	log.Println("Anchor computed.")

	// 3. Enrollment tree.
	start := time.Now()
	tree, err := anchored.BuildTree(context.Background(), demoRange, &anchor, &secret)
	if err != nil {
		log.Printf("ERROR: tree build failed: %v", err)
		return
	}
	log.Printf("Tree built in %v: %s", time.Since(start), tree.Summary())

	// 4. Proof generation for witness 2.
	blinding, err := anchored.SampleSecret(nil)
	if err != nil {
		log.Printf("ERROR: blinding sampling failed: %v", err)
		return
	}
	input := &anchored.ProofInput{
		Secret:   secret,
		Blinding: blinding,
		Params:   params,
		Anchor:   anchor,
		Tree:     tree,
	}
	input.Witness.SetUint64(2)

	start = time.Now()
	proof, err := anchored.GenerateProof(input)
	if err != nil {
		log.Printf("ERROR: proof generation failed: %v", err)
		return
	}
	log.Printf("Proof generated in %v (leaf index %d).", time.Since(start), proof.LeafIndex)

	// 5. Verification.
	start = time.Now()
	if err := anchored.VerifyProof(params, &anchor, tree.Root(), tree.NumLeaves(), proof); err != nil {
		log.Printf("ERROR: valid proof rejected: %v", err)
		return
	}
	log.Printf("Proof verified in %v.", time.Since(start))

	// 6. Tamper check: a single flipped byte must be rejected.
	tampered := *proof
	tampered.LeafHash[0] ^= 0x01
	if err := anchored.VerifyProof(params, &anchor, tree.Root(), tree.NumLeaves(), &tampered); err != nil {
		log.Printf("Tampered bundle correctly rejected: %v", err)
	} else {
		log.Println("ERROR: tampered bundle was accepted")
		return
	}

	// 7. The bundle serializes for transport.
	encoded, err := json.Marshal(proof)
	if err != nil {
		log.Printf("ERROR: proof serialization failed: %v", err)
		return
	}
	log.Printf("Proof bundle is %d bytes of JSON.", len(encoded))

	log.Println("=== Done ===")
}
