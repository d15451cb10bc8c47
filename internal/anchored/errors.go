// errors.go - Error taxonomy for the anchored-proof protocol.
//
// Setup and generation errors are terminal for the attempt: retrying with
// identical inputs reproduces the same failure. Verification errors classify
// which check rejected the proof.

package anchored

import (
	"errors"
	"fmt"
)

// ErrSetup reports that public-parameter derivation failed. With the fixed
// iteration cap this is astronomically unlikely and treated as a fatal
// configuration failure.
var ErrSetup = errors.New("anchored: parameter setup failed")

// ErrWitnessNotEnrolled reports that the witness maps to no leaf of the tree.
// A fresh attempt needs a different witness, not a retry.
var ErrWitnessNotEnrolled = errors.New("anchored: witness not enrolled in tree")

// ErrRangeMismatch reports a witness scalar outside [1, 2^range]. Such a
// witness is by definition not enrolled, so the error matches
// ErrWitnessNotEnrolled under errors.Is as well.
var ErrRangeMismatch = fmt.Errorf("anchored: witness outside enrolled range: %w", ErrWitnessNotEnrolled)

// Stage identifies the verifier check that rejected a proof.
type Stage string

const (
	StageMerkle  Stage = "merkle"
	StageDLEQ    Stage = "dleq"
	StageSchnorr Stage = "schnorr"
)

// VerificationError reports which check rejected a proof bundle. Deployments
// concerned about oracle leakage can collapse it to a uniform rejection.
type VerificationError struct {
	Stage  Stage
	Reason string
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("anchored: %s check rejected proof: %s", e.Stage, e.Reason)
}
