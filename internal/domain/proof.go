package domain

import "context"

// ProofVerifier checks a previously generated eligibility proof by its proof
// ID. Verification is pure and side-effect-free; an unknown or invalid proof is
// reported as false, never as an error.
type ProofVerifier interface {
	VerifyByID(ctx context.Context, proofID string) bool
}
