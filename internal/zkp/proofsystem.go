package zkp

import (
	"bytes"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"

	simerrors "github.com/lvc-ssi/simgate/internal/errors"
)

// ProofBundle carries one generated proof together with its public inputs.
// The proof bytes are the serialized Groth16 proof; the witness values are
// gone by the time a bundle exists.
type ProofBundle struct {
	ProofID string
	Proof   []byte
	Public  PublicInputs
}

// ProofSystem is the compiled credential-validity circuit with its Groth16
// key pair. Prove and Verify are safe for concurrent use; the constraint
// system and keys are written once at construction.
type ProofSystem struct {
	ccs constraint.ConstraintSystem
	pk  groth16.ProvingKey
	vk  groth16.VerifyingKey
}

// NewProofSystem compiles the circuit and runs the Groth16 setup. This is the
// expensive one-time step; the resulting system is reused for every proof.
func NewProofSystem() (*ProofSystem, error) {
	var circuit CredentialValidityCircuit
	ccs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, &circuit)
	if err != nil {
		return nil, fmt.Errorf("failed to compile circuit: %w", err)
	}
	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		return nil, fmt.Errorf("groth16 setup failed: %w", err)
	}
	return &ProofSystem{ccs: ccs, pk: pk, vk: vk}, nil
}

// VerifyingKey returns the key to publish to verifiers.
func (s *ProofSystem) VerifyingKey() groth16.VerifyingKey { return s.vk }

// Prove evaluates the predicate natively, then generates a proof for the
// actual output. Whether that output is acceptable is the caller's decision;
// use ProveEligible when only an eligible outcome will do.
func (s *ProofSystem) Prove(w CredentialWitness, pub PublicConstants) (*ProofBundle, error) {
	eligible := w.Eligible(pub)

	fullWitness, err := frontend.NewWitness(w.assignment(pub, eligible), ecc.BN254.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("failed to construct witness: %w", err)
	}
	proof, err := groth16.Prove(s.ccs, s.pk, fullWitness)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", simerrors.ErrConstraintViolation, err)
	}

	var buf bytes.Buffer
	if _, err := proof.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize proof: %w", err)
	}
	return &ProofBundle{
		Proof:  buf.Bytes(),
		Public: PublicInputs{Constants: pub, Eligible: eligible},
	}, nil
}

// ProveEligible is Prove restricted to the eligible outcome: a witness whose
// predicate evaluates false is rejected with ErrConstraintViolation before any
// proving work happens.
func (s *ProofSystem) ProveEligible(w CredentialWitness, pub PublicConstants) (*ProofBundle, error) {
	if !w.Eligible(pub) {
		return nil, simerrors.ErrConstraintViolation
	}
	return s.Prove(w, pub)
}

// Verify checks the proof against this system's verifying key.
func (s *ProofSystem) Verify(proof []byte, pub PublicInputs) bool {
	return Verify(proof, pub, s.vk)
}

// Verify checks a serialized proof against publicInputs under vk. It is
// deterministic and side-effect-free; a malformed or invalid proof is simply
// false.
func Verify(proofBytes []byte, pub PublicInputs, vk groth16.VerifyingKey) bool {
	proof := groth16.NewProof(ecc.BN254)
	if _, err := proof.ReadFrom(bytes.NewReader(proofBytes)); err != nil {
		return false
	}
	publicWitness, err := frontend.NewWitness(pub.publicAssignment(), ecc.BN254.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return false
	}
	return groth16.Verify(proof, vk, publicWitness) == nil
}
