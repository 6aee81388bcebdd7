package zkp

import (
	"math/big"
	"time"
)

// CredentialWitness is the private input assignment. It is constructed
// transiently by the credential holder for one proof and never persisted by any
// component in this core.
type CredentialWitness struct {
	CredentialID   *big.Int
	Issuer         *big.Int
	ExpirationDate *big.Int
	CredentialType *big.Int
	Role           *big.Int
	ClearanceLevel *big.Int
}

// PublicConstants are the four published circuit constants agreed out-of-band
// with issuers.
type PublicConstants struct {
	CurrentReferenceTime  *big.Int
	ExpectedTypeCode      *big.Int
	ExpectedRoleCode      *big.Int
	ExpectedClearanceCode *big.Int
}

// PublicInputs is everything the verifier sees: the constants and the boolean
// circuit output. The witness never appears here.
type PublicInputs struct {
	Constants PublicConstants
	Eligible  bool
}

// BuildWitness assembles a witness from issued-credential material. String
// claims are mapped into the field with FieldCode; the issuer encoding must
// match whatever produced the circuit's expected codes.
func BuildWitness(credentialID, issuerDID string, expiresAt time.Time, credentialType, role string, clearanceLevel uint64) CredentialWitness {
	return CredentialWitness{
		CredentialID:   FieldCode(credentialID),
		Issuer:         FieldCode(issuerDID),
		ExpirationDate: big.NewInt(expiresAt.Unix()),
		CredentialType: FieldCode(credentialType),
		Role:           FieldCode(role),
		ClearanceLevel: new(big.Int).SetUint64(clearanceLevel),
	}
}

// Eligible evaluates the circuit's predicate natively: not expired, type, role
// and clearance all match, and neither credential ID nor issuer is zero.
// Timestamps are compared as unsigned 64-bit integers, matching the in-circuit
// convention.
func (w CredentialWitness) Eligible(pub PublicConstants) bool {
	notExpired := w.ExpirationDate.Cmp(pub.CurrentReferenceTime) > 0
	typeMatch := w.CredentialType.Cmp(pub.ExpectedTypeCode) == 0
	roleMatch := w.Role.Cmp(pub.ExpectedRoleCode) == 0
	clearanceMatch := w.ClearanceLevel.Cmp(pub.ExpectedClearanceCode) == 0
	nonDegenerate := w.CredentialID.Sign() != 0 && w.Issuer.Sign() != 0
	return notExpired && typeMatch && roleMatch && clearanceMatch && nonDegenerate
}

// assignment builds the full circuit assignment for the given output claim.
func (w CredentialWitness) assignment(pub PublicConstants, eligible bool) *CredentialValidityCircuit {
	out := big.NewInt(0)
	if eligible {
		out = big.NewInt(1)
	}
	return &CredentialValidityCircuit{
		CurrentReferenceTime:  pub.CurrentReferenceTime,
		ExpectedTypeCode:      pub.ExpectedTypeCode,
		ExpectedRoleCode:      pub.ExpectedRoleCode,
		ExpectedClearanceCode: pub.ExpectedClearanceCode,
		Eligible:              out,
		CredentialID:          w.CredentialID,
		Issuer:                w.Issuer,
		ExpirationDate:        w.ExpirationDate,
		CredentialType:        w.CredentialType,
		Role:                  w.Role,
		ClearanceLevel:        w.ClearanceLevel,
	}
}

// publicAssignment builds the public-only assignment used for verification.
func (p PublicInputs) publicAssignment() *CredentialValidityCircuit {
	out := big.NewInt(0)
	if p.Eligible {
		out = big.NewInt(1)
	}
	return &CredentialValidityCircuit{
		CurrentReferenceTime:  p.Constants.CurrentReferenceTime,
		ExpectedTypeCode:      p.Constants.ExpectedTypeCode,
		ExpectedRoleCode:      p.Constants.ExpectedRoleCode,
		ExpectedClearanceCode: p.Constants.ExpectedClearanceCode,
		Eligible:              out,
	}
}
