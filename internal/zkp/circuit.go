// Package zkp implements the credential-validity circuit and its Groth16
// proof system over the BN254 scalar field.
package zkp

import (
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/math/cmp"
)

// CredentialValidityCircuit is a straight-line arithmetic circuit that
// evaluates the credential eligibility predicate. Every constraint is always
// evaluated; there is no branching.
//
// The private inputs are the credential fields. The public inputs are the four
// constants agreed out-of-band with issuers plus Eligible, the circuit's sole
// output: the AND of the five sub-conditions. The prover commits to Eligible in
// the public witness and the constraint system rejects any assignment where it
// does not equal the recomputed conjunction.
//
// Timestamps are interpreted as unsigned 64-bit integers: both are
// range-constrained to 64 bits, so "strictly positive difference" becomes a
// strict unsigned comparison.
type CredentialValidityCircuit struct {
	CurrentReferenceTime  frontend.Variable `gnark:",public"`
	ExpectedTypeCode      frontend.Variable `gnark:",public"`
	ExpectedRoleCode      frontend.Variable `gnark:",public"`
	ExpectedClearanceCode frontend.Variable `gnark:",public"`
	Eligible              frontend.Variable `gnark:",public"`

	CredentialID   frontend.Variable
	Issuer         frontend.Variable
	ExpirationDate frontend.Variable
	CredentialType frontend.Variable
	Role           frontend.Variable
	ClearanceLevel frontend.Variable
}

func eq(api frontend.API, a, b frontend.Variable) frontend.Variable {
	return api.IsZero(api.Sub(a, b))
}

// nonZero constrains v's self-product: v*v is zero exactly when v is zero, so
// a trivial zero-valued witness cannot satisfy the predicate vacuously.
func nonZero(api frontend.API, v frontend.Variable) frontend.Variable {
	return api.Sub(1, api.IsZero(api.Mul(v, v)))
}

func (c *CredentialValidityCircuit) Define(api frontend.API) error {
	// Range-constrain both timestamps to 64 bits before comparing.
	api.ToBinary(c.ExpirationDate, 64)
	api.ToBinary(c.CurrentReferenceTime, 64)

	notExpired := cmp.IsLess(api, c.CurrentReferenceTime, c.ExpirationDate)
	typeMatch := eq(api, c.CredentialType, c.ExpectedTypeCode)
	roleMatch := eq(api, c.Role, c.ExpectedRoleCode)
	clearanceMatch := eq(api, c.ClearanceLevel, c.ExpectedClearanceCode)
	nonDegenerate := api.And(nonZero(api, c.CredentialID), nonZero(api, c.Issuer))

	eligible := api.And(notExpired,
		api.And(typeMatch,
			api.And(roleMatch,
				api.And(clearanceMatch, nonDegenerate))))

	api.AssertIsEqual(eligible, c.Eligible)
	return nil
}
