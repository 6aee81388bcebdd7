package errors

import "errors"

var (
	ErrUnauthorized        = errors.New("caller is not authorized")
	ErrPolicyNotFound      = errors.New("no active policy for resource")
	ErrConstraintViolation = errors.New("witness violates circuit constraints")

	ErrDIDNotFound        = errors.New("did not found")
	ErrCredentialNotFound = errors.New("credential not found")
	ErrCredentialRevoked  = errors.New("credential is revoked")
	ErrProofNotFound      = errors.New("proof not found")
)
