package zkp

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"golang.org/x/crypto/sha3"
)

// FieldCode maps a string claim to a BN254 scalar: Keccak256 of the UTF-8
// bytes reduced into the field. Issuers and verifiers must use the same
// mapping for the expected-code constants.
func FieldCode(s string) *big.Int {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(s))
	v := new(big.Int).SetBytes(h.Sum(nil))
	return v.Mod(v, fr.Modulus())
}
