// Package vc implements verifiable-credential issuance. Like the DID registry
// it is an external collaborator of the access-control core; it supplies the
// values that populate a credential witness, under the contract that its
// type/role/clearance encodings match the circuit's public constants.
package vc

import (
	"crypto/ecdsa"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"

	"github.com/lvc-ssi/simgate/internal/domain"
	simerrors "github.com/lvc-ssi/simgate/internal/errors"
)

const baseType = "VerifiableCredential"

// Claims are the credential attributes a witness is built from.
type Claims struct {
	Role           string
	ClearanceLevel uint64
	Simulations    []string
}

// Proof is the issuer's signature over the credential.
type Proof struct {
	Type               string
	Created            time.Time
	ProofPurpose       string
	VerificationMethod string
	SignatureHex       string
}

// Credential is an issued verifiable credential.
type Credential struct {
	ID        string
	Types     []string
	Issuer    domain.Identity
	Subject   domain.Identity
	IssuedAt  time.Time
	ExpiresAt time.Time
	Claims    Claims
	Proof     *Proof
}

// CredentialType returns the domain-specific type, the entry after the base
// VerifiableCredential type.
func (c *Credential) CredentialType() string {
	if len(c.Types) > 1 {
		return c.Types[1]
	}
	return ""
}

// digest is the canonical hash the issuer signs: Keccak256 over the
// credential's identifying fields in a fixed order. The proof itself is
// excluded.
func (c *Credential) digest() []byte {
	var ts [16]byte
	binary.BigEndian.PutUint64(ts[:8], uint64(c.IssuedAt.Unix()))
	binary.BigEndian.PutUint64(ts[8:], uint64(c.ExpiresAt.Unix()))

	var clearance [8]byte
	binary.BigEndian.PutUint64(clearance[:], c.Claims.ClearanceLevel)

	parts := [][]byte{[]byte(c.ID)}
	for _, t := range c.Types {
		parts = append(parts, []byte(t))
	}
	parts = append(parts,
		[]byte(c.Issuer),
		[]byte(c.Subject),
		ts[:],
		[]byte(c.Claims.Role),
		clearance[:],
	)
	for _, s := range c.Claims.Simulations {
		parts = append(parts, []byte(s))
	}
	return ethcrypto.Keccak256(parts...)
}

// Manager issues, verifies and revokes credentials. Revocation is a tombstone:
// the credential record is retained and marked revoked.
type Manager struct {
	mu      sync.RWMutex
	issued  map[string]*Credential
	revoked map[string]struct{}
	now     func() time.Time
}

func NewManager() *Manager {
	return &Manager{
		issued:  make(map[string]*Credential),
		revoked: make(map[string]struct{}),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// NewManagerWithClock injects the clock used for issuance and expiry checks.
func NewManagerWithClock(now func() time.Time) *Manager {
	m := NewManager()
	m.now = now
	return m
}

// Issue creates and signs a credential for subject. The issuer's private key
// is used for the signature and not retained.
func (m *Manager) Issue(subject, issuer domain.Identity, credentialType string, claims Claims, issuerKey *ecdsa.PrivateKey, validity time.Duration) (*Credential, error) {
	now := m.now()
	cred := &Credential{
		ID:        "vc:" + uuid.New().String(),
		Types:     []string{baseType, credentialType},
		Issuer:    issuer,
		Subject:   subject,
		IssuedAt:  now,
		ExpiresAt: now.Add(validity),
		Claims:    claims,
	}

	signature, err := ethcrypto.Sign(cred.digest(), issuerKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign credential: %w", err)
	}
	cred.Proof = &Proof{
		Type:               "EcdsaSecp256k1Signature2019",
		Created:            now,
		ProofPurpose:       "assertionMethod",
		VerificationMethod: string(issuer) + "#keys-1",
		SignatureHex:       hex.EncodeToString(signature),
	}

	m.mu.Lock()
	m.issued[cred.ID] = cred
	m.mu.Unlock()

	return cred, nil
}

// Verify reports whether the credential is unrevoked, unexpired and carries a
// signature that recovers to the issuer DID's key.
func (m *Manager) Verify(cred *Credential) bool {
	if cred == nil || cred.Proof == nil {
		return false
	}

	m.mu.RLock()
	_, revoked := m.revoked[cred.ID]
	m.mu.RUnlock()
	if revoked {
		return false
	}

	if !cred.ExpiresAt.After(m.now()) {
		return false
	}

	signature, err := hex.DecodeString(cred.Proof.SignatureHex)
	if err != nil {
		return false
	}
	pub, err := ethcrypto.SigToPub(cred.digest(), signature)
	if err != nil {
		return false
	}
	address := ethcrypto.PubkeyToAddress(*pub)
	return cred.Issuer == domain.Identity("did:lvc:"+address.Hex())
}

// Revoke marks an issued credential revoked.
func (m *Manager) Revoke(credentialID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.issued[credentialID]; !ok {
		return simerrors.ErrCredentialNotFound
	}
	if _, ok := m.revoked[credentialID]; ok {
		return simerrors.ErrCredentialRevoked
	}
	m.revoked[credentialID] = struct{}{}
	return nil
}

// Issued returns an issued credential by ID.
func (m *Manager) Issued(credentialID string) (*Credential, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cred, ok := m.issued[credentialID]
	return cred, ok
}
