package zkp

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"sync"

	"golang.org/x/crypto/hkdf"
)

// AccessProofType names the one proof type this core generates.
const AccessProofType = "access_control"

// ProofID derives a deterministic identifier for a credential's proof of the
// given type: HKDF-SHA256 over "credentialID:proofType".
func ProofID(credentialID, proofType string) (string, error) {
	r := hkdf.New(sha256.New, []byte(credentialID+":"+proofType), nil, []byte("proof_id"))
	key := make([]byte, 16)
	if _, err := io.ReadFull(r, key); err != nil {
		return "", fmt.Errorf("failed to derive proof id: %w", err)
	}
	return base64.StdEncoding.EncodeToString(key), nil
}

// ProofCache holds generated proof bundles keyed by proof ID so the decision
// engine can be fed by ID, the way the integration middleware transports
// proofs.
type ProofCache struct {
	mu     sync.RWMutex
	proofs map[string]*ProofBundle
}

func NewProofCache() *ProofCache {
	return &ProofCache{proofs: make(map[string]*ProofBundle)}
}

// Put stores the bundle under its proof ID.
func (c *ProofCache) Put(bundle *ProofBundle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.proofs[bundle.ProofID] = bundle
}

// Get returns the bundle for id, if present.
func (c *ProofCache) Get(id string) (*ProofBundle, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	bundle, ok := c.proofs[id]
	return bundle, ok
}

// CachedVerifier implements domain.ProofVerifier over a proof cache and a
// proof system. A proof ID verifies only when the bundle exists and the
// Groth16 proof checks out for an eligible outcome under Constants, the
// published circuit constants. Bundle-supplied public inputs are never
// trusted: a proof generated against constants the holder chose themselves
// does not verify.
type CachedVerifier struct {
	Cache     *ProofCache
	System    *ProofSystem
	Constants PublicConstants
}

func (v *CachedVerifier) VerifyByID(_ context.Context, proofID string) bool {
	bundle, ok := v.Cache.Get(proofID)
	if !ok {
		return false
	}
	return v.System.Verify(bundle.Proof, PublicInputs{Constants: v.Constants, Eligible: true})
}
