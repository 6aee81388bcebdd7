// Package did implements the decentralized-identifier registry. It is an
// external collaborator of the access-control core: the core consumes its
// identifiers as opaque strings.
package did

import (
	"crypto/ecdsa"
	"crypto/rand"
	"fmt"
	"sync"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/lvc-ssi/simgate/internal/domain"
	simerrors "github.com/lvc-ssi/simgate/internal/errors"
)

const didMethod = "did:lvc:"

// VerificationMethod points at the public key material bound to a DID.
type VerificationMethod struct {
	ID           string
	Type         string
	Controller   string
	PublicKeyHex string
}

// Document is the resolvable record for a DID.
type Document struct {
	Context            string
	ID                 domain.Identity
	VerificationMethod []VerificationMethod
	Authentication     []string
	AssertionMethod    []string
	ParticipantType    string
}

// Registry mints and resolves DIDs. It never stores private keys; the key pair
// is handed back to the caller at creation and key custody stays outside this
// core.
type Registry struct {
	mu        sync.RWMutex
	documents map[domain.Identity]Document
}

func NewRegistry() *Registry {
	return &Registry{documents: make(map[domain.Identity]Document)}
}

// Create mints a DID for a new secp256k1 key pair and registers its document.
// The private key is returned to the caller and not retained.
func (r *Registry) Create(participantType string) (domain.Identity, Document, *ecdsa.PrivateKey, error) {
	key, err := ecdsa.GenerateKey(ethcrypto.S256(), rand.Reader)
	if err != nil {
		return "", Document{}, nil, fmt.Errorf("failed to generate key pair: %w", err)
	}

	address := ethcrypto.PubkeyToAddress(key.PublicKey)
	id := domain.Identity(didMethod + address.Hex())
	methodID := string(id) + "#keys-1"

	doc := Document{
		Context: "https://www.w3.org/ns/did/v1",
		ID:      id,
		VerificationMethod: []VerificationMethod{{
			ID:           methodID,
			Type:         "EcdsaSecp256k1VerificationKey2019",
			Controller:   string(id),
			PublicKeyHex: fmt.Sprintf("%x", ethcrypto.FromECDSAPub(&key.PublicKey)),
		}},
		Authentication:  []string{methodID},
		AssertionMethod: []string{methodID},
		ParticipantType: participantType,
	}

	r.mu.Lock()
	r.documents[id] = doc
	r.mu.Unlock()

	return id, doc, key, nil
}

// Resolve returns the document for id.
func (r *Registry) Resolve(id domain.Identity) (Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.documents[id]
	if !ok {
		return Document{}, simerrors.ErrDIDNotFound
	}
	return doc, nil
}

// Revoke removes the DID from the registry.
func (r *Registry) Revoke(id domain.Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.documents[id]; !ok {
		return simerrors.ErrDIDNotFound
	}
	delete(r.documents, id)
	return nil
}
