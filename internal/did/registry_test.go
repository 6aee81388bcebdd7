package did

import (
	"strings"
	"testing"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	simerrors "github.com/lvc-ssi/simgate/internal/errors"
)

func TestCreateAndResolve(t *testing.T) {
	r := NewRegistry()

	id, doc, key, err := r.Create("simulation_operator")
	require.NoError(t, err)
	require.NotNil(t, key)

	assert.True(t, strings.HasPrefix(string(id), "did:lvc:"))
	assert.Equal(t, id, doc.ID)
	assert.Equal(t, "simulation_operator", doc.ParticipantType)
	require.Len(t, doc.VerificationMethod, 1)
	assert.Equal(t, string(id)+"#keys-1", doc.VerificationMethod[0].ID)

	// The DID is bound to the returned key.
	address := ethcrypto.PubkeyToAddress(key.PublicKey)
	assert.True(t, strings.HasSuffix(string(id), address.Hex()))

	resolved, err := r.Resolve(id)
	require.NoError(t, err)
	assert.Equal(t, doc, resolved)
}

func TestCreateMintsDistinctIdentifiers(t *testing.T) {
	r := NewRegistry()
	a, _, _, err := r.Create("commander")
	require.NoError(t, err)
	b, _, _, err := r.Create("commander")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestResolveUnknown(t *testing.T) {
	r := NewRegistry()
	_, err := r.Resolve("did:lvc:unknown")
	assert.ErrorIs(t, err, simerrors.ErrDIDNotFound)
}

func TestRevoke(t *testing.T) {
	r := NewRegistry()
	id, _, _, err := r.Create("commander")
	require.NoError(t, err)

	require.NoError(t, r.Revoke(id))
	_, err = r.Resolve(id)
	assert.ErrorIs(t, err, simerrors.ErrDIDNotFound)
	assert.ErrorIs(t, r.Revoke(id), simerrors.ErrDIDNotFound)
}
