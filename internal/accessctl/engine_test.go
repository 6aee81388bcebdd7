package accessctl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvc-ssi/simgate/internal/domain"
	simerrors "github.com/lvc-ssi/simgate/internal/errors"
	"github.com/lvc-ssi/simgate/internal/events"
)

func setupRangePolicy(t *testing.T, ac *AccessControl) {
	t.Helper()
	require.NoError(t, ac.AddPolicy(context.Background(), owner, "sim-range-7",
		[]string{"launch", "observe"}, []string{"operator-cred"}))
}

func TestCheckAccessScenario(t *testing.T) {
	ctx := context.Background()
	ac := newTestControl()
	setupRangePolicy(t, ac)

	granted, err := ac.CheckAccess(ctx, "p1", "sim-range-7", "launch", []string{"operator-cred"})
	require.NoError(t, err)
	assert.True(t, granted)

	granted, err = ac.CheckAccess(ctx, "p2", "sim-range-7", "reconfigure", []string{"operator-cred"})
	require.NoError(t, err)
	assert.False(t, granted, "action not in allowed set")

	granted, err = ac.CheckAccess(ctx, "p3", "sim-range-7", "launch", nil)
	require.NoError(t, err)
	assert.False(t, granted, "required credential missing")

	logs := ac.GetAccessLogs()
	require.Len(t, logs, 3)
	assert.Equal(t, "p1", logs[0].ProofID)
	assert.True(t, logs[0].Granted)
	assert.Equal(t, ReasonGranted, logs[0].Reason)
	assert.False(t, logs[1].Granted)
	assert.Equal(t, ReasonActionNotAllowed, logs[1].Reason)
	assert.False(t, logs[2].Granted)
	assert.Equal(t, ReasonMissingCredential, logs[2].Reason)
}

func TestCheckAccessUnknownResourceIsHardFailure(t *testing.T) {
	ctx := context.Background()
	ac := newTestControl()

	_, err := ac.CheckAccess(ctx, "p1", "no-such-range", "launch", nil)
	assert.ErrorIs(t, err, simerrors.ErrPolicyNotFound)
	assert.Empty(t, ac.GetAccessLogs(), "hard failure writes no audit entry")
}

func TestCheckAccessAfterRevokeFailsHard(t *testing.T) {
	ctx := context.Background()
	ac := newTestControl()
	setupRangePolicy(t, ac)

	granted, err := ac.CheckAccess(ctx, "p1", "sim-range-7", "launch", []string{"operator-cred"})
	require.NoError(t, err)
	require.True(t, granted)

	require.NoError(t, ac.RevokePolicy(ctx, owner, "sim-range-7"))

	_, err = ac.CheckAccess(ctx, "p2", "sim-range-7", "launch", []string{"operator-cred"})
	assert.ErrorIs(t, err, simerrors.ErrPolicyNotFound)
	assert.Len(t, ac.GetAccessLogs(), 1, "revoked policy never silently grants or logs")
}

func TestCheckAccessIgnoresExtraCredentials(t *testing.T) {
	ctx := context.Background()
	ac := newTestControl()
	setupRangePolicy(t, ac)

	granted, err := ac.CheckAccess(ctx, "p1", "sim-range-7", "observe",
		[]string{"bystander-cred", "operator-cred", "medic-cred"})
	require.NoError(t, err)
	assert.True(t, granted)
}

func TestCheckAccessIsCaseSensitive(t *testing.T) {
	ctx := context.Background()
	ac := newTestControl()
	setupRangePolicy(t, ac)

	granted, err := ac.CheckAccess(ctx, "p1", "sim-range-7", "Launch", []string{"operator-cred"})
	require.NoError(t, err)
	assert.False(t, granted)

	granted, err = ac.CheckAccess(ctx, "p2", "sim-range-7", "launch", []string{"Operator-Cred"})
	require.NoError(t, err)
	assert.False(t, granted)
}

func TestCheckAccessIsDeterministic(t *testing.T) {
	ctx := context.Background()
	ac := newTestControl()
	setupRangePolicy(t, ac)

	var first bool
	for i := 0; i < 5; i++ {
		granted, err := ac.CheckAccess(ctx, "p1", "sim-range-7", "launch", []string{"operator-cred"})
		require.NoError(t, err)
		if i == 0 {
			first = granted
			continue
		}
		assert.Equal(t, first, granted)
	}
	assert.Len(t, ac.GetAccessLogs(), 5, "one entry per invocation")
}

func TestAuditLogGrowsByAppendOnly(t *testing.T) {
	ctx := context.Background()
	ac := newTestControl()
	setupRangePolicy(t, ac)

	_, err := ac.CheckAccess(ctx, "p1", "sim-range-7", "launch", []string{"operator-cred"})
	require.NoError(t, err)
	before := ac.GetAccessLogs()

	// Unrelated calls must only ever append.
	require.NoError(t, ac.AddPolicy(ctx, owner, "sim-range-8", []string{"observe"}, nil))
	_, err = ac.CheckAccess(ctx, "p2", "sim-range-8", "observe", nil)
	require.NoError(t, err)

	after := ac.GetAccessLogs()
	require.Len(t, after, len(before)+1)
	for i := range before {
		assert.Equal(t, before[i], after[i])
	}
	for i := 1; i < len(after); i++ {
		assert.False(t, after[i].Timestamp.Before(after[i-1].Timestamp))
	}
}

func TestDecisionsEmitAccessEvents(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bus := events.NewBus(logger, 8)
	sub := bus.Subscribe()
	ac := New(owner, logger, WithEventPublisher(bus))
	setupRangePolicy(t, ac)
	<-sub // PolicyAdded

	_, err := ac.CheckAccess(ctx, "p1", "sim-range-7", "launch", []string{"operator-cred"})
	require.NoError(t, err)
	_, err = ac.CheckAccess(ctx, "p2", "sim-range-7", "launch", nil)
	require.NoError(t, err)

	ev := <-sub
	assert.Equal(t, domain.EventAccessGranted, ev.Type)
	assert.Equal(t, "p1", ev.ProofID)
	assert.Equal(t, "launch", ev.Action)
	ev = <-sub
	assert.Equal(t, domain.EventAccessDenied, ev.Type)
	assert.Equal(t, "p2", ev.ProofID)
}

type fakeVerifier struct {
	valid map[string]bool
}

func (v fakeVerifier) VerifyByID(_ context.Context, proofID string) bool {
	return v.valid[proofID]
}

func TestCheckAccessProof(t *testing.T) {
	ctx := context.Background()
	ac := newTestControl(WithProofVerifier(fakeVerifier{valid: map[string]bool{"p-good": true}}))
	setupRangePolicy(t, ac)

	granted, err := ac.CheckAccessProof(ctx, "p-good", "sim-range-7", "launch", []string{"operator-cred"})
	require.NoError(t, err)
	assert.True(t, granted)

	granted, err = ac.CheckAccessProof(ctx, "p-forged", "sim-range-7", "launch", []string{"operator-cred"})
	require.NoError(t, err)
	assert.False(t, granted, "invalid proof is a normal denial")

	logs := ac.GetAccessLogs()
	require.Len(t, logs, 2)
	assert.Equal(t, ReasonInvalidProof, logs[1].Reason)
}

func TestCheckAccessProofWithoutVerifier(t *testing.T) {
	ctx := context.Background()
	ac := newTestControl()
	setupRangePolicy(t, ac)

	_, err := ac.CheckAccessProof(ctx, "p1", "sim-range-7", "launch", []string{"operator-cred"})
	assert.ErrorIs(t, err, simerrors.ErrProofNotFound)
}
