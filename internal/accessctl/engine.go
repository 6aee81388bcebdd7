package accessctl

import (
	"context"
	"log/slog"

	"github.com/lvc-ssi/simgate/internal/domain"
	simerrors "github.com/lvc-ssi/simgate/internal/errors"
)

// Denial reasons recorded in the audit log.
const (
	ReasonGranted           = "granted"
	ReasonActionNotAllowed  = "action_not_allowed"
	ReasonMissingCredential = "missing_required_credential"
	ReasonInvalidProof      = "invalid_proof"
)

// CheckAccess evaluates a presented credential-type set against the policy for
// resourceID and returns the decision.
//
// The policy lookup is the only hard failure: an absent or inactive policy
// yields ErrPolicyNotFound and no audit entry, since there is no policy
// context to log against. Every other outcome, granted or denied, appends
// exactly one audit entry and emits an AccessGranted or AccessDenied event.
//
// The credential types are taken as declared by the caller; see
// CheckAccessProof for the variant that demands a verified eligibility proof
// first.
func (ac *AccessControl) CheckAccess(ctx context.Context, proofID string, resourceID domain.ResourceID, action string, presentedCredentialTypes []string) (bool, error) {
	ac.mu.Lock()
	defer ac.mu.Unlock()

	return ac.decide(ctx, proofID, resourceID, action, presentedCredentialTypes, nil)
}

// CheckAccessProof is CheckAccess with the zero-knowledge eligibility proof
// wired in: before the policy checks run, the proof identified by proofID is
// verified against the published verifying key. An unknown or invalid proof is
// a normal denied decision, logged with reason invalid_proof, not an error.
// Requires a ProofVerifier to have been configured.
func (ac *AccessControl) CheckAccessProof(ctx context.Context, proofID string, resourceID domain.ResourceID, action string, presentedCredentialTypes []string) (bool, error) {
	ac.mu.Lock()
	defer ac.mu.Unlock()

	if ac.verifier == nil {
		return false, simerrors.ErrProofNotFound
	}
	return ac.decide(ctx, proofID, resourceID, action, presentedCredentialTypes, ac.verifier)
}

// decide runs the decision algorithm under ac.mu.
func (ac *AccessControl) decide(ctx context.Context, proofID string, resourceID domain.ResourceID, action string, presented []string, verifier domain.ProofVerifier) (bool, error) {
	policy, ok := ac.policies[resourceID]
	if !ok || !policy.Active {
		return false, simerrors.ErrPolicyNotFound
	}

	switch {
	case verifier != nil && !verifier.VerifyByID(ctx, proofID):
		return ac.record(ctx, proofID, resourceID, action, false, ReasonInvalidProof), nil
	case !policy.AllowsAction(action):
		return ac.record(ctx, proofID, resourceID, action, false, ReasonActionNotAllowed), nil
	case !policy.SatisfiedBy(presented):
		return ac.record(ctx, proofID, resourceID, action, false, ReasonMissingCredential), nil
	}
	return ac.record(ctx, proofID, resourceID, action, true, ReasonGranted), nil
}

// record appends the audit entry, emits the decision event and returns
// granted.
func (ac *AccessControl) record(ctx context.Context, proofID string, resourceID domain.ResourceID, action string, granted bool, reason string) bool {
	entry := ac.log.Append(domain.AccessLogEntry{
		ProofID:    proofID,
		ResourceID: resourceID,
		Action:     action,
		Granted:    granted,
		Reason:     reason,
	})

	if ac.auditLogger != nil {
		ac.auditLogger.RecordDecision(ctx, &entry)
	} else {
		ac.logger.InfoContext(ctx, "access_decision",
			slog.String("proof_id", proofID),
			slog.String("resource_id", string(resourceID)),
			slog.String("action", action),
			slog.Bool("granted", granted),
			slog.String("reason", reason))
	}

	eventType := domain.EventAccessDenied
	if granted {
		eventType = domain.EventAccessGranted
	}
	ac.publish(eventType, resourceID, proofID, action)
	return granted
}

// GetAccessLogs returns all audit entries in append order.
func (ac *AccessControl) GetAccessLogs() []domain.AccessLogEntry {
	return ac.log.Entries()
}
