package accessctl

import (
	"context"
	"log/slog"

	"github.com/lvc-ssi/simgate/internal/domain"
	simerrors "github.com/lvc-ssi/simgate/internal/errors"
)

const (
	opAddPolicy    = "add_policy"
	opUpdatePolicy = "update_policy"
	opRevokePolicy = "revoke_policy"
)

// AddPolicy creates or overwrites the policy for resourceID and marks it
// active. Only the owner may call it.
func (ac *AccessControl) AddPolicy(ctx context.Context, caller domain.Identity, resourceID domain.ResourceID, allowedActions, requiredCredentialTypes []string) error {
	ac.mu.Lock()
	defer ac.mu.Unlock()

	if ok, reason := ac.authorizer.Authorize(ctx, caller, opAddPolicy); !ok {
		ac.logger.WarnContext(ctx, "policy mutation rejected",
			slog.String("operation", opAddPolicy),
			slog.String("caller", string(caller)),
			slog.String("reason", reason))
		return simerrors.ErrUnauthorized
	}

	ac.policies[resourceID] = &domain.AccessPolicy{
		ResourceID:              resourceID,
		AllowedActions:          cloneStrings(allowedActions),
		RequiredCredentialTypes: cloneStrings(requiredCredentialTypes),
		Active:                  true,
	}
	ac.logger.InfoContext(ctx, "policy added", slog.String("resource_id", string(resourceID)))
	ac.publish(domain.EventPolicyAdded, resourceID, "", "")
	return nil
}

// UpdatePolicy replaces the action and credential sets of an existing active
// policy.
func (ac *AccessControl) UpdatePolicy(ctx context.Context, caller domain.Identity, resourceID domain.ResourceID, allowedActions, requiredCredentialTypes []string) error {
	ac.mu.Lock()
	defer ac.mu.Unlock()

	if ok, reason := ac.authorizer.Authorize(ctx, caller, opUpdatePolicy); !ok {
		ac.logger.WarnContext(ctx, "policy mutation rejected",
			slog.String("operation", opUpdatePolicy),
			slog.String("caller", string(caller)),
			slog.String("reason", reason))
		return simerrors.ErrUnauthorized
	}

	policy, ok := ac.policies[resourceID]
	if !ok || !policy.Active {
		return simerrors.ErrPolicyNotFound
	}

	policy.AllowedActions = cloneStrings(allowedActions)
	policy.RequiredCredentialTypes = cloneStrings(requiredCredentialTypes)
	ac.logger.InfoContext(ctx, "policy updated", slog.String("resource_id", string(resourceID)))
	ac.publish(domain.EventPolicyUpdated, resourceID, "", "")
	return nil
}

// RevokePolicy marks the policy inactive. The record is retained as a
// tombstone so audit entries for the resource stay correlatable.
func (ac *AccessControl) RevokePolicy(ctx context.Context, caller domain.Identity, resourceID domain.ResourceID) error {
	ac.mu.Lock()
	defer ac.mu.Unlock()

	if ok, reason := ac.authorizer.Authorize(ctx, caller, opRevokePolicy); !ok {
		ac.logger.WarnContext(ctx, "policy mutation rejected",
			slog.String("operation", opRevokePolicy),
			slog.String("caller", string(caller)),
			slog.String("reason", reason))
		return simerrors.ErrUnauthorized
	}

	policy, ok := ac.policies[resourceID]
	if !ok || !policy.Active {
		return simerrors.ErrPolicyNotFound
	}

	policy.Active = false
	ac.logger.InfoContext(ctx, "policy revoked", slog.String("resource_id", string(resourceID)))
	ac.publish(domain.EventPolicyRevoked, resourceID, "", "")
	return nil
}

// Policy returns a copy of the policy for resourceID, active or not, and
// whether one exists. Intended for observability; decisions go through
// CheckAccess.
func (ac *AccessControl) Policy(resourceID domain.ResourceID) (domain.AccessPolicy, bool) {
	ac.mu.Lock()
	defer ac.mu.Unlock()

	policy, ok := ac.policies[resourceID]
	if !ok {
		return domain.AccessPolicy{}, false
	}
	out := *policy
	out.AllowedActions = cloneStrings(policy.AllowedActions)
	out.RequiredCredentialTypes = cloneStrings(policy.RequiredCredentialTypes)
	return out, true
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
