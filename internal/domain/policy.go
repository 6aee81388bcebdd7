package domain

import "context"

// ResourceID identifies a simulated resource. Issued by the external DID
// registry and treated as an opaque string here.
type ResourceID string

// Identity is a participant DID. Also opaque.
type Identity string

// AccessPolicy is the rule set governing one resource. A policy is addressable
// only via its ResourceID and at most one policy per resource exists at a time.
// An inactive policy cannot authorize any action; it is retained as a tombstone
// so the resource's history stays addressable for audit correlation.
type AccessPolicy struct {
	ResourceID              ResourceID
	AllowedActions          []string
	RequiredCredentialTypes []string
	Active                  bool
}

// AllowsAction reports whether action exactly matches one of the allowed
// actions. Matching is case-sensitive.
func (p *AccessPolicy) AllowsAction(action string) bool {
	for _, a := range p.AllowedActions {
		if a == action {
			return true
		}
	}
	return false
}

// SatisfiedBy reports whether every required credential type appears in
// presented. Extra presented types have no effect.
func (p *AccessPolicy) SatisfiedBy(presented []string) bool {
	have := make(map[string]struct{}, len(presented))
	for _, t := range presented {
		have[t] = struct{}{}
	}
	for _, required := range p.RequiredCredentialTypes {
		if _, ok := have[required]; !ok {
			return false
		}
	}
	return true
}

// PolicyStore is the owner-controlled mapping from resource to policy.
type PolicyStore interface {
	AddPolicy(ctx context.Context, caller Identity, resourceID ResourceID, allowedActions, requiredCredentialTypes []string) error
	UpdatePolicy(ctx context.Context, caller Identity, resourceID ResourceID, allowedActions, requiredCredentialTypes []string) error
	RevokePolicy(ctx context.Context, caller Identity, resourceID ResourceID) error
}

// Authorizer validates that a caller may perform a mutating operation.
// Single-owner today; the interface leaves room for multi-admin policies.
type Authorizer interface {
	Authorize(ctx context.Context, caller Identity, operation string) (bool, string)
}
