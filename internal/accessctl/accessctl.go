// Package accessctl implements the policy store and access decision engine.
//
// All state lives in one AccessControl value: the owner identity, the policy
// map and the audit log. Every exported operation is a single critical section,
// so each call observes a consistent snapshot and commits atomically or not at
// all.
package accessctl

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/lvc-ssi/simgate/internal/audit"
	"github.com/lvc-ssi/simgate/internal/domain"
)

// Option configures an AccessControl.
type Option func(*AccessControl)

// WithAuthorizer replaces the default single-owner authorizer.
func WithAuthorizer(a domain.Authorizer) Option {
	return func(ac *AccessControl) { ac.authorizer = a }
}

// WithEventPublisher wires an event publisher for lifecycle and decision
// notifications.
func WithEventPublisher(p domain.EventPublisher) Option {
	return func(ac *AccessControl) { ac.events = p }
}

// WithAuditLogger wires a structured audit logger alongside the in-memory log.
func WithAuditLogger(l domain.AuditLogger) Option {
	return func(ac *AccessControl) { ac.auditLogger = l }
}

// WithProofVerifier wires the zero-knowledge proof verifier used by
// CheckAccessProof.
func WithProofVerifier(v domain.ProofVerifier) Option {
	return func(ac *AccessControl) { ac.verifier = v }
}

// WithClock injects the clock used for event timestamps.
func WithClock(now func() time.Time) Option {
	return func(ac *AccessControl) { ac.now = now }
}

// AccessControl owns the policy store and the audit log. The owner identity is
// fixed at construction and is the sole authority for policy mutation under the
// default authorizer.
type AccessControl struct {
	mu          sync.Mutex
	owner       domain.Identity
	policies    map[domain.ResourceID]*domain.AccessPolicy
	log         *audit.Log
	authorizer  domain.Authorizer
	events      domain.EventPublisher
	auditLogger domain.AuditLogger
	verifier    domain.ProofVerifier
	logger      *slog.Logger
	now         func() time.Time
}

// New creates an AccessControl owned by owner.
func New(owner domain.Identity, logger *slog.Logger, opts ...Option) *AccessControl {
	ac := &AccessControl{
		owner:    owner,
		policies: make(map[domain.ResourceID]*domain.AccessPolicy),
		log:      audit.NewLog(),
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(ac)
	}
	if ac.authorizer == nil {
		ac.authorizer = ownerAuthorizer{owner: owner}
	}
	return ac
}

// Owner returns the owner identity.
func (ac *AccessControl) Owner() domain.Identity { return ac.owner }

func (ac *AccessControl) publish(eventType domain.EventType, resourceID domain.ResourceID, proofID, action string) {
	if ac.events == nil {
		return
	}
	ac.events.Publish(domain.Event{
		Type:       eventType,
		ResourceID: resourceID,
		ProofID:    proofID,
		Action:     action,
		At:         ac.now(),
	})
}

// ownerAuthorizer authorizes exactly one identity for every mutating
// operation.
type ownerAuthorizer struct {
	owner domain.Identity
}

func (a ownerAuthorizer) Authorize(_ context.Context, caller domain.Identity, _ string) (bool, string) {
	if caller == a.owner {
		return true, "owner"
	}
	return false, "caller_is_not_owner"
}
