package domain

import (
	"context"
	"time"
)

// AccessLogEntry is one append-only record of an access decision. Entries are
// totally ordered by append sequence; timestamps are non-decreasing across the
// log.
type AccessLogEntry struct {
	ID         string
	ProofID    string
	ResourceID ResourceID
	Action     string
	Granted    bool
	Reason     string
	Timestamp  time.Time
}

// AuditRepository exports access log entries to durable storage. The in-memory
// log remains the source of truth for this core; the repository is a fan-out
// sink.
type AuditRepository interface {
	CreateAccessLogEntry(ctx context.Context, entry *AccessLogEntry) error
	AccessHistory(ctx context.Context, resourceID ResourceID, limit int) ([]*AccessLogEntry, error)
}

// AuditLogger records one decision, regardless of outcome.
type AuditLogger interface {
	RecordDecision(ctx context.Context, entry *AccessLogEntry)
}
