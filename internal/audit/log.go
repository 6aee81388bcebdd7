// Package audit holds the append-only record of access decisions.
package audit

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lvc-ssi/simgate/internal/domain"
)

// Log is the in-memory append-only audit log. Entries are never modified or
// removed; the only write operation is Append. Timestamps are clamped so they
// never decrease across entries even if the wall clock steps backwards.
type Log struct {
	mu      sync.RWMutex
	entries []domain.AccessLogEntry
	now     func() time.Time
}

// NewLog returns an empty log using the UTC wall clock.
func NewLog() *Log {
	return &Log{now: func() time.Time { return time.Now().UTC() }}
}

// NewLogWithClock returns an empty log with an injected clock.
func NewLogWithClock(now func() time.Time) *Log {
	return &Log{now: now}
}

// Append assigns the entry an ID and a monotonically non-decreasing timestamp,
// appends it, and returns the stored copy.
func (l *Log) Append(entry domain.AccessLogEntry) domain.AccessLogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry.ID = uuid.New().String()
	ts := l.now()
	if n := len(l.entries); n > 0 && ts.Before(l.entries[n-1].Timestamp) {
		ts = l.entries[n-1].Timestamp
	}
	entry.Timestamp = ts
	l.entries = append(l.entries, entry)
	return entry
}

// Entries returns a copy of all entries in append order.
func (l *Log) Entries() []domain.AccessLogEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.AccessLogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
