package audit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvc-ssi/simgate/internal/domain"
)

func TestAppendAssignsIDAndTimestamp(t *testing.T) {
	l := NewLog()

	stored := l.Append(domain.AccessLogEntry{
		ProofID:    "p1",
		ResourceID: "sim-range-7",
		Action:     "launch",
		Granted:    true,
	})

	require.NotEmpty(t, stored.ID)
	require.False(t, stored.Timestamp.IsZero())
	assert.Equal(t, 1, l.Len())
}

func TestEntriesReturnsCopyInAppendOrder(t *testing.T) {
	l := NewLog()
	l.Append(domain.AccessLogEntry{ProofID: "p1", Granted: true})
	l.Append(domain.AccessLogEntry{ProofID: "p2", Granted: false})

	entries := l.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "p1", entries[0].ProofID)
	assert.Equal(t, "p2", entries[1].ProofID)

	// Mutating the returned slice must not affect the log.
	entries[0].ProofID = "tampered"
	assert.Equal(t, "p1", l.Entries()[0].ProofID)
}

func TestTimestampsNeverDecrease(t *testing.T) {
	ticks := []time.Time{
		time.Unix(100, 0).UTC(),
		time.Unix(50, 0).UTC(), // clock stepped backwards
		time.Unix(200, 0).UTC(),
	}
	i := 0
	l := NewLogWithClock(func() time.Time {
		ts := ticks[i]
		i++
		return ts
	})

	l.Append(domain.AccessLogEntry{ProofID: "p1"})
	l.Append(domain.AccessLogEntry{ProofID: "p2"})
	l.Append(domain.AccessLogEntry{ProofID: "p3"})

	entries := l.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, time.Unix(100, 0).UTC(), entries[0].Timestamp)
	assert.Equal(t, time.Unix(100, 0).UTC(), entries[1].Timestamp)
	assert.Equal(t, time.Unix(200, 0).UTC(), entries[2].Timestamp)
}

func TestAppendOnlyAcrossReads(t *testing.T) {
	l := NewLog()
	l.Append(domain.AccessLogEntry{ProofID: "p1"})
	before := l.Entries()

	l.Append(domain.AccessLogEntry{ProofID: "p2"})
	after := l.Entries()

	require.Len(t, after, len(before)+1)
	for i := range before {
		assert.Equal(t, before[i], after[i])
	}
}
