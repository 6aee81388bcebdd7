// Package perf aggregates per-operation timing statistics.
package perf

import (
	"sync"
	"time"
)

// OperationStats summarizes the recorded durations of one operation.
type OperationStats struct {
	Count int
	Min   time.Duration
	Max   time.Duration
	Total time.Duration
	Avg   time.Duration
}

// Monitor collects operation timings. Safe for concurrent use.
type Monitor struct {
	mu      sync.Mutex
	metrics map[string]*OperationStats
	start   time.Time
}

func NewMonitor() *Monitor {
	return &Monitor{
		metrics: make(map[string]*OperationStats),
		start:   time.Now(),
	}
}

// Measure starts timing operation and returns the function that records the
// elapsed duration; call it with defer.
func (m *Monitor) Measure(operation string) func() {
	start := time.Now()
	return func() {
		m.Record(operation, time.Since(start))
	}
}

// Record adds one duration sample for operation.
func (m *Monitor) Record(operation string, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats, ok := m.metrics[operation]
	if !ok {
		stats = &OperationStats{Min: d, Max: d}
		m.metrics[operation] = stats
	}
	stats.Count++
	if d < stats.Min {
		stats.Min = d
	}
	if d > stats.Max {
		stats.Max = d
	}
	stats.Total += d
	stats.Avg = stats.Total / time.Duration(stats.Count)
}

// Metrics returns a snapshot of all operation statistics.
func (m *Monitor) Metrics() map[string]OperationStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]OperationStats, len(m.metrics))
	for op, stats := range m.metrics {
		out[op] = *stats
	}
	return out
}

// TotalTime returns the elapsed time since the monitor was created.
func (m *Monitor) TotalTime() time.Duration {
	return time.Since(m.start)
}
