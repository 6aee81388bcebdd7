// Package events provides in-process fan-out of policy lifecycle and access
// decision notifications to external observers.
package events

import (
	"log/slog"
	"sync"

	"github.com/lvc-ssi/simgate/internal/domain"
)

// Bus implements domain.EventPublisher with buffered per-subscriber channels.
// Publish never blocks: when a subscriber's buffer is full the event is dropped
// for that subscriber and a warning is logged.
type Bus struct {
	mu          sync.RWMutex
	subscribers []chan domain.Event
	bufferSize  int
	logger      *slog.Logger
	closed      bool
}

// NewBus creates a bus whose subscriber channels hold bufferSize events.
func NewBus(logger *slog.Logger, bufferSize int) *Bus {
	if bufferSize <= 0 {
		bufferSize = 16
	}
	return &Bus{bufferSize: bufferSize, logger: logger}
}

// Subscribe registers a new observer and returns its event channel. The
// channel is closed when the bus is closed.
func (b *Bus) Subscribe() <-chan domain.Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan domain.Event, b.bufferSize)
	if b.closed {
		close(ch)
		return ch
	}
	b.subscribers = append(b.subscribers, ch)
	return ch
}

// Publish delivers the event to every subscriber that has buffer room.
func (b *Bus) Publish(event domain.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}
	for _, ch := range b.subscribers {
		select {
		case ch <- event:
		default:
			b.logger.Warn("subscriber buffer full, event dropped",
				slog.String("event", string(event.Type)),
				slog.String("resource_id", string(event.ResourceID)))
		}
	}
}

// Close closes all subscriber channels. Publish after Close is a no-op.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for _, ch := range b.subscribers {
		close(ch)
	}
	b.subscribers = nil
}
