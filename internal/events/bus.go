package events

import (
	"context"
	"sync"

	"github.com/nerrad567/hydrochat/internal/infrastructure/logging"
)

// Sink receives published events.
type Sink interface {
	Name() string
	Handle(ctx context.Context, ev Event) error
}

// Publisher is what handlers depend on.
type Publisher interface {
	Publish(ctx context.Context, ev Event)
}

// Bus delivers each event to every registered sink, in registration order.
// A nil *Bus discards events.
type Bus struct {
	logger *logging.Logger

	mu    sync.RWMutex
	sinks []Sink
}

// NewBus creates a Bus with the given sinks.
func NewBus(logger *logging.Logger, sinks ...Sink) *Bus {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Bus{
		logger: logger,
		sinks:  sinks,
	}
}

// Add registers another sink.
func (b *Bus) Add(s Sink) {
	b.mu.Lock()
	b.sinks = append(b.sinks, s)
	b.mu.Unlock()
}

// Len returns the number of registered sinks.
func (b *Bus) Len() int {
	if b == nil {
		return 0
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.sinks)
}

// Publish hands ev to every sink. Sink errors are logged, not returned.
func (b *Bus) Publish(ctx context.Context, ev Event) {
	if b == nil {
		return
	}

	// Snapshot under the lock so a slow sink never blocks Add.
	b.mu.RLock()
	sinks := make([]Sink, len(b.sinks))
	copy(sinks, b.sinks)
	b.mu.RUnlock()

	for _, s := range sinks {
		if err := s.Handle(ctx, ev); err != nil {
			b.logger.Warn().
				Err(err).
				Str("sink", s.Name()).
				Str("event", ev.Type()).
				Msg("event delivery failed")
			continue
		}
		b.logger.Debug().
			Str("sink", s.Name()).
			Str("event", ev.Type()).
			Int64("id", ev.ID).
			Msg("event delivered")
	}
}
