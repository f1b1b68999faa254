package audit

import (
	"context"
	"strconv"

	"github.com/nerrad567/hydrochat/internal/events"
)

// SourceAPI marks entries produced by HTTP requests.
const SourceAPI = "api"

// Sink records every event as an audit entry.
type Sink struct {
	repo Repository
}

// NewSink creates an events.Sink backed by repo.
func NewSink(repo Repository) *Sink {
	return &Sink{repo: repo}
}

// Name implements events.Sink.
func (s *Sink) Name() string { return "audit" }

// Handle implements events.Sink.
func (s *Sink) Handle(ctx context.Context, ev events.Event) error {
	entry := &Entry{
		Action:     ev.Action,
		EntityType: ev.Entity,
		Source:     SourceAPI,
		Details:    ev.Attrs,
		CreatedAt:  ev.Time,
	}
	if ev.ID != 0 {
		entry.EntityID = strconv.FormatInt(ev.ID, 10)
	}
	return s.repo.Create(ctx, entry)
}
