package events

import "time"

// Entities that produce events.
const (
	EntityMessage = "message"
	EntityChoice  = "choice"
	EntityPoll    = "poll"
)

// Actions performed on an entity.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
	ActionVoted   = "voted"
	ActionCleared = "cleared"
)

// Event describes one completed change to the store.
type Event struct {
	Entity string         `json:"entity"`
	Action string         `json:"action"`
	ID     int64          `json:"id,omitempty"`
	Attrs  map[string]any `json:"attrs,omitempty"`
	Time   time.Time      `json:"time"`
}

// New returns an event stamped with the current UTC time.
func New(entity, action string, id int64, attrs map[string]any) Event {
	return Event{
		Entity: entity,
		Action: action,
		ID:     id,
		Attrs:  attrs,
		Time:   time.Now().UTC(),
	}
}

// Type returns "<entity>.<action>", e.g. "message.created".
func (e Event) Type() string {
	return e.Entity + "." + e.Action
}
