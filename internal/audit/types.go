package audit

import "time"

// Entry represents a single audit trail entry.
type Entry struct {
	ID         string         `json:"id"`
	Action     string         `json:"action"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id,omitempty"`
	Source     string         `json:"source"`
	Details    map[string]any `json:"details,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// Filter controls which entries List returns.
type Filter struct {
	Action     string // optional: created, updated, deleted, voted, cleared
	EntityType string // optional: message, choice, poll
	EntityID   string // optional
	Limit      int    // default 50, max 200
	Offset     int    // pagination offset
}

// ListResult contains one page of entries.
type ListResult struct {
	Entries []Entry `json:"entries"`
	Total   int     `json:"total"`
	Limit   int     `json:"limit"`
	Offset  int     `json:"offset"`
}

// Page size bounds for List.
const (
	DefaultLimit = 50
	MaxLimit     = 200
)
