package poll

import "time"

// DefaultLogLimit is how many log entries ListLogs returns when no limit is given.
const DefaultLogLimit = 20

// logTimeLayout is ISO 8601 in UTC with milliseconds. It is fixed width, so
// string order is time order.
const logTimeLayout = "2006-01-02T15:04:05.000Z"

// Choice is one option that can be voted for.
type Choice struct {
	ID       int64  `json:"id"`
	Language string `json:"language"`
	Picks    int64  `json:"picks"`
}

// LogEntry records a single vote.
type LogEntry struct {
	ID     int64  `json:"id"`
	Choice string `json:"choice"`
	Time   string `json:"time"`
}

// formatLogTime renders t in the stored log format.
func formatLogTime(t time.Time) string {
	return t.UTC().Format(logTimeLayout)
}
