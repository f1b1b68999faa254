package chat

// Message is a single chat line.
type Message struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}
