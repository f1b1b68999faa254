package chat

import "errors"

var (
	// ErrMessageNotFound is returned when an update or delete touched no row.
	ErrMessageNotFound = errors.New("message not found")

	// ErrEmptyMessage is returned when a message text is blank.
	ErrEmptyMessage = errors.New("message text is empty")
)
