package database

import "errors"

var (
	// ErrEmptyPath is returned by Open when no store path is configured.
	ErrEmptyPath = errors.New("database: path is empty")

	// ErrNotReady is returned when the schema has not been ensured yet.
	ErrNotReady = errors.New("database: schema not initialised")
)
