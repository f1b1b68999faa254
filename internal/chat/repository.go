package chat

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Repository defines the interface for message persistence operations.
type Repository interface {
	List(ctx context.Context) ([]Message, error)
	Create(ctx context.Context, text string) (int64, error)
	Update(ctx context.Context, id int64, text string) error
	Delete(ctx context.Context, id int64) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed message repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// List returns every message ordered by id. An empty store yields an
// empty, non-nil slice.
func (r *SQLiteRepository) List(ctx context.Context) ([]Message, error) {
	const query = `SELECT id, message FROM messages ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	messages := make([]Message, 0)
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.Message); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating messages: %w", err)
	}
	return messages, nil
}

// Create inserts a message and returns its assigned id.
func (r *SQLiteRepository) Create(ctx context.Context, text string) (int64, error) {
	if strings.TrimSpace(text) == "" {
		return 0, ErrEmptyMessage
	}

	const query = `INSERT INTO messages (message) VALUES (?)`
	result, err := r.db.ExecContext(ctx, query, text)
	if err != nil {
		return 0, fmt.Errorf("inserting message: %w", err)
	}
	if n, _ := result.RowsAffected(); n != 1 { //nolint:errcheck // SQLite always supports RowsAffected
		return 0, fmt.Errorf("inserting message: %d rows affected", n)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading message id: %w", err)
	}
	return id, nil
}

// Update replaces the text of an existing message.
func (r *SQLiteRepository) Update(ctx context.Context, id int64, text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyMessage
	}

	const query = `UPDATE messages SET message = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query, text, id)
	if err != nil {
		return fmt.Errorf("updating message %d: %w", id, err)
	}
	if n, _ := result.RowsAffected(); n == 0 { //nolint:errcheck // SQLite always supports RowsAffected
		return ErrMessageNotFound
	}
	return nil
}

// Delete removes a message by id.
func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM messages WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting message %d: %w", id, err)
	}
	if n, _ := result.RowsAffected(); n == 0 { //nolint:errcheck // SQLite always supports RowsAffected
		return ErrMessageNotFound
	}
	return nil
}
