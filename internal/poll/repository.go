package poll

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
)

// Repository defines the interface for poll persistence operations.
type Repository interface {
	ListChoices(ctx context.Context) ([]Choice, error)
	AddChoice(ctx context.Context, language string) (int64, error)
	RecordVote(ctx context.Context, language string) ([]Choice, error)
	ListLogs(ctx context.Context, limit int) ([]LogEntry, error)
	ClearHistory(ctx context.Context) ([]LogEntry, error)
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteRepository creates a new SQLite-backed poll repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

// ListChoices returns every choice ordered by id.
func (r *SQLiteRepository) ListChoices(ctx context.Context) ([]Choice, error) {
	return queryChoices(ctx, r.db)
}

// AddChoice inserts a new language with zero picks.
func (r *SQLiteRepository) AddChoice(ctx context.Context, language string) (int64, error) {
	language = strings.TrimSpace(language)
	if language == "" {
		return 0, ErrEmptyLanguage
	}

	const query = `INSERT INTO choices (language, picks) VALUES (?, 0)`
	result, err := r.db.ExecContext(ctx, query, language)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return 0, ErrChoiceExists
		}
		return 0, fmt.Errorf("inserting choice %q: %w", language, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading choice id: %w", err)
	}
	return id, nil
}

// RecordVote appends a log entry for language and increments its pick
// counter, then returns the refreshed choices. All three steps share one
// transaction; an unknown language rolls everything back.
func (r *SQLiteRepository) RecordVote(ctx context.Context, language string) ([]Choice, error) {
	if strings.TrimSpace(language) == "" {
		return nil, ErrEmptyLanguage
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting vote transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit

	const insertLog = `INSERT INTO choice_log (choice, time) VALUES (?, ?)`
	if _, err := tx.ExecContext(ctx, insertLog, language, formatLogTime(r.now())); err != nil {
		return nil, fmt.Errorf("logging vote for %q: %w", language, err)
	}

	const increment = `UPDATE choices SET picks = picks + 1 WHERE language = ?`
	result, err := tx.ExecContext(ctx, increment, language)
	if err != nil {
		return nil, fmt.Errorf("counting vote for %q: %w", language, err)
	}
	if n, _ := result.RowsAffected(); n == 0 { //nolint:errcheck // SQLite always supports RowsAffected
		return nil, ErrChoiceNotFound
	}

	choices, err := queryChoices(ctx, tx)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing vote: %w", err)
	}
	return choices, nil
}

// ListLogs returns the newest log entries first, at most limit of them.
// A limit of zero or less means DefaultLogLimit.
func (r *SQLiteRepository) ListLogs(ctx context.Context, limit int) ([]LogEntry, error) {
	if limit <= 0 {
		limit = DefaultLogLimit
	}

	const query = `SELECT id, choice, time FROM choice_log ORDER BY time DESC, id DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying vote log: %w", err)
	}
	defer rows.Close()

	entries := make([]LogEntry, 0)
	for rows.Next() {
		var e LogEntry
		if err := rows.Scan(&e.ID, &e.Choice, &e.Time); err != nil {
			return nil, fmt.Errorf("scanning vote log: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating vote log: %w", err)
	}
	return entries, nil
}

// ClearHistory deletes every log entry and resets all pick counters to
// zero in one transaction. It returns the (now empty) log.
func (r *SQLiteRepository) ClearHistory(ctx context.Context) ([]LogEntry, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting clear transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit

	if _, err := tx.ExecContext(ctx, `DELETE FROM choice_log`); err != nil {
		return nil, fmt.Errorf("deleting vote log: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE choices SET picks = 0`); err != nil {
		return nil, fmt.Errorf("resetting picks: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing clear: %w", err)
	}
	return []LogEntry{}, nil
}

// queryChoices reads all choices through q.
func queryChoices(ctx context.Context, q querier) ([]Choice, error) {
	const query = `SELECT id, language, picks FROM choices ORDER BY id`

	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying choices: %w", err)
	}
	defer rows.Close()

	choices := make([]Choice, 0)
	for rows.Next() {
		var c Choice
		if err := rows.Scan(&c.ID, &c.Language, &c.Picks); err != nil {
			return nil, fmt.Errorf("scanning choice: %w", err)
		}
		choices = append(choices, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating choices: %w", err)
	}
	return choices, nil
}
