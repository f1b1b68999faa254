package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// timeLayout is fixed width so string order is time order.
const timeLayout = "2006-01-02T15:04:05.000000Z"

// Repository defines the interface for audit trail operations.
type Repository interface {
	Create(ctx context.Context, entry *Entry) error
	List(ctx context.Context, filter Filter) (*ListResult, error)
}

// SQLiteRepository stores the audit trail in the audit_logs table.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new audit repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Create inserts an entry. The ID and CreatedAt are generated if empty.
func (r *SQLiteRepository) Create(ctx context.Context, entry *Entry) error {
	if entry.ID == "" {
		entry.ID = "aud-" + uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	var details *string
	if len(entry.Details) > 0 {
		b, err := json.Marshal(entry.Details)
		if err != nil {
			return fmt.Errorf("marshalling audit details: %w", err)
		}
		s := string(b)
		details = &s
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_logs (id, action, entity_type, entity_id, source, details, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Action, entry.EntityType,
		nullableString(entry.EntityID), entry.Source, details,
		entry.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting audit entry: %w", err)
	}
	return nil
}

// nullableString maps "" to SQL NULL.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// List returns entries matching the filter, newest first.
func (r *SQLiteRepository) List(ctx context.Context, filter Filter) (*ListResult, error) {
	filter = clamp(filter)

	var (
		conditions []string
		args       []any
	)
	if filter.Action != "" {
		conditions = append(conditions, "action = ?")
		args = append(args, filter.Action)
	}
	if filter.EntityType != "" {
		conditions = append(conditions, "entity_type = ?")
		args = append(args, filter.EntityType)
	}
	if filter.EntityID != "" {
		conditions = append(conditions, "entity_id = ?")
		args = append(args, filter.EntityID)
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM audit_logs " + where //nolint:gosec // WHERE built from fixed, parameterised conditions
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting audit entries: %w", err)
	}

	query := "SELECT id, action, entity_type, entity_id, source, details, created_at FROM audit_logs " + //nolint:gosec // as above
		where + " ORDER BY created_at DESC, rowid DESC LIMIT ? OFFSET ?"
	rows, err := r.db.QueryContext(ctx, query, append(args, filter.Limit, filter.Offset)...)
	if err != nil {
		return nil, fmt.Errorf("querying audit entries: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit entries: %w", err)
	}

	return &ListResult{
		Entries: entries,
		Total:   total,
		Limit:   filter.Limit,
		Offset:  filter.Offset,
	}, nil
}

func clamp(f Filter) Filter {
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

func scanEntry(rows *sql.Rows) (Entry, error) {
	var (
		e                 Entry
		entityID, details sql.NullString
		createdAt         string
	)
	if err := rows.Scan(&e.ID, &e.Action, &e.EntityType, &entityID, &e.Source, &details, &createdAt); err != nil {
		return Entry{}, fmt.Errorf("scanning audit entry: %w", err)
	}

	e.EntityID = entityID.String
	if details.Valid && details.String != "" {
		var m map[string]any
		if json.Unmarshal([]byte(details.String), &m) == nil {
			e.Details = m
		}
	}

	t, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return Entry{}, fmt.Errorf("parsing audit timestamp %q: %w", createdAt, err)
	}
	e.CreatedAt = t
	return e, nil
}
