package database

import (
	"context"
	"embed"
	"fmt"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// Embedded script locations, run in this order on a fresh store.
const (
	schemaFile = "schema/schema.sql"
	seedFile   = "schema/seed.sql"
)

// EnsureSchema prepares the store for serving requests.
//
// On a store file that did not exist before Open, it creates every table and
// inserts the default rows inside a single transaction. On a pre-existing
// file it does nothing: schema changes are never applied automatically, so
// operators delete the file to pick up a new schema.
//
// Two processes starting against the same absent file at the same time can
// both attempt the create; the loser fails with a "table already exists"
// error.
//
// Returns created=true when the schema was written by this call.
func (db *DB) EnsureSchema(ctx context.Context) (created bool, err error) {
	if !db.isNew {
		db.ready.Store(true)
		return false, nil
	}

	if err := db.applyScripts(ctx, schemaFile, seedFile); err != nil {
		return false, err
	}

	// A second EnsureSchema on this handle must not seed again.
	db.isNew = false
	db.ready.Store(true)
	return true, nil
}

// applyScripts executes the named embedded SQL files in one transaction.
func (db *DB) applyScripts(ctx context.Context, names ...string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit

	for _, name := range names {
		script, readErr := schemaFS.ReadFile(name)
		if readErr != nil {
			return fmt.Errorf("reading %s: %w", name, readErr)
		}
		if _, execErr := tx.ExecContext(ctx, string(script)); execErr != nil {
			return fmt.Errorf("executing %s: %w", name, execErr)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing schema: %w", err)
	}
	return nil
}
