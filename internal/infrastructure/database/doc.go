// Package database provides the SQLite store behind hydrochat.
//
// This package manages:
//   - The connection to a single store file (WAL mode, busy timeout)
//   - Lazy schema initialisation: tables and default rows are created only
//     when the store file did not exist at startup
//   - A ready gate that the HTTP layer checks before serving traffic
//
// Usage:
//
//	db, err := database.Open(database.Config{Path: cfg.Database.Path})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if _, err := db.EnsureSchema(ctx); err != nil {
//	    return err
//	}
//
// Database file permissions are set to 0600.
package database
