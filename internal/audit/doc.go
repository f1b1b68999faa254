// Package audit keeps a persistent trail of every mutation hydrochat applies.
//
// Entries are written by Sink, which is registered on the events bus, and
// read back through GET /audit.
package audit
