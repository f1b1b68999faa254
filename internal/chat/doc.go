// Package chat stores the short text messages served at /messages.
//
// A Message is an auto-numbered row holding one string. Messages are
// created, rewritten, and removed by id; every mutation reports success
// through its affected-row count.
package chat
