// Package journal keeps an append-only SQLite log of recording mutations
// made through the server: uploads, deletions, and bundle downloads.
//
// The database lives next to the log file (see config.JournalPath) and uses
// WAL mode so the CLI can read history while the server writes.
package journal
