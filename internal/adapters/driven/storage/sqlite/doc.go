// Package sqlite provides persistent storage for documents, chunks,
// and cached answers in a single SQLite database file.
package sqlite
