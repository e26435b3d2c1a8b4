// Package session persists chunking runs in SQLite. Each session tracks one
// source file from creation through completion or failure, records the
// produced segment list as JSON, and is swept by a retention-based pruner
// that also removes the session's output directory.
package session
