package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"cleaver/internal/config"
)

// Store manages session persistence backed by SQLite.
type Store struct {
	db      *sql.DB
	path    string
	workDir string
}

// Open initializes or connects to the session database and applies migrations.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.LogDir, "sessions.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath, workDir: cfg.Paths.WorkDir}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the location of the backing database file.
func (s *Store) Path() string {
	return s.path
}

// Create inserts a pending session for a source file. An empty outputDir
// gives the session a dedicated directory under the configured work dir;
// anything else is recorded as-is so later lookups resolve against the
// directory the segments were actually written to.
func (s *Store) Create(ctx context.Context, sourcePath, outputDir string) (*Session, error) {
	id := uuid.NewString()
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)
	if outputDir == "" {
		outputDir = filepath.Join(s.workDir, id)
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO sessions (
            id, source_path, output_dir, status, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?)`,
		id,
		sourcePath,
		outputDir,
		StatusPending,
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}

	return s.Get(ctx, id)
}

// Get fetches a session by identifier. A missing session returns (nil, nil).
func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return sess, nil
}

// List returns sessions filtered by status set, or all sessions when no
// status is provided, ordered by creation time.
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Session, error) {
	var (
		rows *sql.Rows
		err  error
	)

	baseQuery := `SELECT ` + sessionColumns + ` FROM sessions`
	orderClause := ` ORDER BY created_at`

	if len(statuses) == 0 {
		rows, err = s.db.QueryContext(ctx, baseQuery+orderClause)
	} else {
		placeholders := makePlaceholders(len(statuses))
		args := make([]any, len(statuses))
		for i, status := range statuses {
			args[i] = status
		}
		query := baseQuery + ` WHERE status IN (` + placeholders + `)` + orderClause
		rows, err = s.db.QueryContext(ctx, query, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// SetStatus transitions a session to a new lifecycle state.
func (s *Store) SetStatus(ctx context.Context, id string, status Status) error {
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE sessions SET status = ?, updated_at = ? WHERE id = ?`,
		status,
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
	)
	if err != nil {
		return fmt.Errorf("set session status: %w", err)
	}
	return nil
}

// MarkFailed records a terminal failure with its classified kind and message.
func (s *Store) MarkFailed(ctx context.Context, id, kind, message string) error {
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE sessions SET status = ?, error_kind = ?, error_message = ?, updated_at = ? WHERE id = ?`,
		StatusFailed,
		nullableString(kind),
		nullableString(message),
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
	)
	if err != nil {
		return fmt.Errorf("mark session failed: %w", err)
	}
	return nil
}

// SaveResult records a completed run: the produced segments and the source
// duration they tile.
func (s *Store) SaveResult(ctx context.Context, id string, records []SegmentRecord, totalDuration float64) error {
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal segments: %w", err)
	}
	_, err = s.db.ExecContext(
		ctx,
		`UPDATE sessions
         SET status = ?, segment_count = ?, total_duration = ?, segments_json = ?,
             error_kind = NULL, error_message = NULL, updated_at = ?
         WHERE id = ?`,
		StatusCompleted,
		len(records),
		totalDuration,
		string(payload),
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
	)
	if err != nil {
		return fmt.Errorf("save session result: %w", err)
	}
	return nil
}

// Remove deletes a session row by identifier.
func (s *Store) Remove(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// ExpiredBefore returns terminal sessions whose last update predates the
// cutoff. In-flight sessions are never considered expired.
func (s *Store) ExpiredBefore(ctx context.Context, cutoff time.Time) ([]*Session, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+sessionColumns+` FROM sessions
         WHERE status IN (?, ?) AND updated_at < ?
         ORDER BY updated_at`,
		StatusCompleted,
		StatusFailed,
		cutoff.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("query expired sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// Stats returns a count of sessions grouped by status.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM sessions GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("session stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

const sessionColumns = "id, source_path, output_dir, status, error_kind, error_message, segment_count, total_duration, segments_json, created_at, updated_at"

func scanSession(scanner interface{ Scan(dest ...any) error }) (*Session, error) {
	var (
		id            string
		sourcePath    string
		outputDir     string
		statusStr     string
		errorKind     sql.NullString
		errorMessage  sql.NullString
		segmentCount  int
		totalDuration float64
		segmentsJSON  sql.NullString
		createdRaw    string
		updatedRaw    string
	)

	if err := scanner.Scan(
		&id,
		&sourcePath,
		&outputDir,
		&statusStr,
		&errorKind,
		&errorMessage,
		&segmentCount,
		&totalDuration,
		&segmentsJSON,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	sess := &Session{
		ID:            id,
		SourcePath:    sourcePath,
		OutputDir:     outputDir,
		Status:        Status(statusStr),
		ErrorKind:     errorKind.String,
		ErrorMessage:  errorMessage.String,
		SegmentCount:  segmentCount,
		TotalDuration: totalDuration,
		SegmentsJSON:  segmentsJSON.String,
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		sess.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		sess.UpdatedAt = updated
	}
	return sess, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	return time.Parse(time.RFC3339Nano, value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
