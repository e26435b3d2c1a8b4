package session

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Status represents the lifecycle of a chunking session.
type Status string

const (
	StatusPending   Status = "pending"
	StatusProbing   Status = "probing"
	StatusChunking  Status = "chunking"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

var allStatuses = []Status{
	StatusPending,
	StatusProbing,
	StatusChunking,
	StatusCompleted,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsTerminal reports whether the status is a run-ending state.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// SegmentRecord is the persisted shape of one produced segment.
type SegmentRecord struct {
	ID        string  `json:"id"`
	Index     int     `json:"index"`
	Path      string  `json:"path"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
	SizeBytes int64   `json:"size_bytes"`
	Borrowed  bool    `json:"borrowed,omitempty"`
}

// Session represents one chunking run persisted in SQLite.
type Session struct {
	ID            string
	SourcePath    string
	OutputDir     string
	Status        Status
	ErrorKind     string
	ErrorMessage  string
	SegmentCount  int
	TotalDuration float64
	SegmentsJSON  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Segments decodes the persisted segment list. A session without a stored
// result yields an empty slice.
func (s *Session) Segments() ([]SegmentRecord, error) {
	if strings.TrimSpace(s.SegmentsJSON) == "" {
		return nil, nil
	}
	var records []SegmentRecord
	if err := json.Unmarshal([]byte(s.SegmentsJSON), &records); err != nil {
		return nil, fmt.Errorf("decode segments for session %s: %w", s.ID, err)
	}
	return records, nil
}

// Age reports how long ago the session was last updated.
func (s *Session) Age(now time.Time) time.Duration {
	return now.Sub(s.UpdatedAt)
}
