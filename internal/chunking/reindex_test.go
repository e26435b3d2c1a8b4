package chunking

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeScratch(t *testing.T, dir, lineageID string) string {
	t.Helper()
	path := scratchPath(dir, lineageID)
	if err := os.WriteFile(path, []byte(lineageID), 0o644); err != nil {
		t.Fatalf("write scratch %s: %v", path, err)
	}
	return path
}

func TestReindexCollapsesLineage(t *testing.T) {
	dir := t.TempDir()
	// Splitting planned segment 1 produced 1a/1b; segment 0 and 2 survived
	// untouched. Input order is deliberately shuffled.
	input := []Segment{
		{ID: "2", Index: -1, StartTime: 80, EndTime: 120, Path: writeScratch(t, dir, "2")},
		{ID: "1b", Index: -1, StartTime: 60, EndTime: 80, Path: writeScratch(t, dir, "1b")},
		{ID: "0", Index: -1, StartTime: 0, EndTime: 40, Path: writeScratch(t, dir, "0")},
		{ID: "1a", Index: -1, StartTime: 40, EndTime: 60, Path: writeScratch(t, dir, "1a")},
	}

	final, err := reindex(dir, input)
	if err != nil {
		t.Fatalf("reindex: %v", err)
	}
	if len(final) != 4 {
		t.Fatalf("expected 4 segments, got %d", len(final))
	}
	wantStarts := []float64{0, 40, 60, 80}
	for i, seg := range final {
		if seg.Index != i {
			t.Fatalf("segment %d has index %d", i, seg.Index)
		}
		if seg.ID != [...]string{"0", "1", "2", "3"}[i] {
			t.Fatalf("segment %d has id %q", i, seg.ID)
		}
		if seg.StartTime != wantStarts[i] {
			t.Fatalf("segment %d starts at %f, want %f", i, seg.StartTime, wantStarts[i])
		}
		if seg.Path != SegmentPath(dir, seg.ID) {
			t.Fatalf("segment %d path %q, want canonical", i, seg.Path)
		}
		content, readErr := os.ReadFile(seg.Path)
		if readErr != nil {
			t.Fatalf("read %s: %v", seg.Path, readErr)
		}
		// File contents prove the rename chain moved the right file.
		wantContent := []string{"0", "1a", "1b", "2"}[i]
		if string(content) != wantContent {
			t.Fatalf("segment %d holds %q, want %q", i, content, wantContent)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), reorderPrefix) || strings.HasPrefix(entry.Name(), scratchPrefix) {
			t.Fatalf("leftover working file %s", entry.Name())
		}
	}
}

func TestReindexSurvivesLineageCanonicalCollision(t *testing.T) {
	dir := t.TempDir()
	// "part-0b" must become "segment-1" while "part-1" still exists; a direct
	// sequential rename would clash.
	input := []Segment{
		{ID: "0a", Index: -1, StartTime: 0, EndTime: 20, Path: writeScratch(t, dir, "0a")},
		{ID: "0b", Index: -1, StartTime: 20, EndTime: 40, Path: writeScratch(t, dir, "0b")},
		{ID: "1", Index: -1, StartTime: 40, EndTime: 80, Path: writeScratch(t, dir, "1")},
	}

	final, err := reindex(dir, input)
	if err != nil {
		t.Fatalf("reindex: %v", err)
	}
	contents := make([]string, 0, len(final))
	for _, seg := range final {
		data, readErr := os.ReadFile(seg.Path)
		if readErr != nil {
			t.Fatalf("read %s: %v", seg.Path, readErr)
		}
		contents = append(contents, string(data))
	}
	want := []string{"0a", "0b", "1"}
	for i := range want {
		if contents[i] != want[i] {
			t.Fatalf("position %d holds %q, want %q", i, contents[i], want[i])
		}
	}
}

func TestReindexLeavesBorrowedAlone(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "lecture.mp4")
	if err := os.WriteFile(source, []byte("original"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	final, err := reindex(dir, []Segment{{ID: "0", Index: -1, StartTime: 0, EndTime: 90, Path: source, Borrowed: true}})
	if err != nil {
		t.Fatalf("reindex: %v", err)
	}
	if final[0].Path != source {
		t.Fatalf("borrowed path changed to %q", final[0].Path)
	}
	if final[0].Index != 0 || final[0].ID != "0" {
		t.Fatalf("unexpected borrowed identity: %+v", final[0])
	}
	if _, err := os.Stat(source); err != nil {
		t.Fatalf("borrowed source missing: %v", err)
	}
}
