package chunking

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"cleaver/internal/services"
)

func TestSegmentPathIsPure(t *testing.T) {
	if got := SegmentPath("/out", "3"); got != filepath.Join("/out", "segment-3.mp4") {
		t.Fatalf("unexpected path: %q", got)
	}
}

func TestResolvePathCanonical(t *testing.T) {
	dir := t.TempDir()
	want := SegmentPath(dir, "2")
	if err := os.WriteFile(want, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := ResolvePath(dir, "2")
	if err != nil {
		t.Fatalf("ResolvePath: %v", err)
	}
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestResolvePathBorrowedFallback(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "lecture.mp4")
	if err := os.WriteFile(source, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := ResolvePath(dir, "0")
	if err != nil {
		t.Fatalf("ResolvePath: %v", err)
	}
	if got != source {
		t.Fatalf("got %q, want borrowed source %q", got, source)
	}
}

func TestResolvePathAmbiguousFallback(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.mp4", "b.mp4"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	_, err := ResolvePath(dir, "0")
	if err == nil {
		t.Fatal("expected error for ambiguous lookup")
	}
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found class, got %v", err)
	}
}

func TestRemoveOwnedFilesPreservesForeignFiles(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "lecture.mp4")
	owned := []string{
		SegmentPath(dir, "0"),
		scratchPath(dir, "1a"),
		reorderPath(dir, 2),
	}
	for _, path := range append([]string{source}, owned...) {
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}

	if err := removeOwnedFiles(dir); err != nil {
		t.Fatalf("removeOwnedFiles: %v", err)
	}
	for _, path := range owned {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Fatalf("expected %s removed", path)
		}
	}
	if _, err := os.Stat(source); err != nil {
		t.Fatalf("source should survive cleanup: %v", err)
	}
}
