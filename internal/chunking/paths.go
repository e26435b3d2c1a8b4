package chunking

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cleaver/internal/services"
)

const (
	segmentPrefix = "segment-"
	segmentExt    = ".mp4"
	scratchPrefix = "part-"
	reorderPrefix = ".reorder-"
)

// SegmentPath returns the canonical on-disk location for a re-indexed segment
// id. It is a pure function of output directory and id; callers that stream
// segments later need no state beyond these two values.
func SegmentPath(outputDir, id string) string {
	return filepath.Join(outputDir, segmentPrefix+id+segmentExt)
}

func scratchPath(outputDir, lineageID string) string {
	return filepath.Join(outputDir, scratchPrefix+lineageID+segmentExt)
}

func reorderPath(outputDir string, position int) string {
	return filepath.Join(outputDir, fmt.Sprintf("%s%04d%s", reorderPrefix, position, segmentExt))
}

func isPipelineFile(name string) bool {
	return strings.HasPrefix(name, segmentPrefix) ||
		strings.HasPrefix(name, scratchPrefix) ||
		strings.HasPrefix(name, reorderPrefix)
}

// ResolvePath locates the file backing a segment id inside outputDir. For
// encoder-produced segments this is the canonical path. When that file does
// not exist the run was a borrowed-original passthrough: the one file in the
// directory not produced by the pipeline is the segment.
func ResolvePath(outputDir, id string) (string, error) {
	canonical := SegmentPath(outputDir, id)
	if _, err := os.Stat(canonical); err == nil {
		return canonical, nil
	}

	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return "", services.Wrap(services.ErrNotFound, "chunker", "resolve segment", "read output directory", err)
	}
	var candidates []string
	for _, entry := range entries {
		if entry.IsDir() || isPipelineFile(entry.Name()) {
			continue
		}
		candidates = append(candidates, filepath.Join(outputDir, entry.Name()))
	}
	switch len(candidates) {
	case 1:
		return candidates[0], nil
	case 0:
		return "", services.Wrap(services.ErrNotFound, "chunker", "resolve segment",
			fmt.Sprintf("no file for segment %s in %s", id, outputDir), nil)
	default:
		return "", services.Wrap(services.ErrNotFound, "chunker", "resolve segment",
			fmt.Sprintf("ambiguous passthrough lookup for segment %s: %d candidate files", id, len(candidates)), nil)
	}
}

// removeOwnedFiles deletes every pipeline-produced file in outputDir. The
// borrowed original never matches the pipeline naming patterns, so it is
// always preserved.
func removeOwnedFiles(outputDir string) error {
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	var firstErr error
	for _, entry := range entries {
		if entry.IsDir() || !isPipelineFile(entry.Name()) {
			continue
		}
		if err := os.Remove(filepath.Join(outputDir, entry.Name())); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
