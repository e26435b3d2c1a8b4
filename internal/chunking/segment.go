package chunking

import (
	"fmt"
	"math"
)

// timeEpsilon absorbs floating point drift when comparing range boundaries.
const timeEpsilon = 1e-6

// Segment is one contiguous time range of the source video.
//
// During planning and recursive splitting the ID carries lineage (a planned
// ordinal, extended with branch suffixes such as "3a"/"3b" on each split) and
// Index stays -1. The re-indexer collapses ids to the dense canonical form
// and assigns Index.
//
// Path normally owns one on-disk file. The single exception is the borrowed
// passthrough case, where Path references the unmodified source file; such a
// segment is never deleted or renamed by the pipeline.
type Segment struct {
	ID        string
	Index     int
	Path      string
	StartTime float64
	EndTime   float64
	Borrowed  bool
}

// Duration returns the segment length in source-video seconds.
func (s Segment) Duration() float64 {
	return s.EndTime - s.StartTime
}

// Validate checks internal consistency of a single segment.
func (s Segment) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("segment has empty id")
	}
	if s.StartTime < 0 {
		return fmt.Errorf("segment %s starts before zero: %f", s.ID, s.StartTime)
	}
	if s.Duration() <= 0 {
		return fmt.Errorf("segment %s has non-positive duration: [%f, %f)", s.ID, s.StartTime, s.EndTime)
	}
	return nil
}

// checkTiling verifies the final-list invariants: segments sorted by start
// time with dense indices, exactly tiling [0, totalDuration) with no gaps or
// overlaps.
func checkTiling(segments []Segment, totalDuration float64) error {
	if len(segments) == 0 {
		return fmt.Errorf("empty segment list")
	}
	for i, seg := range segments {
		if err := seg.Validate(); err != nil {
			return err
		}
		if seg.Index != i {
			return fmt.Errorf("segment %s has index %d at position %d", seg.ID, seg.Index, i)
		}
	}
	if math.Abs(segments[0].StartTime) > timeEpsilon {
		return fmt.Errorf("first segment starts at %f, want 0", segments[0].StartTime)
	}
	last := segments[len(segments)-1]
	if math.Abs(last.EndTime-totalDuration) > timeEpsilon {
		return fmt.Errorf("last segment ends at %f, want %f", last.EndTime, totalDuration)
	}
	for i := 0; i < len(segments)-1; i++ {
		gap := segments[i+1].StartTime - segments[i].EndTime
		if math.Abs(gap) > timeEpsilon {
			return fmt.Errorf(
				"segments %s and %s are not contiguous: end %f, next start %f",
				segments[i].ID, segments[i+1].ID, segments[i].EndTime, segments[i+1].StartTime,
			)
		}
	}
	return nil
}
