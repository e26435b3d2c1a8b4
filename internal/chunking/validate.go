package chunking

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"cleaver/internal/logging"
	"cleaver/internal/services"
)

// validateSegment enforces the byte budget on one materialized segment.
//
// Oversized segments are deleted and replaced by two half-duration children
// that are validated recursively, depth-first, before any sibling is touched.
// Bisection converges quickly when the density spike that caused the overflow
// is local; when it is not, the depth bound turns an endless recursion into a
// distinct failure.
func (e *Engine) validateSegment(ctx context.Context, sourcePath, outputDir string, seg Segment, depth int, logger *slog.Logger) ([]Segment, error) {
	if seg.Borrowed {
		// Passthrough of the unmodified source is exempt from the budget.
		return []Segment{seg}, nil
	}

	info, err := os.Stat(seg.Path)
	if err != nil {
		return nil, services.Wrap(services.ErrEncode, "validator", "stat segment", seg.Path, err)
	}
	budget := e.cfg.Chunking.MaxSegmentBytes
	if info.Size() <= budget {
		logger.Debug("segment within budget",
			logging.String(logging.FieldSegmentID, seg.ID),
			logging.Int64("bytes", info.Size()),
			logging.Int("depth", depth),
		)
		return []Segment{seg}, nil
	}

	if depth >= e.cfg.Chunking.MaxSplitDepth {
		return nil, services.Wrap(services.ErrNonConvergent, "validator", "bisect",
			fmt.Sprintf("segment %s still %d bytes over budget at depth %d",
				seg.ID, info.Size()-budget, depth), nil)
	}

	logger.Info("segment over budget, bisecting",
		logging.String(logging.FieldSegmentID, seg.ID),
		logging.Int64("bytes", info.Size()),
		logging.Int64("budget", budget),
		logging.Int("depth", depth),
	)

	mid := seg.StartTime + seg.Duration()/2
	if err := os.Remove(seg.Path); err != nil {
		return nil, services.Wrap(services.ErrValidation, "validator", "discard oversized segment", seg.Path, err)
	}

	halves := []Segment{
		{ID: seg.ID + "a", Index: -1, StartTime: seg.StartTime, EndTime: mid},
		{ID: seg.ID + "b", Index: -1, StartTime: mid, EndTime: seg.EndTime},
	}
	var accepted []Segment
	for _, half := range halves {
		half.Path = scratchPath(outputDir, half.ID)
		if err := e.extract(ctx, sourcePath, half); err != nil {
			return nil, err
		}
		children, err := e.validateSegment(ctx, sourcePath, outputDir, half, depth+1, logger)
		if err != nil {
			return nil, err
		}
		accepted = append(accepted, children...)
	}
	return accepted, nil
}
