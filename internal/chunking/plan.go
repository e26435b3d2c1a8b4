package chunking

import (
	"fmt"
	"math"
	"strconv"

	"cleaver/internal/services"
)

// planSegments partitions [0, durationSeconds) into candidate ranges sized by
// the mean-bitrate estimate. The estimate is deliberately coarse: actual
// per-range size can deviate under variable bitrate, which the validator
// corrects by bisection.
func planSegments(sourcePath string, sourceSize int64, durationSeconds float64, bitrateBps int64, maxSegmentBytes int64) ([]Segment, error) {
	if durationSeconds <= 0 {
		return nil, services.Wrap(services.ErrProbe, "planner", "plan",
			fmt.Sprintf("source has non-positive duration %f", durationSeconds), nil)
	}

	if sourceSize <= maxSegmentBytes {
		// Whole source fits the budget: borrow it instead of re-encoding.
		return []Segment{{
			ID:        "0",
			Index:     -1,
			Path:      sourcePath,
			StartTime: 0,
			EndTime:   durationSeconds,
			Borrowed:  true,
		}}, nil
	}

	bytesPerSecond := float64(bitrateBps) / 8
	if bytesPerSecond <= 0 {
		return nil, services.Wrap(services.ErrConfiguration, "planner", "plan",
			fmt.Sprintf("non-positive bitrate %d", bitrateBps), nil)
	}
	targetChunkSeconds := math.Floor(float64(maxSegmentBytes) / bytesPerSecond)
	if targetChunkSeconds < 1 {
		return nil, services.Wrap(services.ErrConfiguration, "planner", "plan",
			fmt.Sprintf("budget %d bytes is under one second at %d bit/s", maxSegmentBytes, bitrateBps), nil)
	}

	numChunks := int(math.Ceil(durationSeconds / targetChunkSeconds))
	segments := make([]Segment, 0, numChunks)
	for i := 0; i < numChunks; i++ {
		start := float64(i) * targetChunkSeconds
		end := start + targetChunkSeconds
		if end > durationSeconds {
			end = durationSeconds
		}
		segments = append(segments, Segment{
			ID:        strconv.Itoa(i),
			Index:     -1,
			StartTime: start,
			EndTime:   end,
		})
	}
	return segments, nil
}

// targetSeconds exposes the planner's chunk length estimate for logging.
func targetSeconds(bitrateBps, maxSegmentBytes int64) float64 {
	bytesPerSecond := float64(bitrateBps) / 8
	if bytesPerSecond <= 0 {
		return 0
	}
	return math.Floor(float64(maxSegmentBytes) / bytesPerSecond)
}
