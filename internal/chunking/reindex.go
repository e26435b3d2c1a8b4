package chunking

import (
	"os"
	"sort"
	"strconv"

	"cleaver/internal/services"
)

// reindex collapses the possibly tree-shaped lineage ids left by recursive
// splitting into a dense, time-ordered sequence and renames the backing files
// to their canonical names.
//
// Renaming happens in two phases because lineage-named files can collide with
// canonical names that belong to later siblings (renaming "part-1a" straight
// to "segment-1" would clash with an untouched planned "segment-1" about to
// be produced from "part-1"). Phase one moves every file to a private name
// keyed only by its sorted position; phase two moves those to the canonical
// names. No intermediate state can collide regardless of split depth or
// production ordering.
func reindex(outputDir string, segments []Segment) ([]Segment, error) {
	ordered := make([]Segment, len(segments))
	copy(ordered, segments)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].StartTime < ordered[j].StartTime
	})

	// Borrowed passthrough: one segment referencing the source file, which
	// must never be renamed.
	if len(ordered) == 1 && ordered[0].Borrowed {
		ordered[0].ID = "0"
		ordered[0].Index = 0
		return ordered, nil
	}

	for i := range ordered {
		tmp := reorderPath(outputDir, i)
		if err := os.Rename(ordered[i].Path, tmp); err != nil {
			return nil, services.Wrap(services.ErrValidation, "reindexer", "stage rename", ordered[i].Path, err)
		}
		ordered[i].Path = tmp
	}

	for i := range ordered {
		id := strconv.Itoa(i)
		final := SegmentPath(outputDir, id)
		if err := os.Rename(ordered[i].Path, final); err != nil {
			return nil, services.Wrap(services.ErrValidation, "reindexer", "final rename", ordered[i].Path, err)
		}
		ordered[i].ID = id
		ordered[i].Index = i
		ordered[i].Path = final
	}
	return ordered, nil
}
