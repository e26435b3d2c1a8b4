// Package chunking splits a source video into contiguous segments whose
// on-disk size never exceeds a configured byte budget.
//
// Pipeline, leaves first:
//   - the prober extracts total duration and average bitrate
//   - the planner partitions [0, duration) using the mean-bitrate estimate,
//     or borrows the source outright when it already fits the budget
//   - the encoder materializes each planned range as a standalone file
//   - the validator measures each file and recursively bisects oversized
//     ranges, bounded by a maximum split depth
//   - the re-indexer renames the surviving files into a dense, time-ordered
//     canonical sequence
//
// A run is all-or-nothing: failures and cancellation remove every
// pipeline-produced file so callers never see a partial chunk set.
package chunking
