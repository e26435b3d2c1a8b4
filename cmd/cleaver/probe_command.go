package main

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"cleaver/internal/config"
	"cleaver/internal/media/ffprobe"
)

type probeSummary struct {
	Path            string  `json:"path"`
	FormatName      string  `json:"format_name"`
	DurationSeconds float64 `json:"duration_seconds"`
	SizeBytes       int64   `json:"size_bytes"`
	BitRateBps      int64   `json:"bit_rate_bps"`
	VideoStreams    int     `json:"video_streams"`
	Streams         int     `json:"streams"`
	PlannedSegments int     `json:"planned_segments"`
}

func newProbeCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "probe <path>",
		Short: "Inspect a video file and preview its chunk plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			absPath, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}
			info, err := os.Stat(absPath)
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					return fmt.Errorf("file does not exist: %s", absPath)
				}
				return fmt.Errorf("inspect file: %w", err)
			}

			result, err := ffprobe.Inspect(cmd.Context(), cfg.FFprobeBinary(), absPath)
			if err != nil {
				return err
			}

			duration := result.DurationSeconds()
			if math.IsNaN(duration) {
				duration = 0
			}
			summary := probeSummary{
				Path:            absPath,
				FormatName:      result.Format.FormatName,
				DurationSeconds: duration,
				SizeBytes:       info.Size(),
				BitRateBps:      result.BitRate(),
				VideoStreams:    result.VideoStreamCount(),
				Streams:         len(result.Streams),
				PlannedSegments: previewSegmentCount(cfg, info.Size(), duration, result.BitRate()),
			}

			if jsonOut {
				return writeJSON(cmd, summary)
			}

			rows := [][]string{
				{"Path", summary.Path},
				{"Format", summary.FormatName},
				{"Duration", formatDuration(summary.DurationSeconds)},
				{"Size", formatBytes(summary.SizeBytes)},
				{"Bitrate", formatBitrate(summary.BitRateBps)},
				{"Streams", strconv.Itoa(summary.Streams)},
				{"Video streams", strconv.Itoa(summary.VideoStreams)},
				{"Planned segments", strconv.Itoa(summary.PlannedSegments)},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows, []columnAlignment{alignLeft, alignLeft}))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit machine-readable JSON output")
	return cmd
}

// previewSegmentCount estimates how many segments a chunk run would plan.
// Sources under budget borrow the original, so the preview is one segment.
func previewSegmentCount(cfg *config.Config, sizeBytes int64, duration float64, bitrate int64) int {
	if sizeBytes <= cfg.Chunking.MaxSegmentBytes {
		return 1
	}
	if duration <= 0 {
		return 0
	}
	if bitrate <= 0 {
		bitrate = cfg.DefaultBitrateBps()
	}
	bytesPerSecond := float64(bitrate) / 8
	target := math.Floor(float64(cfg.Chunking.MaxSegmentBytes) / bytesPerSecond)
	if target < 1 {
		return 0
	}
	return int(math.Ceil(duration / target))
}

func formatBitrate(bps int64) string {
	if bps <= 0 {
		return "-"
	}
	if bps < 1000 {
		return fmt.Sprintf("%d bit/s", bps)
	}
	return fmt.Sprintf("%.1f kbit/s", float64(bps)/1000)
}
