package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

var commandContext = exec.CommandContext

// Client defines time-range extraction behaviour.
type Client interface {
	// Extract materializes the [startSeconds, startSeconds+durationSeconds)
	// range of inputPath into a standalone media file at outputPath.
	Extract(ctx context.Context, inputPath, outputPath string, startSeconds, durationSeconds float64) error
}

// Option configures the CLI client.
type Option func(*CLI)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// CLI wraps the ffmpeg command-line encoder.
type CLI struct {
	binary string
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "ffmpeg"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Extract launches ffmpeg to re-encode one time range of the source into an
// independent fast-start file. The output is a valid standalone file, not a
// byte slice of the container, so each segment can be consumed on its own.
func (c *CLI) Extract(ctx context.Context, inputPath, outputPath string, startSeconds, durationSeconds float64) error {
	if strings.TrimSpace(inputPath) == "" {
		return errors.New("input path required")
	}
	if strings.TrimSpace(outputPath) == "" {
		return errors.New("output path required")
	}
	if durationSeconds <= 0 {
		return fmt.Errorf("duration must be positive, got %s", formatSeconds(durationSeconds))
	}
	if startSeconds < 0 {
		return fmt.Errorf("start must not be negative, got %s", formatSeconds(startSeconds))
	}

	args := []string{
		"-hide_banner",
		"-v", "error",
		"-ss", formatSeconds(startSeconds),
		"-i", inputPath,
		"-t", formatSeconds(durationSeconds),
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-c:a", "aac",
		"-movflags", "+faststart",
		"-y",
		outputPath,
	}
	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg extract failed: %w: %s", err, tail(string(output)))
	}
	return nil
}

func formatSeconds(value float64) string {
	return strconv.FormatFloat(value, 'f', 3, 64)
}

// tail keeps error strings readable when ffmpeg is chatty.
func tail(output string) string {
	const limit = 400
	trimmed := strings.TrimSpace(output)
	if len(trimmed) <= limit {
		return trimmed
	}
	return "..." + trimmed[len(trimmed)-limit:]
}

var _ Client = (*CLI)(nil)
