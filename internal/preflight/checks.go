package preflight

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"cleaver/internal/config"
	"cleaver/internal/deps"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckSystemDeps evaluates the external tool binaries for the given config.
// Both the chunk command and the CLI status command use this to avoid
// duplicating the requirements list.
func CheckSystemDeps(_ context.Context, cfg *config.Config) []deps.Status {
	ffmpeg := deps.ResolveBinary(cfg.Chunking.FFmpegBinary, "ffmpeg")
	ffprobe := deps.ResolveBinary(cfg.Chunking.FFprobeBinary, "ffprobe")

	// A static ffmpeg bundle dropped next to the cleaver binary wins over
	// whatever PATH resolves to.
	if executable, err := os.Executable(); err == nil {
		if cfg.Chunking.FFmpegBinary == "" {
			if candidate, ok := deps.SidecarCandidate(executable, "ffmpeg"); ok {
				ffmpeg = candidate
			}
		}
		if cfg.Chunking.FFprobeBinary == "" {
			if candidate, ok := deps.SidecarCandidate(executable, "ffprobe"); ok {
				ffprobe = candidate
			}
		}
	}

	requirements := []deps.Requirement{
		{
			Name:    "FFmpeg",
			Command: ffmpeg,
			Purpose: "segment extraction",
		},
		{
			Name:    "FFprobe",
			Command: ffprobe,
			Purpose: "media inspection",
		},
	}
	return deps.Check(requirements)
}
