package deps

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// ResolveBinary reports the path a configured tool command resolves to.
//
// Explicit paths (anything containing a separator) are returned as-is so a
// broken config surfaces as "not found" rather than silently falling back to
// a PATH lookup. Bare names go through exec.LookPath. Either way the returned
// string is what the status output should show.
func ResolveBinary(configured, fallback string) string {
	command := strings.TrimSpace(configured)
	if command == "" {
		command = fallback
	}
	if strings.ContainsRune(command, os.PathSeparator) {
		return command
	}
	if resolved, err := exec.LookPath(command); err == nil {
		return resolved
	}
	return command
}

// SidecarCandidate returns the path an ffmpeg-family binary would occupy if
// it were installed next to the given executable, mirroring the lookup order
// of static ffmpeg bundles.
func SidecarCandidate(executablePath, name string) (string, bool) {
	if executablePath == "" {
		return "", false
	}
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	candidate := filepath.Join(filepath.Dir(executablePath), name)
	info, err := os.Stat(candidate)
	if err != nil || !isExecutable(info) {
		return "", false
	}
	return candidate, true
}

func isExecutable(info os.FileInfo) bool {
	if info == nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
