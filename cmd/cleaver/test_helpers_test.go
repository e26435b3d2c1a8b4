package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	workDir    string
	logDir     string
	sourcePath string
}

// setupCLITestEnv prepares a config file plus working ffmpeg/ffprobe stubs.
// The ffprobe stub reports a 400 second source at 2000 bit/s; the ffmpeg stub
// writes a 9000 byte file to its final argument. With a 10000 byte budget the
// planner produces ten 40 second segments and every segment passes validation.
func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	workDir := filepath.Join(base, "sessions")
	logDir := filepath.Join(base, "logs")
	binDir := filepath.Join(base, "bin")
	for _, dir := range []string{workDir, logDir, binDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}

	ffprobeStub := "#!/bin/sh\n" +
		`printf '{"format":{"filename":"source","duration":"400","size":"100000","bit_rate":"2000","format_name":"mp4"},"streams":[{"index":0,"codec_type":"video","codec_name":"h264"}]}'` + "\n"
	if err := os.WriteFile(filepath.Join(binDir, "ffprobe"), []byte(ffprobeStub), 0o755); err != nil {
		t.Fatalf("write ffprobe stub: %v", err)
	}

	ffmpegStub := "#!/bin/sh\nfor last; do :; done\nhead -c 9000 /dev/zero > \"$last\"\n"
	if err := os.WriteFile(filepath.Join(binDir, "ffmpeg"), []byte(ffmpegStub), 0o755); err != nil {
		t.Fatalf("write ffmpeg stub: %v", err)
	}

	sourcePath := filepath.Join(base, "lecture.mp4")
	if err := os.WriteFile(sourcePath, bytes.Repeat([]byte{0xAB}, 100_000), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(`[paths]
work_dir = %q
log_dir = %q

[chunking]
max_segment_bytes = 10000
default_bitrate_kbps = 2
max_split_depth = 8
ffmpeg_binary = %q
ffprobe_binary = %q
max_concurrent = 2

[sessions]
retention_hours = 24

[logging]
format = "json"
level = "info"
`,
		workDir,
		logDir,
		filepath.Join(binDir, "ffmpeg"),
		filepath.Join(binDir, "ffprobe"),
	)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &cliTestEnv{
		baseDir:    base,
		configPath: configPath,
		workDir:    workDir,
		logDir:     logDir,
		sourcePath: sourcePath,
	}
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
