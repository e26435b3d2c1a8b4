package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestChunkCommandProducesSegments(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env.configPath, "chunk", "--json", env.sourcePath)
	if err != nil {
		t.Fatalf("chunk: %v", err)
	}

	var reports []chunkReport
	if err := json.Unmarshal([]byte(out), &reports); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if len(reports) != 1 {
		t.Fatalf("expected 1 report, got %d", len(reports))
	}
	report := reports[0]
	if report.Error != "" {
		t.Fatalf("unexpected failure: %s", report.Error)
	}
	if report.Segments != 10 {
		t.Fatalf("expected 10 segments, got %d", report.Segments)
	}
	if report.Duration != 400 {
		t.Fatalf("expected 400s duration, got %f", report.Duration)
	}

	entries, err := os.ReadDir(report.OutputDir)
	if err != nil {
		t.Fatalf("read output dir: %v", err)
	}
	segments := 0
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, "part-") || strings.HasPrefix(name, ".reorder-") {
			t.Fatalf("leftover working file %s", name)
		}
		if strings.HasPrefix(name, "segment-") {
			segments++
		}
	}
	if segments != 10 {
		t.Fatalf("expected 10 segment files, found %d", segments)
	}
	if filepath.Dir(report.OutputDir) != env.workDir {
		t.Fatalf("output dir %s not under work dir %s", report.OutputDir, env.workDir)
	}
}

func TestChunkCommandWritesToOverrideDir(t *testing.T) {
	env := setupCLITestEnv(t)
	override := filepath.Join(env.baseDir, "custom-out")

	out, _, err := runCLI(t, env.configPath, "chunk", "--json", "-o", override, env.sourcePath)
	if err != nil {
		t.Fatalf("chunk: %v", err)
	}

	var reports []chunkReport
	if err := json.Unmarshal([]byte(out), &reports); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if reports[0].OutputDir != override {
		t.Fatalf("expected output dir %s, got %s", override, reports[0].OutputDir)
	}
	if _, err := os.Stat(filepath.Join(override, "segment-0.mp4")); err != nil {
		t.Fatalf("expected segment in override dir: %v", err)
	}
}

func TestChunkCommandReportsPerFileFailures(t *testing.T) {
	env := setupCLITestEnv(t)

	broken := filepath.Join(env.baseDir, "broken.mp4")
	if err := os.WriteFile(broken, []byte("junk"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	// Swap in an ffprobe stub that rejects the broken source but still
	// reports the healthy one, so one failing input must not stop the other.
	stub := "#!/bin/sh\n" +
		"for last; do :; done\n" +
		"case \"$last\" in *broken*) echo 'invalid data' >&2; exit 1;; esac\n" +
		`printf '{"format":{"filename":"source","duration":"400","size":"100000","bit_rate":"2000","format_name":"mp4"},"streams":[{"index":0,"codec_type":"video","codec_name":"h264"}]}'` + "\n"
	if err := os.WriteFile(filepath.Join(env.baseDir, "bin", "ffprobe"), []byte(stub), 0o755); err != nil {
		t.Fatalf("rewrite ffprobe stub: %v", err)
	}

	out, _, err := runCLI(t, env.configPath, "chunk", "--json", env.sourcePath, broken)
	if err == nil {
		t.Fatal("expected command error for the failed file")
	}
	requireContains(t, err.Error(), "1 of 2 files failed")

	var reports []chunkReport
	if decodeErr := json.Unmarshal([]byte(out), &reports); decodeErr != nil {
		t.Fatalf("decode output: %v\n%s", decodeErr, out)
	}
	if len(reports) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(reports))
	}
	if reports[0].Error != "" || reports[0].Segments != 10 {
		t.Fatalf("expected healthy source to chunk fully: %#v", reports[0])
	}
	if reports[1].ErrorKind != "probe" {
		t.Fatalf("expected probe failure for broken source: %#v", reports[1])
	}
}

func TestChunkCommandRejectsUnsupportedExtension(t *testing.T) {
	env := setupCLITestEnv(t)
	bad := filepath.Join(env.baseDir, "notes.txt")
	if err := os.WriteFile(bad, []byte("not a video"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	_, _, err := runCLI(t, env.configPath, "chunk", bad)
	if err == nil {
		t.Fatal("expected unsupported extension error")
	}
	requireContains(t, err.Error(), "unsupported file extension")
}

func TestChunkCommandRejectsMissingFile(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, env.configPath, "chunk", filepath.Join(env.baseDir, "nope.mp4"))
	if err == nil {
		t.Fatal("expected missing file error")
	}
	requireContains(t, err.Error(), "does not exist")
}

func TestChunkCommandOutputDirRequiresSingleInput(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, env.configPath, "chunk", "-o", env.baseDir, env.sourcePath, env.sourcePath)
	if err == nil {
		t.Fatal("expected multi-input output-dir error")
	}
	requireContains(t, err.Error(), "single input")
}

func TestChunkCommandFailsPreflightWithoutTools(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := os.Remove(filepath.Join(env.baseDir, "bin", "ffmpeg")); err != nil {
		t.Fatalf("remove stub: %v", err)
	}

	_, _, err := runCLI(t, env.configPath, "chunk", env.sourcePath)
	if err == nil {
		t.Fatal("expected preflight failure")
	}
	requireContains(t, err.Error(), "preflight")
}
