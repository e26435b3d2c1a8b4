package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func chunkOnce(t *testing.T, env *cliTestEnv) chunkReport {
	t.Helper()
	out, _, err := runCLI(t, env.configPath, "chunk", "--json", env.sourcePath)
	if err != nil {
		t.Fatalf("chunk: %v", err)
	}
	var reports []chunkReport
	if err := json.Unmarshal([]byte(out), &reports); err != nil {
		t.Fatalf("decode chunk output: %v", err)
	}
	if len(reports) != 1 || reports[0].Error != "" {
		t.Fatalf("unexpected chunk reports: %#v", reports)
	}
	return reports[0]
}

func TestSessionsListShowsCompletedRun(t *testing.T) {
	env := setupCLITestEnv(t)
	report := chunkOnce(t, env)

	out, _, err := runCLI(t, env.configPath, "sessions", "list")
	if err != nil {
		t.Fatalf("sessions list: %v", err)
	}
	requireContains(t, out, report.SessionID)
	requireContains(t, out, "completed")
}

func TestSessionsListFiltersByStatus(t *testing.T) {
	env := setupCLITestEnv(t)
	chunkOnce(t, env)

	out, _, err := runCLI(t, env.configPath, "sessions", "list", "--status", "failed")
	if err != nil {
		t.Fatalf("sessions list: %v", err)
	}
	requireContains(t, out, "No sessions recorded")

	_, _, err = runCLI(t, env.configPath, "sessions", "list", "--status", "bogus")
	if err == nil {
		t.Fatal("expected unknown status error")
	}
}

func TestSessionsShowListsSegments(t *testing.T) {
	env := setupCLITestEnv(t)
	report := chunkOnce(t, env)

	out, _, err := runCLI(t, env.configPath, "sessions", "show", report.SessionID)
	if err != nil {
		t.Fatalf("sessions show: %v", err)
	}
	requireContains(t, out, report.SessionID)
	requireContains(t, out, "segment-0.mp4")
	requireContains(t, out, "segment-9.mp4")
}

func TestSessionsPruneRemovesExpiredRun(t *testing.T) {
	env := setupCLITestEnv(t)
	report := chunkOnce(t, env)

	out, _, err := runCLI(t, env.configPath, "sessions", "prune", "--retention-hours", "0")
	if err != nil {
		t.Fatalf("sessions prune: %v", err)
	}
	requireContains(t, out, "Pruned 1 sessions")

	if _, statErr := os.Stat(report.OutputDir); !os.IsNotExist(statErr) {
		t.Fatalf("expected output dir removed, stat err: %v", statErr)
	}

	listOut, _, err := runCLI(t, env.configPath, "sessions", "list")
	if err != nil {
		t.Fatalf("sessions list: %v", err)
	}
	requireContains(t, listOut, "No sessions recorded")
}

func TestResolveCommandFindsSegment(t *testing.T) {
	env := setupCLITestEnv(t)
	report := chunkOnce(t, env)

	out, _, err := runCLI(t, env.configPath, "resolve", report.SessionID, "4")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	requireContains(t, out, "segment-4.mp4")

	_, _, err = runCLI(t, env.configPath, "resolve", report.SessionID, "99")
	if err == nil {
		t.Fatal("expected missing segment error")
	}
}

func TestResolveCommandFindsSegmentInOverrideDir(t *testing.T) {
	env := setupCLITestEnv(t)
	override := filepath.Join(env.baseDir, "exported")

	out, _, err := runCLI(t, env.configPath, "chunk", "--json", "-o", override, env.sourcePath)
	if err != nil {
		t.Fatalf("chunk: %v", err)
	}
	var reports []chunkReport
	if err := json.Unmarshal([]byte(out), &reports); err != nil {
		t.Fatalf("decode chunk output: %v", err)
	}

	resolved, _, err := runCLI(t, env.configPath, "resolve", reports[0].SessionID, "4")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	requireContains(t, resolved, filepath.Join(override, "segment-4.mp4"))
}

func TestResolveCommandUnknownSession(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, env.configPath, "resolve", "missing-session", "0")
	if err == nil {
		t.Fatal("expected unknown session error")
	}
	requireContains(t, err.Error(), "not found")
}

func TestStatusCommandReportsEnvironment(t *testing.T) {
	env := setupCLITestEnv(t)
	chunkOnce(t, env)

	out, _, err := runCLI(t, env.configPath, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "Environment")
	requireContains(t, out, "FFmpeg")
	requireContains(t, out, "FFprobe")
	requireContains(t, out, "Sessions")
	requireContains(t, out, "completed")
}
