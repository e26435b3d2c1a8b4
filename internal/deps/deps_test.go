package deps

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestCheck(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Unset", Command: ""},
	}

	statuses := Check(reqs)
	if len(statuses) != len(reqs) {
		t.Fatalf("expected %d statuses, got %d", len(reqs), len(statuses))
	}

	if !statuses[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", statuses[0])
	}
	if statuses[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", statuses[0].Detail)
	}

	if statuses[1].Available {
		t.Fatalf("expected missing binary to be unavailable")
	}
	if statuses[1].Detail == "" {
		t.Fatalf("expected detail message for missing binary")
	}

	if statuses[2].Available || statuses[2].Detail != "no command configured" {
		t.Fatalf("unexpected status for unset command: %#v", statuses[2])
	}
}

func TestResolveBinaryExplicitPath(t *testing.T) {
	explicit := filepath.Join(t.TempDir(), "ffmpeg-custom")
	resolved := ResolveBinary(explicit, "ffmpeg")
	if resolved != explicit {
		t.Fatalf("expected explicit path to pass through, got %q", resolved)
	}
}

func TestResolveBinaryLooksUpBareName(t *testing.T) {
	binDir := t.TempDir()
	stub := filepath.Join(binDir, executableName("ffprobe"))
	if err := os.WriteFile(stub, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	t.Setenv("PATH", binDir)

	resolved := ResolveBinary("", "ffprobe")
	if resolved != stub {
		t.Fatalf("expected PATH resolution to %q, got %q", stub, resolved)
	}
}

func TestResolveBinaryMissingKeepsName(t *testing.T) {
	t.Setenv("PATH", "")
	resolved := ResolveBinary("", "ffmpeg")
	if resolved != "ffmpeg" {
		t.Fatalf("expected bare name for unresolvable binary, got %q", resolved)
	}
}

func TestSidecarCandidate(t *testing.T) {
	tmp := t.TempDir()
	hostPath := filepath.Join(tmp, executableName("cleaver"))
	sidecar := filepath.Join(tmp, executableName("ffmpeg"))
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(hostPath, script, 0o755); err != nil {
		t.Fatalf("write host stub: %v", err)
	}
	if err := os.WriteFile(sidecar, script, 0o755); err != nil {
		t.Fatalf("write sidecar: %v", err)
	}

	candidate, ok := SidecarCandidate(hostPath, "ffmpeg")
	if !ok {
		t.Fatal("expected sidecar to be found")
	}
	if candidate != sidecar {
		t.Fatalf("expected %q, got %q", sidecar, candidate)
	}

	if _, ok := SidecarCandidate(filepath.Join(tmp, "elsewhere", "cleaver"), "ffmpeg"); ok {
		t.Fatal("expected no sidecar for missing directory")
	}
}

func executableName(base string) string {
	if runtime.GOOS == "windows" {
		return base + ".exe"
	}
	return base
}
