package ffmpeg

import (
	"context"
	"os/exec"
	"strings"
	"testing"
)

func TestNewCLIWithBinary(t *testing.T) {
	cli := NewCLI(WithBinary("/opt/ffmpeg"))
	if cli.binary != "/opt/ffmpeg" {
		t.Fatalf("expected binary override to be applied, got %q", cli.binary)
	}
}

func TestExtractRequiresInput(t *testing.T) {
	cli := NewCLI()
	if err := cli.Extract(context.Background(), "", "/tmp/out.mp4", 0, 10); err == nil {
		t.Fatal("expected error when input path is empty")
	}
}

func TestExtractRequiresOutput(t *testing.T) {
	cli := NewCLI()
	if err := cli.Extract(context.Background(), "/tmp/in.mp4", "", 0, 10); err == nil {
		t.Fatal("expected error when output path is empty")
	}
}

func TestExtractRejectsBadRange(t *testing.T) {
	cli := NewCLI()
	if err := cli.Extract(context.Background(), "/tmp/in.mp4", "/tmp/out.mp4", 0, 0); err == nil {
		t.Fatal("expected error for non-positive duration")
	}
	if err := cli.Extract(context.Background(), "/tmp/in.mp4", "/tmp/out.mp4", -1, 10); err == nil {
		t.Fatal("expected error for negative start")
	}
}

func TestExtractBuildsTimeRangeArguments(t *testing.T) {
	var capturedArgs []string
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		capturedArgs = append([]string(nil), args...)
		return exec.CommandContext(ctx, "true")
	}
	t.Cleanup(func() { commandContext = original })

	cli := NewCLI()
	if err := cli.Extract(context.Background(), "/in.mp4", "/out.mp4", 120, 20); err != nil {
		t.Fatalf("Extract: %v", err)
	}

	want := map[string]string{
		"-ss":       "120.000",
		"-t":        "20.000",
		"-i":        "/in.mp4",
		"-movflags": "+faststart",
	}
	for flag, value := range want {
		found := false
		for i := 0; i < len(capturedArgs)-1; i++ {
			if capturedArgs[i] == flag && capturedArgs[i+1] == value {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("expected %s %s in args %v", flag, value, capturedArgs)
		}
	}
	if capturedArgs[len(capturedArgs)-1] != "/out.mp4" {
		t.Fatalf("expected output path last, got %v", capturedArgs)
	}
}

func TestExtractReportsToolFailure(t *testing.T) {
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		return exec.CommandContext(ctx, "sh", "-c", "echo 'moov atom not found' >&2; exit 1")
	}
	t.Cleanup(func() { commandContext = original })

	cli := NewCLI()
	err := cli.Extract(context.Background(), "/in.mp4", "/out.mp4", 0, 5)
	if err == nil {
		t.Fatal("expected error from failing tool")
	}
	if got := err.Error(); !strings.Contains(got, "moov atom") {
		t.Fatalf("expected tool output in error, got %q", got)
	}
}
