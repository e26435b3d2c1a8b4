package main

import (
	"bytes"
	"testing"
)

func TestRootCommandShowsHelp(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cmd := newRootCommand()
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetArgs(nil)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute root: %v", err)
	}
	requireContains(t, stdout.String(), "cleaver")
	for _, sub := range []string{"chunk", "probe", "sessions", "resolve", "status", "logs", "config"} {
		requireContains(t, stdout.String(), sub)
	}
}

func TestRootCommandUnknownSubcommand(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"frobnicate"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for unknown subcommand")
	}
}
