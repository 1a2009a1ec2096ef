package preflight_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"meetingscribe/internal/config"
	"meetingscribe/internal/preflight"
	"meetingscribe/internal/services"
)

func workingConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	binDir := filepath.Join(dir, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"whisper-cli", "ffmpeg"} {
		if err := os.WriteFile(filepath.Join(binDir, name), []byte("#!/bin/sh\n"), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	t.Setenv("PATH", binDir)

	model := filepath.Join(dir, "ggml-large-v3.bin")
	if err := os.WriteFile(model, []byte("model"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Pipeline.BinaryPath = "whisper-cli"
	cfg.Pipeline.FFmpegPath = "ffmpeg"
	cfg.Pipeline.ModelPath = model
	cfg.Pipeline.OutputDir = filepath.Join(dir, "out")
	cfg.Daemon.ScratchDir = filepath.Join(dir, "scratch")
	return &cfg
}

func TestRunJobChecksAllPass(t *testing.T) {
	cfg := workingConfig(t)
	results := preflight.RunJobChecks(cfg)
	if err := preflight.Err(results); err != nil {
		t.Fatalf("expected all checks to pass: %v", err)
	}
}

func TestMissingModelFailsWithHint(t *testing.T) {
	cfg := workingConfig(t)
	cfg.Pipeline.ModelPath = filepath.Join(t.TempDir(), "nope.bin")

	err := preflight.Err(preflight.RunJobChecks(cfg))
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("got %v, want configuration error", err)
	}
	if !strings.Contains(err.Error(), "model") {
		t.Errorf("error lacks model hint: %v", err)
	}
}

func TestMissingBinaryFailsWithHint(t *testing.T) {
	cfg := workingConfig(t)
	cfg.Pipeline.BinaryPath = "definitely-not-installed"

	err := preflight.Err(preflight.RunJobChecks(cfg))
	if err == nil || !strings.Contains(err.Error(), "binary_path") {
		t.Fatalf("error lacks actionable hint: %v", err)
	}
}

func TestUnconfiguredPathsFail(t *testing.T) {
	cfg := workingConfig(t)
	cfg.Daemon.ScratchDir = ""

	results := preflight.RunJobChecks(cfg)
	if preflight.Err(results) == nil {
		t.Fatal("expected failure for blank scratch directory")
	}
}
