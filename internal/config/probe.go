package config

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

var whisperBinaryCandidates = []string{"whisper-cli", "whisper", "whisper-cpp", "main"}

var prefixBinDirs = []string{"/opt/homebrew/bin", "/usr/local/bin"}

// ResolveDefaults fills blank binary, model, and output-directory fields by
// probing the environment. Fields stay blank when nothing usable is found;
// preflight validates them again before a job runs. Pure with respect to the
// input: the argument is copied, never mutated.
func ResolveDefaults(cfg Config) Config {
	if strings.TrimSpace(cfg.Pipeline.BinaryPath) == "" {
		if path, ok := DefaultWhisperBinary(); ok {
			cfg.Pipeline.BinaryPath = path
		}
	}
	if strings.TrimSpace(cfg.Pipeline.FFmpegPath) == "" {
		if path, ok := DefaultFFmpegBinary(); ok {
			cfg.Pipeline.FFmpegPath = path
		}
	}
	if strings.TrimSpace(cfg.Pipeline.ModelPath) == "" {
		candidate := filepath.Join(DefaultModelRoot(), DefaultModelFile)
		if isFile(candidate) {
			cfg.Pipeline.ModelPath = candidate
		}
	}
	if strings.TrimSpace(cfg.Pipeline.OutputDir) == "" {
		cfg.Pipeline.OutputDir = DefaultOutputDir()
	}
	return cfg
}

// DefaultWhisperBinary probes PATH and common install prefixes for a
// whisper.cpp executable.
func DefaultWhisperBinary() (string, bool) {
	for _, candidate := range whisperBinaryCandidates {
		if path, err := exec.LookPath(candidate); err == nil {
			return path, true
		}
	}
	for _, dir := range prefixBinDirs {
		candidate := filepath.Join(dir, "whisper-cli")
		if isFile(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// DefaultFFmpegBinary resolves ffmpeg from the FFMPEG_BINARY environment
// variable, PATH, then common install prefixes.
func DefaultFFmpegBinary() (string, bool) {
	if env := strings.TrimSpace(os.Getenv("FFMPEG_BINARY")); env != "" {
		if isFile(env) {
			return env, true
		}
		if path, err := exec.LookPath(env); err == nil {
			return path, true
		}
	}
	if path, err := exec.LookPath("ffmpeg"); err == nil {
		return path, true
	}
	for _, dir := range prefixBinDirs {
		candidate := filepath.Join(dir, "ffmpeg")
		if isFile(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// DefaultOutputDir prefers the user's Downloads directory, falling back to
// the data directory.
func DefaultOutputDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		downloads := filepath.Join(home, "Downloads")
		if info, statErr := os.Stat(downloads); statErr == nil && info.IsDir() {
			return downloads
		}
	}
	return filepath.Join(dataDir(), "transcripts")
}

// DefaultModelRoot is where whisper models are expected when the configured
// model path is relative or blank.
func DefaultModelRoot() string {
	return filepath.Join(dataDir(), "models")
}

func dataDir() string {
	if base := strings.TrimSpace(os.Getenv("XDG_DATA_HOME")); base != "" {
		return filepath.Join(base, "meetingscribe")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "meetingscribe")
	}
	return filepath.Join(home, ".local", "share", "meetingscribe")
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
