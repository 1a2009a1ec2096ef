package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Storage contains object-store connection settings.
type Storage struct {
	URL       string `toml:"url" json:"url"`
	Region    string `toml:"region" json:"region"`
	AccessKey string `toml:"access_key" json:"accessKey"`
	SecretKey string `toml:"secret_key" json:"secretKey"`
	Bucket    string `toml:"bucket" json:"bucket"`
}

// Pipeline contains transcription pipeline settings.
type Pipeline struct {
	BinaryPath        string `toml:"binary_path" json:"binaryPath"`
	FFmpegPath        string `toml:"ffmpeg_path" json:"ffmpegPath"`
	ModelPath         string `toml:"model_path" json:"modelPath"`
	OutputDir         string `toml:"output_dir" json:"outputDir"`
	Language          string `toml:"language" json:"language"`
	IncludeTimestamps bool   `toml:"include_timestamps" json:"includeTimestamps"`
	IncludeSpeaker    bool   `toml:"include_speaker" json:"includeSpeaker"`
}

// Daemon contains daemon runtime settings.
type Daemon struct {
	APIBind    string `toml:"api_bind" json:"apiBind"`
	APIToken   string `toml:"api_token" json:"apiToken"`
	LogDir     string `toml:"log_dir" json:"logDir"`
	ScratchDir string `toml:"scratch_dir" json:"scratchDir"`
}

// Logging contains log output settings.
type Logging struct {
	Format string `toml:"format" json:"format"`
	Level  string `toml:"level" json:"level"`
}

// Config encapsulates all configuration values for meetingscribe.
//
// Sections by subsystem:
//   - Storage: MinIO endpoint, credentials, and bucket holding meeting audio
//   - Pipeline: external binaries, model, output directory, formatting flags
//   - Daemon: API bind address, token, log and scratch directories
//   - Logging: log format and level
type Config struct {
	Storage  Storage  `toml:"storage" json:"storage"`
	Pipeline Pipeline `toml:"pipeline" json:"pipeline"`
	Daemon   Daemon   `toml:"daemon" json:"daemon"`
	Logging  Logging  `toml:"logging" json:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/meetingscribe/config.toml")
}

// Load reads configuration from path (or the default location when path is
// empty). A missing file yields defaults. An unreadable or malformed file
// also yields defaults and a non-nil warn describing the problem; the bad
// file is left in place so the user can recover it.
func Load(path string) (*Config, string, error) {
	cfg := Default()

	resolvedPath, err := resolveConfigPath(path)
	if err != nil {
		normErr := cfg.normalize()
		if normErr != nil {
			return &cfg, "", normErr
		}
		return &cfg, "", err
	}

	var warn error
	data, err := os.ReadFile(resolvedPath)
	switch {
	case err == nil:
		if decodeErr := toml.Unmarshal(data, &cfg); decodeErr != nil {
			cfg = Default()
			warn = fmt.Errorf("parse config %s: %w", resolvedPath, decodeErr)
		}
	case errors.Is(err, fs.ErrNotExist):
		// Defaults stand in until the first save.
	default:
		warn = fmt.Errorf("read config %s: %w", resolvedPath, err)
	}

	if err := cfg.normalize(); err != nil {
		return &cfg, resolvedPath, err
	}
	return &cfg, resolvedPath, warn
}

func resolveConfigPath(path string) (string, error) {
	if strings.TrimSpace(path) != "" {
		return expandPath(path)
	}
	return DefaultConfigPath()
}

// Validate rejects values that would break daemon startup. Blank binary and
// model paths are allowed here; jobs validate them at start time.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Daemon.APIBind) == "" {
		return errors.New("daemon.api_bind must not be empty")
	}
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}

// EnsureDirectories creates directories the daemon writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Daemon.LogDir, c.Daemon.ScratchDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if dir := strings.TrimSpace(c.Pipeline.OutputDir); dir != "" {
		// Best-effort: the output dir may live on storage that is offline.
		_ = os.MkdirAll(dir, 0o755)
	}
	return nil
}

// Write persists the configuration to path as TOML.
func Write(path string, cfg *Config) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	payload, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace config: %w", err)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}
