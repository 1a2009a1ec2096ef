package config

import (
	"path/filepath"
	"strings"
)

// normalize fills blank defaulted fields, expands home-relative paths, and
// applies the one-time model filename migration.
func (c *Config) normalize() error {
	if strings.TrimSpace(c.Storage.Region) == "" {
		c.Storage.Region = defaultRegion
	}
	if strings.TrimSpace(c.Daemon.APIBind) == "" {
		c.Daemon.APIBind = defaultAPIBind
	}
	if strings.TrimSpace(c.Daemon.LogDir) == "" {
		c.Daemon.LogDir = defaultLogDir
	}
	if strings.TrimSpace(c.Daemon.ScratchDir) == "" {
		c.Daemon.ScratchDir = defaultScratchDir
	}
	if strings.TrimSpace(c.Pipeline.Language) == "" {
		c.Pipeline.Language = defaultLanguage
	}
	if strings.TrimSpace(c.Logging.Format) == "" {
		c.Logging.Format = defaultLogFormat
	}
	if strings.TrimSpace(c.Logging.Level) == "" {
		c.Logging.Level = defaultLogLevel
	}

	for _, field := range []*string{&c.Daemon.LogDir, &c.Daemon.ScratchDir} {
		expanded, err := expandPath(*field)
		if err != nil {
			return err
		}
		*field = expanded
	}
	for _, field := range []*string{&c.Pipeline.OutputDir, &c.Pipeline.BinaryPath, &c.Pipeline.FFmpegPath, &c.Pipeline.ModelPath} {
		trimmed := strings.TrimSpace(*field)
		if trimmed == "" {
			*field = ""
			continue
		}
		if strings.HasPrefix(trimmed, "~") {
			expanded, err := expandPath(trimmed)
			if err != nil {
				return err
			}
			*field = expanded
		} else {
			*field = trimmed
		}
	}

	c.Pipeline.ModelPath = NormalizeModelPath(c.Pipeline.ModelPath)
	return nil
}

// NormalizeModelPath rewrites English-only whisper.cpp model filenames
// (ggml-*.en.bin) to their multilingual equivalents. One-time migration for
// configurations written before the multilingual models became the default;
// applied on every load, never generalized beyond this exact suffix.
func NormalizeModelPath(path string) string {
	base := filepath.Base(path)
	if !strings.HasPrefix(base, "ggml-") || !strings.HasSuffix(base, ".en.bin") {
		return path
	}
	migrated := strings.TrimSuffix(base, ".en.bin") + ".bin"
	dir := filepath.Dir(path)
	if dir == "." && !strings.ContainsAny(path, `/\`) {
		return migrated
	}
	return filepath.Join(dir, migrated)
}
