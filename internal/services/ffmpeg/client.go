package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"meetingscribe/internal/services"
)

// The recognition engine expects this input format.
const (
	sampleRate = "16000"
	channels   = "1"
)

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec services.Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client wraps ffmpeg CLI interactions.
type Client struct {
	binary string
	exec   services.Executor
}

// New constructs an ffmpeg client.
func New(binary string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("ffmpeg binary required")
	}
	client := &Client{binary: binary, exec: services.CommandExecutor{}}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// ExtractWAV converts input into a 16 kHz mono WAV at output. Every process
// output line is forwarded to onLine. A non-zero exit or a missing output
// file is an error.
func (c *Client) ExtractWAV(ctx context.Context, input, output string, onLine func(string)) error {
	if input == "" || output == "" {
		return errors.New("input and output paths required")
	}
	if dir := filepath.Dir(output); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create extraction directory: %w", err)
		}
	}

	args := []string{
		"-y", "-nostdin",
		"-i", input,
		"-ar", sampleRate,
		"-ac", channels,
		output,
	}
	if err := c.exec.Run(ctx, c.binary, args, func(line string) {
		if onLine != nil && strings.TrimSpace(line) != "" {
			onLine(line)
		}
	}); err != nil {
		return fmt.Errorf("ffmpeg: %w", err)
	}

	info, err := os.Stat(output)
	if err != nil {
		return fmt.Errorf("ffmpeg produced no output file: %w", err)
	}
	if info.Size() == 0 {
		return errors.New("ffmpeg produced an empty output file")
	}
	return nil
}

// IsWAV reports whether a file already carries the target container by
// extension, in which case extraction is skipped.
func IsWAV(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".wav")
}
