package whisper

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"meetingscribe/internal/services"
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

// WithLanguage overrides the recognition language.
func WithLanguage(language string) Option {
	return func(c *Client) {
		if strings.TrimSpace(language) != "" {
			c.language = strings.TrimSpace(language)
		}
	}
}

// Client wraps whisper.cpp CLI interactions.
type Client struct {
	binary   string
	model    string
	language string
	exec     services.Executor
}

const defaultLanguage = "ja"

// New constructs a whisper client for the given binary and model file.
func New(binary, model string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	model = strings.TrimSpace(model)
	if binary == "" {
		return nil, errors.New("whisper binary required")
	}
	if model == "" {
		return nil, errors.New("whisper model required")
	}
	client := &Client{
		binary:   binary,
		model:    model,
		language: defaultLanguage,
		exec:     services.CommandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Transcribe runs the engine against input, writing JSON and text outputs
// next to outputBase, and returns the parsed segments. Every process output
// line is forwarded to onLine as it is produced.
func (c *Client) Transcribe(ctx context.Context, input, outputBase string, onLine func(string)) ([]Segment, error) {
	if input == "" || outputBase == "" {
		return nil, errors.New("input and output base paths required")
	}

	args := []string{
		"-m", c.model,
		"-f", input,
		"-l", c.language,
		"-oj",
		"-otxt",
		"-of", outputBase,
	}
	if err := c.exec.Run(ctx, c.binary, args, func(line string) {
		if onLine != nil && strings.TrimSpace(line) != "" {
			onLine(line)
		}
	}); err != nil {
		return nil, fmt.Errorf("whisper: %w", err)
	}

	segments, err := loadSegments(outputBase)
	if err != nil {
		return nil, err
	}
	return segments, nil
}

// loadSegments reads the engine's JSON output, falling back to the plain
// text sibling when the JSON cannot be interpreted. whisper.cpp has shipped
// several incompatible JSON shapes; parseSegments handles the known ones.
func loadSegments(outputBase string) ([]Segment, error) {
	jsonPath := outputBase + ".json"
	data, err := os.ReadFile(jsonPath)
	if err == nil {
		if segments, parseErr := parseSegments(data); parseErr == nil {
			return segments, nil
		}
	}

	txtPath := outputBase + ".txt"
	text, txtErr := os.ReadFile(txtPath)
	if txtErr == nil {
		var parts []string
		for _, line := range strings.Split(string(text), "\n") {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				parts = append(parts, trimmed)
			}
		}
		if len(parts) > 0 {
			return []Segment{{Start: 0, Text: strings.Join(parts, " ")}}, nil
		}
	}

	if err != nil {
		return nil, fmt.Errorf("read whisper output %s: %w", jsonPath, err)
	}
	return nil, fmt.Errorf("parse whisper output %s: unrecognized payload", jsonPath)
}
