package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"meetingscribe/internal/api"
	"meetingscribe/internal/config"
)

// client talks to the daemon's HTTP API.
type client struct {
	base  string
	token string
	http  *http.Client
}

func newClient(bind, token string) *client {
	base := strings.TrimSpace(bind)
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}
	return &client{
		base:  strings.TrimRight(base, "/"),
		token: token,
		http:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *client) Health(ctx context.Context) (api.HealthResponse, error) {
	var out api.HealthResponse
	err := c.get(ctx, "/api/health", &out)
	return out, err
}

func (c *client) Dates(ctx context.Context) ([]string, error) {
	var out api.DatesResponse
	if err := c.get(ctx, "/api/dates", &out); err != nil {
		return nil, err
	}
	return out.Dates, nil
}

func (c *client) Meetings(ctx context.Context, date string) (api.MeetingsResponse, error) {
	var out api.MeetingsResponse
	err := c.get(ctx, "/api/meetings?date="+date, &out)
	return out, err
}

func (c *client) StartTranscribe(ctx context.Context, meetingID string) (string, error) {
	var out api.StartTranscribeResponse
	err := c.do(ctx, http.MethodPost, "/api/transcribe",
		api.StartTranscribeRequest{MeetingID: meetingID}, &out)
	return out.JobID, err
}

func (c *client) JobStatus(ctx context.Context, jobID string) (api.JobResponse, error) {
	var out api.JobResponse
	err := c.get(ctx, "/api/transcribe/"+jobID, &out)
	return out, err
}

func (c *client) Config(ctx context.Context) (config.Config, error) {
	var out config.Config
	err := c.get(ctx, "/api/config", &out)
	return out, err
}

func (c *client) SetConfig(ctx context.Context, cfg config.Config) (config.Config, error) {
	var out config.Config
	err := c.do(ctx, http.MethodPut, "/api/config", &cfg, &out)
	return out, err
}

func (c *client) Defaults(ctx context.Context) (api.DefaultsResponse, error) {
	var out api.DefaultsResponse
	err := c.get(ctx, "/api/defaults", &out)
	return out, err
}

func (c *client) Transcripts(ctx context.Context) (api.TranscriptsResponse, error) {
	var out api.TranscriptsResponse
	err := c.get(ctx, "/api/transcripts", &out)
	return out, err
}

func (c *client) Status(ctx context.Context) (api.StatusResponse, error) {
	var out api.StatusResponse
	err := c.get(ctx, "/api/status", &out)
	return out, err
}

func (c *client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("is the daemon running? %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr api.ErrorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Error != "" {
			return fmt.Errorf("%s", apiErr.Error)
		}
		return fmt.Errorf("daemon returned %s", resp.Status)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
