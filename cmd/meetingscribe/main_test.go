package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"meetingscribe/internal/api"
	"meetingscribe/internal/config"
)

func runCLI(t *testing.T, server *httptest.Server, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	full := append([]string{
		"--api", strings.TrimPrefix(server.URL, "http://"),
		"--config", filepath.Join(t.TempDir(), "missing.toml"),
	}, args...)
	cmd.SetArgs(full)
	err := cmd.Execute()
	return out.String(), err
}

func TestDatesCommandRendersList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/dates" {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(api.DatesResponse{Dates: []string{"2024-05-02", "2024-05-01"}})
	}))
	defer server.Close()

	out, err := runCLI(t, server, "dates")
	if err != nil {
		t.Fatalf("dates: %v", err)
	}
	if !strings.Contains(out, "2024-05-02\n2024-05-01\n") {
		t.Errorf("output = %q", out)
	}
}

func TestMeetingsCommandRendersTable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload := `{"date":"2024-05-01","meetings":[{"id":"2024-05-01/localWorld.eu01-Sales/09-00-00","date":"2024-05-01","roomId":"localWorld.eu01-Sales","roomLabel":"Sales","meetingTime":"09-00-00","speakerCount":2,"trackCount":3}]}`
		w.Write([]byte(payload))
	}))
	defer server.Close()

	out, err := runCLI(t, server, "meetings", "2024-05-01")
	if err != nil {
		t.Fatalf("meetings: %v", err)
	}
	for _, want := range []string{"Sales", "09-00-00", "2", "3"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTranscribeCommandSurfacesConflict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(api.ErrorResponse{Error: "a transcription job is already active"})
	}))
	defer server.Close()

	_, err := runCLI(t, server, "transcribe", "d/r/t")
	if err == nil || !strings.Contains(err.Error(), "already active") {
		t.Fatalf("err = %v", err)
	}
}

func TestClientSendsBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(api.DatesResponse{})
	}))
	defer server.Close()

	if _, err := runCLI(t, server, "--token", "secret", "dates"); err != nil {
		t.Fatalf("dates: %v", err)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("authorization header = %q", gotAuth)
	}
}

func TestApplyConfigValue(t *testing.T) {
	cfg := config.Default()

	if err := applyConfigValue(&cfg, "pipeline.language", "en"); err != nil {
		t.Fatalf("set string: %v", err)
	}
	if cfg.Pipeline.Language != "en" {
		t.Errorf("language = %q", cfg.Pipeline.Language)
	}

	if err := applyConfigValue(&cfg, "pipeline.include_timestamps", "true"); err != nil {
		t.Fatalf("set bool: %v", err)
	}
	if !cfg.Pipeline.IncludeTimestamps {
		t.Error("include_timestamps not applied")
	}

	if err := applyConfigValue(&cfg, "pipeline.include_timestamps", "banana"); err == nil {
		t.Error("expected error for non-boolean value")
	}
	if err := applyConfigValue(&cfg, "nosuch.key", "x"); err == nil {
		t.Error("expected error for unknown section")
	}
	if err := applyConfigValue(&cfg, "pipeline.nope", "x"); err == nil {
		t.Error("expected error for unknown key")
	}
	if err := applyConfigValue(&cfg, "plain", "x"); err == nil {
		t.Error("expected error for non-dotted key")
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable(
		[]string{"A", "B"},
		[][]string{{"only-a"}},
		[]columnAlignment{alignLeft, alignRight},
	)
	if !strings.Contains(out, "only-a") {
		t.Errorf("table output = %q", out)
	}
}
