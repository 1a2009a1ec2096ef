package storage

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"meetingscribe/internal/config"
	"meetingscribe/internal/services"
)

// newDeniedEndpoint stands in for a store that rejects every request.
func newDeniedEndpoint(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>` +
			`<Error><Code>AccessDenied</Code><Message>Access Denied.</Message></Error>`))
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	client, err := New(config.Storage{
		URL:       url,
		AccessKey: "key",
		SecretKey: "secret",
		Bucket:    "meetings",
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client
}

func TestNewRejectsIncompleteConfig(t *testing.T) {
	for name, cfg := range map[string]config.Storage{
		"empty":      {},
		"no url":     {AccessKey: "k", SecretKey: "s", Bucket: "b"},
		"no bucket":  {URL: "http://localhost:9000", AccessKey: "k", SecretKey: "s"},
		"no secrets": {URL: "http://localhost:9000", Bucket: "b"},
	} {
		if _, err := New(cfg); !errors.Is(err, services.ErrConfiguration) {
			t.Errorf("%s: err = %v, want configuration error", name, err)
		}
	}
}

func TestParseEndpoint(t *testing.T) {
	cases := []struct {
		raw      string
		endpoint string
		secure   bool
	}{
		{"http://localhost:9000", "localhost:9000", false},
		{"https://minio.example.com", "minio.example.com", true},
		{"localhost:9000", "localhost:9000", false},
	}
	for _, tc := range cases {
		endpoint, secure, err := parseEndpoint(tc.raw)
		if err != nil {
			t.Errorf("parseEndpoint(%q): %v", tc.raw, err)
			continue
		}
		if endpoint != tc.endpoint || secure != tc.secure {
			t.Errorf("parseEndpoint(%q) = %q, %v", tc.raw, endpoint, secure)
		}
	}
	if _, _, err := parseEndpoint("http://"); err == nil {
		t.Error("expected error for endpoint without a host")
	}
}

func TestListFailuresAreConnectivityErrors(t *testing.T) {
	server := newDeniedEndpoint(t)
	client := newTestClient(t, server.URL)

	if _, err := client.ListObjects(context.Background(), ""); !errors.Is(err, services.ErrConnectivity) {
		t.Errorf("ListObjects err = %v, want connectivity error", err)
	}
	if _, err := client.ListCommonPrefixes(context.Background(), ""); !errors.Is(err, services.ErrConnectivity) {
		t.Errorf("ListCommonPrefixes err = %v, want connectivity error", err)
	}
}

func TestCheckReportsDeniedAccess(t *testing.T) {
	server := newDeniedEndpoint(t)
	client := newTestClient(t, server.URL)

	health := client.Check(context.Background())
	if health.Reachable {
		t.Fatal("denied store must report unreachable")
	}
	if !strings.Contains(health.Reason, "AccessDenied") {
		t.Errorf("reason = %q", health.Reason)
	}
}
