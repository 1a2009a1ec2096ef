package deps_test

import (
	"os"
	"path/filepath"
	"testing"

	"meetingscribe/internal/deps"
)

func TestCheckBinariesReportsAvailability(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "present")
	if err := os.WriteFile(present, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("write stub binary: %v", err)
	}
	t.Setenv("PATH", dir)

	results := deps.CheckBinaries([]deps.Requirement{
		{Name: "Present", Command: "present", Description: "stub"},
		{Name: "Missing", Command: "missing"},
		{Name: "Unconfigured", Command: "  ", Optional: true},
	})
	if len(results) != 3 {
		t.Fatalf("got %d results", len(results))
	}
	if !results[0].Available {
		t.Errorf("present binary reported unavailable: %+v", results[0])
	}
	if results[1].Available || results[1].Detail == "" {
		t.Errorf("missing binary: %+v", results[1])
	}
	if results[2].Available || results[2].Detail != "command not configured" {
		t.Errorf("unconfigured command: %+v", results[2])
	}
	if !results[2].Optional {
		t.Error("optional flag dropped")
	}
}
