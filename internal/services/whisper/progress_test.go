package whisper

import (
	"testing"
	"time"
)

func TestParseProgressLine(t *testing.T) {
	line := "[00:01:02.500 --> 00:01:05.000]   こんにちは"
	progress, ok := ParseProgressLine(line)
	if !ok {
		t.Fatal("expected progress line to parse")
	}
	if progress.Start != time.Minute+2*time.Second+500*time.Millisecond {
		t.Errorf("start = %v", progress.Start)
	}
	if progress.End != time.Minute+5*time.Second {
		t.Errorf("end = %v", progress.End)
	}
	if progress.Text != "こんにちは" {
		t.Errorf("text = %q", progress.Text)
	}
}

func TestParseProgressLineRejectsOtherOutput(t *testing.T) {
	for _, line := range []string{
		"",
		"whisper_init_from_file_with_params_no_state: loading model",
		"[bogus --> 00:00:01.000] text",
		"system_info: n_threads = 4",
	} {
		if _, ok := ParseProgressLine(line); ok {
			t.Errorf("unexpectedly parsed %q", line)
		}
	}
}
