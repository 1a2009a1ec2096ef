package whisper

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestParseSegmentsTopLevelSegments(t *testing.T) {
	payload := []byte(`{"segments":[{"start":0.5,"text":" hello "},{"start":2,"text":"world"}]}`)
	segments, err := parseSegments(payload)
	if err != nil {
		t.Fatalf("parseSegments: %v", err)
	}
	if len(segments) != 2 {
		t.Fatalf("got %d segments", len(segments))
	}
	if !almostEqual(segments[0].Start, 0.5) || segments[0].Text != "hello" {
		t.Errorf("first segment = %+v", segments[0])
	}
}

func TestParseSegmentsTranscriptionVariant(t *testing.T) {
	payload := []byte(`{"transcription":[{"offsets":{"from":1500},"text":"konnichiwa"}]}`)
	segments, err := parseSegments(payload)
	if err != nil {
		t.Fatalf("parseSegments: %v", err)
	}
	if !almostEqual(segments[0].Start, 1.5) {
		t.Errorf("start = %v, want 1.5", segments[0].Start)
	}
}

func TestParseSegmentsNestedResults(t *testing.T) {
	payload := []byte(`{"results":{"segments":[{"t0":250,"text":"yo"}]}}`)
	segments, err := parseSegments(payload)
	if err != nil {
		t.Fatalf("parseSegments: %v", err)
	}
	if !almostEqual(segments[0].Start, 2.5) {
		t.Errorf("start = %v, want 2.5 (t0 is in centiseconds)", segments[0].Start)
	}
}

func TestParseSegmentsBareArray(t *testing.T) {
	payload := []byte(`[{"timestamps":{"from":"00:01:02,500"},"text":"hi"}]`)
	segments, err := parseSegments(payload)
	if err != nil {
		t.Fatalf("parseSegments: %v", err)
	}
	if !almostEqual(segments[0].Start, 62.5) {
		t.Errorf("start = %v, want 62.5", segments[0].Start)
	}
}

func TestParseSegmentsTrimsLeadingJunk(t *testing.T) {
	payload := []byte("\uFEFFlog noise\n{\"segments\":[{\"start\":0,\"text\":\"ok\"}]}")
	segments, err := parseSegments(payload)
	if err != nil {
		t.Fatalf("parseSegments: %v", err)
	}
	if segments[0].Text != "ok" {
		t.Errorf("text = %q", segments[0].Text)
	}
}

func TestParseSegmentsRejectsEmpty(t *testing.T) {
	for _, payload := range []string{``, `{}`, `{"segments":[]}`, `{"segments":[{"start":0,"text":"   "}]}`} {
		if _, err := parseSegments([]byte(payload)); err == nil {
			t.Errorf("expected error for %q", payload)
		}
	}
}
