package whisper

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Segment is a single recognized span of speech.
type Segment struct {
	Start float64
	Text  string
}

// rawSegment covers every field name the engine's JSON variants have used
// for per-segment data.
type rawSegment struct {
	Start      *float64 `json:"start"`
	Text       string   `json:"text"`
	Offsets    *offsets `json:"offsets"`
	Timestamps *stamps  `json:"timestamps"`
	T0         *float64 `json:"t0"`
}

type offsets struct {
	From float64 `json:"from"`
}

type stamps struct {
	From string `json:"from"`
}

type rawDocument struct {
	Segments      []rawSegment `json:"segments"`
	Transcription []rawSegment `json:"transcription"`
	Results       *struct {
		Segments []rawSegment `json:"segments"`
	} `json:"results"`
}

// parseSegments extracts segments from any of the engine's JSON output
// shapes: {"segments": [...]}, {"transcription": [...]},
// {"results": {"segments": [...]}}, or a bare top-level array.
func parseSegments(data []byte) ([]Segment, error) {
	data = normalizePayload(data)
	if len(data) == 0 {
		return nil, errors.New("empty payload")
	}

	var raw []rawSegment
	if data[0] == '[' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("decode segment array: %w", err)
		}
	} else {
		var doc rawDocument
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode segment document: %w", err)
		}
		switch {
		case len(doc.Segments) > 0:
			raw = doc.Segments
		case len(doc.Transcription) > 0:
			raw = doc.Transcription
		case doc.Results != nil && len(doc.Results.Segments) > 0:
			raw = doc.Results.Segments
		}
	}
	if len(raw) == 0 {
		return nil, errors.New("no segments in payload")
	}

	segments := make([]Segment, 0, len(raw))
	for _, r := range raw {
		text := strings.TrimSpace(r.Text)
		if text == "" {
			continue
		}
		segments = append(segments, Segment{Start: r.start(), Text: text})
	}
	if len(segments) == 0 {
		return nil, errors.New("no non-empty segments in payload")
	}
	return segments, nil
}

// start resolves the segment start time in seconds across the field-name
// variants: start (seconds), offsets.from (milliseconds), timestamps.from
// ("HH:MM:SS,mmm"), t0 (centiseconds).
func (r rawSegment) start() float64 {
	switch {
	case r.Start != nil:
		return *r.Start
	case r.Offsets != nil:
		return r.Offsets.From / 1000
	case r.Timestamps != nil:
		if seconds, ok := parseTimestamp(r.Timestamps.From); ok {
			return seconds
		}
	case r.T0 != nil:
		return *r.T0 / 100
	}
	return 0
}

// parseTimestamp converts "HH:MM:SS,mmm" to seconds.
func parseTimestamp(value string) (float64, bool) {
	value = strings.TrimSpace(value)
	var h, m, s, ms int
	if _, err := fmt.Sscanf(value, "%d:%d:%d,%d", &h, &m, &s, &ms); err != nil {
		return 0, false
	}
	if h < 0 || m < 0 || m > 59 || s < 0 || s > 59 || ms < 0 || ms > 999 {
		return 0, false
	}
	return float64(h*3600+m*60+s) + float64(ms)/1000, true
}

// normalizePayload trims a UTF-8 BOM and any leading junk before the first
// JSON token. Some engine builds prepend log noise to the JSON file.
func normalizePayload(data []byte) []byte {
	data = []byte(strings.TrimPrefix(string(data), "\uFEFF"))
	for i, b := range data {
		if b == '{' || b == '[' {
			return data[i:]
		}
	}
	return nil
}
