package whisper

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ProgressLine is one recognized span reported on the engine's standard
// output while a transcription runs.
type ProgressLine struct {
	Start time.Duration
	End   time.Duration
	Text  string
}

// Matches "[HH:MM:SS.mmm --> HH:MM:SS.mmm]   text".
var progressPattern = regexp.MustCompile(`^\[(\d{2}):(\d{2}):(\d{2})\.(\d{3}) --> (\d{2}):(\d{2}):(\d{2})\.(\d{3})\]\s*(.*)$`)

// ParseProgressLine interprets a single engine output line as transcription
// progress. Lines that do not carry a timestamped span return false.
func ParseProgressLine(line string) (ProgressLine, bool) {
	match := progressPattern.FindStringSubmatch(strings.TrimSpace(line))
	if match == nil {
		return ProgressLine{}, false
	}
	return ProgressLine{
		Start: clockDuration(match[1], match[2], match[3], match[4]),
		End:   clockDuration(match[5], match[6], match[7], match[8]),
		Text:  strings.TrimSpace(match[9]),
	}, true
}

func clockDuration(h, m, s, ms string) time.Duration {
	hours, _ := strconv.Atoi(h)
	minutes, _ := strconv.Atoi(m)
	seconds, _ := strconv.Atoi(s)
	millis, _ := strconv.Atoi(ms)
	return time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(millis)*time.Millisecond
}
