// Package transcript merges recognized segments from multiple speaker tracks
// into a single chronological document and renders it as plain text.
package transcript

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"meetingscribe/internal/catalog"
)

// Segment is one recognized utterance attributed to a speaker, with its
// start offset in seconds from the beginning of the meeting.
type Segment struct {
	Start   float64
	Speaker string
	Text    string
}

// Merge combines per-track segment lists into one chronological sequence.
// Ordering is stable so same-timestamp utterances keep track order.
func Merge(tracks ...[]Segment) []Segment {
	var merged []Segment
	for _, track := range tracks {
		merged = append(merged, track...)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Start < merged[j].Start
	})
	return merged
}

// Format renders segments as transcript text, one utterance per line.
// Timestamps and speaker attribution are each optional.
func Format(segments []Segment, includeTimestamps, includeSpeaker bool) string {
	var b strings.Builder
	for _, seg := range segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		if includeTimestamps {
			b.WriteString(FormatSeconds(seg.Start))
			b.WriteByte(' ')
		}
		if includeSpeaker && seg.Speaker != "" {
			b.WriteString(seg.Speaker)
			b.WriteString("：")
		}
		b.WriteString(text)
		b.WriteByte('\n')
	}
	return b.String()
}

// FormatSeconds renders a second offset as HH:MM:SS, rounded to the nearest
// second.
func FormatSeconds(seconds float64) string {
	rounded := math.Round(seconds)
	if rounded < 0 {
		rounded = 0
	}
	total := int(rounded)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

// FileName derives the transcript file name for a meeting. The meeting time
// is rendered in its spoken form when it parses as a clock label, so the
// resulting name reads naturally: "2024-03-01 Sales 9時30分0秒.txt".
func FileName(meetingID string) string {
	parts := strings.Split(meetingID, "/")
	name := meetingID
	if len(parts) == 3 {
		timeLabel := parts[2]
		if spoken, ok := catalog.JapaneseClockLabel(timeLabel); ok {
			timeLabel = spoken
		}
		name = fmt.Sprintf("%s %s %s", parts[0], catalog.RoomLabel(parts[1]), timeLabel)
	}
	return sanitize(name) + ".txt"
}

// sanitize strips characters that are unsafe in file names on the target
// platforms.
func sanitize(name string) string {
	replacer := strings.NewReplacer(
		"/", "-",
		"\\", "-",
		":", "-",
		"*", "",
		"?", "",
		"\"", "",
		"<", "",
		">", "",
		"|", "",
	)
	return strings.TrimSpace(replacer.Replace(name))
}
