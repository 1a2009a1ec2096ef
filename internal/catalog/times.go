package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/width"
)

// ParseClock parses a time-of-day label into seconds since midnight. It
// accepts hyphenated labels ("09-30-00") and Japanese labels ("9時30分0秒"),
// folding full-width digits before parsing.
func ParseClock(label string) (int, bool) {
	folded := width.Fold.String(strings.TrimSpace(label))
	if strings.ContainsAny(folded, "時分秒") {
		if secs, ok := parseJapaneseClock(folded); ok {
			return secs, true
		}
	}
	return parseHyphenClock(folded)
}

func parseJapaneseClock(value string) (int, bool) {
	hourPart, rest, ok := strings.Cut(value, "時")
	if !ok {
		return 0, false
	}
	minutePart, rest, ok := strings.Cut(rest, "分")
	if !ok {
		return 0, false
	}
	secondPart, ok := strings.CutSuffix(rest, "秒")
	if !ok {
		return 0, false
	}
	return clockSeconds(hourPart, minutePart, secondPart)
}

func parseHyphenClock(value string) (int, bool) {
	parts := strings.Split(value, "-")
	if len(parts) != 3 {
		return 0, false
	}
	return clockSeconds(parts[0], parts[1], parts[2])
}

func clockSeconds(hourPart, minutePart, secondPart string) (int, bool) {
	hour, err := strconv.Atoi(hourPart)
	if err != nil {
		return 0, false
	}
	minute, err := strconv.Atoi(minutePart)
	if err != nil {
		return 0, false
	}
	second, err := strconv.Atoi(secondPart)
	if err != nil {
		return 0, false
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || second < 0 || second > 59 {
		return 0, false
	}
	return hour*3600 + minute*60 + second, true
}

// CompareClockLabels orders time labels: parseable labels sort by time of
// day, before unparseable ones; unparseable labels sort lexicographically.
func CompareClockLabels(a, b string) int {
	aSecs, aOK := ParseClock(a)
	bSecs, bOK := ParseClock(b)
	switch {
	case aOK && bOK:
		switch {
		case aSecs < bSecs:
			return -1
		case aSecs > bSecs:
			return 1
		default:
			return 0
		}
	case aOK:
		return -1
	case bOK:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

// JapaneseClockLabel renders a parseable time label as H時M分S秒. The second
// return is false when the label cannot be parsed.
func JapaneseClockLabel(label string) (string, bool) {
	secs, ok := ParseClock(label)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%d時%d分%d秒", secs/3600, secs%3600/60, secs%60), true
}
