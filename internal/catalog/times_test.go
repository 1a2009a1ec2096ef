package catalog_test

import (
	"testing"

	"meetingscribe/internal/catalog"
)

func TestParseClock(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"09-30-00", 9*3600 + 30*60, true},
		{"0-0-0", 0, true},
		{"23-59-59", 23*3600 + 59*60 + 59, true},
		{"9時30分5秒", 9*3600 + 30*60 + 5, true},
		{"９時３０分５秒", 9*3600 + 30*60 + 5, true}, // full-width digits
		{"24-00-00", 0, false},
		{"09-30", 0, false},
		{"morning", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, ok := catalog.ParseClock(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ParseClock(%q) = (%d, %v), want (%d, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestCompareClockLabels(t *testing.T) {
	if catalog.CompareClockLabels("09-00-00", "10-00-00") >= 0 {
		t.Error("expected 09:00 before 10:00")
	}
	if catalog.CompareClockLabels("9時0分0秒", "09-00-00") != 0 {
		t.Error("expected equal times across formats")
	}
	if catalog.CompareClockLabels("09-00-00", "bogus") >= 0 {
		t.Error("expected parseable before unparseable")
	}
	if catalog.CompareClockLabels("alpha", "beta") >= 0 {
		t.Error("expected lexicographic fallback")
	}
}

func TestJapaneseClockLabel(t *testing.T) {
	label, ok := catalog.JapaneseClockLabel("09-05-30")
	if !ok || label != "9時5分30秒" {
		t.Fatalf("got (%q, %v)", label, ok)
	}
	if _, ok := catalog.JapaneseClockLabel("bogus"); ok {
		t.Fatal("expected failure for unparseable label")
	}
}
