package transcript_test

import (
	"strings"
	"testing"

	"meetingscribe/internal/transcript"
)

func TestMergeOrdersChronologically(t *testing.T) {
	alice := []transcript.Segment{
		{Start: 0, Speaker: "alice", Text: "hello"},
		{Start: 10, Speaker: "alice", Text: "bye"},
	}
	bob := []transcript.Segment{
		{Start: 5, Speaker: "bob", Text: "hi"},
		{Start: 10, Speaker: "bob", Text: "later"},
	}

	merged := transcript.Merge(alice, bob)
	var order []string
	for _, seg := range merged {
		order = append(order, seg.Speaker+":"+seg.Text)
	}
	want := "alice:hello bob:hi alice:bye bob:later"
	if strings.Join(order, " ") != want {
		t.Errorf("merge order = %v", order)
	}
}

func TestFormatVariants(t *testing.T) {
	segments := []transcript.Segment{
		{Start: 3661.2, Speaker: "alice", Text: "おはよう"},
		{Start: 3700, Speaker: "", Text: "morning"},
		{Start: 3710, Speaker: "bob", Text: "   "},
	}

	full := transcript.Format(segments, true, true)
	if !strings.Contains(full, "01:01:01 alice：おはよう\n") {
		t.Errorf("full format missing timestamped speaker line:\n%s", full)
	}
	if !strings.Contains(full, "01:01:40 morning\n") {
		t.Errorf("segments without a speaker should omit the attribution:\n%s", full)
	}
	if strings.Count(full, "\n") != 2 {
		t.Errorf("blank segments must be skipped:\n%s", full)
	}

	bare := transcript.Format(segments, false, false)
	if bare != "おはよう\nmorning\n" {
		t.Errorf("bare format = %q", bare)
	}

	speakerOnly := transcript.Format(segments, false, true)
	if !strings.HasPrefix(speakerOnly, "alice：おはよう\n") {
		t.Errorf("speaker-only format = %q", speakerOnly)
	}
}

func TestFormatSeconds(t *testing.T) {
	cases := map[float64]string{
		0:      "00:00:00",
		59.9:   "00:01:00",
		3601:   "01:00:01",
		-5:     "00:00:00",
		7322.4: "02:02:02",
	}
	for in, want := range cases {
		if got := transcript.FormatSeconds(in); got != want {
			t.Errorf("FormatSeconds(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestFileName(t *testing.T) {
	name := transcript.FileName("2024-03-01/localWorld.eu01-Sales/09-30-00")
	if name != "2024-03-01 Sales 9時30分0秒.txt" {
		t.Errorf("FileName = %q", name)
	}
}

func TestFileNameFallsBackForOddIdentifiers(t *testing.T) {
	name := transcript.FileName("not-a-meeting-id")
	if name != "not-a-meeting-id.txt" {
		t.Errorf("FileName = %q", name)
	}
	if strings.ContainsAny(transcript.FileName("a/b:c*d"), "/:*") {
		t.Error("unsafe characters must be stripped")
	}
}
