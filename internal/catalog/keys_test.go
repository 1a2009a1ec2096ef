package catalog_test

import (
	"testing"

	"meetingscribe/internal/catalog"
)

func TestParseKey(t *testing.T) {
	parts, ok := catalog.ParseKey("2024-05-01/localWorld.w1-Sales/09-00-00/alice/09-00-05_take2.ogg")
	if !ok {
		t.Fatal("expected key to parse")
	}
	if parts.Date != "2024-05-01" || parts.RoomID != "localWorld.w1-Sales" || parts.MeetingTime != "09-00-00" {
		t.Fatalf("unexpected parts: %+v", parts)
	}
	if parts.Speaker != "alice" {
		t.Fatalf("unexpected speaker %q", parts.Speaker)
	}
	if parts.TrackTime != "09-00-05" {
		t.Fatalf("unexpected track time %q", parts.TrackTime)
	}
}

func TestParseKeyRejectsWrongDepth(t *testing.T) {
	for _, key := range []string{
		"2024-05-01/room/09-00-00/file.ogg",
		"2024-05-01/room/09-00-00/alice/extra/file.ogg",
		"2024-05-01//09-00-00/alice/file.ogg",
		"",
	} {
		if _, ok := catalog.ParseKey(key); ok {
			t.Errorf("expected %q to be rejected", key)
		}
	}
}

func TestParseKeyWithoutUnderscoreSuffix(t *testing.T) {
	parts, ok := catalog.ParseKey("d/r/t/s/09-00-05.ogg")
	if !ok {
		t.Fatal("expected key to parse")
	}
	if parts.TrackTime != "09-00-05" {
		t.Fatalf("unexpected track time %q", parts.TrackTime)
	}
}

func TestRoomLabel(t *testing.T) {
	cases := []struct{ in, want string }{
		{"localWorld.w1-Sales", "Sales"},
		{"localWorld.abc-Dev-Room", "Dev-Room"},
		{"localWorld.nolabel", "localWorld.nolabel"},
		{"plainRoom", "plainRoom"},
	}
	for _, tc := range cases {
		if got := catalog.RoomLabel(tc.in); got != tc.want {
			t.Errorf("RoomLabel(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
