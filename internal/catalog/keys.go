package catalog

import "strings"

// KeyParts is one audio object key decomposed per the naming convention.
type KeyParts struct {
	Date        string
	RoomID      string
	MeetingTime string
	Speaker     string
	TrackTime   string
}

// ParseKey decomposes an object key. Keys with more or fewer than five
// segments do not belong to a recording and are skipped by callers.
func ParseKey(key string) (KeyParts, bool) {
	segments := strings.Split(key, "/")
	if len(segments) != 5 {
		return KeyParts{}, false
	}
	for _, segment := range segments {
		if segment == "" {
			return KeyParts{}, false
		}
	}

	file := strings.TrimSuffix(segments[4], ".ogg")
	trackTime := file
	if idx := strings.Index(file, "_"); idx >= 0 {
		trackTime = file[:idx]
	}

	return KeyParts{
		Date:        segments[0],
		RoomID:      segments[1],
		MeetingTime: segments[2],
		Speaker:     segments[3],
		TrackTime:   trackTime,
	}, true
}

// MeetingID derives the stable meeting identifier.
func MeetingID(date, roomID, meetingTime string) string {
	return date + "/" + roomID + "/" + meetingTime
}

const roomIDPrefix = "localWorld."

// RoomLabel extracts the human-readable room name from a room id of the form
// localWorld.<instance>-<label>, falling back to the raw id.
func RoomLabel(roomID string) string {
	rest, ok := strings.CutPrefix(roomID, roomIDPrefix)
	if !ok {
		return roomID
	}
	if _, label, found := strings.Cut(rest, "-"); found && label != "" {
		return label
	}
	return roomID
}
