package catalog

import (
	"context"
	"log/slog"
	"sort"

	"meetingscribe/internal/logging"
	"meetingscribe/internal/services"
)

// Store is the object-store surface the catalog needs.
type Store interface {
	ListCommonPrefixes(ctx context.Context, prefix string) ([]string, error)
	ListObjects(ctx context.Context, prefix string) ([]string, error)
}

// MeetingSummary describes one recorded meeting. Immutable after creation.
type MeetingSummary struct {
	ID           string `json:"id"`
	Date         string `json:"date"`
	RoomID       string `json:"roomId"`
	RoomLabel    string `json:"roomLabel"`
	MeetingTime  string `json:"meetingTime"`
	SpeakerCount int    `json:"speakerCount"`
	TrackCount   int    `json:"trackCount"`
}

// Track is one per-speaker audio object within a meeting.
type Track struct {
	Key       string
	Speaker   string
	TrackTime string
}

// Catalog lists recording dates, meetings, and tracks.
type Catalog struct {
	store  Store
	logger *slog.Logger
}

// New constructs a catalog over the given store.
func New(store Store, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Catalog{store: store, logger: logger.With(slog.String("component", "catalog"))}
}

// ListDates enumerates the top-level date partitions, most recent first.
// An empty bucket yields an empty slice.
func (c *Catalog) ListDates(ctx context.Context) ([]string, error) {
	prefixes, err := c.store.ListCommonPrefixes(ctx, "")
	if err != nil {
		return nil, services.Wrap(services.ErrCatalog, "catalog", "list dates", "", err)
	}

	seen := make(map[string]struct{}, len(prefixes))
	dates := make([]string, 0, len(prefixes))
	add := func(date string) {
		if date == "" {
			return
		}
		if _, ok := seen[date]; ok {
			return
		}
		seen[date] = struct{}{}
		dates = append(dates, date)
	}
	for _, prefix := range prefixes {
		add(prefix)
	}

	// Some stores answer delimiter listings with bare keys only; fall back
	// to a full scan and derive dates from the first key segment.
	if len(dates) == 0 {
		keys, err := c.store.ListObjects(ctx, "")
		if err != nil {
			return nil, services.Wrap(services.ErrCatalog, "catalog", "list dates", "", err)
		}
		for _, key := range keys {
			if parts, ok := ParseKey(key); ok {
				add(parts.Date)
			}
		}
	}

	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates, nil
}

// ListMeetings enumerates the meetings recorded on date. The result is
// ordered by meeting time descending, so repeated calls against unchanged
// backing data return summaries in identical order.
func (c *Catalog) ListMeetings(ctx context.Context, date string) ([]MeetingSummary, error) {
	keys, err := c.store.ListObjects(ctx, date+"/")
	if err != nil {
		return nil, services.Wrap(services.ErrCatalog, "catalog", "list meetings", date, err)
	}

	type aggregate struct {
		summary  MeetingSummary
		speakers map[string]struct{}
	}
	meetings := make(map[string]*aggregate)
	order := make([]string, 0)

	for _, key := range keys {
		parts, ok := ParseKey(key)
		if !ok {
			continue
		}
		id := MeetingID(parts.Date, parts.RoomID, parts.MeetingTime)
		agg := meetings[id]
		if agg == nil {
			agg = &aggregate{
				summary: MeetingSummary{
					ID:          id,
					Date:        parts.Date,
					RoomID:      parts.RoomID,
					RoomLabel:   RoomLabel(parts.RoomID),
					MeetingTime: parts.MeetingTime,
				},
				speakers: make(map[string]struct{}),
			}
			meetings[id] = agg
			order = append(order, id)
		}
		agg.speakers[parts.Speaker] = struct{}{}
		agg.summary.TrackCount++
	}

	list := make([]MeetingSummary, 0, len(order))
	for _, id := range order {
		agg := meetings[id]
		agg.summary.SpeakerCount = len(agg.speakers)
		list = append(list, agg.summary)
	}

	sort.SliceStable(list, func(i, j int) bool {
		if cmp := CompareClockLabels(list[j].MeetingTime, list[i].MeetingTime); cmp != 0 {
			return cmp < 0
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

// Tracks resolves the per-speaker audio objects of a meeting, ordered by
// track time. An unknown meeting id yields a not-found error.
func (c *Catalog) Tracks(ctx context.Context, meetingID string) ([]Track, error) {
	keys, err := c.store.ListObjects(ctx, meetingID+"/")
	if err != nil {
		return nil, services.Wrap(services.ErrCatalog, "catalog", "list tracks", meetingID, err)
	}

	tracks := make([]Track, 0, len(keys))
	for _, key := range keys {
		parts, ok := ParseKey(key)
		if !ok {
			continue
		}
		tracks = append(tracks, Track{Key: key, Speaker: parts.Speaker, TrackTime: parts.TrackTime})
	}
	if len(tracks) == 0 {
		return nil, services.Wrap(services.ErrNotFound, "catalog", "list tracks", "no tracks found for meeting "+meetingID, nil)
	}

	sort.SliceStable(tracks, func(i, j int) bool {
		if cmp := CompareClockLabels(tracks[i].TrackTime, tracks[j].TrackTime); cmp != 0 {
			return cmp < 0
		}
		return tracks[i].Key < tracks[j].Key
	})
	return tracks, nil
}
