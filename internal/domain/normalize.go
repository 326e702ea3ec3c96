package domain

import (
	"strings"
	"time"
)

// eventTimeLayouts are tried in order after RFC 3339. The regional catalog
// has emitted all of these at one point or another; day-first layouts come
// before month-first because that is the catalog's native convention.
var eventTimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/2006",
}

// ParseEventTime parses an upstream timestamp string. Values without an
// offset are taken as-is (the regional catalog reports local wall time).
// The boolean is false when no layout matches; callers drop such records
// rather than defaulting the time.
func ParseEventTime(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, true
	}
	for _, layout := range eventTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// NormalizeQuake converts a regional catalog row into an Event. The boolean
// is false when the row must be rejected: an unparseable timestamp or
// missing coordinates. Rejection is per-record; the caller keeps the rest
// of the batch.
func NormalizeQuake(rec QuakeRecord) (Event, bool) {
	ts, ok := ParseEventTime(rec.Datetime)
	if !ok {
		return Event{}, false
	}
	if rec.Lat == nil || rec.Lon == nil {
		return Event{}, false
	}

	label := strings.TrimSpace(rec.Location)
	if label == "" {
		label = "Unknown location"
	}

	return Event{
		Timestamp: ts,
		Lat:       *rec.Lat,
		Lon:       *rec.Lon,
		Label:     label,
		SourceRef: rec.Source,
		Magnitude: rec.Magnitude,
		DepthKm:   rec.Depth,
	}, true
}

// NormalizeQuakes maps a batch of rows, silently dropping rejects.
func NormalizeQuakes(recs []QuakeRecord) []Event {
	events := make([]Event, 0, len(recs))
	for _, rec := range recs {
		if ev, ok := NormalizeQuake(rec); ok {
			events = append(events, ev)
		}
	}
	return events
}
