package domain

import (
	"time"
)

// Event is the normalized record shared by the seismic and volcanic sources.
// Seismic-only and volcanic-only fields are pointers or omitempty so each
// kind serializes without the other's noise.
type Event struct {
	// ID is the stable record identity. Seismic records leave it empty;
	// volcanic records carry the composite upstream-event-ID + observation
	// key synthesized during fan-out.
	ID        string    `json:"id,omitempty"`
	Timestamp time.Time `json:"datetime"`
	Lat       float64   `json:"lat"`
	Lon       float64   `json:"lon"`
	Label     string    `json:"location"`
	SourceRef string    `json:"source,omitempty"`

	// Seismic fields. Depth may be absent when the upstream omits it.
	Magnitude *float64 `json:"magnitude,omitempty"`
	DepthKm   *float64 `json:"depth,omitempty"`

	// Volcanic fields. Activity magnitudes are not standardized across
	// observation types, so the unit travels with the value.
	ClosedAt          *time.Time `json:"closed,omitempty"`
	Categories        []string   `json:"categories,omitempty"`
	Sources           []string   `json:"sources,omitempty"`
	ActivityMagnitude *float64   `json:"activityMagnitude,omitempty"`
	ActivityUnit      string     `json:"activityUnit,omitempty"`
}

// QuakeRecord is the wire shape of a single earthquake row in the regional
// catalog envelope: {"quakes": [...], "error": "..."}. The datetime stays a
// string here; parsing and validation happen in NormalizeQuake so a bad row
// rejects individually instead of failing the whole envelope decode.
type QuakeRecord struct {
	Datetime  string   `json:"datetime"`
	Lat       *float64 `json:"lat"`
	Lon       *float64 `json:"lon"`
	Location  string   `json:"location"`
	Magnitude *float64 `json:"magnitude"`
	Depth     *float64 `json:"depth"`
	Source    string   `json:"source"`
}

// BBox is a latitude/longitude bounding box, inclusive on all four edges.
type BBox struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

// PhilippineBBox approximates the Philippine archipelago.
var PhilippineBBox = BBox{MinLat: 4.5, MaxLat: 21.5, MinLon: 116, MaxLon: 127}

// Contains reports whether the point lies inside the box, edges included.
func (b BBox) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

// FilterWithin returns the events whose coordinates fall inside the box.
// Input order is preserved.
func FilterWithin(events []Event, box BBox) []Event {
	kept := make([]Event, 0, len(events))
	for _, ev := range events {
		if box.Contains(ev.Lat, ev.Lon) {
			kept = append(kept, ev)
		}
	}
	return kept
}
