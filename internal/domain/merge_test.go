package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eventAt(label string, ts time.Time) Event {
	return Event{Timestamp: ts, Lat: 14.6, Lon: 121.0, Label: label}
}

func TestMerge(t *testing.T) {
	base := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

	t.Run("sorts most recent first across batches", func(t *testing.T) {
		a := []Event{
			eventAt("a1", base.Add(1*time.Hour)),
			eventAt("a2", base.Add(5*time.Hour)),
		}
		b := []Event{
			eventAt("b1", base.Add(3*time.Hour)),
		}

		merged := Merge(a, b)
		require.Len(t, merged, 3)
		for i := 1; i < len(merged); i++ {
			assert.False(t, merged[i].Timestamp.After(merged[i-1].Timestamp),
				"merged[%d] is newer than merged[%d]", i, i-1)
		}
		assert.Equal(t, "a2", merged[0].Label)
		assert.Equal(t, "b1", merged[1].Label)
		assert.Equal(t, "a1", merged[2].Label)
	})

	t.Run("equal timestamps keep input order", func(t *testing.T) {
		a := []Event{eventAt("first", base), eventAt("second", base)}
		b := []Event{eventAt("third", base)}

		merged := Merge(a, b)
		require.Len(t, merged, 3)
		assert.Equal(t, "first", merged[0].Label)
		assert.Equal(t, "second", merged[1].Label)
		assert.Equal(t, "third", merged[2].Label)
	})

	t.Run("idempotent on a sorted batch", func(t *testing.T) {
		sorted := Merge([]Event{
			eventAt("x", base.Add(2*time.Hour)),
			eventAt("y", base.Add(1*time.Hour)),
			eventAt("z", base),
		})
		assert.Equal(t, sorted, Merge(sorted))
	})

	t.Run("empty input yields empty output", func(t *testing.T) {
		assert.Empty(t, Merge())
		assert.Empty(t, Merge(nil, []Event{}))
	})
}

func TestDedupeByID(t *testing.T) {
	base := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

	t.Run("drops repeated IDs, keeping the first occurrence", func(t *testing.T) {
		events := []Event{
			{ID: "EONET_100|2024-03-01T00:00:00Z", Timestamp: base, Label: "Taal"},
			{ID: "EONET_100|2024-03-01T00:00:00Z", Timestamp: base, Label: "Taal duplicate"},
			{ID: "EONET_100|2024-03-02T00:00:00Z", Timestamp: base.AddDate(0, 0, 1), Label: "Taal"},
		}
		deduped := DedupeByID(events)
		require.Len(t, deduped, 2)
		assert.Equal(t, "Taal", deduped[0].Label)
	})

	t.Run("events without an ID are never deduplicated", func(t *testing.T) {
		events := []Event{
			eventAt("quake", base),
			eventAt("quake", base),
		}
		assert.Len(t, DedupeByID(events), 2)
	})
}
