package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBBoxContains(t *testing.T) {
	box := PhilippineBBox

	t.Run("interior point is inside", func(t *testing.T) {
		assert.True(t, box.Contains(12.88, 121.77))
	})

	t.Run("points beyond the edges are outside", func(t *testing.T) {
		assert.False(t, box.Contains(22.0, 120.0), "north of the box")
		assert.False(t, box.Contains(3.0, 121.0), "south of the box")
		assert.False(t, box.Contains(12.0, 115.0), "west of the box")
		assert.False(t, box.Contains(12.0, 128.0), "east of the box")
	})

	t.Run("edges are inclusive", func(t *testing.T) {
		assert.True(t, box.Contains(4.5, 120.0))
		assert.True(t, box.Contains(21.5, 120.0))
		assert.True(t, box.Contains(12.0, 116.0))
		assert.True(t, box.Contains(12.0, 127.0))
	})
}

func TestFilterWithin(t *testing.T) {
	ts := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	events := []Event{
		{Timestamp: ts, Lat: 12.88, Lon: 121.77, Label: "inside"},
		{Timestamp: ts, Lat: 22.0, Lon: 120.0, Label: "outside"},
		{Timestamp: ts, Lat: 4.5, Lon: 116.0, Label: "corner"},
	}

	kept := FilterWithin(events, PhilippineBBox)
	require.Len(t, kept, 2)
	assert.Equal(t, "inside", kept[0].Label)
	assert.Equal(t, "corner", kept[1].Label)
}
