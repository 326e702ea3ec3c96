// Package eonet fetches volcanic activity from a global natural-event feed
// (NASA EONET shape). The feed has no regional or temporal query surface
// worth using: one bulk call returns open and closed events, and each event
// carries every geometry observation it has accumulated.
//
// One upstream event with N geometry observations fans out into N Event
// records. The synthesized ID, upstream event ID + "|" + observation date,
// is stable across fetches and is the key the aggregator dedupes on.
// Geographic narrowing happens downstream; this package only maps.
package eonet

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/lindolmap/geoevents/internal/domain"
	"github.com/lindolmap/geoevents/internal/observability"
)

// Client queries the volcanic event feed.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a feed client.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:  logger,
		metrics: metrics,
	}
}

// FetchEvents performs the bulk query and fans each upstream event out into
// one Event per geometry observation. Observations with unparseable dates
// or missing coordinates are rejected individually.
func (c *Client) FetchEvents(ctx context.Context) ([]domain.Event, error) {
	start := time.Now()
	defer func() {
		c.metrics.SourceFetchDuration.WithLabelValues("eonet").Observe(time.Since(start).Seconds())
	}()

	params := url.Values{
		"category": {"volcanoes"},
		"status":   {"all"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/events?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.SourceFetches.WithLabelValues("eonet", "error").Inc()
		return nil, fmt.Errorf("query volcanic events: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.SourceFetches.WithLabelValues("eonet", "error").Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("volcanic feed returned status %d: %s", resp.StatusCode, body)
	}

	var payload response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.metrics.SourceFetches.WithLabelValues("eonet", "error").Inc()
		return nil, fmt.Errorf("decode volcanic events: %w", err)
	}
	c.metrics.SourceFetches.WithLabelValues("eonet", "success").Inc()

	var events []domain.Event
	for _, upstream := range payload.Events {
		expanded, rejected := fanOut(upstream)
		events = append(events, expanded...)
		if rejected > 0 {
			c.metrics.RecordsRejected.WithLabelValues("eonet").Add(float64(rejected))
		}
	}
	return events, nil
}

// fanOut expands one upstream event into per-observation records. Every
// record shares the upstream title, categories, and source links; only the
// observation timestamp, coordinates, and activity measurement differ.
func fanOut(upstream event) ([]domain.Event, int) {
	categories := make([]string, 0, len(upstream.Categories))
	for _, cat := range upstream.Categories {
		categories = append(categories, cat.Title)
	}
	sources := make([]string, 0, len(upstream.Sources))
	for _, src := range upstream.Sources {
		sources = append(sources, src.URL)
	}

	var closedAt *time.Time
	if upstream.Closed != "" {
		if t, ok := domain.ParseEventTime(upstream.Closed); ok {
			closedAt = &t
		}
	}

	var events []domain.Event
	rejected := 0
	for _, obs := range upstream.Geometry {
		ts, ok := domain.ParseEventTime(obs.Date)
		if !ok || len(obs.Coordinates) < 2 {
			rejected++
			continue
		}
		events = append(events, domain.Event{
			ID:                upstream.ID + "|" + obs.Date,
			Timestamp:         ts,
			Lon:               obs.Coordinates[0],
			Lat:               obs.Coordinates[1],
			Label:             upstream.Title,
			SourceRef:         upstream.Link,
			ClosedAt:          closedAt,
			Categories:        categories,
			Sources:           sources,
			ActivityMagnitude: obs.MagnitudeValue,
			ActivityUnit:      obs.MagnitudeUnit,
		})
	}
	return events, rejected
}

// Feed response types.

type response struct {
	Events []event `json:"events"`
}

type event struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Link       string     `json:"link"`
	Closed     string     `json:"closed"`
	Categories []category `json:"categories"`
	Sources    []source   `json:"sources"`
	Geometry   []geometry `json:"geometry"`
}

type category struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type source struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type geometry struct {
	Date           string    `json:"date"`
	Coordinates    []float64 `json:"coordinates"` // [lon, lat]
	MagnitudeValue *float64  `json:"magnitudeValue"`
	MagnitudeUnit  string    `json:"magnitudeUnit"`
}
