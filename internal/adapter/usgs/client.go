// Package usgs fetches earthquake events from an FDSN event web service,
// one bounding-box query per calendar year. Querying per year bounds the
// response size; a failed year is logged and skipped so one upstream outage
// never blocks the remaining years.
package usgs

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

// Client queries the FDSN event service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	bbox       domain.BBox
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a catalog client scoped to the given bounding box.
func NewClient(baseURL string, timeout time.Duration, bbox domain.BBox, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		bbox:    bbox,
		logger:  logger,
		metrics: metrics,
	}
}

// FetchYears issues one query per calendar year and aggregates the mapped
// events, unsorted. Per-year failures are counted and skipped; the only
// hard error is context cancellation, since continuing the loop after
// cancellation would just fail every remaining year.
func (c *Client) FetchYears(ctx context.Context, years []int) ([]domain.Event, error) {
	var events []domain.Event
	for _, year := range years {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("catalog fetch aborted: %w", err)
		}

		yearEvents, err := c.fetchYear(ctx, year)
		if err != nil {
			c.logger.Warn("catalog year fetch failed, skipping",
				"year", year,
				"error", err,
			)
			c.metrics.YearsSkipped.Inc()
			c.metrics.SourceFetches.WithLabelValues("usgs", "error").Inc()
			continue
		}
		c.metrics.SourceFetches.WithLabelValues("usgs", "success").Inc()
		events = append(events, yearEvents...)
	}
	return events, nil
}

func (c *Client) fetchYear(ctx context.Context, year int) ([]domain.Event, error) {
	start := time.Now()
	defer func() {
		c.metrics.SourceFetchDuration.WithLabelValues("usgs").Observe(time.Since(start).Seconds())
	}()

	params := url.Values{
		"format":       {"geojson"},
		"starttime":    {fmt.Sprintf("%d-01-01", year)},
		"endtime":      {fmt.Sprintf("%d-01-01", year+1)},
		"minlatitude":  {fmt.Sprintf("%g", c.bbox.MinLat)},
		"maxlatitude":  {fmt.Sprintf("%g", c.bbox.MaxLat)},
		"minlongitude": {fmt.Sprintf("%g", c.bbox.MinLon)},
		"maxlongitude": {fmt.Sprintf("%g", c.bbox.MaxLon)},
		"orderby":      {"time"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/query?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query year %d: %w", year, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("catalog returned status %d for year %d: %s", resp.StatusCode, year, body)
	}

	var payload response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode year %d response: %w", year, err)
	}

	events := make([]domain.Event, 0, len(payload.Features))
	for _, f := range payload.Features {
		ev, ok := mapFeature(f)
		if !ok {
			c.metrics.RecordsRejected.WithLabelValues("usgs").Inc()
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

// mapFeature converts one GeoJSON feature into an Event. Features without
// a time or without both coordinates are rejected.
func mapFeature(f feature) (domain.Event, bool) {
	if f.Properties.Time == nil || len(f.Geometry.Coordinates) < 2 {
		return domain.Event{}, false
	}

	ev := domain.Event{
		Timestamp: time.UnixMilli(*f.Properties.Time).UTC(),
		Lon:       f.Geometry.Coordinates[0],
		Lat:       f.Geometry.Coordinates[1],
		Label:     f.Properties.Place,
		SourceRef: f.Properties.URL,
		Magnitude: f.Properties.Mag,
	}
	// The third coordinate is depth in km; older records omit it.
	if len(f.Geometry.Coordinates) >= 3 {
		depth := f.Geometry.Coordinates[2]
		ev.DepthKm = &depth
	}
	return ev, true
}

// FDSN event service response types.

type response struct {
	Features []feature `json:"features"`
}

type feature struct {
	Properties properties `json:"properties"`
	Geometry   geometry   `json:"geometry"`
}

type properties struct {
	Time  *int64   `json:"time"` // epoch milliseconds
	Place string   `json:"place"`
	Mag   *float64 `json:"mag"`
	URL   string   `json:"url"`
}

type geometry struct {
	Coordinates []float64 `json:"coordinates"` // [lon, lat, depth]
}
