// Package aggregate orchestrates one request cycle: resolve the window,
// fetch from the relevant sources, normalize, filter, and merge. All state
// is built fresh per call; nothing is cached or shared between requests.
package aggregate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lindolmap/geoevents/internal/domain"
	"github.com/lindolmap/geoevents/internal/observability"
)

// RegionalSource is the regional catalog behind either execution strategy.
type RegionalSource interface {
	FetchWindow(ctx context.Context, w domain.Window) ([]domain.QuakeRecord, error)
}

// SeismicCatalog is the remote per-year seismic catalog.
type SeismicCatalog interface {
	FetchYears(ctx context.Context, years []int) ([]domain.Event, error)
}

// VolcanoSource is the global volcanic feed, already fanned out.
type VolcanoSource interface {
	FetchEvents(ctx context.Context) ([]domain.Event, error)
}

// Aggregator owns the source adapters and the merge policy.
type Aggregator struct {
	regional  RegionalSource
	catalog   SeismicCatalog
	volcanoes VolcanoSource
	bbox      domain.BBox
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates an Aggregator over the given sources.
func New(regional RegionalSource, catalog SeismicCatalog, volcanoes VolcanoSource, logger *slog.Logger, metrics *observability.Metrics) *Aggregator {
	return &Aggregator{
		regional:  regional,
		catalog:   catalog,
		volcanoes: volcanoes,
		bbox:      domain.PhilippineBBox,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness reports whether every source adapter was wired.
func (a *Aggregator) CheckReadiness(_ context.Context) error {
	if a.regional == nil || a.catalog == nil || a.volcanoes == nil {
		return errors.New("source adapters not fully configured")
	}
	return nil
}

// Earthquakes fetches, normalizes, and merges seismic events for the
// window, most recent first.
//
// A single-month window consults only the regional catalog: that source is
// authoritative for the region and its single-month query is the low-latency
// path. The remote catalog supplements the trailing-range view only, where
// its per-year failures are tolerated inside the adapter. A regional
// failure, by contrast, fails the whole request; it is the primary source.
func (a *Aggregator) Earthquakes(ctx context.Context, w domain.Window) ([]domain.Event, error) {
	records, err := a.regional.FetchWindow(ctx, w)
	if err != nil {
		return nil, err
	}

	regional := domain.NormalizeQuakes(records)
	if dropped := len(records) - len(regional); dropped > 0 {
		a.logger.Warn("dropped regional records during normalization", "count", dropped)
		a.metrics.RecordsRejected.WithLabelValues("phivolcs").Add(float64(dropped))
	}
	// The scraper occasionally returns rows from adjacent months; keep only
	// what the window asked for.
	regional = filterWindow(regional, w)

	if w.SingleMonth() {
		return domain.Merge(regional), nil
	}

	supplemental, err := a.catalog.FetchYears(ctx, w.Years())
	if err != nil {
		return nil, fmt.Errorf("remote seismic catalog: %w", err)
	}
	return domain.Merge(regional, supplemental), nil
}

// Volcanoes fetches the volcanic feed, restricts it to the region,
// deduplicates the fan-out, and returns the sorted events along with
// per-year counts of the surviving records.
func (a *Aggregator) Volcanoes(ctx context.Context) ([]domain.Event, map[int]int, error) {
	fetched, err := a.volcanoes.FetchEvents(ctx)
	if err != nil {
		return nil, nil, err
	}

	events := domain.DedupeByID(domain.FilterWithin(fetched, a.bbox))
	events = domain.Merge(events)

	yearCounts := make(map[int]int, len(events))
	for _, ev := range events {
		yearCounts[ev.Timestamp.UTC().Year()]++
	}
	return events, yearCounts, nil
}

func filterWindow(events []domain.Event, w domain.Window) []domain.Event {
	kept := make([]domain.Event, 0, len(events))
	for _, ev := range events {
		if w.Contains(ev.Timestamp) {
			kept = append(kept, ev)
		}
	}
	return kept
}
