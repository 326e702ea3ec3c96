// Command fetch runs one aggregation cycle from the command line and
// prints the earthquake envelope to stdout, mirroring what the API serves.
// Useful for checking catalog connectivity and the script contract without
// standing up the server.
//
// Usage:
//
//	go run ./cmd/fetch -years 2
//	go run ./cmd/fetch -month 3 -year 2024
//	go run ./cmd/fetch -volcanoes
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/lindolmap/geoevents/internal/adapter/eonet"
	"github.com/lindolmap/geoevents/internal/adapter/phivolcs"
	"github.com/lindolmap/geoevents/internal/adapter/usgs"
	"github.com/lindolmap/geoevents/internal/aggregate"
	"github.com/lindolmap/geoevents/internal/config"
	"github.com/lindolmap/geoevents/internal/domain"
	"github.com/lindolmap/geoevents/internal/observability"
)

func main() {
	years := flag.Int("years", 1, "trailing years to fetch (1-10)")
	month := flag.Int("month", 0, "single month to fetch (1-12, requires -year)")
	year := flag.Int("year", 0, "year for -month")
	volcanoes := flag.Bool("volcanoes", false, "fetch volcanic events instead of earthquakes")
	verbose := flag.Bool("v", false, "log at debug level to stderr")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if *verbose {
		cfg.LogLevel = "debug"
		cfg.LogFormat = "text"
	}

	logger := observability.NewLogger(cfg)
	if !*verbose {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	metrics := observability.NewMetricsForTesting()

	regional, err := phivolcs.New(cfg, logger, metrics)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	catalog := usgs.NewClient(cfg.USGSBaseURL, cfg.USGSTimeout, domain.PhilippineBBox, logger, metrics)
	feed := eonet.NewClient(cfg.EONETBaseURL, cfg.EONETTimeout, logger, metrics)
	aggregator := aggregate.New(regional, catalog, feed, logger, metrics)

	ctx := context.Background()
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	if *volcanoes {
		events, yearCounts, err := aggregator.Volcanoes(ctx)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		counts := make(map[string]int, len(yearCounts))
		for y, n := range yearCounts {
			counts[strconv.Itoa(y)] = n
		}
		_ = enc.Encode(map[string]any{"volcanoes": events, "yearCounts": counts})
		return
	}

	w := domain.WindowFromParams(
		strconv.Itoa(*years),
		strconv.Itoa(*month),
		strconv.Itoa(*year),
	)
	quakes, err := aggregator.Earthquakes(ctx, w)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	_ = enc.Encode(map[string]any{"quakes": quakes})
}
