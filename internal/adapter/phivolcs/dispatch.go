package phivolcs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/lindolmap/geoevents/internal/config"
	"github.com/lindolmap/geoevents/internal/domain"
	"github.com/lindolmap/geoevents/internal/observability"
)

// ErrMisconfigured marks a selected execution strategy whose required
// configuration is absent. Construction fails fast; there is no fallback
// to the other strategy.
var ErrMisconfigured = errors.New("regional catalog dispatch misconfigured")

// Fetcher retrieves regional catalog records for a time window. Both
// execution strategies implement it.
type Fetcher interface {
	FetchWindow(ctx context.Context, w domain.Window) ([]domain.QuakeRecord, error)
}

// New selects the execution strategy from the resolved config. The choice
// is a pure function of cfg.ExecutionMode; selecting has no side effects.
func New(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) (Fetcher, error) {
	switch cfg.ExecutionMode {
	case config.ModeLocal:
		if cfg.ScriptPath == "" {
			return nil, fmt.Errorf("%w: local mode requires PHIVOLCS_SCRIPT_PATH", ErrMisconfigured)
		}
		runner := NewLocalRunner(cfg.Interpreter, cfg.ScriptPath, cfg.ScriptSearchPath, logger)
		return NewLocalFetcher(runner, logger, metrics), nil
	case config.ModeRemote:
		if cfg.RegionalEndpoint == "" {
			return nil, fmt.Errorf("%w: remote mode requires REGIONAL_ENDPOINT_URL", ErrMisconfigured)
		}
		return NewRemoteFetcher(cfg.RegionalEndpoint, cfg.RegionalTimeout, logger, metrics), nil
	default:
		return nil, fmt.Errorf("%w: unknown execution mode %q", ErrMisconfigured, cfg.ExecutionMode)
	}
}

// windowArgs maps a window onto the script's positional argument contract:
// "N" for a trailing range, "1 month year" for a single month.
func windowArgs(w domain.Window) []string {
	if w.SingleMonth() {
		return []string{"1", strconv.Itoa(int(w.Month)), strconv.Itoa(w.Year)}
	}
	return []string{strconv.Itoa(w.TrailingYears)}
}

// LocalFetcher runs the script through a ScriptInvoker and decodes its
// stdout envelope.
type LocalFetcher struct {
	invoker ScriptInvoker
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewLocalFetcher wraps a ScriptInvoker in the Fetcher contract.
func NewLocalFetcher(invoker ScriptInvoker, logger *slog.Logger, metrics *observability.Metrics) *LocalFetcher {
	return &LocalFetcher{invoker: invoker, logger: logger, metrics: metrics}
}

func (f *LocalFetcher) FetchWindow(ctx context.Context, w domain.Window) ([]domain.QuakeRecord, error) {
	start := time.Now()
	out, err := f.invoker.Invoke(ctx, windowArgs(w))
	f.metrics.SourceFetchDuration.WithLabelValues("phivolcs").Observe(time.Since(start).Seconds())
	if err != nil {
		f.metrics.SourceFetches.WithLabelValues("phivolcs", "error").Inc()
		return nil, fmt.Errorf("regional catalog: %w", err)
	}
	f.metrics.ScriptOutputBytes.Observe(float64(len(out)))

	records, err := DecodeEnvelope(out)
	if err != nil {
		f.metrics.SourceFetches.WithLabelValues("phivolcs", "error").Inc()
		return nil, fmt.Errorf("regional catalog: %w", err)
	}
	f.metrics.SourceFetches.WithLabelValues("phivolcs", "success").Inc()
	return records, nil
}
