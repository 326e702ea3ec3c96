package phivolcs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/lindolmap/geoevents/internal/domain"
	"github.com/lindolmap/geoevents/internal/observability"
)

// RemoteFetcher delegates to a sibling HTTP endpoint that runs the scraper
// itself and returns the identical envelope. Used in the managed deployment
// where the interpreter is reachable only from that sibling function.
type RemoteFetcher struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewRemoteFetcher creates the HTTP delegate strategy.
func NewRemoteFetcher(endpoint string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *RemoteFetcher {
	return &RemoteFetcher{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:  logger,
		metrics: metrics,
	}
}

// FetchWindow issues the delegate call with the same query parameters the
// public API accepts. The body is decoded regardless of status code: the
// endpoint reports failures inside the envelope's error field, and that
// message must reach the caller verbatim.
func (f *RemoteFetcher) FetchWindow(ctx context.Context, w domain.Window) ([]domain.QuakeRecord, error) {
	params := url.Values{}
	if w.SingleMonth() {
		params.Set("month", strconv.Itoa(int(w.Month)))
		params.Set("year", strconv.Itoa(w.Year))
	} else {
		params.Set("years", strconv.Itoa(w.TrailingYears))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create delegate request: %w", err)
	}

	start := time.Now()
	resp, err := f.httpClient.Do(req)
	f.metrics.SourceFetchDuration.WithLabelValues("phivolcs").Observe(time.Since(start).Seconds())
	if err != nil {
		f.metrics.SourceFetches.WithLabelValues("phivolcs", "error").Inc()
		return nil, fmt.Errorf("regional catalog delegate: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxOutputBytes+1))
	if err != nil {
		f.metrics.SourceFetches.WithLabelValues("phivolcs", "error").Inc()
		return nil, fmt.Errorf("read delegate response: %w", err)
	}
	if len(body) > maxOutputBytes {
		f.metrics.SourceFetches.WithLabelValues("phivolcs", "error").Inc()
		return nil, ErrOutputTooLarge
	}

	records, err := DecodeEnvelope(body)
	if err != nil {
		f.metrics.SourceFetches.WithLabelValues("phivolcs", "error").Inc()
		return nil, fmt.Errorf("regional catalog delegate: %w", err)
	}
	f.metrics.SourceFetches.WithLabelValues("phivolcs", "success").Inc()
	return records, nil
}
