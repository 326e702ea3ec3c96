package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lindolmap/geoevents/internal/api"
	"github.com/lindolmap/geoevents/internal/domain"
	"github.com/lindolmap/geoevents/internal/observability"
)

type fakeService struct {
	gotWindow  domain.Window
	quakes     []domain.Event
	quakesErr  error
	volcanoes  []domain.Event
	yearCounts map[int]int
	volcanoErr error
	readyErr   error
}

func (f *fakeService) Earthquakes(_ context.Context, w domain.Window) ([]domain.Event, error) {
	f.gotWindow = w
	return f.quakes, f.quakesErr
}

func (f *fakeService) Volcanoes(context.Context) ([]domain.Event, map[int]int, error) {
	return f.volcanoes, f.yearCounts, f.volcanoErr
}

func (f *fakeService) CheckReadiness(context.Context) error { return f.readyErr }

func newTestServer(svc *fakeService) *api.Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return api.NewServer(":0", svc, logger, observability.NewMetricsForTesting())
}

func doGET(t *testing.T, srv *api.Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	srv.ServeHTTP(rec, req)
	return rec
}

func TestEarthquakesEndpoint(t *testing.T) {
	t.Run("returns the quakes envelope", func(t *testing.T) {
		svc := &fakeService{quakes: []domain.Event{{
			Timestamp: time.Date(2024, 3, 15, 8, 30, 0, 0, time.UTC),
			Lat:       12.88, Lon: 121.77, Label: "Lubang",
		}}}
		rec := doGET(t, newTestServer(svc), "/api/earthquakes?years=2")

		assert.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Quakes []domain.Event `json:"quakes"`
			Error  string         `json:"error"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body.Quakes, 1)
		assert.Equal(t, "Lubang", body.Quakes[0].Label)
		assert.Empty(t, body.Error)
		assert.Equal(t, 2, svc.gotWindow.TrailingYears)
	})

	t.Run("month and year params select single-month mode", func(t *testing.T) {
		svc := &fakeService{}
		doGET(t, newTestServer(svc), "/api/earthquakes?years=5&month=3&year=2024")

		assert.True(t, svc.gotWindow.SingleMonth())
		assert.Equal(t, time.March, svc.gotWindow.Month)
		assert.Equal(t, 2024, svc.gotWindow.Year)
	})

	t.Run("years above the cap are clamped", func(t *testing.T) {
		svc := &fakeService{}
		doGET(t, newTestServer(svc), "/api/earthquakes?years=15")
		assert.Equal(t, domain.MaxTrailingYears, svc.gotWindow.TrailingYears)
	})

	t.Run("failure returns 500 with the error in the envelope", func(t *testing.T) {
		svc := &fakeService{quakesErr: errors.New("regional catalog: catalog unreachable")}
		rec := doGET(t, newTestServer(svc), "/api/earthquakes")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)

		var body struct {
			Quakes []domain.Event `json:"quakes"`
			Error  string         `json:"error"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.NotNil(t, body.Quakes)
		assert.Empty(t, body.Quakes)
		assert.Contains(t, body.Error, "catalog unreachable")
	})

	t.Run("nil result serializes as an empty list, not null", func(t *testing.T) {
		rec := doGET(t, newTestServer(&fakeService{}), "/api/earthquakes")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"quakes":[]`)
	})
}

func TestVolcanoesEndpoint(t *testing.T) {
	t.Run("returns volcanoes with year counts", func(t *testing.T) {
		svc := &fakeService{
			volcanoes: []domain.Event{{
				ID:        "EONET_100|2024-03-20T00:00:00Z",
				Timestamp: time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC),
				Lat:       14.002, Lon: 120.993, Label: "Taal Volcano",
			}},
			yearCounts: map[int]int{2024: 1},
		}
		rec := doGET(t, newTestServer(svc), "/api/volcanoes")

		assert.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Volcanoes  []domain.Event `json:"volcanoes"`
			YearCounts map[string]int `json:"yearCounts"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body.Volcanoes, 1)
		assert.Equal(t, "Taal Volcano", body.Volcanoes[0].Label)
		assert.Equal(t, map[string]int{"2024": 1}, body.YearCounts)
	})

	t.Run("failure returns 500 with empty collections", func(t *testing.T) {
		svc := &fakeService{volcanoErr: errors.New("feed down")}
		rec := doGET(t, newTestServer(svc), "/api/volcanoes")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), `"volcanoes":[]`)
		assert.Contains(t, rec.Body.String(), "feed down")
	})
}

func TestHealthEndpoints(t *testing.T) {
	t.Run("healthz", func(t *testing.T) {
		rec := doGET(t, newTestServer(&fakeService{}), "/healthz")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("readyz ready", func(t *testing.T) {
		rec := doGET(t, newTestServer(&fakeService{}), "/readyz")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("readyz not ready", func(t *testing.T) {
		rec := doGET(t, newTestServer(&fakeService{readyErr: errors.New("sources not wired")}), "/readyz")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), "sources not wired")
	})
}

func TestMetricsEndpoint(t *testing.T) {
	rec := doGET(t, newTestServer(&fakeService{}), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
