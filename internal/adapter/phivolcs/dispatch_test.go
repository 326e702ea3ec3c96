package phivolcs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lindolmap/geoevents/internal/config"
	"github.com/lindolmap/geoevents/internal/domain"
	"github.com/lindolmap/geoevents/internal/observability"
)

type fakeInvoker struct {
	gotArgs []string
	stdout  []byte
	err     error
}

func (f *fakeInvoker) Invoke(_ context.Context, args []string) ([]byte, error) {
	f.gotArgs = args
	return f.stdout, f.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newLocal(invoker ScriptInvoker) *LocalFetcher {
	return NewLocalFetcher(invoker, quietLogger(), observability.NewMetricsForTesting())
}

func TestNew_StrategySelection(t *testing.T) {
	base := func() *config.Config {
		return &config.Config{
			Interpreter:     "python3",
			RegionalTimeout: time.Minute,
		}
	}

	t.Run("local mode with a script path", func(t *testing.T) {
		cfg := base()
		cfg.ExecutionMode = config.ModeLocal
		cfg.ScriptPath = "/opt/scraper/fetch_earthquakes.py"

		f, err := New(cfg, quietLogger(), observability.NewMetricsForTesting())
		require.NoError(t, err)
		assert.IsType(t, &LocalFetcher{}, f)
	})

	t.Run("local mode without a script path fails fast", func(t *testing.T) {
		cfg := base()
		cfg.ExecutionMode = config.ModeLocal

		_, err := New(cfg, quietLogger(), observability.NewMetricsForTesting())
		assert.ErrorIs(t, err, ErrMisconfigured)
	})

	t.Run("remote mode with an endpoint", func(t *testing.T) {
		cfg := base()
		cfg.ExecutionMode = config.ModeRemote
		cfg.RegionalEndpoint = "https://example.org/api/fetch-earthquakes"

		f, err := New(cfg, quietLogger(), observability.NewMetricsForTesting())
		require.NoError(t, err)
		assert.IsType(t, &RemoteFetcher{}, f)
	})

	t.Run("remote mode without an endpoint fails fast", func(t *testing.T) {
		cfg := base()
		cfg.ExecutionMode = config.ModeRemote

		_, err := New(cfg, quietLogger(), observability.NewMetricsForTesting())
		assert.ErrorIs(t, err, ErrMisconfigured)
	})

	t.Run("unknown mode fails fast", func(t *testing.T) {
		cfg := base()
		cfg.ExecutionMode = "hybrid"

		_, err := New(cfg, quietLogger(), observability.NewMetricsForTesting())
		assert.ErrorIs(t, err, ErrMisconfigured)
	})
}

func TestLocalFetcher_ArgumentContract(t *testing.T) {
	t.Run("trailing range passes the year count", func(t *testing.T) {
		invoker := &fakeInvoker{stdout: []byte(`{"quakes":[]}`)}
		_, err := newLocal(invoker).FetchWindow(context.Background(), domain.Window{TrailingYears: 3})
		require.NoError(t, err)
		assert.Equal(t, []string{"3"}, invoker.gotArgs)
	})

	t.Run("single month passes 1 month year", func(t *testing.T) {
		invoker := &fakeInvoker{stdout: []byte(`{"quakes":[]}`)}
		_, err := newLocal(invoker).FetchWindow(context.Background(), domain.Window{Month: time.March, Year: 2024})
		require.NoError(t, err)
		assert.Equal(t, []string{"1", "3", "2024"}, invoker.gotArgs)
	})
}

func TestLocalFetcher_Failures(t *testing.T) {
	t.Run("invoker failure propagates", func(t *testing.T) {
		invoker := &fakeInvoker{err: errors.New("interpreter not found")}
		_, err := newLocal(invoker).FetchWindow(context.Background(), domain.Window{TrailingYears: 1})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "interpreter not found")
	})

	t.Run("script-embedded error surfaces with its message", func(t *testing.T) {
		invoker := &fakeInvoker{stdout: []byte(`{"quakes":[],"error":"catalog unreachable"}`)}
		_, err := newLocal(invoker).FetchWindow(context.Background(), domain.Window{TrailingYears: 1})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "catalog unreachable")
	})

	t.Run("non-JSON stdout is a tool failure", func(t *testing.T) {
		invoker := &fakeInvoker{stdout: []byte("ModuleNotFoundError: no module named pylindol")}
		_, err := newLocal(invoker).FetchWindow(context.Background(), domain.Window{TrailingYears: 1})
		assert.ErrorIs(t, err, ErrBadEnvelope)
	})
}

func TestLocalFetcher_Success(t *testing.T) {
	invoker := &fakeInvoker{stdout: []byte(`{"quakes":[{"datetime":"2024-03-15T08:30:00","lat":12.88,"lon":121.77,"location":"Lubang","magnitude":4.2,"depth":10,"source":"s"}]}`)}
	records, err := newLocal(invoker).FetchWindow(context.Background(), domain.Window{Month: time.March, Year: 2024})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Lubang", records[0].Location)
}
