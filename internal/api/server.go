// Package api exposes the query surface: earthquake and volcano endpoints
// plus health, readiness, and metrics. Responses always carry the
// documented envelope shape; failures put the error string in the body
// alongside an empty list, never a malformed or partial payload.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lindolmap/geoevents/internal/domain"
	"github.com/lindolmap/geoevents/internal/observability"
)

// EventService is the aggregation engine behind the endpoints.
type EventService interface {
	Earthquakes(ctx context.Context, w domain.Window) ([]domain.Event, error)
	Volcanoes(ctx context.Context) ([]domain.Event, map[int]int, error)
	CheckReadiness(ctx context.Context) error
}

// Server wraps the gin engine and HTTP lifecycle.
type Server struct {
	httpServer *http.Server
	service    EventService
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewServer creates the HTTP server with all routes mounted.
func NewServer(addr string, service EventService, logger *slog.Logger, metrics *observability.Metrics) *Server {
	s := &Server{
		service: service,
		logger:  logger,
		metrics: metrics,
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	api := router.Group("/api")
	{
		api.GET("/earthquakes", s.handleEarthquakes)
		api.GET("/volcanoes", s.handleVolcanoes)
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.GET("/readyz", s.handleReady)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 120 * time.Second, // the regional script can take a while
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleEarthquakes(c *gin.Context) {
	w := domain.WindowFromParams(c.Query("years"), c.Query("month"), c.Query("year"))

	quakes, err := s.service.Earthquakes(c.Request.Context(), w)
	if err != nil {
		s.logger.Error("earthquake aggregation failed", "error", err,
			"single_month", w.SingleMonth(), "trailing_years", w.TrailingYears)
		s.metrics.Requests.WithLabelValues("earthquakes", "error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{
			"quakes": []domain.Event{},
			"error":  err.Error(),
		})
		return
	}

	if quakes == nil {
		quakes = []domain.Event{}
	}
	s.metrics.Requests.WithLabelValues("earthquakes", "success").Inc()
	c.JSON(http.StatusOK, gin.H{"quakes": quakes})
}

func (s *Server) handleVolcanoes(c *gin.Context) {
	volcanoes, yearCounts, err := s.service.Volcanoes(c.Request.Context())
	if err != nil {
		s.logger.Error("volcano aggregation failed", "error", err)
		s.metrics.Requests.WithLabelValues("volcanoes", "error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{
			"volcanoes":  []domain.Event{},
			"yearCounts": map[string]int{},
			"error":      err.Error(),
		})
		return
	}

	if volcanoes == nil {
		volcanoes = []domain.Event{}
	}
	// JSON object keys are strings; convert so the wire shape is explicit.
	counts := make(map[string]int, len(yearCounts))
	for year, n := range yearCounts {
		counts[strconv.Itoa(year)] = n
	}
	s.metrics.Requests.WithLabelValues("volcanoes", "success").Inc()
	c.JSON(http.StatusOK, gin.H{"volcanoes": volcanoes, "yearCounts": counts})
}

func (s *Server) handleReady(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.service.CheckReadiness(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
