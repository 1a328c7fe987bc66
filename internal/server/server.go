package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/darksky-forecast/internal/config"
	"github.com/vzahanych/darksky-forecast/internal/server/handlers"
	"github.com/vzahanych/darksky-forecast/internal/server/middlewares"
	"github.com/vzahanych/darksky-forecast/internal/service"
	"github.com/vzahanych/darksky-forecast/pkg/telemetry"
	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

type Server struct {
	engine  *gin.Engine
	server  *http.Server
	service service.ForecastService
	logger  *zap.Logger
	tele    *telemetry.Telemetry
	metrics *middlewares.MetricsMiddleware
}

func NewServer(cfg config.ServerConfig, svc service.ForecastService, logger *zap.Logger, tele *telemetry.Telemetry) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	metrics := middlewares.NewMetricsMiddleware(logger, tele)

	engine.Use(middlewares.RequestIDMiddleware(logger))
	engine.Use(middlewares.LoggingMiddleware(logger, middlewares.LoggingOptions{
		UTC:        true,
		QuietPaths: []string{"/health", "/health/live", "/health/ready", "/metrics"},
	}))
	engine.Use(middlewares.RecoveryMiddleware(logger, true))
	engine.Use(middlewares.TelemetryMiddleware(logger, tele))
	engine.Use(metrics.Handler())

	s := &Server{
		engine:  engine,
		service: svc,
		logger:  logger,
		tele:    tele,
		metrics: metrics,
	}

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      engine,
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.IdleTimeout) * time.Second,
	}

	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	metricsHandler := handlers.NewMetricsHandler(s.logger, s.metrics)

	// Business endpoints
	s.engine.GET("/forecast", handlers.NewForecastHandler(s.service, metricsHandler, s.logger).GetForecast)

	// Health endpoints (Kubernetes friendly)
	health := handlers.NewHealthHandler(s.logger, map[string]handlers.ReadinessCheck{
		"forecast_service": s.checkService,
	})
	s.engine.GET("/health", health.Health)
	s.engine.GET("/health/live", health.Liveness)
	s.engine.GET("/health/ready", health.Readiness)

	// Monitoring endpoints
	s.engine.GET("/metrics", metricsHandler.ServeMetrics)
}

// checkService fails without a service and otherwise defers to the
// service's own configuration check when it has one.
func (s *Server) checkService(ctx context.Context) error {
	if s.service == nil {
		return errors.New("forecast service not configured")
	}
	if checker, ok := s.service.(service.Checker); ok {
		return checker.Check(ctx)
	}
	return nil
}

// Handler exposes the engine, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start blocks until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("Starting server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	return s.server.Shutdown(ctx)
}
