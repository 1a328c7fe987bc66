package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vzahanych/darksky-forecast/internal/server/middlewares"
	"go.uber.org/zap/zaptest"
)

func healthRouter(t *testing.T, checks map[string]ReadinessCheck) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHealthHandler(zaptest.NewLogger(t), checks)
	r := gin.New()
	r.GET("/health", h.Health)
	r.GET("/health/live", h.Liveness)
	r.GET("/health/ready", h.Readiness)
	return r
}

func TestHealthHandler_AllPassing(t *testing.T) {
	r := healthRouter(t, map[string]ReadinessCheck{
		"ok": func(context.Context) error { return nil },
	})

	for path, status := range map[string]string{
		"/health":       "ok",
		"/health/live":  "alive",
		"/health/ready": "ready",
	} {
		w := doGet(r, path)
		require.Equal(t, http.StatusOK, w.Code, path)

		var resp HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, status, resp.Status, path)
		assert.NotEmpty(t, resp.Uptime, path)
	}
}

func TestHealthHandler_FailingCheck(t *testing.T) {
	r := healthRouter(t, map[string]ReadinessCheck{
		"upstream": func(context.Context) error { return errors.New("no api key") },
	})

	w := doGet(r, "/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "no api key")

	w = doGet(r, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"degraded"`)

	// liveness ignores readiness checks
	w = doGet(r, "/health/live")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMetricsHandler_ServeMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := zaptest.NewLogger(t)

	mw := middlewares.NewMetricsMiddleware(logger, nil)
	h := NewMetricsHandler(logger, mw)

	r := gin.New()
	r.Use(mw.Handler())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/metrics", h.ServeMetrics)

	doGet(r, "/ping")
	doGet(r, "/ping")
	h.RecordForecastCall(context.Background(), "darksky", true)
	h.RecordForecastCall(context.Background(), "darksky", false)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/plain"))

	body := w.Body.String()
	assert.Contains(t, body, `http_requests_total{route_status="GET /ping_200"} 2`)
	assert.Contains(t, body, "http_active_requests 1")
	assert.Contains(t, body, `forecast_service_calls_total{service="darksky"} 2`)
	assert.Contains(t, body, `forecast_service_errors_total{service="darksky"} 1`)
}
