package handlers

import (
	"context"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/darksky-forecast/internal/server/middlewares"
	"go.uber.org/zap"
)

// AppMetrics holds forecast-call counters per upstream service.
type AppMetrics struct {
	mutex          sync.RWMutex
	forecastCalls  map[string]int64
	forecastErrors map[string]int64
}

// HTTPMetricsProvider exposes the request counters kept by the metrics middleware.
type HTTPMetricsProvider interface {
	GetHTTPMetrics() *middlewares.HTTPMetrics
}

type MetricsHandler struct {
	logger     *zap.Logger
	http       HTTPMetricsProvider
	appMetrics *AppMetrics
}

func NewMetricsHandler(logger *zap.Logger, httpMetrics HTTPMetricsProvider) *MetricsHandler {
	return &MetricsHandler{
		logger: logger,
		http:   httpMetrics,
		appMetrics: &AppMetrics{
			forecastCalls:  make(map[string]int64),
			forecastErrors: make(map[string]int64),
		},
	}
}

// RecordForecastCall records one upstream forecast call.
func (h *MetricsHandler) RecordForecastCall(ctx context.Context, service string, success bool) {
	h.appMetrics.mutex.Lock()
	h.appMetrics.forecastCalls[service]++
	if !success {
		h.appMetrics.forecastErrors[service]++
	}
	h.appMetrics.mutex.Unlock()
}

// ServeMetrics writes all counters in the Prometheus text format.
func (h *MetricsHandler) ServeMetrics(c *gin.Context) {
	var b strings.Builder

	if h.http != nil {
		snap := h.http.GetHTTPMetrics().Snapshot()

		b.WriteString("# HELP http_requests_total Total number of HTTP requests\n")
		b.WriteString("# TYPE http_requests_total counter\n")
		for _, key := range sortedKeys(snap.RequestsTotal) {
			b.WriteString("http_requests_total{route_status=\"" + key + "\"} " + strconv.FormatInt(snap.RequestsTotal[key], 10) + "\n")
		}

		b.WriteString("\n# HELP http_request_duration_seconds_avg Average duration of HTTP requests\n")
		b.WriteString("# TYPE http_request_duration_seconds_avg gauge\n")
		b.WriteString("http_request_duration_seconds_avg " + strconv.FormatFloat(snap.AverageDuration, 'f', 6, 64) + "\n")

		b.WriteString("\n# HELP http_active_requests Number of active HTTP requests\n")
		b.WriteString("# TYPE http_active_requests gauge\n")
		b.WriteString("http_active_requests " + strconv.FormatInt(snap.ActiveRequests, 10) + "\n\n")
	}

	h.appMetrics.mutex.RLock()
	b.WriteString("# HELP forecast_service_calls_total Total upstream forecast calls\n")
	b.WriteString("# TYPE forecast_service_calls_total counter\n")
	for _, service := range sortedKeys(h.appMetrics.forecastCalls) {
		b.WriteString("forecast_service_calls_total{service=\"" + service + "\"} " + strconv.FormatInt(h.appMetrics.forecastCalls[service], 10) + "\n")
	}

	b.WriteString("\n# HELP forecast_service_errors_total Total failed upstream forecast calls\n")
	b.WriteString("# TYPE forecast_service_errors_total counter\n")
	for _, service := range sortedKeys(h.appMetrics.forecastErrors) {
		b.WriteString("forecast_service_errors_total{service=\"" + service + "\"} " + strconv.FormatInt(h.appMetrics.forecastErrors[service], 10) + "\n")
	}
	h.appMetrics.mutex.RUnlock()

	c.Header("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	c.String(http.StatusOK, b.String())
}

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
