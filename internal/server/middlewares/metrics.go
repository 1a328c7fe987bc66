package middlewares

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/darksky-forecast/pkg/telemetry"
	"go.uber.org/zap"
)

const maxDurations = 1000

// HTTPMetrics holds only HTTP request metrics
type HTTPMetrics struct {
	mutex            sync.RWMutex
	requestsTotal    map[string]int64
	requestDurations []float64
	activeRequests   int64
}

// HTTPSnapshot is a consistent copy of HTTPMetrics.
type HTTPSnapshot struct {
	RequestsTotal   map[string]int64
	AverageDuration float64
	ActiveRequests  int64
}

// Snapshot copies the counters under the read lock.
func (h *HTTPMetrics) Snapshot() HTTPSnapshot {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	totals := make(map[string]int64, len(h.requestsTotal))
	for k, v := range h.requestsTotal {
		totals[k] = v
	}

	var avg float64
	if len(h.requestDurations) > 0 {
		sum := 0.0
		for _, d := range h.requestDurations {
			sum += d
		}
		avg = sum / float64(len(h.requestDurations))
	}

	return HTTPSnapshot{
		RequestsTotal:   totals,
		AverageDuration: avg,
		ActiveRequests:  h.activeRequests,
	}
}

type MetricsMiddleware struct {
	logger  *zap.Logger
	tele    *telemetry.Telemetry
	metrics *HTTPMetrics
}

func NewMetricsMiddleware(logger *zap.Logger, tele *telemetry.Telemetry) *MetricsMiddleware {
	return &MetricsMiddleware{
		logger: logger,
		tele:   tele,
		metrics: &HTTPMetrics{
			requestsTotal:    make(map[string]int64),
			requestDurations: make([]float64, 0),
		},
	}
}

func (m *MetricsMiddleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		m.metrics.mutex.Lock()
		m.metrics.activeRequests++
		m.metrics.mutex.Unlock()

		c.Next()

		duration := time.Since(start).Seconds()

		statusCode := strconv.Itoa(c.Writer.Status())
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		key := method + " " + route + "_" + statusCode

		m.metrics.mutex.Lock()
		m.metrics.requestsTotal[key]++
		m.metrics.requestDurations = append(m.metrics.requestDurations, duration)
		m.metrics.activeRequests--

		if len(m.metrics.requestDurations) > maxDurations {
			m.metrics.requestDurations = m.metrics.requestDurations[len(m.metrics.requestDurations)-maxDurations:]
		}
		m.metrics.mutex.Unlock()

		if m.tele.IsEnabled() {
			m.logger.Debug("HTTP metrics recorded",
				zap.String("method", method),
				zap.String("route", route),
				zap.Int("status", c.Writer.Status()),
				zap.Float64("duration", duration))
		}
	}
}

// GetHTTPMetrics returns the HTTP metrics for the metrics handler to expose
func (m *MetricsMiddleware) GetHTTPMetrics() *HTTPMetrics {
	return m.metrics
}
