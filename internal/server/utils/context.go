package utils

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Keys under which middlewares store per-request values in gin.Context.
const (
	SpanContextKey = "span_context"
	RequestIDKey   = "request_id"
)

// GetSpanFromGinContext returns the server span, or a non-recording span.
func GetSpanFromGinContext(c *gin.Context) trace.Span {
	return trace.SpanFromContext(GetContextFromGinContext(c))
}

// GetContextFromGinContext returns the traced context stored by the
// telemetry middleware, falling back to the request context.
func GetContextFromGinContext(c *gin.Context) context.Context {
	if spanCtx, exists := c.Get(SpanContextKey); exists {
		if ctx, ok := spanCtx.(context.Context); ok {
			return ctx
		}
	}
	return c.Request.Context()
}

func GetRequestIDFromGinContext(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}

// RequestLogger annotates base with the request ID and, when sampled, the trace ID.
func RequestLogger(c *gin.Context, base *zap.Logger) *zap.Logger {
	fields := make([]zap.Field, 0, 2)
	if id := GetRequestIDFromGinContext(c); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	if sc := GetSpanFromGinContext(c).SpanContext(); sc.IsValid() {
		fields = append(fields, zap.String("trace_id", sc.TraceID().String()))
	}
	return base.With(fields...)
}
