package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vzahanych/darksky-forecast/internal/config"
)

func TestNew_Disabled(t *testing.T) {
	tele, err := New(context.Background(), config.TelemetryConfig{Enabled: false}, "test")
	require.NoError(t, err)

	assert.False(t, tele.IsEnabled())
	assert.NotNil(t, tele.GetTracer())
	assert.NoError(t, tele.Shutdown(context.Background()))

	// must not panic without a span
	tele.RecordError(context.Background(), errors.New("boom"), map[string]interface{}{"k": 1})
}

func TestNilTelemetry(t *testing.T) {
	var tele *Telemetry

	assert.False(t, tele.IsEnabled())
	assert.NotNil(t, tele.GetTracer())

	_, span := tele.GetTracer().Start(context.Background(), "noop")
	span.End()
}
