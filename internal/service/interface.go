package service

import (
	"context"
	"time"

	"github.com/vzahanych/darksky-forecast/pkg/darksky"
)

// Query carries per-call options. Empty fields fall back to the configured defaults.
type Query struct {
	Latitude     string
	Longitude    string
	Language     string
	Units        string
	Exclude      string
	ExtendHourly bool
	Time         *time.Time
}

type ForecastService interface {
	Forecast(ctx context.Context, q Query) (*darksky.Forecast, error)
	ForecastJSON(ctx context.Context, q Query) ([]byte, error)
	Name() string
}

// Checker is implemented by services that can verify their configuration
// without calling the upstream.
type Checker interface {
	Check(ctx context.Context) error
}
