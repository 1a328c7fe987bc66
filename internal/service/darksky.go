package service

import (
	"context"
	"time"

	"github.com/vzahanych/darksky-forecast/internal/config"
	"github.com/vzahanych/darksky-forecast/pkg/darksky"
	"github.com/vzahanych/darksky-forecast/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type DarkSkyService struct {
	defaults darksky.RequestBuilder
	client   *darksky.Client
	logger   *zap.Logger
	tele     *telemetry.Telemetry
}

// NewDarkSkyServiceWithConfig prepares a request template from cfg. A missing
// API key is reported here rather than on every call.
func NewDarkSkyServiceWithConfig(cfg config.ForecastConfig, logger *zap.Logger, tele *telemetry.Telemetry) (*DarkSkyService, error) {
	defaults, err := DefaultsFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	return &DarkSkyService{
		defaults: defaults,
		client: darksky.NewClient(
			darksky.WithLogger(logger),
			darksky.WithTracer(tele.GetTracer()),
		),
		logger: logger,
		tele:   tele,
	}, nil
}

// DefaultsFromConfig turns the forecast section into a builder holding key,
// language, units, exclusions, timeouts and URL override.
func DefaultsFromConfig(cfg config.ForecastConfig) (darksky.RequestBuilder, error) {
	b := darksky.NewRequestBuilder()

	key, err := darksky.NewAPIKey(cfg.APIKey)
	if err != nil {
		return b, err
	}
	b = b.Key(key)

	if cfg.URL != "" {
		b = b.URL(cfg.URL)
	}

	b, err = applyOptions(b, cfg.Language, cfg.Units, cfg.Exclude)
	if err != nil {
		return b, err
	}

	if cfg.ExtendHourly {
		b = b.ExtendHourly()
	}

	timeouts, err := darksky.NewTimeouts(
		time.Duration(cfg.ConnectTimeout)*time.Second,
		time.Duration(cfg.ReadTimeout)*time.Second,
	)
	if err != nil {
		return b, err
	}
	return b.Timeouts(timeouts), nil
}

func (s *DarkSkyService) Name() string {
	return "darksky"
}

func (s *DarkSkyService) Forecast(ctx context.Context, q Query) (*darksky.Forecast, error) {
	tracer := s.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "darksky-service.Forecast")
	defer span.End()

	req, err := s.request(q)
	if err != nil {
		s.tele.RecordError(ctx, err, map[string]interface{}{"stage": "build"})
		return nil, err
	}

	span.SetAttributes(
		attribute.String("lat", q.Latitude),
		attribute.String("lon", q.Longitude),
	)

	forecast, err := s.client.Forecast(ctx, req)
	if err != nil {
		s.tele.RecordError(ctx, err, map[string]interface{}{"stage": "fetch"})
		return nil, err
	}

	s.logger.Debug("Forecast fetched",
		zap.String("lat", q.Latitude),
		zap.String("lon", q.Longitude),
		zap.Bool("has_currently", forecast.Currently != nil),
		zap.Int("alerts", len(forecast.Alerts)))

	return forecast, nil
}

func (s *DarkSkyService) ForecastJSON(ctx context.Context, q Query) ([]byte, error) {
	tracer := s.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "darksky-service.ForecastJSON")
	defer span.End()

	req, err := s.request(q)
	if err != nil {
		s.tele.RecordError(ctx, err, map[string]interface{}{"stage": "build"})
		return nil, err
	}

	body, err := s.client.ForecastJSONBytes(ctx, req)
	if err != nil {
		s.tele.RecordError(ctx, err, map[string]interface{}{"stage": "fetch"})
		return nil, err
	}
	return body, nil
}

// Check builds a request for a fixed location from the configured defaults,
// so an unusable key or URL template surfaces before the first forecast.
func (s *DarkSkyService) Check(ctx context.Context) error {
	location, err := darksky.ParseGeoCoordinates("0", "0")
	if err != nil {
		return err
	}
	_, err = s.defaults.Location(location).Build()
	return err
}

func (s *DarkSkyService) request(q Query) (*darksky.Request, error) {
	location, err := darksky.ParseGeoCoordinates(q.Longitude, q.Latitude)
	if err != nil {
		return nil, err
	}

	b, err := applyOptions(s.defaults.Location(location), q.Language, q.Units, q.Exclude)
	if err != nil {
		return nil, err
	}
	if q.ExtendHourly {
		b = b.ExtendHourly()
	}
	if q.Time != nil {
		b = b.Time(*q.Time)
	}
	return b.Build()
}

func applyOptions(b darksky.RequestBuilder, language, units, exclude string) (darksky.RequestBuilder, error) {
	if language != "" {
		l, err := darksky.ParseLanguage(language)
		if err != nil {
			return b, err
		}
		b = b.Language(l)
	}
	if units != "" {
		u, err := darksky.ParseUnits(units)
		if err != nil {
			return b, err
		}
		b = b.Units(u)
	}
	if exclude != "" {
		blocks, err := darksky.ParseBlocks(exclude)
		if err != nil {
			return b, err
		}
		b = b.Exclude(blocks...)
	}
	return b, nil
}
