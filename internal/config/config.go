package config

import (
	"fmt"
	"sync/atomic"

	"github.com/go-playground/validator/v10"
)

var configValue atomic.Value

func GetConfig() *Config {
	return configValue.Load().(*Config)
}

func SetConfig(cfg *Config) {
	configValue.Store(cfg)
}

type Config struct {
	Version     string          `mapstructure:"version" validate:"required"`
	Environment string          `mapstructure:"environment"`
	Forecast    ForecastConfig  `mapstructure:"forecast"`
	Server      ServerConfig    `mapstructure:"server"`
	Logging     LoggingConfig   `mapstructure:"logging"`
	Telemetry   TelemetryConfig `mapstructure:"telemetry"`
}

// ForecastConfig holds the request defaults used by the CLI and the gateway.
// Timeouts are in seconds; zero disables the timeout.
type ForecastConfig struct {
	APIKey         string `mapstructure:"api_key"`
	URL            string `mapstructure:"url"`
	Language       string `mapstructure:"language" validate:"required"`
	Units          string `mapstructure:"units" validate:"required,oneof=auto ca si uk2 us"`
	Exclude        string `mapstructure:"exclude"`
	ExtendHourly   bool   `mapstructure:"extend_hourly"`
	ConnectTimeout int    `mapstructure:"connect_timeout" validate:"gte=0"`
	ReadTimeout    int    `mapstructure:"read_timeout" validate:"gte=0"`
}

type ServerConfig struct {
	Port         int    `mapstructure:"port" validate:"gt=0,lte=65535"`
	Host         string `mapstructure:"host"`
	ReadTimeout  int    `mapstructure:"read_timeout" validate:"gte=0"`
	WriteTimeout int    `mapstructure:"write_timeout" validate:"gte=0"`
	IdleTimeout  int    `mapstructure:"idle_timeout" validate:"gte=0"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format     string `mapstructure:"format" validate:"oneof=json console"`
	OutputPath string `mapstructure:"output_path"`
}

type TelemetryConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint" validate:"required_if=Enabled true"`
}

func NewDefaultConfig() *Config {
	return &Config{
		Version:     "1.0.0",
		Environment: "development",
		Forecast: ForecastConfig{
			APIKey:         "",
			URL:            "",
			Language:       "en",
			Units:          "si",
			Exclude:        "",
			ExtendHourly:   false,
			ConnectTimeout: 6,
			ReadTimeout:    6,
		},
		Server: ServerConfig{
			Port:         8080,
			Host:         "0.0.0.0",
			ReadTimeout:  30,
			WriteTimeout: 30,
			IdleTimeout:  60,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "",
		},
		Telemetry: TelemetryConfig{
			Enabled:  false,
			Endpoint: "tempo:4317",
		},
	}
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
