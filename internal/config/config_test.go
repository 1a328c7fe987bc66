package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "en", cfg.Forecast.Language)
	assert.Equal(t, "si", cfg.Forecast.Units)
	assert.Equal(t, 6, cfg.Forecast.ConnectTimeout)
	assert.Equal(t, 6, cfg.Forecast.ReadTimeout)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Telemetry.Enabled)
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
forecast:
  api_key: from-file
  language: de
  units: us
  exclude: minutely,alerts
  extend_hourly: true
  read_timeout: 10
server:
  port: 9090
logging:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	t.Setenv("DSF_FORECAST_API_KEY", "from-env")
	t.Setenv("DSF_FORECAST_CONNECT_TIMEOUT", "2")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Forecast.APIKey)
	assert.Equal(t, "de", cfg.Forecast.Language)
	assert.Equal(t, "us", cfg.Forecast.Units)
	assert.Equal(t, "minutely,alerts", cfg.Forecast.Exclude)
	assert.True(t, cfg.Forecast.ExtendHourly)
	assert.Equal(t, 2, cfg.Forecast.ConnectTimeout)
	assert.Equal(t, 10, cfg.Forecast.ReadTimeout)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := NewDefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.Forecast.Units = "metric"
	assert.Error(t, cfg.Validate())

	cfg = NewDefaultConfig()
	cfg.Forecast.ReadTimeout = -1
	assert.Error(t, cfg.Validate())

	cfg = NewDefaultConfig()
	cfg.Telemetry.Enabled = true
	cfg.Telemetry.Endpoint = ""
	assert.Error(t, cfg.Validate())
}

func TestSetGetConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	SetConfig(cfg)
	assert.Same(t, cfg, GetConfig())
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
