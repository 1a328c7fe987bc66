package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/vzahanych/darksky-forecast/internal/config"
	"github.com/vzahanych/darksky-forecast/internal/service"
	"go.uber.org/zap"
)

type forecastFlags struct {
	key     string
	url     string
	lat     string
	lon     string
	lang    string
	units   string
	exclude string
	extend  bool
	at      string
	raw     bool
}

func forecastCmd() *cobra.Command {
	var f forecastFlags

	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Fetch a single forecast",
		Long: `Fetch the forecast for one location and print it as indented JSON.
Flags override the forecast section of the configuration.`,
		Example: `  darksky forecast --key KEY --lat 52.516275 --lon 13.377704 --exclude minutely,hourly
  darksky forecast --lat 52.516275 --lon 13.377704 --time 2017-11-06T18:34:37Z --raw`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runForecast(cmd, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.key, "key", "", "Dark Sky API key (default: forecast.api_key)")
	flags.StringVar(&f.url, "url", "", "URL template override with ##key##, ##latitude##, ##longitude## and ##time## tokens")
	flags.StringVar(&f.lat, "lat", "", "latitude in decimal degrees")
	flags.StringVar(&f.lon, "lon", "", "longitude in decimal degrees")
	flags.StringVar(&f.lang, "lang", "", "summary language, e.g. en, de, zh-tw")
	flags.StringVar(&f.units, "units", "", "units: auto, ca, si, uk2 or us")
	flags.StringVar(&f.exclude, "exclude", "", "comma separated blocks to exclude: currently, minutely, hourly, daily, alerts, flags")
	flags.BoolVar(&f.extend, "extend", false, "return hourly data for the next 168 hours")
	flags.StringVar(&f.at, "time", "", "RFC3339 time for a time machine request")
	flags.BoolVar(&f.raw, "raw", false, "print the response body verbatim")

	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")

	return cmd
}

func runForecast(cmd *cobra.Command, f forecastFlags) error {
	fcfg := config.GetConfig().Forecast
	if f.key != "" {
		fcfg.APIKey = f.key
	}
	if f.url != "" {
		fcfg.URL = f.url
	}

	q := service.Query{
		Latitude:     f.lat,
		Longitude:    f.lon,
		Language:     f.lang,
		Units:        f.units,
		Exclude:      f.exclude,
		ExtendHourly: f.extend,
	}
	if f.at != "" {
		at, err := time.Parse(time.RFC3339, f.at)
		if err != nil {
			return fmt.Errorf("invalid --time: %w", err)
		}
		q.Time = &at
	}

	zl := log.Desugar()
	svc, err := service.NewDarkSkyServiceWithConfig(fcfg, zl, tele)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if f.raw {
		body, err := svc.ForecastJSON(ctx, q)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(body))
		return err
	}

	forecast, err := svc.Forecast(ctx, q)
	if err != nil {
		return err
	}

	zl.Debug("Forecast received", zap.Stringp("timezone", forecast.Timezone), zap.Int("alerts", len(forecast.Alerts)))

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(forecast)
}
