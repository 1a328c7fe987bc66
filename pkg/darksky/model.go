package darksky

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// Forecast mirrors the API response. Every field is optional: blocks that
// were excluded or are unavailable for a location stay nil.
type Forecast struct {
	Latitude  *float64     `json:"latitude,omitempty"`
	Longitude *float64     `json:"longitude,omitempty"`
	Timezone  *string      `json:"timezone,omitempty"`
	Offset    *float64     `json:"offset,omitempty"`
	Currently *DataPoint   `json:"currently,omitempty"`
	Minutely  *DataBlock   `json:"minutely,omitempty"`
	Hourly    *HourlyBlock `json:"hourly,omitempty"`
	Daily     *DailyBlock  `json:"daily,omitempty"`
	Alerts    []Alert      `json:"alerts,omitempty"`
	Flags     *Flags       `json:"flags,omitempty"`
}

// DataPoint holds the conditions at one instant. Used for currently and minutely.
type DataPoint struct {
	Time                 *Timestamp `json:"time,omitempty"`
	Summary              *string    `json:"summary,omitempty"`
	Icon                 *string    `json:"icon,omitempty"`
	NearestStormDistance *float64   `json:"nearestStormDistance,omitempty"`
	NearestStormBearing  *float64   `json:"nearestStormBearing,omitempty"`
	PrecipIntensity      *float64   `json:"precipIntensity,omitempty"`
	PrecipIntensityError *float64   `json:"precipIntensityError,omitempty"`
	PrecipProbability    *float64   `json:"precipProbability,omitempty"`
	PrecipType           *string    `json:"precipType,omitempty"`
	Temperature          *float64   `json:"temperature,omitempty"`
	ApparentTemperature  *float64   `json:"apparentTemperature,omitempty"`
	DewPoint             *float64   `json:"dewPoint,omitempty"`
	Humidity             *float64   `json:"humidity,omitempty"`
	Pressure             *float64   `json:"pressure,omitempty"`
	WindSpeed            *float64   `json:"windSpeed,omitempty"`
	WindGust             *float64   `json:"windGust,omitempty"`
	WindBearing          *float64   `json:"windBearing,omitempty"`
	CloudCover           *float64   `json:"cloudCover,omitempty"`
	UVIndex              *float64   `json:"uvIndex,omitempty"`
	Visibility           *float64   `json:"visibility,omitempty"`
	Ozone                *float64   `json:"ozone,omitempty"`
}

type HourlyDataPoint struct {
	DataPoint
	PrecipAccumulation *float64 `json:"precipAccumulation,omitempty"`
}

type DailyDataPoint struct {
	Time                        *Timestamp `json:"time,omitempty"`
	Summary                     *string    `json:"summary,omitempty"`
	Icon                        *string    `json:"icon,omitempty"`
	SunriseTime                 *Timestamp `json:"sunriseTime,omitempty"`
	SunsetTime                  *Timestamp `json:"sunsetTime,omitempty"`
	MoonPhase                   *float64   `json:"moonPhase,omitempty"`
	PrecipIntensity             *float64   `json:"precipIntensity,omitempty"`
	PrecipIntensityMax          *float64   `json:"precipIntensityMax,omitempty"`
	PrecipIntensityMaxTime      *Timestamp `json:"precipIntensityMaxTime,omitempty"`
	PrecipProbability           *float64   `json:"precipProbability,omitempty"`
	PrecipAccumulation          *float64   `json:"precipAccumulation,omitempty"`
	PrecipType                  *string    `json:"precipType,omitempty"`
	TemperatureHigh             *float64   `json:"temperatureHigh,omitempty"`
	TemperatureHighTime         *Timestamp `json:"temperatureHighTime,omitempty"`
	TemperatureLow              *float64   `json:"temperatureLow,omitempty"`
	TemperatureLowTime          *Timestamp `json:"temperatureLowTime,omitempty"`
	ApparentTemperatureHigh     *float64   `json:"apparentTemperatureHigh,omitempty"`
	ApparentTemperatureHighTime *Timestamp `json:"apparentTemperatureHighTime,omitempty"`
	ApparentTemperatureLow      *float64   `json:"apparentTemperatureLow,omitempty"`
	ApparentTemperatureLowTime  *Timestamp `json:"apparentTemperatureLowTime,omitempty"`
	TemperatureMin              *float64   `json:"temperatureMin,omitempty"`
	TemperatureMinTime          *Timestamp `json:"temperatureMinTime,omitempty"`
	TemperatureMax              *float64   `json:"temperatureMax,omitempty"`
	TemperatureMaxTime          *Timestamp `json:"temperatureMaxTime,omitempty"`
	ApparentTemperatureMin      *float64   `json:"apparentTemperatureMin,omitempty"`
	ApparentTemperatureMinTime  *Timestamp `json:"apparentTemperatureMinTime,omitempty"`
	ApparentTemperatureMax      *float64   `json:"apparentTemperatureMax,omitempty"`
	ApparentTemperatureMaxTime  *Timestamp `json:"apparentTemperatureMaxTime,omitempty"`
	DewPoint                    *float64   `json:"dewPoint,omitempty"`
	Humidity                    *float64   `json:"humidity,omitempty"`
	Pressure                    *float64   `json:"pressure,omitempty"`
	WindSpeed                   *float64   `json:"windSpeed,omitempty"`
	WindGust                    *float64   `json:"windGust,omitempty"`
	WindGustTime                *Timestamp `json:"windGustTime,omitempty"`
	WindBearing                 *float64   `json:"windBearing,omitempty"`
	CloudCover                  *float64   `json:"cloudCover,omitempty"`
	UVIndex                     *float64   `json:"uvIndex,omitempty"`
	UVIndexTime                 *Timestamp `json:"uvIndexTime,omitempty"`
	Visibility                  *float64   `json:"visibility,omitempty"`
	Ozone                       *float64   `json:"ozone,omitempty"`
}

// DataBlock is the minutely block.
type DataBlock struct {
	Summary *string     `json:"summary,omitempty"`
	Icon    *string     `json:"icon,omitempty"`
	Data    []DataPoint `json:"data,omitempty"`
}

type HourlyBlock struct {
	Summary *string           `json:"summary,omitempty"`
	Icon    *string           `json:"icon,omitempty"`
	Data    []HourlyDataPoint `json:"data,omitempty"`
}

type DailyBlock struct {
	Summary *string          `json:"summary,omitempty"`
	Icon    *string          `json:"icon,omitempty"`
	Data    []DailyDataPoint `json:"data,omitempty"`
}

// Severity of a weather alert.
type Severity string

const (
	// SeverityAdvisory: be aware of potentially severe weather.
	SeverityAdvisory Severity = "advisory"
	// SeverityWatch: prepare for potentially severe weather.
	SeverityWatch Severity = "watch"
	// SeverityWarning: take immediate action.
	SeverityWarning Severity = "warning"
)

type Alert struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Time        *Timestamp `json:"time,omitempty"`
	Expires     *Timestamp `json:"expires,omitempty"`
	Regions     []string   `json:"regions,omitempty"`
	Severity    *Severity  `json:"severity,omitempty"`
	URI         *string    `json:"uri,omitempty"`
}

type Flags struct {
	Units              *string  `json:"units,omitempty"`
	DarkskyUnavailable *bool    `json:"darksky-unavailable,omitempty"`
	MetnoLicense       *bool    `json:"metno-license,omitempty"`
	NearestStation     *float64 `json:"nearest-station,omitempty"`
	Sources            []string `json:"sources,omitempty"`
}

// Timestamp is an instant encoded as Unix seconds. Fractional seconds are kept.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if i, err := n.Int64(); err == nil {
		t.Time = time.Unix(i, 0).UTC()
		return nil
	}
	f, err := n.Float64()
	if err != nil {
		return fmt.Errorf("timestamp %q: %w", n, err)
	}
	sec, frac := math.Modf(f)
	t.Time = time.Unix(int64(sec), int64(frac*float64(time.Second))).UTC()
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(t.Unix(), 10)), nil
}
