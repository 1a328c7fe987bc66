package darksky

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// APIKey is the secret key appended to every request path.
type APIKey string

func NewAPIKey(key string) (APIKey, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", missingParameter("key")
	}
	return APIKey(key), nil
}

func (k APIKey) String() string {
	return string(k)
}

// Latitude in degrees, always within [-90, 90].
type Latitude struct {
	value float64
}

func NewLatitude(value float64) (Latitude, error) {
	if err := validate.Var(value, "gte=-90,lte=90"); err != nil {
		return Latitude{}, invalidParameter("latitude", fmt.Errorf("latitude must be between -90 and 90, got %v", value))
	}
	return Latitude{value: value}, nil
}

func NewLatitudeInt(value int) (Latitude, error) {
	return NewLatitude(float64(value))
}

// ParseLatitude parses a decimal string. An empty string counts as an absent value.
func ParseLatitude(s string) (Latitude, error) {
	v, err := parseCoordinate("latitude", s)
	if err != nil {
		return Latitude{}, err
	}
	return NewLatitude(v)
}

func (l Latitude) Value() float64 {
	return l.value
}

func (l Latitude) String() string {
	return formatCoordinate(l.value)
}

// Longitude in degrees, always within [-180, 180].
type Longitude struct {
	value float64
}

func NewLongitude(value float64) (Longitude, error) {
	if err := validate.Var(value, "gte=-180,lte=180"); err != nil {
		return Longitude{}, invalidParameter("longitude", fmt.Errorf("longitude must be between -180 and 180, got %v", value))
	}
	return Longitude{value: value}, nil
}

func NewLongitudeInt(value int) (Longitude, error) {
	return NewLongitude(float64(value))
}

// ParseLongitude parses a decimal string. An empty string counts as an absent value.
func ParseLongitude(s string) (Longitude, error) {
	v, err := parseCoordinate("longitude", s)
	if err != nil {
		return Longitude{}, err
	}
	return NewLongitude(v)
}

func (l Longitude) Value() float64 {
	return l.value
}

func (l Longitude) String() string {
	return formatCoordinate(l.value)
}

// GeoCoordinates locates the forecast. It is built with NewGeoCoordinates
// or ParseGeoCoordinates; the zero value means "not set".
type GeoCoordinates struct {
	longitude Longitude
	latitude  Latitude
	set       bool
}

func NewGeoCoordinates(lon Longitude, lat Latitude) GeoCoordinates {
	return GeoCoordinates{longitude: lon, latitude: lat, set: true}
}

func (g GeoCoordinates) Longitude() Longitude {
	return g.longitude
}

func (g GeoCoordinates) Latitude() Latitude {
	return g.latitude
}

// ParseGeoCoordinates builds coordinates from the textual longitude and latitude.
func ParseGeoCoordinates(lon, lat string) (GeoCoordinates, error) {
	longitude, err := ParseLongitude(lon)
	if err != nil {
		return GeoCoordinates{}, err
	}
	latitude, err := ParseLatitude(lat)
	if err != nil {
		return GeoCoordinates{}, err
	}
	return NewGeoCoordinates(longitude, latitude), nil
}

func (g GeoCoordinates) IsSet() bool {
	return g.set
}

// Timeouts bounds connecting to and reading from the API. Zero disables a timeout.
type Timeouts struct {
	Connect time.Duration
	Read    time.Duration
}

var DefaultTimeouts = Timeouts{Connect: 6 * time.Second, Read: 6 * time.Second}

func NewTimeouts(connect, read time.Duration) (Timeouts, error) {
	if connect < 0 {
		return Timeouts{}, invalidParameter("connect timeout", fmt.Errorf("must not be negative, got %s", connect))
	}
	if read < 0 {
		return Timeouts{}, invalidParameter("read timeout", fmt.Errorf("must not be negative, got %s", read))
	}
	return Timeouts{Connect: connect, Read: read}, nil
}

func parseCoordinate(field, s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, missingParameter(field)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, invalidParameter(field, err)
	}
	return v, nil
}

func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
