package darksky

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"
)

// URL template tokens.
const (
	TokenKey       = "##key##"
	TokenLatitude  = "##latitude##"
	TokenLongitude = "##longitude##"
	TokenTime      = "##time##"
)

const DefaultURLTemplate = "https://api.darksky.net/forecast/" + TokenKey + "/" + TokenLatitude + "," + TokenLongitude + TokenTime

const redactedKey = "REDACTED"

const (
	DefaultLanguage = English
	DefaultUnits    = UnitsSI
)

// Request is a fully resolved forecast request. Build one with RequestBuilder.
type Request struct {
	url url.URL
	// redacted is the same URL with the key replaced, for logs and spans.
	redacted string
	timeouts Timeouts
}

// URL returns a copy of the request URL.
func (r *Request) URL() *url.URL {
	u := r.url
	return &u
}

func (r *Request) Timeouts() Timeouts {
	return r.timeouts
}

func (r *Request) String() string {
	return fmt.Sprintf("Request{url=%s, connect=%s, read=%s}", r.redacted, r.timeouts.Connect, r.timeouts.Read)
}

// RequestBuilder accumulates request options. Every setter returns a new
// builder and leaves the receiver untouched, so a builder can be shared and
// used as a template for several requests.
type RequestBuilder struct {
	key          APIKey
	location     GeoCoordinates
	language     Language
	units        Units
	exclude      []Block
	extendHourly bool
	urlTemplate  string
	time         *time.Time
	timeouts     Timeouts
	err          error
}

func NewRequestBuilder() RequestBuilder {
	return RequestBuilder{
		language: DefaultLanguage,
		units:    DefaultUnits,
		timeouts: DefaultTimeouts,
	}
}

func (b RequestBuilder) Key(key APIKey) RequestBuilder {
	b.key = key
	return b
}

func (b RequestBuilder) Location(location GeoCoordinates) RequestBuilder {
	b.location = location
	return b
}

func (b RequestBuilder) Language(language Language) RequestBuilder {
	if !language.valid() {
		return b.fail(invalidParameter("language", fmt.Errorf("unknown language %d", int(language))))
	}
	b.language = language
	return b
}

func (b RequestBuilder) Units(units Units) RequestBuilder {
	if !units.valid() {
		return b.fail(invalidParameter("units", fmt.Errorf("unknown units %d", int(units))))
	}
	b.units = units
	return b
}

// Exclude adds blocks to omit from the response. Repeated calls accumulate;
// the query keeps the order in which blocks were first added.
func (b RequestBuilder) Exclude(blocks ...Block) RequestBuilder {
	exclude := slices.Clone(b.exclude)
	for _, block := range blocks {
		if !block.valid() {
			return b.fail(invalidParameter("exclude", fmt.Errorf("unknown block %d", int(block))))
		}
		if !slices.Contains(exclude, block) {
			exclude = append(exclude, block)
		}
	}
	b.exclude = exclude
	return b
}

// ExtendHourly requests hour-by-hour data for the next 168 hours instead of 48.
func (b RequestBuilder) ExtendHourly() RequestBuilder {
	b.extendHourly = true
	return b
}

// Time turns the request into a time machine request for the given instant.
func (b RequestBuilder) Time(t time.Time) RequestBuilder {
	b.time = &t
	return b
}

func (b RequestBuilder) Timeouts(timeouts Timeouts) RequestBuilder {
	if timeouts.Connect < 0 || timeouts.Read < 0 {
		return b.fail(invalidParameter("timeouts", errors.New("timeouts must not be negative")))
	}
	b.timeouts = timeouts
	return b
}

// URL overrides DefaultURLTemplate. The template must contain TokenKey,
// TokenLatitude and TokenLongitude; TokenTime is needed for time machine requests.
func (b RequestBuilder) URL(template string) RequestBuilder {
	b.urlTemplate = template
	return b
}

func (b RequestBuilder) fail(err error) RequestBuilder {
	if b.err == nil {
		b.err = err
	}
	return b
}

func (b RequestBuilder) Build() (*Request, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.key == "" {
		return nil, missingParameter("key")
	}
	if !b.location.IsSet() {
		return nil, missingParameter("location")
	}

	template := DefaultURLTemplate
	if b.urlTemplate != "" {
		template = b.urlTemplate
	}
	for _, token := range []string{TokenKey, TokenLatitude, TokenLongitude} {
		if !strings.Contains(template, token) {
			return nil, invalidURL(fmt.Sprintf("template %q lacks %s", template, token), nil)
		}
	}
	if b.time != nil && !strings.Contains(template, TokenTime) {
		return nil, invalidURL(fmt.Sprintf("template %q lacks %s", template, TokenTime), nil)
	}

	timeSegment := ""
	if b.time != nil {
		timeSegment = "," + strconv.FormatInt(b.time.Unix(), 10)
	}

	expand := func(key string) string {
		return strings.NewReplacer(
			TokenKey, key,
			TokenLatitude, b.location.Latitude().String(),
			TokenLongitude, b.location.Longitude().String(),
			TokenTime, timeSegment,
		).Replace(template) + b.query()
	}

	u, err := url.Parse(expand(url.PathEscape(b.key.String())))
	if err != nil {
		return nil, invalidURL("cannot parse request url", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, invalidURL(fmt.Sprintf("unsupported scheme %q", u.Scheme), nil)
	}
	if u.Host == "" {
		return nil, invalidURL("request url has no host", nil)
	}

	return &Request{url: *u, redacted: expand(redactedKey), timeouts: b.timeouts}, nil
}

func (b RequestBuilder) query() string {
	var params []string
	params = append(params, paramLanguage+"="+b.language.String())
	params = append(params, paramUnits+"="+b.units.String())
	if len(b.exclude) > 0 {
		names := make([]string, 0, len(b.exclude))
		for _, block := range b.exclude {
			names = append(names, block.String())
		}
		params = append(params, paramExclude+"="+strings.Join(names, ","))
	}
	if b.extendHourly {
		params = append(params, paramExtend+"="+BlockHourly.String())
	}
	return "?" + strings.Join(params, "&")
}
