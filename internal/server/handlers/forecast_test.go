package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vzahanych/darksky-forecast/internal/service"
	"github.com/vzahanych/darksky-forecast/pkg/darksky"
	"go.uber.org/zap/zaptest"
)

type fakeService struct {
	mu       sync.Mutex
	queries  []service.Query
	forecast *darksky.Forecast
	body     []byte
	err      error
}

func (f *fakeService) Forecast(ctx context.Context, q service.Query) (*darksky.Forecast, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	return f.forecast, f.err
}

func (f *fakeService) ForecastJSON(ctx context.Context, q service.Query) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	return f.body, f.err
}

func (f *fakeService) Name() string { return "fake" }

type callRecorder struct {
	calls []bool
}

func (r *callRecorder) RecordForecastCall(ctx context.Context, service string, success bool) {
	r.calls = append(r.calls, success)
}

func newTestRouter(t *testing.T, svc service.ForecastService, rec CallRecorder) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/forecast", NewForecastHandler(svc, rec, zaptest.NewLogger(t)).GetForecast)
	return r
}

func doGet(r http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestGetForecast_Success(t *testing.T) {
	tz := "Europe/Berlin"
	svc := &fakeService{forecast: &darksky.Forecast{Timezone: &tz}}
	rec := &callRecorder{}
	r := newTestRouter(t, svc, rec)

	w := doGet(r, "/forecast?lat=52.516275&lon=13.377704&units=us&exclude=minutely,hourly&extend=true&time=1509993277")
	require.Equal(t, http.StatusOK, w.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Europe/Berlin", got["timezone"])

	require.Len(t, svc.queries, 1)
	q := svc.queries[0]
	assert.Equal(t, "52.516275", q.Latitude)
	assert.Equal(t, "13.377704", q.Longitude)
	assert.Equal(t, "us", q.Units)
	assert.Equal(t, "minutely,hourly", q.Exclude)
	assert.True(t, q.ExtendHourly)
	require.NotNil(t, q.Time)
	assert.Equal(t, int64(1509993277), q.Time.Unix())

	assert.Equal(t, []bool{true}, rec.calls)
}

func TestGetForecast_EquatorAndPrimeMeridian(t *testing.T) {
	svc := &fakeService{forecast: &darksky.Forecast{}}
	r := newTestRouter(t, svc, nil)

	w := doGet(r, "/forecast?lat=0&lon=0")
	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, svc.queries, 1)
	assert.Equal(t, "0", svc.queries[0].Latitude)
	assert.Equal(t, "0", svc.queries[0].Longitude)
}

func TestGetForecast_Raw(t *testing.T) {
	svc := &fakeService{body: []byte(`{"timezone":"Europe/Berlin","unknown":1}`)}
	r := newTestRouter(t, svc, nil)

	w := doGet(r, "/forecast?lat=52.5&lon=13.4&raw=true")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `{"timezone":"Europe/Berlin","unknown":1}`, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
}

func TestGetForecast_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"missing lat", "/forecast?lon=13.4"},
		{"missing lon", "/forecast?lat=52.5"},
		{"lat out of range", "/forecast?lat=91&lon=13.4"},
		{"lon out of range", "/forecast?lat=52.5&lon=-181"},
		{"lat not a number", "/forecast?lat=north&lon=13.4"},
		{"unknown units", "/forecast?lat=52.5&lon=13.4&units=kelvin"},
		{"negative time", "/forecast?lat=52.5&lon=13.4&time=-5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{}
			rec := &callRecorder{}
			r := newTestRouter(t, svc, rec)

			w := doGet(r, tt.target)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "INVALID_PARAMS", resp.Code)
			assert.Empty(t, svc.queries)
			assert.Empty(t, rec.calls)
		})
	}
}

func TestGetForecast_UpstreamErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   int
		code     string
		recorded []bool
	}{
		{
			name:     "invalid language from library",
			err:      &darksky.ForecastError{Kind: darksky.KindInvalidParameter, Field: "language"},
			status:   http.StatusBadRequest,
			code:     "INVALID_PARAMS",
			recorded: nil,
		},
		{
			name:     "upstream status",
			err:      &darksky.ForecastError{Kind: darksky.KindFetchFailed, Status: http.StatusForbidden, Message: "403 Forbidden"},
			status:   http.StatusBadGateway,
			code:     "UPSTREAM_ERROR",
			recorded: []bool{false},
		},
		{
			name:     "transport failure",
			err:      &darksky.ForecastError{Kind: darksky.KindFetchFailed, Err: errors.New("connection refused")},
			status:   http.StatusGatewayTimeout,
			code:     "UPSTREAM_UNAVAILABLE",
			recorded: []bool{false},
		},
		{
			name:     "truncated body",
			err:      &darksky.ForecastError{Kind: darksky.KindPrematureEOF},
			status:   http.StatusBadGateway,
			code:     "UPSTREAM_TRUNCATED",
			recorded: []bool{false},
		},
		{
			name:     "malformed body",
			err:      fmt.Errorf("wrapped: %w", &darksky.ForecastError{Kind: darksky.KindDecodeFailed}),
			status:   http.StatusBadGateway,
			code:     "UPSTREAM_MALFORMED",
			recorded: []bool{false},
		},
		{
			name:     "unknown error",
			err:      errors.New("boom"),
			status:   http.StatusInternalServerError,
			code:     "INTERNAL_ERROR",
			recorded: []bool{false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &callRecorder{}
			r := newTestRouter(t, &fakeService{err: tt.err}, rec)

			w := doGet(r, "/forecast?lat=52.5&lon=13.4")
			assert.Equal(t, tt.status, w.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Code)
			assert.Equal(t, tt.recorded, rec.calls)
		})
	}
}

func TestStatusForError_InvalidURL(t *testing.T) {
	status, code := StatusForError(&darksky.ForecastError{Kind: darksky.KindInvalidURL})
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "INVALID_URL", code)
}
