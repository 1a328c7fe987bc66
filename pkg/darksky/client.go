package darksky

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

const (
	defaultUserAgent = "darksky-forecast-go/1.0"
	errorBodyLimit   = 512
)

// Client executes forecast requests. It keeps no per-request state and is
// safe for concurrent use.
type Client struct {
	logger     *zap.Logger
	tracer     trace.Tracer
	userAgent  string
	transport  http.RoundTripper
	transports sync.Map // Timeouts -> *http.Transport
}

type ClientOption func(*Client)

func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithTracer(tracer trace.Tracer) ClientOption {
	return func(c *Client) {
		if tracer != nil {
			c.tracer = tracer
		}
	}
}

func WithUserAgent(userAgent string) ClientOption {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithTransport replaces the built-in transport. The request timeouts are
// then enforced only as an overall deadline, not per connect and read.
func WithTransport(rt http.RoundTripper) ClientOption {
	return func(c *Client) {
		c.transport = rt
	}
}

func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		logger:    zap.NewNop(),
		tracer:    noop.NewTracerProvider().Tracer("darksky"),
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ForecastJSONStream returns the unparsed response body. The caller must close it.
func (c *Client) ForecastJSONStream(ctx context.Context, req *Request) (io.ReadCloser, error) {
	ctx, span := c.tracer.Start(ctx, "darksky.ForecastJSONStream")
	defer span.End()

	resp, err := c.execute(ctx, span, req)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// ForecastJSONBytes returns the complete response body.
func (c *Client) ForecastJSONBytes(ctx context.Context, req *Request) ([]byte, error) {
	ctx, span := c.tracer.Start(ctx, "darksky.ForecastJSONBytes")
	defer span.End()

	return c.fetch(ctx, span, req)
}

func (c *Client) ForecastJSONString(ctx context.Context, req *Request) (string, error) {
	ctx, span := c.tracer.Start(ctx, "darksky.ForecastJSONString")
	defer span.End()

	body, err := c.fetch(ctx, span, req)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Forecast fetches and decodes the forecast.
func (c *Client) Forecast(ctx context.Context, req *Request) (*Forecast, error) {
	ctx, span := c.tracer.Start(ctx, "darksky.Forecast")
	defer span.End()

	body, err := c.fetch(ctx, span, req)
	if err != nil {
		return nil, err
	}

	forecast, err := UnmarshalForecast(body)
	if err != nil {
		c.logger.Warn("Failed to decode forecast", zap.Int("body_size", len(body)), zap.Error(err))
		recordError(span, err)
		return nil, err
	}
	return forecast, nil
}

func (c *Client) fetch(ctx context.Context, span trace.Span, req *Request) ([]byte, error) {
	resp, err := c.execute(ctx, span, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	switch {
	case errors.Is(err, io.ErrUnexpectedEOF):
		err = prematureEOF(int64(len(body)), resp.ContentLength, err)
	case err != nil:
		err = fetchFailed(resp.StatusCode, "cannot read response body", err)
	case resp.ContentLength >= 0 && int64(len(body)) < resp.ContentLength:
		err = prematureEOF(int64(len(body)), resp.ContentLength, nil)
	}
	if err != nil {
		c.logger.Warn("Failed to read forecast response", zap.Int("bytes_read", len(body)), zap.Error(err))
		recordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("http.response_size", len(body)))
	return body, nil
}

// execute performs the GET. On success the caller owns resp.Body.
func (c *Client) execute(ctx context.Context, span trace.Span, req *Request) (*http.Response, error) {
	if req == nil {
		err := missingParameter("request")
		recordError(span, err)
		return nil, err
	}

	target := req.redacted
	span.SetAttributes(
		attribute.String("http.method", http.MethodGet),
		attribute.String("http.url", target),
	)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.url.String(), nil)
	if err != nil {
		err = invalidURL("cannot create request", err)
		recordError(span, err)
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(httpReq.Header))

	c.logger.Debug("Executing forecast request",
		zap.String("url", target),
		zap.Duration("connect_timeout", req.timeouts.Connect),
		zap.Duration("read_timeout", req.timeouts.Read))

	start := time.Now()
	resp, err := c.httpClient(req.timeouts).Do(httpReq)
	if err != nil {
		// *url.Error repeats the full URL, key included.
		var ue *url.Error
		if errors.As(err, &ue) {
			err = ue.Err
		}
		c.logger.Warn("Forecast request failed", zap.String("url", target), zap.Error(err))
		err = fetchFailed(0, "forecast cannot be fetched", err)
		recordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	c.logger.Debug("Received forecast response",
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		msg := resp.Status
		if s := strings.TrimSpace(string(snippet)); s != "" {
			msg = fmt.Sprintf("%s: %s", resp.Status, s)
		}
		c.logger.Warn("Forecast API returned error status",
			zap.String("url", target),
			zap.Int("status", resp.StatusCode),
			zap.String("message", msg))
		err = fetchFailed(resp.StatusCode, msg, nil)
		recordError(span, err)
		return nil, err
	}

	return resp, nil
}

func (c *Client) httpClient(t Timeouts) *http.Client {
	if c.transport != nil {
		return &http.Client{Transport: c.transport, Timeout: t.Connect + t.Read}
	}
	if tr, ok := c.transports.Load(t); ok {
		return &http.Client{Transport: tr.(*http.Transport)}
	}
	tr, _ := c.transports.LoadOrStore(t, newTransport(t))
	return &http.Client{Transport: tr.(*http.Transport)}
}

func newTransport(t Timeouts) *http.Transport {
	dialer := &net.Dialer{Timeout: t.Connect, KeepAlive: 30 * time.Second}

	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.Proxy = http.ProxyFromEnvironment
	tr.TLSHandshakeTimeout = t.Connect
	tr.ResponseHeaderTimeout = t.Read
	tr.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := dialer.DialContext(ctx, network, addr)
		if err != nil || t.Read == 0 {
			return conn, err
		}
		return &readTimeoutConn{Conn: conn, timeout: t.Read}, nil
	}
	return tr
}

// readTimeoutConn bounds every Read, like a socket read timeout.
type readTimeoutConn struct {
	net.Conn
	timeout time.Duration
}

func (c *readTimeoutConn) Read(p []byte) (int, error) {
	if err := c.Conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
		return 0, err
	}
	return c.Conn.Read(p)
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
