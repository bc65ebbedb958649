// Package api is the client for the remote technical-analysis service.
package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/phuslu/log"
)

const DefaultBaseURL = "http://localhost:8000"

const (
	pathAnalyze       = "/analyze"
	pathHealth        = "/health"
	pathConfig        = "/config"
	pathIndicators    = "/indicators"
	pathCryptoSymbols = "/crypto-symbols"
)

// Client is a stateless gateway to the analysis service. Every call is a
// single round trip: no caching and no retries.
type Client struct {
	baseURL string
	http    *resty.Client
	logger  *log.Logger
}

// Option configures a Client at construction.
type Option func(*Client)

// WithTimeout bounds every call. Zero leaves calls unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.SetTimeout(d)
		}
	}
}

// WithHeaders adds headers to every call.
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		c.http.SetHeaders(headers)
	}
}

// WithLogger sends request and resty diagnostics to logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
			c.http.SetLogger(restyLogger{logger})
		}
	}
}

// RequestOption customizes a single call.
type RequestOption func(*resty.Request)

// WithHeader sets a header on one call, overriding client headers.
func WithHeader(key, value string) RequestOption {
	return func(r *resty.Request) {
		r.SetHeader(key, value)
	}
}

// NewClient returns a client for the service at baseURL, or DefaultBaseURL
// when baseURL is empty.
func NewClient(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	nop := &log.Logger{Level: log.ErrorLevel, Writer: &log.IOWriter{Writer: io.Discard}}

	rc := resty.New()
	rc.SetBaseURL(baseURL)
	rc.SetHeader("Content-Type", "application/json")
	rc.SetHeader("Accept", "application/json")
	rc.SetRetryCount(0)
	rc.SetLogger(restyLogger{nop})

	c := &Client{
		baseURL: baseURL,
		http:    rc,
		logger:  nop,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL is the normalized service root, without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetAnalysis posts req to /analyze.
func (c *Client) GetAnalysis(ctx context.Context, req AnalysisRequest, opts ...RequestOption) (*AnalysisResponse, error) {
	var out AnalysisResponse
	if err := c.do(ctx, http.MethodPost, pathAnalyze, req, &out, opts); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetHealthCheck(ctx context.Context, opts ...RequestOption) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.do(ctx, http.MethodGet, pathHealth, nil, &out, opts); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetConfig(ctx context.Context, opts ...RequestOption) (*ConfigResponse, error) {
	var out ConfigResponse
	if err := c.do(ctx, http.MethodGet, pathConfig, nil, &out, opts); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetIndicators(ctx context.Context, opts ...RequestOption) (*IndicatorsResponse, error) {
	var out IndicatorsResponse
	if err := c.do(ctx, http.MethodGet, pathIndicators, nil, &out, opts); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetCryptoSymbols(ctx context.Context, opts ...RequestOption) (*CryptoSymbolsResponse, error) {
	var out CryptoSymbolsResponse
	if err := c.do(ctx, http.MethodGet, pathCryptoSymbols, nil, &out, opts); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, opts []RequestOption) error {
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	for _, opt := range opts {
		opt(req)
	}

	start := time.Now()
	resp, err := req.Execute(method, path)
	if err != nil {
		c.logger.Warn().Str("method", method).Str("path", path).Err(err).Msg("analysis api request failed")
		return newTransportError(err)
	}

	status := resp.StatusCode()
	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", status).
		Dur("elapsed", time.Since(start)).
		Msg("analysis api call")

	if status < 200 || status >= 300 {
		apiErr := newStatusError(status, resp.Body())
		c.logger.Warn().Str("path", path).Int("status", status).Str("detail", apiErr.Detail).Msg("analysis api returned an error")
		return apiErr
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return newDecodeError(status, err)
	}
	return nil
}

// restyLogger routes resty's own diagnostics into our logger.
type restyLogger struct {
	logger *log.Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) {
	l.logger.Error().Msgf(strings.TrimSpace(format), v...)
}

func (l restyLogger) Warnf(format string, v ...interface{}) {
	l.logger.Warn().Msgf(strings.TrimSpace(format), v...)
}

func (l restyLogger) Debugf(format string, v ...interface{}) {
	l.logger.Debug().Msgf(strings.TrimSpace(format), v...)
}
