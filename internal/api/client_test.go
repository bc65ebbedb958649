package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, opts...)
}

func TestGetAnalysisPostsJSON(t *testing.T) {
	var got AnalysisRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/analyze", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"overall_summary": [{"Stock": "BTC", "Recommendation": "BUY"}],
			"ticker_analyses": [],
			"ticker_data": {"BTC": {"price_metrics": {"current_price": 43000.5, "price_change_percentage": 2.5}, "recommendation": "BUY", "confidence": 0.8, "unexpected": true}},
			"settings": {"crypto_symbols": ["BTC"], "technical_indicators": ["20-Day SMA"]}
		}`)
	})

	req := AnalysisRequest{
		Tickers:    []string{"BTC"},
		StartDate:  "2024-01-01",
		EndDate:    "2024-12-31",
		Indicators: []string{"20-Day SMA"},
	}
	resp, err := client.GetAnalysis(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, req, got)
	require.Contains(t, resp.TickerData, "BTC")
	btc := resp.TickerData["BTC"]
	assert.Equal(t, "BUY", btc.Recommendation)
	assert.InDelta(t, 43000.5, btc.PriceMetrics.CurrentPrice, 1e-9)
	require.NotNil(t, btc.Confidence)
	assert.InDelta(t, 0.8, *btc.Confidence, 1e-9)
	assert.Nil(t, btc.PriceMetrics.MarketCap)
	assert.Equal(t, []SummaryRow{{Stock: "BTC", Recommendation: "BUY"}}, resp.OverallSummary)
}

func TestGetEndpoints(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		switch r.URL.Path {
		case "/health":
			_, _ = io.WriteString(w, `{"status":"healthy","timestamp":"2024-05-01T10:00:00Z"}`)
		case "/config":
			_, _ = io.WriteString(w, `{"default_tickers":["BTC","SOL"],"default_lookback_days":90,"crypto_symbols":["BTC","SOL","ETH"],"technical_indicators":["20-Day SMA","RSI"],"recommendation_options":["BUY","HOLD","SELL"]}`)
		case "/indicators":
			_, _ = io.WriteString(w, `{"indicators":["20-Day SMA","MACD"]}`)
		case "/crypto-symbols":
			_, _ = io.WriteString(w, `{"crypto_symbols":["BTC","ETH"]}`)
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	health, err := client.GetHealthCheck(ctx)
	require.NoError(t, err)
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "2024-05-01T10:00:00Z", health.Timestamp)

	cfg, err := client.GetConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"BTC", "SOL"}, cfg.DefaultTickers)
	assert.Equal(t, 90.0, cfg.DefaultLookbackDays)
	assert.Equal(t, []string{"BUY", "HOLD", "SELL"}, cfg.RecommendationOptions)

	indicators, err := client.GetIndicators(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"20-Day SMA", "MACD"}, indicators.Indicators)

	symbols, err := client.GetCryptoSymbols(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"BTC", "ETH"}, symbols.CryptoSymbols)
}

func TestGetConfigAcceptsFractionalNumbers(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"default_tickers":["ETH"],"default_lookback_days":365.0,"crypto_symbols":["BTC","ETH"],"technical_indicators":["RSI"],"recommendation_options":[]}`)
	})

	cfg, err := client.GetConfig(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 365.0, cfg.DefaultLookbackDays)
	assert.Equal(t, []string{"ETH"}, cfg.DefaultTickers)
	assert.Equal(t, []string{"RSI"}, cfg.TechnicalIndicators)
}

func TestStructuredErrorBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"detail":"db unavailable","status_code":500}`)
	})

	_, err := client.GetAnalysis(context.Background(), AnalysisRequest{Tickers: []string{"BTC"}})
	require.Error(t, err)
	assert.Equal(t, "db unavailable", err.Error())

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 500, apiErr.StatusCode)
}

func TestUnparseableErrorBody(t *testing.T) {
	for name, body := range map[string]string{
		"empty":        "",
		"html":         "<html>oops</html>",
		"no detail":    `{"message":"boom"}`,
		"empty detail": `{"detail":"","status_code":500}`,
	} {
		t.Run(name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = io.WriteString(w, body)
			})

			_, err := client.GetConfig(context.Background())
			require.Error(t, err)
			assert.Equal(t, "HTTP 500: Internal Server Error", err.Error())
		})
	}
}

func TestStatusCodeFilledWhenBodyOmitsIt(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = io.WriteString(w, `{"detail":"unknown ticker XYZ"}`)
	})

	_, err := client.GetAnalysis(context.Background(), AnalysisRequest{Tickers: []string{"XYZ"}})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "unknown ticker XYZ", apiErr.Detail)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
}

func TestMalformedSuccessBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"status": `)
	})

	_, err := client.GetHealthCheck(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid response")

	var syntaxErr *json.SyntaxError
	assert.True(t, errors.As(err, &syntaxErr))
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewClient(url)
	_, err := client.GetHealthCheck(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request failed")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Zero(t, apiErr.StatusCode)
}

func TestCanceledContext(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.GetConfig(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHeadersMerged(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "client", r.Header.Get("X-Source"))
		assert.Equal(t, "abc-123", r.Header.Get("X-Request-ID"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, _ = io.WriteString(w, `{"indicators":[]}`)
	}, WithHeaders(map[string]string{"X-Source": "client"}))

	_, err := client.GetIndicators(context.Background(), WithHeader("X-Request-ID", "abc-123"))
	require.NoError(t, err)
}

func TestNewClientDefaultsBaseURL(t *testing.T) {
	assert.Equal(t, DefaultBaseURL, NewClient("").BaseURL())
	assert.Equal(t, "http://api.local:8000", NewClient("http://api.local:8000/").BaseURL())
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "Analysis failed", Message(nil, "Analysis failed"))
	assert.Equal(t, "Analysis failed", Message(&APIError{}, "Analysis failed"))
	assert.Equal(t, "db unavailable", Message(&APIError{Detail: "db unavailable"}, "Analysis failed"))
	assert.Equal(t, "boom", Message(errors.New("boom"), "Analysis failed"))
}
