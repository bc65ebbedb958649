package stubserver

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyike/cortexdash/internal/api"
	"github.com/dyike/cortexdash/internal/logger"
)

func newTestClient(t *testing.T) *api.Client {
	t.Helper()
	srv := httptest.NewServer(New(logger.Nop()).Handler())
	t.Cleanup(srv.Close)
	return api.NewClient(srv.URL)
}

func validRequest(tickers ...string) api.AnalysisRequest {
	return api.AnalysisRequest{
		Tickers:    tickers,
		StartDate:  "2023-01-15",
		EndDate:    "2024-01-15",
		Indicators: []string{"RSI"},
	}
}

func TestGetEndpoints(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	health, err := client.GetHealthCheck(ctx)
	require.NoError(t, err)
	assert.Equal(t, "healthy", health.Status)
	_, err = time.Parse(time.RFC3339, health.Timestamp)
	assert.NoError(t, err)

	cfg, err := client.GetConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultTickers, cfg.DefaultTickers)
	assert.Equal(t, TechnicalIndicators, cfg.TechnicalIndicators)
	assert.Equal(t, 365.0, cfg.DefaultLookbackDays)

	indicators, err := client.GetIndicators(ctx)
	require.NoError(t, err)
	assert.Equal(t, TechnicalIndicators, indicators.Indicators)

	symbols, err := client.GetCryptoSymbols(ctx)
	require.NoError(t, err)
	assert.Equal(t, CryptoSymbols, symbols.CryptoSymbols)
}

func TestAnalyze(t *testing.T) {
	client := newTestClient(t)

	resp, err := client.GetAnalysis(context.Background(), validRequest("BTC", "eth", "NOPE"))
	require.NoError(t, err)

	require.Len(t, resp.TickerData, 2)
	assert.Contains(t, resp.TickerData, "BTC")
	assert.Contains(t, resp.TickerData, "ETH")
	assert.NotContains(t, resp.TickerData, "NOPE")
	assert.Len(t, resp.OverallSummary, 2)
	assert.Len(t, resp.TickerAnalyses, 2)
	assert.Equal(t, []string{"RSI"}, resp.Settings.TechnicalIndicators)

	btc := resp.TickerData["BTC"]
	assert.Contains(t, []string{"BUY", "HOLD", "SELL"}, btc.Recommendation)
	assert.Greater(t, btc.PriceMetrics.CurrentPrice, 0.0)
	assert.GreaterOrEqual(t, btc.PriceMetrics.High52w, btc.PriceMetrics.CurrentPrice)
	assert.LessOrEqual(t, btc.PriceMetrics.Low52w, btc.PriceMetrics.CurrentPrice)
	require.NotNil(t, btc.PriceMetrics.PeriodLabel)
	assert.Equal(t, "365D", *btc.PriceMetrics.PeriodLabel)
	require.NotNil(t, btc.Confidence)
	assert.InDelta(t, 0.75, *btc.Confidence, 0.21)
	require.NotNil(t, btc.JustificationDetails)
	assert.NotEmpty(t, btc.JustificationDetails.Reasoning)
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	client := newTestClient(t)

	first, err := client.GetAnalysis(context.Background(), validRequest("SOL"))
	require.NoError(t, err)
	second, err := client.GetAnalysis(context.Background(), validRequest("SOL"))
	require.NoError(t, err)

	assert.Equal(t, first.TickerData, second.TickerData)
}

func TestAnalyzeValidation(t *testing.T) {
	client := newTestClient(t)

	cases := map[string]struct {
		req    api.AnalysisRequest
		status int
		detail string
	}{
		"no tickers": {
			req:    validRequest(),
			status: http.StatusUnprocessableEntity,
			detail: "at least one ticker is required",
		},
		"bad start": {
			req:    api.AnalysisRequest{Tickers: []string{"BTC"}, StartDate: "yesterday", EndDate: "2024-01-15"},
			status: http.StatusUnprocessableEntity,
			detail: `invalid start_date "yesterday", expected YYYY-MM-DD`,
		},
		"reversed window": {
			req:    api.AnalysisRequest{Tickers: []string{"BTC"}, StartDate: "2024-02-01", EndDate: "2024-01-15"},
			status: http.StatusUnprocessableEntity,
			detail: "end_date must not be before start_date",
		},
		"engine failure": {
			req:    validRequest("BTC", FailTicker),
			status: http.StatusInternalServerError,
			detail: "analysis engine failure",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := client.GetAnalysis(context.Background(), tc.req)
			require.Error(t, err)
			assert.Equal(t, tc.detail, err.Error())

			var apiErr *api.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tc.status, apiErr.StatusCode)
		})
	}
}

func TestUnknownRoute(t *testing.T) {
	srv := httptest.NewServer(New(logger.Nop()).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- New(logger.Nop()).ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

type brokenWriter struct {
	*httptest.ResponseRecorder
}

func (brokenWriter) Write([]byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestWriteJSONLogsEncodeFailure(t *testing.T) {
	var buf bytes.Buffer
	s := New(logger.New("debug", &buf))

	s.writeJSON(brokenWriter{httptest.NewRecorder()}, http.StatusOK, api.HealthResponse{Status: "healthy"})
	assert.Contains(t, buf.String(), "failed to write response")
	assert.Contains(t, buf.String(), "connection reset")
}
