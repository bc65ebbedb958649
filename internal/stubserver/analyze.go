package stubserver

import (
	"errors"
	"fmt"
	"hash/fnv"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dyike/cortexdash/internal/api"
)

const dateLayout = "2006-01-02"

var basePrices = map[string]float64{
	"BTC":   43250,
	"ETH":   2250,
	"ADA":   0.52,
	"SOL":   98,
	"DOT":   7.4,
	"LINK":  14.6,
	"XRP":   0.61,
	"DOGE":  0.082,
	"AVAX":  35,
	"MATIC": 0.84,
}

var recommendations = []string{"BUY", "HOLD", "SELL"}

var reasons = map[string]string{
	"BUY":  "Price is trading above its moving averages with rising volume; momentum indicators confirm the uptrend.",
	"HOLD": "Indicators are mixed; price is consolidating near its averages without a clear breakout.",
	"SELL": "Price broke below key support and momentum indicators point to continued weakness.",
}

// analyze builds a response for req. Tickers outside CryptoSymbols are left
// out of ticker_data. The returned status is meaningful only with an error.
func analyze(req api.AnalysisRequest) (*api.AnalysisResponse, int, error) {
	if len(req.Tickers) == 0 {
		return nil, http.StatusUnprocessableEntity, errors.New("at least one ticker is required")
	}
	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, http.StatusUnprocessableEntity, fmt.Errorf("invalid start_date %q, expected YYYY-MM-DD", req.StartDate)
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return nil, http.StatusUnprocessableEntity, fmt.Errorf("invalid end_date %q, expected YYYY-MM-DD", req.EndDate)
	}
	if end.Before(start) {
		return nil, http.StatusUnprocessableEntity, errors.New("end_date must not be before start_date")
	}

	resp := &api.AnalysisResponse{
		OverallSummary: []api.SummaryRow{},
		TickerAnalyses: []api.TickerAnalysis{},
		TickerData:     map[string]api.TickerData{},
		Settings: api.AnalysisSettings{
			CryptoSymbols:       CryptoSymbols,
			TechnicalIndicators: req.Indicators,
		},
	}
	if resp.Settings.TechnicalIndicators == nil {
		resp.Settings.TechnicalIndicators = []string{}
	}

	days := max(int(end.Sub(start).Hours()/24), 1)
	for _, raw := range req.Tickers {
		ticker := strings.ToUpper(strings.TrimSpace(raw))
		if ticker == FailTicker {
			return nil, http.StatusInternalServerError, errors.New("analysis engine failure")
		}
		if !slices.Contains(CryptoSymbols, ticker) {
			continue
		}

		data := synthesize(ticker, req, days)
		resp.TickerData[ticker] = data
		resp.OverallSummary = append(resp.OverallSummary, api.SummaryRow{Stock: ticker, Recommendation: data.Recommendation})
		resp.TickerAnalyses = append(resp.TickerAnalyses, api.TickerAnalysis{
			Ticker:       ticker,
			PriceMetrics: data.PriceMetrics,
			Analysis: api.AnalysisResult{
				Action:        data.Recommendation,
				Justification: *data.JustificationDetails,
			},
			IsCrypto: true,
		})
	}
	return resp, http.StatusOK, nil
}

// synthesize derives stable metrics from a hash of the ticker and the
// requested window, so the same request always gets the same answer.
func synthesize(ticker string, req api.AnalysisRequest, days int) api.TickerData {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%s|%s|%s", ticker, req.StartDate, req.EndDate, strings.Join(req.Indicators, ","))
	seed := h.Sum64()

	base := basePrices[ticker]
	// change in [-25%, +35%)
	changePct := float64(seed%6000)/100 - 25
	current := base * (1 + changePct/100)
	change := current - base
	high := current * (1 + float64(seed>>8%2000)/10000)
	low := min(base, current) * (1 - float64(seed>>16%3000)/10000)
	volume := base * float64(1_000_000+seed>>24%50_000_000)

	rec := recommendations[seed>>32%uint64(len(recommendations))]
	confidence := round(0.55+float64(seed>>40%40)/100, 2)

	periodDays := float64(days)
	periodLabel := fmt.Sprintf("%dD", days)
	metrics := api.PriceMetrics{
		CurrentPrice:          round(current, 6),
		PriceChange:           round(change, 6),
		PriceChangePercentage: round(changePct, 2),
		High52w:               round(high, 6),
		Low52w:                round(low, 6),
		Volume:                round(volume, 0),
		PeriodDays:            &periodDays,
		PeriodLabel:           &periodLabel,
	}
	if base >= 1 {
		marketCap := round(current*float64(10_000_000+seed>>48%900_000_000), 0)
		metrics.MarketCap = &marketCap
	}

	return api.TickerData{
		PriceMetrics:         metrics,
		Recommendation:       rec,
		Confidence:           &confidence,
		JustificationDetails: &api.JustificationDetails{Reasoning: reasons[rec]},
	}
}

func round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}
