package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dyike/cortexdash/internal/api"
)

func f64(v float64) *float64 { return &v }

func str(v string) *string { return &v }

func sampleResponse() *api.AnalysisResponse {
	return &api.AnalysisResponse{TickerData: map[string]api.TickerData{
		"BTC": {Recommendation: RecommendationBuy, PriceMetrics: api.PriceMetrics{PriceChangePercentage: 12.5}},
		"ETH": {Recommendation: RecommendationBuy, PriceMetrics: api.PriceMetrics{PriceChangePercentage: -3}},
		"ADA": {Recommendation: RecommendationHold, PriceMetrics: api.PriceMetrics{PriceChangePercentage: 4.2}},
	}}
}

func TestRecommendationBreakdown(t *testing.T) {
	shares := RecommendationBreakdown(sampleResponse(), 3)

	assert.Equal(t, []RecommendationShare{
		{Recommendation: "BUY", Count: 2, Percentage: "66.7"},
		{Recommendation: "HOLD", Count: 1, Percentage: "33.3"},
		{Recommendation: "SELL", Count: 0, Percentage: "0.0"},
	}, shares)
}

func TestRecommendationBreakdownUsesSelectedCount(t *testing.T) {
	shares := RecommendationBreakdown(sampleResponse(), 4)
	assert.Equal(t, "50.0", shares[0].Percentage)

	shares = RecommendationBreakdown(nil, 0)
	for _, s := range shares {
		assert.Equal(t, 0, s.Count)
		assert.Equal(t, "0", s.Percentage)
	}
}

func TestTopPerformers(t *testing.T) {
	got := TopPerformers(sampleResponse(), 2)
	assert.Equal(t, []Performer{
		{Ticker: "BTC", ChangePercentage: 12.5},
		{Ticker: "ADA", ChangePercentage: 4.2},
	}, got)

	resp := &api.AnalysisResponse{TickerData: map[string]api.TickerData{
		"SOL": {PriceMetrics: api.PriceMetrics{PriceChangePercentage: 1}},
		"DOT": {PriceMetrics: api.PriceMetrics{PriceChangePercentage: 1}},
	}}
	got = TopPerformers(resp, DefaultTopPerformers)
	assert.Equal(t, []string{"DOT", "SOL"}, []string{got[0].Ticker, got[1].Ticker})

	assert.Nil(t, TopPerformers(nil, 3))
}

func TestTickerPanel(t *testing.T) {
	resp := sampleResponse()

	data, ok := TickerPanel(resp, "ADA")
	assert.True(t, ok)
	assert.Equal(t, RecommendationHold, data.Recommendation)

	_, ok = TickerPanel(resp, "XRP")
	assert.False(t, ok)

	_, ok = TickerPanel(nil, "BTC")
	assert.False(t, ok)
}

func TestTabs(t *testing.T) {
	s := newTestState()
	assert.Equal(t, []string{OverallTab, "BTC", "ETH", "ADA"}, Tabs(s))

	s.SelectedTickers = nil
	assert.Equal(t, []string{OverallTab}, Tabs(s))
}

func TestFormatPrice(t *testing.T) {
	cases := map[float64]string{
		43250.5:    "$43,250.50",
		1234567.89: "$1,234,567.89",
		0.000123:   "$0.000123",
		0.5:        "$0.50",
		2:          "$2.00",
		-1234.5:    "-$1,234.50",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatPrice(in), "%v", in)
	}
}

func TestFormatVolume(t *testing.T) {
	assert.Equal(t, "2.3B", FormatVolume(2_300_000_000))
	assert.Equal(t, "1.5M", FormatVolume(1_500_000))
	assert.Equal(t, "1.5K", FormatVolume(1_500))
	assert.Equal(t, "999", FormatVolume(999))
}

func TestFormatMarketCap(t *testing.T) {
	assert.Equal(t, "N/A", FormatMarketCap(nil))
	assert.Equal(t, "N/A", FormatMarketCap(f64(0)))
	assert.Equal(t, "1.20T", FormatMarketCap(f64(1.2e12)))
	assert.Equal(t, "850.0B", FormatMarketCap(f64(850e9)))
	assert.Equal(t, "12.5M", FormatMarketCap(f64(12.5e6)))
}

func TestFormatChangePercent(t *testing.T) {
	up := api.PriceMetrics{PriceChange: 100, PriceChangePercentage: 2.5}
	down := api.PriceMetrics{PriceChange: -40, PriceChangePercentage: -3.1}

	assert.Equal(t, "+2.50%", FormatChangePercent(up))
	assert.Equal(t, "-3.10%", FormatChangePercent(down))
	assert.Equal(t, TrendUp, PriceTrend(up))
	assert.Equal(t, TrendDown, PriceTrend(down))
	assert.Equal(t, TrendFlat, PriceTrend(api.PriceMetrics{}))

	assert.Equal(t, "+12.50%", FormatPercent(12.5))
	assert.Equal(t, "-3.00%", FormatPercent(-3))
	assert.Equal(t, "0.00%", FormatPercent(0))
}

func TestFormatConfidence(t *testing.T) {
	assert.Equal(t, "N/A", FormatConfidence(nil))
	assert.Equal(t, "N/A", FormatConfidence(f64(0)))
	assert.Equal(t, "85.0%", FormatConfidence(f64(0.85)))
}

func TestPeriodLabels(t *testing.T) {
	m := api.PriceMetrics{PeriodLabel: str("30D")}
	assert.Equal(t, "30D Change", ChangeLabel(m))
	assert.Equal(t, "30D Range", RangeLabel(m))

	assert.Equal(t, "24h Change", ChangeLabel(api.PriceMetrics{}))
	assert.Equal(t, "52W Range", RangeLabel(api.PriceMetrics{PeriodLabel: str("")}))
}

func TestRecommendationTrendAndReasoning(t *testing.T) {
	assert.Equal(t, TrendUp, RecommendationTrend("BUY"))
	assert.Equal(t, TrendDown, RecommendationTrend("SELL"))
	assert.Equal(t, TrendFlat, RecommendationTrend("HOLD"))

	_, ok := Reasoning(api.TickerData{})
	assert.False(t, ok)

	text, ok := Reasoning(api.TickerData{JustificationDetails: &api.JustificationDetails{}})
	assert.True(t, ok)
	assert.Equal(t, "No detailed reasoning provided.", text)

	text, _ = Reasoning(api.TickerData{JustificationDetails: &api.JustificationDetails{Reasoning: "Strong momentum"}})
	assert.Equal(t, "Strong momentum", text)
}
