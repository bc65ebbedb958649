package api

import "encoding/json"

// AnalysisRequest is the body of POST /analyze. Dates are YYYY-MM-DD.
type AnalysisRequest struct {
	Tickers    []string `json:"tickers"`
	StartDate  string   `json:"start_date"`
	EndDate    string   `json:"end_date"`
	Indicators []string `json:"indicators"`
}

// PriceMetrics summarizes a ticker over the requested period.
// MarketCap, PeriodDays and PeriodLabel are often absent.
type PriceMetrics struct {
	CurrentPrice          float64  `json:"current_price"`
	PriceChange           float64  `json:"price_change"`
	PriceChangePercentage float64  `json:"price_change_percentage"`
	High52w               float64  `json:"high_52w"`
	Low52w                float64  `json:"low_52w"`
	Volume                float64  `json:"volume"`
	MarketCap             *float64 `json:"market_cap,omitempty"`
	PeriodDays            *float64 `json:"period_days,omitempty"`
	PeriodLabel           *string  `json:"period_label,omitempty"`
}

type JustificationDetails struct {
	Reasoning string `json:"reasoning"`
}

type AnalysisResult struct {
	Action        string               `json:"action"`
	Justification JustificationDetails `json:"justification"`
}

type TickerAnalysis struct {
	Ticker       string          `json:"ticker"`
	PriceMetrics PriceMetrics    `json:"price_metrics"`
	ChartData    json.RawMessage `json:"chart_data,omitempty"`
	Analysis     AnalysisResult  `json:"analysis"`
	IsCrypto     bool            `json:"is_crypto"`
}

// TickerData is the per-ticker entry of AnalysisResponse.TickerData.
// Recommendation is expected to be BUY, HOLD or SELL but is not checked.
type TickerData struct {
	PriceMetrics         PriceMetrics          `json:"price_metrics"`
	Recommendation       string                `json:"recommendation"`
	Confidence           *float64              `json:"confidence,omitempty"`
	JustificationDetails *JustificationDetails `json:"justification_details,omitempty"`
	ChartData            json.RawMessage       `json:"chart_data,omitempty"`
}

type SummaryRow struct {
	Stock          string `json:"Stock"`
	Recommendation string `json:"Recommendation"`
}

type AnalysisSettings struct {
	CryptoSymbols       []string `json:"crypto_symbols"`
	TechnicalIndicators []string `json:"technical_indicators"`
}

type AnalysisResponse struct {
	OverallSummary []SummaryRow          `json:"overall_summary"`
	TickerAnalyses []TickerAnalysis      `json:"ticker_analyses"`
	TickerData     map[string]TickerData `json:"ticker_data"`
	Settings       AnalysisSettings      `json:"settings"`
}

type ConfigResponse struct {
	DefaultTickers        []string `json:"default_tickers"`
	DefaultLookbackDays   float64  `json:"default_lookback_days"`
	CryptoSymbols         []string `json:"crypto_symbols"`
	TechnicalIndicators   []string `json:"technical_indicators"`
	RecommendationOptions []string `json:"recommendation_options"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

type IndicatorsResponse struct {
	Indicators []string `json:"indicators"`
}

type CryptoSymbolsResponse struct {
	CryptoSymbols []string `json:"crypto_symbols"`
}
