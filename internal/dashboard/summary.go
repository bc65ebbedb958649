package dashboard

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/dyike/cortexdash/internal/api"
)

const (
	RecommendationBuy  = "BUY"
	RecommendationHold = "HOLD"
	RecommendationSell = "SELL"

	OverallTab = "Overall Summary"

	DefaultTopPerformers = 3
)

// Recommendations is the order the overview lists them in.
var Recommendations = []string{RecommendationBuy, RecommendationHold, RecommendationSell}

type RecommendationShare struct {
	Recommendation string
	Count          int
	// Percentage is Count over the number of selected tickers, one decimal.
	Percentage string
}

// RecommendationBreakdown counts ticker_data entries per recommendation. The
// denominator is the number of selected tickers, not the number of entries.
func RecommendationBreakdown(resp *api.AnalysisResponse, selectedCount int) []RecommendationShare {
	counts := make(map[string]int, len(Recommendations))
	if resp != nil {
		for _, data := range resp.TickerData {
			counts[data.Recommendation]++
		}
	}

	shares := make([]RecommendationShare, 0, len(Recommendations))
	for _, rec := range Recommendations {
		share := RecommendationShare{Recommendation: rec, Count: counts[rec], Percentage: "0"}
		if selectedCount > 0 {
			share.Percentage = decimal.NewFromInt(int64(counts[rec])).
				Mul(decimal.NewFromInt(100)).
				Div(decimal.NewFromInt(int64(selectedCount))).
				StringFixed(1)
		}
		shares = append(shares, share)
	}
	return shares
}

type Performer struct {
	Ticker           string
	ChangePercentage float64
}

// TopPerformers returns up to n tickers by price change percentage,
// highest first. Ties are ordered by ticker.
func TopPerformers(resp *api.AnalysisResponse, n int) []Performer {
	if resp == nil || n <= 0 {
		return nil
	}
	all := make([]Performer, 0, len(resp.TickerData))
	for ticker, data := range resp.TickerData {
		all = append(all, Performer{Ticker: ticker, ChangePercentage: data.PriceMetrics.PriceChangePercentage})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].ChangePercentage != all[j].ChangePercentage {
			return all[i].ChangePercentage > all[j].ChangePercentage
		}
		return all[i].Ticker < all[j].Ticker
	})
	if len(all) > n {
		all = all[:n]
	}
	return all
}

// TickerPanel looks up the detail for ticker. ok is false when the service
// returned nothing for it; such tickers get no panel.
func TickerPanel(resp *api.AnalysisResponse, ticker string) (data api.TickerData, ok bool) {
	if resp == nil || resp.TickerData == nil {
		return api.TickerData{}, false
	}
	data, ok = resp.TickerData[ticker]
	return data, ok
}

// Tabs lists the overview tab followed by one tab per selected ticker.
func Tabs(s State) []string {
	tabs := make([]string, 0, len(s.SelectedTickers)+1)
	tabs = append(tabs, OverallTab)
	return append(tabs, s.SelectedTickers...)
}
