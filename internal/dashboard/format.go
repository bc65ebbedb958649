package dashboard

import (
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/dyike/cortexdash/internal/api"
)

const (
	notAvailable     = "N/A"
	noReasoningGiven = "No detailed reasoning provided."
)

type Trend int

const (
	TrendFlat Trend = iota
	TrendUp
	TrendDown
)

// PriceTrend follows the sign of the absolute price change.
func PriceTrend(m api.PriceMetrics) Trend {
	switch {
	case m.PriceChange > 0:
		return TrendUp
	case m.PriceChange < 0:
		return TrendDown
	default:
		return TrendFlat
	}
}

func RecommendationTrend(rec string) Trend {
	switch rec {
	case RecommendationBuy:
		return TrendUp
	case RecommendationSell:
		return TrendDown
	default:
		return TrendFlat
	}
}

// FormatPrice renders USD with thousands separators and 2 to 6 fraction
// digits, e.g. $43,250.50 or $0.000123.
func FormatPrice(v float64) string {
	d := decimal.NewFromFloat(v).Round(6)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	whole := d.Truncate(0)
	frac := strings.TrimRight(d.Sub(whole).StringFixed(6)[2:], "0")
	for len(frac) < 2 {
		frac += "0"
	}
	return sign + "$" + humanize.Comma(whole.IntPart()) + "." + frac
}

func FormatVolume(v float64) string {
	switch {
	case v >= 1e9:
		return fixed(v/1e9, 1) + "B"
	case v >= 1e6:
		return fixed(v/1e6, 1) + "M"
	case v >= 1e3:
		return fixed(v/1e3, 1) + "K"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func FormatMarketCap(marketCap *float64) string {
	if marketCap == nil || *marketCap == 0 {
		return notAvailable
	}
	v := *marketCap
	switch {
	case v >= 1e12:
		return fixed(v/1e12, 2) + "T"
	case v >= 1e9:
		return fixed(v/1e9, 1) + "B"
	case v >= 1e6:
		return fixed(v/1e6, 1) + "M"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatChangePercent renders the period change percentage, prefixed with
// "+" when the price went up.
func FormatChangePercent(m api.PriceMetrics) string {
	prefix := ""
	if PriceTrend(m) == TrendUp {
		prefix = "+"
	}
	return prefix + fixed(m.PriceChangePercentage, 2) + "%"
}

// FormatPercent renders a signed percentage with two decimals.
func FormatPercent(v float64) string {
	if v > 0 {
		return "+" + fixed(v, 2) + "%"
	}
	return fixed(v, 2) + "%"
}

func FormatConfidence(confidence *float64) string {
	if confidence == nil || *confidence == 0 {
		return notAvailable
	}
	return fixed(*confidence*100, 1) + "%"
}

// ChangeLabel titles the change card, e.g. "30D Change" or "24h Change".
func ChangeLabel(m api.PriceMetrics) string {
	if m.PeriodLabel != nil && *m.PeriodLabel != "" {
		return *m.PeriodLabel + " Change"
	}
	return "24h Change"
}

// RangeLabel titles the high/low card, e.g. "30D Range" or "52W Range".
func RangeLabel(m api.PriceMetrics) string {
	if m.PeriodLabel != nil && *m.PeriodLabel != "" {
		return *m.PeriodLabel + " Range"
	}
	return "52W Range"
}

// Reasoning returns the justification text. ok is false when the service
// sent no justification at all.
func Reasoning(data api.TickerData) (text string, ok bool) {
	if data.JustificationDetails == nil {
		return "", false
	}
	if strings.TrimSpace(data.JustificationDetails.Reasoning) == "" {
		return noReasoningGiven, true
	}
	return data.JustificationDetails.Reasoning, true
}

func fixed(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}
