// Package display renders dashboard state as terminal text. Nothing here
// prints; the TUI and the CLI decide where the output goes.
package display

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dyike/cortexdash/internal/api"
	"github.com/dyike/cortexdash/internal/dashboard"
)

const (
	DefaultWidth = 80
	minWidth     = 40
)

// ResultsDisplay renders analysis results at a fixed width.
type ResultsDisplay struct {
	width int
}

func NewResultsDisplay(width int) *ResultsDisplay {
	d := &ResultsDisplay{}
	d.SetWidth(width)
	return d
}

func (d *ResultsDisplay) SetWidth(width int) {
	switch {
	case width <= 0:
		width = DefaultWidth
	case width < minWidth:
		width = minWidth
	}
	d.width = width
}

func (d *ResultsDisplay) Width() int {
	return d.width
}

// Content renders the main area for s with the tab at index active
// selected. An error takes precedence over results, and with neither the
// ready card is shown.
func (d *ResultsDisplay) Content(s dashboard.State, active int) string {
	if s.Error != "" {
		return d.ErrorCard(s.Error)
	}
	if s.AnalysisResults == nil {
		return d.ReadyCard()
	}

	tabs := dashboard.Tabs(s)
	active = ClampTab(active, len(tabs))

	var body string
	if active == 0 {
		body = d.Overview(s)
	} else {
		body = d.tickerTab(s.AnalysisResults, tabs[active])
	}
	return lipgloss.JoinVertical(lipgloss.Left, d.TabBar(tabs, active), "", body)
}

// ClampTab keeps active within [0, count).
func ClampTab(active, count int) int {
	if count <= 0 || active < 0 {
		return 0
	}
	if active >= count {
		return count - 1
	}
	return active
}

func (d *ResultsDisplay) ErrorCard(msg string) string {
	body := lipgloss.JoinVertical(lipgloss.Center,
		downStyle.Render("✖ Analysis Error"),
		"",
		msg,
		"",
		mutedStyle.Render("Press esc to try again"),
	)
	return errorCardStyle.Width(d.cardWidth()).Render(body)
}

func (d *ResultsDisplay) ReadyCard() string {
	body := lipgloss.JoinVertical(lipgloss.Center,
		headingStyle.Render("📈 Ready for Analysis"),
		"",
		mutedStyle.Render("Configure your parameters and press enter to begin technical analysis."),
	)
	return readyCardStyle.Width(d.cardWidth()).Render(body)
}

func (d *ResultsDisplay) TabBar(tabs []string, active int) string {
	rendered := make([]string, 0, len(tabs))
	for i, tab := range tabs {
		if i == active {
			rendered = append(rendered, activeTabStyle.Render(tab))
		} else {
			rendered = append(rendered, inactiveTabStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// Overview renders the "Overall Summary" tab.
func (d *ResultsDisplay) Overview(s dashboard.State) string {
	resp := s.AnalysisResults

	shares := dashboard.RecommendationBreakdown(resp, len(s.SelectedTickers))
	cardW := max((d.width-2)/len(shares)-2, 12)
	counts := make([]string, 0, len(shares))
	for _, share := range shares {
		body := lipgloss.JoinVertical(lipgloss.Left,
			mutedStyle.Render(share.Recommendation),
			valueStyle.Render(fmt.Sprintf("%d", share.Count)),
			recommendationStyle(share.Recommendation).Render(share.Percentage+"%"),
		)
		counts = append(counts, cardStyle.Width(cardW).Render(body))
	}

	var top strings.Builder
	top.WriteString(headingStyle.Render("Top Performers"))
	performers := dashboard.TopPerformers(resp, dashboard.DefaultTopPerformers)
	if len(performers) == 0 {
		top.WriteString("\n" + mutedStyle.Render("No data"))
	}
	for _, p := range performers {
		style := upStyle
		if p.ChangePercentage < 0 {
			style = downStyle
		}
		fmt.Fprintf(&top, "\n%-8s %s", p.Ticker, style.Render(dashboard.FormatPercent(p.ChangePercentage)))
	}

	period := lipgloss.JoinVertical(lipgloss.Left,
		headingStyle.Render("Analysis Period"),
		mutedStyle.Render("Start: "+s.StartDate),
		mutedStyle.Render("End: "+s.EndDate),
		mutedStyle.Render("Indicators: "+strings.Join(s.SelectedIndicators, ", ")),
	)

	halfW := max((d.width-2)/2-2, 18)
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Market Overview"),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, counts...),
		lipgloss.JoinHorizontal(lipgloss.Top,
			cardStyle.Width(halfW).Render(top.String()),
			cardStyle.Width(halfW).Render(period),
		),
	)
}

func (d *ResultsDisplay) tickerTab(resp *api.AnalysisResponse, ticker string) string {
	data, ok := dashboard.TickerPanel(resp, ticker)
	if !ok {
		return mutedStyle.Render(fmt.Sprintf("No analysis returned for %s.", ticker))
	}
	return d.TickerDetail(ticker, data)
}

// TickerDetail renders the price metrics and recommendation of one ticker.
func (d *ResultsDisplay) TickerDetail(ticker string, data api.TickerData) string {
	return d.tickerDetail(ticker, data)
}

func (d *ResultsDisplay) tickerDetail(title string, data api.TickerData) string {
	m := data.PriceMetrics
	cardW := max((d.width-2)/2-2, 18)

	trend := trendStyle(dashboard.PriceTrend(m))
	price := lipgloss.JoinVertical(lipgloss.Left,
		mutedStyle.Render("Current Price"),
		valueStyle.Render(dashboard.FormatPrice(m.CurrentPrice)),
	)
	change := lipgloss.JoinVertical(lipgloss.Left,
		mutedStyle.Render(dashboard.ChangeLabel(m)),
		trend.Render(dashboard.FormatChangePercent(m)),
		mutedStyle.Render(dashboard.FormatPrice(abs(m.PriceChange))),
	)
	rng := lipgloss.JoinVertical(lipgloss.Left,
		mutedStyle.Render(dashboard.RangeLabel(m)),
		"Low:  "+valueStyle.Render(dashboard.FormatPrice(m.Low52w)),
		"High: "+valueStyle.Render(dashboard.FormatPrice(m.High52w)),
	)
	volume := lipgloss.JoinVertical(lipgloss.Left,
		mutedStyle.Render("Volume & Market Cap"),
		"Volume:     "+valueStyle.Render(dashboard.FormatVolume(m.Volume)),
		"Market Cap: "+valueStyle.Render(dashboard.FormatMarketCap(m.MarketCap)),
	)

	var rec strings.Builder
	rec.WriteString(headingStyle.Render("Recommendation"))
	rec.WriteString("\n")
	rec.WriteString(badgeStyle.Inherit(recommendationStyle(data.Recommendation)).Render(data.Recommendation))
	rec.WriteString("  ")
	rec.WriteString(mutedStyle.Render("Confidence: " + dashboard.FormatConfidence(data.Confidence)))
	if reasoning, ok := dashboard.Reasoning(data); ok {
		rec.WriteString("\n\n")
		rec.WriteString(valueStyle.Render("Justification:"))
		rec.WriteString("\n")
		rec.WriteString(wrapText(reasoning, "  ", d.width-6))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(title),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, cardStyle.Width(cardW).Render(price), cardStyle.Width(cardW).Render(change)),
		lipgloss.JoinHorizontal(lipgloss.Top, cardStyle.Width(cardW).Render(rng), cardStyle.Width(cardW).Render(volume)),
		cardStyle.Width(d.width-2).Render(rec.String()),
	)
}

// Report renders every tab one after another, for non-interactive output.
func (d *ResultsDisplay) Report(s dashboard.State) string {
	if s.Error != "" {
		return d.ErrorCard(s.Error)
	}
	if s.AnalysisResults == nil {
		return d.ReadyCard()
	}

	sections := []string{d.Overview(s)}
	for _, ticker := range s.SelectedTickers {
		if data, ok := dashboard.TickerPanel(s.AnalysisResults, ticker); ok {
			sections = append(sections, d.tickerDetail(RecommendationEmoji(data.Recommendation)+" "+ticker, data))
		}
	}
	sections = append(sections, d.footer())
	return strings.Join(sections, "\n\n")
}

func (d *ResultsDisplay) footer() string {
	rule := strings.Repeat("═", d.width)
	return strings.Join([]string{
		rule,
		mutedStyle.Render("⚠️  This analysis is for informational purposes only and should not be"),
		mutedStyle.Render("   considered as financial advice. Always do your own research."),
		rule,
	}, "\n")
}

// WriteJSON writes resp as indented JSON.
func WriteJSON(w io.Writer, resp *api.AnalysisResponse) error {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results to JSON: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	return nil
}

// RecommendationEmoji mirrors the recommendation color in Report headings.
func RecommendationEmoji(rec string) string {
	switch rec {
	case dashboard.RecommendationBuy:
		return "🟢"
	case dashboard.RecommendationSell:
		return "🔴"
	case dashboard.RecommendationHold:
		return "🟡"
	default:
		return "⏳"
	}
}

func (d *ResultsDisplay) cardWidth() int {
	return min(d.width-2, 60)
}

func recommendationStyle(rec string) lipgloss.Style {
	return trendStyle(dashboard.RecommendationTrend(rec))
}

func trendStyle(t dashboard.Trend) lipgloss.Style {
	switch t {
	case dashboard.TrendUp:
		return upStyle
	case dashboard.TrendDown:
		return downStyle
	default:
		return flatStyle
	}
}

// wrapText word-wraps text to maxWidth columns, prefixing each line.
func wrapText(text, indent string, maxWidth int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	line := indent + words[0]
	for _, word := range words[1:] {
		if lipgloss.Width(line)+1+lipgloss.Width(word) > maxWidth {
			lines = append(lines, line)
			line = indent + word
		} else {
			line += " " + word
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
