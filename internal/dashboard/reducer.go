package dashboard

import (
	"fmt"
	"strings"

	"github.com/dyike/cortexdash/internal/api"
)

const analysisFailedFallback = "Analysis failed"

// Reduce applies ev to s. It never mutates s or performs I/O; anything that
// must happen outside the state comes back as effects.
func Reduce(s State, ev Event) (State, []Effect) {
	switch e := ev.(type) {
	case Mounted:
		if s.Mounted || s.Unmounted {
			return s, nil
		}
		s.Mounted = true
		return s, []Effect{LoadConfig{}}

	case Unmounted:
		// Any request still in flight is abandoned along with the view.
		s.Unmounted = true
		s.IsLoading = false
		return s, nil

	case ConfigLoaded:
		if s.Unmounted || e.Config == nil {
			return s, nil
		}
		return applyConfig(s, e.Config), nil

	case ConfigFailed:
		if s.Unmounted {
			return s, nil
		}
		return s, notify("Configuration Error", "Failed to load application configuration", VariantDestructive)

	case IndicatorToggled:
		s.SelectedIndicators = toggle(s.SelectedIndicators, e.Name)
		return s, nil

	case TickersEdited:
		s.SelectedTickers = ParseTickers(e.Text)
		return s, nil

	case StartDateEdited:
		s.StartDate = e.Value
		return s, nil

	case EndDateEdited:
		s.EndDate = e.Value
		return s, nil

	case FetchRequested:
		if s.Unmounted {
			return s, nil
		}
		if s.IsLoading {
			return s, notify("Analysis In Progress", "Wait for the current analysis to finish", VariantDefault)
		}
		if len(s.SelectedTickers) == 0 {
			return s, notify("Selection Required", "Please select at least one ticker to analyze", VariantDestructive)
		}
		s.IsLoading = true
		s.Error = ""
		return s, []Effect{RunAnalysis{Request: s.Request()}}

	case AnalysisSucceeded:
		if s.Unmounted {
			return s, nil
		}
		s.AnalysisResults = e.Response
		s.IsLoading = false
		return s, notify("Analysis Complete",
			fmt.Sprintf("Successfully analyzed %d ticker(s)", len(s.SelectedTickers)), VariantDefault)

	case AnalysisFailed:
		if s.Unmounted {
			return s, nil
		}
		s.Error = api.Message(e.Err, analysisFailedFallback)
		s.IsLoading = false
		return s, notify("Analysis Failed", api.Message(e.Err, "An unknown error occurred"), VariantDestructive)

	case ErrorCleared:
		s.Error = ""
		return s, nil
	}

	return s, nil
}

// ParseTickers splits comma-separated input into trimmed, upper-cased,
// non-empty symbols in input order.
func ParseTickers(text string) []string {
	parts := strings.Split(text, ",")
	tickers := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.ToUpper(strings.TrimSpace(p))
		if t == "" {
			continue
		}
		tickers = append(tickers, t)
	}
	return tickers
}

func applyConfig(s State, cfg *api.ConfigResponse) State {
	s.AvailableTickers = cloneStrings(cfg.CryptoSymbols)
	s.AvailableIndicators = cloneStrings(cfg.TechnicalIndicators)

	if len(cfg.DefaultTickers) > 0 {
		s.SelectedTickers = cloneStrings(cfg.DefaultTickers)
	} else {
		s.SelectedTickers = cloneStrings(DefaultTickers)
	}

	if len(cfg.TechnicalIndicators) == 0 {
		s.SelectedIndicators = []string{DefaultIndicator}
		return s
	}
	n := min(max(s.IndicatorCount, 0), len(cfg.TechnicalIndicators))
	s.SelectedIndicators = cloneStrings(cfg.TechnicalIndicators[:n])
	return s
}

// toggle returns a new slice with name removed if present, appended if not.
func toggle(list []string, name string) []string {
	idx := indexOf(list, name)
	if idx < 0 {
		out := make([]string, 0, len(list)+1)
		out = append(out, list...)
		return append(out, name)
	}
	out := make([]string, 0, len(list)-1)
	out = append(out, list[:idx]...)
	return append(out, list[idx+1:]...)
}

func notify(title, description string, variant Variant) []Effect {
	return []Effect{Notify{Notice: Notice{Title: title, Description: description, Variant: variant}}}
}
