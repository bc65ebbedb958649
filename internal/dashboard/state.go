// Package dashboard holds the analysis view state and the rules for changing
// it. State is a plain value; Reduce is the only way to derive a new one.
package dashboard

import (
	"time"

	"github.com/dyike/cortexdash/internal/api"
)

const (
	DateLayout          = "2006-01-02"
	DefaultLookbackDays = 365
	DefaultIndicator    = "20-Day SMA"

	// DefaultIndicatorCount is how many server indicators are preselected
	// when the caller does not say otherwise.
	DefaultIndicatorCount = 1
)

// DefaultTickers is the selection before (or without) a configuration load.
var DefaultTickers = []string{"BTC", "ETH", "ADA"}

// Phase is derived from State, never stored.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseSuccess
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseSuccess:
		return "success"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type State struct {
	AvailableTickers    []string
	AvailableIndicators []string
	SelectedTickers     []string
	SelectedIndicators  []string
	StartDate           string
	EndDate             string

	IsLoading       bool
	AnalysisResults *api.AnalysisResponse
	Error           string

	// IndicatorCount is how many of the server's indicators are selected
	// after a configuration load.
	IndicatorCount int

	Mounted   bool
	Unmounted bool
}

// NewState returns the state a freshly opened dashboard starts from: the
// hardcoded default selection and a one-year window ending at now.
func NewState(now time.Time, indicatorCount int) State {
	if indicatorCount < 0 {
		indicatorCount = DefaultIndicatorCount
	}
	return State{
		AvailableTickers:    []string{},
		AvailableIndicators: []string{},
		SelectedTickers:     cloneStrings(DefaultTickers),
		SelectedIndicators:  []string{DefaultIndicator},
		StartDate:           now.AddDate(0, 0, -DefaultLookbackDays).Format(DateLayout),
		EndDate:             now.Format(DateLayout),
		IndicatorCount:      indicatorCount,
	}
}

func (s State) Phase() Phase {
	switch {
	case s.IsLoading:
		return PhaseLoading
	case s.Error != "":
		return PhaseFailed
	case s.AnalysisResults != nil:
		return PhaseSuccess
	default:
		return PhaseIdle
	}
}

// CanFetch reports whether a fetch would be accepted right now.
func (s State) CanFetch() bool {
	return !s.IsLoading && len(s.SelectedTickers) > 0
}

// Request builds the analysis request for the current selection.
func (s State) Request() api.AnalysisRequest {
	return api.AnalysisRequest{
		Tickers:    cloneStrings(s.SelectedTickers),
		StartDate:  s.StartDate,
		EndDate:    s.EndDate,
		Indicators: cloneStrings(s.SelectedIndicators),
	}
}

// IndicatorSelected reports whether name is in SelectedIndicators.
func (s State) IndicatorSelected(name string) bool {
	return indexOf(s.SelectedIndicators, name) >= 0
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func indexOf(list []string, v string) int {
	for i, item := range list {
		if item == v {
			return i
		}
	}
	return -1
}
