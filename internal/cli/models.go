package cli

import (
	"slices"
	"strings"

	"github.com/dyike/cortexdash/internal/dashboard"
)

// Selections holds what the user chose for one analysis run. Empty fields
// leave the controller's current value alone; a nil Indicators does too.
type Selections struct {
	Tickers    []string
	StartDate  string
	EndDate    string
	Indicators []string
}

// apply drives c to sel through the same edits the dashboard would make.
func (sel Selections) apply(c *dashboard.Controller) dashboard.State {
	if len(sel.Tickers) > 0 {
		c.EditTickers(strings.Join(sel.Tickers, ","))
	}
	if sel.StartDate != "" {
		c.EditStartDate(sel.StartDate)
	}
	if sel.EndDate != "" {
		c.EditEndDate(sel.EndDate)
	}
	if sel.Indicators == nil {
		return c.State()
	}
	return selectIndicators(c, sel.Indicators)
}

// selectIndicators toggles indicators on c until exactly want is selected.
// Indicators already selected and still wanted keep their position.
func selectIndicators(c *dashboard.Controller, want []string) dashboard.State {
	s := c.State()
	for _, name := range s.SelectedIndicators {
		if !slices.Contains(want, name) {
			s = c.ToggleIndicator(name)
		}
	}
	for _, name := range want {
		if !s.IndicatorSelected(name) {
			s = c.ToggleIndicator(name)
		}
	}
	return s
}
