package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"

	"github.com/dyike/cortexdash/internal/dashboard"
)

// PromptForTickers asks for a comma-separated list of tickers.
func PromptForTickers(available, current []string) ([]string, error) {
	help := "Comma-separated symbols, e.g. BTC, ETH, ADA"
	if len(available) > 0 {
		help = "Available: " + strings.Join(available, ", ")
	}

	var answer string
	prompt := &survey.Input{
		Message: "Enter the tickers to analyze:",
		Help:    help,
		Default: strings.Join(current, ", "),
	}

	err := survey.AskOne(prompt, &answer, survey.WithValidator(func(val interface{}) error {
		str, _ := val.(string)
		if len(dashboard.ParseTickers(str)) == 0 {
			return fmt.Errorf("please select at least one ticker to analyze")
		}
		return nil
	}))
	if err != nil {
		return nil, err
	}

	return dashboard.ParseTickers(answer), nil
}

// PromptForDate asks for a YYYY-MM-DD date, defaulting to current.
func PromptForDate(label, current string) (string, error) {
	var answer string
	prompt := &survey.Input{
		Message: fmt.Sprintf("Enter the %s date (YYYY-MM-DD):", label),
		Help:    "Format: YYYY-MM-DD (e.g., 2024-01-15)",
		Default: current,
	}

	err := survey.AskOne(prompt, &answer, survey.WithValidator(func(val interface{}) error {
		str, _ := val.(string)
		if _, err := time.Parse(dashboard.DateLayout, strings.TrimSpace(str)); err != nil {
			return fmt.Errorf("invalid date format, use YYYY-MM-DD")
		}
		return nil
	}))
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(answer), nil
}

// PromptForIndicators lets the user pick technical indicators. An empty
// selection is allowed; the service then applies its own defaults.
func PromptForIndicators(options, selected []string) ([]string, error) {
	defaults := make([]string, 0, len(selected))
	for _, name := range selected {
		for _, opt := range options {
			if opt == name {
				defaults = append(defaults, name)
			}
		}
	}

	answer := []string{}
	prompt := &survey.MultiSelect{
		Message: "Select technical indicators:",
		Options: options,
		Help:    "Use space to select, enter to confirm.",
		Default: defaults,
	}
	if err := survey.AskOne(prompt, &answer); err != nil {
		return nil, err
	}
	return answer, nil
}

// PromptForConfirmation prompts the user to confirm their selections
func PromptForConfirmation(sel Selections) (bool, error) {
	indicators := strings.Join(sel.Indicators, ", ")
	if indicators == "" {
		indicators = "(service defaults)"
	}

	summary := fmt.Sprintf(`
Analysis Configuration Summary:
━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━

📊 Tickers:       %s
📅 Start Date:    %s
📅 End Date:      %s
📈 Indicators:    %s

━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━
`,
		strings.Join(sel.Tickers, ", "),
		sel.StartDate,
		sel.EndDate,
		indicators,
	)
	fmt.Println(summary)

	var confirmed bool
	prompt := &survey.Confirm{
		Message: "Proceed with this analysis configuration?",
		Default: true,
	}

	err := survey.AskOne(prompt, &confirmed)
	return confirmed, err
}

// PromptForRestartOrExit prompts user when analysis completes
func PromptForRestartOrExit() (bool, error) {
	var choice string
	prompt := &survey.Select{
		Message: "What would you like to do next?",
		Options: []string{
			"Start a new analysis",
			"Exit CortexDash",
		},
		Default: "Exit CortexDash",
	}

	if err := survey.AskOne(prompt, &choice); err != nil {
		return false, err
	}

	return choice == "Start a new analysis", nil
}
