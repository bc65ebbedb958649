package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/dyike/cortexdash/internal/dashboard"
	"github.com/dyike/cortexdash/internal/display"
)

// runSetupWizard walks the user through one analysis at a time with survey
// prompts until they choose to exit.
func runSetupWizard(ctx context.Context, a *app) error {
	DisplayWelcomeBanner(os.Stdout)

	c := a.newController(os.Stdout)
	defer c.Close()

	s := c.Mount(ctx)
	if len(s.AvailableTickers) > 0 {
		DisplayInfo(os.Stdout, fmt.Sprintf("Connected to %s (%d symbols, %d indicators)",
			a.client.BaseURL(), len(s.AvailableTickers), len(s.AvailableIndicators)))
	}

	for {
		err := runWizardOnce(ctx, c)
		if errors.Is(err, terminal.InterruptErr) {
			fmt.Println("\n👋 Thank you for using CortexDash!")
			return nil
		}
		if err != nil {
			return err
		}

		again, err := PromptForRestartOrExit()
		if errors.Is(err, terminal.InterruptErr) || (err == nil && !again) {
			fmt.Println("👋 Thank you for using CortexDash!")
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func runWizardOnce(ctx context.Context, c *dashboard.Controller) error {
	s := c.State()

	tickers, err := PromptForTickers(s.AvailableTickers, s.SelectedTickers)
	if err != nil {
		return err
	}
	start, err := PromptForDate("start", s.StartDate)
	if err != nil {
		return err
	}
	end, err := PromptForDate("end", s.EndDate)
	if err != nil {
		return err
	}

	options := s.AvailableIndicators
	if len(options) == 0 {
		options = []string{dashboard.DefaultIndicator}
	}
	indicators, err := PromptForIndicators(options, s.SelectedIndicators)
	if err != nil {
		return err
	}

	sel := Selections{Tickers: tickers, StartDate: start, EndDate: end, Indicators: indicators}
	confirmed, err := PromptForConfirmation(sel)
	if err != nil {
		return err
	}
	if !confirmed {
		DisplayInfo(os.Stdout, "Analysis cancelled")
		return nil
	}

	sel.apply(c)
	fmt.Printf("\n🔄 Analyzing %d ticker(s)...\n\n", len(sel.Tickers))
	s = c.Fetch(ctx)
	if s.Error != "" {
		return nil
	}
	if s.AnalysisResults != nil {
		fmt.Println(display.NewResultsDisplay(terminalWidth()).Report(s))
	}
	return nil
}
