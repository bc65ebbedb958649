package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/phuslu/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/dyike/cortexdash/internal/api"
	"github.com/dyike/cortexdash/internal/config"
	"github.com/dyike/cortexdash/internal/dashboard"
	"github.com/dyike/cortexdash/internal/display"
	"github.com/dyike/cortexdash/internal/logger"
	"github.com/dyike/cortexdash/internal/stubserver"
	"github.com/dyike/cortexdash/internal/tui"
)

// Version is overridden at build time with -ldflags "-X ...cli.Version=...".
var Version = "v1.0.0"

// errReported means the failure was already shown to the user.
var errReported = errors.New("error already reported")

const defaultConfigPath = "cortexdash.yaml"

// app is what every command shares once flags are parsed.
type app struct {
	cfg    *config.Config
	logger *log.Logger
	client *api.Client
}

func (a *app) load(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.Debug = true
	}
	if url, _ := cmd.Flags().GetString("api-url"); url != "" {
		cfg.APIBaseURL = url
	}

	a.cfg = cfg
	a.logger = logger.NewConsole(cfg.EffectiveLogLevel())
	return nil
}

// ready validates the configuration and builds the API client.
func (a *app) ready() error {
	if err := a.cfg.Validate(); err != nil {
		return err
	}
	a.client = api.NewClient(a.cfg.APIBaseURL,
		api.WithTimeout(a.cfg.RequestTimeout),
		api.WithLogger(a.logger),
	)
	return nil
}

func (a *app) initialState() dashboard.State {
	return dashboard.NewState(time.Now(), a.cfg.DefaultIndicatorCount)
}

func (a *app) newController(w io.Writer) *dashboard.Controller {
	return dashboard.NewController(a.client, consoleNotifier{w: w}, a.initialState(), a.logger)
}

// runDashboard starts the full-screen dashboard. The terminal belongs to
// bubbletea, so logs go to the configured file instead.
func (a *app) runDashboard(cmd *cobra.Command) error {
	if err := a.ready(); err != nil {
		return err
	}
	fileLogger := logger.NewFile(a.cfg.EffectiveLogLevel(), a.cfg.LogFile)
	client := api.NewClient(a.cfg.APIBaseURL,
		api.WithTimeout(a.cfg.RequestTimeout),
		api.WithLogger(fileLogger),
	)
	return tui.Run(cmd.Context(), client, a.initialState(), fileLogger)
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "cortexdash",
		Short: "CortexDash - Technical Analysis Dashboard",
		Long: `CortexDash is a terminal dashboard for a technical-analysis service.
Pick tickers, a date range and indicators, then review price metrics,
recommendations and their reasoning per ticker.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDashboard(cmd)
		},
	}

	rootCmd.AddCommand(newDashboardCmd(a))
	rootCmd.AddCommand(newAnalyzeCmd(a))
	rootCmd.AddCommand(newSetupCmd(a))
	rootCmd.AddCommand(newHealthCmd(a))
	rootCmd.AddCommand(newIndicatorsCmd(a))
	rootCmd.AddCommand(newSymbolsCmd(a))
	rootCmd.AddCommand(newRemoteConfigCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))
	rootCmd.AddCommand(newStubCmd(a))
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug mode")
	rootCmd.PersistentFlags().String("config", "", "Configuration file path")
	rootCmd.PersistentFlags().String("api-url", "", "Analysis service base URL (overrides config)")

	return rootCmd
}

func newDashboardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Open the interactive analysis dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDashboard(cmd)
		},
	}
}

// newAnalyzeCmd creates the analyze command
func newAnalyzeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [TICKERS...]",
		Short: "Run one analysis and print the results",
		Long: `Run a single analysis through the dashboard controller and print the summary.
Tickers may be given as separate arguments or comma-separated.
Example: cortexdash analyze BTC,ETH --start=2024-01-01 --end=2024-06-30 --indicator=RSI`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ready(); err != nil {
				return err
			}
			start, _ := cmd.Flags().GetString("start")
			end, _ := cmd.Flags().GetString("end")
			asJSON, _ := cmd.Flags().GetBool("json")

			sel := Selections{
				Tickers:   dashboard.ParseTickers(strings.Join(args, ",")),
				StartDate: start,
				EndDate:   end,
			}
			if cmd.Flags().Changed("indicator") {
				sel.Indicators, _ = cmd.Flags().GetStringSlice("indicator")
			}
			return runAnalyze(cmd, a, sel, asJSON)
		},
	}

	cmd.Flags().String("start", "", "Start date in YYYY-MM-DD format (one year ago if not provided)")
	cmd.Flags().String("end", "", "End date in YYYY-MM-DD format (today if not provided)")
	cmd.Flags().StringSlice("indicator", nil, "Technical indicator to include (repeatable; defaults follow the service configuration)")
	cmd.Flags().Bool("json", false, "Print the raw analysis response as JSON")

	return cmd
}

func runAnalyze(cmd *cobra.Command, a *app, sel Selections, asJSON bool) error {
	out := cmd.OutOrStdout()
	c := a.newController(cmd.ErrOrStderr())
	defer c.Close()

	c.Mount(cmd.Context())
	sel.apply(c)
	s := c.Fetch(cmd.Context())
	if s.Error != "" || s.AnalysisResults == nil {
		return errReported
	}

	if asJSON {
		return display.WriteJSON(out, s.AnalysisResults)
	}
	fmt.Fprintln(out, display.NewResultsDisplay(terminalWidth()).Report(s))
	return nil
}

func newSetupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Configure and run analyses step by step",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ready(); err != nil {
				return err
			}
			return runSetupWizard(cmd.Context(), a)
		},
	}
}

func newHealthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the analysis service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ready(); err != nil {
				return err
			}
			health, err := a.client.GetHealthCheck(cmd.Context())
			if err != nil {
				return err
			}

			checked := health.Timestamp
			if ts, err := time.Parse(time.RFC3339, health.Timestamp); err == nil {
				checked = fmt.Sprintf("%s (%s)", health.Timestamp, humanize.Time(ts))
			}
			out := cmd.OutOrStdout()
			DisplaySuccess(out, fmt.Sprintf("%s is %s", a.client.BaseURL(), health.Status))
			displayKeyValues(out, [][2]string{{"Checked", checked}})
			return nil
		},
	}
}

func newIndicatorsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "indicators",
		Short: "List the technical indicators the service supports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ready(); err != nil {
				return err
			}
			resp, err := a.client.GetIndicators(cmd.Context())
			if err != nil {
				return err
			}
			DisplaySection(cmd.OutOrStdout(), "📈 Technical Indicators")
			displayList(cmd.OutOrStdout(), resp.Indicators)
			return nil
		},
	}
}

func newSymbolsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "symbols",
		Short: "List the crypto symbols the service supports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ready(); err != nil {
				return err
			}
			resp, err := a.client.GetCryptoSymbols(cmd.Context())
			if err != nil {
				return err
			}
			DisplaySection(cmd.OutOrStdout(), "🪙 Crypto Symbols")
			displayList(cmd.OutOrStdout(), resp.CryptoSymbols)
			return nil
		},
	}
}

func newRemoteConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remote-config",
		Short: "Show the configuration published by the analysis service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ready(); err != nil {
				return err
			}
			resp, err := a.client.GetConfig(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			DisplaySection(out, "🔧 Service Configuration")
			displayKeyValues(out, [][2]string{
				{"Default tickers", strings.Join(resp.DefaultTickers, ", ")},
				{"Lookback days", humanize.Ftoa(resp.DefaultLookbackDays)},
			})
			fmt.Fprintln(out, "Technical indicators:")
			displayList(out, resp.TechnicalIndicators)
			return nil
		},
	}
}

// newConfigCmd creates the config command
func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect local configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := yaml.Marshal(a.cfg)
			if err != nil {
				return fmt.Errorf("marshal config: %w", err)
			}
			DisplaySection(cmd.OutOrStdout(), "🔧 CortexDash Configuration")
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration and check the service is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ready(); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			DisplaySuccess(out, "Configuration is valid")
			if _, err := a.client.GetHealthCheck(cmd.Context()); err != nil {
				DisplayWarning(out, fmt.Sprintf("Analysis service at %s is unreachable: %s",
					a.client.BaseURL(), api.Message(err, "unknown error")))
				return nil
			}
			DisplaySuccess(out, fmt.Sprintf("Analysis service at %s is healthy", a.client.BaseURL()))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "init [PATH]",
		Short: "Write the effective configuration to a YAML file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := defaultConfigPath
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			if err := a.cfg.Save(path); err != nil {
				return err
			}
			DisplaySuccess(cmd.OutOrStdout(), "Wrote "+path)
			return nil
		},
	})

	return cmd
}

func newStubCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stub",
		Short: "Run a local stub of the analysis service",
		Long: `Serve deterministic synthetic analyses on the same endpoints as the real service.
Useful for trying the dashboard without a backend. The ticker FAIL makes /analyze return 500.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			if addr == "" {
				addr = a.cfg.StubAddr
			}
			DisplayInfo(cmd.OutOrStdout(), fmt.Sprintf("Stub analysis service listening on http://%s (ctrl+c to stop)", addr))
			return stubserver.New(a.logger).ListenAndServe(cmd.Context(), addr)
		},
	}
	cmd.Flags().String("addr", "", "Listen address (defaults to stub_addr from config)")
	return cmd
}

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "CortexDash %s\n", Version)
		},
	}
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return display.DefaultWidth
	}
	return width
}
