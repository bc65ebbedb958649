// Package tui is the interactive dashboard. It feeds key presses and API
// outcomes through dashboard.Reduce and turns the resulting effects into
// bubbletea commands.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/phuslu/log"

	"github.com/dyike/cortexdash/internal/api"
	"github.com/dyike/cortexdash/internal/dashboard"
	"github.com/dyike/cortexdash/internal/display"
)

const (
	sidebarWidth = 36
	noticeTTL    = 4 * time.Second
)

type focus int

const (
	focusTickers focus = iota
	focusStart
	focusEnd
	focusIndicators
	focusResults
	focusCount
)

func (f focus) editsText() bool {
	return f == focusTickers || f == focusStart || f == focusEnd
}

type configMsg struct {
	cfg *api.ConfigResponse
	err error
}

type analysisMsg struct {
	resp *api.AnalysisResponse
	err  error
}

type noticeExpiredMsg struct{ id int }

type Model struct {
	ctx     context.Context
	cancel  context.CancelFunc
	service dashboard.AnalysisService
	logger  *log.Logger

	state   dashboard.State
	pending []dashboard.Effect

	tickers textinput.Model
	start   textinput.Model
	end     textinput.Model
	focus   focus
	cursor  int
	tab     int

	spinner  spinner.Model
	viewport viewport.Model
	results  *display.ResultsDisplay
	ready    bool

	notice   *dashboard.Notice
	noticeID int

	width  int
	height int
}

// New mounts the dashboard. The configuration load it triggers starts with
// Init and is cancelled when the model quits.
func New(ctx context.Context, service dashboard.AnalysisService, initial dashboard.State, logger *log.Logger) Model {
	if logger == nil {
		logger = &log.DefaultLogger
	}
	ctx, cancel := context.WithCancel(ctx)

	state, pending := dashboard.Reduce(initial, dashboard.Mounted{})

	m := Model{
		ctx:     ctx,
		cancel:  cancel,
		service: service,
		logger:  logger,
		state:   state,
		pending: pending,
		tickers: newInput("BTC, ETH, ADA", 64),
		start:   newInput(dashboard.DateLayout, 10),
		end:     newInput(dashboard.DateLayout, 10),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		results: display.NewResultsDisplay(display.DefaultWidth),
	}
	m.tickers.SetValue(strings.Join(state.SelectedTickers, ", "))
	m.start.SetValue(state.StartDate)
	m.end.SetValue(state.EndDate)
	m.tickers.Focus()
	return m
}

func newInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = sidebarWidth - 6
	ti.Prompt = "› "
	return ti
}

// State returns the current dashboard state.
func (m Model) State() dashboard.State {
	return m.state
}

// Close abandons any call still in flight.
func (m Model) Close() {
	m.cancel()
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.commands(m.pending))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case configMsg:
		var cmd tea.Cmd
		if msg.err != nil {
			m.logger.Warn().Err(msg.err).Msg("configuration load failed, keeping defaults")
			cmd = m.apply(dashboard.ConfigFailed{Err: msg.err})
		} else {
			cmd = m.apply(dashboard.ConfigLoaded{Config: msg.cfg})
			m.tickers.SetValue(strings.Join(m.state.SelectedTickers, ", "))
			m.cursor = 0
		}
		return m, cmd

	case analysisMsg:
		if msg.err != nil {
			return m, m.apply(dashboard.AnalysisFailed{Err: msg.err})
		}
		m.tab = 0
		cmd := m.apply(dashboard.AnalysisSucceeded{Response: msg.resp})
		m.viewport.GotoTop()
		return m, cmd

	case noticeExpiredMsg:
		if msg.id == m.noticeID {
			m.notice = nil
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m.quit()
	case "tab":
		return m, m.setFocus((m.focus + 1) % focusCount)
	case "shift+tab":
		return m, m.setFocus((m.focus + focusCount - 1) % focusCount)
	case "enter":
		return m, m.apply(dashboard.FetchRequested{})
	case "esc":
		return m, m.apply(dashboard.ErrorCleared{})
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	if m.focus.editsText() {
		return m.updateInput(msg)
	}

	if msg.String() == "q" {
		return m.quit()
	}

	if m.focus == focusIndicators {
		choices := m.indicatorChoices()
		switch msg.String() {
		case "up", "k":
			m.cursor = max(m.cursor-1, 0)
		case "down", "j":
			m.cursor = min(m.cursor+1, len(choices)-1)
		case " ", "x":
			if m.cursor < len(choices) {
				return m, m.apply(dashboard.IndicatorToggled{Name: choices[m.cursor]})
			}
		}
		return m, nil
	}

	tabs := dashboard.Tabs(m.state)
	switch msg.String() {
	case "[", "left", "h":
		m.selectTab(m.tab - 1 + len(tabs))
	case "]", "right", "l":
		m.selectTab(m.tab + 1)
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var ev dashboard.Event
	switch m.focus {
	case focusTickers:
		m.tickers, cmd = m.tickers.Update(msg)
		ev = dashboard.TickersEdited{Text: m.tickers.Value()}
	case focusStart:
		m.start, cmd = m.start.Update(msg)
		ev = dashboard.StartDateEdited{Value: m.start.Value()}
	case focusEnd:
		m.end, cmd = m.end.Update(msg)
		ev = dashboard.EndDateEdited{Value: m.end.Value()}
	}
	return m, tea.Batch(cmd, m.apply(ev))
}

func (m *Model) setFocus(f focus) tea.Cmd {
	m.focus = f
	m.tickers.Blur()
	m.start.Blur()
	m.end.Blur()
	switch f {
	case focusTickers:
		return m.tickers.Focus()
	case focusStart:
		return m.start.Focus()
	case focusEnd:
		return m.end.Focus()
	}
	return nil
}

func (m *Model) selectTab(i int) {
	n := len(dashboard.Tabs(m.state))
	if n == 0 {
		return
	}
	m.tab = i % n
	m.refresh()
	m.viewport.GotoTop()
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.state, _ = dashboard.Reduce(m.state, dashboard.Unmounted{})
	m.cancel()
	return m, tea.Quit
}

// apply reduces ev into the model and returns the commands for its effects.
func (m *Model) apply(ev dashboard.Event) tea.Cmd {
	next, effects := dashboard.Reduce(m.state, ev)
	if before, after := m.state.Phase(), next.Phase(); before != after {
		m.logger.Debug().Str("from", before.String()).Str("to", after.String()).Msgf("dashboard transition on %T", ev)
	}
	m.state = next
	m.tab = display.ClampTab(m.tab, len(dashboard.Tabs(m.state)))
	m.cursor = display.ClampTab(m.cursor, len(m.indicatorChoices()))
	m.refresh()
	return m.commands(effects)
}

func (m *Model) commands(effects []dashboard.Effect) tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(effects))
	for _, eff := range effects {
		switch e := eff.(type) {
		case dashboard.LoadConfig:
			cmds = append(cmds, loadConfigCmd(m.ctx, m.service))
		case dashboard.RunAnalysis:
			m.logger.Info().Strs("tickers", e.Request.Tickers).Str("start", e.Request.StartDate).Str("end", e.Request.EndDate).Msg("running analysis")
			cmds = append(cmds, runAnalysisCmd(m.ctx, m.service, e.Request))
		case dashboard.Notify:
			cmds = append(cmds, m.showNotice(e.Notice))
		}
	}
	return tea.Batch(cmds...)
}

func (m *Model) showNotice(n dashboard.Notice) tea.Cmd {
	m.logger.Debug().Str("title", n.Title).Str("description", n.Description).Msg("notice")
	m.noticeID++
	m.notice = &n
	id := m.noticeID
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg {
		return noticeExpiredMsg{id: id}
	})
}

func loadConfigCmd(ctx context.Context, service dashboard.AnalysisService) tea.Cmd {
	return func() tea.Msg {
		cfg, err := service.GetConfig(ctx)
		return configMsg{cfg: cfg, err: err}
	}
}

func runAnalysisCmd(ctx context.Context, service dashboard.AnalysisService, req api.AnalysisRequest) tea.Cmd {
	return func() tea.Msg {
		resp, err := service.GetAnalysis(ctx, req)
		return analysisMsg{resp: resp, err: err}
	}
}

// indicatorChoices lists the server's indicators, or the default one before
// a configuration has been loaded.
func (m Model) indicatorChoices() []string {
	if len(m.state.AvailableIndicators) > 0 {
		return m.state.AvailableIndicators
	}
	return []string{dashboard.DefaultIndicator}
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	contentW := max(width-sidebarWidth-2, 20)
	contentH := max(height-1, 5)
	m.results.SetWidth(contentW - 2)
	if !m.ready {
		m.viewport = viewport.New(contentW, contentH)
		m.ready = true
	} else {
		m.viewport.Width = contentW
		m.viewport.Height = contentH
	}
	m.refresh()
}

func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.results.Content(m.state, m.tab))
}

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.sidebarView(), " ", m.viewport.View())
	return lipgloss.JoinVertical(lipgloss.Left, body, hintStyle.Render(m.helpLine()))
}

func (m Model) sidebarView() string {
	var b strings.Builder
	b.WriteString(appTitleStyle.Render("📊 CortexDash"))
	b.WriteString("\n\n")

	b.WriteString(m.label("Tickers", focusTickers) + "\n")
	b.WriteString(m.tickers.View() + "\n")
	if len(m.state.AvailableTickers) > 0 {
		b.WriteString(hintStyle.Width(sidebarWidth-4).Render("Available: "+strings.Join(m.state.AvailableTickers, ", ")) + "\n")
	}
	b.WriteString("\n")

	b.WriteString(m.label("Start Date", focusStart) + "\n")
	b.WriteString(m.start.View() + "\n")
	b.WriteString(m.label("End Date", focusEnd) + "\n")
	b.WriteString(m.end.View() + "\n\n")

	b.WriteString(m.label("Technical Indicators", focusIndicators) + "\n")
	for i, name := range m.indicatorChoices() {
		check := "[ ]"
		if m.state.IndicatorSelected(name) {
			check = "[x]"
		}
		line := fmt.Sprintf("  %s %s", check, name)
		if m.focus == focusIndicators && i == m.cursor {
			line = cursorStyle.Render(fmt.Sprintf("› %s %s", check, name))
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")

	switch {
	case m.state.IsLoading:
		b.WriteString(disabledButtonStyle.Render(m.spinner.View() + " Loading..."))
	case m.state.CanFetch():
		b.WriteString(buttonStyle.Render("⏎ Fetch Data"))
	default:
		b.WriteString(disabledButtonStyle.Render("⏎ Fetch Data"))
	}

	if m.notice != nil {
		style := noticeStyle
		if m.notice.Variant == dashboard.VariantDestructive {
			style = destructiveNoticeStyle
		}
		b.WriteString("\n\n")
		b.WriteString(style.Width(sidebarWidth - 4).Render(m.notice.Title + "\n" + hintStyle.Render(m.notice.Description)))
	}

	return sidebarStyle.Width(sidebarWidth).Render(b.String())
}

func (m Model) label(text string, f focus) string {
	if m.focus == f {
		return focusedLabelStyle.Render(text)
	}
	return labelStyle.Render(text)
}

func (m Model) helpLine() string {
	switch {
	case m.focus.editsText():
		return "tab: next field • enter: fetch • esc: clear error • ctrl+c: quit"
	case m.focus == focusIndicators:
		return "↑/↓: move • space: toggle • enter: fetch • tab: next • q: quit"
	default:
		return "←/→: switch tab • ↑/↓: scroll • enter: fetch • esc: clear error • q: quit"
	}
}

// Run starts the dashboard program and blocks until the user quits.
func Run(ctx context.Context, service dashboard.AnalysisService, initial dashboard.State, logger *log.Logger) error {
	m := New(ctx, service, initial, logger)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if fm, ok := final.(Model); ok {
		fm.Close()
	} else {
		m.Close()
	}
	if err != nil {
		return fmt.Errorf("dashboard exited: %w", err)
	}
	return nil
}
