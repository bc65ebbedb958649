package dashboard

import (
	"context"
	"sync"

	"github.com/phuslu/log"

	"github.com/dyike/cortexdash/internal/api"
)

// AnalysisService is the part of the API client the dashboard needs.
type AnalysisService interface {
	GetConfig(ctx context.Context, opts ...api.RequestOption) (*api.ConfigResponse, error)
	GetAnalysis(ctx context.Context, req api.AnalysisRequest, opts ...api.RequestOption) (*api.AnalysisResponse, error)
}

type Notifier interface {
	Notify(Notice)
}

type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

// Controller runs Reduce against a live AnalysisService. Effects execute on
// the calling goroutine, so Mount and Fetch block until their call settles.
type Controller struct {
	service  AnalysisService
	notifier Notifier
	logger   *log.Logger

	mu    sync.Mutex
	state State

	lifecycle context.Context
	cancel    context.CancelFunc
}

func NewController(service AnalysisService, notifier Notifier, initial State, logger *log.Logger) *Controller {
	if notifier == nil {
		notifier = NotifierFunc(func(Notice) {})
	}
	if logger == nil {
		logger = &log.DefaultLogger
	}
	return &Controller{
		service:  service,
		notifier: notifier,
		logger:   logger,
		state:    initial,
	}
}

// State returns a snapshot. Reduce never mutates slices in place, so the
// snapshot stays valid after further events.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Mount opens the dashboard and loads the remote configuration. The load is
// bound to a lifecycle derived from ctx and is abandoned by Close.
func (c *Controller) Mount(ctx context.Context) State {
	c.mu.Lock()
	if c.lifecycle == nil {
		c.lifecycle, c.cancel = context.WithCancel(ctx)
	}
	lifecycle := c.lifecycle
	c.mu.Unlock()

	return c.Dispatch(lifecycle, Mounted{})
}

// Close marks the dashboard unmounted before cancelling the lifecycle, so a
// load that is still in flight cannot touch the state afterwards.
func (c *Controller) Close() {
	c.Dispatch(context.Background(), Unmounted{})

	c.mu.Lock()
	cancel := c.cancel
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (c *Controller) ToggleIndicator(name string) State {
	return c.Dispatch(context.Background(), IndicatorToggled{Name: name})
}

func (c *Controller) EditTickers(text string) State {
	return c.Dispatch(context.Background(), TickersEdited{Text: text})
}

func (c *Controller) EditStartDate(value string) State {
	return c.Dispatch(context.Background(), StartDateEdited{Value: value})
}

func (c *Controller) EditEndDate(value string) State {
	return c.Dispatch(context.Background(), EndDateEdited{Value: value})
}

// Fetch runs an analysis for the current selection. The request is
// cancelled by ctx or by Close, whichever comes first.
func (c *Controller) Fetch(ctx context.Context) State {
	ctx, cancel := c.bind(ctx)
	defer cancel()
	return c.Dispatch(ctx, FetchRequested{})
}

// bind derives a context from ctx that also ends with the lifecycle.
func (c *Controller) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)

	c.mu.Lock()
	lifecycle := c.lifecycle
	c.mu.Unlock()
	if lifecycle == nil {
		return ctx, cancel
	}

	stop := context.AfterFunc(lifecycle, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

func (c *Controller) ClearError() State {
	return c.Dispatch(context.Background(), ErrorCleared{})
}

// Dispatch applies ev, runs the resulting effects and returns the state once
// they have all settled.
func (c *Controller) Dispatch(ctx context.Context, ev Event) State {
	c.mu.Lock()
	before := c.state.Phase()
	next, effects := Reduce(c.state, ev)
	c.state = next
	c.mu.Unlock()

	if after := next.Phase(); after != before {
		c.logger.Debug().Str("from", before.String()).Str("to", after.String()).Msgf("dashboard transition on %T", ev)
	}

	for _, eff := range effects {
		c.run(ctx, eff)
	}
	return c.State()
}

func (c *Controller) run(ctx context.Context, eff Effect) {
	switch e := eff.(type) {
	case LoadConfig:
		cfg, err := c.service.GetConfig(ctx)
		if err != nil {
			c.logger.Warn().Err(err).Msg("configuration load failed, keeping defaults")
			c.Dispatch(ctx, ConfigFailed{Err: err})
			return
		}
		c.Dispatch(ctx, ConfigLoaded{Config: cfg})

	case RunAnalysis:
		c.logger.Info().Strs("tickers", e.Request.Tickers).Str("start", e.Request.StartDate).Str("end", e.Request.EndDate).Msg("running analysis")
		resp, err := c.service.GetAnalysis(ctx, e.Request)
		if err != nil {
			c.Dispatch(ctx, AnalysisFailed{Err: err})
			return
		}
		c.Dispatch(ctx, AnalysisSucceeded{Response: resp})

	case Notify:
		c.notifier.Notify(e.Notice)
	}
}
