package dashboard

import "github.com/dyike/cortexdash/internal/api"

// Event is anything that can change State: user input or the outcome of an
// API call.
type Event interface {
	isEvent()
}

// Mounted opens the dashboard. Only the first one has any effect.
type Mounted struct{}

// Unmounted closes the dashboard. Outcomes arriving afterwards are dropped.
type Unmounted struct{}

type ConfigLoaded struct {
	Config *api.ConfigResponse
}

type ConfigFailed struct {
	Err error
}

type IndicatorToggled struct {
	Name string
}

// TickersEdited carries the raw comma-separated ticker text.
type TickersEdited struct {
	Text string
}

type StartDateEdited struct {
	Value string
}

type EndDateEdited struct {
	Value string
}

type FetchRequested struct{}

type AnalysisSucceeded struct {
	Response *api.AnalysisResponse
}

type AnalysisFailed struct {
	Err error
}

type ErrorCleared struct{}

func (Mounted) isEvent()           {}
func (Unmounted) isEvent()         {}
func (ConfigLoaded) isEvent()      {}
func (ConfigFailed) isEvent()      {}
func (IndicatorToggled) isEvent()  {}
func (TickersEdited) isEvent()     {}
func (StartDateEdited) isEvent()   {}
func (EndDateEdited) isEvent()     {}
func (FetchRequested) isEvent()    {}
func (AnalysisSucceeded) isEvent() {}
func (AnalysisFailed) isEvent()    {}
func (ErrorCleared) isEvent()      {}

// Effect is work Reduce asks its caller to perform.
type Effect interface {
	isEffect()
}

// LoadConfig asks for GET /config; the outcome comes back as ConfigLoaded
// or ConfigFailed.
type LoadConfig struct{}

// RunAnalysis asks for POST /analyze; the outcome comes back as
// AnalysisSucceeded or AnalysisFailed.
type RunAnalysis struct {
	Request api.AnalysisRequest
}

// Notify asks for a transient notice to be shown.
type Notify struct {
	Notice Notice
}

func (LoadConfig) isEffect()  {}
func (RunAnalysis) isEffect() {}
func (Notify) isEffect()      {}

type Variant int

const (
	VariantDefault Variant = iota
	VariantDestructive
)

type Notice struct {
	Title       string
	Description string
	Variant     Variant
}
