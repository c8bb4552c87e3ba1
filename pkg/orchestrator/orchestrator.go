package orchestrator

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/harun/rcrm/pkg/toolregistry"
	"github.com/rs/zerolog"
)

const (
	// planSearchLimit is how many tools are considered when picking a primary tool
	planSearchLimit = 1
	// suggestionLimit is how many tools GetToolSuggestions returns
	suggestionLimit = 3
)

// Registry is the part of the tool registry the orchestrator reads
type Registry interface {
	FindRelevant(query string, limit int) []toolregistry.ToolMetadata
	PlanFor(toolName string) (*toolregistry.Plan, error)
}

// Recorder receives counters about orchestrator calls
type Recorder interface {
	RelevanceQuery(matches int)
	PlanCreated(steps int, err error)
	SuggestionsServed(count int)
}

type nopRecorder struct{}

func (nopRecorder) RelevanceQuery(int)     {}
func (nopRecorder) PlanCreated(int, error) {}
func (nopRecorder) SuggestionsServed(int)  {}

// Orchestrator turns free-text requests into ordered tool plans.
// It holds no mutable state and is safe for concurrent use.
type Orchestrator struct {
	registry Registry
	logger   zerolog.Logger
	recorder Recorder
}

// Option is a functional option for configuring the Orchestrator
type Option func(*Orchestrator)

// WithLogger sets the logger for the orchestrator
func WithLogger(logger zerolog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithRecorder sets the metrics recorder for the orchestrator
func WithRecorder(recorder Recorder) Option {
	return func(o *Orchestrator) {
		if recorder != nil {
			o.recorder = recorder
		}
	}
}

// New creates a new Orchestrator reading from registry
func New(registry Registry, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		registry: registry,
		logger:   zerolog.Nop(),
		recorder: nopRecorder{},
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// CreateExecutionPlan returns the ordered steps for satisfying query.
// When primaryTool is empty the best matching tool is used; if nothing
// matches the plan is empty and the error is nil. An unknown primaryTool
// yields toolregistry.ErrToolNotFound.
func (o *Orchestrator) CreateExecutionPlan(query string, primaryTool string) ([]ExecutionStep, error) {
	if primaryTool == "" {
		relevant := o.registry.FindRelevant(query, planSearchLimit)
		o.recorder.RelevanceQuery(len(relevant))
		if len(relevant) == 0 {
			o.logger.Debug().
				Str("query", query).
				Msg("No relevant tool found, returning empty plan")
			o.recorder.PlanCreated(0, nil)
			return []ExecutionStep{}, nil
		}
		primaryTool = relevant[0].Name
	}

	plan, err := o.registry.PlanFor(primaryTool)
	if err != nil {
		o.recorder.PlanCreated(0, err)
		return nil, errors.Wrap(err, "failed to create execution plan")
	}

	steps := make([]ExecutionStep, 0, len(plan.ExecutionOrder))
	for _, entry := range plan.ExecutionOrder {
		steps = append(steps, ExecutionStep{
			ToolName:             entry.Tool,
			Params:               map[string]any{},
			Purpose:              entry.Purpose,
			StoreAs:              fmt.Sprintf("%s_result", entry.Tool),
			RequiresConfirmation: entry.RequiresConfirmation,
		})
	}

	o.logger.Debug().
		Str("primary_tool", primaryTool).
		Int("steps", len(steps)).
		Msg("Execution plan created")
	o.recorder.PlanCreated(len(steps), nil)

	return steps, nil
}

// GetToolSuggestions returns the top matching tools for query, each with its
// execution plan, together with an intent analysis of the query. No tool is
// executed.
func (o *Orchestrator) GetToolSuggestions(query string) (*Suggestions, error) {
	relevant := o.registry.FindRelevant(query, suggestionLimit)
	o.recorder.RelevanceQuery(len(relevant))

	suggestions := &Suggestions{
		PrimarySuggestions: make([]ToolSuggestion, 0, len(relevant)),
		QueryAnalysis:      AnalyzeQueryIntent(query),
	}

	for _, tool := range relevant {
		plan, err := o.registry.PlanFor(tool.Name)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to plan suggested tool %s", tool.Name)
		}
		suggestions.PrimarySuggestions = append(suggestions.PrimarySuggestions, ToolSuggestion{
			ToolName:             tool.Name,
			Category:             tool.Category.String(),
			Description:          tool.Description,
			RequiredParams:       tool.RequiredParams,
			HelperTools:          tool.HelperTools,
			RequiresConfirmation: tool.RequiresConfirmation,
			ExecutionPlan:        plan,
		})
	}

	o.logger.Debug().
		Str("query", query).
		Int("suggestions", len(suggestions.PrimarySuggestions)).
		Strs("intents", suggestions.QueryAnalysis.Intents).
		Msg("Tool suggestions computed")
	o.recorder.SuggestionsServed(len(suggestions.PrimarySuggestions))

	return suggestions, nil
}

// AnalyzeQueryIntent is a convenience wrapper around the package-level function
func (o *Orchestrator) AnalyzeQueryIntent(query string) QueryAnalysis {
	return AnalyzeQueryIntent(query)
}
