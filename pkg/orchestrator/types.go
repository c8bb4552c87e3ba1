package orchestrator

import "github.com/harun/rcrm/pkg/toolregistry"

// ExecutionStep is one tool invocation the caller should dispatch.
// Params is left empty for the caller (usually the LLM) to fill in.
type ExecutionStep struct {
	ToolName             string         `json:"tool_name"`
	Params               map[string]any `json:"params"`
	Purpose              string         `json:"purpose"`
	StoreAs              string         `json:"store_as"`
	RequiresConfirmation bool           `json:"requires_confirmation"`
}

// Suggestions is the response to a free-text request: the best matching
// tools with their plans, plus a coarse analysis of the request
type Suggestions struct {
	PrimarySuggestions []ToolSuggestion `json:"primary_suggestions"`
	QueryAnalysis      QueryAnalysis    `json:"query_analysis"`
	ExecutionGuidance  string           `json:"execution_guidance"`
}

// ToolSuggestion describes one suggested tool
type ToolSuggestion struct {
	ToolName             string             `json:"tool_name"`
	Category             string             `json:"category"`
	Description          string             `json:"description"`
	RequiredParams       []string           `json:"required_params"`
	HelperTools          []string           `json:"helper_tools"`
	RequiresConfirmation bool               `json:"requires_confirmation"`
	ExecutionPlan        *toolregistry.Plan `json:"execution_plan"`
}

// QueryAnalysis is the intent and entity breakdown of a request
type QueryAnalysis struct {
	Intents    []string `json:"intents"`
	Entities   Entities `json:"entities"`
	Complexity string   `json:"complexity"`
}

// Entities flags which CRM entities and time references a request mentions
type Entities struct {
	Candidates bool     `json:"candidates"`
	Jobs       bool     `json:"jobs"`
	Companies  bool     `json:"companies"`
	TimeRange  []string `json:"time_range"`
}

// Complexity values
const (
	ComplexityLow  = "low"
	ComplexityHigh = "high"
)

// Intent names
const (
	IntentSearch  = "search"
	IntentCreate  = "create"
	IntentReport  = "report"
	IntentEmail   = "email"
	IntentMeeting = "meeting"
)
