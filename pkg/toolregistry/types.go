package toolregistry

import "slices"

// ToolMetadata describes one callable CRM tool
type ToolMetadata struct {
	Name                 string   `json:"name" yaml:"name"`
	Category             Category `json:"category" yaml:"category"`
	Description          string   `json:"description" yaml:"description"`
	Keywords             []string `json:"keywords" yaml:"keywords"`
	RequiredParams       []string `json:"required_params" yaml:"required_params"`
	OptionalParams       []string `json:"optional_params" yaml:"optional_params"`
	HelperTools          []string `json:"helper_tools" yaml:"helper_tools"` // run before this tool, in order
	RequiresConfirmation bool     `json:"requires_confirmation" yaml:"requires_confirmation"`
	TypicalUsagePattern  string   `json:"typical_usage_pattern" yaml:"typical_usage_pattern"`
}

// Clone returns a copy that shares no slices with md
func (md ToolMetadata) Clone() ToolMetadata {
	md.Keywords = cloneStrings(md.Keywords)
	md.RequiredParams = cloneStrings(md.RequiredParams)
	md.OptionalParams = cloneStrings(md.OptionalParams)
	md.HelperTools = cloneStrings(md.HelperTools)
	return md
}

func cloneStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return slices.Clone(s)
}

// ScoredTool pairs a tool with its relevance score for a query
type ScoredTool struct {
	Tool  ToolMetadata `json:"tool"`
	Score int          `json:"score"`
}

// Plan is the suggested execution plan for a primary tool
type Plan struct {
	PrimaryTool          string      `json:"primary_tool"`
	HelperTools          []string    `json:"helper_tools"`
	RequiresConfirmation bool        `json:"requires_confirmation"`
	ExecutionOrder       []PlanEntry `json:"execution_order"`
	TypicalPattern       string      `json:"typical_pattern"`
}

// PlanEntry is one tool invocation inside a Plan
type PlanEntry struct {
	Tool                 string `json:"tool"`
	Purpose              string `json:"purpose"`
	Required             bool   `json:"required"`
	RequiresConfirmation bool   `json:"requires_confirmation"`
}
