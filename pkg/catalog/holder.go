package catalog

import (
	"sync/atomic"

	"github.com/harun/rcrm/pkg/toolregistry"
)

// Holder is a swappable handle to the current registry. It forwards the
// read operations the orchestrator needs, so a watcher can replace the
// catalog without callers holding a stale registry.
type Holder struct {
	current atomic.Pointer[toolregistry.Registry]
}

// NewHolder creates a holder pointing at reg
func NewHolder(reg *toolregistry.Registry) *Holder {
	h := &Holder{}
	h.current.Store(reg)
	return h
}

// Load returns the current registry
func (h *Holder) Load() *toolregistry.Registry {
	return h.current.Load()
}

// Swap replaces the current registry and returns the previous one
func (h *Holder) Swap(reg *toolregistry.Registry) *toolregistry.Registry {
	return h.current.Swap(reg)
}

// FindRelevant forwards to the current registry
func (h *Holder) FindRelevant(query string, limit int) []toolregistry.ToolMetadata {
	return h.Load().FindRelevant(query, limit)
}

// FindRelevantScored forwards to the current registry
func (h *Holder) FindRelevantScored(query string, limit int) []toolregistry.ScoredTool {
	return h.Load().FindRelevantScored(query, limit)
}

// PlanFor forwards to the current registry
func (h *Holder) PlanFor(toolName string) (*toolregistry.Plan, error) {
	return h.Load().PlanFor(toolName)
}

// ToolsByCategory forwards to the current registry
func (h *Holder) ToolsByCategory(category toolregistry.Category) []toolregistry.ToolMetadata {
	return h.Load().ToolsByCategory(category)
}

// List forwards to the current registry
func (h *Holder) List() []toolregistry.ToolMetadata {
	return h.Load().List()
}
