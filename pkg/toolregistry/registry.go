package toolregistry

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ErrToolNotFound is returned when a tool name is not registered
var ErrToolNotFound = errors.New("tool not found")

// DefaultLimit is the number of tools FindRelevant returns when asked for the default
const DefaultLimit = 5

// Registry owns the tool catalog, indexed by name and by category.
// It is populated by New and must not be mutated once it is shared.
type Registry struct {
	tools      *orderedmap.OrderedMap[string, ToolMetadata]
	categories map[Category][]string
	logger     zerolog.Logger
}

// Option configures a Registry
type Option func(*Registry)

// WithLogger sets the logger used to report registration events
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// New creates a registry holding the given catalog, registered in order
func New(catalog []ToolMetadata, opts ...Option) *Registry {
	r := &Registry{
		tools:      orderedmap.New[string, ToolMetadata](),
		categories: make(map[Category][]string, len(AllCategories())),
		logger:     zerolog.Nop(),
	}
	for _, cat := range AllCategories() {
		r.categories[cat] = []string{}
	}
	for _, opt := range opts {
		opt(r)
	}

	for _, md := range catalog {
		r.Register(md)
	}

	r.logger.Debug().
		Int("tools", r.tools.Len()).
		Msg("Tool registry initialized")

	return r
}

// Register inserts or overwrites the entry for md.Name and appends the name
// to its category list. A duplicate name replaces the earlier metadata but
// keeps the earlier position in iteration order.
func (r *Registry) Register(md ToolMetadata) {
	md = md.Clone()

	if _, exists := r.tools.Set(md.Name, md); exists {
		r.logger.Warn().
			Str("tool", md.Name).
			Str("category", md.Category.String()).
			Msg("Tool registered twice, previous metadata replaced")
	}
	r.categories[md.Category] = append(r.categories[md.Category], md.Name)
}

// Get retrieves tool metadata by name
func (r *Registry) Get(name string) (ToolMetadata, error) {
	md, ok := r.tools.Get(name)
	if !ok {
		return ToolMetadata{}, notFound(name)
	}
	return md.Clone(), nil
}

// Has reports whether a tool is registered
func (r *Registry) Has(name string) bool {
	_, ok := r.tools.Get(name)
	return ok
}

// Len returns the number of distinct registered tools
func (r *Registry) Len() int {
	return r.tools.Len()
}

// List returns all registered tools in registry order
func (r *Registry) List() []ToolMetadata {
	tools := make([]ToolMetadata, 0, r.tools.Len())
	for pair := r.tools.Oldest(); pair != nil; pair = pair.Next() {
		tools = append(tools, pair.Value.Clone())
	}
	return tools
}

// Names returns all registered tool names in registry order
func (r *Registry) Names() []string {
	names := make([]string, 0, r.tools.Len())
	for pair := r.tools.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// ToolsByCategory returns the tools registered under category, in
// registration order. An unknown category yields an empty slice.
func (r *Registry) ToolsByCategory(category Category) []ToolMetadata {
	names := r.categories[category]
	tools := make([]ToolMetadata, 0, len(names))
	for _, name := range names {
		if md, ok := r.tools.Get(name); ok {
			tools = append(tools, md.Clone())
		}
	}
	return tools
}

// MissingHelpers returns, per tool, the helper names that are not registered.
// Helper references are not checked at registration time.
func (r *Registry) MissingHelpers() map[string][]string {
	missing := make(map[string][]string)
	for pair := r.tools.Oldest(); pair != nil; pair = pair.Next() {
		for _, helper := range pair.Value.HelperTools {
			if !r.Has(helper) {
				missing[pair.Key] = append(missing[pair.Key], helper)
			}
		}
	}
	return missing
}

// PlanFor builds the execution plan for toolName: one entry per helper tool
// in declared order, then the tool itself.
func (r *Registry) PlanFor(toolName string) (*Plan, error) {
	md, ok := r.tools.Get(toolName)
	if !ok {
		return nil, notFound(toolName)
	}

	order := make([]PlanEntry, 0, len(md.HelperTools)+1)
	for _, helper := range md.HelperTools {
		order = append(order, PlanEntry{
			Tool:     helper,
			Purpose:  fmt.Sprintf("Get required data for %s", toolName),
			Required: true,
		})
	}
	order = append(order, PlanEntry{
		Tool:                 toolName,
		Purpose:              "Execute main action",
		Required:             true,
		RequiresConfirmation: md.RequiresConfirmation,
	})

	return &Plan{
		PrimaryTool:          toolName,
		HelperTools:          cloneStrings(md.HelperTools),
		RequiresConfirmation: md.RequiresConfirmation,
		ExecutionOrder:       order,
		TypicalPattern:       md.TypicalUsagePattern,
	}, nil
}

func notFound(name string) error {
	return errors.Mark(errors.Newf("tool %s not found", name), ErrToolNotFound)
}
