// Package toolregistry describes the CRM tools an agent can call and ranks
// them against free-text requests.
//
// Invariants:
// - Tool names are unique; registering a name again replaces its metadata.
// - A Registry is read-only once New returns and is safe for concurrent reads.
// - PlanFor always lists helper tools before the primary tool.
//
// Usage:
//
//	reg := toolregistry.New(tools)
//	for _, md := range reg.FindRelevant("schedule an interview", toolregistry.DefaultLimit) {
//		plan, _ := reg.PlanFor(md.Name)
//		_ = plan
//	}
package toolregistry
