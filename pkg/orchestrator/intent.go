package orchestrator

import "strings"

type intentTriggers struct {
	intent   string
	triggers []string
}

// intentKeywords is evaluated in order. "schedule" and "send" intentionally
// trigger two intents each.
var intentKeywords = []intentTriggers{
	{IntentSearch, []string{"find", "search", "show", "list", "get", "who", "which"}},
	{IntentCreate, []string{"create", "add", "make", "schedule", "send"}},
	{IntentReport, []string{"report", "analytics", "how many", "count", "performance", "metrics"}},
	{IntentEmail, []string{"email", "send", "message", "contact", "reach out"}},
	{IntentMeeting, []string{"meeting", "schedule", "appointment", "interview", "call"}},
}

var timeKeywords = []string{"yesterday", "today", "tomorrow", "week", "month", "year", "last", "this", "next"}

// AnalyzeQueryIntent detects intents, mentioned entities and time references
// by substring matching on the lowercased query
func AnalyzeQueryIntent(query string) QueryAnalysis {
	q := strings.ToLower(query)

	intents := []string{}
	for _, it := range intentKeywords {
		if containsAny(q, it.triggers) {
			intents = append(intents, it.intent)
		}
	}

	complexity := ComplexityLow
	if len(intents) > 1 {
		complexity = ComplexityHigh
	}

	return QueryAnalysis{
		Intents: intents,
		Entities: Entities{
			Candidates: containsAny(q, []string{"candidate", "people"}),
			Jobs:       containsAny(q, []string{"job", "position"}),
			Companies:  containsAny(q, []string{"company", "client"}),
			TimeRange:  timeReferences(q),
		},
		Complexity: complexity,
	}
}

// timeReferences lists each time keyword found in q at most once, in keyword order
func timeReferences(q string) []string {
	refs := []string{}
	for _, kw := range timeKeywords {
		if strings.Contains(q, kw) {
			refs = append(refs, kw)
		}
	}
	return refs
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
