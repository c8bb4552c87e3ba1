package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzeQueryIntent(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		intents    []string
		entities   Entities
		complexity string
	}{
		{
			name:       "placements report",
			query:      "How many placements did Sean make last year?",
			intents:    []string{IntentCreate, IntentReport}, // "make" also triggers create
			entities:   Entities{TimeRange: []string{"year", "last"}},
			complexity: ComplexityHigh,
		},
		{
			name:       "schedule triggers create and meeting",
			query:      "Schedule an interview next week",
			intents:    []string{IntentCreate, IntentMeeting},
			entities:   Entities{TimeRange: []string{"week", "next"}},
			complexity: ComplexityHigh,
		},
		{
			name:       "send triggers create and email",
			query:      "send a note",
			intents:    []string{IntentCreate, IntentEmail},
			entities:   Entities{TimeRange: []string{}},
			complexity: ComplexityHigh,
		},
		{
			name:       "single intent",
			query:      "list open positions at the client",
			intents:    []string{IntentSearch},
			entities:   Entities{Jobs: true, Companies: true, TimeRange: []string{}},
			complexity: ComplexityLow,
		},
		{
			name:       "people counts as candidates",
			query:      "which people moved today",
			intents:    []string{IntentSearch},
			entities:   Entities{Candidates: true, TimeRange: []string{"today"}},
			complexity: ComplexityLow,
		},
		{
			name:       "each time keyword at most once, in keyword order",
			query:      "this month vs last month, this year vs last year",
			intents:    []string{},
			entities:   Entities{TimeRange: []string{"month", "year", "last", "this"}},
			complexity: ComplexityLow,
		},
		{
			name:       "multi word trigger",
			query:      "reach out to Acme company",
			intents:    []string{IntentEmail},
			entities:   Entities{Companies: true, TimeRange: []string{}},
			complexity: ComplexityLow,
		},
		{
			name:       "empty query",
			query:      "",
			intents:    []string{},
			entities:   Entities{TimeRange: []string{}},
			complexity: ComplexityLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnalyzeQueryIntent(tt.query)
			assert.Equal(t, tt.intents, got.Intents)
			assert.Equal(t, tt.entities, got.Entities)
			assert.Equal(t, tt.complexity, got.Complexity)
		})
	}
}

func TestOrchestrator_AnalyzeQueryIntent(t *testing.T) {
	o := New(nil)
	got := o.AnalyzeQueryIntent("How many placements did Sean make last year?")
	assert.Contains(t, got.Intents, IntentReport)
	assert.Contains(t, got.Entities.TimeRange, "year")
	assert.Contains(t, got.Entities.TimeRange, "last")
}
