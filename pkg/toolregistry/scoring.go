package toolregistry

import (
	"slices"
	"strings"
)

const (
	keywordWeight    = 3
	actionWordWeight = 5
)

// actionWords boost a tool when they appear in both the query and the tool name
var actionWords = []string{"create", "add", "schedule", "send", "search", "find", "get", "show"}

// Score computes the relevance of md for query:
//   - +3 per keyword that is a case-insensitive substring of the query
//   - +1 per distinct whitespace-delimited word shared by description and query
//   - +5 per action word that is a substring of both the query and the tool name
func Score(query string, md ToolMetadata) int {
	q := strings.ToLower(query)
	score := 0

	for _, keyword := range md.Keywords {
		if strings.Contains(q, strings.ToLower(keyword)) {
			score += keywordWeight
		}
	}

	score += sharedWords(strings.ToLower(md.Description), q)

	name := strings.ToLower(md.Name)
	for _, word := range actionWords {
		if strings.Contains(q, word) && strings.Contains(name, word) {
			score += actionWordWeight
		}
	}

	return score
}

// sharedWords returns the size of the intersection of the word sets of a and b
func sharedWords(a, b string) int {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(a) {
		set[w] = struct{}{}
	}

	common := 0
	for _, w := range strings.Fields(b) {
		if _, ok := set[w]; ok {
			common++
			delete(set, w)
		}
	}
	return common
}

// FindRelevantScored scores every tool against query, drops zero scores and
// returns at most limit tools ordered by descending score. Equal scores keep
// registry order.
func (r *Registry) FindRelevantScored(query string, limit int) []ScoredTool {
	if limit <= 0 {
		return []ScoredTool{}
	}

	scored := make([]ScoredTool, 0, r.tools.Len())
	for pair := r.tools.Oldest(); pair != nil; pair = pair.Next() {
		if s := Score(query, pair.Value); s > 0 {
			scored = append(scored, ScoredTool{Tool: pair.Value, Score: s})
		}
	}

	slices.SortStableFunc(scored, func(a, b ScoredTool) int {
		return b.Score - a.Score
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	for i := range scored {
		scored[i].Tool = scored[i].Tool.Clone()
	}
	return scored
}

// FindRelevant returns the tools most relevant to query, best first
func (r *Registry) FindRelevant(query string, limit int) []ToolMetadata {
	scored := r.FindRelevantScored(query, limit)
	tools := make([]ToolMetadata, len(scored))
	for i, st := range scored {
		tools[i] = st.Tool
	}
	return tools
}
