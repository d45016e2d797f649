package compression

import (
	"github.com/fyrsmithlabs/ctxeng/internal/conversation"
)

// ExtractFacts returns every fact in msgs, labeled by fact type.
func ExtractFacts(msgs []conversation.Message) []Fact {
	matches := FactPatterns.FindAll(msgs)
	facts := make([]Fact, 0, len(matches))
	for _, m := range matches {
		facts = append(facts, Fact{Type: FactType(m.Label), Content: m.Text})
	}
	return facts
}

// ExtractFiles returns the distinct file references in msgs in the order
// they were first seen.
func ExtractFiles(msgs []conversation.Message) []string {
	seen := make(map[string]struct{})
	var files []string
	for _, m := range FilePatterns.FindAll(msgs) {
		if _, ok := seen[m.Text]; ok {
			continue
		}
		seen[m.Text] = struct{}{}
		files = append(files, m.Text)
	}
	return files
}

// ExtractDecisions returns every decision phrase in msgs, duplicates included.
func ExtractDecisions(msgs []conversation.Message) []string {
	matches := DecisionPatterns.FindAll(msgs)
	decisions := make([]string, 0, len(matches))
	for _, m := range matches {
		decisions = append(decisions, m.Text)
	}
	return decisions
}
