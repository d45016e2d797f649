package compression

import (
	"regexp"
	"strings"

	"github.com/fyrsmithlabs/ctxeng/internal/conversation"
)

// Pattern is one extraction regex. The first capture group, when present,
// is the extracted text; otherwise the whole match is.
type Pattern struct {
	Label string
	Expr  *regexp.Regexp
}

// PatternTable is an ordered set of patterns applied by FindAll.
type PatternTable struct {
	Name      string
	Patterns  []Pattern
	TrimSpace bool
}

// Match is one extraction result.
type Match struct {
	Message int
	Label   string
	Text    string
}

// FindAll applies every pattern to every message, messages outer and
// patterns inner, returning all non-overlapping matches in order.
func (t PatternTable) FindAll(msgs []conversation.Message) []Match {
	var out []Match
	for i, msg := range msgs {
		for _, p := range t.Patterns {
			for _, sub := range p.Expr.FindAllStringSubmatch(msg.Content, -1) {
				text := sub[0]
				if len(sub) > 1 {
					text = sub[1]
				}
				if t.TrimSpace {
					text = strings.TrimSpace(text)
				}
				out = append(out, Match{Message: i, Label: p.Label, Text: text})
			}
		}
	}
	return out
}

// filePath matches a path-like token ending in an extension, optionally
// quoted with backticks or quotes.
const filePath = "[`'\"]?([a-zA-Z0-9_/.-]+\\.[a-zA-Z]+)[`'\"]?"

// mentionPath is filePath for bare "in <file>" mentions. The extension must
// be at least two letters and end at a word boundary, so "in e.g" is not a
// file.
const mentionPath = "[`'\"]?([a-zA-Z0-9_/.-]+\\.[a-zA-Z]{2,})\\b"

// FactPatterns find probeable statements. Captures run to the next period.
var FactPatterns = PatternTable{
	Name: "facts",
	Patterns: []Pattern{
		{Label: string(FactError), Expr: regexp.MustCompile(`(?i)error[:\s]+([^.]+)`)},
		{Label: string(FactNextStep), Expr: regexp.MustCompile(`(?i)next step[s]?[:\s]+([^.]+)`)},
		{Label: string(FactDecision), Expr: regexp.MustCompile(`(?i)decided to\s+([^.]+)`)},
		{Label: string(FactImplementation), Expr: regexp.MustCompile(`(?i)implemented\s+([^.]+)`)},
		{Label: string(FactFinding), Expr: regexp.MustCompile(`(?i)found that\s+([^.]+)`)},
	},
	TrimSpace: true,
}

// FilePatterns find file references. They are case-sensitive.
var FilePatterns = PatternTable{
	Name: "files",
	Patterns: []Pattern{
		{Label: "verb", Expr: regexp.MustCompile(`(?:created|modified|updated|edited|read)\s+` + filePath)},
		{Label: "prefix", Expr: regexp.MustCompile(`file[:\s]+` + filePath)},
		{Label: "mention", Expr: regexp.MustCompile(`\bin\s+` + mentionPath)},
	},
}

// DecisionPatterns find decision points.
var DecisionPatterns = PatternTable{
	Name: "decisions",
	Patterns: []Pattern{
		{Label: "chose", Expr: regexp.MustCompile(`(?i)chose\s+([^.]+)\s+(?:because|since|over)`)},
		{Label: "decided", Expr: regexp.MustCompile(`(?i)decided\s+(?:to\s+)?([^.]+)`)},
		{Label: "went_with", Expr: regexp.MustCompile(`(?i)went with\s+([^.]+)`)},
	},
}
