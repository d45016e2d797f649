package health

import (
	"math"
	"regexp"
	"strings"

	"github.com/fyrsmithlabs/ctxeng/internal/conversation"
)

// ErrorPatterns are the error-vocabulary regexes searched in lowercased
// message content. Each pattern counts at most once per message.
var ErrorPatterns = []string{
	"error", "failed", "exception", "cannot", "unable",
	"invalid", "not found", "undefined", "null",
}

// ContradictionPair is a positive phrase and its negation. A message
// containing both is a self-contradiction.
type ContradictionPair struct {
	Positive string
	Negative string
}

// ContradictionPairs are matched as exact lowercase substrings.
var ContradictionPairs = []ContradictionPair{
	{Positive: "is correct", Negative: "is not correct"},
	{Positive: "should work", Negative: "should not work"},
	{Positive: "will succeed", Negative: "will fail"},
	{Positive: "is valid", Negative: "is invalid"},
}

const (
	riskPerError         = 0.1
	riskPerContradiction = 0.3
)

var compiledErrorPatterns = compilePatterns(ErrorPatterns)

func compilePatterns(patterns []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}

// DetectPoisoning counts error-pattern hits and self-contradictions.
//
// Risk is min(1, 0.1*errors + 0.3*contradictions) and ErrorDensity is
// errors divided by max(len(msgs), 1).
func DetectPoisoning(msgs []conversation.Message) PoisoningReport {
	var report PoisoningReport

	for i, msg := range msgs {
		content := strings.ToLower(msg.Content)

		for j, re := range compiledErrorPatterns {
			if re.MatchString(content) {
				report.ErrorCount++
				report.Findings = append(report.Findings, PoisoningFinding{
					Position: i,
					Kind:     FindingError,
					Pattern:  ErrorPatterns[j],
				})
			}
		}

		for _, pair := range ContradictionPairs {
			if strings.Contains(content, pair.Positive) && strings.Contains(content, pair.Negative) {
				report.ContradictionCount++
				report.Findings = append(report.Findings, PoisoningFinding{
					Position: i,
					Kind:     FindingContradiction,
					Pattern:  pair.Positive + " / " + pair.Negative,
				})
			}
		}
	}

	report.ErrorDensity = float64(report.ErrorCount) / float64(max(len(msgs), 1))
	report.Risk = math.Min(1, float64(report.ErrorCount)*riskPerError+float64(report.ContradictionCount)*riskPerContradiction)
	return report
}
