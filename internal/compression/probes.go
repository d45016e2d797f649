package compression

import (
	"fmt"
	"strings"

	"github.com/fyrsmithlabs/ctxeng/internal/conversation"
)

// Fixed probe text.
const (
	ArtifactQuestion        = "Which files have been modified or created?"
	ContinuationQuestion    = "What should be done next?"
	ContinuationGroundTruth = "[Extracted from context]"

	decisionPreviewRunes = 50
)

// GenerateProbes builds the probe set for msgs: up to limits.Recall recall
// probes, one artifact probe when files were found, one continuation probe
// and up to limits.Decision decision probes, in that order. Negative
// limits count as zero.
func GenerateProbes(msgs []conversation.Message, limits ProbeLimits) []Probe {
	var probes []Probe

	facts := ExtractFacts(msgs)
	for _, f := range facts[:clampLimit(limits.Recall, len(facts))] {
		probes = append(probes, Probe{
			Type:        ProbeRecall,
			Question:    fmt.Sprintf("What was the %s?", strings.ReplaceAll(string(f.Type), "_", " ")),
			GroundTruth: f.Content,
		})
	}

	if files := ExtractFiles(msgs); len(files) > 0 {
		probes = append(probes, Probe{
			Type:        ProbeArtifact,
			Question:    ArtifactQuestion,
			GroundTruth: strings.Join(files, ", "),
		})
	}

	probes = append(probes, Probe{
		Type:        ProbeContinuation,
		Question:    ContinuationQuestion,
		GroundTruth: ContinuationGroundTruth,
	})

	decisions := ExtractDecisions(msgs)
	for _, d := range decisions[:clampLimit(limits.Decision, len(decisions))] {
		probes = append(probes, Probe{
			Type:        ProbeDecision,
			Question:    fmt.Sprintf("Why was the decision made to %s...?", truncateRunes(d, decisionPreviewRunes)),
			GroundTruth: d,
		})
	}

	return probes
}

func clampLimit(limit, n int) int {
	return max(0, min(limit, n))
}

// truncateRunes returns the first n runes of s.
func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
