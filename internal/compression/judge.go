package compression

import (
	"context"
	"math"
	"regexp"
	"strings"
)

// Judgement is a judge's answer to one probe.
type Judgement struct {
	Response string
	Scores   Scores
}

// Judge scores a summary against a probe.
type Judge interface {
	Judge(ctx context.Context, probe Probe, summary string) (Judgement, error)
}

// JudgeFunc adapts a function to the Judge interface.
type JudgeFunc func(ctx context.Context, probe Probe, summary string) (Judgement, error)

// Judge calls f.
func (f JudgeFunc) Judge(ctx context.Context, probe Probe, summary string) (Judgement, error) {
	return f(ctx, probe, summary)
}

// HeuristicResponse is the response recorded by HeuristicJudge, which
// scores the summary directly instead of asking a model.
const HeuristicResponse = "[Would be LLM response]"

// Base scores assigned by BaseScore.
const (
	scoreExact   = 1.0
	scorePartial = 0.6
	scoreMiss    = 0.3

	leadingWords    = 3
	artifactPerFile = 0.1
)

// fileExtension counts extension-like substrings in a lowercased response.
var fileExtension = regexp.MustCompile(`\.[a-z]+`)

// HeuristicJudge scores summaries by text matching against ground truth.
type HeuristicJudge struct{}

// Judge implements Judge. It never fails.
func (HeuristicJudge) Judge(_ context.Context, probe Probe, summary string) (Judgement, error) {
	return Judgement{
		Response: HeuristicResponse,
		Scores:   HeuristicScores(probe, summary),
	}, nil
}

// BaseScore compares response with groundTruth case-insensitively: 1.0
// when the whole ground truth appears, 0.6 when any of its first three
// words appears, otherwise 0.3.
func BaseScore(groundTruth, response string) float64 {
	resp := strings.ToLower(response)
	truth := strings.ToLower(groundTruth)

	if strings.Contains(resp, truth) {
		return scoreExact
	}

	words := strings.Fields(truth)
	if len(words) > leadingWords {
		words = words[:leadingWords]
	}
	for _, w := range words {
		if strings.Contains(resp, w) {
			return scorePartial
		}
	}
	return scoreMiss
}

// HeuristicScores maps the base score onto the dimensions each probe
// type exercises.
func HeuristicScores(probe Probe, response string) Scores {
	base := BaseScore(probe.GroundTruth, response)

	switch probe.Type {
	case ProbeArtifact:
		mentioned := len(fileExtension.FindAllStringIndex(strings.ToLower(response), -1))
		return Scores{
			DimensionArtifactTrail: math.Min(1, base+float64(mentioned)*artifactPerFile),
			DimensionAccuracy:      base,
		}
	case ProbeRecall:
		return Scores{
			DimensionAccuracy:     base,
			DimensionCompleteness: base,
		}
	case ProbeContinuation:
		return Scores{
			DimensionContinuity:       base,
			DimensionContextAwareness: base,
		}
	case ProbeDecision:
		return Scores{
			DimensionAccuracy:         base,
			DimensionContextAwareness: base,
		}
	default:
		return Scores{}
	}
}
