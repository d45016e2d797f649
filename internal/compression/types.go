package compression

import (
	"fmt"
	"maps"
	"slices"
)

// ProbeType identifies what a probe tests.
type ProbeType string

const (
	// ProbeRecall tests factual retention.
	ProbeRecall ProbeType = "recall"
	// ProbeArtifact tests file tracking.
	ProbeArtifact ProbeType = "artifact"
	// ProbeContinuation tests task planning.
	ProbeContinuation ProbeType = "continuation"
	// ProbeDecision tests reasoning chains.
	ProbeDecision ProbeType = "decision"
)

// ParseProbeType converts s to a ProbeType.
func ParseProbeType(s string) (ProbeType, error) {
	switch t := ProbeType(s); t {
	case ProbeRecall, ProbeArtifact, ProbeContinuation, ProbeDecision:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownProbeType, s)
}

// UnmarshalText rejects unknown probe types.
func (t *ProbeType) UnmarshalText(text []byte) error {
	parsed, err := ParseProbeType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Dimension is one axis of compression quality.
type Dimension string

const (
	DimensionAccuracy             Dimension = "accuracy"
	DimensionContextAwareness     Dimension = "context_awareness"
	DimensionArtifactTrail        Dimension = "artifact_trail"
	DimensionCompleteness         Dimension = "completeness"
	DimensionContinuity           Dimension = "continuity"
	DimensionInstructionFollowing Dimension = "instruction_following"
)

type dimensionInfo struct {
	weight      float64
	description string
}

var dimensionTable = map[Dimension]dimensionInfo{
	DimensionAccuracy:             {0.20, "Technical correctness"},
	DimensionContextAwareness:     {0.15, "Conversation state"},
	DimensionArtifactTrail:        {0.20, "File tracking"},
	DimensionCompleteness:         {0.20, "Coverage and depth"},
	DimensionContinuity:           {0.15, "Work continuation"},
	DimensionInstructionFollowing: {0.10, "Constraint adherence"},
}

// Dimensions returns all dimensions in reporting order.
func Dimensions() []Dimension {
	return []Dimension{
		DimensionAccuracy,
		DimensionContextAwareness,
		DimensionArtifactTrail,
		DimensionCompleteness,
		DimensionContinuity,
		DimensionInstructionFollowing,
	}
}

// Weight returns the dimension's share of the quality score. Weights sum to 1.
func Weight(d Dimension) float64 {
	return dimensionTable[d].weight
}

// Description returns a short human description of d.
func Description(d Dimension) string {
	return dimensionTable[d].description
}

// FactType labels an extracted fact.
type FactType string

const (
	FactError          FactType = "error"
	FactNextStep       FactType = "next_step"
	FactDecision       FactType = "decision"
	FactImplementation FactType = "implementation"
	FactFinding        FactType = "finding"
)

// Fact is a probeable statement found in the conversation.
type Fact struct {
	Type    FactType `json:"type"`
	Content string   `json:"content"`
}

// Probe is a question with a known answer used to test a summary.
type Probe struct {
	Type             ProbeType `json:"type"`
	Question         string    `json:"question"`
	GroundTruth      string    `json:"ground_truth"`
	ContextReference string    `json:"context_reference,omitempty"`
}

// Scores holds per-dimension scores for one probe.
type Scores map[Dimension]float64

// Mean returns the unweighted mean of the scores, or 0 when empty.
func (s Scores) Mean() float64 {
	if len(s) == 0 {
		return 0
	}
	var sum float64
	for _, d := range slices.Sorted(maps.Keys(s)) {
		sum += s[d]
	}
	return sum / float64(len(s))
}

// ProbeResult is the judged outcome of one probe.
type ProbeResult struct {
	Probe        Probe
	Response     string
	Scores       Scores
	OverallScore float64
}

// Report is the result of evaluating a summary.
type Report struct {
	CompressionRatio float64
	QualityScore     float64
	DimensionScores  map[Dimension]float64
	ProbeResults     []ProbeResult
	Recommendations  []string
}

// ProbeLimits caps how many recall and decision probes are generated.
type ProbeLimits struct {
	Recall   int
	Decision int
}

// DefaultProbeLimits returns 3 recall and 2 decision probes.
func DefaultProbeLimits() ProbeLimits {
	return ProbeLimits{Recall: 3, Decision: 2}
}
