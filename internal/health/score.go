package health

import "fmt"

// Score thresholds and penalty weights.
const (
	utilizationPenaltyStart = 0.7
	utilizationPenalty      = 1.5
	degradationPenalty      = 0.3
	poisoningPenalty        = 0.2

	urgentUtilization  = 0.8
	warningUtilization = 0.7
	highPoisoningRisk  = 0.3
)

// Score combines the three risk signals into a health score in [0,1],
// where 1 is healthy.
func Score(utilization, degradation, poisoning float64) float64 {
	score := 1.0
	if utilization > utilizationPenaltyStart {
		score -= (utilization - utilizationPenaltyStart) * utilizationPenalty
	}
	score -= degradation * degradationPenalty
	score -= poisoning * poisoningPenalty
	return clamp01(score)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// StatusFor maps a score to a Status. Thresholds are strict: a score of
// exactly 0.8 is a warning, not healthy.
func StatusFor(score float64) Status {
	switch {
	case score > 0.8:
		return StatusHealthy
	case score > 0.6:
		return StatusWarning
	case score > 0.4:
		return StatusDegraded
	default:
		return StatusCritical
	}
}

// Recommend returns advice in a fixed order: utilization, middle
// warnings, poisoning, then the critical-status reset.
func Recommend(utilization float64, warnings int, poisoningRisk float64, status Status) []string {
	recs := []string{}

	if utilization > urgentUtilization {
		recs = append(recs, "URGENT: Context utilization >80%. Trigger compaction immediately.")
	} else if utilization > warningUtilization {
		recs = append(recs, "WARNING: Context utilization >70%. Plan for compaction.")
	}

	if warnings > 0 {
		recs = append(recs, fmt.Sprintf("Found %d critical items in middle region. Consider moving to beginning/end.", warnings))
	}

	if poisoningRisk > highPoisoningRisk {
		recs = append(recs, "High poisoning risk detected. Review recent tool outputs for errors.")
	}

	if status == StatusCritical {
		recs = append(recs, "CRITICAL: Consider context reset with clean state.")
	}

	return recs
}
