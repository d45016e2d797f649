package health

import (
	"fmt"
	"math"
	"strings"

	"github.com/fyrsmithlabs/ctxeng/internal/conversation"
)

// Middle band boundaries, as fractions of the conversation length.
const (
	middleLow      = 0.1
	middleHigh     = 0.9
	highRiskLow    = 0.3
	highRiskHigh   = 0.7
	riskPerWarning = 0.2
)

// DetectLostInMiddle reports every critical keyword found in a message
// whose position i/len lies strictly inside (0.1, 0.9). Matching is a
// case-insensitive substring test. One warning is emitted per keyword per
// message; empty keywords are ignored.
func DetectLostInMiddle(msgs []conversation.Message, keywords []string) []AttentionWarning {
	if len(msgs) == 0 {
		return nil
	}

	total := float64(len(msgs))
	var warnings []AttentionWarning

	for i, msg := range msgs {
		position := float64(i) / total
		if position <= middleLow || position >= middleHigh {
			continue
		}

		content := strings.ToLower(msg.Content)
		for _, kw := range keywords {
			if kw == "" || !strings.Contains(content, strings.ToLower(kw)) {
				continue
			}
			risk := RiskMedium
			if position > highRiskLow && position < highRiskHigh {
				risk = RiskHigh
			}
			warnings = append(warnings, AttentionWarning{
				Position:    i,
				PositionPct: fmt.Sprintf("%.1f%%", position*100),
				Keyword:     kw,
				Risk:        risk,
			})
		}
	}
	return warnings
}

// DegradationRisk converts a warning count into a risk in [0,1].
func DegradationRisk(warnings int) float64 {
	return math.Min(1, float64(warnings)*riskPerWarning)
}

// AttentionCurve simulates the U-shaped attention a model pays across
// sampleSize evenly spaced positions: high at both ends, near 0.3-0.4 in
// the middle.
func AttentionCurve(sampleSize int) []float64 {
	if sampleSize <= 0 {
		return nil
	}

	curve := make([]float64, sampleSize)
	for i := range curve {
		p := float64(i) / float64(sampleSize)
		switch {
		case p < middleLow:
			curve[i] = 0.9 - p*2
		case p > middleHigh:
			curve[i] = 0.7 + (p-middleHigh)*2
		default:
			curve[i] = 0.3 + 0.1*math.Sin(p*math.Pi)
		}
	}
	return curve
}
