package compression

import (
	"github.com/fyrsmithlabs/ctxeng/internal/tokens"
)

// Quality thresholds.
const (
	neutralScore         = 0.5
	highCompressionRatio = 0.99
	weakDimension        = 0.5
	minQuality           = 0.6
)

// CompressionRatio returns 1 - tokens(compressed)/tokens(original), or 0
// when the original estimates to zero tokens.
func CompressionRatio(original, compressed string) float64 {
	o := tokens.Estimate(original)
	if o == 0 {
		return 0
	}
	return 1 - float64(tokens.Estimate(compressed))/float64(o)
}

// Aggregate averages each dimension over the probes that scored it.
// Dimensions no probe scored get the neutral 0.5. Scores for unknown
// dimensions are ignored.
func Aggregate(results []ProbeResult) map[Dimension]float64 {
	sums := make(map[Dimension]float64)
	counts := make(map[Dimension]int)
	for _, r := range results {
		for d, s := range r.Scores {
			if _, known := dimensionTable[d]; !known {
				continue
			}
			sums[d] += s
			counts[d]++
		}
	}

	avgs := make(map[Dimension]float64, len(dimensionTable))
	for _, d := range Dimensions() {
		if counts[d] == 0 {
			avgs[d] = neutralScore
			continue
		}
		avgs[d] = sums[d] / float64(counts[d])
	}
	return avgs
}

// QualityScore is the weighted sum of dimension averages. Missing
// dimensions count as neutral.
func QualityScore(avgs map[Dimension]float64) float64 {
	var q float64
	for _, d := range Dimensions() {
		v, ok := avgs[d]
		if !ok {
			v = neutralScore
		}
		q += v * Weight(d)
	}
	return q
}

// Recommend returns advice for a compression result. Every check is
// independent.
func Recommend(ratio float64, avgs map[Dimension]float64, quality float64) []string {
	recs := []string{}

	if ratio > highCompressionRatio {
		recs = append(recs, "Very high compression. Risk of information loss.")
	}
	if dimensionOr(avgs, DimensionArtifactTrail, 1) < weakDimension {
		recs = append(recs, "Artifact tracking weak. Add explicit file section to summary.")
	}
	if dimensionOr(avgs, DimensionContinuity, 1) < weakDimension {
		recs = append(recs, "Continuity low. Add 'Next Steps' section to summary.")
	}
	if quality < minQuality {
		recs = append(recs, "Quality below threshold. Consider less aggressive compression.")
	}

	return recs
}

func dimensionOr(avgs map[Dimension]float64, d Dimension, fallback float64) float64 {
	if v, ok := avgs[d]; ok {
		return v
	}
	return fallback
}
