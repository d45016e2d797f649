package compression

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// InstrumentationName is the name used for OTEL instrumentation.
const InstrumentationName = "github.com/fyrsmithlabs/ctxeng/internal/compression"

// Metrics holds the evaluator's OpenTelemetry instruments.
type Metrics struct {
	evaluationsTotal metric.Int64Counter
	qualityScore     metric.Float64Histogram
	ratio            metric.Float64Histogram
	probesTotal      metric.Int64Counter
}

// NewMetrics creates the evaluator instruments. If meter is nil, uses the
// global meter provider.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	if meter == nil {
		meter = otel.Meter(InstrumentationName)
	}

	m := &Metrics{}
	var err error

	m.evaluationsTotal, err = meter.Int64Counter(
		"compression.evaluations_total",
		metric.WithDescription("Total number of compression evaluations"),
		metric.WithUnit("{evaluation}"),
	)
	if err != nil {
		return nil, err
	}

	m.qualityScore, err = meter.Float64Histogram(
		"compression.quality_score",
		metric.WithDescription("Weighted compression quality score (0-1)"),
		metric.WithExplicitBucketBoundaries(0.2, 0.4, 0.6, 0.8, 1.0),
	)
	if err != nil {
		return nil, err
	}

	m.ratio, err = meter.Float64Histogram(
		"compression.ratio",
		metric.WithDescription("Fraction of tokens removed by compression"),
		metric.WithExplicitBucketBoundaries(0, 0.25, 0.5, 0.75, 0.9, 0.95, 0.99, 1.0),
	)
	if err != nil {
		return nil, err
	}

	m.probesTotal, err = meter.Int64Counter(
		"compression.probes_total",
		metric.WithDescription("Total number of probes judged"),
		metric.WithUnit("{probe}"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordEvaluation records one completed evaluation.
func (m *Metrics) RecordEvaluation(ctx context.Context, r *Report) {
	if m == nil || r == nil {
		return
	}
	m.evaluationsTotal.Add(ctx, 1)
	m.qualityScore.Record(ctx, r.QualityScore)
	m.ratio.Record(ctx, r.CompressionRatio)

	counts := make(map[ProbeType]int64)
	for _, pr := range r.ProbeResults {
		counts[pr.Probe.Type]++
	}
	for t, n := range counts {
		m.probesTotal.Add(ctx, n, metric.WithAttributes(attribute.String("type", string(t))))
	}
}
