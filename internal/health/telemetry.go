package health

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// InstrumentationName is the name used for OTEL instrumentation.
const InstrumentationName = "github.com/fyrsmithlabs/ctxeng/internal/health"

// Metrics holds the analyzer's OpenTelemetry instruments.
type Metrics struct {
	analysesTotal metric.Int64Counter
	score         metric.Float64Histogram
	utilization   metric.Float64Histogram
}

// NewMetrics creates the analyzer instruments. If meter is nil, uses the
// global meter provider.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	if meter == nil {
		meter = otel.Meter(InstrumentationName)
	}

	m := &Metrics{}
	var err error

	m.analysesTotal, err = meter.Int64Counter(
		"health.analyses_total",
		metric.WithDescription("Total number of context health analyses"),
		metric.WithUnit("{analysis}"),
	)
	if err != nil {
		return nil, err
	}

	m.score, err = meter.Float64Histogram(
		"health.score",
		metric.WithDescription("Context health score (0-1)"),
		metric.WithExplicitBucketBoundaries(0.2, 0.4, 0.6, 0.8, 1.0),
	)
	if err != nil {
		return nil, err
	}

	m.utilization, err = meter.Float64Histogram(
		"health.utilization",
		metric.WithDescription("Context window utilization ratio"),
		metric.WithExplicitBucketBoundaries(0.25, 0.5, 0.7, 0.8, 0.9, 1.0, 1.5),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordAnalysis records one completed analysis.
func (m *Metrics) RecordAnalysis(ctx context.Context, a *Analysis) {
	if m == nil || a == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("status", a.Status.String()))
	m.analysesTotal.Add(ctx, 1, attrs)
	m.score.Record(ctx, a.HealthScore, attrs)
	m.utilization.Record(ctx, a.Utilization)
}
