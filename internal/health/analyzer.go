package health

import (
	"context"
	"fmt"

	"github.com/fyrsmithlabs/ctxeng/internal/conversation"
	"github.com/fyrsmithlabs/ctxeng/internal/logging"
	"github.com/fyrsmithlabs/ctxeng/internal/telemetry"
	"github.com/fyrsmithlabs/ctxeng/internal/tokens"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// AnalyzeMessages runs the full health pipeline without side effects.
func AnalyzeMessages(msgs []conversation.Message, opts Options) (*Analysis, error) {
	if opts.TokenLimit <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidTokenLimit, opts.TokenLimit)
	}

	total := tokens.EstimateMessages(msgs)
	utilization := float64(total) / float64(opts.TokenLimit)

	warnings := DetectLostInMiddle(msgs, opts.keywords())
	degradation := DegradationRisk(len(warnings))

	poisoning := DetectPoisoning(msgs)

	score := Score(utilization, degradation, poisoning.Risk)
	status := StatusFor(score)

	return &Analysis{
		TotalTokens:     total,
		TokenLimit:      opts.TokenLimit,
		Utilization:     utilization,
		HealthScore:     score,
		Status:          status,
		DegradationRisk: degradation,
		PoisoningRisk:   poisoning.Risk,
		Recommendations: Recommend(utilization, len(warnings), poisoning.Risk, status),
		MiddleWarnings:  warnings,
		Poisoning:       poisoning,
	}, nil
}

// Analyzer wraps AnalyzeMessages with logging, tracing and metrics.
type Analyzer struct {
	opts    Options
	logger  *logging.Logger
	tel     *telemetry.Telemetry
	tracer  trace.Tracer
	metrics *Metrics
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the analyzer's logger.
func WithLogger(l *logging.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithTelemetry sets the telemetry used for spans and metrics.
func WithTelemetry(t *telemetry.Telemetry) Option {
	return func(a *Analyzer) {
		a.tel = t
	}
}

// NewAnalyzer creates an Analyzer for opts. Metric setup failures are
// logged and leave the analyzer without metrics.
func NewAnalyzer(opts Options, options ...Option) *Analyzer {
	a := &Analyzer{
		opts:   opts,
		logger: logging.NewNop(),
	}
	for _, o := range options {
		o(a)
	}
	a.logger = a.logger.Named("health")
	a.tracer = a.tel.Tracer(InstrumentationName)

	m, err := NewMetrics(a.tel.Meter(InstrumentationName))
	if err != nil {
		a.logger.Warn(context.Background(), "health metrics disabled", zap.Error(err))
	} else {
		a.metrics = m
	}
	return a
}

// Analyze scores msgs. It fails only when the token limit is not positive.
func (a *Analyzer) Analyze(ctx context.Context, msgs []conversation.Message) (*Analysis, error) {
	ctx, span := a.tracer.Start(ctx, "health.analyze",
		trace.WithAttributes(
			attribute.Int("messages", len(msgs)),
			attribute.Int("token_limit", a.opts.TokenLimit),
		),
	)
	defer span.End()

	result, err := AnalyzeMessages(msgs, a.opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		a.logger.Error(ctx, "context analysis failed", zap.Error(err))
		return nil, err
	}

	for _, w := range result.MiddleWarnings {
		a.logger.Trace(ctx, "critical keyword in middle region",
			zap.Int("position", w.Position),
			zap.String("keyword", w.Keyword),
			zap.String("risk", string(w.Risk)),
		)
	}

	span.SetAttributes(
		attribute.Int("total_tokens", result.TotalTokens),
		attribute.Float64("utilization", result.Utilization),
		attribute.Float64("health_score", result.HealthScore),
		attribute.String("status", result.Status.String()),
		attribute.Int("middle_warnings", len(result.MiddleWarnings)),
	)
	a.metrics.RecordAnalysis(ctx, result)

	a.logger.Debug(ctx, "context analyzed",
		zap.Int("messages", len(msgs)),
		zap.Int("total_tokens", result.TotalTokens),
		zap.Float64("utilization", result.Utilization),
		zap.Float64("health_score", result.HealthScore),
		zap.String("status", result.Status.String()),
		zap.Int("error_count", result.Poisoning.ErrorCount),
		zap.Int("contradiction_count", result.Poisoning.ContradictionCount),
	)
	if result.Status == StatusCritical {
		a.logger.Warn(ctx, "context health critical", zap.Float64("health_score", result.HealthScore))
	}

	return result, nil
}
