package compression

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fyrsmithlabs/ctxeng/internal/conversation"
	"github.com/fyrsmithlabs/ctxeng/internal/logging"
	"github.com/fyrsmithlabs/ctxeng/internal/telemetry"
	"github.com/tidwall/jsonc"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Evaluator runs probe-based compression evaluation.
type Evaluator struct {
	judge   Judge
	limits  ProbeLimits
	logger  *logging.Logger
	tel     *telemetry.Telemetry
	tracer  trace.Tracer
	metrics *Metrics
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithJudge replaces the default HeuristicJudge.
func WithJudge(j Judge) Option {
	return func(e *Evaluator) {
		if j != nil {
			e.judge = j
		}
	}
}

// WithLogger sets the evaluator's logger.
func WithLogger(l *logging.Logger) Option {
	return func(e *Evaluator) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithTelemetry sets the telemetry used for spans and metrics.
func WithTelemetry(t *telemetry.Telemetry) Option {
	return func(e *Evaluator) {
		e.tel = t
	}
}

// WithProbeLimits sets the limits used when probes are generated.
func WithProbeLimits(l ProbeLimits) Option {
	return func(e *Evaluator) {
		e.limits = l
	}
}

// NewEvaluator creates an Evaluator. Without options it uses
// HeuristicJudge and DefaultProbeLimits.
func NewEvaluator(opts ...Option) *Evaluator {
	e := &Evaluator{
		judge:  HeuristicJudge{},
		limits: DefaultProbeLimits(),
		logger: logging.NewNop(),
	}
	for _, o := range opts {
		o(e)
	}
	e.logger = e.logger.Named("compression")
	e.tracer = e.tel.Tracer(InstrumentationName)

	m, err := NewMetrics(e.tel.Meter(InstrumentationName))
	if err != nil {
		e.logger.Warn(context.Background(), "compression metrics disabled", zap.Error(err))
	} else {
		e.metrics = m
	}
	return e
}

// GenerateProbes builds probes for conv with the evaluator's limits.
func (e *Evaluator) GenerateProbes(conv *conversation.Conversation) []Probe {
	if conv == nil {
		return GenerateProbes(nil, e.limits)
	}
	return GenerateProbes(conv.Messages, e.limits)
}

// Evaluate scores summary as a replacement for conv. When probes is nil
// they are generated from conv. The first judge error aborts the
// evaluation.
func (e *Evaluator) Evaluate(ctx context.Context, conv *conversation.Conversation, summary string, probes []Probe) (*Report, error) {
	if conv == nil {
		conv = &conversation.Conversation{}
	}

	ctx, span := e.tracer.Start(ctx, "compression.evaluate",
		trace.WithAttributes(
			attribute.Int("messages", len(conv.Messages)),
			attribute.Bool("probes.generated", probes == nil),
		),
	)
	defer span.End()

	if probes == nil {
		probes = e.GenerateProbes(conv)
	}

	results := make([]ProbeResult, 0, len(probes))
	for i, p := range probes {
		if err := ctx.Err(); err != nil {
			return nil, e.fail(ctx, span, err)
		}

		j, err := e.judge.Judge(ctx, p, summary)
		if err != nil {
			return nil, e.fail(ctx, span, fmt.Errorf("%w: probe %d (%s): %w", ErrJudgeFailed, i, p.Type, err))
		}

		r := ProbeResult{
			Probe:        p,
			Response:     j.Response,
			Scores:       j.Scores,
			OverallScore: j.Scores.Mean(),
		}
		e.logger.Trace(ctx, "probe judged",
			zap.Int("index", i),
			zap.String("type", string(p.Type)),
			zap.Float64("overall_score", r.OverallScore),
		)
		results = append(results, r)
	}

	ratio := CompressionRatio(string(conv.Raw), summary)
	avgs := Aggregate(results)
	quality := QualityScore(avgs)

	report := &Report{
		CompressionRatio: ratio,
		QualityScore:     quality,
		DimensionScores:  avgs,
		ProbeResults:     results,
		Recommendations:  Recommend(ratio, avgs, quality),
	}

	span.SetAttributes(
		attribute.Int("probes", len(results)),
		attribute.Float64("compression_ratio", ratio),
		attribute.Float64("quality_score", quality),
	)
	e.metrics.RecordEvaluation(ctx, report)

	e.logger.Debug(ctx, "compression evaluated",
		zap.Int("probes", len(results)),
		zap.Float64("compression_ratio", ratio),
		zap.Float64("quality_score", quality),
		zap.Int("recommendations", len(report.Recommendations)),
	)

	return report, nil
}

func (e *Evaluator) fail(ctx context.Context, span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	e.logger.Error(ctx, "compression evaluation failed", zap.Error(err))
	return err
}

// ParseProbes decodes a JSON (or JSONC) array of probes. Unknown probe
// types are rejected.
func ParseProbes(data []byte) ([]Probe, error) {
	var probes []Probe
	if err := json.Unmarshal(jsonc.ToJSON(data), &probes); err != nil {
		return nil, fmt.Errorf("decoding probes: %w", err)
	}
	if probes == nil {
		probes = []Probe{}
	}
	return probes, nil
}

// LoadProbes reads and decodes a probe file.
func LoadProbes(path string) ([]Probe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading probes %s: %w", path, err)
	}
	return ParseProbes(data)
}
