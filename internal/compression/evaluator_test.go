package compression

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap/zapcore"

	"github.com/fyrsmithlabs/ctxeng/internal/conversation"
	"github.com/fyrsmithlabs/ctxeng/internal/logging"
	"github.com/fyrsmithlabs/ctxeng/internal/telemetry"
)

func exampleConversation() *conversation.Conversation {
	return conversation.FromStrings(
		"error: disk full",
		"decided to retry",
		"implemented retry logic in client.py",
	)
}

func TestEvaluate_Example(t *testing.T) {
	conv := exampleConversation()
	summary := "disk full; retry logic in client.py"

	report, err := NewEvaluator().Evaluate(context.Background(), conv, summary, nil)
	require.NoError(t, err)

	require.Len(t, report.ProbeResults, 6)
	assert.Equal(t, ProbeRecall, report.ProbeResults[0].Probe.Type)
	assert.Equal(t, ProbeArtifact, report.ProbeResults[3].Probe.Type)
	for _, r := range report.ProbeResults {
		assert.Equal(t, HeuristicResponse, r.Response)
		assert.InDelta(t, r.Scores.Mean(), r.OverallScore, 1e-9)
	}

	assert.InDelta(t, CompressionRatio(string(conv.Raw), summary), report.CompressionRatio, 1e-9)
	assert.Greater(t, report.CompressionRatio, 0.0)

	want := map[Dimension]float64{
		DimensionAccuracy:             1.0,
		DimensionContextAwareness:     0.65,
		DimensionArtifactTrail:        1.0,
		DimensionCompleteness:         1.0,
		DimensionContinuity:           0.3,
		DimensionInstructionFollowing: 0.5,
	}
	for d, v := range want {
		assert.InDelta(t, v, report.DimensionScores[d], 1e-9, "dimension %s", d)
	}
	assert.InDelta(t, 0.7925, report.QualityScore, 1e-9)
	assert.Equal(t, []string{"Continuity low. Add 'Next Steps' section to summary."}, report.Recommendations)
}

func TestEvaluate_NoProbesIsNeutral(t *testing.T) {
	report, err := NewEvaluator().Evaluate(context.Background(), conversation.FromStrings("hello world"), "hello world", []Probe{})
	require.NoError(t, err)

	assert.Empty(t, report.ProbeResults)
	assert.InDelta(t, 0.5, report.QualityScore, 1e-9)
	for _, d := range Dimensions() {
		assert.InDelta(t, 0.5, report.DimensionScores[d], 1e-9)
	}
	assert.Equal(t, []string{"Quality below threshold. Consider less aggressive compression."}, report.Recommendations)
}

func TestEvaluate_NilConversation(t *testing.T) {
	report, err := NewEvaluator().Evaluate(context.Background(), nil, "summary", nil)
	require.NoError(t, err)

	assert.Zero(t, report.CompressionRatio)
	require.Len(t, report.ProbeResults, 1)
	assert.Equal(t, ProbeContinuation, report.ProbeResults[0].Probe.Type)
}

func TestEvaluate_CompressionRatio(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		summary string
		wantRaw int
		want    float64
	}{
		{
			name:    "bare strings",
			input:   `["error: disk full","decided to retry","implemented retry logic in client.py"]`,
			summary: "disk full; retry logic in client.py",
			wantRaw: 80,
			want:    0.6,
		},
		{
			name:    "role records",
			input:   `[{"role":"user","content":"error: disk full"},{"role":"assistant","content":"decided to retry"}]`,
			summary: "disk full, retry",
			wantRaw: 103,
			want:    0.84,
		},
		{
			name:    "non-ascii content is measured escaped",
			input:   `[{"role": "user", "content": "naïve café résumé déjà vu"}, {"role": "assistant", "content": "ok"}]`,
			summary: "naïve café résumé",
			wantRaw: 128,
			want:    0.875,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv, err := conversation.Parse([]byte(tt.input))
			require.NoError(t, err)
			assert.Len(t, string(conv.Raw), tt.wantRaw)

			report, err := NewEvaluator().Evaluate(context.Background(), conv, tt.summary, []Probe{})
			require.NoError(t, err)
			assert.InDelta(t, tt.want, report.CompressionRatio, 1e-9)
		})
	}
}

func TestEvaluate_JudgeError(t *testing.T) {
	boom := errors.New("model unavailable")
	calls := 0
	judge := JudgeFunc(func(context.Context, Probe, string) (Judgement, error) {
		calls++
		return Judgement{}, boom
	})

	tel := telemetry.NewTestTelemetry()
	logger := logging.NewTestLogger()
	eval := NewEvaluator(WithJudge(judge), WithTelemetry(tel.Telemetry), WithLogger(logger.Logger))

	report, err := eval.Evaluate(context.Background(), exampleConversation(), "summary", nil)
	require.Error(t, err)
	assert.Nil(t, report)
	assert.ErrorIs(t, err, ErrJudgeFailed)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "probe 0 (recall)")
	assert.Equal(t, 1, calls)

	span := tel.SpanByName("compression.evaluate")
	require.NotNil(t, span)
	assert.Equal(t, codes.Error, span.Status().Code)
	logger.AssertLogged(t, zapcore.ErrorLevel, "compression evaluation failed")
	assert.Zero(t, tel.CounterValue(t, "compression.evaluations_total"))
}

func TestEvaluate_SubstituteJudge(t *testing.T) {
	perfect := JudgeFunc(func(_ context.Context, p Probe, _ string) (Judgement, error) {
		return Judgement{
			Response: "model says " + string(p.Type),
			Scores: Scores{
				DimensionAccuracy:         1,
				DimensionContextAwareness: 1,
				DimensionArtifactTrail:    1,
				DimensionCompleteness:     1,
				DimensionContinuity:       1,
			},
		}, nil
	})

	report, err := NewEvaluator(WithJudge(perfect)).Evaluate(context.Background(), exampleConversation(), "disk full; retry logic in client.py", nil)
	require.NoError(t, err)

	assert.Equal(t, "model says recall", report.ProbeResults[0].Response)
	assert.InDelta(t, 0.9+0.1*0.5, report.QualityScore, 1e-9)
	assert.InDelta(t, 0.5, report.DimensionScores[DimensionInstructionFollowing], 1e-9)
	assert.Empty(t, report.Recommendations)
}

func TestEvaluate_SuppliedProbes(t *testing.T) {
	probes := []Probe{
		{Type: ProbeRecall, Question: "What failed?", GroundTruth: "disk full"},
	}

	report, err := NewEvaluator().Evaluate(context.Background(), exampleConversation(), "The disk was full", probes)
	require.NoError(t, err)

	require.Len(t, report.ProbeResults, 1)
	assert.InDelta(t, 0.6, report.ProbeResults[0].OverallScore, 1e-9)
}

func TestEvaluate_ProbeLimits(t *testing.T) {
	eval := NewEvaluator(WithProbeLimits(ProbeLimits{Recall: 1, Decision: 0}))

	report, err := eval.Evaluate(context.Background(), exampleConversation(), "summary", nil)
	require.NoError(t, err)

	// one recall, one artifact, one continuation
	assert.Len(t, report.ProbeResults, 3)
}

func TestEvaluate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	judge := JudgeFunc(func(context.Context, Probe, string) (Judgement, error) {
		called = true
		return Judgement{}, nil
	})

	_, err := NewEvaluator(WithJudge(judge)).Evaluate(ctx, exampleConversation(), "summary", nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestEvaluate_Telemetry(t *testing.T) {
	tel := telemetry.NewTestTelemetry()
	logger := logging.NewTestLogger()

	eval := NewEvaluator(WithTelemetry(tel.Telemetry), WithLogger(logger.Logger))
	_, err := eval.Evaluate(context.Background(), exampleConversation(), "disk full; retry logic in client.py", nil)
	require.NoError(t, err)

	tel.AssertSpanExists(t, "compression.evaluate")
	tel.AssertSpanAttribute(t, "compression.evaluate", "probes", int64(6))
	tel.AssertSpanAttribute(t, "compression.evaluate", "probes.generated", true)

	assert.Equal(t, int64(1), tel.CounterValue(t, "compression.evaluations_total"))
	assert.Equal(t, int64(6), tel.CounterValue(t, "compression.probes_total"))
	assert.Equal(t, uint64(1), tel.HistogramCount(t, "compression.quality_score"))
	assert.Equal(t, uint64(1), tel.HistogramCount(t, "compression.ratio"))

	logger.AssertLogged(t, zapcore.DebugLevel, "compression evaluated")
	logger.AssertLogged(t, logging.TraceLevel, "probe judged")
	logger.AssertField(t, "compression evaluated", "probes", int64(6))
}

func TestParseProbes(t *testing.T) {
	t.Run("jsonc array", func(t *testing.T) {
		data := []byte(`[
			// hand-written probe
			{"type": "recall", "question": "What failed?", "ground_truth": "disk full"},
			{"type": "artifact", "question": "Files?", "ground_truth": "client.py", "context_reference": "msg 3"},
		]`)

		probes, err := ParseProbes(data)
		require.NoError(t, err)
		require.Len(t, probes, 2)
		assert.Equal(t, ProbeRecall, probes[0].Type)
		assert.Equal(t, "msg 3", probes[1].ContextReference)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := ParseProbes([]byte(`[{"type": "vibes", "question": "q", "ground_truth": "g"}]`))
		assert.ErrorIs(t, err, ErrUnknownProbeType)
	})

	t.Run("null is empty", func(t *testing.T) {
		probes, err := ParseProbes([]byte(`null`))
		require.NoError(t, err)
		assert.NotNil(t, probes)
		assert.Empty(t, probes)
	})

	t.Run("not an array", func(t *testing.T) {
		_, err := ParseProbes([]byte(`{"type": "recall"}`))
		assert.Error(t, err)
	})
}

func TestLoadProbes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "probes.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"type":"decision","question":"Why?","ground_truth":"speed"}]`), 0o600))

	probes, err := LoadProbes(path)
	require.NoError(t, err)
	require.Len(t, probes, 1)
	assert.Equal(t, ProbeDecision, probes[0].Type)

	_, err = LoadProbes(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
