package health

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/fyrsmithlabs/ctxeng/internal/conversation"
	"github.com/fyrsmithlabs/ctxeng/internal/logging"
	"github.com/fyrsmithlabs/ctxeng/internal/telemetry"
)

func TestAnalyzeMessages_Example(t *testing.T) {
	conv := conversation.FromStrings(
		"error: disk full",
		"decided to retry",
		"implemented retry logic in client.py",
	)

	a, err := AnalyzeMessages(conv.Messages, DefaultOptions())
	require.NoError(t, err)

	// 16/4 + 16/4 + 36/4, no per-message overhead for bare strings.
	assert.Equal(t, 4+4+9, a.TotalTokens)
	assert.Equal(t, 128000, a.TokenLimit)
	assert.Empty(t, a.MiddleWarnings)
	assert.InDelta(t, 0, a.DegradationRisk, 1e-9)
	assert.InDelta(t, 0.1, a.PoisoningRisk, 1e-9)
	assert.InDelta(t, 0.98, a.HealthScore, 1e-9)
	assert.Equal(t, StatusHealthy, a.Status)
	assert.Empty(t, a.Recommendations)
}

func TestAnalyzeMessages_Overhead(t *testing.T) {
	msgs := []conversation.Message{
		{Role: conversation.RoleUser, Content: strings.Repeat("a", 40)},
		{Role: conversation.RoleAssistant, Content: ""},
	}

	a, err := AnalyzeMessages(msgs, Options{TokenLimit: 100})
	require.NoError(t, err)

	assert.Equal(t, 10+10+0+10, a.TotalTokens)
	assert.InDelta(t, 0.3, a.Utilization, 1e-9)
}

func TestAnalyzeMessages_Critical(t *testing.T) {
	msgs := make([]conversation.Message, 10)
	for i := range msgs {
		msgs[i] = conversation.Message{Role: conversation.RoleTool, Content: strings.Repeat("x", 400)}
	}
	msgs[4].Content = "critical: the task failed with an error"

	a, err := AnalyzeMessages(msgs, Options{TokenLimit: 1000})
	require.NoError(t, err)

	assert.Greater(t, a.Utilization, 0.8)
	assert.Equal(t, StatusCritical, a.Status)
	assert.Len(t, a.MiddleWarnings, 2)
	assert.Contains(t, a.Recommendations, "URGENT: Context utilization >80%. Trigger compaction immediately.")
	assert.Contains(t, a.Recommendations, "Found 2 critical items in middle region. Consider moving to beginning/end.")
	assert.Contains(t, a.Recommendations, "CRITICAL: Consider context reset with clean state.")
}

func TestAnalyzeMessages_InvalidLimit(t *testing.T) {
	for _, limit := range []int{0, -1} {
		_, err := AnalyzeMessages(nil, Options{TokenLimit: limit})
		assert.ErrorIs(t, err, ErrInvalidTokenLimit)
	}
}

func TestAnalyzeMessages_EmptyConversation(t *testing.T) {
	a, err := AnalyzeMessages(nil, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 0, a.TotalTokens)
	assert.InDelta(t, 1.0, a.HealthScore, 1e-9)
	assert.Equal(t, StatusHealthy, a.Status)
	assert.Equal(t, []string{}, a.Recommendations)
}

func TestOptions_EmptyKeywordsUseDefaults(t *testing.T) {
	msgs := make([]conversation.Message, 4)
	msgs[2].Content = "the goal"

	a, err := AnalyzeMessages(msgs, Options{TokenLimit: 1000, CriticalKeywords: nil})
	require.NoError(t, err)
	require.Len(t, a.MiddleWarnings, 1)
	assert.Equal(t, "goal", a.MiddleWarnings[0].Keyword)
}

func TestAnalyzer_Analyze(t *testing.T) {
	tl := logging.NewTestLogger()
	tt := telemetry.NewTestTelemetry()
	secret := "remember the goal: ship the parser"

	msgs := make([]conversation.Message, 4)
	for i := range msgs {
		msgs[i] = conversation.Message{Role: conversation.RoleUser, Content: "hello"}
	}
	msgs[2].Content = secret

	analyzer := NewAnalyzer(DefaultOptions(), WithLogger(tl.Logger), WithTelemetry(tt.Telemetry))
	a, err := analyzer.Analyze(context.Background(), msgs)
	require.NoError(t, err)
	assert.Len(t, a.MiddleWarnings, 1)

	tt.AssertSpanExists(t, "health.analyze")
	tt.AssertSpanAttribute(t, "health.analyze", "messages", int64(4))
	tt.AssertSpanAttribute(t, "health.analyze", "status", "healthy")
	assert.Equal(t, int64(1), tt.CounterValue(t, "health.analyses_total"))
	assert.Equal(t, uint64(1), tt.HistogramCount(t, "health.score"))
	assert.Equal(t, uint64(1), tt.HistogramCount(t, "health.utilization"))

	tl.AssertLogged(t, zapcore.DebugLevel, "context analyzed")
	tl.AssertLogged(t, logging.TraceLevel, "critical keyword in middle region")
	tl.AssertField(t, "context analyzed", "status", "healthy")
	tl.AssertNoContent(t, secret)
}

func TestAnalyzer_InvalidLimit(t *testing.T) {
	tl := logging.NewTestLogger()
	tt := telemetry.NewTestTelemetry()

	analyzer := NewAnalyzer(Options{TokenLimit: 0}, WithLogger(tl.Logger), WithTelemetry(tt.Telemetry))
	_, err := analyzer.Analyze(context.Background(), nil)

	require.ErrorIs(t, err, ErrInvalidTokenLimit)
	tt.AssertSpanExists(t, "health.analyze")
	tl.AssertLogged(t, zapcore.ErrorLevel, "context analysis failed")
	assert.Equal(t, int64(0), tt.CounterValue(t, "health.analyses_total"))
}

func TestAnalyzer_NoTelemetry(t *testing.T) {
	analyzer := NewAnalyzer(DefaultOptions())
	a, err := analyzer.Analyze(context.Background(), conversation.FromStrings("hi").Messages)
	require.NoError(t, err)
	assert.Equal(t, StatusHealthy, a.Status)
	assert.Equal(t, DefaultTokenLimit, a.TokenLimit)
}
