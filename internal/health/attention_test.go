package health

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/ctxeng/internal/conversation"
)

// filler returns n plain messages with keyword placed at index at.
func filler(n, at int, content string) []conversation.Message {
	msgs := make([]conversation.Message, n)
	for i := range msgs {
		msgs[i] = conversation.Message{Role: conversation.RoleUser, Content: "routine update"}
	}
	if at >= 0 {
		msgs[at].Content = content
	}
	return msgs
}

func TestDetectLostInMiddle(t *testing.T) {
	tests := []struct {
		name     string
		msgs     []conversation.Message
		keywords []string
		want     []AttentionWarning
	}{
		{
			name:     "empty",
			msgs:     nil,
			keywords: DefaultKeywords(),
			want:     nil,
		},
		{
			name:     "center is high risk",
			msgs:     filler(100, 50, "our goal is a green build"),
			keywords: DefaultKeywords(),
			want: []AttentionWarning{
				{Position: 50, PositionPct: "50.0%", Keyword: "goal", Risk: RiskHigh},
			},
		},
		{
			name:     "tail band not flagged",
			msgs:     filler(100, 95, "our goal is a green build"),
			keywords: DefaultKeywords(),
			want:     nil,
		},
		{
			name:     "boundary 0.1 excluded",
			msgs:     filler(100, 10, "the goal"),
			keywords: DefaultKeywords(),
			want:     nil,
		},
		{
			name:     "just inside band is medium",
			msgs:     filler(100, 11, "the goal"),
			keywords: DefaultKeywords(),
			want: []AttentionWarning{
				{Position: 11, PositionPct: "11.0%", Keyword: "goal", Risk: RiskMedium},
			},
		},
		{
			name:     "boundary 0.3 is medium",
			msgs:     filler(10, 3, "a TASK"),
			keywords: DefaultKeywords(),
			want: []AttentionWarning{
				{Position: 3, PositionPct: "30.0%", Keyword: "task", Risk: RiskMedium},
			},
		},
		{
			name:     "one warning per keyword",
			msgs:     filler(4, 2, "Important: the task must finish"),
			keywords: DefaultKeywords(),
			want: []AttentionWarning{
				{Position: 2, PositionPct: "50.0%", Keyword: "task", Risk: RiskHigh},
				{Position: 2, PositionPct: "50.0%", Keyword: "important", Risk: RiskHigh},
				{Position: 2, PositionPct: "50.0%", Keyword: "must", Risk: RiskHigh},
			},
		},
		{
			name:     "custom keywords keep their case in the report",
			msgs:     filler(4, 2, "the deadline is friday"),
			keywords: []string{"Deadline", ""},
			want: []AttentionWarning{
				{Position: 2, PositionPct: "50.0%", Keyword: "Deadline", Risk: RiskHigh},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectLostInMiddle(tt.msgs, tt.keywords))
		})
	}
}

func TestDegradationRisk(t *testing.T) {
	tests := []struct {
		warnings int
		want     float64
	}{
		{0, 0},
		{1, 0.2},
		{3, 0.6},
		{5, 1.0},
		{9, 1.0},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, DegradationRisk(tt.warnings), 1e-9, "warnings=%d", tt.warnings)
	}
}

func TestAttentionCurve(t *testing.T) {
	assert.Nil(t, AttentionCurve(0))
	assert.Nil(t, AttentionCurve(-3))

	curve := AttentionCurve(100)
	require.Len(t, curve, 100)

	assert.InDelta(t, 0.9, curve[0], 1e-9)
	assert.InDelta(t, 0.9-0.05*2, curve[5], 1e-9)
	assert.InDelta(t, 0.4, curve[50], 1e-9)
	assert.InDelta(t, 0.7+0.05*2, curve[95], 1e-9)

	// U shape: both ends above every middle sample.
	for i := 10; i <= 90; i++ {
		assert.Less(t, curve[i], curve[0])
		assert.Less(t, curve[i], curve[99])
	}
}
