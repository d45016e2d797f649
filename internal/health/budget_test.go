package health

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateBudget_Defaults(t *testing.T) {
	plan := CalculateBudget(DefaultBudget())

	assert.Equal(t, 11500, plan.Subtotal)
	assert.Equal(t, Allocation{
		SystemPrompt:    2000,
		ToolDefinitions: 1500,
		RetrievedDocs:   3000,
		MessageHistory:  5000,
		ReservedBuffer:  1725,
	}, plan.Allocation)
	assert.Equal(t, 13225, plan.TotalBudget)
	assert.Equal(t, 9257, plan.WarningThreshold)
	assert.Equal(t, 10580, plan.CriticalThreshold)
	assert.Equal(t, []string{
		"Trigger compaction at 9,257 tokens",
		"Aggressive optimization at 10,580 tokens",
		"Reserved 1,725 tokens (15%) for responses",
	}, plan.Recommendations)
}

func TestCalculateBudget(t *testing.T) {
	tests := []struct {
		name         string
		budget       Budget
		wantBuffer   int
		wantTotal    int
		wantWarning  int
		wantCritical int
		wantReserved string
	}{
		{
			name:         "zero",
			budget:       Budget{},
			wantReserved: "Reserved 0 tokens (0%) for responses",
		},
		{
			name:         "no buffer",
			budget:       Budget{System: 1000, History: 9000},
			wantTotal:    10000,
			wantWarning:  7000,
			wantCritical: 8000,
			wantReserved: "Reserved 0 tokens (0%) for responses",
		},
		{
			name:         "buffer truncates",
			budget:       Budget{System: 333, BufferPct: 0.1},
			wantBuffer:   33,
			wantTotal:    366,
			wantWarning:  256,
			wantCritical: 292,
			wantReserved: "Reserved 33 tokens (10%) for responses",
		},
		{
			name:         "large window",
			budget:       Budget{System: 4000, Tools: 6000, Docs: 50000, History: 100000, BufferPct: 0.25},
			wantBuffer:   40000,
			wantTotal:    200000,
			wantWarning:  140000,
			wantCritical: 160000,
			wantReserved: "Reserved 40,000 tokens (25%) for responses",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := CalculateBudget(tt.budget)
			assert.Equal(t, tt.wantBuffer, plan.Allocation.ReservedBuffer)
			assert.Equal(t, tt.wantTotal, plan.TotalBudget)
			assert.Equal(t, tt.wantWarning, plan.WarningThreshold)
			assert.Equal(t, tt.wantCritical, plan.CriticalThreshold)
			require.Len(t, plan.Recommendations, 3)
			assert.Equal(t, tt.wantReserved, plan.Recommendations[2])
		})
	}
}

func TestBudget_Validate(t *testing.T) {
	tests := []struct {
		name    string
		budget  Budget
		wantErr bool
	}{
		{name: "defaults", budget: DefaultBudget()},
		{name: "zero", budget: Budget{}},
		{name: "full buffer", budget: Budget{System: 1, BufferPct: 1}},
		{name: "negative docs", budget: Budget{Docs: -1}, wantErr: true},
		{name: "negative buffer", budget: Budget{BufferPct: -0.1}, wantErr: true},
		{name: "buffer above one", budget: Budget{BufferPct: 1.5}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.budget.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidBudget)
				return
			}
			assert.NoError(t, err)
		})
	}
}
