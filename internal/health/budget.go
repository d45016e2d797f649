package health

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Budget is a planned token allocation across the four context sections
// plus a reserved response buffer, as a fraction of the subtotal.
type Budget struct {
	System    int
	Tools     int
	Docs      int
	History   int
	BufferPct float64
}

// DefaultBudget returns 2000/1500/3000/5000 tokens with a 15% buffer.
func DefaultBudget() Budget {
	return Budget{
		System:    2000,
		Tools:     1500,
		Docs:      3000,
		History:   5000,
		BufferPct: 0.15,
	}
}

// Validate rejects negative allocations and a buffer outside [0,1].
func (b Budget) Validate() error {
	if b.System < 0 || b.Tools < 0 || b.Docs < 0 || b.History < 0 {
		return fmt.Errorf("%w: allocations must not be negative", ErrInvalidBudget)
	}
	if b.BufferPct < 0 || b.BufferPct > 1 {
		return fmt.Errorf("%w: buffer must be between 0 and 1, got %g", ErrInvalidBudget, b.BufferPct)
	}
	return nil
}

// Allocation is the per-section breakdown of a BudgetPlan.
type Allocation struct {
	SystemPrompt    int `json:"system_prompt"`
	ToolDefinitions int `json:"tool_definitions"`
	RetrievedDocs   int `json:"retrieved_docs"`
	MessageHistory  int `json:"message_history"`
	ReservedBuffer  int `json:"reserved_buffer"`
}

// BudgetPlan is the computed budget with compaction thresholds.
type BudgetPlan struct {
	Allocation        Allocation `json:"allocation"`
	Subtotal          int        `json:"-"`
	TotalBudget       int        `json:"total_budget"`
	WarningThreshold  int        `json:"warning_threshold"`
	CriticalThreshold int        `json:"critical_threshold"`
	Recommendations   []string   `json:"recommendations"`
}

// Threshold fractions of the total budget.
const (
	warningFraction  = 0.7
	criticalFraction = 0.8
)

// CalculateBudget computes the buffer, total and thresholds for b. All
// derived values are truncated toward zero.
func CalculateBudget(b Budget) BudgetPlan {
	subtotal := b.System + b.Tools + b.Docs + b.History
	buffer := int(float64(subtotal) * b.BufferPct)
	total := subtotal + buffer
	warning := int(float64(total) * warningFraction)
	critical := int(float64(total) * criticalFraction)

	return BudgetPlan{
		Allocation: Allocation{
			SystemPrompt:    b.System,
			ToolDefinitions: b.Tools,
			RetrievedDocs:   b.Docs,
			MessageHistory:  b.History,
			ReservedBuffer:  buffer,
		},
		Subtotal:          subtotal,
		TotalBudget:       total,
		WarningThreshold:  warning,
		CriticalThreshold: critical,
		Recommendations: []string{
			fmt.Sprintf("Trigger compaction at %s tokens", humanize.Comma(int64(warning))),
			fmt.Sprintf("Aggressive optimization at %s tokens", humanize.Comma(int64(critical))),
			fmt.Sprintf("Reserved %s tokens (%.0f%%) for responses", humanize.Comma(int64(buffer)), b.BufferPct*100),
		},
	}
}
