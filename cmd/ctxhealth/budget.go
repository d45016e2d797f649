package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/ctxeng/internal/cli"
	"github.com/fyrsmithlabs/ctxeng/internal/health"
)

func newBudgetCmd() *cobra.Command {
	var b health.Budget
	defaults := health.DefaultBudget()

	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Calculate a context token budget",
		Long: `Sum the token allocation for each context component, reserve a
response buffer, and derive the compaction thresholds.

Unset flags fall back to the budget section of the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBudget(cmd, b)
		},
	}

	cmd.Flags().IntVar(&b.System, "system", defaults.System, "system prompt tokens")
	cmd.Flags().IntVar(&b.Tools, "tools", defaults.Tools, "tool definition tokens")
	cmd.Flags().IntVar(&b.Docs, "docs", defaults.Docs, "retrieved document tokens")
	cmd.Flags().IntVar(&b.History, "history", defaults.History, "message history tokens")
	cmd.Flags().Float64Var(&b.BufferPct, "buffer", defaults.BufferPct, "response buffer as a fraction of the subtotal")
	return cmd
}

func runBudget(cmd *cobra.Command, flagged health.Budget) error {
	rt, err := cli.FromCommand(cmd)
	if err != nil {
		return err
	}

	b := rt.Config.Budget.Allocation()
	f := cmd.Flags()
	if f.Changed("system") {
		b.System = flagged.System
	}
	if f.Changed("tools") {
		b.Tools = flagged.Tools
	}
	if f.Changed("docs") {
		b.Docs = flagged.Docs
	}
	if f.Changed("history") {
		b.History = flagged.History
	}
	if f.Changed("buffer") {
		b.BufferPct = flagged.BufferPct
	}

	if err := b.Validate(); err != nil {
		return fmt.Errorf("budget: %w", err)
	}

	return cli.Render(cmd.OutOrStdout(), rt.Output, budgetReport{health.CalculateBudget(b)})
}

type budgetReport struct {
	health.BudgetPlan
}

func (r budgetReport) Table() ([]string, [][]string) {
	a := r.Allocation
	rows := [][]string{
		{"system_prompt", strconv.Itoa(a.SystemPrompt)},
		{"tool_definitions", strconv.Itoa(a.ToolDefinitions)},
		{"retrieved_docs", strconv.Itoa(a.RetrievedDocs)},
		{"message_history", strconv.Itoa(a.MessageHistory)},
		{"reserved_buffer", strconv.Itoa(a.ReservedBuffer)},
		{"total_budget", strconv.Itoa(r.TotalBudget)},
		{"warning_threshold", strconv.Itoa(r.WarningThreshold)},
		{"critical_threshold", strconv.Itoa(r.CriticalThreshold)},
	}
	for _, rec := range r.Recommendations {
		rows = append(rows, []string{"recommendation", rec})
	}
	return []string{"Item", "Tokens"}, rows
}
