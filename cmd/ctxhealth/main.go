// Package main implements ctxhealth, which scores the health of an agent
// conversation context and plans token budgets.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/ctxeng/internal/cli"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := cli.NewRoot("ctxhealth",
		"Analyze context health and plan token budgets",
		`ctxhealth estimates how much of a model's context window a conversation
uses and how likely the model is to lose or misread information in it.

Examples:
  # Analyze a message file
  ctxhealth analyze messages.json

  # Analyze a session transcript against a smaller window
  ctxhealth analyze session.jsonl --limit 32000

  # Plan a budget with a larger history allowance
  ctxhealth budget --history 8000 -o table`)

	root.AddCommand(newAnalyzeCmd())
	root.AddCommand(newBudgetCmd())
	root.AddCommand(newAttentionCmd())
	return root
}
