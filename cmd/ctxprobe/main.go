// Package main implements ctxprobe, which measures how much information a
// compressed summary keeps from the conversation it replaces.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/ctxeng/internal/cli"
	"github.com/fyrsmithlabs/ctxeng/internal/compression"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := cli.NewRoot("ctxprobe",
		"Evaluate context compression quality with probes",
		`ctxprobe extracts facts, file references and decisions from a
conversation, turns them into probe questions, and scores a compressed
summary by how well it still answers them.

Examples:
  # Score a summary against the conversation it replaced
  ctxprobe evaluate messages.json summary.md

  # Score with hand-written probes
  ctxprobe evaluate messages.json summary.md --probes probes.json

  # Show the probes that would be asked
  ctxprobe generate-probes messages.json -o table`)

	root.AddCommand(newEvaluateCmd())
	root.AddCommand(newGenerateProbesCmd())
	return root
}

// probeLimitFlags registers --recall and --decisions on cmd.
func probeLimitFlags(cmd *cobra.Command, recall, decisions *int) {
	defaults := compression.DefaultProbeLimits()
	cmd.Flags().IntVar(recall, "recall", defaults.Recall, "maximum recall probes")
	cmd.Flags().IntVar(decisions, "decisions", defaults.Decision, "maximum decision probes")
}

// probeLimits applies changed limit flags over the evaluator config.
func probeLimits(cmd *cobra.Command, rt *cli.Runtime, recall, decisions int) compression.ProbeLimits {
	limits := rt.Config.Evaluator.Limits()
	if cmd.Flags().Changed("recall") {
		limits.Recall = recall
	}
	if cmd.Flags().Changed("decisions") {
		limits.Decision = decisions
	}
	return limits
}
