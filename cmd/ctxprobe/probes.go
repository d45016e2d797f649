package main

import (
	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/ctxeng/internal/cli"
	"github.com/fyrsmithlabs/ctxeng/internal/compression"
)

func newGenerateProbesCmd() *cobra.Command {
	var recall, decisions int

	cmd := &cobra.Command{
		Use:   "generate-probes <file>",
		Short: "Print the probes generated for a message file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := cli.FromCommand(cmd)
			if err != nil {
				return err
			}

			conv, err := cli.LoadConversation(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			probes := compression.GenerateProbes(conv.Messages, probeLimits(cmd, rt, recall, decisions))
			return cli.Render(cmd.OutOrStdout(), rt.Output, probeList(probes))
		},
	}

	probeLimitFlags(cmd, &recall, &decisions)
	return cmd
}

type probeList []compression.Probe

func (l probeList) Table() ([]string, [][]string) {
	rows := make([][]string, len(l))
	for i, p := range l {
		rows[i] = []string{string(p.Type), p.Question, p.GroundTruth}
	}
	return []string{"Type", "Question", "Ground Truth"}, rows
}
