package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/ctxeng/internal/cli"
	"github.com/fyrsmithlabs/ctxeng/internal/health"
)

const defaultSamples = 100

func newAttentionCmd() *cobra.Command {
	var samples int

	cmd := &cobra.Command{
		Use:   "attention",
		Short: "Print the simulated attention curve",
		Long: `Print the U-shaped attention distribution used to reason about the
lost-in-the-middle effect: strong at the start and end of the context, weak
in the middle.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if samples <= 0 {
				return fmt.Errorf("--samples must be positive, got %d", samples)
			}
			rt, err := cli.FromCommand(cmd)
			if err != nil {
				return err
			}
			return cli.Render(cmd.OutOrStdout(), rt.Output, newAttentionReport(health.AttentionCurve(samples)))
		},
	}

	cmd.Flags().IntVar(&samples, "samples", defaultSamples, "number of evenly spaced positions")
	return cmd
}

type attentionPoint struct {
	Position  float64 `json:"position"`
	Attention float64 `json:"attention"`
}

type attentionReport struct {
	Samples int              `json:"samples"`
	Curve   []attentionPoint `json:"curve"`
}

func newAttentionReport(curve []float64) attentionReport {
	points := make([]attentionPoint, len(curve))
	for i, v := range curve {
		points[i] = attentionPoint{
			Position:  round4(float64(i) / float64(len(curve))),
			Attention: round4(v),
		}
	}
	return attentionReport{Samples: len(curve), Curve: points}
}

func (r attentionReport) Table() ([]string, [][]string) {
	rows := make([][]string, len(r.Curve))
	for i, p := range r.Curve {
		rows[i] = []string{percent(p.Position), fmt.Sprintf("%.4f", p.Attention)}
	}
	return []string{"Position", "Attention"}, rows
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}
