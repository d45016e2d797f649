package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/ctxeng/internal/cli"
	"github.com/fyrsmithlabs/ctxeng/internal/compression"
	"github.com/fyrsmithlabs/ctxeng/internal/conversation"
)

type evaluateFlags struct {
	probes    string
	details   bool
	recall    int
	decisions int
}

func newEvaluateCmd() *cobra.Command {
	flags := &evaluateFlags{}

	cmd := &cobra.Command{
		Use:   "evaluate <original> <compressed>",
		Short: "Score a compressed summary against the original conversation",
		Long: `Generate probes from the original message file (or read them from
--probes), judge the compressed text against each one, and report the
compression ratio, weighted quality score and per-dimension scores.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvaluate(cmd, args[0], args[1], flags)
		},
	}

	cmd.Flags().StringVar(&flags.probes, "probes", "", "JSON file of probes to use instead of generated ones")
	cmd.Flags().BoolVar(&flags.details, "details", false, "include every probe with its scores")
	probeLimitFlags(cmd, &flags.recall, &flags.decisions)
	return cmd
}

func runEvaluate(cmd *cobra.Command, originalPath, compressedPath string, flags *evaluateFlags) error {
	rt, err := cli.FromCommand(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	conv, err := cli.LoadConversation(ctx, originalPath)
	if err != nil {
		return err
	}
	summary, err := conversation.ReadText(compressedPath)
	if err != nil {
		return err
	}

	var probes []compression.Probe
	if flags.probes != "" {
		if probes, err = compression.LoadProbes(flags.probes); err != nil {
			return err
		}
	}

	eval := compression.NewEvaluator(
		compression.WithLogger(rt.Logger),
		compression.WithTelemetry(rt.Telemetry),
		compression.WithProbeLimits(probeLimits(cmd, rt, flags.recall, flags.decisions)),
	)
	report, err := eval.Evaluate(ctx, conv, summary, probes)
	if err != nil {
		return fmt.Errorf("evaluate %s: %w", compressedPath, err)
	}

	return cli.Render(cmd.OutOrStdout(), rt.Output, newEvaluateReport(report, flags.details))
}

// evaluateReport is the printed form of a compression.Report.
type evaluateReport struct {
	CompressionRatio string         `json:"compression_ratio"`
	QualityScore     string         `json:"quality_score"`
	DimensionScores  cli.OrderedMap `json:"dimension_scores"`
	ProbeCount       int            `json:"probe_count"`
	Recommendations  []string       `json:"recommendations"`
	Probes           []probeDetail  `json:"probes,omitempty"`
}

type probeDetail struct {
	Type         compression.ProbeType `json:"type"`
	Question     string                `json:"question"`
	GroundTruth  string                `json:"ground_truth"`
	Response     string                `json:"response"`
	Scores       cli.OrderedMap        `json:"scores"`
	OverallScore string                `json:"overall_score"`
}

func newEvaluateReport(r *compression.Report, details bool) evaluateReport {
	out := evaluateReport{
		CompressionRatio: fmt.Sprintf("%.1f%%", r.CompressionRatio*100),
		QualityScore:     fixed2(r.QualityScore),
		DimensionScores:  orderedScores(r.DimensionScores),
		ProbeCount:       len(r.ProbeResults),
		Recommendations:  r.Recommendations,
	}
	if details {
		for _, pr := range r.ProbeResults {
			out.Probes = append(out.Probes, probeDetail{
				Type:         pr.Probe.Type,
				Question:     pr.Probe.Question,
				GroundTruth:  pr.Probe.GroundTruth,
				Response:     pr.Response,
				Scores:       orderedScores(pr.Scores),
				OverallScore: fixed2(pr.OverallScore),
			})
		}
	}
	return out
}

// orderedScores renders the scored dimensions in reporting order.
func orderedScores(scores map[compression.Dimension]float64) cli.OrderedMap {
	m := cli.OrderedMap{}
	for _, d := range compression.Dimensions() {
		if v, ok := scores[d]; ok {
			m = append(m, cli.Field{Key: string(d), Value: fixed2(v)})
		}
	}
	return m
}

func (r evaluateReport) Table() ([]string, [][]string) {
	rows := [][]string{
		{"compression_ratio", r.CompressionRatio},
		{"quality_score", r.QualityScore},
	}
	for _, f := range r.DimensionScores {
		rows = append(rows, []string{f.Key, fmt.Sprint(f.Value)})
	}
	rows = append(rows, []string{"probe_count", strconv.Itoa(r.ProbeCount)})
	for _, p := range r.Probes {
		rows = append(rows, []string{"probe:" + string(p.Type), p.OverallScore + "  " + p.Question})
	}
	for _, rec := range r.Recommendations {
		rows = append(rows, []string{"recommendation", rec})
	}
	return []string{"Metric", "Value"}, rows
}

func fixed2(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
