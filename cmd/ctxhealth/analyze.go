package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/ctxeng/internal/cli"
	"github.com/fyrsmithlabs/ctxeng/internal/health"
)

type analyzeFlags struct {
	limit    int
	keywords []string
	details  bool
}

func newAnalyzeCmd() *cobra.Command {
	flags := &analyzeFlags{}

	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Analyze context health of a message file",
		Long: `Analyze a conversation for token utilization, critical information in
the low-attention middle region, and error or contradiction patterns.

The file is a JSON array of messages, an object with a "messages" key, or a
.jsonl session transcript.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args[0], flags)
		},
	}

	cmd.Flags().IntVar(&flags.limit, "limit", health.DefaultTokenLimit, "context window size in tokens")
	cmd.Flags().StringSliceVar(&flags.keywords, "keywords", nil, "critical keywords to track (default goal,task,important,critical,must)")
	cmd.Flags().BoolVar(&flags.details, "details", false, "include middle-region warnings and poisoning findings")
	return cmd
}

func runAnalyze(cmd *cobra.Command, path string, flags *analyzeFlags) error {
	rt, err := cli.FromCommand(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	opts := rt.Config.Analyzer.Options()
	if cmd.Flags().Changed("limit") {
		opts.TokenLimit = flags.limit
	}
	if cmd.Flags().Changed("keywords") {
		opts.CriticalKeywords = flags.keywords
	}

	conv, err := cli.LoadConversation(ctx, path)
	if err != nil {
		return err
	}

	analyzer := health.NewAnalyzer(opts,
		health.WithLogger(rt.Logger),
		health.WithTelemetry(rt.Telemetry),
	)
	result, err := analyzer.Analyze(ctx, conv.Messages)
	if err != nil {
		return fmt.Errorf("analyze %s: %w", path, err)
	}

	return cli.Render(cmd.OutOrStdout(), rt.Output, newAnalyzeReport(result, flags.details))
}

// analyzeReport is the printed form of a health.Analysis.
type analyzeReport struct {
	TotalTokens     int      `json:"total_tokens"`
	TokenLimit      int      `json:"token_limit"`
	Utilization     string   `json:"utilization"`
	HealthStatus    string   `json:"health_status"`
	HealthScore     string   `json:"health_score"`
	DegradationRisk string   `json:"degradation_risk"`
	PoisoningRisk   string   `json:"poisoning_risk"`
	Recommendations []string `json:"recommendations"`

	*AnalyzeDetails
}

// AnalyzeDetails is added to the report by --details.
type AnalyzeDetails struct {
	MiddleWarnings []health.AttentionWarning `json:"middle_warnings"`
	Poisoning      health.PoisoningReport    `json:"poisoning"`
}

func newAnalyzeReport(a *health.Analysis, details bool) analyzeReport {
	r := analyzeReport{
		TotalTokens:     a.TotalTokens,
		TokenLimit:      a.TokenLimit,
		Utilization:     percent(a.Utilization),
		HealthStatus:    a.Status.String(),
		HealthScore:     fixed2(a.HealthScore),
		DegradationRisk: fixed2(a.DegradationRisk),
		PoisoningRisk:   fixed2(a.PoisoningRisk),
		Recommendations: a.Recommendations,
	}
	if details {
		warnings := a.MiddleWarnings
		if warnings == nil {
			warnings = []health.AttentionWarning{}
		}
		r.AnalyzeDetails = &AnalyzeDetails{MiddleWarnings: warnings, Poisoning: a.Poisoning}
	}
	return r
}

func (r analyzeReport) Table() ([]string, [][]string) {
	rows := [][]string{
		{"total_tokens", strconv.Itoa(r.TotalTokens)},
		{"token_limit", strconv.Itoa(r.TokenLimit)},
		{"utilization", r.Utilization},
		{"health_status", r.HealthStatus},
		{"health_score", r.HealthScore},
		{"degradation_risk", r.DegradationRisk},
		{"poisoning_risk", r.PoisoningRisk},
	}
	if r.AnalyzeDetails != nil {
		for _, w := range r.MiddleWarnings {
			rows = append(rows, []string{"middle_warning", fmt.Sprintf("%q at message %d (%s, %s risk)", w.Keyword, w.Position, w.PositionPct, w.Risk)})
		}
		rows = append(rows,
			[]string{"error_count", strconv.Itoa(r.Poisoning.ErrorCount)},
			[]string{"contradiction_count", strconv.Itoa(r.Poisoning.ContradictionCount)},
		)
	}
	for _, rec := range r.Recommendations {
		rows = append(rows, []string{"recommendation", rec})
	}
	return []string{"Metric", "Value"}, rows
}

// percent formats a ratio with one decimal, as in "12.3%".
func percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

func fixed2(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
