// Package config provides layered configuration for the ctxeng commands.
//
// Values come from built-in defaults, an optional YAML file, and CTXENG_*
// environment variables, in increasing order of precedence. Command-line
// flags are applied on top by the commands themselves.
package config

import (
	"errors"
	"fmt"

	"github.com/fyrsmithlabs/ctxeng/internal/compression"
	"github.com/fyrsmithlabs/ctxeng/internal/health"
	"github.com/fyrsmithlabs/ctxeng/internal/logging"
	"github.com/fyrsmithlabs/ctxeng/internal/telemetry"
)

// Config holds the complete ctxeng configuration.
type Config struct {
	Analyzer  AnalyzerConfig   `koanf:"analyzer"`
	Budget    BudgetConfig     `koanf:"budget"`
	Evaluator EvaluatorConfig  `koanf:"evaluator"`
	Logging   logging.Config   `koanf:"logging"`
	Telemetry telemetry.Config `koanf:"telemetry"`
}

// AnalyzerConfig holds context health analysis settings.
type AnalyzerConfig struct {
	TokenLimit       int      `koanf:"token_limit"`
	CriticalKeywords []string `koanf:"critical_keywords"`
}

// BudgetConfig holds the default token allocation for the budget command.
type BudgetConfig struct {
	SystemPrompt    int     `koanf:"system_prompt"`
	ToolDefinitions int     `koanf:"tool_definitions"`
	RetrievedDocs   int     `koanf:"retrieved_docs"`
	MessageHistory  int     `koanf:"message_history"`
	BufferPct       float64 `koanf:"buffer_pct"`
}

// EvaluatorConfig holds compression evaluation settings.
type EvaluatorConfig struct {
	RecallProbes   int `koanf:"recall_probes"`
	DecisionProbes int `koanf:"decision_probes"`
}

// Default returns the built-in configuration.
func Default() *Config {
	opts := health.DefaultOptions()
	b := health.DefaultBudget()
	limits := compression.DefaultProbeLimits()

	return &Config{
		Analyzer: AnalyzerConfig{
			TokenLimit:       opts.TokenLimit,
			CriticalKeywords: opts.CriticalKeywords,
		},
		Budget: BudgetConfig{
			SystemPrompt:    b.System,
			ToolDefinitions: b.Tools,
			RetrievedDocs:   b.Docs,
			MessageHistory:  b.History,
			BufferPct:       b.BufferPct,
		},
		Evaluator: EvaluatorConfig{
			RecallProbes:   limits.Recall,
			DecisionProbes: limits.Decision,
		},
		Logging:   *logging.NewDefaultConfig(),
		Telemetry: *telemetry.NewDefaultConfig(),
	}
}

// Options converts the analyzer section to health.Options.
func (c AnalyzerConfig) Options() health.Options {
	return health.Options{
		TokenLimit:       c.TokenLimit,
		CriticalKeywords: append([]string(nil), c.CriticalKeywords...),
	}
}

// Allocation converts the budget section to a health.Budget.
func (c BudgetConfig) Allocation() health.Budget {
	return health.Budget{
		System:    c.SystemPrompt,
		Tools:     c.ToolDefinitions,
		Docs:      c.RetrievedDocs,
		History:   c.MessageHistory,
		BufferPct: c.BufferPct,
	}
}

// Limits converts the evaluator section to compression.ProbeLimits.
func (c EvaluatorConfig) Limits() compression.ProbeLimits {
	return compression.ProbeLimits{
		Recall:   c.RecallProbes,
		Decision: c.DecisionProbes,
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	var errs []error

	if c.Analyzer.TokenLimit <= 0 {
		errs = append(errs, fmt.Errorf("analyzer.token_limit must be positive, got %d", c.Analyzer.TokenLimit))
	}
	if err := c.Budget.Allocation().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("budget: %w", err))
	}
	if c.Evaluator.RecallProbes < 0 || c.Evaluator.DecisionProbes < 0 {
		errs = append(errs, fmt.Errorf("evaluator probe limits must not be negative"))
	}
	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}
	if err := c.Telemetry.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("telemetry: %w", err))
	}

	return errors.Join(errs...)
}
