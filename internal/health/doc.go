// Package health scores the health of an agent's context window.
//
// An analysis combines three heuristic signals over a message list:
//
//   - Utilization: estimated tokens against the model's context limit.
//   - Lost-in-middle: critical keywords sitting in the 10%-90% band of the
//     conversation, where attention is weakest.
//   - Poisoning: error vocabulary and self-contradicting statements.
//
// The signals fold into a score in [0,1], a Status and a list of
// recommendations. Everything here is pure except Analyzer, which adds
// logging, tracing and metrics around the same pipeline.
//
// The package also plans token budgets (CalculateBudget) and simulates
// the U-shaped attention curve (AttentionCurve).
package health
