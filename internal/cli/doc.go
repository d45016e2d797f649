// Package cli holds the pieces shared by the ctxhealth and ctxprobe
// commands: the cobra root with its persistent flags, the per-invocation
// Runtime (config, logger, telemetry, run ID), input loaders and output
// renderers.
//
// Reports go to the command's stdout. Logs go to stderr unless the
// logging config routes them elsewhere.
package cli
