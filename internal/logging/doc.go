// Package logging provides structured logging for the ctxeng tools.
//
// # Overview
//
// The package wraps Zap with:
//   - Custom Trace level (-2, below Debug)
//   - Output to stderr (default) or stdout, plus an optional OpenTelemetry bridge
//   - Automatic context field injection (trace_id, span_id, run.id, command)
//   - Redaction of sensitive keys and secret-looking values
//
// Reports are written to stdout by the commands, so the CLI logs to stderr
// and keeps stdout machine-readable.
//
// # Usage
//
//	cfg := logging.NewDefaultConfig()
//	logger, err := logging.NewLogger(cfg, nil)
//	if err != nil {
//	    return err
//	}
//	defer logger.Sync()
//
//	ctx = logging.WithRunID(ctx, runID)
//	logger.Debug(ctx, "context analyzed", zap.Int("messages", n))
//
// # Redaction
//
// Conversation text can contain credentials. Fields whose key is in
// Redaction.Fields are replaced with "[REDACTED]"; string values matching
// Redaction.Patterns become "[REDACTED:pattern]". Use RedactedString to
// log only the length of a value.
//
// # Testing
//
//	tl := logging.NewTestLogger()
//	tl.Info(ctx, "test message", zap.String("key", "value"))
//	tl.AssertLogged(t, zapcore.InfoLevel, "test message")
//	tl.AssertField(t, "test message", "key", "value")
package logging
