// internal/logging/otel.go
package logging

import (
	"fmt"

	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/log"
	"go.uber.org/zap/zapcore"
)

// instrumentationName is the scope reported by the OTEL log bridge.
const instrumentationName = "github.com/fyrsmithlabs/ctxeng"

// newCore creates a core with stream and/or OTEL outputs.
func newCore(cfg *Config, otelProvider log.LoggerProvider, w zapcore.WriteSyncer) (zapcore.Core, error) {
	level, err := LevelFromString(cfg.Level)
	if err != nil {
		return nil, err
	}

	cores := make([]zapcore.Core, 0, 2)

	if cfg.Output.Stream != "" && w != nil {
		encoder, err := NewRedactingEncoder(newEncoder(cfg.Format), cfg.Redaction)
		if err != nil {
			return nil, fmt.Errorf("failed to create redacting encoder: %w", err)
		}
		cores = append(cores, zapcore.NewCore(encoder, w, level))
	}

	if cfg.Output.OTEL && otelProvider != nil {
		otelCore := otelzap.NewCore(instrumentationName,
			otelzap.WithLoggerProvider(otelProvider),
		)
		cores = append(cores, &levelCore{Core: otelCore, level: level})
	}

	switch len(cores) {
	case 0:
		return nil, fmt.Errorf("at least one output must be enabled and available")
	case 1:
		return cores[0], nil
	default:
		return zapcore.NewTee(cores...), nil
	}
}

// levelCore applies the configured minimum level to a core that does not
// take one, such as the OTEL bridge.
type levelCore struct {
	zapcore.Core
	level zapcore.LevelEnabler
}

func (c *levelCore) Enabled(l zapcore.Level) bool {
	return c.level.Enabled(l) && c.Core.Enabled(l)
}

func (c *levelCore) With(fields []zapcore.Field) zapcore.Core {
	return &levelCore{Core: c.Core.With(fields), level: c.level}
}

func (c *levelCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.level.Enabled(ent.Level) {
		return ce
	}
	return c.Core.Check(ent, ce)
}
