// internal/logging/config.go
package logging

import (
	"fmt"
	"regexp"
)

// Output streams.
const (
	StreamStderr = "stderr"
	StreamStdout = "stdout"
)

// Config holds logging configuration.
type Config struct {
	Level     string            `koanf:"level"`
	Format    string            `koanf:"format"`
	Output    OutputConfig      `koanf:"output"`
	Caller    CallerConfig      `koanf:"caller"`
	Fields    map[string]string `koanf:"fields"`
	Redaction RedactionConfig   `koanf:"redaction"`
}

// OutputConfig controls where logs are written.
type OutputConfig struct {
	Stream string `koanf:"stream"`
	OTEL   bool   `koanf:"otel"`
}

// CallerConfig controls caller information in logs.
type CallerConfig struct {
	Enabled bool `koanf:"enabled"`
	Skip    int  `koanf:"skip"`
}

// RedactionConfig controls sensitive data redaction.
type RedactionConfig struct {
	Enabled  bool     `koanf:"enabled"`
	Fields   []string `koanf:"fields"`
	Patterns []string `koanf:"patterns"`
}

// NewDefaultConfig returns the defaults used by the command-line tools:
// warnings and above, console format, on stderr.
func NewDefaultConfig() *Config {
	return &Config{
		Level:  "warn",
		Format: "console",
		Output: OutputConfig{
			Stream: StreamStderr,
		},
		Caller: CallerConfig{
			Enabled: false,
			Skip:    1,
		},
		Fields: map[string]string{
			"service": "ctxeng",
		},
		Redaction: RedactionConfig{
			Enabled: true,
			Fields: []string{
				"password", "secret", "token", "api_key",
				"authorization", "bearer", "credential", "private_key",
			},
			Patterns: []string{
				`(?i)bearer\s+\S+`,
				`(?i)api[_-]?key[=:]\s*\S+`,
				`sk-[A-Za-z0-9_-]{16,}`,
				`AKIA[0-9A-Z]{16}`,
			},
		},
	}
}

// Validate checks config for errors.
func (c *Config) Validate() error {
	if _, err := LevelFromString(c.Level); err != nil {
		return fmt.Errorf("invalid level %q: %w", c.Level, err)
	}
	if c.Format != "json" && c.Format != "console" {
		return fmt.Errorf("format must be 'json' or 'console', got %q", c.Format)
	}
	switch c.Output.Stream {
	case StreamStderr, StreamStdout:
	case "":
		if !c.Output.OTEL {
			return fmt.Errorf("at least one output must be enabled (stream or otel)")
		}
	default:
		return fmt.Errorf("output stream must be 'stderr' or 'stdout', got %q", c.Output.Stream)
	}
	if c.Caller.Enabled && c.Caller.Skip < 0 {
		return fmt.Errorf("caller skip must be >= 0, got %d", c.Caller.Skip)
	}

	if c.Redaction.Enabled {
		for _, pattern := range c.Redaction.Patterns {
			if len(pattern) > maxPatternLen {
				return fmt.Errorf("redaction pattern too long (max %d chars): %q", maxPatternLen, pattern)
			}
			if _, err := regexp.Compile(pattern); err != nil {
				return fmt.Errorf("invalid redaction pattern %q: %w", pattern, err)
			}
		}
	}

	for k, v := range c.Fields {
		if k == "" {
			return fmt.Errorf("field key cannot be empty")
		}
		if v == "" {
			return fmt.Errorf("field %q has empty value", k)
		}
	}

	return nil
}
