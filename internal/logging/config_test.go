package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "warn", cfg.Level)
	assert.Equal(t, "console", cfg.Format)
	assert.Equal(t, StreamStderr, cfg.Output.Stream)
	assert.False(t, cfg.Output.OTEL)
	assert.True(t, cfg.Redaction.Enabled)
	assert.Equal(t, "ctxeng", cfg.Fields["service"])
	require.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "trace level",
			mutate: func(c *Config) { c.Level = "trace" },
		},
		{
			name:    "unknown level",
			mutate:  func(c *Config) { c.Level = "verbose" },
			wantErr: "invalid level",
		},
		{
			name:    "unknown format",
			mutate:  func(c *Config) { c.Format = "xml" },
			wantErr: "format must be",
		},
		{
			name:    "unknown stream",
			mutate:  func(c *Config) { c.Output.Stream = "file" },
			wantErr: "output stream must be",
		},
		{
			name:    "no outputs",
			mutate:  func(c *Config) { c.Output.Stream = "" },
			wantErr: "at least one output",
		},
		{
			name: "otel only",
			mutate: func(c *Config) {
				c.Output.Stream = ""
				c.Output.OTEL = true
			},
		},
		{
			name:    "bad pattern",
			mutate:  func(c *Config) { c.Redaction.Patterns = []string{"(unclosed"} },
			wantErr: "invalid redaction pattern",
		},
		{
			name:    "empty field value",
			mutate:  func(c *Config) { c.Fields["env"] = "" },
			wantErr: `field "env" has empty value`,
		},
		{
			name:    "negative caller skip",
			mutate:  func(c *Config) { c.Caller = CallerConfig{Enabled: true, Skip: -1} },
			wantErr: "caller skip",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLevelFromString(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "trace", want: "Level(-2)"},
		{in: "debug", want: "debug"},
		{in: "warn", want: "warn"},
		{in: "error", want: "error"},
		{in: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			l, err := LevelFromString(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, l.String())
		})
	}
}
