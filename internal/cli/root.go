package cli

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/ctxeng/internal/config"
	"github.com/fyrsmithlabs/ctxeng/internal/logging"
	"github.com/fyrsmithlabs/ctxeng/internal/telemetry"
)

// Output formats accepted by --output.
const (
	OutputJSON  = "json"
	OutputTable = "table"
)

// Version is reported by --version.
var Version = "dev"

type rootFlags struct {
	configPath string
	logLevel   string
	logFormat  string
	output     string
}

// NewRoot builds a root command with the shared persistent flags. Its
// PersistentPreRunE loads configuration and stores a Runtime in the
// command context; PersistentPostRunE releases it.
func NewRoot(use, short, long string) *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:          use,
		Short:        short,
		Long:         long,
		Version:      Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setup(cmd, flags)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			rt := RuntimeFrom(cmd.Context())
			if rt == nil {
				return nil
			}
			rt.Logger.Debug(cmd.Context(), "command finished")
			return rt.Close(cmd.Context())
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default ~/.config/ctxeng/config.yaml)")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	pf.StringVar(&flags.logFormat, "log-format", "", "log format: json or console")
	pf.StringVarP(&flags.output, "output", "o", OutputJSON, "report format: json or table")

	return cmd
}

func setup(cmd *cobra.Command, flags *rootFlags) error {
	switch flags.output {
	case OutputJSON, OutputTable:
	default:
		return fmt.Errorf("invalid --output %q: must be %s or %s", flags.output, OutputJSON, OutputTable)
	}

	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = flags.logLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Logging.Format = flags.logFormat
	}

	ctx := cmd.Context()

	tel, err := telemetry.New(ctx, &cfg.Telemetry)
	if err != nil {
		return err
	}

	logger, err := logging.NewLoggerTo(&cfg.Logging, tel.LoggerProvider(), streamFor(cmd, cfg.Logging.Output.Stream))
	if err != nil {
		return fmt.Errorf("configuring logging: %w", err)
	}

	rt := &Runtime{
		Config:    cfg,
		Logger:    logger,
		Telemetry: tel,
		RunID:     uuid.NewString(),
		Output:    flags.output,
	}

	ctx = logging.WithRunID(ctx, rt.RunID)
	ctx = logging.WithCommand(ctx, cmd.CommandPath())
	ctx = logging.WithLogger(ctx, logger)
	ctx = WithRuntime(ctx, rt)
	cmd.SetContext(ctx)

	if health := tel.Health(); health.Degraded {
		logger.Warn(ctx, "telemetry degraded", zap.Error(health.Err))
	}
	logger.Debug(ctx, "command started", zap.Bool("telemetry", tel.IsEnabled()))
	return nil
}

func streamFor(cmd *cobra.Command, stream string) io.Writer {
	if stream == logging.StreamStdout {
		return cmd.OutOrStdout()
	}
	return cmd.ErrOrStderr()
}
