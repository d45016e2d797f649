package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/ctxeng/internal/config"
	"github.com/fyrsmithlabs/ctxeng/internal/logging"
	"github.com/fyrsmithlabs/ctxeng/internal/telemetry"
)

// ErrNoRuntime is returned when a command runs without the root's
// PersistentPreRunE having set up a Runtime.
var ErrNoRuntime = errors.New("command runtime not initialized")

// Runtime is the state shared by one command invocation.
type Runtime struct {
	Config    *config.Config
	Logger    *logging.Logger
	Telemetry *telemetry.Telemetry
	RunID     string
	Output    string
}

type runtimeKey struct{}

// WithRuntime returns a context carrying rt.
func WithRuntime(ctx context.Context, rt *Runtime) context.Context {
	return context.WithValue(ctx, runtimeKey{}, rt)
}

// RuntimeFrom returns the Runtime stored in ctx, or nil.
func RuntimeFrom(ctx context.Context) *Runtime {
	if ctx == nil {
		return nil
	}
	rt, _ := ctx.Value(runtimeKey{}).(*Runtime)
	return rt
}

// FromCommand returns the Runtime of cmd's context.
func FromCommand(cmd *cobra.Command) (*Runtime, error) {
	rt := RuntimeFrom(cmd.Context())
	if rt == nil {
		return nil, ErrNoRuntime
	}
	return rt, nil
}

// Close flushes the logger, exports pending telemetry and shuts the
// providers down. Errors are joined.
func (rt *Runtime) Close(ctx context.Context) error {
	if rt == nil {
		return nil
	}
	var errs []error
	if rt.Logger != nil {
		errs = append(errs, rt.Logger.Sync())
	}
	if err := rt.Telemetry.ForceFlush(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := rt.Telemetry.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
