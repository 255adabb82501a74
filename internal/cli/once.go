package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/briandowns/spinner"

	"github.com/agbru/hostmon/internal/config"
	apperrors "github.com/agbru/hostmon/internal/errors"
)

// RunOnce collects a single snapshot and prints the report to out. It is
// the -once mode entry point.
//
// Parameters:
//   - ctx: Context governing the collection.
//   - out: Destination for the report.
//   - errOut: Destination for the wait spinner and error messages.
//   - collect: The collection function to invoke.
//   - cfg: The resolved application configuration.
//
// Returns:
//   - int: A process exit code.
func RunOnce(ctx context.Context, out, errOut io.Writer, collect CollectFunc, cfg config.AppConfig) int {
	snap, err := CollectWithSpinner(ctx, collect, spinner.WithWriter(errOut))
	if err != nil {
		if apperrors.IsContextError(err) {
			return apperrors.ExitErrorCanceled
		}
		fmt.Fprintf(errOut, "error: %v\n", err)
		return apperrors.ExitErrorGeneric
	}

	outputCfg := OutputConfig{OutputFile: cfg.Output, Quiet: cfg.Quiet}
	if err := DisplaySnapshotWithConfig(out, snap, outputCfg); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}
