package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ral-nujan/filterattrs/internal/lineio"
	"github.com/ral-nujan/filterattrs/internal/logging"
	"github.com/ral-nujan/filterattrs/internal/watch"
)

type watchOptions struct {
	debounce time.Duration
}

func newWatchCommand() *cobra.Command {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch <infile> <outfile>",
		Short: "Re-filter a dump whenever it changes",
		Long: `Watch filters infile into outfile, then keeps watching infile and
re-runs the filter each time it is written. Rapid successive writes are
debounced into a single run. A failing run is reported and the watcher
keeps going; press Ctrl-C to stop.`,
		Args: usageArgs(cobra.ExactArgs(2), "infile", "outfile"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), cmd, args[0], args[1], opts)
		},
	}

	cmd.Flags().DurationVar(&opts.debounce, "debounce", 300*time.Millisecond, "debounce interval for file changes")

	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, in, out string, opts *watchOptions) error {
	if lineio.IsStdio(in) || lineio.IsStdio(out) {
		return &ExitError{Code: ExitUsage, Err: fmt.Errorf("watch needs real file paths for infile and outfile")}
	}

	runFn := func(context.Context) (*watch.RunResult, error) {
		res, err := runFilter(cmd, in, out)
		if err != nil {
			return nil, err
		}

		return &watch.RunResult{
			InputLines:  res.InputLines,
			OutputLines: len(res.Lines),
			Removals:    len(res.Removals),
		}, nil
	}

	watchOpts := watch.Options{
		Input:    in,
		Output:   out,
		Debounce: opts.debounce,
		Logger:   logging.FromContext(ctx),
		Out:      cmd.ErrOrStderr(),
	}

	if err := watch.Run(ctx, watchOpts, runFn); err != nil {
		return &ExitError{Code: ExitFailure, Err: err}
	}

	return nil
}
