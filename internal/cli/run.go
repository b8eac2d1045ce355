package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ral-nujan/filterattrs/internal/config"
	"github.com/ral-nujan/filterattrs/internal/filter"
	"github.com/ral-nujan/filterattrs/internal/lineio"
	"github.com/ral-nujan/filterattrs/internal/logging"
	"github.com/ral-nujan/filterattrs/internal/report"
)

// newFilter builds a filter from the loaded configuration. Profile and
// override problems are configuration errors.
func newFilter(cfg *config.Config) (*filter.Filter, error) {
	opts, err := cfg.FilterOptions()
	if err != nil {
		return nil, &ExitError{Code: ExitUsage, Err: err}
	}

	f, err := filter.New(opts)
	if err != nil {
		return nil, &ExitError{Code: ExitUsage, Err: err}
	}

	return f, nil
}

// runFilter reads in, filters it, and writes the surviving lines to out.
// Nothing is written when the filter fails.
func runFilter(cmd *cobra.Command, in, out string) (*filter.Result, error) {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)
	logger := logging.FromContext(ctx)

	f, err := newFilter(cfg)
	if err != nil {
		return nil, err
	}

	lines, err := lineio.ReadFile(in, cmd.InOrStdin())
	if err != nil {
		return nil, exitCodeFor(err)
	}

	res, err := f.Apply(lines)
	if err != nil {
		return nil, exitCodeFor(err)
	}

	for _, rm := range res.Removals {
		logger.Debug("removed attribute",
			slog.String("kind", string(rm.Kind)),
			slog.String("attr", rm.Attr),
			slog.Int("first", rm.First),
			slog.Int("last", rm.Last),
		)
	}

	sink := lineio.NewSink(out, cmd.OutOrStdout(), logger)
	if err := sink.WriteLines(res.Lines); err != nil {
		return nil, exitCodeFor(err)
	}

	logger.Debug("filtered dump",
		slog.String("input", sourceName(in)),
		slog.Int("removals", len(res.Removals)),
		slog.Int("removedLines", res.RemovedLines()),
	)

	if cfg.Stats {
		stats := report.NewStats(sourceName(in), res)
		if err := report.Write(cmd.ErrOrStderr(), stats, cfg.StatsFormat); err != nil {
			return nil, exitCodeFor(err)
		}
	}

	return res, nil
}

func sourceName(path string) string {
	if lineio.IsStdio(path) {
		return "stdin"
	}

	return path
}
