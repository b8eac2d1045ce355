package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ral-nujan/filterattrs/internal/compare"
	"github.com/ral-nujan/filterattrs/internal/config"
	"github.com/ral-nujan/filterattrs/internal/lineio"
	"github.com/ral-nujan/filterattrs/internal/logging"
	"github.com/ral-nujan/filterattrs/internal/report"
)

const formatUnified = "unified"

type compareOptions struct {
	context int
	format  string
}

// compareSummary is the machine-readable form of a comparison.
type compareSummary struct {
	Expected       string   `json:"expected" yaml:"expected"`
	Actual         string   `json:"actual" yaml:"actual"`
	HasDifferences bool     `json:"hasDifferences" yaml:"hasDifferences"`
	ExpectedRemove int      `json:"expectedRemovals" yaml:"expectedRemovals"`
	ActualRemove   int      `json:"actualRemovals" yaml:"actualRemovals"`
	Hunks          []string `json:"hunks,omitempty" yaml:"hunks,omitempty"`
}

func newCompareCommand() *cobra.Command {
	opts := &compareOptions{}

	cmd := &cobra.Command{
		Use:   "compare <expected> <actual>",
		Short: "Diff two dumps after filtering both",
		Long: `Compare filters the expected and actual dumps with the same attribute
options and prints a unified diff of what remains.

Exit codes:
  0  No differences
  1  Error
  2  Invalid arguments or configuration
  3  Unterminated attribute block in either dump
  4  Differences found`,
		Args: usageArgs(cobra.ExactArgs(2), "expected", "actual"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd, args[0], args[1], opts)
		},
	}

	f := cmd.Flags()
	f.IntVarP(&opts.context, "context", "U", 3, "lines of context around each change")
	f.StringVar(&opts.format, "format", formatUnified, "output format: unified, json, yaml")

	return cmd
}

func runCompare(cmd *cobra.Command, expectedPath, actualPath string, opts *compareOptions) error {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)
	logger := logging.FromContext(ctx)

	if opts.context < 0 {
		return &ExitError{Code: ExitUsage, Err: fmt.Errorf("--context must not be negative, got %d", opts.context)}
	}

	switch opts.format {
	case formatUnified, report.FormatJSON, report.FormatYAML:
	default:
		return &ExitError{Code: ExitUsage, Err: fmt.Errorf("invalid format %q: must be one of unified, json, yaml", opts.format)}
	}

	if lineio.IsStdio(expectedPath) && lineio.IsStdio(actualPath) {
		return &ExitError{Code: ExitUsage, Err: fmt.Errorf("at most one of the dumps may be read from stdin")}
	}

	f, err := newFilter(cfg)
	if err != nil {
		return err
	}

	expected, err := lineio.ReadFile(expectedPath, cmd.InOrStdin())
	if err != nil {
		return exitCodeFor(err)
	}

	actual, err := lineio.ReadFile(actualPath, cmd.InOrStdin())
	if err != nil {
		return exitCodeFor(err)
	}

	diffOpts := compare.DefaultDiffOptions()
	diffOpts.OldLabel = sourceName(expectedPath)
	diffOpts.NewLabel = sourceName(actualPath)
	diffOpts.Context = opts.context

	res, err := compare.Dumps(f, expected, actual, diffOpts)
	if err != nil {
		return exitCodeFor(err)
	}

	logger.Debug("compared dumps",
		slog.Int("expectedRemovals", len(res.Expected.Removals)),
		slog.Int("actualRemovals", len(res.Actual.Removals)),
		slog.Int("hunks", len(res.Diff.Hunks)),
	)

	w := cmd.OutOrStdout()

	if opts.format == formatUnified {
		compare.WriteDiff(w, res.Diff, colorEnabled(w, cfg.NoColor))
	} else {
		summary := compareSummary{
			Expected:       diffOpts.OldLabel,
			Actual:         diffOpts.NewLabel,
			HasDifferences: res.Diff.HasDifferences,
			ExpectedRemove: len(res.Expected.Removals),
			ActualRemove:   len(res.Actual.Removals),
			Hunks:          res.Diff.Hunks,
		}

		if err := report.Write(w, summary, opts.format); err != nil {
			return exitCodeFor(err)
		}
	}

	if res.Diff.HasDifferences {
		return &ExitError{Code: ExitDifferences}
	}

	return nil
}

// colorEnabled reports whether diff output to w should carry ANSI colors.
// Colors are used only when w is a terminal and --no-color is unset.
func colorEnabled(w io.Writer, noColor bool) bool {
	if noColor {
		return false
	}

	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return term.IsTerminal(int(f.Fd()))
}
