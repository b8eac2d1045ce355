// Package cli implements the cobra command tree for filterattrs.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ral-nujan/filterattrs/internal/config"
	"github.com/ral-nujan/filterattrs/internal/filter"
	"github.com/ral-nujan/filterattrs/internal/lineio"
	"github.com/ral-nujan/filterattrs/internal/logging"
)

// Process exit codes.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitUsage       = 2
	ExitMalformed   = 3
	ExitDifferences = 4
)

// ExitError wraps an error with a specific process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}

	return fmt.Sprintf("exit code %d", e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// UsageError reports a wrong number of positional arguments.
type UsageError struct {
	Msg    string
	Params []string
}

func (e *UsageError) Error() string {
	s := e.Msg + "\nParms:"
	for _, p := range e.Params {
		s += "\n  " + p
	}

	return s
}

// Execute builds the command tree, runs it against the process arguments,
// and returns the exit code.
func Execute() int {
	return ExecuteArgs(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}

// ExecuteArgs runs the command tree with explicit arguments and streams.
// Errors are printed to errOut as "Error: <msg>".
func ExecuteArgs(args []string, in io.Reader, out, errOut io.Writer) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	err := cmd.Execute()
	if err == nil {
		return ExitOK
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return exitErr.Code
	}

	_, _ = fmt.Fprintf(errOut, "Error: %v\n", err)

	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	return ExitFailure
}

// NewRootCommand constructs the top-level cobra.Command with all
// subcommands attached.
func NewRootCommand() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "filterattrs [infile [outfile]]",
		Short: "Strip volatile attributes from h5dump and ncdump output",
		Long: `filterattrs removes attribute blocks such as _FillValue and _Unsigned
from the text produced by h5dump and ncdump, so that expected and actual
dumps compare equal across library versions.

Two constructs are removed:
  ATTRIBUTE "<name>" { ... }   h5dump blocks, closed by a "}" at the
                               opener's exact indentation
  var:<name> = ... ;           ncdump CDL attribute lines

With no arguments the dump is read from stdin and written to stdout.
Use "-" for either path to mean stdin or stdout explicitly.`,
		Example: `  filterattrs tst_vars.dump tst_vars.filtered
  h5dump tst.nc | filterattrs --profile classic
  filterattrs compare expected.dump actual.dump`,
		Args:          rootArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd, cfgFile)
			if err != nil {
				return &ExitError{Code: ExitUsage, Err: err}
			}

			logger := logging.SetupWithWriter(cfg, cmd.ErrOrStderr())

			ctx := cmd.Context()
			ctx = config.NewContext(ctx, cfg)
			ctx = logging.NewContext(ctx, logger)
			cmd.SetContext(ctx)

			logger.Debug("configuration loaded",
				slog.String("logLevel", cfg.LogLevel),
				slog.String("profile", cfg.Profile),
				slog.String("configFile", cfg.ConfigFile),
			)

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			in, out := lineio.StdioPath, lineio.StdioPath
			if len(args) > 0 {
				in = args[0]
			}

			if len(args) > 1 {
				out = args[1]
			}

			_, err := runFilter(cmd, in, out)

			return err
		},
	}

	registerGlobalFlags(cmd.PersistentFlags(), &cfgFile)
	_ = cmd.RegisterFlagCompletionFunc("profile", completeProfiles)

	// Flag parsing errors return exit code 2.
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: ExitUsage, Err: err}
	})

	cmd.AddCommand(
		newCompareCommand(),
		newWatchCommand(),
		newProfilesCommand(),
		newVersionCommand(),
		newCompletionCommand(),
	)

	return cmd
}

// rootArgs accepts zero, one, or two positional arguments.
func rootArgs(_ *cobra.Command, args []string) error {
	if len(args) > 2 {
		return &ExitError{Code: ExitUsage, Err: &UsageError{
			Msg:    fmt.Sprintf("expected at most 2 arguments, got %d", len(args)),
			Params: []string{"infile", "outfile"},
		}}
	}

	return nil
}

// usageArgs wraps a cobra positional-argument validator so its failures
// exit with ExitUsage. A non-empty params list is printed after the message.
func usageArgs(validate cobra.PositionalArgs, params ...string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		err := validate(cmd, args)
		if err == nil {
			return nil
		}

		if len(params) == 0 {
			return &ExitError{Code: ExitUsage, Err: err}
		}

		return &ExitError{Code: ExitUsage, Err: &UsageError{Msg: err.Error(), Params: params}}
	}
}

// exitCodeFor wraps err with the exit code matching its type.
func exitCodeFor(err error) error {
	if err == nil {
		return nil
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return err
	}

	var mbe *filter.MalformedBlockError
	if errors.As(err, &mbe) {
		return &ExitError{Code: ExitMalformed, Err: err}
	}

	return &ExitError{Code: ExitFailure, Err: err}
}
