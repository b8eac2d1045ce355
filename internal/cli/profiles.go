package cli

import (
	"github.com/spf13/cobra"

	"github.com/ral-nujan/filterattrs/internal/config"
	"github.com/ral-nujan/filterattrs/internal/report"
)

func newProfilesCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "List the available attribute profiles",
		Long: `Profiles lists the built-in attribute profiles followed by any custom
profiles declared in the config file, each with its resolved attribute
names and lookahead. The active profile is marked as default.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.FromContext(cmd.Context())

			entries, err := report.Profiles(cfg.Profiles, cfg.Profile)
			if err != nil {
				return &ExitError{Code: ExitUsage, Err: err}
			}

			if err := report.Write(cmd.OutOrStdout(), entries, format); err != nil {
				return &ExitError{Code: ExitUsage, Err: err}
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "output", "o", report.FormatYAML, "output format: yaml, json")

	return cmd
}
