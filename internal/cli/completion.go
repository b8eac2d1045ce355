package cli

import (
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ral-nujan/filterattrs/internal/config"
	"github.com/ral-nujan/filterattrs/internal/filter"
)

func newCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion <shell>",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for filterattrs.

To load completions:

Bash:
  $ source <(filterattrs completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ filterattrs completion bash > /etc/bash_completion.d/filterattrs

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. Execute once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ filterattrs completion zsh > "${fpath[1]}/_filterattrs"

Fish:
  $ filterattrs completion fish > ~/.config/fish/completions/filterattrs.fish

PowerShell:
  PS> filterattrs completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> filterattrs completion powershell > filterattrs.ps1
  # and source this file from your PowerShell profile.
`,
		// Completion needs no config.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Args:              usageArgs(cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs)),
		ValidArgs:         []string{"bash", "zsh", "fish", "powershell"},
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()

			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(w, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(w)
			case "fish":
				return cmd.Root().GenFishCompletion(w, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(w)
			}

			return nil
		},
	}

	return cmd
}

// completeProfiles suggests built-in profile names plus any custom profiles
// found in the auto-discovered config file.
func completeProfiles(cmd *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	names := filter.BuiltinProfileNames()

	if cfg, err := config.Load(cmd, ""); err == nil {
		custom := make([]string, 0, len(cfg.Profiles))
		for name := range cfg.Profiles {
			custom = append(custom, name)
		}

		sort.Strings(custom)
		names = append(names, custom...)
	}

	var out []string

	for _, n := range names {
		if strings.HasPrefix(n, toComplete) {
			out = append(out, n)
		}
	}

	return out, cobra.ShellCompDirectiveNoFileComp
}
