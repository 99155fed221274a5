package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// shells lists the completion targets in the order shown in help output.
var shells = []string{"bash", "zsh", "fish", "powershell"}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "completion <shell>",
		Short:   "Generate shell completion scripts",
		GroupID: "utility",
		Long: `Generate a completion script for bash, zsh, fish or powershell.

Completions cover subcommands, config keys (krwhois config get <TAB>),
--output formats and --txt-format styles.

  $ source <(krwhois completion bash)
  $ krwhois completion zsh > "${fpath[1]}/_krwhois"
  $ krwhois completion fish > ~/.config/fish/completions/krwhois.fish
  PS> krwhois completion powershell | Out-String | Invoke-Expression`,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs:             shells,
		DisableFlagsInUseLine: true,
		// Completion must not touch the filesystem, so the root hook that
		// loads (and creates) the config file is replaced with a no-op.
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			root, out := cmd.Root(), cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(out, true)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(out)
			}
			return fmt.Errorf("unsupported shell %q", args[0])
		},
	}
}
