package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for pylon.

To load completions:

Bash:
  $ source <(pylon completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ pylon completion bash > /etc/bash_completion.d/pylon
  # macOS:
  $ pylon completion bash > $(brew --prefix)/etc/bash_completion.d/pylon

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ pylon completion zsh > "${fpath[1]}/_pylon"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ pylon completion fish | source

  # To load completions for each session, execute once:
  $ pylon completion fish > ~/.config/fish/completions/pylon.fish

PowerShell:
  PS> pylon completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> pylon completion powershell > pylon.ps1
  # and source this file from your PowerShell profile.

Once loaded, design arguments complete to *.toml files and --formats
completes report formats, one comma-separated entry at a time:

  $ pylon analyze tow<TAB>          # tower.toml
  $ pylon analyze tower.toml -f json,x<TAB>   # json,xlsx
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
			return nil
		},
	}

	return cmd
}

// completeDesign offers TOML files for the single design argument.
func completeDesign(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{"toml"}, cobra.ShellCompDirectiveFilterFileExt
}

// completeFormats completes the last entry of a comma-separated format list,
// skipping formats already given.
func completeFormats(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	done, partial := "", toComplete
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		done, partial = toComplete[:i+1], toComplete[i+1:]
	}
	given := strings.Split(done, ",")
	var out []string
	for _, f := range validFormats {
		if strings.HasPrefix(f, partial) && !containsFold(given, f) {
			out = append(out, done+f)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(strings.TrimSpace(v), s) {
			return true
		}
	}
	return false
}
