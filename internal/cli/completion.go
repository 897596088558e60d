package cli

import (
	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion script for vdl.

Bash:
  # Add to ~/.bashrc:
  source <(vdl completion bash)

  # Or install to system:
  vdl completion bash > /etc/bash_completion.d/vdl

Zsh:
  # Add to ~/.zshrc:
  source <(vdl completion zsh)

  # Or install to fpath:
  vdl completion zsh > "${fpath[1]}/_vdl"

Fish:
  vdl completion fish > ~/.config/fish/completions/vdl.fish

PowerShell:
  vdl completion powershell >> $PROFILE
`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(out)
		case "zsh":
			return rootCmd.GenZshCompletion(out)
		case "fish":
			return rootCmd.GenFishCompletion(out, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(out)
		default:
			return cmd.Help()
		}
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
