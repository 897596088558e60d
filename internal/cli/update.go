package cli

import (
	"github.com/guiyumin/vdl/internal/updater"
	"github.com/spf13/cobra"
)

var updateCheck bool

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update vdl to the latest release",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		if updateCheck {
			if err := updater.Check(cmd.Context(), w); err != nil {
				return &runError{err}
			}
			return nil
		}
		if err := updater.Update(cmd.Context(), w); err != nil {
			return &runError{err}
		}
		return nil
	},
}

func init() {
	updateCmd.Flags().BoolVar(&updateCheck, "check", false, "only check whether a newer release exists")
	rootCmd.AddCommand(updateCmd)
}
