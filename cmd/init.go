package cmd

import (
	"github.com/spf13/cobra"

	"klemmenplan/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize klemmenplan configuration with an interactive wizard",
	Long:  `Runs an interactive wizard asking for the assistant identities and upload policy, then writes the config file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
