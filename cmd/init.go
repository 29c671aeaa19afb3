package cmd

import (
	"github.com/spf13/cobra"

	"github.com/SaadAmawi/VocalFlow/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize vocalflow configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure vocalflow and generates a .vocalflow.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
