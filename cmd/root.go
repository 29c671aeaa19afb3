package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "vocalflow",
	Short: "Scripted video interviews with AI-assessed answers",
	Long: `VocalFlow lets an administrator script a flow of video interview
questions and lets a candidate record video answers to them. Each answer
is assessed by a multimodal model and the aggregated results are delivered
to a configurable webhook.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".vocalflow.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
