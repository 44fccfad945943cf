package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "klemmenplan",
	Short: "AI-assisted terminal assignment planning for refrigeration controllers",
	Long: `Klemmenplan analyzes R&I schematics and component documents with an
OpenAI assistant and produces a structured terminal assignment table
(Klemmenbelegung) for Carel, Danfoss and Wurm compound controllers,
with a chat endpoint for follow-up questions on the same conversation.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".klemmenplan.yml", "config file path")
}
