package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "jsvet",
	Short:         "JavaScript quality and security analyzer",
	Long:          "Analyzes JavaScript sources for duplicated code, complexity, magic numbers, unreachable code, shadowed bindings and common security smells.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(vetCmd)
	rootCmd.AddCommand(rulesCmd)
}
