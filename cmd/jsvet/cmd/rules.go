package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jsvet/jsvet/analyzer/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the rule catalog",
	RunE:  runRules,
}

func runRules(cmd *cobra.Command, args []string) error {
	catalog := rules.Default()
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCATEGORY\tSEVERITY\tSTRATEGY\tFIXABLE")
	for _, rule := range catalog.Rules() {
		fixable := ""
		if rule.Fixable {
			fixable = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			rule.ID, rule.Category, rule.Severity.String(), rule.Strategy.String(), fixable)
	}
	return w.Flush()
}
