package cmd

import (
	"github.com/avalonia-tools/avalint/rules"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// rulesCmd: avalint rules
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List every rule the scanner ships",
	Run: func(cmd *cobra.Command, args []string) {
		handleRulesCommand()
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}

func handleRulesCommand() {
	registry := rules.BuildDefaultRegistry()

	tableData := pterm.TableData{{"ID", "Category", "Description"}}
	for _, rule := range registry.Rules() {
		tableData = append(tableData, []string{rule.ID(), string(rule.Category()), rule.Description()})
	}

	_ = pterm.DefaultTable.WithHasHeader().WithData(tableData).Render()
}
