package cmd

import (
	"github.com/spf13/cobra"

	"github.com/pat-analysis/pkg/model"
)

// symbolsCmd ranks symbols by fault count.
var symbolsCmd = &cobra.Command{
	Use:   "symbols",
	Short: "Rank problem symbols by fault count",
	Long: `Rank program symbols by how many page faults they cause, broken
down into reads, writes and invalidations.

Faulting addresses that do not resolve to a symbol are bucketed as
"heap" or "stack/mmap" depending on the address.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := buildRequest(model.AnalysisSymbols)
		if err != nil {
			return err
		}
		return runRequest(cmd, req)
	},
}

func init() {
	rootCmd.AddCommand(symbolsCmd)
}
