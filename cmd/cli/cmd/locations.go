package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pat-analysis/pkg/model"
)

// locationsCmd ranks source locations by fault count.
var locationsCmd = &cobra.Command{
	Use:   "locations",
	Short: "Rank source locations by fault count",
	Long: `Rank source code locations by how many page faults they cause,
broken down into reads, writes and invalidations. Requires an
address-to-line file for the traced binary (--lines).

Instruction pointers without line information are bucketed as
"unknown".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if linesFile == "" {
			return fmt.Errorf("an address-to-line file is required (--lines)")
		}

		req, err := buildRequest(model.AnalysisLocations)
		if err != nil {
			return err
		}
		return runRequest(cmd, req)
	},
}

func init() {
	rootCmd.AddCommand(locationsCmd)
}
