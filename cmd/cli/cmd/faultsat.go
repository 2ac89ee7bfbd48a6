package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pat-analysis/pkg/model"
)

var location string

// faultsatCmd lists fault addresses for one source location.
var faultsatCmd = &cobra.Command{
	Use:   "faults-at",
	Short: "List faulting addresses at a source location",
	Long: `List the memory addresses faulted by a single source location,
given as file:line, ordered by fault count. Requires an
address-to-line file for the traced binary (--lines).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if location == "" {
			return fmt.Errorf("a source location is required (--at file:line)")
		}
		if linesFile == "" {
			return fmt.Errorf("an address-to-line file is required (--lines)")
		}

		req, err := buildRequest(model.AnalysisFaultsAt)
		if err != nil {
			return err
		}
		req.Location = location

		return runRequest(cmd, req)
	},
}

func init() {
	rootCmd.AddCommand(faultsatCmd)

	faultsatCmd.Flags().StringVar(&location, "at", "", "Source location as file:line")
}
