package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pat-analysis/pkg/model"
)

// falseshareCmd detects false sharing between nodes.
var falseshareCmd = &cobra.Command{
	Use:   "falseshare",
	Short: "Detect false page sharing between nodes",
	Long: `Find pages whose faults are caused by distinct objects placed on
the same page rather than genuine sharing of one object.

The detection replays the trace against an MSI-style coherence model:
a fault is false when the faulting node already held a copy that was
invalidated by a write to a different symbol on the page. Requires a
symbol table (--symbols) to attribute faults to objects.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if symbolsFile == "" {
			return fmt.Errorf("a symbol table is required (--symbols)")
		}

		req, err := buildRequest(model.AnalysisFalseSharing)
		if err != nil {
			return err
		}
		return runRequest(cmd, req)
	},
}

func init() {
	rootCmd.AddCommand(falseshareCmd)
}
