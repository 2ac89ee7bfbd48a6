package cmd

import (
	"github.com/spf13/cobra"

	"github.com/pat-analysis/pkg/model"
)

var interference bool

// graphsCmd builds per-region access graphs.
var graphsCmd = &cobra.Command{
	Use:   "graphs",
	Short: "Build per-region page access graphs",
	Long: `Build a graph per memory region describing page fault patterns.

The plain variant is a bipartite thread-to-page graph weighted by fault
counts. The interference variant connects threads to each other,
weighted by how many faults they take on the same pages.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := buildRequest(model.AnalysisGraphs)
		if err != nil {
			return err
		}

		req.GraphVariant = model.GraphVariantPlain
		if interference {
			req.GraphVariant = model.GraphVariantInterference
		}

		return runRequest(cmd, req)
	},
}

func init() {
	rootCmd.AddCommand(graphsCmd)

	graphsCmd.Flags().BoolVar(&interference, "interference", false, "Build thread interference graphs instead of thread-to-page graphs")
}
