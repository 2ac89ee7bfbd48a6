package cmd

import (
	"github.com/spf13/cobra"

	"github.com/pat-analysis/internal/analysis"
	"github.com/pat-analysis/pkg/model"
)

var (
	numChunks int
	perThread bool
)

// trendlineCmd bins faults into time chunks.
var trendlineCmd = &cobra.Command{
	Use:   "trendline",
	Short: "Compute fault counts over time",
	Long: `Bin page faults into fixed-width time chunks spanning the whole
trace. When a time window is set, chunks outside the window are pruned
from the output. With --per-thread the counts are additionally broken
down by faulting thread.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := buildRequest(model.AnalysisTrendline)
		if err != nil {
			return err
		}

		req.NumChunks = numChunks
		req.PerThread = perThread

		return runRequest(cmd, req)
	},
}

func init() {
	rootCmd.AddCommand(trendlineCmd)

	trendlineCmd.Flags().IntVar(&numChunks, "chunks", analysis.DefaultNumChunks, "Number of time chunks")
	trendlineCmd.Flags().BoolVar(&perThread, "per-thread", false, "Break counts down per thread")
}
