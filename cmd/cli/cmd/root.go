// Package cmd implements the pat-analysis command line interface.
package cmd

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pat-analysis/pkg/config"
	"github.com/pat-analysis/pkg/telemetry"
	"github.com/pat-analysis/pkg/utils"
)

var (
	// Global flags
	configPath string
	verbose    bool

	// Trace input flags, shared by every analysis command
	traceFile   string
	symbolsFile string
	linesFile   string
	outputDir   string
	taskUUID    string

	// Entry filter flags, shared by every analysis command
	filterStart   float64
	filterEnd     float64
	filterNodes   string
	filterPages   string
	filterRegions string
	filterNoCode  bool
	filterNoData  bool

	logger utils.Logger
	cfg    *config.Config

	telemetryShutdown telemetry.ShutdownFunc
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "pat-analysis",
	Short: "A page access trace analysis tool",
	Long: `pat-analysis analyzes page access traces recorded by a distributed
shared-memory runtime.

Each trace line records a page fault: its timestamp, the faulting node
and thread, the access permission, the faulting instruction and memory
address, and the memory region. The tool builds access graphs, fault
trendlines, problem symbol and source location rankings, and detects
false sharing between nodes.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logLevel := utils.LevelInfo
		if verbose {
			logLevel = utils.LevelDebug
		}
		logger = utils.NewDefaultLogger(logLevel, os.Stdout)

		if configPath != "" {
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cfg = loaded
		} else {
			cfg = &config.Config{}
		}

		shutdown, err := telemetry.Init(cmd.Context())
		if err != nil {
			logger.Warn("Failed to initialize telemetry: %v", err)
		} else {
			telemetryShutdown = shutdown
		}

		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if telemetryShutdown != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := telemetryShutdown(ctx); err != nil {
				logger.Warn("Failed to shut down telemetry: %v", err)
			}
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.PersistentFlags().StringVarP(&traceFile, "input", "i", "", "Page access trace file")
	rootCmd.PersistentFlags().StringVarP(&symbolsFile, "symbols", "s", "", "Symbol table file (nm -S format)")
	rootCmd.PersistentFlags().StringVarP(&linesFile, "lines", "l", "", "Address-to-line file")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output", "o", "", "Output directory for result files")
	rootCmd.PersistentFlags().StringVar(&taskUUID, "uuid", "", "Task UUID (auto-generated if empty)")

	rootCmd.PersistentFlags().Float64Var(&filterStart, "start", 0, "Ignore entries before this timestamp")
	rootCmd.PersistentFlags().Float64Var(&filterEnd, "end", 0, "Stop at the first entry past this timestamp")
	rootCmd.PersistentFlags().StringVar(&filterNodes, "nodes", "", "Comma-separated list of nodes to include")
	rootCmd.PersistentFlags().StringVar(&filterPages, "pages", "", "Comma-separated list of page addresses to include")
	rootCmd.PersistentFlags().StringVar(&filterRegions, "regions", "", "Comma-separated list of regions to include")
	rootCmd.PersistentFlags().BoolVar(&filterNoCode, "no-code", false, "Drop faults on code symbols")
	rootCmd.PersistentFlags().BoolVar(&filterNoData, "no-data", false, "Drop faults on data symbols")

	bin := BinName()
	rootCmd.Example = `  # Rank problem symbols in a trace
  ` + bin + ` symbols -i ./trace.pat -s ./symbols.nm

  # Fault trendline over a time window, 50 chunks
  ` + bin + ` trendline -i ./trace.pat --start 1.5 --end 3.0 --chunks 50

  # Detect false sharing on node 0 and 1
  ` + bin + ` falseshare -i ./trace.pat -s ./symbols.nm --nodes 0,1

  # Interference graph per region
  ` + bin + ` graphs -i ./trace.pat --interference -o ./output`
}

// GetLogger returns the configured logger
func GetLogger() utils.Logger {
	return logger
}

// BinName returns the base name of the current executable
func BinName() string {
	return filepath.Base(os.Args[0])
}
