package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pat-analysis/internal/service"
)

// resultsCmd lists results persisted by earlier runs.
var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "List stored analysis results for a task",
	Long: `List the analysis results persisted for a task UUID. Requires a
configuration file with a database section (--config).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if taskUUID == "" {
			return fmt.Errorf("a task UUID is required (--uuid)")
		}

		log := GetLogger()

		svc, err := service.New(cfg, log)
		if err != nil {
			return err
		}
		if err := svc.Initialize(cmd.Context()); err != nil {
			return err
		}
		defer svc.Close()

		repos := svc.Repositories()
		if repos == nil {
			return fmt.Errorf("no database configured, set one in the configuration file")
		}

		results, err := repos.Result.ListResults(cmd.Context(), taskUUID)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			log.Info("No stored results for task %s", taskUUID)
			return nil
		}

		log.Info("Stored results for task %s:", taskUUID)
		for _, r := range results {
			log.Info("  %-10s  trace=%s  version=%s  updated=%s",
				r.Type, r.TraceFile, r.Version, r.UpdatedAt.Format("2006-01-02 15:04:05"))
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(resultsCmd)
}
