package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pat-analysis/internal/formatter"
	"github.com/pat-analysis/internal/service"
	"github.com/pat-analysis/pkg/model"
	"github.com/pat-analysis/pkg/writer"
)

// buildRequest assembles an analysis request from the shared flags.
func buildRequest(analysisType model.AnalysisType) (*model.AnalysisRequest, error) {
	if traceFile == "" {
		return nil, fmt.Errorf("input trace file is required")
	}

	uuid := taskUUID
	if uuid == "" {
		uuid = generateUUID()
	}

	req := &model.AnalysisRequest{
		TaskUUID:    uuid,
		Type:        analysisType,
		TraceFile:   traceFile,
		SymbolsFile: symbolsFile,
		LinesFile:   linesFile,
		Start:       filterStart,
		End:         filterEnd,
		Nodes:       splitList(filterNodes),
		Regions:     splitList(filterRegions),
		NoCode:      filterNoCode,
		NoData:      filterNoData,
	}

	if outputDir != "" {
		req.OutputDir = filepath.Join(outputDir, uuid)
	}

	pages, err := parsePages(filterPages)
	if err != nil {
		return nil, err
	}
	req.Pages = pages

	return req, nil
}

// runRequest runs the request through the service and prints the result.
func runRequest(cmd *cobra.Command, req *model.AnalysisRequest) error {
	log := GetLogger()

	svc, err := service.New(cfg, log)
	if err != nil {
		return err
	}
	if err := svc.Initialize(cmd.Context()); err != nil {
		return err
	}
	defer svc.Close()

	log.Info("=== PAT Analysis ===")
	log.Info("Trace file: %s", req.TraceFile)
	log.Info("Analysis:   %s", req.Type)
	log.Info("Task UUID:  %s", req.TaskUUID)

	resp, err := svc.Analyze(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	registry := formatter.NewRegistry()
	registry.Format(resp, log)

	if req.OutputDir != "" {
		saveSummary(registry, resp, req.OutputDir)
		log.Info("Output files are in: %s", req.OutputDir)
	}

	return nil
}

func saveSummary(registry *formatter.Registry, resp *model.AnalysisResponse, dir string) {
	summary := registry.FormatSummary(resp)
	path := filepath.Join(dir, "summary.json")
	if err := writer.NewPrettyJSONWriter[map[string]interface{}]().WriteToFile(summary, path); err != nil {
		GetLogger().Warn("Failed to save summary: %v", err)
	}
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parsePages parses a comma-separated list of page addresses, hex with
// a 0x prefix or decimal.
func parsePages(s string) ([]uint64, error) {
	if s == "" {
		return nil, nil
	}
	var pages []uint64
	for _, p := range splitList(s) {
		addr, err := strconv.ParseUint(p, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid page address %q: %w", p, err)
		}
		pages = append(pages, addr)
	}
	return pages, nil
}

func generateUUID() string {
	return fmt.Sprintf("local-%d", os.Getpid())
}
