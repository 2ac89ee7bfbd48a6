// Package service wires trace scanning, the analyses, storage and
// result persistence into a single entry point.
package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/pat-analysis/internal/accessgraph"
	"github.com/pat-analysis/internal/analysis"
	"github.com/pat-analysis/internal/repository"
	"github.com/pat-analysis/internal/storage"
	"github.com/pat-analysis/internal/symbols"
	"github.com/pat-analysis/internal/trace"
	"github.com/pat-analysis/pkg/config"
	apperrors "github.com/pat-analysis/pkg/errors"
	"github.com/pat-analysis/pkg/model"
	"github.com/pat-analysis/pkg/utils"
	"github.com/pat-analysis/pkg/writer"
)

const tracerName = "github.com/pat-analysis/internal/service"

// Service runs page access trace analyses.
type Service struct {
	config *config.Config
	logger utils.Logger

	repos *repository.Repositories
	store storage.Storage
}

// New creates a new Service instance.
func New(cfg *config.Config, logger utils.Logger) (*Service, error) {
	if cfg == nil {
		return nil, apperrors.New(apperrors.CodeConfigError, "config is nil")
	}
	if logger == nil {
		logger = utils.NewDefaultLogger(utils.LevelInfo, nil)
	}

	return &Service{
		config: cfg,
		logger: logger,
	}, nil
}

// Initialize connects optional components. Persistence is enabled only
// when a database type is configured, remote traces only when a
// storage backend is configured.
func (s *Service) Initialize(ctx context.Context) error {
	if s.config.Database.Type != "" {
		if err := s.initDatabase(); err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
	}

	if s.config.Storage.Type != "" {
		if err := s.initStorage(); err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
	}

	return nil
}

func (s *Service) initDatabase() error {
	s.logger.Info("Connecting to database (%s)...", s.config.Database.Type)

	gormDB, err := repository.NewGormDB(&s.config.Database)
	if err != nil {
		return err
	}

	s.repos = repository.NewRepositories(gormDB, s.config.Analysis.Version)
	s.logger.Info("Database connection established")
	return nil
}

func (s *Service) initStorage() error {
	s.logger.Info("Initializing storage (%s)...", s.config.Storage.Type)

	store, err := storage.NewStorage(&s.config.Storage)
	if err != nil {
		return err
	}

	s.store = store
	s.logger.Info("Storage initialized")
	return nil
}

// Close releases database connections.
func (s *Service) Close() error {
	if s.repos != nil {
		return s.repos.Close()
	}
	return nil
}

// Repositories exposes the persistence layer, nil when persistence is
// not configured.
func (s *Service) Repositories() *repository.Repositories {
	return s.repos
}

// Storage exposes the object storage backend, nil when not configured.
func (s *Service) Storage() storage.Storage {
	return s.store
}

// Analyze runs the requested analysis over a trace and returns its
// result. Output files are written when req.OutputDir is set, and the
// result is persisted when a database is configured.
func (s *Service) Analyze(ctx context.Context, req *model.AnalysisRequest) (*model.AnalysisResponse, error) {
	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, "pat.analyze",
		oteltrace.WithAttributes(
			attribute.String("pat.task_uuid", req.TaskUUID),
			attribute.String("pat.analysis_type", req.Type.String()),
		))
	defer span.End()

	tracePath, err := s.resolveTraceFile(ctx, req)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	cfg, err := s.buildTraceConfig(ctx, req)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	f, err := os.Open(tracePath)
	if err != nil {
		err = apperrors.Wrap(apperrors.CodeParseError, "failed to open trace file", err)
		span.RecordError(err)
		return nil, err
	}
	defer f.Close()

	s.logger.Info("Running %s analysis for task %s", req.Type, req.TaskUUID)

	data, err := s.runAnalysis(ctx, req, f, cfg, filepath.Base(tracePath))
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	resp := &model.AnalysisResponse{
		TaskUUID: req.TaskUUID,
		Type:     req.Type,
		Data:     data,
	}

	if req.OutputDir != "" {
		if err := s.writeOutputs(req, resp); err != nil {
			span.RecordError(err)
			return nil, err
		}
		s.uploadOutputs(ctx, resp)
	}

	if s.repos != nil {
		if err := s.repos.Result.SaveResult(ctx, resp, filepath.Base(tracePath)); err != nil {
			// Analysis succeeded, report the persistence failure but
			// keep the result.
			s.logger.Error("Failed to persist result for task %s: %v", req.TaskUUID, err)
			resp.Error = apperrors.GetErrorMessage(err)
		}
	}

	return resp, nil
}

// resolveTraceFile returns a local path to the trace, downloading it
// from object storage when only a key is given.
func (s *Service) resolveTraceFile(ctx context.Context, req *model.AnalysisRequest) (string, error) {
	if req.TraceFile != "" {
		if _, err := os.Stat(req.TraceFile); err != nil {
			return "", apperrors.Newf(apperrors.CodeNotFound, "trace file not found: %s", req.TraceFile)
		}
		return req.TraceFile, nil
	}

	if req.TraceKey == "" {
		return "", apperrors.New(apperrors.CodeConfigError, "no trace file or trace key given")
	}
	if s.store == nil {
		return "", apperrors.New(apperrors.CodeConfigError,
			"trace key given but no storage backend configured")
	}

	localPath := filepath.Join(s.config.GetTaskDir(req.TaskUUID), filepath.Base(req.TraceKey))
	s.logger.Info("Downloading trace %s to %s", req.TraceKey, localPath)
	if err := s.store.DownloadFile(ctx, req.TraceKey, localPath); err != nil {
		return "", err
	}
	return localPath, nil
}

// resolveSidecar returns a local path to a sidecar file, downloading
// the key from object storage when no local path is given. Returns ""
// when neither is set.
func (s *Service) resolveSidecar(ctx context.Context, req *model.AnalysisRequest, localPath, key string) (string, error) {
	if localPath != "" || key == "" {
		return localPath, nil
	}
	if s.store == nil {
		return "", apperrors.New(apperrors.CodeConfigError,
			"sidecar key given but no storage backend configured")
	}

	dst := filepath.Join(s.config.GetTaskDir(req.TaskUUID), filepath.Base(key))
	if err := s.store.DownloadFile(ctx, key, dst); err != nil {
		return "", err
	}
	return dst, nil
}

// buildTraceConfig translates request filters into a scanner config
// and loads the optional symbol and line sidecars.
func (s *Service) buildTraceConfig(ctx context.Context, req *model.AnalysisRequest) (*trace.Config, error) {
	cfg := trace.NewConfig()
	cfg.Start = req.Start
	if req.End > 0 {
		cfg.End = req.End
	}
	cfg.NoCode = req.NoCode
	cfg.NoData = req.NoData

	if len(req.Nodes) > 0 {
		cfg.Nodes = make(map[string]struct{}, len(req.Nodes))
		for _, n := range req.Nodes {
			cfg.Nodes[n] = struct{}{}
		}
	}
	if len(req.Regions) > 0 {
		cfg.Regions = make(map[string]struct{}, len(req.Regions))
		for _, r := range req.Regions {
			cfg.Regions[r] = struct{}{}
		}
	}
	if len(req.Pages) > 0 {
		cfg.Pages = make(map[uint64]struct{}, len(req.Pages))
		for _, addr := range req.Pages {
			cfg.Pages[trace.PageOf(addr)] = struct{}{}
		}
	}

	symbolsPath, err := s.resolveSidecar(ctx, req, req.SymbolsFile, req.SymbolsKey)
	if err != nil {
		return nil, err
	}
	if symbolsPath != "" {
		table, err := symbols.LoadTableFile(symbolsPath)
		if err != nil {
			return nil, err
		}
		cfg.Symbols = table
	}

	linesPath, err := s.resolveSidecar(ctx, req, req.LinesFile, req.LinesKey)
	if err != nil {
		return nil, err
	}
	if linesPath != "" {
		lines, err := symbols.LoadLineTableFile(linesPath)
		if err != nil {
			return nil, err
		}
		cfg.Lines = lines
	}

	return cfg, nil
}

func (s *Service) runAnalysis(ctx context.Context, req *model.AnalysisRequest, f *os.File, cfg *trace.Config, source string) (model.AnalysisData, error) {
	switch req.Type {
	case model.AnalysisGraphs:
		b := &analysis.GraphBuilder{
			Variant: accessgraph.Variant(req.GraphVariant),
			Source:  source,
		}
		return b.Run(ctx, f, cfg)

	case model.AnalysisTrendline:
		numChunks := req.NumChunks
		if numChunks <= 0 {
			numChunks = s.config.Analysis.NumChunks
		}
		t := &analysis.TrendlineComputer{
			NumChunks: numChunks,
			PerThread: req.PerThread,
		}
		return t.Run(ctx, f, cfg)

	case model.AnalysisSymbols:
		r := &analysis.SymbolRanker{}
		return r.Run(ctx, f, cfg)

	case model.AnalysisLocations:
		r := &analysis.LocationRanker{}
		return r.Run(ctx, f, cfg)

	case model.AnalysisFalseSharing:
		d := &analysis.FalseSharingDetector{}
		return d.Run(ctx, f, cfg)

	case model.AnalysisFaultsAt:
		l := &analysis.FaultLocator{Location: req.Location}
		return l.Run(ctx, f, cfg)

	default:
		return nil, apperrors.Newf(apperrors.CodeAnalysisError, "unknown analysis type: %d", req.Type)
	}
}

// writeOutputs serializes the result under req.OutputDir. Graph data
// is gzipped, everything else is plain JSON.
func (s *Service) writeOutputs(req *model.AnalysisRequest, resp *model.AnalysisResponse) error {
	if err := os.MkdirAll(req.OutputDir, 0755); err != nil {
		return apperrors.Wrap(apperrors.CodeStorageError, "failed to create output directory", err)
	}

	name := resp.Type.String() + ".json"
	if resp.Type == model.AnalysisGraphs {
		name += ".gz"
	}
	path := filepath.Join(req.OutputDir, name)

	var err error
	if resp.Type == model.AnalysisGraphs {
		err = writer.NewGzipWriter[model.AnalysisData]().WriteToFile(resp.Data, path)
	} else {
		err = writer.NewPrettyJSONWriter[model.AnalysisData]().WriteToFile(resp.Data, path)
	}
	if err != nil {
		return err
	}

	resp.OutputFiles = append(resp.OutputFiles, model.OutputFile{Name: name, Path: path})
	s.logger.Debug("Wrote %s", path)
	return nil
}

// uploadOutputs mirrors result files to object storage when a backend
// is configured. Upload failures are logged, the local files stand.
func (s *Service) uploadOutputs(ctx context.Context, resp *model.AnalysisResponse) {
	if s.store == nil {
		return
	}
	for _, of := range resp.OutputFiles {
		key := filepath.Join("results", resp.TaskUUID, of.Name)
		if err := s.store.UploadFile(ctx, key, of.Path); err != nil {
			s.logger.Error("Failed to upload %s: %v", of.Name, err)
			continue
		}
		s.logger.Debug("Uploaded %s to %s", of.Name, key)
	}
}
