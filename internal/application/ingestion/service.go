// Package ingestion provides the application-level service that drives the
// document pipeline: text acquisition, parsing, validation, graph
// persistence, artifact storage, and event publication.
package ingestion

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/nyayatech/BareAct-Intelligence/internal/config"
	"github.com/nyayatech/BareAct-Intelligence/internal/domain/statute"
	"github.com/nyayatech/BareAct-Intelligence/internal/infrastructure/acquisition"
	"github.com/nyayatech/BareAct-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/nyayatech/BareAct-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/nyayatech/BareAct-Intelligence/internal/intelligence/bareact"
	"github.com/nyayatech/BareAct-Intelligence/pkg/errors"
	"github.com/nyayatech/BareAct-Intelligence/pkg/types/common"
)

// Outcome values reported per document.
const (
	OutcomeIngested = "ingested"
	OutcomeSkipped  = "skipped"
	OutcomeFailed   = "failed"
)

// Skip reasons surfaced on skipped documents.
const (
	SkipReasonNoSections = "no sections recovered"
	SkipReasonUnchanged  = "content unchanged"
)

// Pipeline stage names used in failure events and error metrics.
const (
	stageAcquisition = "acquisition"
	stageParse       = "parse"
	stageGraph       = "graph"
	stageArtifact    = "artifact"
)

// Acquirer recovers plain text from a source document on disk.
type Acquirer interface {
	Extract(ctx context.Context, path string) (*acquisition.Result, error)
}

// Service defines the interface for document ingestion operations.
type Service interface {
	// Prepare verifies the graph collection exists. Called once before the
	// first ingest; IngestDirectory calls it itself.
	Prepare(ctx context.Context) error

	// IngestFile runs the full pipeline for one source document. Skipped
	// documents (unchanged content, no recoverable sections) return a
	// result with OutcomeSkipped and a nil error.
	IngestFile(ctx context.Context, path string) (*DocumentResult, error)

	// IngestDirectory ingests every source document under dir, parsing up
	// to the configured number of documents concurrently. Per-document
	// failures are collected, not returned.
	IngestDirectory(ctx context.Context, dir string) (*BatchResult, error)
}

// DocumentResult summarizes the pipeline outcome for one source document.
type DocumentResult struct {
	SourceFile        string                    `json:"source_file"`
	DocumentID        string                    `json:"document_id"`
	ActName           string                    `json:"act_name"`
	Year              int                       `json:"year"`
	Method            string                    `json:"extraction_method"`
	LowYield          bool                      `json:"low_yield,omitempty"`
	Outcome           string                    `json:"outcome"`
	SkipReason        string                    `json:"skip_reason,omitempty"`
	Chapters          int                       `json:"chapters"`
	Sections          int                       `json:"sections"`
	ChaptersCreated   int                       `json:"chapters_created"`
	SectionsCreated   int                       `json:"sections_created"`
	ReferencesCreated int                       `json:"references_created"`
	ArtifactObject    string                    `json:"artifact_object,omitempty"`
	Validation        *statute.ValidationReport `json:"validation,omitempty"`
	Duration          time.Duration             `json:"duration_ns"`
}

type serviceImpl struct {
	acquirer  Acquirer
	parser    bareact.Parser
	graph     statute.GraphRepository
	ledger    statute.IngestLedger
	artifacts statute.ArtifactStore
	events    statute.EventPublisher
	metrics   *prometheus.PipelineMetrics
	logger    logging.Logger
	cfg       config.IngestConfig
}

// NewService creates the ingestion service. The acquirer, parser, and graph
// repository are required; ledger, artifacts, events, and metrics may be nil,
// in which case the corresponding pipeline step is skipped.
func NewService(
	acquirer Acquirer,
	parser bareact.Parser,
	graph statute.GraphRepository,
	ledger statute.IngestLedger,
	artifacts statute.ArtifactStore,
	events statute.EventPublisher,
	metrics *prometheus.PipelineMetrics,
	logger logging.Logger,
	cfg config.IngestConfig,
) Service {
	if acquirer == nil || parser == nil || graph == nil {
		panic("nil dependency injected into ingestion Service")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = config.DefaultIngestWorkers
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = config.DefaultMaxRetries
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = config.DefaultRetryDelay
	}
	return &serviceImpl{
		acquirer:  acquirer,
		parser:    parser,
		graph:     graph,
		ledger:    ledger,
		artifacts: artifacts,
		events:    events,
		metrics:   metrics,
		logger:    logger,
		cfg:       cfg,
	}
}

func (s *serviceImpl) Prepare(ctx context.Context) error {
	return s.graph.EnsureCollection(ctx)
}

func (s *serviceImpl) IngestFile(ctx context.Context, path string) (*DocumentResult, error) {
	started := time.Now()
	s.logger.Info("ingesting document", logging.String("source_file", path))

	// Acquisition
	acqStart := time.Now()
	res, err := s.acquirer.Extract(ctx, path)
	if err != nil {
		s.metrics.RecordAcquisition("unknown", false, 0, time.Since(acqStart))
		s.failDocument(ctx, path, stageAcquisition, err, started)
		return nil, err
	}
	s.metrics.RecordAcquisition(res.Method, true, len(res.Text), time.Since(acqStart))
	if res.FellBack {
		s.metrics.RecordFallback(acquisition.MethodPDFToText, acquisition.MethodOCR)
	}

	// Parsing
	parseStart := time.Now()
	act, err := s.parser.Parse(res.Text, path)
	if err != nil {
		s.metrics.RecordParse(false, time.Since(parseStart), 0, 0)
		if errors.IsCode(err, errors.ErrCodeParseNoSections) {
			s.logger.Warn("no sections recovered, skipping document",
				logging.String("source_file", path))
			s.metrics.RecordIngest(OutcomeSkipped, time.Since(started))
			return &DocumentResult{
				SourceFile: path,
				Method:     res.Method,
				LowYield:   res.LowYield,
				Outcome:    OutcomeSkipped,
				SkipReason: SkipReasonNoSections,
				Duration:   time.Since(started),
			}, nil
		}
		s.failDocument(ctx, path, stageParse, err, started)
		return nil, err
	}
	s.metrics.RecordParse(true, time.Since(parseStart), act.TotalChapters, act.TotalSections)
	s.metrics.RecordEntities(len(act.Authorities), len(act.Penalties), len(act.Definitions), len(act.CrossReferences))
	s.recordValidation(act.Metadata.Validation)

	// Change detection: an unchanged content hash means the graph already
	// holds this exact hierarchy.
	if s.ledger != nil {
		prev, lerr := s.ledger.ContentHash(ctx, act.DocumentID())
		if lerr != nil {
			s.logger.Warn("ledger lookup failed, ingesting anyway", logging.Err(lerr))
		} else if prev != "" && prev == act.ContentHash() {
			s.logger.Info("content unchanged, skipping ingest",
				logging.String("document_id", act.DocumentID()))
			s.metrics.RecordIngest(OutcomeSkipped, time.Since(started))
			return s.skippedResult(act, res, path, started), nil
		}
	}

	// Graph persistence
	stats, err := s.saveWithRetry(ctx, act)
	if err != nil {
		s.failDocument(ctx, path, stageGraph, err, started)
		return nil, err
	}
	act.MarkIngested(stats.ChaptersCreated, stats.SectionsCreated, stats.ReferencesCreated)
	s.metrics.RecordGraphWrite(stats.ChaptersCreated, stats.SectionsCreated)

	// Artifact storage
	objectName := ""
	if s.artifacts != nil {
		objectName, err = s.artifacts.PutDocument(ctx, act)
		s.metrics.RecordArtifactWrite("parsed", err == nil)
		if err != nil {
			s.failDocument(ctx, path, stageArtifact, err, started)
			return nil, err
		}
		s.archiveSource(ctx, path)
	}
	if s.cfg.OutputDir != "" {
		if werr := s.writeLocalJSON(act); werr != nil {
			s.logger.Warn("could not write local JSON copy", logging.Err(werr))
		}
	}

	if s.ledger != nil {
		if lerr := s.ledger.SetContentHash(ctx, act.DocumentID(), act.ContentHash()); lerr != nil {
			s.logger.Warn("could not record content hash", logging.Err(lerr))
		}
	}
	s.publish(ctx, act.Events()...)
	s.metrics.RecordIngest(OutcomeIngested, time.Since(started))

	s.logger.Info("document ingested",
		logging.String("document_id", act.DocumentID()),
		logging.String("act_name", act.Name),
		logging.Int("chapters_created", stats.ChaptersCreated),
		logging.Int("sections_created", stats.SectionsCreated),
		logging.Int("references_created", stats.ReferencesCreated),
		logging.Duration("took", time.Since(started)))

	return &DocumentResult{
		SourceFile:        path,
		DocumentID:        act.DocumentID(),
		ActName:           act.Name,
		Year:              act.Year,
		Method:            res.Method,
		LowYield:          res.LowYield,
		Outcome:           OutcomeIngested,
		Chapters:          act.TotalChapters,
		Sections:          act.TotalSections,
		ChaptersCreated:   stats.ChaptersCreated,
		SectionsCreated:   stats.SectionsCreated,
		ReferencesCreated: stats.ReferencesCreated,
		ArtifactObject:    objectName,
		Validation:        act.Metadata.Validation,
		Duration:          time.Since(started),
	}, nil
}

// saveWithRetry persists the act to the graph, retrying transient failures
// up to the configured budget.
func (s *serviceImpl) saveWithRetry(ctx context.Context, act *statute.Act) (*statute.GraphSaveStats, error) {
	var lastErr error
	for attempt := 1; attempt <= s.cfg.MaxRetries; attempt++ {
		stats, err := s.graph.SaveStatute(ctx, act)
		if err == nil {
			return stats, nil
		}
		lastErr = err
		if attempt == s.cfg.MaxRetries {
			break
		}
		s.metrics.RecordRetry("graph_save")
		s.logger.Warn("graph save failed, retrying",
			logging.String("document_id", act.DocumentID()),
			logging.Int("attempt", attempt),
			logging.Err(err))
		select {
		case <-ctx.Done():
			return nil, errors.Wrap(ctx.Err(), errors.ErrCodeTimeout, "graph save aborted")
		case <-time.After(s.cfg.RetryDelay):
		}
	}
	return nil, lastErr
}

// failDocument records a pipeline failure in the ledger, emits the failure
// event, and updates the error metrics.
func (s *serviceImpl) failDocument(ctx context.Context, sourceFile, stage string, cause error, started time.Time) {
	s.logger.Error("document ingest failed",
		logging.String("source_file", sourceFile),
		logging.String("stage", stage),
		logging.Err(cause))
	if s.ledger != nil {
		if err := s.ledger.RecordFailure(ctx, sourceFile, cause.Error()); err != nil {
			s.logger.Warn("could not record ingest failure", logging.Err(err))
		}
	}
	s.publish(ctx, statute.NewStatuteIngestFailedEvent(sourceFile, stage, cause.Error()))
	s.metrics.RecordError(stage, string(errors.GetCode(cause)))
	s.metrics.RecordIngest(OutcomeFailed, time.Since(started))
}

// publish sends domain events to the bus. Event delivery is advisory: the
// graph is the source of truth, so a publish failure only logs a warning.
func (s *serviceImpl) publish(ctx context.Context, events ...common.DomainEvent) {
	if s.events == nil || len(events) == 0 {
		return
	}
	err := s.events.Publish(ctx, events...)
	for _, evt := range events {
		s.metrics.RecordEventPublished(evt.EventType(), err == nil)
	}
	if err != nil {
		s.logger.Warn("event publish failed",
			logging.Int("events", len(events)),
			logging.Err(err))
	}
}

// archiveSource keeps a copy of the raw source document in the object store.
func (s *serviceImpl) archiveSource(ctx context.Context, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		s.logger.Warn("could not read source for archival", logging.Err(err))
		return
	}
	_, err = s.artifacts.ArchiveSource(ctx, path, data)
	s.metrics.RecordArtifactWrite("sources", err == nil)
	if err != nil {
		s.logger.Warn("could not archive source document", logging.Err(err))
	}
}

// writeLocalJSON mirrors the parsed document to the configured output
// directory for local inspection.
func (s *serviceImpl) writeLocalJSON(act *statute.Act) error {
	if err := os.MkdirAll(s.cfg.OutputDir, 0o755); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(act, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.cfg.OutputDir, act.DocumentID()+".json"), raw, 0o644)
}

func (s *serviceImpl) recordValidation(vr *statute.ValidationReport) {
	if vr == nil {
		return
	}
	s.metrics.RecordValidationCheck("structure", vr.Stats.StructureValidity)
	s.metrics.RecordValidationCheck("content_preservation", vr.Stats.ContentPreservation)
	s.metrics.RecordValidationCheck("entity_extraction", vr.Stats.EntityExtraction)
	s.metrics.RecordValidationCheck("cross_references", vr.Stats.CrossReferenceAccuracy)
	s.metrics.RecordValidationReport(vr.IsValid, vr.Stats.Preservation.PreservationRatio)
}

func (s *serviceImpl) skippedResult(act *statute.Act, res *acquisition.Result, path string, started time.Time) *DocumentResult {
	return &DocumentResult{
		SourceFile: path,
		DocumentID: act.DocumentID(),
		ActName:    act.Name,
		Year:       act.Year,
		Method:     res.Method,
		LowYield:   res.LowYield,
		Outcome:    OutcomeSkipped,
		SkipReason: SkipReasonUnchanged,
		Chapters:   act.TotalChapters,
		Sections:   act.TotalSections,
		Validation: act.Metadata.Validation,
		Duration:   time.Since(started),
	}
}
