package ingestion

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nyayatech/BareAct-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/nyayatech/BareAct-Intelligence/pkg/errors"
)

// BatchFailure identifies one document that could not be ingested.
type BatchFailure struct {
	SourceFile string `json:"source_file"`
	Reason     string `json:"reason"`
}

// BatchResult aggregates the outcome of one directory run.
type BatchResult struct {
	Scanned   int               `json:"scanned"`
	Ingested  int               `json:"ingested"`
	Skipped   int               `json:"skipped"`
	Duration  time.Duration     `json:"duration_ns"`
	Documents []*DocumentResult `json:"documents,omitempty"`
	Failures  []BatchFailure    `json:"failures,omitempty"`
}

// Failed returns the number of documents that could not be ingested.
func (r *BatchResult) Failed() int {
	return len(r.Failures)
}

func (s *serviceImpl) IngestDirectory(ctx context.Context, dir string) (*BatchResult, error) {
	started := time.Now()
	files, err := findSourceDocuments(dir)
	if err != nil {
		return nil, err
	}
	result := &BatchResult{Scanned: len(files)}
	if len(files) == 0 {
		s.logger.Warn("no source documents found", logging.String("dir", dir))
		result.Duration = time.Since(started)
		return result, nil
	}

	if err := s.Prepare(ctx); err != nil {
		return nil, err
	}

	s.logger.Info("starting batch ingest",
		logging.String("dir", dir),
		logging.Int("documents", len(files)),
		logging.Int("workers", s.cfg.Workers))
	s.metrics.SetActiveWorkers(s.cfg.Workers)
	defer s.metrics.SetActiveWorkers(0)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)
	for _, path := range files {
		if gctx.Err() != nil {
			break
		}
		path := path
		g.Go(func() error {
			doc, ferr := s.IngestFile(gctx, path)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case ferr != nil:
				result.Failures = append(result.Failures, BatchFailure{SourceFile: path, Reason: ferr.Error()})
			case doc.Outcome == OutcomeSkipped:
				result.Skipped++
				result.Documents = append(result.Documents, doc)
			default:
				result.Ingested++
				result.Documents = append(result.Documents, doc)
			}
			// One bad document must not cancel the batch, so the failure is
			// collected rather than returned.
			return nil
		})
	}
	_ = g.Wait()
	result.Duration = time.Since(started)

	s.logger.Info("batch ingest complete",
		logging.Int("ingested", result.Ingested),
		logging.Int("skipped", result.Skipped),
		logging.Int("failed", result.Failed()),
		logging.Duration("took", result.Duration))
	if ctx.Err() != nil {
		return result, errors.Wrap(ctx.Err(), errors.ErrCodeTimeout, "batch ingest interrupted")
	}
	return result, nil
}

// findSourceDocuments walks dir and returns every ingestable document in
// lexical order.
func findSourceDocuments(dir string) ([]string, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeNotFound, "source directory not found")
	}
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != dir && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if isSourceDocument(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "directory scan failed")
	}
	return files, nil
}

// isSourceDocument reports whether path looks like an ingestable document.
// Hidden files (editor droppings, partial transfers) are excluded.
func isSourceDocument(path string) bool {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return false
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf", ".txt", ".text":
		return true
	}
	return false
}
