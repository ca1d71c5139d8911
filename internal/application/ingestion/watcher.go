package ingestion

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nyayatech/BareAct-Intelligence/internal/config"
	"github.com/nyayatech/BareAct-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/nyayatech/BareAct-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/nyayatech/BareAct-Intelligence/pkg/errors"
)

// Watcher monitors a drop directory and ingests documents as they arrive.
// Files are debounced: a document is handed to the pipeline only after its
// writes have been quiet for the configured delay, so a file still being
// copied in is not parsed half-transferred.
type Watcher struct {
	svc      Service
	logger   logging.Logger
	metrics  *prometheus.PipelineMetrics
	dir      string
	debounce time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// NewWatcher creates a Watcher over cfg.WatchDir.
func NewWatcher(svc Service, cfg config.IngestConfig, metrics *prometheus.PipelineMetrics, logger logging.Logger) *Watcher {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	debounce := cfg.DebounceDelay
	if debounce <= 0 {
		debounce = config.DefaultDebounceDelay
	}
	return &Watcher{
		svc:      svc,
		logger:   logger,
		metrics:  metrics,
		dir:      cfg.WatchDir,
		debounce: debounce,
		timers:   make(map[string]*time.Timer),
	}
}

// Run blocks, processing file events until ctx is cancelled. The drop
// directory is created if it does not exist; subdirectories are not watched.
func (w *Watcher) Run(ctx context.Context) error {
	if w.dir == "" {
		return errors.New(errors.ErrCodeConfigInvalid, "watch directory is not configured")
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "could not create watch directory")
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "could not start file watcher")
	}
	defer fsw.Close()
	defer w.stopPending()

	if err := fsw.Add(w.dir); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "could not watch drop directory")
	}
	w.logger.Info("watching drop directory",
		logging.String("dir", w.dir),
		logging.Duration("debounce", w.debounce))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.recordEvent(event.Op)
			if !isSourceDocument(event.Name) {
				continue
			}
			switch {
			case event.Op&(fsnotify.Create|fsnotify.Write) != 0:
				w.schedule(ctx, event.Name)
			case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				w.cancelPending(event.Name)
			}
		case werr, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error", logging.Err(werr))
		}
	}
}

// schedule arms (or re-arms) the debounce timer for path.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()
		if ctx.Err() != nil {
			return
		}
		// IngestFile logs and records its own failures.
		_, _ = w.svc.IngestFile(ctx, path)
	})
}

func (w *Watcher) cancelPending(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.timers[path]; ok {
		t.Stop()
		delete(w.timers, path)
	}
}

// stopPending stops every armed timer. Called on shutdown.
func (w *Watcher) stopPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
}

// recordEvent splits a possibly combined event op into its metric labels.
func (w *Watcher) recordEvent(op fsnotify.Op) {
	for mask, name := range opNames {
		if op&mask != 0 {
			w.metrics.RecordWatcherEvent(name)
		}
	}
}

var opNames = map[fsnotify.Op]string{
	fsnotify.Create: "create",
	fsnotify.Write:  "write",
	fsnotify.Remove: "remove",
	fsnotify.Rename: "rename",
	fsnotify.Chmod:  "chmod",
}
