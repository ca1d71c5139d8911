// The worker daemon keeps a drop directory ingested: it sweeps the directory
// at startup to catch documents that arrived while it was down, then watches
// it and runs every new bare act through the full parse, validate, and
// persist pipeline.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/nyayatech/BareAct-Intelligence/internal/application/ingestion"
	"github.com/nyayatech/BareAct-Intelligence/internal/config"
	"github.com/nyayatech/BareAct-Intelligence/internal/domain/statute"
	"github.com/nyayatech/BareAct-Intelligence/internal/infrastructure/acquisition"
	neo4jdriver "github.com/nyayatech/BareAct-Intelligence/internal/infrastructure/database/neo4j"
	neo4jrepo "github.com/nyayatech/BareAct-Intelligence/internal/infrastructure/database/neo4j/repositories"
	redisclient "github.com/nyayatech/BareAct-Intelligence/internal/infrastructure/database/redis"
	kafkamsg "github.com/nyayatech/BareAct-Intelligence/internal/infrastructure/messaging/kafka"
	"github.com/nyayatech/BareAct-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/nyayatech/BareAct-Intelligence/internal/infrastructure/monitoring/prometheus"
	minioclient "github.com/nyayatech/BareAct-Intelligence/internal/infrastructure/storage/minio"
	"github.com/nyayatech/BareAct-Intelligence/internal/intelligence/bareact"
)

const shutdownTimeout = 5 * time.Second

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (default: environment variables only)")
	workers := flag.Int("workers", 0, "concurrent documents during the startup sweep (default from config)")
	watchDir := flag.String("watch-dir", "", "drop directory to monitor (overrides ingest.watch_dir)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *workers > 0 {
		cfg.Ingest.Workers = *workers
	}
	if *watchDir != "" {
		cfg.Ingest.WatchDir = *watchDir
	}

	logger, err := logging.NewLogger(logging.LogConfig{
		Level:            cfg.Log.Level,
		Format:           cfg.Log.Format,
		OutputPaths:      cfg.Log.OutputPaths,
		ErrorOutputPaths: cfg.Log.ErrorOutputPaths,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	logging.SetDefault(logger)

	if cfg.Ingest.WatchDir == "" {
		logger.Error("no watch directory configured (set ingest.watch_dir or --watch-dir)")
		os.Exit(1)
	}
	if !cfg.Neo4j.Enabled {
		logger.Error("neo4j must be enabled for the worker (set neo4j.enabled: true)")
		os.Exit(1)
	}

	logger.Info("starting bareact worker",
		logging.String("watch_dir", cfg.Ingest.WatchDir),
		logging.Int("workers", cfg.Ingest.Workers))

	var metrics *prometheus.PipelineMetrics
	var collector prometheus.MetricsCollector
	if cfg.Metrics.Enabled {
		collector, err = prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace:            "bareact",
			Subsystem:            "pipeline",
			EnableProcessMetrics: true,
			EnableGoMetrics:      true,
		}, logger)
		if err != nil {
			logger.Error("failed to initialize metrics", logging.Err(err))
			os.Exit(1)
		}
		metrics = prometheus.NewPipelineMetrics(collector)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	infra, err := initInfrastructure(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize infrastructure", logging.Err(err))
		os.Exit(1)
	}
	defer infra.Close()

	metrics.SetHealth("neo4j", true)
	if infra.redis != nil {
		metrics.SetHealth("redis", true)
	}
	if infra.minio != nil {
		metrics.SetHealth("minio", true)
	}
	if infra.publisher != nil {
		metrics.SetHealth("kafka", true)
	}

	svc := ingestion.NewService(
		acquisition.NewExtractor(cfg.Acquisition, logger),
		bareact.NewParser(bareact.ParserConfig{Verbose: cfg.Parser.Verbose}, logger),
		infra.graph,
		infra.ledger,
		infra.artifacts,
		infra.publisher,
		metrics,
		logger,
		cfg.Ingest,
	)

	if err := svc.Prepare(ctx); err != nil {
		logger.Error("failed to prepare graph store", logging.Err(err))
		infra.Close()
		os.Exit(1)
	}

	var ready atomic.Bool
	opsSrv := startOpsServer(cfg.Metrics, collector, &ready, logger)
	ready.Store(true)

	// Catch up on anything dropped while the worker was down.
	if res, err := svc.IngestDirectory(ctx, cfg.Ingest.WatchDir); err != nil {
		logger.Error("startup sweep failed", logging.Err(err))
	} else {
		logger.Info("startup sweep finished",
			logging.Int("scanned", res.Scanned),
			logging.Int("ingested", res.Ingested),
			logging.Int("skipped", res.Skipped),
			logging.Int("failed", res.Failed()))
	}

	if *configPath != "" {
		config.Watch(*configPath, func(_ *config.Config) {
			logger.Info("configuration file changed on disk; restart the worker to apply it",
				logging.String("path", *configPath))
		})
	}

	watcher := ingestion.NewWatcher(svc, cfg.Ingest, metrics, logger)
	if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("watcher stopped", logging.Err(err))
	}
	ready.Store(false)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := opsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("ops server shutdown error", logging.Err(err))
	}

	logger.Info("bareact worker stopped")
}

// loadConfig reads the config file when one was given, or builds the whole
// configuration from BAREACT_* environment variables.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.LoadFromEnv()
}

// workerInfrastructure holds the backing-store clients for the daemon.
type workerInfrastructure struct {
	logger logging.Logger

	neo4j *neo4jdriver.Driver
	redis *redisclient.Client
	minio *minioclient.Client

	graph     statute.GraphRepository
	ledger    statute.IngestLedger
	artifacts statute.ArtifactStore
	publisher statute.EventPublisher
}

// Close releases the clients in reverse construction order. The publisher
// goes first so buffered events flush while the broker connections behind it
// are still open.
func (w *workerInfrastructure) Close() {
	if w.publisher != nil {
		if err := w.publisher.Close(); err != nil {
			w.logger.Warn("could not close event publisher", logging.Err(err))
		}
	}
	if w.minio != nil {
		if err := w.minio.Close(); err != nil {
			w.logger.Warn("could not close object store client", logging.Err(err))
		}
	}
	if w.redis != nil {
		if err := w.redis.Close(); err != nil {
			w.logger.Warn("could not close redis client", logging.Err(err))
		}
	}
	if w.neo4j != nil {
		if err := w.neo4j.Close(); err != nil {
			w.logger.Warn("could not close neo4j driver", logging.Err(err))
		}
	}
}

func initInfrastructure(ctx context.Context, cfg *config.Config, logger logging.Logger) (*workerInfrastructure, error) {
	infra := &workerInfrastructure{logger: logger}

	driver, err := neo4jdriver.NewDriver(cfg.Neo4j, logger)
	if err != nil {
		return nil, fmt.Errorf("neo4j: %w", err)
	}
	infra.neo4j = driver
	infra.graph = neo4jrepo.NewStatuteRepository(driver, logger)

	if cfg.Redis.Enabled {
		client, err := redisclient.NewClient(cfg.Redis, logger)
		if err != nil {
			infra.Close()
			return nil, fmt.Errorf("redis: %w", err)
		}
		infra.redis = client
		infra.ledger = redisclient.NewIngestLedger(client, cfg.Redis.KeyPrefix, logger)
	}

	if cfg.MinIO.Enabled {
		client, err := minioclient.NewClient(cfg.MinIO, logger)
		if err != nil {
			infra.Close()
			return nil, fmt.Errorf("minio: %w", err)
		}
		infra.minio = client
		if err := client.EnsureBuckets(ctx); err != nil {
			infra.Close()
			return nil, fmt.Errorf("minio: %w", err)
		}
		infra.artifacts = minioclient.NewArtifactStore(client, logger)
	}

	if cfg.Kafka.Enabled {
		ensureTopics(ctx, cfg.Kafka.Brokers, logger)

		producer, err := kafkamsg.NewProducer(kafkamsg.ProducerConfig{
			Brokers:      cfg.Kafka.Brokers,
			Acks:         producerAcks(cfg.Kafka.RequiredAcks),
			MaxRetries:   cfg.Kafka.ProducerRetries,
			BatchSize:    cfg.Kafka.BatchSize,
			BatchTimeout: cfg.Kafka.BatchTimeout,
		}, logger)
		if err != nil {
			infra.Close()
			return nil, fmt.Errorf("kafka: %w", err)
		}
		infra.publisher = kafkamsg.NewEventPublisher(producer, "bareact-worker", logger)
	}

	logger.Info("worker infrastructure initialized")
	return infra, nil
}

// ensureTopics pre-creates the pipeline topics. Failure is not fatal: the
// broker may auto-create topics, or they may be managed externally.
func ensureTopics(ctx context.Context, brokers []string, logger logging.Logger) {
	tm, err := kafkamsg.NewTopicManager(brokers, logger)
	if err != nil {
		logger.Warn("could not reach kafka for topic setup", logging.Err(err))
		return
	}
	defer tm.Close()

	if err := tm.EnsureDefaultTopics(ctx); err != nil {
		logger.Warn("could not ensure kafka topics", logging.Err(err))
	}
}

// producerAcks translates the numeric required-acks setting into the
// producer's string form: -1 waits for all replicas, 0 fires and forgets,
// anything else waits for the leader.
func producerAcks(requiredAcks int) string {
	switch requiredAcks {
	case -1:
		return "all"
	case 0:
		return "none"
	default:
		return "one"
	}
}

// startOpsServer serves the liveness and readiness probes, plus the metrics
// endpoint when a collector is configured. The server binds the metrics
// address either way so probes keep working with metrics disabled.
func startOpsServer(cfg config.MetricsConfig, collector prometheus.MetricsCollector, ready *atomic.Bool, logger logging.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		if !ready.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("not ready"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ready"))
	})
	if collector != nil {
		mux.Handle(cfg.Path, collector.Handler())
	}

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: mux,
	}

	go func() {
		logger.Info("ops server listening", logging.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("ops server error", logging.Err(err))
		}
	}()

	return srv
}
