package cli

import (
	"context"

	"github.com/nyayatech/BareAct-Intelligence/internal/application/ingestion"
	"github.com/nyayatech/BareAct-Intelligence/internal/config"
	"github.com/nyayatech/BareAct-Intelligence/internal/domain/statute"
	"github.com/nyayatech/BareAct-Intelligence/internal/infrastructure/acquisition"
	"github.com/nyayatech/BareAct-Intelligence/internal/infrastructure/database/neo4j"
	"github.com/nyayatech/BareAct-Intelligence/internal/infrastructure/database/neo4j/repositories"
	"github.com/nyayatech/BareAct-Intelligence/internal/infrastructure/database/redis"
	"github.com/nyayatech/BareAct-Intelligence/internal/infrastructure/messaging/kafka"
	"github.com/nyayatech/BareAct-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/nyayatech/BareAct-Intelligence/internal/infrastructure/storage/minio"
	"github.com/nyayatech/BareAct-Intelligence/internal/intelligence/bareact"
	"github.com/nyayatech/BareAct-Intelligence/pkg/errors"
)

// buildExtractor constructs the text acquisition chain from configuration.
func buildExtractor(cfg *config.Config, logger logging.Logger) *acquisition.Extractor {
	return acquisition.NewExtractor(cfg.Acquisition, logger)
}

// buildParser constructs the statutory parser from configuration.
func buildParser(cfg *config.Config, logger logging.Logger) bareact.Parser {
	return bareact.NewParser(bareact.ParserConfig{Verbose: cfg.Parser.Verbose}, logger)
}

// pipelineInfra aggregates the infrastructure clients behind the ingestion
// service so a command can release them when it is done.
type pipelineInfra struct {
	logger logging.Logger

	driver      *neo4j.Driver
	redisClient *redis.Client
	minioClient *minio.Client
	publisher   statute.EventPublisher

	graph     statute.GraphRepository
	ledger    statute.IngestLedger
	artifacts statute.ArtifactStore
}

// Close releases all clients in reverse construction order. The publisher
// goes first so buffered parse events are flushed while the rest of the
// stack is still up.
func (i *pipelineInfra) Close() {
	if i.publisher != nil {
		if err := i.publisher.Close(); err != nil {
			i.logger.Warn("could not close event publisher", logging.Err(err))
		}
	}
	if i.minioClient != nil {
		if err := i.minioClient.Close(); err != nil {
			i.logger.Warn("could not close object store client", logging.Err(err))
		}
	}
	if i.redisClient != nil {
		if err := i.redisClient.Close(); err != nil {
			i.logger.Warn("could not close redis client", logging.Err(err))
		}
	}
	if i.driver != nil {
		if err := i.driver.Close(); err != nil {
			i.logger.Warn("could not close neo4j driver", logging.Err(err))
		}
	}
}

// acksName translates the numeric required-acks setting into the producer's
// string form: -1 waits for all replicas, 0 fires and forgets, anything else
// waits for the leader.
func acksName(requiredAcks int) string {
	switch requiredAcks {
	case -1:
		return "all"
	case 0:
		return "none"
	default:
		return "one"
	}
}

// buildPipeline wires the full ingestion service from configuration. The
// graph store is mandatory; disabled Redis, Kafka and MinIO sections leave
// the corresponding pipeline step switched off. On success the caller owns
// the returned infra and must Close it.
func buildPipeline(ctx context.Context, cfg *config.Config, logger logging.Logger) (ingestion.Service, *pipelineInfra, error) {
	if !cfg.Neo4j.Enabled {
		return nil, nil, errors.New(errors.ErrCodeConfigInvalid,
			"neo4j must be enabled for ingest commands (set neo4j.enabled: true)")
	}

	infra := &pipelineInfra{logger: logger}

	driver, err := neo4j.NewDriver(cfg.Neo4j, logger)
	if err != nil {
		return nil, nil, err
	}
	infra.driver = driver
	infra.graph = repositories.NewStatuteRepository(driver, logger)

	if cfg.Redis.Enabled {
		client, err := redis.NewClient(cfg.Redis, logger)
		if err != nil {
			infra.Close()
			return nil, nil, err
		}
		infra.redisClient = client
		infra.ledger = redis.NewIngestLedger(client, cfg.Redis.KeyPrefix, logger)
	}

	if cfg.MinIO.Enabled {
		client, err := minio.NewClient(cfg.MinIO, logger)
		if err != nil {
			infra.Close()
			return nil, nil, err
		}
		infra.minioClient = client
		if err := client.EnsureBuckets(ctx); err != nil {
			infra.Close()
			return nil, nil, err
		}
		infra.artifacts = minio.NewArtifactStore(client, logger)
	}

	if cfg.Kafka.Enabled {
		producer, err := kafka.NewProducer(kafka.ProducerConfig{
			Brokers:      cfg.Kafka.Brokers,
			Acks:         acksName(cfg.Kafka.RequiredAcks),
			MaxRetries:   cfg.Kafka.ProducerRetries,
			BatchSize:    cfg.Kafka.BatchSize,
			BatchTimeout: cfg.Kafka.BatchTimeout,
		}, logger)
		if err != nil {
			infra.Close()
			return nil, nil, err
		}
		infra.publisher = kafka.NewEventPublisher(producer, "", logger)
	}

	svc := ingestion.NewService(
		buildExtractor(cfg, logger),
		buildParser(cfg, logger),
		infra.graph,
		infra.ledger,
		infra.artifacts,
		infra.publisher,
		nil,
		logger,
		cfg.Ingest,
	)

	return svc, infra, nil
}
