// Package config provides configuration loading, defaults, and validation for
// the BareAct-Intelligence pipeline.
package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultExtractTimeout = 60 * time.Second
	DefaultOCRTimeout     = 5 * time.Minute
	DefaultMinTextLength  = 500

	DefaultNeo4jURI      = "bolt://localhost:7687"
	DefaultNeo4jUser     = "neo4j"
	DefaultNeo4jDatabase = "neo4j"

	DefaultRedisAddr      = "localhost:6379"
	DefaultRedisKeyPrefix = "bareact"

	DefaultKafkaBroker = "localhost:9092"

	DefaultMinIOEndpoint  = "localhost:9000"
	DefaultArtifactBucket = "bareact-parsed"
	DefaultSourceBucket   = "bareact-sources"

	DefaultIngestWorkers  = 4
	DefaultMaxRetries     = 3
	DefaultRetryDelay     = 2 * time.Second
	DefaultDebounceDelay  = 500 * time.Millisecond

	DefaultMetricsAddr = ":9091"
	DefaultMetricsPath = "/metrics"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// ApplyDefaults fills every zero-value field in cfg with the pipeline default.
// Fields that have already been set by the caller (non-zero values) are left
// unchanged so that explicit configuration always wins.  It must be called
// after unmarshalling raw config data and before Validate() so that
// optional-but-defaulted fields are never seen as missing.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Acquisition ───────────────────────────────────────────────────────────
	if cfg.Acquisition.ExtractTimeout == 0 {
		cfg.Acquisition.ExtractTimeout = DefaultExtractTimeout
	}
	if cfg.Acquisition.OCRTimeout == 0 {
		cfg.Acquisition.OCRTimeout = DefaultOCRTimeout
	}
	if cfg.Acquisition.MinTextLength == 0 {
		cfg.Acquisition.MinTextLength = DefaultMinTextLength
	}

	// ── Neo4j ─────────────────────────────────────────────────────────────────
	if cfg.Neo4j.URI == "" {
		cfg.Neo4j.URI = DefaultNeo4jURI
	}
	if cfg.Neo4j.User == "" {
		cfg.Neo4j.User = DefaultNeo4jUser
	}
	if cfg.Neo4j.Database == "" {
		cfg.Neo4j.Database = DefaultNeo4jDatabase
	}
	if cfg.Neo4j.MaxConnectionPoolSize == 0 {
		cfg.Neo4j.MaxConnectionPoolSize = 50
	}
	if cfg.Neo4j.ConnectionTimeout == 0 {
		cfg.Neo4j.ConnectionTimeout = 30 * time.Second
	}

	// ── Redis ─────────────────────────────────────────────────────────────────
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}
	// DB is an int; 0 is a valid explicit value so we cannot distinguish "not
	// set" from "set to 0".  We leave it as-is (0 is also the default).

	// ── Kafka ─────────────────────────────────────────────────────────────────
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.ProducerRetries == 0 {
		cfg.Kafka.ProducerRetries = 3
	}
	if cfg.Kafka.BatchSize == 0 {
		cfg.Kafka.BatchSize = 100
	}
	if cfg.Kafka.BatchTimeout == 0 {
		cfg.Kafka.BatchTimeout = 100 * time.Millisecond
	}

	// ── MinIO ─────────────────────────────────────────────────────────────────
	if cfg.MinIO.Endpoint == "" {
		cfg.MinIO.Endpoint = DefaultMinIOEndpoint
	}
	if cfg.MinIO.ArtifactBucket == "" {
		cfg.MinIO.ArtifactBucket = DefaultArtifactBucket
	}
	if cfg.MinIO.SourceBucket == "" {
		cfg.MinIO.SourceBucket = DefaultSourceBucket
	}

	// ── Ingest ────────────────────────────────────────────────────────────────
	if cfg.Ingest.Workers == 0 {
		cfg.Ingest.Workers = DefaultIngestWorkers
	}
	if cfg.Ingest.MaxRetries == 0 {
		cfg.Ingest.MaxRetries = DefaultMaxRetries
	}
	if cfg.Ingest.RetryDelay == 0 {
		cfg.Ingest.RetryDelay = DefaultRetryDelay
	}
	if cfg.Ingest.DebounceDelay == 0 {
		cfg.Ingest.DebounceDelay = DefaultDebounceDelay
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	if cfg.Metrics.Addr == "" {
		cfg.Metrics.Addr = DefaultMetricsAddr
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}
