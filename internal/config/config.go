// Package config defines all configuration structures for the
// BareAct-Intelligence pipeline.  No I/O or parsing logic lives here — only
// plain data types and validation.
package config

import (
	"fmt"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// ParserConfig holds structural-parser tunables.  The extraction limits
// themselves (preamble/section/schedule caps) are fixed constants of the
// format, not configuration.
type ParserConfig struct {
	// Verbose enables per-line parser decision logging at DEBUG level.
	Verbose bool `mapstructure:"verbose"`
}

// AcquisitionConfig holds text-extraction tool parameters.  The primary
// extractor is pdftotext; scanned PDFs fall back to pdftoppm + tesseract.
type AcquisitionConfig struct {
	// ForceOCR skips pdftotext and goes straight to the OCR chain.
	ForceOCR bool `mapstructure:"force_ocr"`

	// DisableOCR suppresses the OCR fallback entirely; low-yield pdftotext
	// output is then accepted as-is (or the document fails).
	DisableOCR bool `mapstructure:"disable_ocr"`

	// ExtractTimeout bounds a single pdftotext invocation.
	ExtractTimeout time.Duration `mapstructure:"extract_timeout"`

	// OCRTimeout bounds the whole render-and-recognise chain for one document.
	OCRTimeout time.Duration `mapstructure:"ocr_timeout"`

	// MinTextLength is the minimum stripped-character yield below which an
	// extraction pass is considered to have failed for a scanned PDF.
	MinTextLength int `mapstructure:"min_text_length"`
}

// Neo4jConfig holds Neo4j / statute-graph connection parameters.
type Neo4jConfig struct {
	Enabled               bool          `mapstructure:"enabled"`
	URI                   string        `mapstructure:"uri"`
	User                  string        `mapstructure:"user"`
	Password              string        `mapstructure:"password"`
	MaxConnectionPoolSize int           `mapstructure:"max_connection_pool_size"`
	ConnectionTimeout     time.Duration `mapstructure:"connection_timeout"`
	Database              string        `mapstructure:"database"`
}

// RedisConfig holds Redis connection parameters for the ingest ledger.
type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// KafkaConfig holds Apache Kafka producer parameters for parse-outcome events.
type KafkaConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Brokers         []string      `mapstructure:"brokers"`
	ProducerRetries int           `mapstructure:"producer_retries"`
	BatchSize       int           `mapstructure:"batch_size"`
	BatchTimeout    time.Duration `mapstructure:"batch_timeout"`
	RequiredAcks    int           `mapstructure:"required_acks"`
}

// MinIOConfig holds MinIO / S3-compatible object-storage parameters for
// parsed-document artifacts and source archival.
type MinIOConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Endpoint       string `mapstructure:"endpoint"`
	AccessKey      string `mapstructure:"access_key"`
	SecretKey      string `mapstructure:"secret_key"`
	UseSSL         bool   `mapstructure:"use_ssl"`
	ArtifactBucket string `mapstructure:"artifact_bucket"`
	SourceBucket   string `mapstructure:"source_bucket"`
}

// IngestConfig holds batch-run and drop-directory parameters for the worker.
type IngestConfig struct {
	// Workers is the number of documents parsed concurrently in a batch run.
	Workers int `mapstructure:"workers"`

	// MaxRetries is the per-document persistence retry budget.
	MaxRetries int `mapstructure:"max_retries"`

	// RetryDelay separates persistence retry attempts.
	RetryDelay time.Duration `mapstructure:"retry_delay"`

	// WatchDir, when set, is the drop directory the worker daemon monitors
	// for new source documents.
	WatchDir string `mapstructure:"watch_dir"`

	// DebounceDelay is how long the watcher waits after the last write event
	// before treating a dropped file as complete.
	DebounceDelay time.Duration `mapstructure:"debounce_delay"`

	// OutputDir, when set, additionally writes parsed-document JSON next to
	// the object store (used by the CLI for local inspection).
	OutputDir string `mapstructure:"output_dir"`
}

// MetricsConfig holds the Prometheus exposition endpoint parameters.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
	Path    string `mapstructure:"path"`
}

// LogConfig holds structured-logging parameters.  Field names line up with
// logging.LogConfig so the wiring layer can convert directly.
type LogConfig struct {
	Level            string   `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format           string   `mapstructure:"format"` // "json" | "console"
	OutputPaths      []string `mapstructure:"output_paths"`
	ErrorOutputPaths []string `mapstructure:"error_output_paths"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure for the pipeline.  Every
// infrastructure component and the ingestion service read their settings from
// the relevant sub-struct.  Infrastructure sections carry an Enabled flag so
// the CLI can run the parser standalone with every sink disabled.
type Config struct {
	Parser      ParserConfig      `mapstructure:"parser"`
	Acquisition AcquisitionConfig `mapstructure:"acquisition"`
	Neo4j       Neo4jConfig       `mapstructure:"neo4j"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Kafka       KafkaConfig       `mapstructure:"kafka"`
	MinIO       MinIOConfig       `mapstructure:"minio"`
	Ingest      IngestConfig      `mapstructure:"ingest"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
	Log         LogConfig         `mapstructure:"log"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of the fully-populated Config.
// It returns the first error encountered; callers should treat any error as
// fatal and refuse to start the application.  Disabled infrastructure
// sections are not validated beyond their Enabled flag.
func (c *Config) Validate() error {
	// Acquisition
	if c.Acquisition.ExtractTimeout <= 0 {
		return fmt.Errorf("config: acquisition.extract_timeout must be > 0, got %s", c.Acquisition.ExtractTimeout)
	}
	if c.Acquisition.MinTextLength < 0 {
		return fmt.Errorf("config: acquisition.min_text_length must be ≥ 0, got %d", c.Acquisition.MinTextLength)
	}
	if c.Acquisition.ForceOCR && c.Acquisition.DisableOCR {
		return fmt.Errorf("config: acquisition.force_ocr and acquisition.disable_ocr are mutually exclusive")
	}

	// Neo4j
	if c.Neo4j.Enabled {
		if c.Neo4j.URI == "" {
			return fmt.Errorf("config: neo4j.uri is required when neo4j is enabled")
		}
		if c.Neo4j.User == "" {
			return fmt.Errorf("config: neo4j.user is required when neo4j is enabled")
		}
	}

	// Redis
	if c.Redis.Enabled {
		if c.Redis.Addr == "" {
			return fmt.Errorf("config: redis.addr is required when redis is enabled")
		}
		if c.Redis.DB < 0 {
			return fmt.Errorf("config: redis.db must be ≥ 0, got %d", c.Redis.DB)
		}
	}

	// Kafka
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("config: kafka.brokers must contain at least one broker address when kafka is enabled")
	}

	// MinIO
	if c.MinIO.Enabled {
		if c.MinIO.Endpoint == "" {
			return fmt.Errorf("config: minio.endpoint is required when minio is enabled")
		}
		if c.MinIO.ArtifactBucket == "" {
			return fmt.Errorf("config: minio.artifact_bucket is required when minio is enabled")
		}
	}

	// Ingest
	if c.Ingest.Workers < 1 {
		return fmt.Errorf("config: ingest.workers must be ≥ 1, got %d", c.Ingest.Workers)
	}
	if c.Ingest.MaxRetries < 0 {
		return fmt.Errorf("config: ingest.max_retries must be ≥ 0, got %d", c.Ingest.MaxRetries)
	}

	// Metrics
	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		return fmt.Errorf("config: metrics.addr is required when metrics are enabled")
	}

	// Log
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	return nil
}
