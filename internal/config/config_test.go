package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyayatech/BareAct-Intelligence/internal/config"
)

// validConfig returns a Config that passes Validate() with all infrastructure
// sections enabled and their required fields set.
func validConfig() *config.Config {
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	cfg.Neo4j.Enabled = true
	cfg.Neo4j.Password = "secret"
	cfg.Redis.Enabled = true
	cfg.Kafka.Enabled = true
	cfg.MinIO.Enabled = true
	cfg.MinIO.AccessKey = "key"
	cfg.MinIO.SecretKey = "secret"
	cfg.Metrics.Enabled = true
	return cfg
}

func TestConfig_Validate_ValidConfig(t *testing.T) {
	t.Parallel()
	assert.NoError(t, validConfig().Validate())
}

func TestConfig_Validate_DisabledSectionsSkipped(t *testing.T) {
	t.Parallel()
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	// Blank out required fields of a disabled section: must still validate.
	cfg.Neo4j.URI = ""
	cfg.Redis.Addr = ""
	cfg.Kafka.Brokers = nil
	cfg.MinIO.Endpoint = ""
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate_MissingNeo4jURI(t *testing.T) {
	t.Parallel()
	cfg := validConfig()
	cfg.Neo4j.URI = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "neo4j.uri")
}

func TestConfig_Validate_MissingRedisAddr(t *testing.T) {
	t.Parallel()
	cfg := validConfig()
	cfg.Redis.Addr = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis.addr")
}

func TestConfig_Validate_EmptyKafkaBrokers(t *testing.T) {
	t.Parallel()
	cfg := validConfig()
	cfg.Kafka.Brokers = nil
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kafka.brokers")
}

func TestConfig_Validate_MissingArtifactBucket(t *testing.T) {
	t.Parallel()
	cfg := validConfig()
	cfg.MinIO.ArtifactBucket = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "minio.artifact_bucket")
}

func TestConfig_Validate_InvalidWorkers(t *testing.T) {
	t.Parallel()
	cfg := validConfig()
	cfg.Ingest.Workers = 0
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ingest.workers")
}

func TestConfig_Validate_OCRFlagsMutuallyExclusive(t *testing.T) {
	t.Parallel()
	cfg := validConfig()
	cfg.Acquisition.ForceOCR = true
	cfg.Acquisition.DisableOCR = true
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}

func TestConfig_Validate_InvalidLogLevel(t *testing.T) {
	t.Parallel()
	cfg := validConfig()
	cfg.Log.Level = "loud"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.level")
}

func TestConfig_Validate_InvalidLogFormat(t *testing.T) {
	t.Parallel()
	cfg := validConfig()
	cfg.Log.Format = "xml"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.format")
}
