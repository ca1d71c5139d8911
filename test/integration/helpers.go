// Package integration exercises the parse→persist pipeline against real
// infrastructure: Neo4j for the statute graph, Redis for the ingest ledger,
// MinIO for parsed artifacts. Tests are gated behind BAREACT_INTEGRATION_TEST
// and expect the services reachable at localhost (docker compose up) or at
// the addresses given by the BAREACT_TEST_* variables. Components that cannot
// be reached are left nil and the tests needing them skip themselves.
package integration

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/nyayatech/BareAct-Intelligence/internal/config"
	"github.com/nyayatech/BareAct-Intelligence/internal/domain/statute"
	neo4jdb "github.com/nyayatech/BareAct-Intelligence/internal/infrastructure/database/neo4j"
	"github.com/nyayatech/BareAct-Intelligence/internal/infrastructure/database/neo4j/repositories"
	redisdb "github.com/nyayatech/BareAct-Intelligence/internal/infrastructure/database/redis"
	"github.com/nyayatech/BareAct-Intelligence/internal/infrastructure/monitoring/logging"
	miniostore "github.com/nyayatech/BareAct-Intelligence/internal/infrastructure/storage/minio"
	"github.com/nyayatech/BareAct-Intelligence/internal/intelligence/bareact"
	"github.com/nyayatech/BareAct-Intelligence/internal/testutil"
)

// ---------------------------------------------------------------------------
// Environment detection
// ---------------------------------------------------------------------------

const (
	// EnvIntegrationEnabled controls whether integration tests run.
	EnvIntegrationEnabled = "BAREACT_INTEGRATION_TEST"

	// EnvNeo4jURI overrides the default Neo4j bolt URI.
	EnvNeo4jURI = "BAREACT_TEST_NEO4J_URI"

	// EnvNeo4jUser overrides the default Neo4j user.
	EnvNeo4jUser = "BAREACT_TEST_NEO4J_USER"

	// EnvNeo4jPassword overrides the default Neo4j password.
	EnvNeo4jPassword = "BAREACT_TEST_NEO4J_PASSWORD"

	// EnvRedisAddr overrides the default Redis address.
	EnvRedisAddr = "BAREACT_TEST_REDIS_ADDR"

	// EnvMinIOEndpoint overrides the default MinIO endpoint.
	EnvMinIOEndpoint = "BAREACT_TEST_MINIO_ENDPOINT"

	// EnvMinIOAccessKey overrides the default MinIO access key.
	EnvMinIOAccessKey = "BAREACT_TEST_MINIO_ACCESS_KEY"

	// EnvMinIOSecretKey overrides the default MinIO secret key.
	EnvMinIOSecretKey = "BAREACT_TEST_MINIO_SECRET_KEY"

	// DefaultNeo4jURI is the fallback Neo4j bolt URI for local dev.
	DefaultNeo4jURI = "bolt://localhost:7687"

	// DefaultNeo4jUser is the fallback Neo4j user.
	DefaultNeo4jUser = "neo4j"

	// DefaultNeo4jPassword is the fallback Neo4j password for local dev.
	DefaultNeo4jPassword = "bareact-dev"

	// DefaultRedisAddr is the fallback Redis address.
	DefaultRedisAddr = "localhost:6379"

	// DefaultMinIOEndpoint is the fallback MinIO endpoint.
	DefaultMinIOEndpoint = "localhost:9000"

	// DefaultMinIOAccessKey is the fallback MinIO access key for local dev.
	DefaultMinIOAccessKey = "minioadmin"

	// DefaultMinIOSecretKey is the fallback MinIO secret key for local dev.
	DefaultMinIOSecretKey = "minioadmin"

	// TestTimeout is the maximum duration for a single integration test.
	TestTimeout = 120 * time.Second

	// SetupTimeout is the maximum duration for test environment setup.
	SetupTimeout = 60 * time.Second
)

// SkipIfNoIntegration skips the calling test when the integration flag is
// unset.
func SkipIfNoIntegration(t *testing.T) {
	t.Helper()
	if os.Getenv(EnvIntegrationEnabled) == "" {
		t.Skipf("skipping integration test: set %s=1 to enable", EnvIntegrationEnabled)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// ---------------------------------------------------------------------------
// TestEnvironment
// ---------------------------------------------------------------------------

// TestEnvironment aggregates the infrastructure clients and repositories the
// integration tests share. It is initialised once per test binary; connectors
// are best-effort and leave their field nil when the service is unreachable,
// so a test needing one component does not force every service up.
type TestEnvironment struct {
	Ctx    context.Context
	Cancel context.CancelFunc
	Logger logging.Logger

	// RunID namespaces keys and buckets so concurrent or aborted runs do not
	// collide.
	RunID string

	Neo4j *neo4jdb.Driver
	Graph statute.GraphRepository

	Redis  *redisdb.Client
	Ledger statute.IngestLedger

	MinIO     *miniostore.Client
	Artifacts statute.ArtifactStore
}

var (
	globalEnv     *TestEnvironment
	globalEnvOnce sync.Once
	globalEnvErr  error
)

// SetupTestEnvironment returns the shared TestEnvironment. The heavy
// initialisation (client connections, bucket creation) runs exactly once per
// test binary; each test receives a child context cancelled when it finishes.
func SetupTestEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()
	SkipIfNoIntegration(t)

	globalEnvOnce.Do(func() {
		globalEnv, globalEnvErr = buildTestEnvironment()
	})
	if globalEnvErr != nil {
		t.Fatalf("integration environment setup failed: %v", globalEnvErr)
	}

	ctx, cancel := context.WithTimeout(globalEnv.Ctx, TestTimeout)
	t.Cleanup(cancel)

	env := *globalEnv
	env.Ctx = ctx
	env.Cancel = cancel
	return &env
}

func buildTestEnvironment() (*TestEnvironment, error) {
	// The setup context bounds the connection attempts only; clients do not
	// retain it.
	ctx, cancel := context.WithTimeout(context.Background(), SetupTimeout)
	defer cancel()

	logger, err := logging.NewLogger(logging.LogConfig{Level: "debug", Format: "console"})
	if err != nil {
		return nil, err
	}

	env := &TestEnvironment{
		Ctx:    context.Background(),
		Logger: logger,
		RunID:  uuid.NewString()[:8],
	}

	env.connectNeo4j(ctx)
	env.connectRedis(ctx)
	env.connectMinIO(ctx)
	return env, nil
}

func (env *TestEnvironment) connectNeo4j(ctx context.Context) {
	cfg := config.Neo4jConfig{
		Enabled:  true,
		URI:      envOr(EnvNeo4jURI, DefaultNeo4jURI),
		User:     envOr(EnvNeo4jUser, DefaultNeo4jUser),
		Password: envOr(EnvNeo4jPassword, DefaultNeo4jPassword),
		Database: "neo4j",
	}
	driver, err := neo4jdb.NewDriver(cfg, env.Logger)
	if err != nil {
		env.Logger.Warn("neo4j unavailable for integration tests", logging.Err(err))
		return
	}
	if err := driver.HealthCheck(ctx); err != nil {
		env.Logger.Warn("neo4j health check failed", logging.Err(err))
		_ = driver.Close()
		return
	}
	env.Neo4j = driver
	env.Graph = repositories.NewStatuteRepository(driver, env.Logger)
}

func (env *TestEnvironment) connectRedis(ctx context.Context) {
	cfg := config.RedisConfig{
		Enabled: true,
		Addr:    envOr(EnvRedisAddr, DefaultRedisAddr),
		DB:      1,
	}
	client, err := redisdb.NewClient(cfg, env.Logger)
	if err != nil {
		env.Logger.Warn("redis unavailable for integration tests", logging.Err(err))
		return
	}
	if err := client.Ping(ctx); err != nil {
		env.Logger.Warn("redis ping failed", logging.Err(err))
		_ = client.Close()
		return
	}
	env.Redis = client
	env.Ledger = redisdb.NewIngestLedger(client, "bareact:itest:"+env.RunID+":", env.Logger)
}

func (env *TestEnvironment) connectMinIO(ctx context.Context) {
	// Fixed test buckets: objects are keyed by document ID, so repeated runs
	// overwrite rather than accumulate.
	cfg := config.MinIOConfig{
		Enabled:        true,
		Endpoint:       envOr(EnvMinIOEndpoint, DefaultMinIOEndpoint),
		AccessKey:      envOr(EnvMinIOAccessKey, DefaultMinIOAccessKey),
		SecretKey:      envOr(EnvMinIOSecretKey, DefaultMinIOSecretKey),
		ArtifactBucket: "bareact-itest-parsed",
		SourceBucket:   "bareact-itest-sources",
	}
	client, err := miniostore.NewClient(cfg, env.Logger)
	if err != nil {
		env.Logger.Warn("minio unavailable for integration tests", logging.Err(err))
		return
	}
	if err := client.EnsureBuckets(ctx); err != nil {
		env.Logger.Warn("minio bucket setup failed", logging.Err(err))
		_ = client.Close()
		return
	}
	env.MinIO = client
	env.Artifacts = miniostore.NewArtifactStore(client, env.Logger)
}

// ---------------------------------------------------------------------------
// Component requirements
// ---------------------------------------------------------------------------

// RequireGraph returns the graph repository or skips the test when Neo4j is
// unreachable.
func (env *TestEnvironment) RequireGraph(t *testing.T) statute.GraphRepository {
	t.Helper()
	if env.Graph == nil {
		t.Skipf("neo4j unavailable: start it locally or set %s", EnvNeo4jURI)
	}
	return env.Graph
}

// RequireLedger returns the ingest ledger or skips the test when Redis is
// unreachable.
func (env *TestEnvironment) RequireLedger(t *testing.T) statute.IngestLedger {
	t.Helper()
	if env.Ledger == nil {
		t.Skipf("redis unavailable: start it locally or set %s", EnvRedisAddr)
	}
	return env.Ledger
}

// RequireArtifacts returns the artifact store or skips the test when MinIO is
// unreachable.
func (env *TestEnvironment) RequireArtifacts(t *testing.T) statute.ArtifactStore {
	t.Helper()
	if env.Artifacts == nil {
		t.Skipf("minio unavailable: start it locally or set %s", EnvMinIOEndpoint)
	}
	return env.Artifacts
}

// ---------------------------------------------------------------------------
// Shared fixtures
// ---------------------------------------------------------------------------

// ParseSampleAct runs the real parsing pipeline over the shared sample act so
// persistence tests operate on the same document shape the production path
// produces. The clock is pinned so repeated parses hash identically.
func ParseSampleAct(t *testing.T) *statute.Act {
	t.Helper()
	parser := bareact.NewParser(bareact.DefaultParserConfig(), nil,
		bareact.WithClock(func() time.Time {
			return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		}))
	act, err := parser.Parse(testutil.SampleActText, "regional_data_centres_2015.txt")
	if err != nil {
		t.Fatalf("parse sample act: %v", err)
	}
	return act
}

// CountSectionNodes returns how many Section nodes hang off the given
// statute in the graph, bypassing the repository so assertions do not trust
// the code under test.
func CountSectionNodes(ctx context.Context, driver *neo4jdb.Driver, documentID string) (int, error) {
	out, err := driver.ExecuteRead(ctx, func(tx neo4jdb.Transaction) (interface{}, error) {
		result, err := tx.Run(ctx,
			`MATCH (s:Statute {id: $id})-[:HAS_SECTION]->(n:Section)
			 RETURN count(n) AS sections`,
			map[string]any{"id": documentID})
		if err != nil {
			return nil, err
		}
		if !result.Next(ctx) {
			return int64(0), result.Err()
		}
		count, _ := result.Record().Get("sections")
		return count, nil
	})
	if err != nil {
		return 0, err
	}
	n, _ := out.(int64)
	return int(n), nil
}

// CountReferenceEdges returns how many REFERS_TO edges exist between the
// given statute's sections.
func CountReferenceEdges(ctx context.Context, driver *neo4jdb.Driver, documentID string) (int, error) {
	out, err := driver.ExecuteRead(ctx, func(tx neo4jdb.Transaction) (interface{}, error) {
		result, err := tx.Run(ctx,
			`MATCH (a:Section)-[r:REFERS_TO]->(:Section)
			 WHERE a.statute_id = $id
			 RETURN count(r) AS refs`,
			map[string]any{"id": documentID})
		if err != nil {
			return nil, err
		}
		if !result.Next(ctx) {
			return int64(0), result.Err()
		}
		count, _ := result.Record().Get("refs")
		return count, nil
	})
	if err != nil {
		return 0, err
	}
	n, _ := out.(int64)
	return int(n), nil
}
