package repositories

import (
	"context"
	"strings"
	"sync"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	driver "github.com/nyayatech/BareAct-Intelligence/internal/infrastructure/database/neo4j"
	"github.com/nyayatech/BareAct-Intelligence/internal/infrastructure/monitoring/logging"
)

func newMockLogger() logging.Logger { return logging.NewNopLogger() }

// executedQuery is one Cypher statement captured by the mock executor.
type executedQuery struct {
	cypher string
	params map[string]interface{}
}

// mockExecutor implements driver.Executor, recording every statement and
// optionally failing statements whose Cypher contains failOn.
type mockExecutor struct {
	mu      sync.Mutex
	queries []executedQuery
	failOn  string
	failErr error
}

func (m *mockExecutor) ExecuteRead(ctx context.Context, work driver.TransactionWork) (interface{}, error) {
	return work(&recordingTx{owner: m})
}

func (m *mockExecutor) ExecuteWrite(ctx context.Context, work driver.TransactionWork) (interface{}, error) {
	return work(&recordingTx{owner: m})
}

func (m *mockExecutor) executed() []executedQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]executedQuery, len(m.queries))
	copy(out, m.queries)
	return out
}

func (m *mockExecutor) queriesContaining(fragment string) []executedQuery {
	var out []executedQuery
	for _, q := range m.executed() {
		if strings.Contains(q.cypher, fragment) {
			out = append(out, q)
		}
	}
	return out
}

// recordingTx implements driver.Transaction against the owning mockExecutor.
type recordingTx struct {
	owner *mockExecutor
}

func (t *recordingTx) Run(ctx context.Context, cypher string, params map[string]any) (driver.Result, error) {
	t.owner.mu.Lock()
	t.owner.queries = append(t.owner.queries, executedQuery{cypher: cypher, params: params})
	fail := t.owner.failOn != "" && strings.Contains(cypher, t.owner.failOn)
	err := t.owner.failErr
	t.owner.mu.Unlock()

	if fail {
		return nil, err
	}
	return &emptyResult{}, nil
}

// emptyResult implements driver.Result with no records.
type emptyResult struct{}

func (r *emptyResult) Next(ctx context.Context) bool { return false }
func (r *emptyResult) Record() *neo4j.Record         { return nil }
func (r *emptyResult) Err() error                    { return nil }
func (r *emptyResult) Consume(ctx context.Context) (neo4j.ResultSummary, error) {
	return nil, nil
}
