package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nyayatech/BareAct-Intelligence/internal/domain/statute"
	"github.com/nyayatech/BareAct-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/nyayatech/BareAct-Intelligence/pkg/errors"
)

// DefaultKeyPrefix namespaces all ledger keys when no prefix is configured.
const DefaultKeyPrefix = "bareact:"

const (
	hashKeySuffix     = "statute:hash:"
	failuresKeySuffix = "statute:failures"
)

// failureRecord is the stored form of one ingest failure.
type failureRecord struct {
	Reason   string    `json:"reason"`
	FailedAt time.Time `json:"failed_at"`
}

type ingestLedger struct {
	client *Client
	prefix string
	log    logging.Logger
}

// NewIngestLedger returns a statute.IngestLedger backed by Redis. Content
// hashes are stored per document ID without expiry; failures accumulate in a
// single hash keyed by source file.
func NewIngestLedger(client *Client, prefix string, log logging.Logger) statute.IngestLedger {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &ingestLedger{
		client: client,
		prefix: prefix,
		log:    log,
	}
}

func (l *ingestLedger) hashKey(documentID string) string {
	return l.prefix + hashKeySuffix + documentID
}

func (l *ingestLedger) failuresKey() string {
	return l.prefix + failuresKeySuffix
}

// ContentHash returns the last recorded hash for the document, or "" when the
// document has never been ingested.
func (l *ingestLedger) ContentHash(ctx context.Context, documentID string) (string, error) {
	val, err := l.client.Get(ctx, l.hashKey(documentID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeLedgerError, "failed to read content hash")
	}
	return val, nil
}

// SetContentHash records the hash after a successful ingest.
func (l *ingestLedger) SetContentHash(ctx context.Context, documentID, hash string) error {
	if err := l.client.Set(ctx, l.hashKey(documentID), hash, 0).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeLedgerError, "failed to record content hash")
	}
	l.log.Debug("Recorded content hash",
		logging.String("document_id", documentID), logging.String("hash", hash))
	return nil
}

// RecordFailure notes a failed source file and the reason for operator
// inspection. Recording never blocks the pipeline: storage errors are
// reported to the caller but carry the ledger code so they are not treated as
// document failures.
func (l *ingestLedger) RecordFailure(ctx context.Context, sourceFile, reason string) error {
	rec := failureRecord{Reason: reason, FailedAt: time.Now().UTC()}
	raw, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode failure record")
	}

	if err := l.client.HSet(ctx, l.failuresKey(), sourceFile, string(raw)).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeLedgerError, "failed to record ingest failure")
	}
	return nil
}
