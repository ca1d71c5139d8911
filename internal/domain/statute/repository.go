package statute

import (
	"context"

	"github.com/nyayatech/BareAct-Intelligence/pkg/types/common"
)

// GraphSaveStats reports what a SaveStatute call actually wrote.
type GraphSaveStats struct {
	ChaptersCreated   int
	SectionsCreated   int
	ReferencesCreated int
}

// GraphRepository persists parsed acts as a node hierarchy
// (Statute → Chapter → Section) in the knowledge graph. Implementations must
// be idempotent: saving the same act twice leaves the graph unchanged except
// for refreshed timestamps, keyed by Act.DocumentID.
type GraphRepository interface {
	// EnsureCollection creates or verifies the shared bare-acts collection
	// that all statute nodes attach to.
	EnsureCollection(ctx context.Context) error

	// SaveStatute deletes any previous hierarchy for the act's DocumentID and
	// writes the current one.
	SaveStatute(ctx context.Context, act *Act) (*GraphSaveStats, error)

	// DeleteStatute removes the statute node, its chapters and sections, and
	// any retrieval chunks grouped under fileID.
	DeleteStatute(ctx context.Context, documentID, fileID string) error
}

// ArtifactStore persists the serialized ParsedDocument JSON for downstream
// consumers and re-ingestion without re-parsing, plus an archive copy of the
// raw source document.
type ArtifactStore interface {
	// PutDocument stores the act and returns the object name it was written
	// under.
	PutDocument(ctx context.Context, act *Act) (string, error)

	// GetDocument loads a previously stored act by object name.
	GetDocument(ctx context.Context, objectName string) (*Act, error)

	// ArchiveSource keeps a copy of the raw source document and returns the
	// object name it was archived under.
	ArchiveSource(ctx context.Context, sourceFile string, data []byte) (string, error)
}

// IngestLedger tracks per-document content hashes so that re-runs skip
// statutes whose sections have not changed, plus failure notes for operator
// inspection.
type IngestLedger interface {
	// ContentHash returns the last recorded hash for the document, or ""
	// when the document has never been ingested.
	ContentHash(ctx context.Context, documentID string) (string, error)

	// SetContentHash records the hash after a successful ingest.
	SetContentHash(ctx context.Context, documentID, hash string) error

	// RecordFailure notes a failed source file and the reason.
	RecordFailure(ctx context.Context, sourceFile, reason string) error
}

// EventPublisher emits statute domain events to the message bus.
type EventPublisher interface {
	Publish(ctx context.Context, events ...common.DomainEvent) error
	Close() error
}
