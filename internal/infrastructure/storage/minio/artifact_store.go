package minio

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/minio/minio-go/v7"

	"github.com/nyayatech/BareAct-Intelligence/internal/domain/statute"
	"github.com/nyayatech/BareAct-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/nyayatech/BareAct-Intelligence/pkg/errors"
)

var ErrArtifactNotFound = errors.New(errors.ErrCodeNotFound, "artifact not found")

// ObjectName returns the artifact object name for a document ID.
func ObjectName(documentID string) string {
	return documentID + ".json"
}

// artifactStore persists parsed acts as pretty-printed JSON objects in the
// artifact bucket and raw source documents in the source bucket.
type artifactStore struct {
	client *Client
	logger logging.Logger
}

// NewArtifactStore wraps the client as a statute.ArtifactStore.
func NewArtifactStore(client *Client, log logging.Logger) statute.ArtifactStore {
	return &artifactStore{
		client: client,
		logger: log,
	}
}

func (s *artifactStore) PutDocument(ctx context.Context, act *statute.Act) (string, error) {
	if s.client.isClosed() {
		return "", ErrClientClosed
	}
	if act == nil {
		return "", errors.New(errors.ErrCodeBadRequest, "act is nil")
	}

	data, err := json.MarshalIndent(act, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal act")
	}

	objectName := ObjectName(act.DocumentID())
	opts := minio.PutObjectOptions{
		ContentType: "application/json",
		UserMetadata: map[string]string{
			"Statute-Name": act.Name,
			"Statute-Year": strconv.Itoa(act.Year),
			"Content-Hash": act.ContentHash(),
		},
	}

	info, err := s.client.GetClient().PutObject(ctx, s.client.ArtifactBucket(), objectName,
		bytes.NewReader(data), int64(len(data)), opts)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeArtifactStoreError, "failed to store artifact")
	}

	s.logger.Debug("Artifact stored",
		logging.String("object", objectName),
		logging.Int64("size", info.Size))
	return objectName, nil
}

func (s *artifactStore) GetDocument(ctx context.Context, objectName string) (*statute.Act, error) {
	if s.client.isClosed() {
		return nil, ErrClientClosed
	}

	obj, err := s.client.GetClient().GetObject(ctx, s.client.ArtifactBucket(), objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeArtifactStoreError, "failed to open artifact")
	}
	defer obj.Close()

	if _, err := obj.Stat(); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrArtifactNotFound
		}
		return nil, errors.Wrap(err, errors.ErrCodeArtifactStoreError, "failed to stat artifact")
	}

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeArtifactStoreError, "failed to read artifact")
	}

	var act statute.Act
	if err := json.Unmarshal(data, &act); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to unmarshal act")
	}
	return &act, nil
}

func (s *artifactStore) ArchiveSource(ctx context.Context, sourceFile string, data []byte) (string, error) {
	if s.client.isClosed() {
		return "", ErrClientClosed
	}
	if sourceFile == "" {
		return "", errors.New(errors.ErrCodeBadRequest, "source file is empty")
	}

	objectName := filepath.Base(sourceFile)
	contentType := "application/octet-stream"
	if len(data) > 0 {
		contentType = http.DetectContentType(data[:min(512, len(data))])
	}

	_, err := s.client.GetClient().PutObject(ctx, s.client.SourceBucket(), objectName,
		bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeArtifactStoreError, "failed to archive source")
	}

	s.logger.Debug("Source archived",
		logging.String("object", objectName),
		logging.Int("size", len(data)))
	return objectName, nil
}
