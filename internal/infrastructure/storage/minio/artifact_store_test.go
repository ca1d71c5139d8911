package minio

import (
	"context"
	"io"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/nyayatech/BareAct-Intelligence/internal/config"
	"github.com/nyayatech/BareAct-Intelligence/internal/domain/statute"
	"github.com/nyayatech/BareAct-Intelligence/internal/infrastructure/monitoring/logging"
)

type MockMinIOAPI struct {
	mock.Mock
}

func (m *MockMinIOAPI) ListBuckets(ctx context.Context) ([]minio.BucketInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]minio.BucketInfo), args.Error(1)
}

func (m *MockMinIOAPI) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	args := m.Called(ctx, bucketName)
	return args.Bool(0), args.Error(1)
}

func (m *MockMinIOAPI) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	args := m.Called(ctx, bucketName, opts)
	return args.Error(0)
}

func (m *MockMinIOAPI) ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo {
	args := m.Called(ctx, bucketName, opts)
	return args.Get(0).(<-chan minio.ObjectInfo)
}

func (m *MockMinIOAPI) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	args := m.Called(ctx, bucketName, objectName, reader, objectSize, opts)
	return args.Get(0).(minio.UploadInfo), args.Error(1)
}

func (m *MockMinIOAPI) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (*minio.Object, error) {
	args := m.Called(ctx, bucketName, objectName, opts)
	return nil, args.Error(1)
}

func (m *MockMinIOAPI) RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error {
	args := m.Called(ctx, bucketName, objectName, opts)
	return args.Error(0)
}

func (m *MockMinIOAPI) StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
	args := m.Called(ctx, bucketName, objectName, opts)
	return args.Get(0).(minio.ObjectInfo), args.Error(1)
}

func newStoreTestAct() *statute.Act {
	act := statute.NewAct()
	act.Name = "The Test Act"
	act.Year = 1947
	act.Sections = append(act.Sections, statute.Section{
		Number:  "1",
		Title:   "Short title",
		Content: "1. Short title. This Act may be called The Test Act, 1947.",
	})
	act.Finalize()
	return act
}

type ArtifactStoreTestSuite struct {
	suite.Suite
	mockAPI *MockMinIOAPI
	client  *Client
	store   statute.ArtifactStore
}

func (s *ArtifactStoreTestSuite) SetupTest() {
	s.mockAPI = new(MockMinIOAPI)
	s.client = &Client{
		client: s.mockAPI,
		config: config.MinIOConfig{
			ArtifactBucket: "bareact-artifacts",
			SourceBucket:   "bareact-sources",
		},
		logger: logging.NewNopLogger(),
	}
	s.store = NewArtifactStore(s.client, logging.NewNopLogger())
}

func (s *ArtifactStoreTestSuite) TestPutDocument_Success() {
	act := newStoreTestAct()
	wantObject := ObjectName(act.DocumentID())

	var uploaded []byte
	s.mockAPI.On("PutObject", mock.Anything, "bareact-artifacts", wantObject, mock.Anything, mock.Anything,
		mock.MatchedBy(func(opts minio.PutObjectOptions) bool {
			return opts.ContentType == "application/json" &&
				opts.UserMetadata["Statute-Year"] == "1947"
		})).
		Run(func(args mock.Arguments) {
			uploaded, _ = io.ReadAll(args.Get(3).(io.Reader))
		}).
		Return(minio.UploadInfo{Bucket: "bareact-artifacts", Key: wantObject, Size: 100}, nil)

	objectName, err := s.store.PutDocument(context.Background(), act)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), wantObject, objectName)
	assert.Contains(s.T(), string(uploaded), `"name": "The Test Act"`)
	s.mockAPI.AssertExpectations(s.T())
}

func (s *ArtifactStoreTestSuite) TestPutDocument_NilAct() {
	_, err := s.store.PutDocument(context.Background(), nil)
	assert.Error(s.T(), err)
}

func (s *ArtifactStoreTestSuite) TestPutDocument_UploadFailure() {
	s.mockAPI.On("PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, assert.AnError)

	_, err := s.store.PutDocument(context.Background(), newStoreTestAct())
	assert.Error(s.T(), err)
	assert.Contains(s.T(), err.Error(), "STAT_004")
}

func (s *ArtifactStoreTestSuite) TestGetDocument_OpenFailure() {
	s.mockAPI.On("GetObject", mock.Anything, "bareact-artifacts", "statute_x_0.json", mock.Anything).
		Return(nil, assert.AnError)

	_, err := s.store.GetDocument(context.Background(), "statute_x_0.json")
	assert.Error(s.T(), err)
}

func (s *ArtifactStoreTestSuite) TestArchiveSource_Success() {
	pdfHeader := []byte("%PDF-1.4\n%fake body for sniffing")
	s.mockAPI.On("PutObject", mock.Anything, "bareact-sources", "contract_act.pdf", mock.Anything, int64(len(pdfHeader)),
		mock.MatchedBy(func(opts minio.PutObjectOptions) bool {
			return opts.ContentType == "application/pdf"
		})).
		Return(minio.UploadInfo{Bucket: "bareact-sources", Key: "contract_act.pdf"}, nil)

	objectName, err := s.store.ArchiveSource(context.Background(), "/data/bare_acts/contract_act.pdf", pdfHeader)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), "contract_act.pdf", objectName)
	s.mockAPI.AssertExpectations(s.T())
}

func (s *ArtifactStoreTestSuite) TestArchiveSource_EmptyPath() {
	_, err := s.store.ArchiveSource(context.Background(), "", []byte("x"))
	assert.Error(s.T(), err)
}

func (s *ArtifactStoreTestSuite) TestClosedClientRejectsOperations() {
	assert.NoError(s.T(), s.client.Close())

	_, err := s.store.PutDocument(context.Background(), newStoreTestAct())
	assert.ErrorIs(s.T(), err, ErrClientClosed)

	_, err = s.store.GetDocument(context.Background(), "x.json")
	assert.ErrorIs(s.T(), err, ErrClientClosed)

	_, err = s.store.ArchiveSource(context.Background(), "x.pdf", []byte("x"))
	assert.ErrorIs(s.T(), err, ErrClientClosed)
}

func TestArtifactStoreSuite(t *testing.T) {
	suite.Run(t, new(ArtifactStoreTestSuite))
}
