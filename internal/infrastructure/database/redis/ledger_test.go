package redis

import (
	"context"
	"errors"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/nyayatech/BareAct-Intelligence/internal/config"
	"github.com/nyayatech/BareAct-Intelligence/internal/domain/statute"
	"github.com/nyayatech/BareAct-Intelligence/internal/infrastructure/monitoring/logging"
)

type LedgerTestSuite struct {
	suite.Suite
	client *Client
	mock   redismock.ClientMock
	ledger statute.IngestLedger
}

func (s *LedgerTestSuite) SetupTest() {
	db, mock := redismock.NewClientMock()
	s.mock = mock

	s.client = &Client{
		rdb:    db,
		config: config.RedisConfig{},
		logger: logging.NewNopLogger(),
	}
	s.ledger = NewIngestLedger(s.client, "test:", logging.NewNopLogger())
}

func (s *LedgerTestSuite) TearDownTest() {
	assert.NoError(s.T(), s.mock.ExpectationsWereMet())
}

func (s *LedgerTestSuite) TestContentHash_Known() {
	s.mock.ExpectGet("test:statute:hash:statute_test_act_1947").SetVal("abcdef0123456789")

	hash, err := s.ledger.ContentHash(context.Background(), "statute_test_act_1947")
	s.NoError(err)
	s.Equal("abcdef0123456789", hash)
}

func (s *LedgerTestSuite) TestContentHash_NeverIngested() {
	s.mock.ExpectGet("test:statute:hash:statute_new_act_2020").RedisNil()

	hash, err := s.ledger.ContentHash(context.Background(), "statute_new_act_2020")
	s.NoError(err)
	s.Equal("", hash)
}

func (s *LedgerTestSuite) TestContentHash_StorageError() {
	s.mock.ExpectGet("test:statute:hash:statute_x_0").SetErr(errors.New("io timeout"))

	_, err := s.ledger.ContentHash(context.Background(), "statute_x_0")
	s.Error(err)
	s.Contains(err.Error(), "STAT_005")
}

func (s *LedgerTestSuite) TestSetContentHash() {
	s.mock.ExpectSet("test:statute:hash:statute_test_act_1947", "abcdef0123456789", 0).SetVal("OK")

	err := s.ledger.SetContentHash(context.Background(), "statute_test_act_1947", "abcdef0123456789")
	s.NoError(err)
}

func (s *LedgerTestSuite) TestSetContentHash_StorageError() {
	s.mock.ExpectSet("test:statute:hash:statute_x_0", "h", 0).SetErr(errors.New("readonly replica"))

	err := s.ledger.SetContentHash(context.Background(), "statute_x_0", "h")
	s.Error(err)
	s.Contains(err.Error(), "STAT_005")
}

func (s *LedgerTestSuite) TestRecordFailure() {
	s.mock.Regexp().ExpectHSet("test:statute:failures", "act.pdf", `.*parse failed.*`).SetVal(1)

	err := s.ledger.RecordFailure(context.Background(), "act.pdf", "parse failed")
	s.NoError(err)
}

func (s *LedgerTestSuite) TestRecordFailure_StorageError() {
	s.mock.Regexp().ExpectHSet("test:statute:failures", "act.pdf", ".*").SetErr(errors.New("oom"))

	err := s.ledger.RecordFailure(context.Background(), "act.pdf", "graph down")
	s.Error(err)
	s.Contains(err.Error(), "STAT_005")
}

func TestLedgerTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerTestSuite))
}

func TestNewIngestLedger_DefaultPrefix(t *testing.T) {
	db, mock := redismock.NewClientMock()
	client := &Client{rdb: db, config: config.RedisConfig{}, logger: logging.NewNopLogger()}
	ledger := NewIngestLedger(client, "", logging.NewNopLogger())

	mock.ExpectGet("bareact:statute:hash:statute_y_0").RedisNil()

	hash, err := ledger.ContentHash(context.Background(), "statute_y_0")
	assert.NoError(t, err)
	assert.Equal(t, "", hash)
	assert.NoError(t, mock.ExpectationsWereMet())
}
