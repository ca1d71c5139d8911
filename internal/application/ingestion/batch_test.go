package ingestion

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyayatech/BareAct-Intelligence/internal/config"
	"github.com/nyayatech/BareAct-Intelligence/internal/domain/statute"
	"github.com/nyayatech/BareAct-Intelligence/internal/infrastructure/acquisition"
	"github.com/nyayatech/BareAct-Intelligence/pkg/errors"
)

func writeBatchFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestIngestDirectory_MixedOutcomes(t *testing.T) {
	dir := t.TempDir()
	writeBatchFile(t, dir, "a.txt", "first act")
	writeBatchFile(t, dir, "b.txt", "index only")
	writeBatchFile(t, dir, "c.txt", "unreadable")

	f := newFixture(config.IngestConfig{Workers: 1})
	f.parser.parseFunc = func(text, sourceFile string) (*statute.Act, error) {
		if filepath.Base(sourceFile) == "b.txt" {
			return nil, errors.New(errors.ErrCodeParseNoSections, "no sections recovered")
		}
		return newSampleAct(sourceFile), nil
	}
	f.acquirer.extractFunc = func(ctx context.Context, path string) (*acquisition.Result, error) {
		if filepath.Base(path) == "c.txt" {
			return nil, errors.New(errors.ErrCodeAcquisitionFailed, "garbled input")
		}
		return &acquisition.Result{Text: "text", Method: acquisition.MethodPlainText}, nil
	}

	res, err := f.svc.IngestDirectory(context.Background(), dir)

	require.NoError(t, err)
	assert.Equal(t, 3, res.Scanned)
	assert.Equal(t, 1, res.Ingested)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 1, res.Failed())
	require.Len(t, res.Failures, 1)
	assert.Contains(t, res.Failures[0].SourceFile, "c.txt")
	assert.Contains(t, res.Failures[0].Reason, "garbled input")
	assert.Len(t, res.Documents, 2)
}

func TestIngestDirectory_EmptyDirectory(t *testing.T) {
	f := newFixture(config.IngestConfig{})

	res, err := f.svc.IngestDirectory(context.Background(), t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, 0, res.Scanned)
	assert.Equal(t, 0, f.graph.ensured)
}

func TestIngestDirectory_MissingDirectory(t *testing.T) {
	f := newFixture(config.IngestConfig{})

	_, err := f.svc.IngestDirectory(context.Background(), "/does/not/exist")

	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestIngestDirectory_EnsuresCollectionOnce(t *testing.T) {
	dir := t.TempDir()
	writeBatchFile(t, dir, "a.txt", "body")
	writeBatchFile(t, dir, "b.txt", "body")
	f := newFixture(config.IngestConfig{Workers: 2})

	_, err := f.svc.IngestDirectory(context.Background(), dir)

	require.NoError(t, err)
	assert.Equal(t, 1, f.graph.ensured)
}

func TestIngestDirectory_RespectsWorkerLimit(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.txt", "b.txt", "c.txt", "d.txt", "e.txt", "f.txt"} {
		writeBatchFile(t, dir, name, "body")
	}

	f := newFixture(config.IngestConfig{Workers: 2})
	var mu sync.Mutex
	active, maxActive := 0, 0
	f.acquirer.extractFunc = func(ctx context.Context, path string) (*acquisition.Result, error) {
		mu.Lock()
		active++
		if active > maxActive {
			maxActive = active
		}
		mu.Unlock()
		time.Sleep(10 * time.Millisecond)
		mu.Lock()
		active--
		mu.Unlock()
		return &acquisition.Result{Text: "text", Method: acquisition.MethodPlainText}, nil
	}

	res, err := f.svc.IngestDirectory(context.Background(), dir)

	require.NoError(t, err)
	assert.Equal(t, 6, res.Ingested)
	assert.LessOrEqual(t, maxActive, 2)
}

func TestIngestDirectory_SkipsNonSourceAndHiddenFiles(t *testing.T) {
	dir := t.TempDir()
	writeBatchFile(t, dir, "a.txt", "body")
	writeBatchFile(t, dir, "b.pdf", "%PDF-1.4")
	writeBatchFile(t, dir, "nested/c.text", "body")
	writeBatchFile(t, dir, "notes.json", "{}")
	writeBatchFile(t, dir, ".partial.txt", "body")
	writeBatchFile(t, dir, ".stash/d.txt", "body")

	f := newFixture(config.IngestConfig{Workers: 1})

	res, err := f.svc.IngestDirectory(context.Background(), dir)

	require.NoError(t, err)
	assert.Equal(t, 3, res.Scanned)
	for _, doc := range res.Documents {
		base := filepath.Base(doc.SourceFile)
		assert.False(t, strings.HasPrefix(base, "."), "hidden file ingested: %s", base)
	}
}

func TestIsSourceDocument(t *testing.T) {
	cases := []struct {
		path string
		want bool
	}{
		{"acts/factories.pdf", true},
		{"acts/FACTORIES.PDF", true},
		{"acts/factories.txt", true},
		{"acts/factories.text", true},
		{"acts/factories.json", false},
		{"acts/factories", false},
		{"acts/.factories.txt", false},
		{"acts/factories.pdf.tmp", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, isSourceDocument(tc.path), tc.path)
	}
}
