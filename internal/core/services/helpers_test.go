package services

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ytengage/internal/core/domain"
)

const (
	testVideosCSV = `video_id,trending_date,title,category_id,views,likes,dislikes,comment_count
a1,17.14.11,First,1,100,10,2,3
a2,17.14.11,Second,1,200,12,1,2
b1,17.14.11,Third,10,300,80,5,15
c1,17.14.11,Orphan,99,50,1,1,1
`
	testCategoriesJSON = `{"items":[
{"id":"1","snippet":{"title":"Film & Animation"}},
{"id":"10","snippet":{"title":"Music"}}
]}`
)

// buildZip returns an in-memory zip archive holding files.
func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()

	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)
	for name, content := range files {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

// datasetZip returns an archive with both required members plus an unrelated one.
func datasetZip(t *testing.T) []byte {
	t.Helper()
	return buildZip(t, map[string]string{
		domain.DefaultVideosFile:     testVideosCSV,
		domain.DefaultCategoriesFile: testCategoriesJSON,
		"USvideos.csv":               "video_id\n",
	})
}

// testConfig returns a pipeline config rooted in a temp directory.
func testConfig(t *testing.T) domain.PipelineConfig {
	t.Helper()
	dir := t.TempDir()
	cfg := domain.DefaultPipelineConfig()
	cfg.Paths.RawDir = filepath.Join(dir, "raw")
	cfg.Paths.ProcessedDir = filepath.Join(dir, "processed")
	cfg.Paths.StateDir = filepath.Join(dir, "state")
	return cfg
}

// fakeProvider implements driven.DatasetProvider by writing fixed bytes.
type fakeProvider struct {
	payload     []byte
	authErr     error
	downloadErr error
	// skipWrite simulates a download that produced no file.
	skipWrite bool
	downloads int
}

func (f *fakeProvider) Authenticate(_ context.Context) error {
	return f.authErr
}

func (f *fakeProvider) DownloadBundle(_ context.Context, _, dataset, dir string) (string, error) {
	f.downloads++
	if f.downloadErr != nil {
		return "", f.downloadErr
	}
	if f.skipWrite {
		return "", nil
	}
	path := filepath.Join(dir, dataset+".zip")
	return path, os.WriteFile(path, f.payload, 0o644)
}

// recordingMetrics implements driven.MetricsRecorder and keeps every call.
type recordingMetrics struct {
	mu          sync.Mutex
	stages      map[string]int
	stageErrors map[string]int
	runs        []string
	archiveSize int64
	flushes     int
	flushErr    error
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{
		stages:      make(map[string]int),
		stageErrors: make(map[string]int),
	}
}

func (m *recordingMetrics) ObserveStage(stage string, _ time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stages[stage]++
	if err != nil {
		m.stageErrors[stage]++
	}
}

func (m *recordingMetrics) RecordArchiveSize(bytes int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.archiveSize = bytes
}

func (m *recordingMetrics) RecordRun(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, outcome)
}

func (m *recordingMetrics) Flush() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flushes++
	return m.flushErr
}

// writeFile creates path with content, making parent directories.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
