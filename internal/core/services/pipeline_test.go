package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ytengage/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/ytengage/internal/core/domain"
)

type stubAcquirer struct {
	archive *domain.Archive
	err     error
}

func (a *stubAcquirer) Sync(_ context.Context) (*domain.Archive, error) {
	return a.archive, a.err
}

type stubTransformer struct {
	table        domain.EngagementTable
	transformErr error
	loadErr      error
	transforms   int
	loads        int
}

func (s *stubTransformer) Transform(_ context.Context) (domain.EngagementTable, error) {
	s.transforms++
	return s.table, s.transformErr
}

func (s *stubTransformer) Load(_ context.Context) (domain.EngagementTable, error) {
	s.loads++
	return s.table, s.loadErr
}

type stubPresenter struct {
	rendered domain.EngagementTable
	calls    int
	err      error
}

func (p *stubPresenter) Render(_ io.Writer, table domain.EngagementTable) error {
	p.calls++
	p.rendered = table
	return p.err
}

var pipelineTable = domain.EngagementTable{{CategoryName: "Music", EngagementScore: 100}}

func TestPipelineService_Run_Updated(t *testing.T) {
	transformer := &stubTransformer{table: pipelineTable}
	presenter := &stubPresenter{}
	runs := memory.NewRunStore()
	metrics := newRecordingMetrics()
	p := NewPipelineService(&stubAcquirer{archive: &domain.Archive{Hash: "abc"}}, transformer, presenter, runs, metrics)

	run, err := p.Run(context.Background(), new(bytes.Buffer))

	require.NoError(t, err)
	assert.Equal(t, domain.RunUpdated, run.Outcome)
	assert.Equal(t, "abc", run.ArchiveHash)
	assert.NotEmpty(t, run.ID)
	assert.False(t, run.FinishedAt.Before(run.StartedAt))
	assert.Equal(t, 1, transformer.transforms)
	assert.Zero(t, transformer.loads)
	assert.Equal(t, pipelineTable, presenter.rendered)

	stored, err := runs.Get(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RunUpdated, stored.Outcome)
	assert.Equal(t, []string{"updated"}, metrics.runs)
	assert.Equal(t, 1, metrics.flushes)
	assert.Equal(t, 1, metrics.stages["render"])
}

func TestPipelineService_Run_UnchangedRebuildsTable(t *testing.T) {
	transformer := &stubTransformer{table: pipelineTable}
	presenter := &stubPresenter{}
	p := NewPipelineService(&stubAcquirer{}, transformer, presenter, nil, nil)

	run, err := p.Run(context.Background(), io.Discard)

	require.NoError(t, err)
	assert.Equal(t, domain.RunUnchanged, run.Outcome)
	assert.Empty(t, run.ArchiveHash)
	assert.Equal(t, 1, transformer.transforms)
	assert.Zero(t, transformer.loads, "persisted table is never reused")
	assert.Equal(t, pipelineTable, presenter.rendered)
}

func TestPipelineService_Run_UnchangedAfterFailedTransform(t *testing.T) {
	cfg := testConfig(t)
	provider := &fakeProvider{payload: datasetZip(t)}
	acquirer := NewAcquisitionService(cfg, provider, memory.NewHashStore(), nil)
	presenter := &stubPresenter{}
	p := NewPipelineService(acquirer, NewTransformService(cfg, nil), presenter, memory.NewRunStore(), nil)

	run, err := p.Run(context.Background(), io.Discard)
	require.NoError(t, err)
	require.Equal(t, domain.RunUpdated, run.Outcome)

	provider.payload = buildZip(t, map[string]string{
		domain.DefaultVideosFile: "video_id,category_id,likes,dislikes,comment_count\n" +
			"z1,10,NOTANUMBER,1,1\n",
		domain.DefaultCategoriesFile: testCategoriesJSON,
	})

	run, err = p.Run(context.Background(), io.Discard)
	require.ErrorIs(t, err, domain.ErrTransform)
	assert.Equal(t, domain.RunFailed, run.Outcome)

	run, err = p.Run(context.Background(), io.Discard)

	require.ErrorIs(t, err, domain.ErrTransform, "same archive must not render the old table")
	assert.Equal(t, domain.RunFailed, run.Outcome)
	assert.Equal(t, 1, presenter.calls)
	assert.Equal(t, 3, provider.downloads)
}

func TestPipelineService_Run_Failures(t *testing.T) {
	acquireErr := fmt.Errorf("%w: authenticate: denied", domain.ErrAcquisition)
	transformErr := fmt.Errorf("%w: bad csv", domain.ErrTransform)
	renderErr := errors.New("terminal gone")

	tests := []struct {
		name        string
		acquirer    *stubAcquirer
		transformer *stubTransformer
		presenter   *stubPresenter
		expected    error
		rendered    int
	}{
		{
			name:        "acquisition",
			acquirer:    &stubAcquirer{err: acquireErr},
			transformer: &stubTransformer{},
			presenter:   &stubPresenter{},
			expected:    domain.ErrAcquisition,
		},
		{
			name:        "transform",
			acquirer:    &stubAcquirer{archive: &domain.Archive{Hash: "h"}},
			transformer: &stubTransformer{transformErr: transformErr},
			presenter:   &stubPresenter{},
			expected:    domain.ErrTransform,
		},
		{
			name:        "render",
			acquirer:    &stubAcquirer{archive: &domain.Archive{Hash: "h"}},
			transformer: &stubTransformer{table: pipelineTable},
			presenter:   &stubPresenter{err: renderErr},
			expected:    renderErr,
			rendered:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runs := memory.NewRunStore()
			metrics := newRecordingMetrics()
			p := NewPipelineService(tt.acquirer, tt.transformer, tt.presenter, runs, metrics)

			run, err := p.Run(context.Background(), io.Discard)

			require.ErrorIs(t, err, tt.expected)
			require.NotNil(t, run)
			assert.Equal(t, domain.RunFailed, run.Outcome)
			assert.Equal(t, err.Error(), run.Message)
			assert.Equal(t, tt.rendered, tt.presenter.calls)
			assert.Equal(t, []string{"failed"}, metrics.runs)

			history, err := p.History(context.Background(), 10)
			require.NoError(t, err)
			require.Len(t, history, 1)
			assert.Equal(t, domain.RunFailed, history[0].Outcome)
		})
	}
}

func TestPipelineService_Run_FlushFailureIgnored(t *testing.T) {
	metrics := newRecordingMetrics()
	metrics.flushErr = errors.New("read-only filesystem")
	p := NewPipelineService(&stubAcquirer{}, &stubTransformer{table: pipelineTable}, &stubPresenter{}, nil, metrics)

	_, err := p.Run(context.Background(), io.Discard)

	assert.NoError(t, err)
	assert.Equal(t, 1, metrics.flushes)
}

func TestPipelineService_History(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		p := NewPipelineService(&stubAcquirer{}, &stubTransformer{}, &stubPresenter{}, nil, nil)
		_, err := p.History(context.Background(), 10)
		assert.EqualError(t, err, "run history not configured")
	})

	t.Run("newest first with limit", func(t *testing.T) {
		runs := memory.NewRunStore()
		base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
		for i, id := range []string{"old", "mid", "new"} {
			require.NoError(t, runs.Save(context.Background(), domain.RunRecord{
				ID:        id,
				StartedAt: base.Add(time.Duration(i) * time.Hour),
				Outcome:   domain.RunUnchanged,
			}))
		}
		p := NewPipelineService(&stubAcquirer{}, &stubTransformer{}, &stubPresenter{}, runs, nil)

		history, err := p.History(context.Background(), 2)

		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, "new", history[0].ID)
		assert.Equal(t, "mid", history[1].ID)
	})
}
