package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ytengage/internal/core/domain"
)

// mockPipeline implements driving.Pipeline for testing.
type mockPipeline struct {
	run     *domain.RunRecord
	err     error
	history []domain.RunRecord
	histErr error
	limit   int
}

func (m *mockPipeline) Run(_ context.Context, w io.Writer) (*domain.RunRecord, error) {
	if m.err != nil {
		return &domain.RunRecord{Outcome: domain.RunFailed, Message: m.err.Error()}, m.err
	}
	fmt.Fprintln(w, "CHART")
	return m.run, nil
}

func (m *mockPipeline) History(_ context.Context, limit int) ([]domain.RunRecord, error) {
	m.limit = limit
	return m.history, m.histErr
}

// mockAcquirer implements driving.Acquirer for testing.
type mockAcquirer struct {
	archive *domain.Archive
	err     error
}

func (m *mockAcquirer) Sync(_ context.Context) (*domain.Archive, error) {
	return m.archive, m.err
}

// mockTransformer implements driving.Transformer for testing.
type mockTransformer struct {
	table      domain.EngagementTable
	err        error
	loadErr    error
	transforms int
}

func (m *mockTransformer) Transform(_ context.Context) (domain.EngagementTable, error) {
	m.transforms++
	return m.table, m.err
}

func (m *mockTransformer) Load(_ context.Context) (domain.EngagementTable, error) {
	return m.table, m.loadErr
}

// mockPresenter implements driving.Presenter for testing.
type mockPresenter struct {
	rendered domain.EngagementTable
	calls    int
	err      error
}

func (m *mockPresenter) Render(w io.Writer, table domain.EngagementTable) error {
	m.calls++
	m.rendered = table
	if m.err != nil {
		return m.err
	}
	fmt.Fprintf(w, "rendered %d bars\n", len(table))
	return nil
}

// mockConfigService implements driving.ConfigService for testing.
type mockConfigService struct {
	cfg    domain.PipelineConfig
	err    error
	setErr error
	set    map[string]string
}

func (m *mockConfigService) Pipeline() (domain.PipelineConfig, error) {
	return m.cfg, m.err
}

func (m *mockConfigService) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	if m.set == nil {
		m.set = make(map[string]string)
	}
	m.set[key] = value
	return nil
}

// testServices returns a fully mocked service set.
func testServices() (*Services, *mockPipeline, *mockTransformer, *mockPresenter) {
	p := &mockPipeline{run: &domain.RunRecord{
		ID:         "run-1",
		StartedAt:  time.Now(),
		FinishedAt: time.Now(),
		Outcome:    domain.RunUpdated,
	}}
	tr := &mockTransformer{table: domain.EngagementTable{
		{CategoryName: "Music", EngagementScore: 100},
		{CategoryName: "Comedy", EngagementScore: 50},
	}}
	pr := &mockPresenter{}
	return &Services{
		Pipeline:    p,
		Acquirer:    &mockAcquirer{},
		Transformer: tr,
		Presenter:   pr,
		Config:      &mockConfigService{cfg: domain.DefaultPipelineConfig()},
	}, p, tr, pr
}

// setupServices installs s and restores the previous wiring on cleanup.
func setupServices(s *Services) func() {
	oldPipeline, oldAcquirer := pipeline, acquirer
	oldTransformer, oldPresenter := transformer, presenter
	oldConfig, oldBootstrap := configService, bootstrap
	oldClose := closeServices

	bootstrap = nil
	SetServices(s)

	return func() {
		pipeline, acquirer = oldPipeline, oldAcquirer
		transformer, presenter = oldTransformer, oldPresenter
		configService, bootstrap = oldConfig, oldBootstrap
		closeServices = oldClose
		historyLimit = defaultHistoryLimit
	}
}

// captureRebuild runs rebuild against buffers and returns stdout and stderr.
func captureRebuild(t *testing.T) (string, string) {
	t.Helper()

	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	cmd := &cobra.Command{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetContext(context.Background())

	rebuild(cmd)
	return stdout.String(), stderr.String()
}
