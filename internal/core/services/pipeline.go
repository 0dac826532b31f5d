package services

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/ytengage/internal/core/domain"
	"github.com/custodia-labs/ytengage/internal/core/ports/driven"
	"github.com/custodia-labs/ytengage/internal/core/ports/driving"
	"github.com/custodia-labs/ytengage/internal/logger"
)

// Ensure PipelineService implements the interface.
var _ driving.Pipeline = (*PipelineService)(nil)

// PipelineService runs acquisition, transform and presentation in order.
type PipelineService struct {
	acquirer    driving.Acquirer
	transformer driving.Transformer
	presenter   driving.Presenter
	runs        driven.RunStore
	metrics     driven.MetricsRecorder
}

// NewPipelineService creates a new pipeline service.
// runs and metrics are optional - if nil, history and metrics are disabled.
func NewPipelineService(
	acquirer driving.Acquirer,
	transformer driving.Transformer,
	presenter driving.Presenter,
	runs driven.RunStore,
	metrics driven.MetricsRecorder,
) *PipelineService {
	if metrics == nil {
		metrics = driven.NopMetrics{}
	}
	return &PipelineService{
		acquirer:    acquirer,
		transformer: transformer,
		presenter:   presenter,
		runs:        runs,
		metrics:     metrics,
	}
}

// Run executes every stage. The run is recorded whatever the outcome; the
// returned error is the first stage failure.
func (p *PipelineService) Run(ctx context.Context, w io.Writer) (*domain.RunRecord, error) {
	run := &domain.RunRecord{
		ID:        uuid.New().String(),
		StartedAt: time.Now(),
	}

	err := p.run(ctx, w, run)

	run.FinishedAt = time.Now()
	if err != nil {
		run.Outcome = domain.RunFailed
		run.Message = err.Error()
	}
	p.finish(ctx, run)

	return run, err
}

func (p *PipelineService) run(ctx context.Context, w io.Writer, run *domain.RunRecord) error {
	logger.Section("Acquisition")
	archive, err := p.acquirer.Sync(ctx)
	if err != nil {
		return err
	}

	// The table is always rebuilt from the extracted files. A persisted
	// table may predate them when an earlier transform failed.
	logger.Section("Transform")
	if archive == nil {
		run.Outcome = domain.RunUnchanged
	} else {
		run.Outcome = domain.RunUpdated
		run.ArchiveHash = archive.Hash
	}
	table, err := p.transformer.Transform(ctx)
	if err != nil {
		return err
	}

	logger.Section("Presentation")
	start := time.Now()
	err = p.presenter.Render(w, table)
	p.metrics.ObserveStage("render", time.Since(start), err)
	return err
}

func (p *PipelineService) finish(ctx context.Context, run *domain.RunRecord) {
	p.metrics.RecordRun(run.Outcome.String())
	if err := p.metrics.Flush(); err != nil {
		logger.Warn("Failed to write metrics: %v", err)
	}

	if p.runs == nil {
		return
	}
	if err := p.runs.Save(ctx, *run); err != nil {
		logger.Warn("Failed to record run %s: %v", run.ID, err)
	}
}

// History lists the most recent runs, newest first.
func (p *PipelineService) History(ctx context.Context, limit int) ([]domain.RunRecord, error) {
	if p.runs == nil {
		return nil, errors.New("run history not configured")
	}
	return p.runs.List(ctx, limit)
}
