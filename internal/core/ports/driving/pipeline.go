package driving

import (
	"context"
	"io"

	"github.com/custodia-labs/ytengage/internal/core/domain"
)

// Acquirer obtains the dataset and extracts the files the pipeline needs.
type Acquirer interface {
	// Sync downloads the archive and, when its content changed, extracts the
	// required members and records the new hash.
	// Returns the archive (nil when unchanged).
	Sync(ctx context.Context) (*domain.Archive, error)
}

// Transformer turns the extracted files into the engagement table.
type Transformer interface {
	// Transform builds, persists and returns the engagement table.
	Transform(ctx context.Context) (domain.EngagementTable, error)

	// Load reads a previously persisted engagement table.
	Load(ctx context.Context) (domain.EngagementTable, error)
}

// Presenter renders the engagement table.
type Presenter interface {
	Render(w io.Writer, table domain.EngagementTable) error
}

// Pipeline runs every stage in order.
type Pipeline interface {
	// Run executes acquisition, transform and presentation, writing the
	// chart to w. The returned record is stored in run history when a
	// RunStore is configured.
	Run(ctx context.Context, w io.Writer) (*domain.RunRecord, error)

	// History lists the most recent runs, newest first.
	History(ctx context.Context, limit int) ([]domain.RunRecord, error)
}

// ConfigService resolves the pipeline configuration.
type ConfigService interface {
	// Pipeline returns defaults overlaid with stored configuration.
	Pipeline() (domain.PipelineConfig, error)

	// Set stores a single configuration value by key.
	Set(key, value string) error
}
