package driven

import (
	"context"

	"github.com/custodia-labs/ytengage/internal/core/domain"
)

// RunStore persists pipeline run history.
type RunStore interface {
	// Save stores or updates a run record.
	Save(ctx context.Context, run domain.RunRecord) error

	// Get retrieves a run by ID.
	Get(ctx context.Context, id string) (*domain.RunRecord, error)

	// List returns the most recent runs, newest first.
	// A non-positive limit returns all runs.
	List(ctx context.Context, limit int) ([]domain.RunRecord, error)
}
