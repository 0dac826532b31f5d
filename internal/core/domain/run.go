package domain

import "time"

// RunOutcome describes how a pipeline run ended.
type RunOutcome string

// Run outcomes.
const (
	// RunUnchanged means the archive hash matched and nothing was re-extracted.
	RunUnchanged RunOutcome = "unchanged"

	// RunUpdated means new data was extracted and transformed.
	RunUpdated RunOutcome = "updated"

	// RunFailed means a stage returned an error.
	RunFailed RunOutcome = "failed"
)

// IsValid returns true if the outcome is recognised.
func (o RunOutcome) IsValid() bool {
	switch o {
	case RunUnchanged, RunUpdated, RunFailed:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (o RunOutcome) String() string {
	return string(o)
}

// RunRecord is one recorded pipeline run.
type RunRecord struct {
	// ID is the unique identifier (UUID).
	ID string

	StartedAt  time.Time
	FinishedAt time.Time

	// ArchiveHash is the content hash seen during the run, if any.
	ArchiveHash string

	Outcome RunOutcome

	// Message holds the error text for failed runs.
	Message string
}

// Duration returns how long the run took.
func (r RunRecord) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
