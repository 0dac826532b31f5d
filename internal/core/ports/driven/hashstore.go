package driven

// HashStore persists the last-seen archive content hash.
type HashStore interface {
	// Get returns the stored hash.
	// Returns domain.ErrNotFound when no hash has been recorded yet.
	Get() (string, error)

	// Save overwrites the stored hash.
	Save(hash string) error
}
