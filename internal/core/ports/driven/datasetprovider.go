package driven

import "context"

// DatasetProvider is the remote host the dataset bundle is fetched from.
// Protocol details stay inside the adapter; the core only cares whether a
// call succeeded and whether an archive appeared on disk.
type DatasetProvider interface {
	// Authenticate verifies the configured credentials.
	// Returns domain.ErrAuthRequired when none are configured and
	// domain.ErrAuthInvalid when the provider rejects them.
	Authenticate(ctx context.Context) error

	// DownloadBundle writes the dataset archive into dir.
	// Returns the path of the written file.
	DownloadBundle(ctx context.Context, owner, dataset, dir string) (string, error)
}
