// Package domain defines the core entities for ytengage.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Archive: A downloaded dataset bundle and its content hash
//   - Video: One row of the trending-videos table plus derived metrics
//   - CategoryLookup: Category id to display name mapping
//   - EngagementTable: Per-category mean engagement, sorted descending
//   - RunRecord: One recorded pipeline run
//   - PipelineConfig: Paths, file names and dataset reference
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
