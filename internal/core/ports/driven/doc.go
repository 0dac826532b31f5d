// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - DatasetProvider: Authenticates and downloads the dataset bundle
//   - HashStore: Last-seen archive hash persistence
//   - ConfigStore: Application configuration
//   - ChartRenderer: Draws the engagement chart
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - RunStore: Pipeline run history. Without it, runs are not recorded.
//   - MetricsRecorder: Stage timings and outcomes. Defaults to NopMetrics.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
