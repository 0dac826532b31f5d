// Package services implements the driving port interfaces.
// Services contain the pipeline logic and orchestrate
// calls to driven ports (adapters).
//
// Services are pure Go with no CGO. They never touch the network or
// terminal directly; adapters do.
package services
