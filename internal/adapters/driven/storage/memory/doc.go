// Package memory provides in-memory implementations of driven port interfaces.
// They back the service tests; nothing survives the process.
package memory
