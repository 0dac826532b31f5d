// Package sqlite provides a SQLite-based implementation of the run history store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO.
//
// # Schema
//
// The schema is managed through versioned migrations in the migrations/ directory.
// Each migration is a pair of .up.sql and .down.sql files; applied versions are
// recorded in schema_migrations.
//
// # Data Location
//
// The database is stored at <state_dir>/runs.db.
package sqlite
