// Package file provides the TOML configuration store.
//
// The file lives at ~/.ytengage/config.toml unless --config names another
// path. Keys are addressed in dot notation matching the file's tables:
//
//	[paths]
//	raw_dir = "data/raw"
//
//	[chart]
//	top_n = 10
package file
