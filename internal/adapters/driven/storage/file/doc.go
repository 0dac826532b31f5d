// Package file provides plain-file implementations of driven storage ports.
package file
