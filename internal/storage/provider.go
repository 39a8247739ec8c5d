// Package storage defines the read-only filesystem abstraction the indexing
// pipeline goes through, so tests can substitute a fake.
package storage

import "io/fs"

// Provider is the interface for file access during indexing.
// All paths are absolute.
type Provider interface {
	// Stat returns metadata for the file at path.
	Stat(path string) (fs.FileInfo, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
}
