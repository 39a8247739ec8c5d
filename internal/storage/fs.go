package storage

import (
	"fmt"
	"io/fs"
	"os"
)

// OS implements Provider backed by the local file system.
type OS struct{}

// NewOS returns a Provider reading directly from the local file system.
func NewOS() OS { return OS{} }

// Stat returns metadata for the file at path.
func (OS) Stat(path string) (fs.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("storage: stat %s: %w", path, err)
	}
	return info, nil
}

// Read returns the raw bytes of the file at path.
func (OS) Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", path, err)
	}
	return data, nil
}
