package index

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// Scan walks the configured roots once and indexes every eligible regular
// file. File roots are indexed directly; directory roots are walked
// recursively. Roots that do not exist or cannot be read are skipped.
func (ix *Indexer) Scan(roots []string) {
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			ix.logger.Debug("scan: skip root", slog.String("root", root), slog.String("error", err.Error()))
			continue
		}

		if !info.IsDir() {
			ix.IndexFile(root)
			continue
		}

		_ = filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil || d.IsDir() {
				return nil
			}
			ix.IndexFile(p)
			return nil
		})
		ix.logger.Debug("scan: root complete", slog.String("root", root))
	}
}
