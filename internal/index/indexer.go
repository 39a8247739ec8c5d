package index

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"

	"github.com/EdwardDiehl/file-indexer/internal/storage"
	"github.com/EdwardDiehl/file-indexer/internal/tokenizer"
)

// Indexer runs the per-file pipeline: read, tokenize, upsert.
type Indexer struct {
	store  *Store
	tok    tokenizer.Tokenizer
	filter Filter
	files  storage.Provider
	logger *slog.Logger
}

// NewIndexer creates an Indexer writing into store.
func NewIndexer(store *Store, tok tokenizer.Tokenizer, filter Filter, files storage.Provider, logger *slog.Logger) *Indexer {
	return &Indexer{
		store:  store,
		tok:    tok,
		filter: filter,
		files:  files,
		logger: logger,
	}
}

// Store returns the store the indexer writes into.
func (ix *Indexer) Store() *Store { return ix.store }

// IndexFile indexes the regular file at the absolute path. Paths rejected by
// the filter, paths that are not regular files, and per-file I/O faults are
// skipped without touching the index; IndexFile never fails the surrounding
// batch. A file whose contents are unchanged since the last indexing is left
// alone.
func (ix *Indexer) IndexFile(path string) {
	if !ix.filter(path) {
		return
	}

	info, err := ix.files.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return
	}

	data, err := ix.files.Read(path)
	if err != nil {
		ix.logger.Warn("index: read failed", slog.String("path", path), slog.String("error", err.Error()))
		return
	}

	cs := sha256sum(data)
	if prev, ok := ix.store.Lookup(path); ok && prev.Checksum == cs {
		return
	}

	ix.store.Upsert(Record{
		Path:     path,
		ModTime:  info.ModTime().UnixMilli(),
		Checksum: cs,
		Tokens:   ix.tok.Tokenize(string(data)),
	})
	ix.logger.Debug("index: upserted", slog.String("path", path))
}

func sha256sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
