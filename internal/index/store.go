// Package index implements the in-memory inverted index and the pipeline
// that keeps it consistent with the file system: per-file indexing, initial
// scanning, and fsnotify-driven updates.
package index

import "sync"

// Store is the inverted index: a forward map from path to Record and an
// inverted map from token to posting set. A single reader/writer lock guards
// both maps, so readers never observe a half-applied update — an upsert's
// stale-posting removal and new-posting insertion commit as one unit.
type Store struct {
	mu       sync.RWMutex
	forward  map[string]Record
	inverted map[string]map[string]struct{}
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		forward:  make(map[string]Record),
		inverted: make(map[string]map[string]struct{}),
	}
}

// Upsert inserts or replaces the record for rec.Path. Postings left by any
// prior record for the same path are removed, and posting sets that become
// empty are erased.
func (s *Store) Upsert(rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.forward[rec.Path]; ok {
		for tok := range prev.Tokens {
			s.dropPosting(tok, rec.Path)
		}
	}

	s.forward[rec.Path] = rec
	for tok := range rec.Tokens {
		set, ok := s.inverted[tok]
		if !ok {
			set = make(map[string]struct{})
			s.inverted[tok] = set
		}
		set[rec.Path] = struct{}{}
	}
}

// Remove deletes the record for path and withdraws it from every posting
// set. Removing an absent path is a no-op.
func (s *Store) Remove(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.forward[path]
	if !ok {
		return
	}
	delete(s.forward, path)
	for tok := range rec.Tokens {
		s.dropPosting(tok, path)
	}
}

// dropPosting removes path from the posting set of tok, erasing the token
// entry when the set becomes empty. Caller holds the write lock.
func (s *Store) dropPosting(tok, path string) {
	set, ok := s.inverted[tok]
	if !ok {
		return
	}
	delete(set, path)
	if len(set) == 0 {
		delete(s.inverted, tok)
	}
}

// Postings returns the paths whose token set contains tok. The returned
// slice is a copy; its order is unspecified.
func (s *Store) Postings(tok string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set, ok := s.inverted[tok]
	if !ok {
		return nil
	}
	paths := make([]string, 0, len(set))
	for p := range set {
		paths = append(paths, p)
	}
	return paths
}

// Lookup returns the record for path. The record's token set is copied so
// callers cannot mutate shared state.
func (s *Store) Lookup(path string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.forward[path]
	if !ok {
		return Record{}, false
	}
	tokens := make(map[string]struct{}, len(rec.Tokens))
	for tok := range rec.Tokens {
		tokens[tok] = struct{}{}
	}
	rec.Tokens = tokens
	return rec, true
}

// Len returns the number of indexed files.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.forward)
}

// TokenCount returns the number of distinct tokens currently indexed.
func (s *Store) TokenCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.inverted)
}

// Clear drops every record and posting.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forward = make(map[string]Record)
	s.inverted = make(map[string]map[string]struct{})
}
