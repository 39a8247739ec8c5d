// Package engine ties the index store, scanner, watcher, and event bus into
// the embeddable search API.
package engine

import (
	"context"
	"log/slog"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/EdwardDiehl/file-indexer/internal/apperr"
	"github.com/EdwardDiehl/file-indexer/internal/bus"
	"github.com/EdwardDiehl/file-indexer/internal/event"
	"github.com/EdwardDiehl/file-indexer/internal/index"
	"github.com/EdwardDiehl/file-indexer/internal/storage"
	"github.com/EdwardDiehl/file-indexer/internal/tokenizer"
)

// SearchResult is one file matching a query, with the distinct normalized
// query terms it matched.
type SearchResult struct {
	File    string   `json:"file"`
	Matches []string `json:"matches"`
}

// FileRecord is the externally visible form of an indexed file.
type FileRecord struct {
	File    string   `json:"file"`
	ModTime int64    `json:"mod_time"`
	Tokens  []string `json:"tokens"`
}

type state int

const (
	stateNew state = iota
	stateRunning
	stateStopped
	stateClosed
)

// cacheSize bounds the per-term postings cache.
const cacheSize = 512

// Engine is an in-memory text-search engine that keeps its index consistent
// with the file system by reacting to change notifications.
//
// Lifecycle: New → Running (Start) → Stopped (Stop) → Closed (Close).
// Start is valid only once; Stop and Close are idempotent. Close clears the
// index and cancels every subscription; searches after Close return nothing.
type Engine struct {
	roots   []string
	tok     tokenizer.Tokenizer
	store   *index.Store
	indexer *index.Indexer
	bus     *bus.Bus
	cache   *lru.Cache[string, []string]
	gen     atomic.Uint64
	logger  *slog.Logger

	mu        sync.Mutex
	st        state
	cancel    context.CancelFunc
	watchDone chan struct{}
}

// New builds an Engine from the given options. Roots are made absolute once
// here; scanned and published paths derive from these resolved roots.
func New(opts ...Option) (*Engine, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, err
		}
	}

	roots := make([]string, 0, len(o.roots))
	for _, r := range o.roots {
		abs, err := filepath.Abs(r)
		if err != nil {
			abs = r
		}
		roots = append(roots, abs)
	}

	cache, err := lru.New[string, []string](cacheSize)
	if err != nil {
		return nil, err
	}

	store := index.NewStore()
	e := &Engine{
		roots:   roots,
		tok:     o.tok,
		store:   store,
		indexer: index.NewIndexer(store, o.tok, o.filter, storage.NewOS(), o.logger),
		bus:     bus.New(),
		cache:   cache,
		logger:  o.logger,
	}
	return e, nil
}

// Start scans the roots to completion and then launches the watcher task.
// It is valid only on a new engine.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	if e.st != stateNew {
		st := e.st
		e.mu.Unlock()
		if st == stateClosed {
			return apperr.ErrClosed
		}
		return apperr.ErrAlreadyStarted
	}
	e.st = stateRunning
	wctx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	done := make(chan struct{})
	e.watchDone = done
	e.mu.Unlock()

	e.indexer.Scan(e.roots)
	e.logger.Info("engine: scan complete", slog.Int("files", e.store.Len()))

	go func() {
		defer close(done)
		if err := index.Watch(wctx, e.indexer, e.roots, e.logger, e.publish); err != nil {
			e.logger.Error("engine: watch failed", slog.String("error", err.Error()))
		}
	}()
	return nil
}

// publish is the watcher callback: the index side-effect is already applied,
// so invalidate cached query results and broadcast the event.
func (e *Engine) publish(ev event.FileEvent) {
	e.gen.Add(1)
	e.cache.Purge()
	e.bus.Publish(ev)
}

// Stop cancels the watcher task and waits for it to exit. The index stays
// intact. Stop is idempotent.
func (e *Engine) Stop() {
	e.mu.Lock()
	if e.st != stateRunning {
		e.mu.Unlock()
		return
	}
	e.st = stateStopped
	cancel := e.cancel
	done := e.watchDone
	e.mu.Unlock()

	cancel()
	<-done
	e.logger.Info("engine: stopped")
}

// Close stops the engine, cancels every subscription, and clears the index.
func (e *Engine) Close() {
	e.Stop()

	e.mu.Lock()
	if e.st == stateClosed {
		e.mu.Unlock()
		return
	}
	e.st = stateClosed
	e.mu.Unlock()

	e.bus.Close()
	e.cache.Purge()
	e.store.Clear()
	e.logger.Info("engine: closed")
}

// Search returns every indexed file containing the normalized term, one
// result per file with that single term as its match. Order is unspecified.
func (e *Engine) Search(term string) []SearchResult {
	tok := e.tok.Normalize(term)
	if tok == "" {
		return nil
	}
	paths := e.postings(tok)
	results := make([]SearchResult, 0, len(paths))
	for _, p := range paths {
		results = append(results, SearchResult{File: p, Matches: []string{tok}})
	}
	return results
}

// SearchAll runs a multi-term query. Terms are normalized and deduplicated;
// each file appears once with the set of query terms it matched, sorted by
// match count descending, ties by path ascending.
func (e *Engine) SearchAll(terms []string) []SearchResult {
	set := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		if tok := e.tok.Normalize(t); tok != "" {
			set[tok] = struct{}{}
		}
	}
	if len(set) == 0 {
		return nil
	}

	toks := make([]string, 0, len(set))
	for tok := range set {
		toks = append(toks, tok)
	}
	sort.Strings(toks)

	matched := make(map[string][]string)
	for _, tok := range toks {
		for _, p := range e.postings(tok) {
			matched[p] = append(matched[p], tok)
		}
	}

	results := make([]SearchResult, 0, len(matched))
	for p, m := range matched {
		results = append(results, SearchResult{File: p, Matches: m})
	}
	sort.Slice(results, func(i, j int) bool {
		if len(results[i].Matches) != len(results[j].Matches) {
			return len(results[i].Matches) > len(results[j].Matches)
		}
		return results[i].File < results[j].File
	})
	return results
}

// Lookup returns the indexed record for an absolute path.
func (e *Engine) Lookup(path string) (FileRecord, bool) {
	rec, ok := e.store.Lookup(path)
	if !ok {
		return FileRecord{}, false
	}
	tokens := make([]string, 0, len(rec.Tokens))
	for tok := range rec.Tokens {
		tokens = append(tokens, tok)
	}
	sort.Strings(tokens)
	return FileRecord{File: rec.Path, ModTime: rec.ModTime, Tokens: tokens}, true
}

// IndexedFiles returns the number of files currently indexed.
func (e *Engine) IndexedFiles() int { return e.store.Len() }

// postings returns the sorted posting list for a normalized token, served
// from the cache when possible. Cache keys carry the event generation, so
// an entry written by a read that raced an index update is never served
// after that update's invalidation.
func (e *Engine) postings(tok string) []string {
	key := strconv.FormatUint(e.gen.Load(), 10) + ":" + tok
	if cached, ok := e.cache.Get(key); ok {
		return cached
	}
	paths := e.store.Postings(tok)
	sort.Strings(paths)
	e.cache.Add(key, paths)
	return paths
}
