package engine

import (
	"context"

	"github.com/EdwardDiehl/file-indexer/internal/event"
)

// WatchChanges streams every file event published after the call. The
// returned channel closes when ctx is cancelled or the engine closes.
func (e *Engine) WatchChanges(ctx context.Context) <-chan event.FileEvent {
	sub := e.bus.Subscribe()
	out := make(chan event.FileEvent)

	go func() {
		defer close(out)
		defer sub.Cancel()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub.C():
				if !ok {
					return
				}
				if !sendEvent(ctx, out, ev) {
					return
				}
			}
		}
	}()
	return out
}

// WatchWord emits the current matches for term, then one result for every
// subsequent create or modify whose indexed token set contains the
// normalized term. Deletes emit nothing. The channel closes when ctx is
// cancelled or the engine closes.
func (e *Engine) WatchWord(ctx context.Context, term string) <-chan SearchResult {
	tok := e.tok.Normalize(term)
	// Attach before the snapshot so no event between snapshot and attach is
	// lost; an event landing in that window may surface twice, which the
	// at-least-once contract permits.
	sub := e.bus.Subscribe()
	out := make(chan SearchResult)

	go func() {
		defer close(out)
		defer sub.Cancel()

		for _, r := range e.Search(tok) {
			if !sendResult(ctx, out, r) {
				return
			}
		}

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub.C():
				if !ok {
					return
				}
				if ev.Kind == event.Deleted {
					continue
				}
				rec, found := e.store.Lookup(ev.Path)
				if !found || !rec.HasToken(tok) {
					continue
				}
				if !sendResult(ctx, out, SearchResult{File: ev.Path, Matches: []string{tok}}) {
					return
				}
			}
		}
	}()
	return out
}

// WatchWords emits the full ranked result list for terms once immediately,
// then again after every event that can change it: a create or modify whose
// current token set intersects the query terms, or any delete. The channel
// closes when ctx is cancelled or the engine closes.
func (e *Engine) WatchWords(ctx context.Context, terms []string) <-chan []SearchResult {
	set := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		if tok := e.tok.Normalize(t); tok != "" {
			set[tok] = struct{}{}
		}
	}

	sub := e.bus.Subscribe()
	out := make(chan []SearchResult)

	go func() {
		defer close(out)
		defer sub.Cancel()

		if !sendResults(ctx, out, e.SearchAll(terms)) {
			return
		}

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub.C():
				if !ok {
					return
				}
				if !e.relevant(ev, set) {
					continue
				}
				if !sendResults(ctx, out, e.SearchAll(terms)) {
					return
				}
			}
		}
	}()
	return out
}

// relevant reports whether ev can change the result list for the query term
// set. Deletes always can; creates and modifies only when the path's current
// token set intersects the terms.
func (e *Engine) relevant(ev event.FileEvent, terms map[string]struct{}) bool {
	if ev.Kind == event.Deleted {
		return true
	}
	rec, ok := e.store.Lookup(ev.Path)
	if !ok {
		return false
	}
	for tok := range terms {
		if rec.HasToken(tok) {
			return true
		}
	}
	return false
}

func sendEvent(ctx context.Context, out chan<- event.FileEvent, ev event.FileEvent) bool {
	select {
	case out <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

func sendResult(ctx context.Context, out chan<- SearchResult, r SearchResult) bool {
	select {
	case out <- r:
		return true
	case <-ctx.Done():
		return false
	}
}

func sendResults(ctx context.Context, out chan<- []SearchResult, rs []SearchResult) bool {
	select {
	case out <- rs:
		return true
	case <-ctx.Done():
		return false
	}
}
