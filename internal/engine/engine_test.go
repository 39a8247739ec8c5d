package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/EdwardDiehl/file-indexer/internal/testutil"
)

func startedEngine(t *testing.T, roots ...string) *Engine {
	t.Helper()
	e, err := New(WithRoots(roots...))
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(e.Close)
	// Give fsnotify registration a moment before tests mutate the root.
	time.Sleep(100 * time.Millisecond)
	return e
}

func hasFile(results []SearchResult, path string) bool {
	for _, r := range results {
		if r.File == path {
			return true
		}
	}
	return false
}

func TestScanThenSearch(t *testing.T) {
	root := t.TempDir()
	a := testutil.WriteFile(t, root, "a.txt", "hello world kotlin programming")
	b := testutil.WriteFile(t, root, "b.txt", "world java programming language")

	e := startedEngine(t, root)

	got := e.Search("hello")
	if len(got) != 1 || got[0].File != a {
		t.Errorf("search(hello) = %v", got)
	}
	if len(got) == 1 && (len(got[0].Matches) != 1 || got[0].Matches[0] != "hello") {
		t.Errorf("matches = %v", got[0].Matches)
	}

	got = e.Search("world")
	if len(got) != 2 || !hasFile(got, a) || !hasFile(got, b) {
		t.Errorf("search(world) = %v", got)
	}
}

func TestSearchNormalizesTerm(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFile(t, root, "a.txt", "hello world")

	e := startedEngine(t, root)

	if got := e.Search("  HELLO "); len(got) != 1 {
		t.Errorf("search with unnormalized term = %v", got)
	}
	if got := e.Search(""); got != nil {
		t.Errorf("search of empty term = %v", got)
	}
}

func TestRankedMultiTermSearch(t *testing.T) {
	root := t.TempDir()
	a := testutil.WriteFile(t, root, "a.txt", "hello world kotlin programming")
	b := testutil.WriteFile(t, root, "b.txt", "world java programming language")
	c := testutil.WriteFile(t, root, "sub/c.txt", "kotlin coroutines async programming")

	e := startedEngine(t, root)

	got := e.SearchAll([]string{"programming", "kotlin"})
	if len(got) != 3 {
		t.Fatalf("results = %v", got)
	}
	// a and c match both terms and precede b, which matches one.
	if len(got[0].Matches) != 2 || len(got[1].Matches) != 2 || len(got[2].Matches) != 1 {
		t.Errorf("match counts = %d %d %d", len(got[0].Matches), len(got[1].Matches), len(got[2].Matches))
	}
	if !hasFile(got[:2], a) || !hasFile(got[:2], c) || got[2].File != b {
		t.Errorf("order = %v", got)
	}
}

func TestSearchAllEmptyAndDuplicateTerms(t *testing.T) {
	root := t.TempDir()
	a := testutil.WriteFile(t, root, "a.txt", "hello world")

	e := startedEngine(t, root)

	if got := e.SearchAll(nil); got != nil {
		t.Errorf("empty query = %v", got)
	}
	got := e.SearchAll([]string{"hello", "HELLO", " hello "})
	if len(got) != 1 || got[0].File != a || len(got[0].Matches) != 1 {
		t.Errorf("deduplicated query = %v", got)
	}
}

func TestFilterExclusion(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFile(t, root, "e.json", "json data structure")

	e := startedEngine(t, root)

	if got := e.Search("json"); len(got) != 0 {
		t.Errorf("search(json) = %v", got)
	}
	if got := e.Search("structure"); len(got) != 0 {
		t.Errorf("search(structure) = %v", got)
	}
}

func TestLiveCreate(t *testing.T) {
	root := t.TempDir()
	e := startedEngine(t, root)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := e.WatchChanges(ctx)

	path := testutil.WriteFile(t, root, "new.txt", "new content")

	deadline := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				t.Fatal("event stream closed")
			}
			if ev.Path != path {
				continue
			}
			// Platform coalescing may deliver Created or Modified first;
			// either satisfies the contract.
			testutil.Eventually(t, 2*time.Second, 20*time.Millisecond, func() bool {
				return len(e.Search("new")) == 1
			}, "created file not searchable")
			return
		case <-deadline:
			t.Fatal("no event for created file")
		}
	}
}

func TestDeleteCleanup(t *testing.T) {
	root := t.TempDir()
	a := testutil.WriteFile(t, root, "a.txt", "hello world kotlin programming")
	b := testutil.WriteFile(t, root, "b.txt", "world java programming language")

	e := startedEngine(t, root)

	if err := os.Remove(a); err != nil {
		t.Fatal(err)
	}

	testutil.Eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return len(e.Search("hello")) == 0
	}, "search(hello) not emptied by delete")

	got := e.Search("world")
	if len(got) != 1 || got[0].File != b {
		t.Errorf("search(world) after delete = %v", got)
	}
	if _, ok := e.Lookup(a); ok {
		t.Error("deleted file still in forward map")
	}
}

func TestStartTwiceFails(t *testing.T) {
	e, err := New(WithRoots(t.TempDir()))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(e.Close)

	if err := e.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := e.Start(context.Background()); err == nil {
		t.Error("second start should fail")
	}
}

func TestStopKeepsIndex(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFile(t, root, "a.txt", "hello")

	e := startedEngine(t, root)
	e.Stop()
	e.Stop() // idempotent

	if got := e.Search("hello"); len(got) != 1 {
		t.Errorf("index lost on stop: %v", got)
	}

	// Changes after stop are not observed.
	testutil.WriteFile(t, root, "late.txt", "late")
	time.Sleep(300 * time.Millisecond)
	if got := e.Search("late"); len(got) != 0 {
		t.Errorf("stopped engine indexed a change: %v", got)
	}
}

func TestCloseClearsIndexAndSubscriptions(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFile(t, root, "a.txt", "hello")

	e := startedEngine(t, root)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := e.WatchChanges(ctx)

	e.Close()
	e.Close() // idempotent

	if got := e.Search("hello"); len(got) != 0 {
		t.Errorf("search after close = %v", got)
	}
	if e.IndexedFiles() != 0 {
		t.Errorf("indexed files after close = %d", e.IndexedFiles())
	}

	select {
	case _, ok := <-events:
		if ok {
			t.Error("subscription delivered after close")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("subscription not terminated by close")
	}
}

func TestEngineWithNoRoots(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(e.Close)

	if err := e.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := e.Search("anything"); len(got) != 0 {
		t.Errorf("empty engine returned %v", got)
	}
}

func TestLookup(t *testing.T) {
	root := t.TempDir()
	a := testutil.WriteFile(t, root, "a.txt", "hello world")

	e := startedEngine(t, root)

	rec, ok := e.Lookup(a)
	if !ok {
		t.Fatal("lookup failed")
	}
	if rec.File != a || len(rec.Tokens) != 2 {
		t.Errorf("record = %+v", rec)
	}
	if _, ok := e.Lookup(filepath.Join(root, "nope.txt")); ok {
		t.Error("lookup of unindexed path succeeded")
	}
}
