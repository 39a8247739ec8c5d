package index

import (
	"context"
	"log/slog"
	"os"

	"github.com/fsnotify/fsnotify"

	"github.com/EdwardDiehl/file-indexer/internal/event"
)

// EventCallback is called after a watcher-driven index change with the
// semantic event. The index side-effect is already applied when it runs.
type EventCallback func(ev event.FileEvent)

// Watch registers each root that is a directory with fsnotify and processes
// change events until ctx is cancelled. Only the roots themselves are
// watched; subdirectories created at runtime are not added.
//
// Per-root registration failures are logged and skipped; the loop runs with
// whatever registrations succeeded.
func Watch(ctx context.Context, ix *Indexer, roots []string, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	registered := 0
	for _, root := range roots {
		info, statErr := os.Stat(root)
		if statErr != nil || !info.IsDir() {
			continue
		}
		if addErr := w.Add(root); addErr != nil {
			logger.Warn("watch: register failed", slog.String("root", root), slog.String("error", addErr.Error()))
			continue
		}
		registered++
	}

	logger.Info("watch: started", slog.Int("roots", registered))

	for {
		select {
		case <-ctx.Done():
			logger.Info("watch: stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			ix.apply(ev, logger, cb)

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watch: error", slog.String("error", watchErr.Error()))
		}
	}
}

// apply maps one raw fsnotify event to its semantic kind, performs the index
// side-effect, and then invokes cb. Events for filtered paths are dropped.
// A create/modify whose file vanished in a race leaves the index as-is but
// still publishes the event.
func (ix *Indexer) apply(ev fsnotify.Event, logger *slog.Logger, cb EventCallback) {
	path := ev.Name
	if !ix.filter(path) {
		return
	}

	var kind event.Kind
	switch {
	case ev.Op&fsnotify.Create != 0:
		kind = event.Created
		ix.IndexFile(path)
	case ev.Op&fsnotify.Write != 0:
		kind = event.Modified
		ix.IndexFile(path)
	case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		// fsnotify fires Rename on the old path only; the new path arrives
		// as a separate Create if it lands in a watched root.
		kind = event.Deleted
		ix.store.Remove(path)
	default:
		return
	}

	logger.Debug("watch: applied", slog.String("op", kind.String()), slog.String("path", path))
	if cb != nil {
		cb(event.FileEvent{Kind: kind, Path: path})
	}
}
