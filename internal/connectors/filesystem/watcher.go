package filesystem

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
	"github.com/custodia-labs/recall-cli/internal/core/ports/driving"
	"github.com/custodia-labs/recall-cli/internal/logger"
)

// Watcher re-indexes files under a connector root as they change.
// Events are throttled through a token bucket so editor save storms
// collapse into the content-hash skip path instead of flooding the
// store.
type Watcher struct {
	connector *Connector
	indexer   driving.IndexService
	limiter   *rate.Limiter
	fswatcher *fsnotify.Watcher
}

// NewWatcher creates a watcher over the connector's root directory.
func NewWatcher(connector *Connector, indexer driving.IndexService) (*Watcher, error) {
	fswatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		connector: connector,
		indexer:   indexer,
		limiter:   rate.NewLimiter(rate.Limit(10), 20),
		fswatcher: fswatcher,
	}, nil
}

// Run watches the tree until the context is cancelled. Subdirectories
// created while running are added to the watch set.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.watchTree(w.connector.RootPath()); err != nil {
		return err
	}
	logger.Info("Watching %s", w.connector.RootPath())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fswatcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)

		case err, ok := <-w.fswatcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watch error: %v", err)
		}
	}
}

// Close stops the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	return w.fswatcher.Close()
}

// watchTree registers the directory and every non-hidden subdirectory.
func (w *Watcher) watchTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.fswatcher.Add(path)
	})
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") {
		return
	}

	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		w.deleteFile(ctx, event.Name)
		return
	}

	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		// Gone again before we got to it.
		return
	}

	if info.IsDir() {
		if event.Has(fsnotify.Create) {
			if err := w.watchTree(event.Name); err != nil {
				logger.Warn("Failed to watch %s: %v", event.Name, err)
			}
		}
		return
	}

	w.indexFile(ctx, event.Name)
}

func (w *Watcher) indexFile(ctx context.Context, path string) {
	if err := w.limiter.Wait(ctx); err != nil {
		return
	}

	file, ok := w.connector.load(path)
	if !ok {
		return
	}

	result, err := w.indexer.IndexDocument(ctx, file.SourceID, file.Content)
	switch {
	case errors.Is(err, domain.ErrNoContent):
		logger.Debug("No indexable content in %s", path)
	case err != nil:
		logger.Warn("Failed to index %s: %v", path, err)
	case result.Changed:
		logger.Info("Re-indexed %s (%d chunks)", path, result.ChunkCount)
	default:
		logger.Debug("Unchanged: %s", path)
	}
}

func (w *Watcher) deleteFile(ctx context.Context, path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}

	deleted, err := w.indexer.DeleteSource(ctx, SourceIDFor(abs))
	if err != nil {
		logger.Warn("Failed to delete %s: %v", path, err)
		return
	}
	if deleted > 0 {
		logger.Info("Removed %s (%d chunks)", path, deleted)
	}
}
