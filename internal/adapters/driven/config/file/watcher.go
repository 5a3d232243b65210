package file

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/docqa/internal/logger"
)

// PromptWatcher invalidates the prompt cache when a prompt file changes on
// disk, so edits take effect on the next question without a restart.
type PromptWatcher struct {
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// WatchPrompts starts watching the store's prompt directory. The directory
// is created first if needed, since fsnotify cannot watch a missing path.
func WatchPrompts(store *PromptStore) (*PromptWatcher, error) {
	// The directory must exist before fsnotify can watch it.
	if err := store.Init(); err != nil {
		return nil, fmt.Errorf("initialise prompt directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(store.Dir()); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch prompt directory: %w", err)
	}

	w := &PromptWatcher{
		watcher: watcher,
		done:    make(chan struct{}),
	}
	go w.run(store)
	return w, nil
}

// run consumes filesystem events until Close.
func (w *PromptWatcher) run(store *PromptStore) {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !strings.HasSuffix(event.Name, ".txt") {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			logger.Info("prompt file changed: %s", event.Name)
			store.Reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("prompt watcher error: %v", err)

		case <-w.done:
			return
		}
	}
}

// Close stops watching.
func (w *PromptWatcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
