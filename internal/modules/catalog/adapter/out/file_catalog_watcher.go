package out

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	catalogout "bodysense/internal/modules/catalog/port/out"
)

const debounceInterval = 250 * time.Millisecond

// FileCatalogWatcher watches a catalog file. The parent directory is
// watched so that editors replacing the file atomically are still seen.
type FileCatalogWatcher struct {
	path     string
	debounce time.Duration
}

func NewFileCatalogWatcher(path string) catalogout.ChangeNotifier {
	return &FileCatalogWatcher{path: filepath.Clean(path), debounce: debounceInterval}
}

// Watch blocks until ctx is done, calling onChange at most once per
// debounce window after the file is written, created or renamed into place.
func (w *FileCatalogWatcher) Watch(ctx context.Context, onChange func()) error {
	fsW, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("new catalog watcher: %w", err)
	}
	defer fsW.Close()
	if err := fsW.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch catalog dir: %w", err)
	}

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsW.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, onChange)
		case err, ok := <-fsW.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("catalog watcher: %w", err)
		}
	}
}
