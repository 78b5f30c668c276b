package preview

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	derrors "git.home.luguber.info/inful/malvolio/internal/foundation/errors"
	"git.home.luguber.info/inful/malvolio/internal/logfields"
)

// DefaultDebounce is how long the watcher waits for changes to settle.
const DefaultDebounce = 300 * time.Millisecond

// Watcher calls onChange after files below paths change. Watch blocks until
// ctx is done.
type Watcher interface {
	Watch(ctx context.Context, paths []string, onChange func()) error
}

// FSWatcher watches directory trees with fsnotify. Bursts of events are
// collapsed into one callback.
type FSWatcher struct {
	debounce time.Duration
	logger   *slog.Logger
}

// NewFSWatcher creates a watcher. A non-positive debounce uses DefaultDebounce.
func NewFSWatcher(debounce time.Duration, logger *slog.Logger) *FSWatcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FSWatcher{debounce: debounce, logger: logger}
}

// Watch implements Watcher. Every directory below each path is watched,
// including directories created later.
func (fw *FSWatcher) Watch(ctx context.Context, paths []string, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryServer, "create file watcher").Fatal().Build()
	}
	defer func() { _ = w.Close() }()

	for _, p := range paths {
		if err := fw.addRecursive(w, p); err != nil {
			return err
		}
	}

	trigger, stop := debounced(fw.debounce, onChange)
	defer stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			fw.handle(w, ev, trigger)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			fw.logger.Warn("Watcher error", logfields.Error(err))
		}
	}
}

func (fw *FSWatcher) handle(w *fsnotify.Watcher, ev fsnotify.Event, trigger func()) {
	if shouldIgnoreEvent(ev.Name) {
		return
	}
	if ev.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = fw.addRecursive(w, ev.Name)
		}
	}
	fw.logger.Debug("File change detected", logfields.Path(ev.Name), logfields.Op(ev.Op.String()))
	trigger()
}

// addRecursive watches root and every directory below it. Only a failure on
// root itself is returned.
func (fw *FSWatcher) addRecursive(w *fsnotify.Watcher, root string) error {
	st, err := os.Stat(root)
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "watch path").
			Fatal().
			AtPath(root).
			Build()
	}
	if !st.IsDir() {
		return derrors.FileSystemError(fmt.Sprintf("watch path is not a directory: %s", root)).
			AtPath(root).
			Build()
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && shouldIgnoreEvent(path) {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			fw.logger.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}

// debounced returns a trigger that runs fn once d has passed without another
// trigger, and a stop func that cancels a pending run.
func debounced(d time.Duration, fn func()) (trigger func(), stop func()) {
	var (
		mu      sync.Mutex
		timer   *time.Timer
		stopped bool
	)
	trigger = func() {
		mu.Lock()
		defer mu.Unlock()
		if stopped {
			return
		}
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(d, fn)
	}
	stop = func() {
		mu.Lock()
		defer mu.Unlock()
		stopped = true
		if timer != nil {
			timer.Stop()
		}
	}
	return trigger, stop
}

// shouldIgnoreEvent reports paths that never trigger a rebuild: dotfiles,
// editor swap and backup files, and OS metadata files.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "."):
		return true
	case strings.HasSuffix(base, "~"),
		strings.HasSuffix(base, ".swp"),
		strings.HasSuffix(base, ".swx"),
		strings.HasSuffix(base, ".tmp"):
		return true
	case len(base) > 1 && strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	case base == "Thumbs.db" || base == "4913":
		return true
	}
	return false
}
