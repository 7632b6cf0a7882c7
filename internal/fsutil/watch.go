package fsutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/ComNetsHH/FlowEmu/internal/ctxlog"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses the burst of events an editor save produces.
const DefaultDebounce = 200 * time.Millisecond

// Watcher reports changes to files with a given extension below a set of
// paths. Bursts of events are debounced into one callback.
type Watcher struct {
	fs       *fsnotify.Watcher
	ext      string
	files    map[string]struct{}
	roots    []string
	debounce time.Duration
	onChange func(changed []string)

	mu      sync.Mutex
	pending map[string]struct{}
	timer   *time.Timer
	done    chan struct{}
	stopped sync.WaitGroup
}

// Watch starts watching paths. Directories are watched recursively; a file is
// watched through its parent directory so that editors which save by rename
// are still seen. onChange runs on a timer goroutine with the sorted list of
// changed files.
func Watch(ctx context.Context, paths []string, ext string, debounce time.Duration, onChange func(changed []string)) (*Watcher, error) {
	logger := ctxlog.FromContext(ctx)
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	w := &Watcher{
		fs:       fsw,
		ext:      ext,
		files:    make(map[string]struct{}),
		debounce: debounce,
		onChange: onChange,
		pending:  make(map[string]struct{}),
		done:     make(chan struct{}),
	}
	for _, p := range paths {
		if err := w.add(p); err != nil {
			fsw.Close()
			return nil, err
		}
	}
	logger.Info("👀 Watching configuration for changes.", "paths", paths)

	w.stopped.Add(1)
	go w.loop(ctx)
	return w, nil
}

func (w *Watcher) add(p string) error {
	info, err := os.Stat(p)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", p, err)
	}
	if !info.IsDir() {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		w.files[abs] = struct{}{}
		return w.fs.Add(filepath.Dir(abs))
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return err
	}
	w.roots = append(w.roots, abs)
	return filepath.WalkDir(p, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.fs.Add(path)
		}
		return nil
	})
}

// relevant reports whether an event names a file the watcher reports on:
// an explicitly watched file, or a file with the extension below a watched
// directory.
func (w *Watcher) relevant(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	if _, ok := w.files[abs]; ok {
		return true
	}
	if filepath.Ext(abs) != w.ext {
		return false
	}
	for _, root := range w.roots {
		if strings.HasPrefix(abs, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (w *Watcher) loop(ctx context.Context) {
	defer w.stopped.Done()
	logger := ctxlog.FromContext(ctx)
	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 || !w.relevant(event.Name) {
				continue
			}
			logger.Debug("Configuration file changed.", "file", event.Name, "op", event.Op.String())
			w.schedule(event.Name)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			logger.Error("File watcher error.", "error", err)
		case <-w.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (w *Watcher) schedule(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[name] = struct{}{}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
}

func (w *Watcher) flush() {
	w.mu.Lock()
	changed := make([]string, 0, len(w.pending))
	for name := range w.pending {
		changed = append(changed, name)
	}
	clear(w.pending)
	w.mu.Unlock()
	if len(changed) == 0 {
		return
	}
	slices.Sort(changed)
	w.onChange(changed)
}

// Close stops watching. A pending debounced callback is cancelled.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	select {
	case <-w.done:
		w.mu.Unlock()
		return nil
	default:
		close(w.done)
	}
	w.mu.Unlock()
	err := w.fs.Close()
	w.stopped.Wait()
	return err
}
