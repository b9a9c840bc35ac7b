package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/fsnotify/fsnotify"
)

// FileWatcher reports changes to a set of files. Parent directories are
// watched so that editors which replace a file on save are still seen.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	logger   core.Logger
	debounce time.Duration

	mu    sync.Mutex
	files map[string]struct{}
	dirs  map[string]struct{}
	timer *time.Timer
}

// NewFileWatcher creates a watcher that coalesces bursts of events that
// arrive within debounce of each other. The logger may be nil.
func NewFileWatcher(debounce time.Duration, logger core.Logger) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	return &FileWatcher{
		watcher:  watcher,
		logger:   logger,
		debounce: debounce,
		files:    make(map[string]struct{}),
		dirs:     make(map[string]struct{}),
	}, nil
}

// Watch adds files to the watched set
func (fw *FileWatcher) Watch(files ...string) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	for _, file := range files {
		absPath, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("failed to resolve path %s: %w", file, err)
		}

		dir := filepath.Dir(absPath)
		if _, ok := fw.dirs[dir]; !ok {
			if err := fw.watcher.Add(dir); err != nil {
				return fmt.Errorf("failed to watch %s: %w", dir, err)
			}
			fw.dirs[dir] = struct{}{}
		}
		fw.files[absPath] = struct{}{}
	}

	return nil
}

// Run calls onChange with the last changed file after each burst of changes.
// It blocks until ctx is cancelled or the watcher is closed, and never runs
// two callbacks at once.
func (fw *FileWatcher) Run(ctx context.Context, onChange func(path string)) error {
	changed := make(chan string, 1)

	for {
		select {
		case <-ctx.Done():
			fw.stopTimer()
			return ctx.Err()

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if fw.isWatched(event.Name) {
				fw.schedule(event.Name, changed)
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return nil
			}
			if fw.logger != nil {
				fw.logger.Warningf("Watcher error: %v", err)
			}

		case path := <-changed:
			onChange(path)
		}
	}
}

func (fw *FileWatcher) isWatched(path string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}

	fw.mu.Lock()
	defer fw.mu.Unlock()
	_, ok := fw.files[absPath]
	return ok
}

// schedule restarts the debounce timer for a change to path
func (fw *FileWatcher) schedule(path string, changed chan<- string) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.timer != nil {
		fw.timer.Stop()
	}
	fw.timer = time.AfterFunc(fw.debounce, func() {
		// Drop the notification if one is already queued
		select {
		case changed <- path:
		default:
		}
	})
}

func (fw *FileWatcher) stopTimer() {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	if fw.timer != nil {
		fw.timer.Stop()
	}
}

// Close stops the watcher
func (fw *FileWatcher) Close() error {
	fw.stopTimer()
	return fw.watcher.Close()
}
