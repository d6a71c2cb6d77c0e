// Package watcher monitors template backing files and reports which
// template kinds changed, debounced so an editor's save burst triggers one
// cascade instead of many.
package watcher

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/openauthor/embedview/internal/log"
	"github.com/openauthor/embedview/internal/manifest"
)

// Watcher monitors the directories holding template files.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	manifest  manifest.Provider
	debounce  time.Duration
	changed   chan []string
	done      chan struct{}
}

// Config holds watcher configuration options.
type Config struct {
	DebounceDur time.Duration
}

// DefaultConfig returns sensible defaults for the watcher.
func DefaultConfig() Config {
	return Config{
		DebounceDur: 1 * time.Second,
	}
}

// New creates a watcher over the manifest's template files.
func New(m manifest.Provider, cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	return &Watcher{
		fsWatcher: fsw,
		manifest:  m,
		debounce:  cfg.DebounceDur,
		changed:   make(chan []string, 1),
		done:      make(chan struct{}),
	}, nil
}

// Start begins watching every directory that holds a template file.
// Returns a channel that receives the batch of changed kinds after each
// quiet period.
func (w *Watcher) Start() (<-chan []string, error) {
	dirs := make(map[string]struct{})
	for _, entry := range w.manifest.Templates() {
		dirs[filepath.Dir(entry.Path)] = struct{}{}
	}
	for dir := range dirs {
		if err := w.fsWatcher.Add(dir); err != nil {
			return nil, fmt.Errorf("watching directory %s: %w", dir, err)
		}
		log.Debug(log.CatWatcher, "watching directory", "dir", dir)
	}

	go w.loop()

	return w.changed, nil
}

// Stop terminates the watcher and releases resources.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.fsWatcher.Close()
}

// loop collects file events into a pending kind set and flushes it after
// the debounce window closes.
func (w *Watcher) loop() {
	var timer *time.Timer
	pending := make(map[string]struct{})
	var order []string

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			kind, ok := w.kindFor(event)
			if !ok {
				continue
			}
			if _, dup := pending[kind]; !dup {
				pending[kind] = struct{}{}
				order = append(order, kind)
			}

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case <-timerC(timer):
			if len(order) > 0 {
				batch := order
				pending = make(map[string]struct{})
				order = nil
				// Non-blocking send - drop if channel full
				select {
				case w.changed <- batch:
				default:
					log.Warn(log.CatWatcher, "change batch dropped", "kinds", batch)
				}
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.ErrorErr(log.CatWatcher, "watch error", err)

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

func timerC(t *time.Timer) <-chan time.Time {
	if t == nil {
		return nil
	}
	return t.C
}

// kindFor maps a file event to the template kind it affects, if any.
func (w *Watcher) kindFor(event fsnotify.Event) (string, bool) {
	// Saves arrive as writes, or as creates when the editor replaces the
	// file atomically.
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return "", false
	}
	return w.manifest.KindForPath(filepath.Clean(event.Name))
}
