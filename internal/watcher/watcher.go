// Package watcher monitors the dataset file and reports when its content
// settles after a change. It never reloads anything itself; the callback
// decides what staleness means.
package watcher

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/streamlens/streamlens-server/internal/logger"
)

// Options configures the watcher.
type Options struct {
	// SettleDelay is how long the file must stay quiet after the last event
	// before the change is reported. Editors and atomic writers produce
	// bursts of events for one logical change.
	SettleDelay time.Duration
}

func (o *Options) setDefaults() {
	if o.SettleDelay == 0 {
		o.SettleDelay = 500 * time.Millisecond
	}
}

// Watcher watches a single file for changes.
type Watcher struct {
	path     string
	onChange func()
	logger   *logger.Logger
	settle   time.Duration
	fsw      *fsnotify.Watcher

	mu    sync.Mutex
	timer *time.Timer

	done     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// New creates a watcher for the file at path. The parent directory is
// watched rather than the file itself, because most writers replace the file
// by rename, which would silently drop a direct watch.
func New(path string, onChange func(), log *logger.Logger, opts Options) (*Watcher, error) {
	opts.setDefaults()

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{
		path:     abs,
		onChange: onChange,
		logger:   log,
		settle:   opts.SettleDelay,
		fsw:      fsw,
		done:     make(chan struct{}),
	}, nil
}

// Start begins processing events in the background.
func (w *Watcher) Start() {
	w.wg.Add(1)
	go w.loop()
	w.logger.Info("watching dataset", "path", w.path, "settle", w.settle)
}

// Stop shuts the watcher down and waits for the event loop to exit. A settle
// timer that has not fired yet is cancelled.
func (w *Watcher) Stop() error {
	w.stopOnce.Do(func() {
		close(w.done)
		w.fsw.Close()
		w.wg.Wait()

		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
	})
	return nil
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			// Every op counts, including Remove: a deleted dataset is a
			// state change the next load has to surface.
			w.logger.Debug("dataset event", "op", event.Op.String())
			w.bump()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.WithError(err).Warn("watch error", "path", w.path)
		}
	}
}

// bump restarts the settle timer. The change fires once the file has been
// quiet for the full settle window.
func (w *Watcher) bump() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.settle, w.fire)
}

func (w *Watcher) fire() {
	select {
	case <-w.done:
		return
	default:
	}
	w.logger.Info("dataset changed", "path", w.path)
	w.onChange()
}
