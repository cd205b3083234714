package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/chime/internal/logging"
)

// DefaultDebounce coalesces the event bursts editors produce when
// saving a file.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reloads the configuration when its file changes on disk.
// Reload failures keep the previous configuration.
type Watcher struct {
	path     string
	debounce time.Duration
	log      *logging.Logger
	fsw      *fsnotify.Watcher
	reload   func(Config)

	closeCh   chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// WatchFile watches path and invokes reload with each successfully
// parsed configuration. The callback runs on the watcher goroutine.
func WatchFile(path string, debounce time.Duration, log *logging.Logger, reload func(Config)) (*Watcher, error) {
	if log == nil {
		log = logging.Null
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config watcher: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config watcher: %w", err)
	}

	// Watch the directory rather than the file: editors replace files
	// by rename, which silently drops a watch on the file itself.
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("config watcher: %w", err)
	}

	w := &Watcher{
		path:     abs,
		debounce: debounce,
		log:      log,
		fsw:      fsw,
		reload:   reload,
		closeCh:  make(chan struct{}),
	}

	w.wg.Add(1)
	go w.loop()

	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.closeCh)
		err = w.fsw.Close()
		w.wg.Wait()
	})
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) {
				continue
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
			fire = timer.C

		case <-fire:
			fire = nil
			w.reloadNow()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("config watcher: %v", err)
		}
	}
}

// reloadNow re-reads the file. A transiently missing file (the window
// of an atomic replace) is skipped, not treated as defaults.
func (w *Watcher) reloadNow() {
	data, err := os.ReadFile(w.path)
	if err != nil {
		w.log.Warn("config reload: %v", err)
		return
	}
	cfg, err := Parse(w.path, data)
	if err != nil {
		w.log.Warn("config reload: %v", err)
		return
	}
	w.log.Debug("config reloaded from %s", w.path)
	w.reload(cfg)
}
