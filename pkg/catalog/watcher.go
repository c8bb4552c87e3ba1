package catalog

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"github.com/harun/rcrm/pkg/toolregistry"
	"github.com/rs/zerolog"
)

// ReloadFunc receives a freshly built registry after the catalog file changed
type ReloadFunc func(reg *toolregistry.Registry)

// Watcher rebuilds the registry whenever a catalog file changes.
// A registry is never mutated in place: each reload produces a new one.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	logger   zerolog.Logger
	onReload ReloadFunc
	onError  func(error)
	debounce time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once

	mu    sync.Mutex
	timer *time.Timer
}

// NewWatcher starts watching path. Events on the containing directory are
// filtered by file name so editors that replace the file are handled.
func NewWatcher(path string, logger zerolog.Logger, onReload ReloadFunc) (*Watcher, error) {
	if onReload == nil {
		return nil, errors.New("reload callback is required")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve %s", path)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create file watcher")
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, errors.Wrapf(err, "failed to watch %s", filepath.Dir(abs))
	}

	w := &Watcher{
		path:     abs,
		watcher:  fsw,
		logger:   logger,
		onReload: onReload,
		onError:  func(error) {},
		debounce: 250 * time.Millisecond,
		stopCh:   make(chan struct{}),
	}

	go w.run()

	return w, nil
}

// OnError registers a callback invoked when a changed catalog cannot be loaded
func (w *Watcher) OnError(fn func(error)) {
	if fn != nil {
		w.onError = fn
	}
}

// SetDebounce changes the quiet period before a reload
func (w *Watcher) SetDebounce(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.debounce = d
}

// Stop stops the watcher
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.logger.Debug().
					Str("file", filepath.Base(event.Name)).
					Str("op", event.Op.String()).
					Msg("Catalog change detected")
				w.scheduleReload()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error().Err(err).Msg("Catalog watcher error")

		case <-w.stopCh:
			return
		}
	}
}

func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	select {
	case <-w.stopCh:
		return
	default:
	}

	tools, err := LoadFile(w.path)
	if err != nil {
		w.logger.Error().
			Err(err).
			Str("file", w.path).
			Msg("Catalog reload failed, keeping previous registry")
		w.onError(err)
		return
	}

	reg := toolregistry.New(tools, toolregistry.WithLogger(w.logger))
	w.logger.Info().
		Str("file", w.path).
		Int("tools", reg.Len()).
		Msg("Catalog reloaded")
	w.onReload(reg)
}
